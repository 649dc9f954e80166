package http

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/Semicile17/Campus-Connect/internal/model"
	"github.com/Semicile17/Campus-Connect/internal/repository"
	"github.com/Semicile17/Campus-Connect/internal/validation"
)

func (s *Server) handleFacultySubjects(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	subjects, err := s.store.ListSubjectsByFaculty(r.Context(), user.ID)
	if err != nil {
		s.logger.Error("list faculty subjects", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

type attendanceEntry struct {
	StudentID string `json:"studentId" validate:"required"`
	Status    string `json:"status" validate:"attendance_status"`
}

type markAttendanceRequest struct {
	SubjectID string            `json:"subjectId" validate:"required"`
	Date      string            `json:"date" validate:"isodate"`
	Records   []attendanceEntry `json:"records" validate:"required,min=1,dive"`
}

type markAttendanceResponse struct {
	Success bool   `json:"success"`
	Marked  int    `json:"marked"`
	Date    string `json:"date"`
}

func (s *Server) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req markAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if !s.validate(w, req) {
		return
	}
	user := userFromContext(r.Context())
	if !s.ownsSubject(w, r, req.SubjectID, user.ID) {
		return
	}

	entries := make([]repository.AttendanceEntry, 0, len(req.Records))
	for _, rec := range req.Records {
		entries = append(entries, repository.AttendanceEntry{
			StudentID: strings.TrimSpace(rec.StudentID),
			Status:    model.AttendanceStatus(rec.Status),
		})
	}
	records, err := s.store.MarkAttendance(r.Context(), req.SubjectID, req.Date, user.ID, entries)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			writeError(w, http.StatusBadRequest, "invalid_student")
			return
		}
		s.logger.Error("mark attendance", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, markAttendanceResponse{Success: true, Marked: len(records), Date: req.Date})
}

func (s *Server) handleSubjectAttendance(w http.ResponseWriter, r *http.Request) {
	subjectID := strings.TrimSpace(r.URL.Query().Get("subjectId"))
	if subjectID == "" {
		writeError(w, http.StatusBadRequest, "missing_subject_id")
		return
	}
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date != "" && !validation.ValidDate(date) {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	if !s.ownsSubject(w, r, subjectID, userFromContext(r.Context()).ID) {
		return
	}
	records, err := s.store.ListAttendanceBySubject(r.Context(), subjectID, date)
	if err != nil {
		s.logger.Error("list attendance", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// ownsSubject writes the error response and returns false unless facultyID
// teaches the subject.
func (s *Server) ownsSubject(w http.ResponseWriter, r *http.Request, subjectID, facultyID string) bool {
	subject, err := s.store.GetSubject(r.Context(), subjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "subject_not_found")
			return false
		}
		s.logger.Error("get subject", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return false
	}
	if subject.FacultyID == nil || *subject.FacultyID != facultyID {
		writeError(w, http.StatusForbidden, "not_subject_faculty")
		return false
	}
	return true
}

type studentAttendanceResponse struct {
	Records []model.AttendanceRecord       `json:"records"`
	Summary []repository.AttendanceSummary `json:"summary"`
}

func (s *Server) handleStudentAttendance(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	records, summary, err := s.store.StudentAttendance(r.Context(), user.ID)
	if err != nil {
		s.logger.Error("student attendance", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, studentAttendanceResponse{Records: records, Summary: summary})
}
