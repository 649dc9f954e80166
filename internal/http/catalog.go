package http

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/Semicile17/Campus-Connect/internal/model"
	"github.com/Semicile17/Campus-Connect/internal/repository"
)

// handlePublicCourses serves the course list through the catalog cache.
// Cache failures are logged and the store answers instead.
func (s *Server) handlePublicCourses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	courses, ok, err := s.catalog.Courses(ctx)
	if err != nil {
		s.logger.Warn("catalog cache read", "error", err)
	}
	if ok {
		writeJSON(w, http.StatusOK, courses)
		return
	}

	courses, err = s.store.ListCourses(ctx, false)
	if err != nil {
		s.logger.Error("list courses", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if err := s.catalog.StoreCourses(ctx, courses); err != nil {
		s.logger.Warn("catalog cache write", "error", err)
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.store.ListCourses(r.Context(), true)
	if err != nil {
		s.logger.Error("list courses", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

type createCourseRequest struct {
	Name           string `json:"name" validate:"notblank"`
	DurationYears  int    `json:"durationYears" validate:"required,min=1,max=10"`
	Department     string `json:"department" validate:"notblank"`
	TotalSemesters int    `json:"totalSemesters" validate:"required,min=1,max=20"`
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if !s.validate(w, req) {
		return
	}
	course := model.Course{
		Name:           strings.TrimSpace(req.Name),
		DurationYears:  req.DurationYears,
		Department:     strings.TrimSpace(req.Department),
		TotalSemesters: req.TotalSemesters,
	}
	if err := s.store.CreateCourse(r.Context(), &course); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusConflict, "course_exists")
			return
		}
		s.logger.Error("create course", "error", err)
		writeError(w, http.StatusInternalServerError, "course_create_failed")
		return
	}
	if err := s.catalog.Invalidate(r.Context()); err != nil {
		s.logger.Warn("catalog cache invalidate", "error", err)
	}
	writeJSON(w, http.StatusCreated, course)
}

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.store.ListSubjects(r.Context())
	if err != nil {
		s.logger.Error("list subjects", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

type createSubjectRequest struct {
	Name      string  `json:"name" validate:"notblank"`
	Code      string  `json:"code" validate:"notblank"`
	Semester  int     `json:"semester" validate:"required,min=1,max=20"`
	CourseID  string  `json:"courseId" validate:"required"`
	FacultyID *string `json:"facultyId"`
}

func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var req createSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if !s.validate(w, req) {
		return
	}
	subject := model.Subject{
		Name:     strings.TrimSpace(req.Name),
		Code:     strings.ToUpper(strings.TrimSpace(req.Code)),
		Semester: req.Semester,
		CourseID: req.CourseID,
	}
	if req.FacultyID != nil && strings.TrimSpace(*req.FacultyID) != "" {
		facultyID := strings.TrimSpace(*req.FacultyID)
		subject.FacultyID = &facultyID
	}

	if err := s.store.CreateSubject(r.Context(), &subject); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidReference):
			writeError(w, http.StatusBadRequest, "invalid_reference")
		case errors.Is(err, repository.ErrDuplicate):
			writeError(w, http.StatusConflict, "subject_exists")
		default:
			s.logger.Error("create subject", "error", err)
			writeError(w, http.StatusInternalServerError, "subject_create_failed")
		}
		return
	}
	writeJSON(w, http.StatusCreated, subject)
}
