package http

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/Semicile17/Campus-Connect/internal/model"
	"github.com/Semicile17/Campus-Connect/internal/repository"
)

type createAnnouncementRequest struct {
	Title    string  `json:"title" validate:"notblank,max=255"`
	Content  string  `json:"content" validate:"notblank"`
	Kind     string  `json:"type" validate:"notblank,max=32"`
	Priority string  `json:"priority" validate:"priority"`
	CourseID *string `json:"courseId"`
}

func (s *Server) handleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req createAnnouncementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if !s.validate(w, req) {
		return
	}
	announcement := model.Announcement{
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Kind:     strings.TrimSpace(req.Kind),
		Priority: model.Priority(req.Priority),
		AuthorID: userFromContext(r.Context()).ID,
	}
	if req.CourseID != nil && strings.TrimSpace(*req.CourseID) != "" {
		courseID := strings.TrimSpace(*req.CourseID)
		announcement.CourseID = &courseID
	}
	if err := s.store.CreateAnnouncement(r.Context(), &announcement); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			writeError(w, http.StatusBadRequest, "invalid_course")
			return
		}
		s.logger.Error("create announcement", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusCreated, announcement)
}

func (s *Server) handleFacultyAnnouncements(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListAnnouncementsByAuthor(r.Context(), userFromContext(r.Context()).ID)
	if err != nil {
		s.logger.Error("list announcements", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStudentAnnouncements(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	course := ""
	if user.Student != nil {
		course = user.Student.Course
	}
	out, err := s.store.ListAnnouncements(r.Context(), course)
	if err != nil {
		s.logger.Error("list announcements", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}
