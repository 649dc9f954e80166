package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/Semicile17/Campus-Connect/internal/auth"
	"github.com/Semicile17/Campus-Connect/internal/crypto"
	"github.com/Semicile17/Campus-Connect/internal/model"
	"github.com/Semicile17/Campus-Connect/internal/repository"
)

type addStudentRequest struct {
	Name         string   `json:"name" validate:"notblank"`
	Email        string   `json:"email" validate:"required,email"`
	Password     string   `json:"password" validate:"required,max=72"`
	EnrollmentNo string   `json:"enrollmentNo" validate:"notblank"`
	Course       string   `json:"course" validate:"notblank"`
	Year         int      `json:"year" validate:"required,min=1,max=8"`
	Semester     int      `json:"semester" validate:"required,min=1,max=16"`
	CGPA         *float64 `json:"cgpa" validate:"omitempty,min=0,max=10"`
	PhotoURL     *string  `json:"photoUrl" validate:"omitempty,url"`
}

type addFacultyRequest struct {
	Name           string   `json:"name" validate:"notblank"`
	Email          string   `json:"email" validate:"required,email"`
	Password       string   `json:"password" validate:"required,max=72"`
	Department     string   `json:"department" validate:"notblank"`
	Designation    string   `json:"designation" validate:"notblank"`
	SubjectsTaught []string `json:"subjectsTaught"`
}

type addAdminRequest struct {
	Name        string   `json:"name" validate:"notblank"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,max=72"`
	Department  string   `json:"department"`
	Designation string   `json:"designation" validate:"notblank"`
	Permissions []string `json:"permissions"`
}

func (s *Server) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	var req addStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = auth.NormalizeEmail(req.Email)
	if !s.validate(w, req) {
		return
	}
	s.createUser(w, r, repository.NewUser{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
		Role:     model.RoleStudent,
		Student: &model.StudentProfile{
			EnrollmentNo: strings.TrimSpace(req.EnrollmentNo),
			Course:       strings.TrimSpace(req.Course),
			Year:         req.Year,
			Semester:     req.Semester,
			CGPA:         req.CGPA,
			PhotoURL:     req.PhotoURL,
		},
	})
}

func (s *Server) handleAddFaculty(w http.ResponseWriter, r *http.Request) {
	var req addFacultyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = auth.NormalizeEmail(req.Email)
	if !s.validate(w, req) {
		return
	}
	s.createUser(w, r, repository.NewUser{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
		Role:     model.RoleFaculty,
		Faculty: &model.FacultyProfile{
			Department:     strings.TrimSpace(req.Department),
			Designation:    strings.TrimSpace(req.Designation),
			SubjectsTaught: req.SubjectsTaught,
		},
	})
}

func (s *Server) handleAddAdmin(w http.ResponseWriter, r *http.Request) {
	var req addAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = auth.NormalizeEmail(req.Email)
	if !s.validate(w, req) {
		return
	}
	s.createUser(w, r, repository.NewUser{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
		Role:     model.RoleAdmin,
		Admin: &model.AdminProfile{
			Department:  strings.TrimSpace(req.Department),
			Designation: strings.TrimSpace(req.Designation),
			Permissions: req.Permissions,
		},
	})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request, in repository.NewUser) {
	user, err := s.store.CreateUser(r.Context(), in)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusConflict, "user_exists")
			return
		}
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			writeError(w, http.StatusBadRequest, "password_too_long")
			return
		}
		s.logger.Error("create user", "role", in.Role, "error", err)
		writeError(w, http.StatusInternalServerError, "user_create_failed")
		return
	}
	s.logger.Info("user created", "user_id", user.ID, "role", user.Role, "by", userFromContext(r.Context()).ID)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	var role model.Role
	if raw := r.URL.Query().Get("role"); raw != "" {
		parsed, err := model.ParseRole(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_role")
			return
		}
		role = parsed
	}
	users, err := s.store.ListUsers(r.Context(), role)
	if err != nil {
		s.logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing_user_id")
		return
	}
	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found")
			return
		}
		s.logger.Error("get user", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing_user_id")
		return
	}
	if userID == userFromContext(r.Context()).ID {
		writeError(w, http.StatusBadRequest, "cannot_delete_self")
		return
	}
	deleted, err := s.store.DeleteUser(r.Context(), userID)
	if err != nil {
		s.logger.Error("delete user", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "user_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type facultySummary struct {
	ID          string          `json:"id"`
	ProfileID   string          `json:"profileId"`
	Department  string          `json:"department"`
	Designation string          `json:"designation"`
	User        facultyContacts `json:"user"`
}

type facultyContacts struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleListFaculty(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListFaculty(r.Context())
	if err != nil {
		s.logger.Error("list faculty", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	out := make([]facultySummary, 0, len(users))
	for _, u := range users {
		summary := facultySummary{ID: u.ID, User: facultyContacts{Name: u.Name, Email: u.Email}}
		if u.Faculty != nil {
			summary.ProfileID = u.Faculty.ID
			summary.Department = u.Faculty.Department
			summary.Designation = u.Faculty.Designation
		}
		out = append(out, summary)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context(), model.RoleStudent)
	if err != nil {
		s.logger.Error("list students", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}
