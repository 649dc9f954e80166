package http

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Semicile17/Campus-Connect/internal/auth"
	"github.com/Semicile17/Campus-Connect/internal/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse.Token is a convenience copy for clients. Only the cookie is
// ever read back.
type loginResponse struct {
	Success bool       `json:"success"`
	Role    model.Role `json:"role"`
	Token   string     `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "auth.login")
	defer span.End()

	var req loginRequest
	if err := decodeLooseJSON(r, &req); err != nil {
		s.metrics.Login("invalid_request")
		span.SetStatus(codes.Error, "invalid_request")
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	sess, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		status, code := loginFailure(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("login failed", "error", err)
		}
		s.metrics.Login(code)
		span.SetStatus(codes.Error, code)
		writeError(w, status, code)
		return
	}

	span.SetAttributes(attribute.String("campus.role", sess.Role.String()))
	s.metrics.Login("success")
	s.carrier.Set(w, sess.Token)
	writeJSON(w, http.StatusOK, loginResponse{Success: true, Role: sess.Role, Token: sess.Token})
}

func loginFailure(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrMissingCredential):
		return http.StatusBadRequest, "missing_credentials"
	case errors.Is(err, auth.ErrServerMisconfigured):
		return http.StatusInternalServerError, "server_misconfigured"
	case errors.Is(err, auth.ErrUnknownAccount):
		return http.StatusNotFound, "user_not_found"
	case errors.Is(err, auth.ErrWrongPassword):
		return http.StatusUnauthorized, "invalid_password"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}

// handleLogout always succeeds; clearing an absent cookie is harmless.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.carrier.Clear(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "logged out"})
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFromContext(r.Context()))
}

// authMiddleware resolves the account named by the session cookie. API
// routes are not gated, so this is their only identity check.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := s.carrier.Token(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}

		user, _, err := s.auth.CurrentUser(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenInvalid) {
				s.logger.Info("session token rejected", "path", r.URL.Path, "reason", err.Error())
				s.carrier.Clear(w)
				writeError(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			s.logger.Error("load session user", "error", err)
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := userFromContext(r.Context())
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "forbidden")
		})
	}
}

type userKey struct{}

func userFromContext(ctx context.Context) model.User {
	user, _ := ctx.Value(userKey{}).(model.User)
	return user
}
