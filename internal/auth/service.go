package auth

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/Semicile17/Campus-Connect/internal/crypto"
	"github.com/Semicile17/Campus-Connect/internal/model"
	"github.com/Semicile17/Campus-Connect/internal/repository"
)

var (
	ErrMissingCredential = errors.New("email and password are required")
	ErrUnknownAccount    = errors.New("user not found")
	ErrWrongPassword     = errors.New("invalid password")
)

// CredentialStore looks up accounts. repository.ErrNotFound signals absence.
type CredentialStore interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id string) (model.User, error)
}

// Session is the outcome of a successful login.
type Session struct {
	Token string
	Role  model.Role
	User  model.User
}

type Service struct {
	store  CredentialStore
	issuer *Issuer
}

func NewService(store CredentialStore, issuer *Issuer) *Service {
	return &Service{store: store, issuer: issuer}
}

func (s *Service) Issuer() *Issuer {
	return s.issuer
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrMissingCredential
	}
	// Checked before the lookup so a misconfigured server answers the same
	// way for every account.
	if !s.issuer.Configured() {
		return Session{}, ErrServerMisconfigured
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrUnknownAccount
		}
		return Session{}, errors.Wrap(err, "lookup user")
	}
	if err := crypto.CheckPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrWrongPassword
	}

	token, err := s.issuer.Issue(Identity{UserID: user.ID, Role: user.Role, Email: user.Email})
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Role: user.Role, User: user}, nil
}

// CurrentUser decodes the token and loads the account it names. There is no
// cache: every call reads the store.
func (s *Service) CurrentUser(ctx context.Context, token string) (model.User, Identity, error) {
	identity, err := s.issuer.Verify(token)
	if err != nil {
		return model.User{}, Identity{}, err
	}
	user, err := s.store.GetUserByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, Identity{}, errors.WithMessage(ErrTokenInvalid, "subject no longer exists")
		}
		return model.User{}, Identity{}, errors.Wrap(err, "load user")
	}
	return user, identity, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
