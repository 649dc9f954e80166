package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/Semicile17/Campus-Connect/internal/model"
)

var (
	// ErrTokenInvalid covers every verification failure: expired, malformed,
	// tampered, wrong issuer or unknown role. Callers must not distinguish.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrServerMisconfigured is returned when no signing secret is configured.
	ErrServerMisconfigured = errors.New("signing secret not configured")
)

// Identity is what a session token asserts about its bearer.
type Identity struct {
	UserID string
	Role   model.Role
	Email  string
}

type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type IssuerOption func(*Issuer)

// WithClock replaces time.Now for issuing and verifying tokens.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.now = now
	}
}

func NewIssuer(secret, issuer string, ttl time.Duration, opts ...IssuerOption) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	i := &Issuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Issuer) Configured() bool {
	return len(i.secret) > 0
}

func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

func (i *Issuer) Issue(identity Identity) (string, error) {
	if !i.Configured() {
		return "", ErrServerMisconfigured
	}
	now := i.now().UTC()
	claims := Claims{
		UserID: identity.UserID,
		Role:   string(identity.Role),
		Email:  identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Verify checks signature, issuer, expiry and role. The returned error always
// matches ErrTokenInvalid; its text carries the cause for logs only.
func (i *Issuer) Verify(tokenString string) (Identity, error) {
	if !i.Configured() {
		return Identity{}, errors.WithMessage(ErrTokenInvalid, ErrServerMisconfigured.Error())
	}
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		options = append(options, jwt.WithIssuer(i.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, options...)
	if err != nil {
		return Identity{}, errors.WithMessage(ErrTokenInvalid, err.Error())
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, errors.WithMessage(ErrTokenInvalid, jwt.ErrTokenInvalidClaims.Error())
	}
	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return Identity{}, errors.WithMessage(ErrTokenInvalid, err.Error())
	}
	if claims.UserID == "" {
		return Identity{}, errors.WithMessage(ErrTokenInvalid, "missing subject")
	}
	return Identity{UserID: claims.UserID, Role: role, Email: claims.Email}, nil
}
