package model

import (
	"strings"

	"github.com/pkg/errors"
)

// Role is the closed set of portals a user can belong to.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

var ErrUnknownRole = errors.New("unknown role")

// Roles lists every role in a stable order.
func Roles() []Role {
	return []Role{RoleStudent, RoleFaculty, RoleAdmin}
}

func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleFaculty:
		return RoleFaculty, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", errors.Wrapf(ErrUnknownRole, "%q", value)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}
