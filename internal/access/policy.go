package access

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Semicile17/Campus-Connect/internal/model"
)

var ErrInvalidPolicy = errors.New("invalid access policy")

// Grant is what one role may reach. Landing is where a signed-in user of the
// role is sent from public pages; it must sit under one of Prefixes.
type Grant struct {
	Landing  string   `yaml:"landing"`
	Prefixes []string `yaml:"prefixes"`
}

// Policy has one field per role so adding a role is a compile error until
// it gets a grant.
type Policy struct {
	Student Grant `yaml:"student"`
	Faculty Grant `yaml:"faculty"`
	Admin   Grant `yaml:"admin"`
}

func DefaultPolicy() Policy {
	return Policy{
		Student: Grant{
			Landing: "/dashboard/student",
			Prefixes: []string{
				"/dashboard/student",
				"/dashboard/student/attendance",
				"/dashboard/student/backlogs",
				"/dashboard/student/profile",
				"/dashboard/student/results",
				"/dashboard/student/announcements",
			},
		},
		Faculty: Grant{
			Landing: "/dashboard/faculty",
			Prefixes: []string{
				"/dashboard/faculty",
				"/dashboard/faculty/attendance",
				"/dashboard/faculty/announcements",
				"/dashboard/faculty/classes",
			},
		},
		Admin: Grant{
			Landing: "/dashboard/admin",
			Prefixes: []string{
				"/dashboard/admin",
				"/dashboard/admin/add-course",
				"/dashboard/admin/add-user",
				"/dashboard/admin/courses",
				"/dashboard/admin/users",
			},
		},
	}
}

// LoadPolicy reads a YAML policy. Roles missing from the file keep their
// default grant.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, errors.Wrap(err, "read access policy")
	}
	policy := DefaultPolicy()
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return Policy{}, errors.Wrap(err, "parse access policy")
	}
	if err := policy.Validate(); err != nil {
		return Policy{}, err
	}
	return policy, nil
}

func (p Policy) Grant(role model.Role) (Grant, bool) {
	switch role {
	case model.RoleStudent:
		return p.Student, true
	case model.RoleFaculty:
		return p.Faculty, true
	case model.RoleAdmin:
		return p.Admin, true
	default:
		return Grant{}, false
	}
}

func (p Policy) Validate() error {
	for _, role := range model.Roles() {
		grant, _ := p.Grant(role)
		if len(grant.Prefixes) == 0 {
			return errors.WithMessagef(ErrInvalidPolicy, "role %s has no prefixes", role)
		}
		for _, prefix := range grant.Prefixes {
			if !strings.HasPrefix(prefix, "/") {
				return errors.WithMessagef(ErrInvalidPolicy, "role %s prefix %q is not absolute", role, prefix)
			}
			if Classify(prefix) != ClassProtected {
				return errors.WithMessagef(ErrInvalidPolicy, "role %s prefix %q is not a protected route", role, prefix)
			}
		}
		if grant.Landing == "" {
			return errors.WithMessagef(ErrInvalidPolicy, "role %s has no landing page", role)
		}
		if !p.Allows(role, grant.Landing) {
			return errors.WithMessagef(ErrInvalidPolicy, "role %s cannot reach its landing page %s", role, grant.Landing)
		}
	}
	return nil
}

// Allows reports whether path starts with one of the role's prefixes.
func (p Policy) Allows(role model.Role, path string) bool {
	grant, ok := p.Grant(role)
	if !ok {
		return false
	}
	for _, prefix := range grant.Prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Landing returns the role's landing page. Unknown roles get the student
// landing.
func (p Policy) Landing(role model.Role) string {
	if grant, ok := p.Grant(role); ok && grant.Landing != "" {
		return grant.Landing
	}
	return p.Student.Landing
}
