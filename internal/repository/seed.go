package repository

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Semicile17/Campus-Connect/internal/model"
)

type seedFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	Name         string   `yaml:"name"`
	Email        string   `yaml:"email"`
	Password     string   `yaml:"password"`
	Role         string   `yaml:"role"`
	EnrollmentNo string   `yaml:"enrollmentNo"`
	Course       string   `yaml:"course"`
	Year         int      `yaml:"year"`
	Semester     int      `yaml:"semester"`
	Department   string   `yaml:"department"`
	Designation  string   `yaml:"designation"`
	Subjects     []string `yaml:"subjects"`
	Permissions  []string `yaml:"permissions"`
}

// SeedUsersFromFile creates the accounts listed in a YAML file, skipping
// emails that already exist. It returns how many accounts were created.
func (s *Store) SeedUsersFromFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrap(err, "read seed file")
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return 0, errors.Wrap(err, "parse seed file")
	}

	created := 0
	for _, u := range sf.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		if email == "" || u.Password == "" {
			continue
		}
		if _, err := s.GetUserByEmail(ctx, email); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return created, err
		}
		in, err := u.newUser(email)
		if err != nil {
			return created, errors.WithMessagef(err, "seed %s", email)
		}
		if _, err := s.CreateUser(ctx, in); err != nil {
			return created, errors.WithMessagef(err, "seed %s", email)
		}
		created++
	}
	return created, nil
}

func (u seedUser) newUser(email string) (NewUser, error) {
	role, err := model.ParseRole(u.Role)
	if err != nil {
		return NewUser{}, err
	}
	in := NewUser{Name: u.Name, Email: email, Password: u.Password, Role: role}
	switch role {
	case model.RoleStudent:
		in.Student = &model.StudentProfile{
			EnrollmentNo: u.EnrollmentNo,
			Course:       u.Course,
			Year:         u.Year,
			Semester:     u.Semester,
		}
	case model.RoleFaculty:
		in.Faculty = &model.FacultyProfile{
			Department:     u.Department,
			Designation:    u.Designation,
			SubjectsTaught: u.Subjects,
		}
	case model.RoleAdmin:
		in.Admin = &model.AdminProfile{
			Department:  u.Department,
			Designation: u.Designation,
			Permissions: u.Permissions,
		}
	}
	return in, nil
}
