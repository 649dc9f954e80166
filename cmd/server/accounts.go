package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Semicile17/Campus-Connect/internal/auth"
	"github.com/Semicile17/Campus-Connect/internal/crypto"
	"github.com/Semicile17/Campus-Connect/internal/model"
	"github.com/Semicile17/Campus-Connect/internal/repository"
)

var (
	errEmptyPassword   = errors.New("password must not be empty")
	errPasswordTooLong = errors.Errorf("password must be at most %d bytes", crypto.MaxPasswordBytes)
)

func promptPassword(out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter password:")
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	if len(pwd) == 0 {
		return "", errEmptyPassword
	}
	if len(pwd) > crypto.MaxPasswordBytes {
		return "", errPasswordTooLong
	}
	return string(pwd), nil
}

type addUserFlags struct {
	name         string
	email        string
	role         string
	enrollmentNo string
	course       string
	year         int
	semester     int
	department   string
	designation  string
}

func (f addUserFlags) newUser(password string) (repository.NewUser, error) {
	role, err := model.ParseRole(f.role)
	if err != nil {
		return repository.NewUser{}, err
	}
	in := repository.NewUser{
		Name:     strings.TrimSpace(f.name),
		Email:    auth.NormalizeEmail(f.email),
		Password: password,
		Role:     role,
	}
	if in.Name == "" || in.Email == "" {
		return repository.NewUser{}, errors.New("--name and --email are required")
	}
	switch role {
	case model.RoleStudent:
		if f.enrollmentNo == "" || f.course == "" || f.year < 1 || f.semester < 1 {
			return repository.NewUser{}, errors.New("students need --enrollment, --course, --year and --semester")
		}
		in.Student = &model.StudentProfile{
			EnrollmentNo: f.enrollmentNo,
			Course:       f.course,
			Year:         f.year,
			Semester:     f.semester,
		}
	case model.RoleFaculty:
		if f.department == "" || f.designation == "" {
			return repository.NewUser{}, errors.New("faculty need --department and --designation")
		}
		in.Faculty = &model.FacultyProfile{Department: f.department, Designation: f.designation}
	case model.RoleAdmin:
		designation := f.designation
		if designation == "" {
			designation = "Administrator"
		}
		in.Admin = &model.AdminProfile{Department: f.department, Designation: designation}
	}
	return in, nil
}

func addUserCmd(a *app) *cobra.Command {
	var flags addUserFlags
	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create an account; the password is prompted",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			in, err := flags.newUser(password)
			if err != nil {
				return err
			}
			store, closeStore, err := a.openStore(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			user, err := store.CreateUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.name, "name", "", "full name")
	cmd.Flags().StringVar(&flags.email, "email", "", "login email")
	cmd.Flags().StringVar(&flags.role, "role", "student", "student, faculty or admin")
	cmd.Flags().StringVar(&flags.enrollmentNo, "enrollment", "", "student enrollment number")
	cmd.Flags().StringVar(&flags.course, "course", "", "student course")
	cmd.Flags().IntVar(&flags.year, "year", 0, "student year")
	cmd.Flags().IntVar(&flags.semester, "semester", 0, "student semester")
	cmd.Flags().StringVar(&flags.department, "department", "", "faculty or admin department")
	cmd.Flags().StringVar(&flags.designation, "designation", "", "faculty or admin designation")
	return cmd
}

func resetPasswordCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "resetpassword",
		Short: "Set a new password for an account; the password is prompted",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = auth.NormalizeEmail(email)
			if email == "" {
				return errors.New("--email is required")
			}
			password, err := promptPassword(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			store, closeStore, err := a.openStore(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.UpdatePassword(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email of the account")
	return cmd
}
