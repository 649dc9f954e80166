package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Semicile17/Campus-Connect/internal/crypto"
	"github.com/Semicile17/Campus-Connect/internal/model"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrProfileMismatch = errors.New("profile does not match role")
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) withProfiles(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Student").Preload("Faculty").Preload("Admin")
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := s.withProfiles(ctx).Where("email = ?", email).First(&user).Error
	return user, translate(err, "user")
}

func (s *Store) GetUserByID(ctx context.Context, id string) (model.User, error) {
	var user model.User
	err := s.withProfiles(ctx).Where("id = ?", id).First(&user).Error
	return user, translate(err, "user")
}

// ListUsers returns every account, or only those of role when it is set.
func (s *Store) ListUsers(ctx context.Context, role model.Role) ([]model.User, error) {
	query := s.withProfiles(ctx).Order("created_at ASC")
	if role != "" {
		query = query.Where("role = ?", role)
	}
	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}

func (s *Store) ListFaculty(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).
		Preload("Faculty").
		Where("role = ?", model.RoleFaculty).
		Order("name ASC").
		Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "list faculty")
	}
	return users, nil
}

type NewUser struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
	Student  *model.StudentProfile
	Faculty  *model.FacultyProfile
	Admin    *model.AdminProfile
}

// CreateUser stores the account and its role profile in one transaction.
func (s *Store) CreateUser(ctx context.Context, in NewUser) (model.User, error) {
	if err := checkProfile(in); err != nil {
		return model.User{}, err
	}
	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}
	user := model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Student:      in.Student,
		Faculty:      in.Faculty,
		Admin:        in.Admin,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.WithMessage(ErrDuplicate, "email")
		}
		if in.Student != nil {
			if err := tx.Model(&model.StudentProfile{}).Where("enrollment_no = ?", in.Student.EnrollmentNo).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errors.WithMessage(ErrDuplicate, "enrollment number")
			}
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return model.User{}, translate(err, "user")
	}
	return user, nil
}

func checkProfile(in NewUser) error {
	switch in.Role {
	case model.RoleStudent:
		if in.Student == nil || in.Faculty != nil || in.Admin != nil {
			return ErrProfileMismatch
		}
	case model.RoleFaculty:
		if in.Faculty == nil || in.Student != nil || in.Admin != nil {
			return ErrProfileMismatch
		}
	case model.RoleAdmin:
		if in.Admin == nil || in.Student != nil || in.Faculty != nil {
			return ErrProfileMismatch
		}
	default:
		return model.ErrUnknownRole
	}
	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, email, password string) error {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	result := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Update("password_hash", hash)
	if result.Error != nil {
		return errors.Wrap(result.Error, "update password")
	}
	if result.RowsAffected == 0 {
		return errors.WithMessage(ErrNotFound, "user")
	}
	return nil
}

// DeleteUser removes the account, its profile and its attendance rows.
func (s *Store) DeleteUser(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, profile := range []any{&model.StudentProfile{}, &model.FacultyProfile{}, &model.AdminProfile{}} {
			if err := tx.Where("user_id = ?", id).Delete(profile).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("student_id = ?", id).Delete(&model.AttendanceRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Subject{}).Where("faculty_id = ?", id).Update("faculty_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.User{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, errors.Wrap(err, "delete user")
	}
	return deleted, nil
}

func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.WithMessage(ErrNotFound, entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.WithMessage(ErrDuplicate, entity)
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrNotFound):
		return err
	default:
		return errors.Wrap(err, entity)
	}
}
