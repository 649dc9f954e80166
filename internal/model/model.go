package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Email        string          `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string          `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role         Role            `gorm:"size:16;not null;index" json:"role"`
	Student      *StudentProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"student"`
	Faculty      *FacultyProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"faculty"`
	Admin        *AdminProfile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"admin"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Profile returns the role-specific record attached to the user, or nil when
// it was not loaded.
func (u *User) Profile() any {
	switch u.Role {
	case RoleStudent:
		if u.Student != nil {
			return u.Student
		}
	case RoleFaculty:
		if u.Faculty != nil {
			return u.Faculty
		}
	case RoleAdmin:
		if u.Admin != nil {
			return u.Admin
		}
	}
	return nil
}

type StudentProfile struct {
	ID           string   `gorm:"primaryKey;size:36" json:"id"`
	UserID       string   `gorm:"uniqueIndex;size:36;not null" json:"userId"`
	EnrollmentNo string   `gorm:"uniqueIndex;size:64;not null" json:"enrollmentNo"`
	Course       string   `gorm:"size:255;not null" json:"course"`
	Year         int      `gorm:"not null" json:"year"`
	Semester     int      `gorm:"not null" json:"semester"`
	CGPA         *float64 `gorm:"column:cgpa" json:"cgpa"`
	PhotoURL     *string  `gorm:"size:1024" json:"photoUrl"`
}

func (p *StudentProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type FacultyProfile struct {
	ID             string   `gorm:"primaryKey;size:36" json:"id"`
	UserID         string   `gorm:"uniqueIndex;size:36;not null" json:"userId"`
	Department     string   `gorm:"size:255;not null" json:"department"`
	Designation    string   `gorm:"size:255;not null" json:"designation"`
	SubjectsTaught []string `gorm:"serializer:json" json:"subjectsTaught"`
}

func (p *FacultyProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type AdminProfile struct {
	ID          string   `gorm:"primaryKey;size:36" json:"id"`
	UserID      string   `gorm:"uniqueIndex;size:36;not null" json:"userId"`
	Department  string   `gorm:"size:255" json:"department"`
	Designation string   `gorm:"size:255;not null" json:"designation"`
	Permissions []string `gorm:"serializer:json" json:"permissions"`
}

func (p *AdminProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
