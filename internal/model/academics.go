package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Name           string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	DurationYears  int       `gorm:"not null" json:"durationYears"`
	Department     string    `gorm:"size:255;not null" json:"department"`
	TotalSemesters int       `gorm:"not null" json:"totalSemesters"`
	Subjects       []Subject `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"subjects,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Subject struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Code      string    `gorm:"uniqueIndex;size:32;not null" json:"code"`
	Semester  int       `gorm:"not null" json:"semester"`
	CourseID  string    `gorm:"size:36;not null;index" json:"courseId"`
	Course    *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	FacultyID *string   `gorm:"size:36;index" json:"facultyId"`
	Faculty   *User     `gorm:"foreignKey:FacultyID;constraint:OnDelete:SET NULL" json:"faculty,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Subject) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceHoliday AttendanceStatus = "holiday"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceHoliday:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one student's status for one subject on one day.
// Date is an ISO calendar date (2006-01-02).
type AttendanceRecord struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	SubjectID string           `gorm:"size:36;not null;uniqueIndex:idx_attendance_day" json:"subjectId"`
	StudentID string           `gorm:"size:36;not null;uniqueIndex:idx_attendance_day;index" json:"studentId"`
	Date      string           `gorm:"size:10;not null;uniqueIndex:idx_attendance_day" json:"date"`
	Status    AttendanceStatus `gorm:"size:16;not null" json:"status"`
	MarkedBy  string           `gorm:"size:36;not null" json:"markedBy"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func (a *AttendanceRecord) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Announcement struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Kind      string    `gorm:"size:32;not null" json:"type"`
	Priority  Priority  `gorm:"size:16;not null" json:"priority"`
	CourseID  *string   `gorm:"size:36;index" json:"courseId"`
	AuthorID  string    `gorm:"size:36;not null;index" json:"authorId"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a *Announcement) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
