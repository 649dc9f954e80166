package repository

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Semicile17/Campus-Connect/internal/model"
)

var ErrInvalidReference = errors.New("invalid reference")

func (s *Store) ListCourses(ctx context.Context, withSubjects bool) ([]model.Course, error) {
	query := s.db.WithContext(ctx).Order("name ASC")
	if withSubjects {
		query = query.Preload("Subjects", func(db *gorm.DB) *gorm.DB {
			return db.Order("semester ASC, code ASC")
		})
	}
	var courses []model.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, errors.Wrap(err, "list courses")
	}
	return courses, nil
}

func (s *Store) CreateCourse(ctx context.Context, course *model.Course) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Course{}).Where("name = ?", course.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.WithMessage(ErrDuplicate, "course name")
		}
		return tx.Omit("Subjects").Create(course).Error
	})
	return translate(err, "course")
}

func (s *Store) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	err := s.db.WithContext(ctx).
		Preload("Course").
		Preload("Faculty").
		Order("code ASC").
		Find(&subjects).Error
	if err != nil {
		return nil, errors.Wrap(err, "list subjects")
	}
	return subjects, nil
}

func (s *Store) ListSubjectsByFaculty(ctx context.Context, facultyID string) ([]model.Subject, error) {
	var subjects []model.Subject
	err := s.db.WithContext(ctx).
		Preload("Course").
		Where("faculty_id = ?", facultyID).
		Order("code ASC").
		Find(&subjects).Error
	if err != nil {
		return nil, errors.Wrap(err, "list faculty subjects")
	}
	return subjects, nil
}

func (s *Store) GetSubject(ctx context.Context, id string) (model.Subject, error) {
	var subject model.Subject
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&subject).Error
	return subject, translate(err, "subject")
}

// CreateSubject checks that the course exists and that an assigned faculty member
// is a faculty account before inserting.
func (s *Store) CreateSubject(ctx context.Context, subject *model.Subject) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Course{}).Where("id = ?", subject.CourseID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errors.WithMessage(ErrInvalidReference, "course")
		}
		if subject.FacultyID != nil {
			if err := tx.Model(&model.User{}).
				Where("id = ? AND role = ?", *subject.FacultyID, model.RoleFaculty).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return errors.WithMessage(ErrInvalidReference, "faculty")
			}
		}
		if err := tx.Model(&model.Subject{}).Where("code = ?", subject.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.WithMessage(ErrDuplicate, "subject code")
		}
		return tx.Omit("Course", "Faculty").Create(subject).Error
	})
	if errors.Is(err, ErrInvalidReference) {
		return err
	}
	return translate(err, "subject")
}

type AttendanceEntry struct {
	StudentID string
	Status    model.AttendanceStatus
}

// MarkAttendance records one status per student for subject on date. A
// second call for the same day overwrites the earlier status.
func (s *Store) MarkAttendance(ctx context.Context, subjectID, date, markedBy string, entries []AttendanceEntry) ([]model.AttendanceRecord, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	entries = latestPerStudent(entries)
	now := time.Now().UTC()
	records := make([]model.AttendanceRecord, 0, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.StudentID)
		records = append(records, model.AttendanceRecord{
			SubjectID: subjectID,
			StudentID: e.StudentID,
			Date:      date,
			Status:    e.Status,
			MarkedBy:  markedBy,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).
			Where("id IN ? AND role = ?", ids, model.RoleStudent).
			Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(ids) {
			return errors.WithMessage(ErrInvalidReference, "student")
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject_id"}, {Name: "student_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "marked_by", "updated_at"}),
		}).Create(&records).Error
	})
	if err != nil {
		if errors.Is(err, ErrInvalidReference) {
			return nil, err
		}
		return nil, errors.Wrap(err, "mark attendance")
	}
	return records, nil
}

// latestPerStudent keeps one entry per student, in first-seen order, with
// the status of the last entry given for them. A single upsert statement may
// not touch the same row twice.
func latestPerStudent(entries []AttendanceEntry) []AttendanceEntry {
	pos := make(map[string]int, len(entries))
	out := make([]AttendanceEntry, 0, len(entries))
	for _, e := range entries {
		if i, ok := pos[e.StudentID]; ok {
			out[i].Status = e.Status
			continue
		}
		pos[e.StudentID] = len(out)
		out = append(out, e)
	}
	return out
}

// ListAttendanceBySubject returns the records of one subject, optionally narrowed to
// a single date.
func (s *Store) ListAttendanceBySubject(ctx context.Context, subjectID, date string) ([]model.AttendanceRecord, error) {
	query := s.db.WithContext(ctx).Where("subject_id = ?", subjectID)
	if date != "" {
		query = query.Where("date = ?", date)
	}
	var records []model.AttendanceRecord
	if err := query.Order("date ASC, student_id ASC").Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "list attendance")
	}
	return records, nil
}

type AttendanceSummary struct {
	SubjectID  string  `json:"subjectId"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// StudentAttendance returns every record of a student and a per-subject
// summary. Holidays count toward neither side.
func (s *Store) StudentAttendance(ctx context.Context, studentID string) ([]model.AttendanceRecord, []AttendanceSummary, error) {
	var records []model.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("date DESC").
		Find(&records).Error
	if err != nil {
		return nil, nil, errors.Wrap(err, "student attendance")
	}
	return records, Summarize(records), nil
}

func Summarize(records []model.AttendanceRecord) []AttendanceSummary {
	bySubject := make(map[string]*AttendanceSummary)
	for _, r := range records {
		sum, ok := bySubject[r.SubjectID]
		if !ok {
			sum = &AttendanceSummary{SubjectID: r.SubjectID}
			bySubject[r.SubjectID] = sum
		}
		switch r.Status {
		case model.AttendancePresent:
			sum.Present++
		case model.AttendanceAbsent:
			sum.Absent++
		}
	}
	out := make([]AttendanceSummary, 0, len(bySubject))
	for _, sum := range bySubject {
		sum.Total = sum.Present + sum.Absent
		if sum.Total > 0 {
			sum.Percentage = float64(sum.Present) * 100 / float64(sum.Total)
		}
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectID < out[j].SubjectID })
	return out
}

func (s *Store) CreateAnnouncement(ctx context.Context, a *model.Announcement) error {
	if a.CourseID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Course{}).Where("id = ?", *a.CourseID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "lookup course")
		}
		if count == 0 {
			return errors.WithMessage(ErrInvalidReference, "course")
		}
	}
	if err := s.db.WithContext(ctx).Omit("Author").Create(a).Error; err != nil {
		return errors.Wrap(err, "create announcement")
	}
	return nil
}

// ListAnnouncements returns the announcements a student enrolled in
// courseName sees: campus-wide ones plus those targeted at the course.
func (s *Store) ListAnnouncements(ctx context.Context, courseName string) ([]model.Announcement, error) {
	query := s.db.WithContext(ctx).Preload("Author").Order("created_at DESC")
	var course model.Course
	err := s.db.WithContext(ctx).Where("name = ?", courseName).First(&course).Error
	switch {
	case err == nil:
		query = query.Where("course_id IS NULL OR course_id = ?", course.ID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		query = query.Where("course_id IS NULL")
	default:
		return nil, errors.Wrap(err, "lookup course")
	}
	var out []model.Announcement
	if err := query.Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "list announcements")
	}
	return out, nil
}

func (s *Store) ListAnnouncementsByAuthor(ctx context.Context, authorID string) ([]model.Announcement, error) {
	var out []model.Announcement
	err := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, errors.Wrap(err, "list announcements")
	}
	return out, nil
}
