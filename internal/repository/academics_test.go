package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Semicile17/Campus-Connect/internal/model"
)

type fixture struct {
	store   *Store
	course  model.Course
	subject model.Subject
	faculty model.User
	student model.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := newTestStore(t)

	faculty, err := store.CreateUser(ctx, newFaculty("rao@campus.test"))
	require.NoError(t, err)
	student, err := store.CreateUser(ctx, newStudent("asha@campus.test", "ENR-1"))
	require.NoError(t, err)

	course := model.Course{Name: "BCA", DurationYears: 3, Department: "Computer Science", TotalSemesters: 6}
	require.NoError(t, store.CreateCourse(ctx, &course))

	subject := model.Subject{Name: "Databases", Code: "BCA301", Semester: 3, CourseID: course.ID, FacultyID: &faculty.ID}
	require.NoError(t, store.CreateSubject(ctx, &subject))

	return fixture{store: store, course: course, subject: subject, faculty: faculty, student: student}
}

func TestCourseCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dup := model.Course{Name: "BCA", DurationYears: 3, Department: "CS", TotalSemesters: 6}
	assert.ErrorIs(t, f.store.CreateCourse(ctx, &dup), ErrDuplicate)

	courses, err := f.store.ListCourses(ctx, true)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Len(t, courses[0].Subjects, 1)
	assert.Equal(t, "BCA301", courses[0].Subjects[0].Code)

	bare, err := f.store.ListCourses(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, bare[0].Subjects)
}

func TestCreateSubjectReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orphan := model.Subject{Name: "Networks", Code: "BCA302", Semester: 3, CourseID: "missing"}
	assert.ErrorIs(t, f.store.CreateSubject(ctx, &orphan), ErrInvalidReference)

	notFaculty := model.Subject{Name: "Networks", Code: "BCA302", Semester: 3, CourseID: f.course.ID, FacultyID: &f.student.ID}
	assert.ErrorIs(t, f.store.CreateSubject(ctx, &notFaculty), ErrInvalidReference)

	dup := model.Subject{Name: "Databases II", Code: "BCA301", Semester: 4, CourseID: f.course.ID}
	assert.ErrorIs(t, f.store.CreateSubject(ctx, &dup), ErrDuplicate)

	subjects, err := f.store.ListSubjects(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	require.NotNil(t, subjects[0].Course)
	assert.Equal(t, "BCA", subjects[0].Course.Name)

	mine, err := f.store.ListSubjectsByFaculty(ctx, f.faculty.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestMarkAttendanceUpserts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entries := []AttendanceEntry{{StudentID: f.student.ID, Status: model.AttendanceAbsent}}
	_, err := f.store.MarkAttendance(ctx, f.subject.ID, "2024-03-01", f.faculty.ID, entries)
	require.NoError(t, err)

	entries[0].Status = model.AttendancePresent
	_, err = f.store.MarkAttendance(ctx, f.subject.ID, "2024-03-01", f.faculty.ID, entries)
	require.NoError(t, err)

	records, err := f.store.ListAttendanceBySubject(ctx, f.subject.ID, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.AttendancePresent, records[0].Status)

	_, err = f.store.MarkAttendance(ctx, f.subject.ID, "2024-03-02", f.faculty.ID,
		[]AttendanceEntry{{StudentID: f.faculty.ID, Status: model.AttendancePresent}})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestMarkAttendanceCollapsesRepeatedStudents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	records, err := f.store.MarkAttendance(ctx, f.subject.ID, "2024-03-01", f.faculty.ID, []AttendanceEntry{
		{StudentID: f.student.ID, Status: model.AttendanceAbsent},
		{StudentID: f.student.ID, Status: model.AttendancePresent},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.AttendancePresent, records[0].Status)

	stored, err := f.store.ListAttendanceBySubject(ctx, f.subject.ID, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, model.AttendancePresent, stored[0].Status)
}

func TestLatestPerStudent(t *testing.T) {
	got := latestPerStudent([]AttendanceEntry{
		{StudentID: "a", Status: model.AttendancePresent},
		{StudentID: "b", Status: model.AttendanceAbsent},
		{StudentID: "a", Status: model.AttendanceHoliday},
	})
	assert.Equal(t, []AttendanceEntry{
		{StudentID: "a", Status: model.AttendanceHoliday},
		{StudentID: "b", Status: model.AttendanceAbsent},
	}, got)
}

func TestStudentAttendanceSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	days := map[string]model.AttendanceStatus{
		"2024-03-01": model.AttendancePresent,
		"2024-03-02": model.AttendancePresent,
		"2024-03-03": model.AttendancePresent,
		"2024-03-04": model.AttendanceAbsent,
		"2024-03-05": model.AttendanceHoliday,
	}
	for date, status := range days {
		_, err := f.store.MarkAttendance(ctx, f.subject.ID, date, f.faculty.ID,
			[]AttendanceEntry{{StudentID: f.student.ID, Status: status}})
		require.NoError(t, err)
	}

	records, summary, err := f.store.StudentAttendance(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Len(t, records, 5)
	require.Len(t, summary, 1)
	assert.Equal(t, AttendanceSummary{SubjectID: f.subject.ID, Present: 3, Absent: 1, Total: 4, Percentage: 75}, summary[0])
}

func TestAnnouncementsVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := model.Course{Name: "MCA", DurationYears: 2, Department: "Computer Science", TotalSemesters: 4}
	require.NoError(t, f.store.CreateCourse(ctx, &other))

	for _, a := range []model.Announcement{
		{Title: "Campus closed", Content: "Holiday", Kind: "general", Priority: model.PriorityHigh},
		{Title: "BCA lab", Content: "Lab moved", Kind: "academic", Priority: model.PriorityLow, CourseID: &f.course.ID},
		{Title: "MCA viva", Content: "Viva schedule", Kind: "exam", Priority: model.PriorityMedium, CourseID: &other.ID},
	} {
		a.AuthorID = f.faculty.ID
		require.NoError(t, f.store.CreateAnnouncement(ctx, &a))
	}

	forBCA, err := f.store.ListAnnouncements(ctx, "BCA")
	require.NoError(t, err)
	titles := make([]string, 0, len(forBCA))
	for _, a := range forBCA {
		titles = append(titles, a.Title)
	}
	assert.ElementsMatch(t, []string{"Campus closed", "BCA lab"}, titles)

	unknownCourse, err := f.store.ListAnnouncements(ctx, "PhD")
	require.NoError(t, err)
	assert.Len(t, unknownCourse, 1)

	mine, err := f.store.ListAnnouncementsByAuthor(ctx, f.faculty.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	missing := "missing"
	bad := model.Announcement{Title: "x", Content: "y", Kind: "general", Priority: model.PriorityLow, AuthorID: f.faculty.ID, CourseID: &missing}
	assert.ErrorIs(t, f.store.CreateAnnouncement(ctx, &bad), ErrInvalidReference)
}
