package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/Semicile17/Campus-Connect/internal/model"
	"github.com/Semicile17/Campus-Connect/internal/repository"
)

func TestAdminProvisioning(t *testing.T) {
	app := newTestApp(t, testSecret)
	adminToken := app.token(t, app.admin)

	student := map[string]interface{}{
		"name":         "Ravi",
		"email":        "Ravi@Campus.test",
		"password":     "pw",
		"enrollmentNo": "ENR-2",
		"course":       "BCA",
		"year":         1,
		"semester":     1,
		"cgpa":         8.5,
	}
	resp := doReq(t, http.MethodPost, app.http.URL+"/api/admin/add-student", adminToken, student)
	expectStatus(t, resp, http.StatusCreated)
	var created model.User
	decode(t, resp, &created)
	if created.Email != "ravi@campus.test" || created.Role != model.RoleStudent || created.Student == nil {
		t.Fatalf("unexpected user %+v", created)
	}

	resp = doReq(t, http.MethodPost, app.http.URL+"/api/admin/add-student", adminToken, student)
	expectStatus(t, resp, http.StatusConflict)

	resp = doReq(t, http.MethodPost, app.http.URL+"/api/admin/add-student", adminToken, map[string]interface{}{
		"name": "Ravi", "email": "not-an-email", "password": "pw",
	})
	expectStatus(t, resp, http.StatusBadRequest)
	var invalid validationErrorResponse
	decode(t, resp, &invalid)
	for _, field := range []string{"email", "enrollmentNo", "course", "year", "semester"} {
		if _, ok := invalid.Fields[field]; !ok {
			t.Fatalf("expected %s in %v", field, invalid.Fields)
		}
	}

	resp = doReq(t, http.MethodPost, app.http.URL+"/api/admin/add-faculty", adminToken, map[string]interface{}{
		"name": "Dr. Iyer", "email": "iyer@campus.test", "password": "pw",
		"department": "Mathematics", "designation": "Lecturer", "subjectsTaught": []string{"Algebra"},
	})
	expectStatus(t, resp, http.StatusCreated)

	resp = doReq(t, http.MethodPost, app.http.URL+"/api/admin/add-admin", adminToken, map[string]interface{}{
		"name": "Deputy", "email": "deputy@campus.test", "password": "pw", "designation": "Deputy Registrar",
	})
	expectStatus(t, resp, http.StatusCreated)

	resp = doReq(t, http.MethodGet, app.http.URL+"/api/admin/users?role=faculty", adminToken, nil)
	expectStatus(t, resp, http.StatusOK)
	var faculty []model.User
	decode(t, resp, &faculty)
	if len(faculty) != 2 {
		t.Fatalf("expected 2 faculty, got %d", len(faculty))
	}

	resp = doReq(t, http.MethodGet, app.http.URL+"/api/admin/users?role=dean", adminToken, nil)
	expectStatus(t, resp, http.StatusBadRequest)

	resp = doReq(t, http.MethodGet, app.http.URL+"/api/admin/get-faculty", adminToken, nil)
	expectStatus(t, resp, http.StatusOK)
	var summaries []facultySummary
	decode(t, resp, &summaries)
	if len(summaries) != 2 || summaries[0].User.Email == "" || summaries[0].Department == "" {
		t.Fatalf("unexpected faculty summaries %+v", summaries)
	}

	resp = doReq(t, http.MethodGet, app.http.URL+"/api/admin/get-users/"+created.ID, adminToken, nil)
	expectStatus(t, resp, http.StatusOK)

	resp = doReq(t, http.MethodDelete, app.http.URL+"/api/admin/users/"+created.ID, adminToken, nil)
	expectStatus(t, resp, http.StatusOK)
	resp = doReq(t, http.MethodGet, app.http.URL+"/api/admin/get-users/"+created.ID, adminToken, nil)
	expectStatus(t, resp, http.StatusNotFound)
	resp = doReq(t, http.MethodDelete, app.http.URL+"/api/admin/users/"+created.ID, adminToken, nil)
	expectStatus(t, resp, http.StatusNotFound)
	resp = doReq(t, http.MethodDelete, app.http.URL+"/api/admin/users/"+app.admin.ID, adminToken, nil)
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestAdminRejectsOverlongPasswords(t *testing.T) {
	app := newTestApp(t, testSecret)
	adminToken := app.token(t, app.admin)

	faculty := func(email, password string) map[string]interface{} {
		return map[string]interface{}{
			"name": "Dr. Long", "email": email, "password": password,
			"department": "Physics", "designation": "Lecturer",
		}
	}

	resp := doReq(t, http.MethodPost, app.http.URL+"/api/admin/add-faculty", adminToken, faculty("long@campus.test", strings.Repeat("p", 80)))
	expectStatus(t, resp, http.StatusBadRequest)
	var invalid validationErrorResponse
	decode(t, resp, &invalid)
	if _, ok := invalid.Fields["password"]; !ok {
		t.Fatalf("expected password in %v", invalid.Fields)
	}

	// 40 runes pass the length tag but are 80 bytes once encoded.
	resp = doReq(t, http.MethodPost, app.http.URL+"/api/admin/add-faculty", adminToken, faculty("wide@campus.test", strings.Repeat("é", 40)))
	expectStatus(t, resp, http.StatusBadRequest)
	var body map[string]string
	decode(t, resp, &body)
	if body["error"] != "password_too_long" {
		t.Fatalf("unexpected body %v", body)
	}

	if _, err := app.store.GetUserByEmail(context.Background(), "wide@campus.test"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("no account expected, got %v", err)
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	app := newTestApp(t, testSecret)

	resp := doReq(t, http.MethodGet, app.http.URL+"/api/admin/users", "", nil)
	expectStatus(t, resp, http.StatusUnauthorized)

	for _, user := range []model.User{app.student, app.faculty} {
		resp = doReq(t, http.MethodGet, app.http.URL+"/api/admin/users", app.token(t, user), nil)
		expectStatus(t, resp, http.StatusForbidden)
	}

	resp = doReq(t, http.MethodGet, app.http.URL+"/api/student", app.token(t, app.student), nil)
	expectStatus(t, resp, http.StatusForbidden)
	resp = doReq(t, http.MethodGet, app.http.URL+"/api/student", app.token(t, app.faculty), nil)
	expectStatus(t, resp, http.StatusOK)
	var students []model.User
	decode(t, resp, &students)
	if len(students) != 1 || students[0].ID != app.student.ID {
		t.Fatalf("unexpected students %+v", students)
	}
}

func TestCourseAttendanceAndAnnouncementFlow(t *testing.T) {
	app := newTestApp(t, testSecret)
	adminToken := app.token(t, app.admin)
	facultyToken := app.token(t, app.faculty)
	studentToken := app.token(t, app.student)

	resp := doReq(t, http.MethodPost, app.http.URL+"/api/admin/courses", adminToken, map[string]interface{}{
		"name": "BCA", "durationYears": 3, "department": "Computer Science", "totalSemesters": 6,
	})
	expectStatus(t, resp, http.StatusCreated)
	var course model.Course
	decode(t, resp, &course)

	resp = doReq(t, http.MethodPost, app.http.URL+"/api/admin/courses", adminToken, map[string]interface{}{
		"name": "BCA", "durationYears": 3, "department": "Computer Science", "totalSemesters": 6,
	})
	expectStatus(t, resp, http.StatusConflict)

	resp = doReq(t, http.MethodPost, app.http.URL+"/api/admin/subjects", adminToken, map[string]interface{}{
		"name": "Databases", "code": "bca301", "semester": 3, "courseId": course.ID, "facultyId": app.faculty.ID,
	})
	expectStatus(t, resp, http.StatusCreated)
	var subject model.Subject
	decode(t, resp, &subject)
	if subject.Code != "BCA301" {
		t.Fatalf("expected upper-cased code, got %s", subject.Code)
	}

	resp = doReq(t, http.MethodPost, app.http.URL+"/api/admin/subjects", adminToken, map[string]interface{}{
		"name": "Networks", "code": "BCA302", "semester": 3, "courseId": "missing",
	})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = doReq(t, http.MethodGet, app.http.URL+"/api/courses", "", nil)
	expectStatus(t, resp, http.StatusOK)
	var courses []model.Course
	decode(t, resp, &courses)
	if len(courses) != 1 || courses[0].Name != "BCA" {
		t.Fatalf("unexpected catalog %+v", courses)
	}

	resp = doReq(t, http.MethodGet, app.http.URL+"/api/faculty/subjects", facultyToken, nil)
	expectStatus(t, resp, http.StatusOK)
	var mine []model.Subject
	decode(t, resp, &mine)
	if len(mine) != 1 || mine[0].ID != subject.ID {
		t.Fatalf("unexpected faculty subjects %+v", mine)
	}

	for date, status := range map[string]string{"2024-03-01": "present", "2024-03-02": "absent"} {
		resp = doReq(t, http.MethodPost, app.http.URL+"/api/faculty/attendance", facultyToken, map[string]interface{}{
			"subjectId": subject.ID,
			"date":      date,
			"records":   []map[string]string{{"studentId": app.student.ID, "status": status}},
		})
		expectStatus(t, resp, http.StatusOK)
	}

	resp = doReq(t, http.MethodPost, app.http.URL+"/api/faculty/attendance", facultyToken, map[string]interface{}{
		"subjectId": subject.ID,
		"date":      "03/01/2024",
		"records":   []map[string]string{{"studentId": app.student.ID, "status": "late"}},
	})
	expectStatus(t, resp, http.StatusBadRequest)

	other := mustCreate(t, app.store, repository.NewUser{
		Name: "Dr. Iyer", Email: "iyer@campus.test", Password: "pw", Role: model.RoleFaculty,
		Faculty: &model.FacultyProfile{Department: "Mathematics", Designation: "Lecturer"},
	})
	resp = doReq(t, http.MethodPost, app.http.URL+"/api/faculty/attendance", app.token(t, other), map[string]interface{}{
		"subjectId": subject.ID,
		"date":      "2024-03-03",
		"records":   []map[string]string{{"studentId": app.student.ID, "status": "present"}},
	})
	expectStatus(t, resp, http.StatusForbidden)

	resp = doReq(t, http.MethodGet, app.http.URL+"/api/faculty/attendance?subjectId="+subject.ID+"&date=2024-03-01", facultyToken, nil)
	expectStatus(t, resp, http.StatusOK)
	var day []model.AttendanceRecord
	decode(t, resp, &day)
	if len(day) != 1 || day[0].Status != model.AttendancePresent {
		t.Fatalf("unexpected attendance %+v", day)
	}

	resp = doReq(t, http.MethodGet, app.http.URL+"/api/student/attendance", studentToken, nil)
	expectStatus(t, resp, http.StatusOK)
	var mineAttendance studentAttendanceResponse
	decode(t, resp, &mineAttendance)
	if len(mineAttendance.Records) != 2 || len(mineAttendance.Summary) != 1 || mineAttendance.Summary[0].Percentage != 50 {
		t.Fatalf("unexpected student attendance %+v", mineAttendance)
	}

	resp = doReq(t, http.MethodPost, app.http.URL+"/api/faculty/announcements", facultyToken, map[string]interface{}{
		"title": "Lab moved", "content": "Room 204", "type": "academic", "priority": "high", "courseId": course.ID,
	})
	expectStatus(t, resp, http.StatusCreated)
	resp = doReq(t, http.MethodPost, app.http.URL+"/api/faculty/announcements", facultyToken, map[string]interface{}{
		"title": "Bad", "content": "x", "type": "academic", "priority": "urgent",
	})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = doReq(t, http.MethodGet, app.http.URL+"/api/student/announcements", studentToken, nil)
	expectStatus(t, resp, http.StatusOK)
	var news []model.Announcement
	decode(t, resp, &news)
	if len(news) != 1 || news[0].Title != "Lab moved" {
		t.Fatalf("unexpected announcements %+v", news)
	}

	resp = doReq(t, http.MethodGet, app.http.URL+"/api/faculty/announcements", facultyToken, nil)
	expectStatus(t, resp, http.StatusOK)
}
