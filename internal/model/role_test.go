package model

import "testing"

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"student":  RoleStudent,
		" Faculty": RoleFaculty,
		"ADMIN":    RoleAdmin,
	}
	for input, expected := range cases {
		role, err := ParseRole(input)
		if err != nil {
			t.Fatalf("expected %q to parse, got %v", input, err)
		}
		if role != expected {
			t.Fatalf("expected %s, got %s", expected, role)
		}
	}
	for _, input := range []string{"", "teacher", "dev", "admin2"} {
		if _, err := ParseRole(input); err == nil {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
}

func TestUserProfileFollowsRole(t *testing.T) {
	student := &StudentProfile{EnrollmentNo: "EN-1"}
	u := User{Role: RoleStudent, Student: student, Admin: &AdminProfile{}}
	if u.Profile() != student {
		t.Fatalf("expected student profile")
	}
	u.Role = RoleFaculty
	if u.Profile() != nil {
		t.Fatalf("expected nil profile for faculty without faculty record")
	}
}
