package auth

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"a.b+tag@sub.example.co.uk", true},
		{"", false},
		{"no-at-sign", false},
		{"@example.com", false},
		{"alice@", false},
		{"alice@nodot", false},
		{"spaces in@example.com", false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range ValidRoles {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false, want true", role)
		}
	}

	for _, role := range []Role{"", "superuser", "Admin", "ADMIN", "teacher"} {
		if IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = true, want false", role)
		}
	}
}

func TestUser_Principal(t *testing.T) {
	u := &User{
		ID:           9,
		Email:        "bob@example.com",
		Name:         "Bob",
		PasswordHash: "$2a$10$irrelevant",
		Role:         RoleInstructor,
	}

	p := u.Principal()
	if p.SubjectID != 9 {
		t.Errorf("SubjectID = %d, want 9", p.SubjectID)
	}
	if p.Email != "bob@example.com" {
		t.Errorf("Email = %q", p.Email)
	}
	if p.Role != RoleInstructor {
		t.Errorf("Role = %q", p.Role)
	}
}
