package auth

import (
	"errors"
	"regexp"
	"time"
)

// emailPattern is a pragmatic format check, not a full RFC 5322 parser.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// maxEmailLength is the maximum allowed email address length.
const maxEmailLength = 254

// IsValidEmail checks if an email address meets format requirements.
func IsValidEmail(email string) bool {
	return len(email) <= maxEmailLength && emailPattern.MatchString(email)
}

// Role represents an authorisation tier in the system.
type Role string

const (
	// RoleStudent can browse the catalog, enroll in courses, and take quizzes.
	RoleStudent Role = "student"

	// RoleInstructor can author and manage their own courses and grade
	// submissions. Everything a student can do, plus course authoring.
	RoleInstructor Role = "instructor"

	// RoleAdmin has full platform control: user management, any course,
	// platform settings. Never self-service — admin accounts are seeded or
	// created by an existing admin.
	RoleAdmin Role = "admin"
)

// ValidRoles is the set of roles accepted on the issuing path (registration
// and user management). Verified tokens carry the role as an opaque string.
var ValidRoles = []Role{RoleStudent, RoleInstructor, RoleAdmin}

// IsValidRole returns true if the role is a member of the known role set.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Principal is the trusted identity extracted from a verified token.
// It is immutable once constructed and lives for one request only.
type Principal struct {
	SubjectID int64  `json:"subjectId"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// User represents a platform account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // never serialised
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal returns the request identity for this user, as embedded in
// issued tokens.
func (u *User) Principal() Principal {
	return Principal{SubjectID: u.ID, Email: u.Email, Role: u.Role}
}

// Sentinel errors for auth operations.
//
// ErrEmptySecret and ErrInvalidWorkFactor indicate caller bugs and should
// fail fast. The token errors are expected outcomes of untrusted input and
// are converted to structured responses at the gate boundary.
var (
	ErrEmptySecret       = errors.New("secret must not be empty")
	ErrInvalidWorkFactor = errors.New("work factor must be between 1 and 31")

	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenExpired          = errors.New("token has expired")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidRole        = errors.New("invalid role")
)
