package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ravenlow/coursecore/internal/audit"
	"github.com/ravenlow/coursecore/internal/auth"
)

// minPasswordLength is the minimum accepted password length at registration
// and password change.
const minPasswordLength = 8

// registerRequest is the request body for POST /auth/register.
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// loginRequest is the request body for POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse is the success payload for register and login.
type tokenResponse struct {
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"`
	ExpiresIn int        `json:"expires_in"`
	User      *auth.User `json:"user"`
}

// changePasswordRequest is the request body for POST /auth/change-password.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// sessionResponse is the payload for GET /auth/session.
type sessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	Principal     *auth.Principal `json:"principal,omitempty"`
}

// handleRegister creates a new account and returns a signed bearer token.
//
// This is the issuing path: it is the only place role membership is checked.
// Self-service registration never creates admins — admin accounts are seeded
// or created by an existing admin.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid JSON body")
		return
	}

	if !auth.IsValidEmail(req.Email) {
		writeValidationError(w, r, "a valid email address is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeValidationError(w, r, "password must be at least 8 characters")
		return
	}
	if req.Name == "" {
		writeValidationError(w, r, "name is required")
		return
	}

	role := auth.Role(req.Role)
	if req.Role == "" {
		role = auth.RoleStudent
	}
	if !auth.IsValidRole(role) || role == auth.RoleAdmin {
		writeValidationError(w, r, "role must be one of: student, instructor")
		return
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("hashing password", "error", err, "request_id", requestIDFrom(r))
		writeInternalError(w, r, "failed to create account")
		return
	}

	user := &auth.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}

	if err := s.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			writeError(w, r, http.StatusConflict, ErrCodeConflict, "email already registered")
			return
		}
		s.logger.Error("creating user", "error", err, "request_id", requestIDFrom(r))
		writeInternalError(w, r, "failed to create account")
		return
	}

	s.recordAudit(r, audit.ActionRegister, user.Email, &user.ID, map[string]any{"role": string(role)})

	token, err := s.codec.Sign(user.Principal())
	if err != nil {
		s.logger.Error("signing token", "error", err, "request_id", requestIDFrom(r))
		writeInternalError(w, r, "failed to issue token")
		return
	}

	writeData(w, http.StatusCreated, tokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: s.tokenTTLSeconds,
		User:      user,
	})
}

// handleLogin authenticates a user and returns a signed bearer token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeValidationError(w, r, "email and password are required")
		return
	}

	user, err := s.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.recordAudit(r, audit.ActionLoginFailed, req.Email, nil, map[string]any{"reason": "unknown email"})
			writeError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid credentials")
			return
		}
		s.logger.Error("looking up user", "error", err, "request_id", requestIDFrom(r))
		writeInternalError(w, r, "login failed")
		return
	}

	match, err := s.hasher.Compare(req.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error("comparing password", "error", err, "request_id", requestIDFrom(r))
		writeInternalError(w, r, "login failed")
		return
	}
	if !match {
		s.recordAudit(r, audit.ActionLoginFailed, user.Email, &user.ID, map[string]any{"reason": "wrong password"})
		writeError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid credentials")
		return
	}

	if !user.IsActive {
		s.recordAudit(r, audit.ActionLoginFailed, user.Email, &user.ID, map[string]any{"reason": "inactive"})
		writeError(w, r, http.StatusForbidden, ErrCodeForbidden, "Account is inactive")
		return
	}

	token, err := s.codec.Sign(user.Principal())
	if err != nil {
		s.logger.Error("signing token", "error", err, "request_id", requestIDFrom(r))
		writeInternalError(w, r, "failed to issue token")
		return
	}

	s.recordAudit(r, audit.ActionLogin, user.Email, &user.ID, nil)

	writeData(w, http.StatusOK, tokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: s.tokenTTLSeconds,
		User:      user,
	})
}

// handleMe returns the account behind the authenticated principal.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		writeError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required")
		return
	}

	user, err := s.users.GetByID(r.Context(), principal.SubjectID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			// Token is valid but the account has been deleted since issuance.
			writeError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Account no longer exists")
			return
		}
		s.logger.Error("looking up user", "error", err, "request_id", requestIDFrom(r))
		writeInternalError(w, r, "failed to load account")
		return
	}

	writeData(w, http.StatusOK, user)
}

// handleSession reports whether the request carries a valid token.
// It sits behind the optional gate, so it answers for anonymous callers too.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	writeData(w, http.StatusOK, sessionResponse{
		Authenticated: principal != nil,
		Principal:     principal,
	})
}

// handleChangePassword replaces the caller's credential after re-verifying
// the current secret.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		writeError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid JSON body")
		return
	}
	if req.CurrentPassword == "" {
		writeValidationError(w, r, "current password is required")
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		writeValidationError(w, r, "new password must be at least 8 characters")
		return
	}

	user, err := s.users.GetByID(r.Context(), principal.SubjectID)
	if err != nil {
		s.logger.Error("looking up user", "error", err, "request_id", requestIDFrom(r))
		writeInternalError(w, r, "failed to change password")
		return
	}

	match, err := s.hasher.Compare(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		s.logger.Error("comparing password", "error", err, "request_id", requestIDFrom(r))
		writeInternalError(w, r, "failed to change password")
		return
	}
	if !match {
		writeError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		s.logger.Error("hashing password", "error", err, "request_id", requestIDFrom(r))
		writeInternalError(w, r, "failed to change password")
		return
	}

	if err := s.users.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		s.logger.Error("updating password", "error", err, "request_id", requestIDFrom(r))
		writeInternalError(w, r, "failed to change password")
		return
	}

	s.recordAudit(r, audit.ActionPasswordChange, user.Email, &user.ID, nil)

	writeData(w, http.StatusOK, map[string]any{"changed": true})
}

// recordAudit writes an audit entry, logging rather than failing the request
// if the write does not succeed.
func (s *Server) recordAudit(r *http.Request, action, email string, userID *int64, details map[string]any) {
	if s.audit == nil {
		return
	}
	entry := &audit.Entry{
		Action:    action,
		Email:     email,
		UserID:    userID,
		RequestID: requestIDFrom(r),
		Details:   details,
	}
	if err := s.audit.Create(r.Context(), entry); err != nil {
		s.logger.Error("recording audit entry", "error", err, "action", action, "request_id", requestIDFrom(r))
	}
}
