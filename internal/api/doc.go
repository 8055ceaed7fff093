// Package api implements the HTTP REST API for CourseCore.
//
// This package provides:
//   - REST endpoints for registration, login, session probes, and account management
//   - Admin-only user and audit-trail listings
//   - JWT bearer authentication with mandatory, optional, and role-gated routes
//   - Middleware stack (request ID, logging, recovery, CORS, body size limit)
//
// # Architecture
//
// The API server sits between clients (web, mobile) and the user and audit
// stores. Credentials are verified with bcrypt and sessions are carried as
// stateless HS256 JWTs, so no server-side session store exists: a token alone
// proves identity until it expires.
//
// # Security
//
// Three gates protect routes. The mandatory gate rejects any request without
// a valid bearer token. The optional gate attaches identity when a valid
// token is present but never rejects. The role gate runs after the mandatory
// gate and compares the principal's role against an allow-list. All rejection
// responses share a single JSON envelope with a machine-readable code, the
// request ID, and a UTC timestamp.
package api
