// Package auth provides authentication and authorisation for CourseCore.
//
// It implements a 3-tier role model (student → instructor → admin) with:
//   - bcrypt credential hashing with a configurable work factor
//   - Symmetric HS256 JWT bearer tokens carrying the principal identity
//   - Strict claim-shape validation on verification (no silent coercion)
//   - SQLite-backed user accounts keyed by integer IDs
//
// Tokens are self-contained: validity is decided purely by signature and
// clock, never by server-side state. The role embedded in a verified token
// is trusted as-is; role membership is validated only on the issuing path
// (registration), where the role set is enforced.
package auth
