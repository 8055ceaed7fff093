package api

import (
	"net/http"
	"strconv"

	"github.com/ravenlow/coursecore/internal/audit"
)

// handleListUsers returns all accounts. Admin only.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.logger.Error("listing users", "error", err, "request_id", requestIDFrom(r))
		writeInternalError(w, r, "failed to list users")
		return
	}
	writeData(w, http.StatusOK, users)
}

// handleListAudit returns audit entries, newest first. Admin only.
// Supports action, email, user_id, limit and offset query parameters.
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := audit.Filter{
		Action: q.Get("action"),
		Email:  q.Get("email"),
	}
	if v := q.Get("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeBadRequest(w, r, "user_id must be an integer")
			return
		}
		filter.UserID = id
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, r, "limit must be an integer")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, r, "offset must be an integer")
			return
		}
		filter.Offset = n
	}

	// Audit is optional; without a repository there are no entries.
	if s.audit == nil {
		writeData(w, http.StatusOK, &audit.ListResult{
			Entries: []audit.Entry{},
			Limit:   filter.Limit,
			Offset:  filter.Offset,
		})
		return
	}

	result, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing audit entries", "error", err, "request_id", requestIDFrom(r))
		writeInternalError(w, r, "failed to list audit entries")
		return
	}
	writeData(w, http.StatusOK, result)
}
