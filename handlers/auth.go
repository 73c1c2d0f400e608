package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"invoicedesk/collections"
)

// RequireAdmin lets through superusers and users whose role is admin. It
// must run after the auth token has been loaded (apis.RequireAuth).
func RequireAdmin(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth == nil {
			return ErrorJSON(e, http.StatusUnauthorized, "Authentication required")
		}
		if e.Auth.IsSuperuser() || e.Auth.GetString("role") == collections.RoleAdmin {
			return e.Next()
		}
		log.Printf("auth: user %s with role %q denied %s %s", e.Auth.Id, e.Auth.GetString("role"), e.Request.Method, e.Request.URL.Path)
		return ErrorJSON(e, http.StatusForbidden, "Admin role required")
	}
}

// meResponse describes the authenticated caller.
type meResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

// HandleMe returns the authenticated caller.
// Route: GET /api/invoicing/me
func HandleMe(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth == nil {
			return ErrorJSON(e, http.StatusUnauthorized, "Authentication required")
		}
		username := e.Auth.GetString("name")
		if username == "" {
			username = e.Auth.Email()
		}
		return e.JSON(http.StatusOK, meResponse{
			UserID:   e.Auth.Id,
			Username: username,
			Role:     e.Auth.GetString("role"),
			Email:    e.Auth.Email(),
		})
	}
}
