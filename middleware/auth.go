package middleware

import (
	"net/http"
	"strings"

	"gitea.com/go-chi/session"

	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/userctx"
)

// Session keys holding the logged-in identity
const (
	SessionRole          = "role"
	SessionEmail         = "email"
	SessionEmployeeID    = "employee_id"
	SessionName          = "name"
	SessionRedirectAfter = "redirect_after_login"
)

// SessionStore is the part of a session the app reads and writes
type SessionStore interface {
	Set(key, val interface{}) error
	Get(key interface{}) interface{}
	Delete(key interface{}) error
}

// GetSession returns the session the session middleware attached to r
func GetSession(r *http.Request) SessionStore {
	return session.GetSession(r)
}

// StoreIdentity writes identity into the session
func StoreIdentity(sess SessionStore, identity *models.Identity) error {
	values := map[string]string{
		SessionRole:       string(identity.Role),
		SessionEmail:      identity.Email,
		SessionEmployeeID: identity.EmployeeID,
		SessionName:       identity.Name,
	}
	for key, value := range values {
		if err := sess.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// LoadIdentity reads the identity from the session, or nil when logged out
func LoadIdentity(sess SessionStore) *models.Identity {
	role, _ := sess.Get(SessionRole).(string)
	email, _ := sess.Get(SessionEmail).(string)
	if email == "" {
		return nil
	}

	switch models.Role(role) {
	case models.RoleAdmin, models.RoleEmployee:
	default:
		return nil
	}

	employeeID, _ := sess.Get(SessionEmployeeID).(string)
	name, _ := sess.Get(SessionName).(string)
	return &models.Identity{
		Role:       models.Role(role),
		Email:      email,
		EmployeeID: employeeID,
		Name:       name,
	}
}

// ClearIdentity logs the session out
func ClearIdentity(sess SessionStore) {
	for _, key := range []string{SessionRole, SessionEmail, SessionEmployeeID, SessionName, SessionRedirectAfter} {
		sess.Delete(key)
	}
}

// RequireAuth ensures the user is authenticated
// If not authenticated, redirects to /login and stores the intended destination
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r)
		identity := LoadIdentity(sess)

		if identity == nil {
			// Store the intended destination for redirect after login
			if r.Method == http.MethodGet && !isEventStream(r) {
				sess.Set(SessionRedirectAfter, r.URL.Path)
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		// Add identity to request context for use in handlers
		ctx := userctx.SetIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStreamAuth guards long-lived streams. Anonymous requests get a 401
// instead of a redirect and never become the post-login destination.
func RequireStreamAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := LoadIdentity(GetSession(r))
		if identity == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := userctx.SetIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isEventStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

// RequireAdmin sends non-admin users back to the tracker. It must run after
// RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !userctx.GetIdentity(r.Context()).IsAdmin() {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
