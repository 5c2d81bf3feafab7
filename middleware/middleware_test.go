package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gitea.com/go-chi/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/repositories/mocks"
	"github.com/blogem/time-tracker/userctx"
)

type fakeSession map[interface{}]interface{}

func (s fakeSession) Set(key, val interface{}) error { s[key] = val; return nil }
func (s fakeSession) Get(key interface{}) interface{} { return s[key] }
func (s fakeSession) Delete(key interface{}) error   { delete(s, key); return nil }

// withSession runs next behind the memory session middleware. seed runs on
// the request's session before next, inspect after it.
func withSession(t *testing.T, seed, inspect func(SessionStore), next http.Handler) http.Handler {
	sessioner, err := session.Sessioner(session.Options{Provider: "memory", CookieName: "test_session"})
	require.NoError(t, err)

	return sessioner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r)
		if seed != nil {
			seed(sess)
		}
		next.ServeHTTP(w, r)
		if inspect != nil {
			inspect(sess)
		}
	}))
}

func identityEcho(w http.ResponseWriter, r *http.Request) {
	identity := userctx.GetIdentity(r.Context())
	if identity == nil {
		w.Write([]byte("none"))
		return
	}
	w.Write([]byte(string(identity.Role) + ":" + identity.Email))
}

func TestStoreAndLoadIdentity(t *testing.T) {
	sess := fakeSession{}
	identity := &models.Identity{Role: models.RoleEmployee, Email: "alice@company.com", EmployeeID: "e1", Name: "Alice"}

	require.NoError(t, StoreIdentity(sess, identity))
	assert.Equal(t, identity, LoadIdentity(sess))

	ClearIdentity(sess)
	assert.Nil(t, LoadIdentity(sess))
}

func TestLoadIdentity_UnknownRole(t *testing.T) {
	sess := fakeSession{SessionRole: "root", SessionEmail: "x@y.z"}
	assert.Nil(t, LoadIdentity(sess))
}

func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	var redirect interface{}
	handler := withSession(t, nil, func(sess SessionStore) {
		redirect = sess.Get(SessionRedirectAfter)
	}, RequireAuth(http.HandlerFunc(identityEcho)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, "/reports", redirect)
}

func TestRequireAuth_EventStreamIsNotRemembered(t *testing.T) {
	var redirect interface{}
	handler := withSession(t, nil, func(sess SessionStore) {
		redirect = sess.Get(SessionRedirectAfter)
	}, RequireAuth(http.HandlerFunc(identityEcho)))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Accept", "text/event-stream")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Nil(t, redirect)
}

func TestRequireAuth_PassesIdentity(t *testing.T) {
	handler := withSession(t, func(sess SessionStore) {
		require.NoError(t, StoreIdentity(sess, &models.Identity{Role: models.RoleAdmin, Email: "admin@company.com"}))
	}, nil, RequireAuth(http.HandlerFunc(identityEcho)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin:admin@company.com", rec.Body.String())
}

func TestRequireStreamAuth(t *testing.T) {
	var redirect interface{}
	anonymous := withSession(t, nil, func(sess SessionStore) {
		redirect = sess.Get(SessionRedirectAfter)
	}, RequireStreamAuth(http.HandlerFunc(identityEcho)))

	rec := httptest.NewRecorder()
	anonymous.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, redirect)

	loggedIn := withSession(t, func(sess SessionStore) {
		require.NoError(t, StoreIdentity(sess, &models.Identity{Role: models.RoleEmployee, Email: "alice@company.com", EmployeeID: "e1"}))
	}, nil, RequireStreamAuth(http.HandlerFunc(identityEcho)))

	rec = httptest.NewRecorder()
	loggedIn.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "employee:alice@company.com", rec.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(identityEcho))

	employee := httptest.NewRequest(http.MethodGet, "/employees", nil)
	employee = employee.WithContext(userctx.SetIdentity(employee.Context(), &models.Identity{Role: models.RoleEmployee, Email: "a@b.c"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, employee)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	admin := httptest.NewRequest(http.MethodGet, "/employees", nil)
	admin = admin.WithContext(userctx.SetIdentity(admin.Context(), &models.Identity{Role: models.RoleAdmin, Email: "admin@company.com"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

type fakeParser struct{}

func (fakeParser) Parse(token string) (*models.Identity, error) {
	switch token {
	case "admin":
		return &models.Identity{Role: models.RoleAdmin, Email: "admin@company.com"}, nil
	case "employee":
		return &models.Identity{Role: models.RoleEmployee, Email: "alice@company.com", EmployeeID: "e1"}, nil
	}
	return nil, errors.New("bad token")
}

func TestRequireToken(t *testing.T) {
	handler := RequireToken(fakeParser{})(RequireAdminToken(http.HandlerFunc(identityEcho)))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic admin", http.StatusUnauthorized},
		{"invalid", "Bearer nope", http.StatusUnauthorized},
		{"not admin", "Bearer employee", http.StatusForbidden},
		{"admin", "Bearer admin", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status != http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

type syncRunner struct{ err error }

func (s syncRunner) Go(fn func(ctx context.Context) error) error {
	if s.err != nil {
		return s.err
	}
	fn(context.Background())
	return nil
}

func TestAuditLogger_RecordsMutations(t *testing.T) {
	auditRepo := mocks.NewMockAuditRepository(t)
	auditRepo.EXPECT().Create(mock.Anything, mock.MatchedBy(func(e *models.AuditLogEntry) bool {
		return e.Method == http.MethodPost &&
			e.Path == "/login" &&
			e.UserEmail == "admin@company.com" &&
			e.IPAddress == "10.0.0.1" &&
			strings.Contains(e.FormData, `"password":"[redacted]"`) &&
			strings.Contains(e.FormData, `"email":"admin@company.com"`)
	})).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=admin%40company.com&password=secret"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	req = req.WithContext(userctx.SetUserEmail(req.Context(), "admin@company.com"))

	rec := httptest.NewRecorder()
	AuditLogger(auditRepo, syncRunner{})(http.HandlerFunc(identityEcho)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuditLogger_SkipsReads(t *testing.T) {
	auditRepo := mocks.NewMockAuditRepository(t)

	rec := httptest.NewRecorder()
	AuditLogger(auditRepo, syncRunner{})(http.HandlerFunc(identityEcho)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuditLogger_DroppedStillServes(t *testing.T) {
	auditRepo := mocks.NewMockAuditRepository(t)

	rec := httptest.NewRecorder()
	AuditLogger(auditRepo, syncRunner{err: errors.New("queue full")})(http.HandlerFunc(identityEcho)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/employees/e1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetIPAddress(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:5555"
	assert.Equal(t, "192.168.1.5", getIPAddress(req))

	req.Header.Set("X-Real-IP", "172.16.0.9")
	assert.Equal(t, "172.16.0.9", getIPAddress(req))
}
