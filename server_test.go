package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/blogem/time-tracker/config"
	"github.com/blogem/time-tracker/database"
	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/repositories"
)

// ServerTestSuite drives the full router against a temporary database
type ServerTestSuite struct {
	suite.Suite
	server *httptest.Server
	app    *app
}

func testConfig(t *testing.T, dbPath string) *config.Config {
	env := map[string]string{
		"DATABASE_PATH":  dbPath,
		"ADMIN_EMAIL":    "admin@company.com",
		"ADMIN_PASSWORD": "tracker@admin",
		"JWT_SECRET":     "test-secret",
		"TIMEZONE":       "UTC",
	}
	cfg, err := config.FromEnv(func(key string) string { return env[key] })
	require.NoError(t, err)
	return cfg
}

func (suite *ServerTestSuite) SetupTest() {
	t := suite.T()
	cfg := testConfig(t, filepath.Join(t.TempDir(), "tracker.db"))

	db, err := database.Open(cfg.DatabasePath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db))

	a, err := newApp(context.Background(), cfg, repositories.NewRepositories(db))
	require.NoError(t, err)
	t.Cleanup(a.close)
	suite.app = a

	r, err := setupRouter(a)
	require.NoError(t, err)
	suite.server = httptest.NewServer(r)
	t.Cleanup(suite.server.Close)
}

// client keeps cookies and does not follow redirects
func (suite *ServerTestSuite) client() *http.Client {
	jar, err := cookiejar.New(nil)
	suite.Require().NoError(err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (suite *ServerTestSuite) postForm(c *http.Client, path string, values url.Values) *http.Response {
	resp, err := c.PostForm(suite.server.URL+path, values)
	suite.Require().NoError(err)
	resp.Body.Close()
	return resp
}

func (suite *ServerTestSuite) get(c *http.Client, path string) (*http.Response, string) {
	resp, err := c.Get(suite.server.URL + path)
	suite.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	return resp, string(body)
}

func (suite *ServerTestSuite) loginAdmin() *http.Client {
	c := suite.client()
	resp := suite.postForm(c, "/login", url.Values{
		"mode":     {"admin"},
		"email":    {"admin@company.com"},
		"password": {"tracker@admin"},
	})
	suite.Require().Equal(http.StatusSeeOther, resp.StatusCode)
	return c
}

func (suite *ServerTestSuite) createEmployee(c *http.Client, name, email string) models.Employee {
	resp := suite.postForm(c, "/employees", url.Values{"name": {name}, "email": {email}, "department": {"Ops"}})
	suite.Require().Equal(http.StatusSeeOther, resp.StatusCode)

	employee, err := suite.app.repos.Employees.GetByEmail(context.Background(), email)
	suite.Require().NoError(err)
	return *employee
}

func (suite *ServerTestSuite) TestHealth() {
	resp, body := suite.get(suite.client(), "/health")
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Contains(suite.T(), body, "healthy")
}

func (suite *ServerTestSuite) TestAnonymousIsRedirectedToLogin() {
	resp, _ := suite.get(suite.client(), "/reports")
	assert.Equal(suite.T(), http.StatusSeeOther, resp.StatusCode)
	assert.Equal(suite.T(), "/login", resp.Header.Get("Location"))
}

func (suite *ServerTestSuite) TestLoginRejectsWrongPassword() {
	c := suite.client()
	resp, err := c.PostForm(suite.server.URL+"/login", url.Values{
		"mode": {"admin"}, "email": {"admin@company.com"}, "password": {"nope"},
	})
	suite.Require().NoError(err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(suite.T(), string(body), "invalid admin email or password")
}

func (suite *ServerTestSuite) TestLoginEmailMustMatchExactly() {
	c := suite.client()
	resp, err := c.PostForm(suite.server.URL+"/login", url.Values{
		"mode": {"admin"}, "email": {"  admin@company.com "}, "password": {"tracker@admin"},
	})
	suite.Require().NoError(err)
	resp.Body.Close()
	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)

	resp, _ = suite.get(c, "/")
	assert.Equal(suite.T(), http.StatusSeeOther, resp.StatusCode)

	admin := suite.loginAdmin()
	suite.createEmployee(admin, "Alice", "alice@company.com")

	resp = suite.postForm(suite.client(), "/login", url.Values{"mode": {"employee"}, "email": {" alice@company.com"}})
	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)

	resp, _ = suite.apiRequest(http.MethodPost, "/api/login", "", map[string]interface{}{
		"email": "admin@company.com ", "password": "tracker@admin", "admin": true,
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
}

func (suite *ServerTestSuite) TestEventsWithoutSessionIsNotALoginTarget() {
	c := suite.client()

	req, err := http.NewRequest(http.MethodGet, suite.server.URL+"/events", nil)
	suite.Require().NoError(err)
	req.Header.Set("Accept", "text/event-stream")
	resp, err := c.Do(req)
	suite.Require().NoError(err)
	resp.Body.Close()
	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)

	// same client, so the session cookie from the stream request is reused
	resp = suite.postForm(c, "/login", url.Values{
		"mode": {"admin"}, "email": {"admin@company.com"}, "password": {"tracker@admin"},
	})
	suite.Require().Equal(http.StatusSeeOther, resp.StatusCode)
	assert.Equal(suite.T(), "/", resp.Header.Get("Location"))
}

func (suite *ServerTestSuite) TestUnknownEmployeeCannotLogin() {
	c := suite.client()
	resp, err := c.PostForm(suite.server.URL+"/login", url.Values{"mode": {"employee"}, "email": {"ghost@company.com"}})
	suite.Require().NoError(err)
	resp.Body.Close()

	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
}

func (suite *ServerTestSuite) TestAdminFlow() {
	admin := suite.loginAdmin()

	_, body := suite.get(admin, "/")
	assert.Contains(suite.T(), body, "No employees available")

	alice := suite.createEmployee(admin, "Alice", "alice@company.com")

	_, body = suite.get(admin, "/employees")
	assert.Contains(suite.T(), body, "alice@company.com")

	resp := suite.postForm(admin, "/tracker", url.Values{"employee_id": {alice.ID}, "type": {"check-in"}})
	assert.Equal(suite.T(), http.StatusSeeOther, resp.StatusCode)

	_, body = suite.get(admin, "/")
	assert.Contains(suite.T(), body, "Checked In")

	_, body = suite.get(admin, "/reports?period=today")
	assert.Contains(suite.T(), body, "All Employees")

	resp, body = suite.get(admin, "/reports/export.csv?period=today&employee_id="+alice.ID)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Contains(suite.T(), resp.Header.Get("Content-Disposition"), "attendance-report-")
	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	suite.Require().NoError(err)
	suite.Require().Len(records, 2)
	assert.Equal(suite.T(), models.CSVHeader, records[0])
	assert.Equal(suite.T(), "Alice", records[1][1])

	resp, _ = suite.get(admin, "/reports/export.xlsx")
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	resp = suite.postForm(admin, "/tracker", url.Values{"employee_id": {alice.ID}, "type": {"lunch"}})
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
}

func (suite *ServerTestSuite) TestEmployeeFlow() {
	admin := suite.loginAdmin()
	alice := suite.createEmployee(admin, "Alice", "alice@company.com")
	bob := suite.createEmployee(admin, "Bob", "bob@company.com")

	employee := suite.client()
	resp := suite.postForm(employee, "/login", url.Values{"mode": {"employee"}, "email": {"alice@company.com"}})
	suite.Require().Equal(http.StatusSeeOther, resp.StatusCode)

	resp, _ = suite.get(employee, "/employees")
	assert.Equal(suite.T(), http.StatusSeeOther, resp.StatusCode)
	assert.Equal(suite.T(), "/", resp.Header.Get("Location"))

	// the submitted employee is ignored for non-admins
	resp = suite.postForm(employee, "/tracker", url.Values{"employee_id": {bob.ID}, "type": {"check-in"}})
	assert.Equal(suite.T(), http.StatusSeeOther, resp.StatusCode)

	logs, err := suite.app.repos.TimeLogs.GetAll(context.Background())
	suite.Require().NoError(err)
	suite.Require().Len(logs, 1)
	assert.Equal(suite.T(), alice.ID, logs[0].EmployeeID)

	_, body := suite.get(employee, "/")
	assert.Contains(suite.T(), body, "Tracking time for")
	assert.Contains(suite.T(), body, "Alice")
}

func (suite *ServerTestSuite) apiRequest(method, path, token string, payload interface{}) (*http.Response, []byte) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, suite.server.URL+path, body)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	return resp, data
}

func (suite *ServerTestSuite) apiLogin(payload map[string]interface{}) string {
	resp, data := suite.apiRequest(http.MethodPost, "/api/login", "", payload)
	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(data))

	var login struct {
		Token string `json:"token"`
	}
	suite.Require().NoError(json.Unmarshal(data, &login))
	return login.Token
}

func (suite *ServerTestSuite) TestAPI() {
	adminToken := suite.apiLogin(map[string]interface{}{"email": "admin@company.com", "password": "tracker@admin", "admin": true})

	resp, _ := suite.apiRequest(http.MethodGet, "/api/employees", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)

	resp, data := suite.apiRequest(http.MethodPost, "/api/employees", adminToken, map[string]string{"name": "Carol", "email": "carol@company.com"})
	suite.Require().Equal(http.StatusCreated, resp.StatusCode, string(data))
	var carol models.Employee
	suite.Require().NoError(json.Unmarshal(data, &carol))

	resp, _ = suite.apiRequest(http.MethodPost, "/api/employees", adminToken, map[string]string{"name": "Carol", "email": "carol@company.com"})
	assert.Equal(suite.T(), http.StatusConflict, resp.StatusCode)

	resp, _ = suite.apiRequest(http.MethodPost, "/api/employees", adminToken, map[string]string{"name": "", "email": "bad"})
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)

	employeeToken := suite.apiLogin(map[string]interface{}{"email": "carol@company.com"})

	resp, _ = suite.apiRequest(http.MethodGet, "/api/employees", employeeToken, nil)
	assert.Equal(suite.T(), http.StatusForbidden, resp.StatusCode)

	resp, data = suite.apiRequest(http.MethodPost, "/api/time-logs", employeeToken, map[string]string{"type": "check-in"})
	suite.Require().Equal(http.StatusCreated, resp.StatusCode, string(data))

	resp, _ = suite.apiRequest(http.MethodPost, "/api/time-logs", employeeToken, map[string]string{"type": "lunch"})
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)

	resp, data = suite.apiRequest(http.MethodGet, "/api/time-logs", employeeToken, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var logs []models.TimeLog
	suite.Require().NoError(json.Unmarshal(data, &logs))
	assert.Len(suite.T(), logs, 1)

	resp, data = suite.apiRequest(http.MethodGet, "/api/reports?period=today", adminToken, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var report models.ReportView
	suite.Require().NoError(json.Unmarshal(data, &report))
	suite.Require().Len(report.Rows, 1)
	assert.NotEmpty(suite.T(), report.Rows[0].CheckIn)

	resp, _ = suite.apiRequest(http.MethodGet, "/api/reports?period=month", adminToken, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)

	resp, _ = suite.apiRequest(http.MethodDelete, "/api/employees/"+carol.ID, adminToken, nil)
	assert.Equal(suite.T(), http.StatusNoContent, resp.StatusCode)

	resp, _ = suite.apiRequest(http.MethodDelete, "/api/employees/"+carol.ID, adminToken, nil)
	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)

	// logs survive the employee
	all, err := suite.app.repos.TimeLogs.GetAll(context.Background())
	suite.Require().NoError(err)
	assert.Len(suite.T(), all, 1)
}

func (suite *ServerTestSuite) TestAuditCommand() {
	c := suite.loginAdmin()
	suite.createEmployee(c, "Erin Example", "erin@company.com")

	ctx := context.Background()
	suite.Require().Eventually(func() bool {
		entries, err := suite.app.repos.Audit.GetRecent(ctx, 10)
		return err == nil && len(entries) >= 2
	}, 2*time.Second, 10*time.Millisecond)

	entries, err := suite.app.repos.Audit.GetRecent(ctx, 10)
	suite.Require().NoError(err)
	for _, e := range entries {
		assert.NotContains(suite.T(), e.FormData, "tracker@admin")
	}

	var out bytes.Buffer
	suite.Require().NoError(runAudit(ctx, suite.app.cfg, 10, &out))
	assert.Contains(suite.T(), out.String(), "/employees")
	assert.Contains(suite.T(), out.String(), "admin@company.com")

	assert.Error(suite.T(), runAudit(ctx, suite.app.cfg, 0, &out))
}

// TestServerTestSuite runs the test suite
func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
