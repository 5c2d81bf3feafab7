package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/blogem/time-tracker/authenticator"
	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/services"
	"github.com/blogem/time-tracker/userctx"
	"github.com/go-chi/chi/v5"
)

// APIController serves the JSON API
type APIController struct {
	services *services.Services
	tokens   *authenticator.TokenIssuer
}

// NewAPIController creates a new API controller
func NewAPIController(services *services.Services, tokens *authenticator.TokenIssuer) *APIController {
	return &APIController{
		services: services,
		tokens:   tokens,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Admin    bool   `json:"admin"`
}

type loginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Identity  *models.Identity `json:"identity"`
}

type timeLogRequest struct {
	EmployeeID string `json:"employee_id"`
	Type       string `json:"type"`
}

// errorStatus maps service errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrEmployeeNotFound):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("API error: %v", err)
	}
	writeJSONError(w, status, err.Error())
}

// Login handles POST /api/login
func (c *APIController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var identity *models.Identity
	var err error
	if req.Admin {
		identity, err = c.services.Auth.LoginAdmin(req.Email, req.Password)
	} else {
		identity, err = c.services.Auth.LoginEmployee(r.Context(), req.Email)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, expires, err := c.tokens.Issue(identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expires, Identity: identity})
}

// ListEmployees handles GET /api/employees
func (c *APIController) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := c.services.Employees.GetAllEmployees(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if employees == nil {
		employees = []models.Employee{}
	}
	writeJSON(w, http.StatusOK, employees)
}

// CreateEmployee handles POST /api/employees
func (c *APIController) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var form models.EmployeeForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	employee, err := c.services.Employees.CreateEmployee(r.Context(), &form)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, employee)
}

// DeleteEmployee handles DELETE /api/employees/{id}
func (c *APIController) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := c.services.Employees.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTimeLogs handles GET /api/time-logs. Employees only see their own.
func (c *APIController) ListTimeLogs(w http.ResponseWriter, r *http.Request) {
	identity := userctx.GetIdentity(r.Context())

	logs, err := c.services.TimeLogs.GetAllLogs(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	date := r.URL.Query().Get("date")
	visible := make([]models.TimeLog, 0, len(logs))
	for _, l := range logs {
		if !identity.IsAdmin() && l.EmployeeID != identity.EmployeeID {
			continue
		}
		if date != "" && l.Date != date {
			continue
		}
		visible = append(visible, l)
	}
	writeJSON(w, http.StatusOK, visible)
}

// CreateTimeLog handles POST /api/time-logs
func (c *APIController) CreateTimeLog(w http.ResponseWriter, r *http.Request) {
	var req timeLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	identity := userctx.GetIdentity(r.Context())
	if !identity.IsAdmin() {
		if req.EmployeeID != "" && req.EmployeeID != identity.EmployeeID {
			writeJSONError(w, http.StatusForbidden, "employees can only log their own time")
			return
		}
		req.EmployeeID = identity.EmployeeID
	}

	logType, err := models.ParseLogType(req.Type)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	created, err := c.services.TimeLogs.RecordEvent(r.Context(), req.EmployeeID, logType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Report handles GET /api/reports
func (c *APIController) Report(w http.ResponseWriter, r *http.Request) {
	report, err := c.services.Reports.GetReport(r.Context(), filterFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if report.Rows == nil {
		report.Rows = []models.DailyReport{}
	}
	writeJSON(w, http.StatusOK, report)
}
