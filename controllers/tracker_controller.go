package controllers

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/blogem/time-tracker/middleware"
	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/services"
	"github.com/blogem/time-tracker/userctx"
)

// TrackerController handles the time-tracking panel
type TrackerController struct {
	services *services.Services
}

// NewTrackerController creates a new tracker controller
func NewTrackerController(services *services.Services) *TrackerController {
	return &TrackerController{
		services: services,
	}
}

type trackerPage struct {
	page
	Employees  []models.Employee
	SelectedID string
	LogTypes   []models.LogType
	Activity   []models.TimeLog
}

// Index handles GET /
func (c *TrackerController) Index(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusOK, r.URL.Query().Get("employee_id"), "", r.URL.Query().Get("success"))
}

// Record handles POST /tracker
func (c *TrackerController) Record(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	identity := userctx.GetIdentity(r.Context())
	employeeID := r.FormValue("employee_id")
	if !identity.IsAdmin() {
		employeeID = identity.EmployeeID
	}

	logType, err := models.ParseLogType(r.FormValue("type"))
	if err == nil {
		_, err = c.services.TimeLogs.RecordEvent(r.Context(), employeeID, logType)
	}
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, models.ErrValidation) && !errors.Is(err, models.ErrNotFound) {
			log.Printf("Failed to add time log: %v", err)
			status = http.StatusInternalServerError
		}
		c.render(w, r, status, employeeID, "Failed to add time log: "+err.Error(), "")
		return
	}

	target := "/?success=" + url.QueryEscape(logType.Label()+" recorded")
	if identity.IsAdmin() {
		target += "&employee_id=" + url.QueryEscape(employeeID)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (c *TrackerController) render(w http.ResponseWriter, r *http.Request, status int, selectedID, errMsg, success string) {
	identity := userctx.GetIdentity(r.Context())

	var employees []models.Employee
	activityFor := ""
	if identity.IsAdmin() {
		all, err := c.services.Employees.GetAllEmployees(r.Context())
		if err != nil {
			http.Error(w, "Failed to load employees: "+err.Error(), http.StatusInternalServerError)
			return
		}
		employees = all
	} else {
		employee, err := c.services.Employees.GetEmployee(r.Context(), identity.EmployeeID)
		if errors.Is(err, models.ErrNotFound) {
			// the employee was deleted while logged in
			middleware.ClearIdentity(middleware.GetSession(r))
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err != nil {
			http.Error(w, "Failed to load employee: "+err.Error(), http.StatusInternalServerError)
			return
		}
		employees = []models.Employee{*employee}
		activityFor = employee.ID
		selectedID = employee.ID
	}

	activity, err := c.services.TimeLogs.GetTodayActivity(r.Context(), activityFor, services.RecentActivityLimit)
	if err != nil {
		http.Error(w, "Failed to load today's activity: "+err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplateWithStatus(w, status, "tracker", "tracker.html", trackerPage{
		page: page{
			Title:       "Time Tracking",
			CurrentPage: "tracker",
			Error:       errMsg,
			Success:     success,
			Identity:    identity,
		},
		Employees:  employees,
		SelectedID: selectedID,
		LogTypes:   models.LogTypes,
		Activity:   activity,
	})
}
