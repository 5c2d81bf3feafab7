package controllers

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"

	"github.com/blogem/time-tracker/authenticator"
	"github.com/blogem/time-tracker/events"
	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/services"
	"github.com/blogem/time-tracker/templates"
)

var templateFuncs = template.FuncMap{
	"add":         func(a, b int) int { return a + b },
	"displayDate": models.FormatDisplayDate,
	"dash": func(s string) string {
		if s == "" {
			return models.Placeholder
		}
		return s
	},
}

// renderTemplate creates a template set and renders it with the provided data
func renderTemplate(w http.ResponseWriter, templateName string, pageTemplate string, data interface{}) error {
	return renderTemplateWithStatus(w, http.StatusOK, templateName, pageTemplate, data)
}

// renderTemplateWithStatus creates a template set and renders it with the provided data and status code
func renderTemplateWithStatus(w http.ResponseWriter, statusCode int, templateName string, pageTemplate string, data interface{}) error {
	tmpl, err := template.New(templateName).Funcs(templateFuncs).ParseFS(templates.FS, "layout.html", pageTemplate)
	if err != nil {
		http.Error(w, "Failed to parse template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}

	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		log.Printf("Failed to render %s: %v", pageTemplate, err)
		return err
	}

	return nil
}

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// page holds the fields every template reads
type page struct {
	Title       string
	CurrentPage string
	Error       string
	Success     string
	Identity    *models.Identity
}

// Watch lists the tables whose changes make the page reload
func (p page) Watch() string {
	switch p.CurrentPage {
	case "tracker":
		return models.TableTimeLogs + " " + models.TableEmployees
	case "employees":
		return models.TableEmployees
	case "reports":
		return models.TableTimeLogs
	default:
		return ""
	}
}

// Options carries the optional collaborators of the controllers
type Options struct {
	SSO    authenticator.Provider // nil when single sign-on is off
	Tokens *authenticator.TokenIssuer
	Broker *events.Broker
}

// Controllers holds all controller instances
type Controllers struct {
	Auth      *AuthController
	Tracker   *TrackerController
	Employees *EmployeeController
	Reports   *ReportController
	Events    *EventsController
	API       *APIController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, opts Options) *Controllers {
	return &Controllers{
		Auth:      NewAuthController(services, opts.SSO),
		Tracker:   NewTrackerController(services),
		Employees: NewEmployeeController(services),
		Reports:   NewReportController(services),
		Events:    NewEventsController(opts.Broker),
		API:       NewAPIController(services, opts.Tokens),
	}
}
