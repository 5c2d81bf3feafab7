package controllers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/services"
	"github.com/blogem/time-tracker/userctx"
)

// ReportController handles the attendance reports page and its exports
type ReportController struct {
	services *services.Services
}

// NewReportController creates a new report controller
func NewReportController(services *services.Services) *ReportController {
	return &ReportController{
		services: services,
	}
}

type reportsPage struct {
	page
	Employees []models.Employee
	Periods   []models.Period
	Report    *models.ReportView
	Query     template.URL
}

// filterFromQuery reads employee_id, period and date from the URL
func filterFromQuery(r *http.Request) models.ReportFilter {
	q := r.URL.Query()
	filter := models.ReportFilter{
		EmployeeID: q.Get("employee_id"),
		Period:     models.Period(q.Get("period")),
		Date:       q.Get("date"),
	}
	filter.Normalize()
	return filter
}

type filterQuery models.ReportFilter

func (f filterQuery) encode() string {
	values := url.Values{}
	if f.EmployeeID != "" {
		values.Set("employee_id", f.EmployeeID)
	}
	values.Set("period", string(f.Period))
	if f.Date != "" {
		values.Set("date", f.Date)
	}
	return values.Encode()
}

// Index handles GET /reports
func (c *ReportController) Index(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	employees, err := c.services.Employees.GetAllEmployees(r.Context())
	if err != nil {
		http.Error(w, "Failed to load employees: "+err.Error(), http.StatusInternalServerError)
		return
	}

	data := reportsPage{
		page: page{
			Title:       "Attendance Reports",
			CurrentPage: "reports",
			Identity:    userctx.GetIdentity(r.Context()),
		},
		Employees: employees,
		Periods:   models.Periods,
		Query:     template.URL(filterQuery(filter).encode()),
	}

	report, err := c.services.Reports.GetReport(r.Context(), filter)
	if err != nil {
		data.Error = err.Error()
		data.Report = &models.ReportView{Filter: filter}
		renderTemplateWithStatus(w, http.StatusBadRequest, "reports_error", "reports.html", data)
		return
	}
	data.Report = report

	renderTemplate(w, "reports", "reports.html", data)
}

// ExportCSV handles GET /reports/export.csv
func (c *ReportController) ExportCSV(w http.ResponseWriter, r *http.Request) {
	c.export(w, r, "csv", "text/csv; charset=utf-8", c.services.Reports.WriteCSV)
}

// ExportXLSX handles GET /reports/export.xlsx
func (c *ReportController) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	c.export(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", c.services.Reports.WriteXLSX)
}

type reportWriter func(ctx context.Context, filter models.ReportFilter, w io.Writer) (int, error)

func (c *ReportController) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write reportWriter) {
	filter := filterFromQuery(r)
	if errs := filter.Validate(); len(errs) > 0 {
		http.Error(w, "Invalid report filter: "+errs[0], http.StatusBadRequest)
		return
	}

	// buffer so a failure can still become an error response
	var buf bytes.Buffer
	rows, err := write(r.Context(), filter, &buf)
	if err != nil {
		log.Printf("Failed to export report: %v", err)
		http.Error(w, "Failed to export report: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", c.services.Reports.ExportFilename(ext)))
	w.Header().Set("X-Report-Rows", fmt.Sprint(rows))
	w.Write(buf.Bytes())
}
