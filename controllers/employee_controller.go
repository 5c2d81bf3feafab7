package controllers

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/services"
	"github.com/blogem/time-tracker/userctx"
	"github.com/go-chi/chi/v5"
)

// EmployeeController handles employee management requests
type EmployeeController struct {
	services *services.Services
}

// NewEmployeeController creates a new employee controller
func NewEmployeeController(services *services.Services) *EmployeeController {
	return &EmployeeController{
		services: services,
	}
}

type employeesPage struct {
	page
	Employees []models.Employee
	Form      *models.EmployeeForm
}

// Index handles GET /employees
func (c *EmployeeController) Index(w http.ResponseWriter, r *http.Request) {
	employees, err := c.services.Employees.GetAllEmployees(r.Context())
	if err != nil {
		http.Error(w, "Failed to load employees: "+err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, "employees", "employees.html", employeesPage{
		page: page{
			Title:       "Employee Management",
			CurrentPage: "employees",
			Error:       r.URL.Query().Get("error"),
			Success:     r.URL.Query().Get("success"),
			Identity:    userctx.GetIdentity(r.Context()),
		},
		Employees: employees,
		Form:      &models.EmployeeForm{},
	})
}

// Create handles POST /employees
func (c *EmployeeController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.EmployeeForm{
		Name:       r.FormValue("name"),
		Email:      r.FormValue("email"),
		Department: r.FormValue("department"),
	}

	employee, err := c.services.Employees.CreateEmployee(r.Context(), form)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, models.ErrValidation) && !errors.Is(err, models.ErrDuplicateEmail) {
			log.Printf("Error adding employee: %v", err)
			status = http.StatusInternalServerError
		}

		// Reload page with form data and error
		employees, loadErr := c.services.Employees.GetAllEmployees(r.Context())
		if loadErr != nil {
			http.Error(w, "Failed to load employees: "+loadErr.Error(), http.StatusInternalServerError)
			return
		}

		renderTemplateWithStatus(w, status, "employees_create_error", "employees.html", employeesPage{
			page: page{
				Title:       "Employee Management",
				CurrentPage: "employees",
				Error:       "Failed to add employee: " + err.Error(),
				Identity:    userctx.GetIdentity(r.Context()),
			},
			Employees: employees,
			Form:      form,
		})
		return
	}

	http.Redirect(w, r, "/employees?success="+url.QueryEscape(employee.Name+" added"), http.StatusSeeOther)
}

// Delete handles POST /employees/{id}/delete
func (c *EmployeeController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.services.Employees.DeleteEmployee(r.Context(), id); err != nil {
		log.Printf("Error deleting employee %s: %v", id, err)
		http.Redirect(w, r, "/employees?error="+url.QueryEscape("Failed to delete employee"), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/employees", http.StatusSeeOther)
}
