package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/blogem/time-tracker/authenticator"
	"github.com/blogem/time-tracker/middleware"
	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/services"
)

const sessionState = "oauth_state"

// AuthController handles login and logout
type AuthController struct {
	services *services.Services
	sso      authenticator.Provider
}

// NewAuthController creates a new auth controller. sso may be nil.
func NewAuthController(services *services.Services, sso authenticator.Provider) *AuthController {
	return &AuthController{
		services: services,
		sso:      sso,
	}
}

type loginPage struct {
	page
	Mode       string
	Email      string
	SSOEnabled bool
}

// LoginPage handles GET /login
func (c *AuthController) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.LoadIdentity(middleware.GetSession(r)) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	renderTemplate(w, "login", "login.html", loginPage{
		page:       page{Title: "Sign In", CurrentPage: "login", Error: r.URL.Query().Get("error")},
		Mode:       "employee",
		SSOEnabled: c.sso != nil,
	})
}

// Login handles POST /login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	mode := r.FormValue("mode")
	email := r.FormValue("email")

	var identity *models.Identity
	var err error
	if mode == "admin" {
		identity, err = c.services.Auth.LoginAdmin(email, r.FormValue("password"))
	} else {
		mode = "employee"
		identity, err = c.services.Auth.LoginEmployee(r.Context(), email)
	}

	if err != nil {
		status := http.StatusUnauthorized
		message := err.Error()
		if !errors.Is(err, models.ErrInvalidCredentials) && !errors.Is(err, models.ErrEmployeeNotFound) {
			log.Printf("Login failed: %v", err)
			status = http.StatusInternalServerError
			message = "Login failed, please try again"
		}

		renderTemplateWithStatus(w, status, "login_error", "login.html", loginPage{
			page:       page{Title: "Sign In", CurrentPage: "login", Error: message},
			Mode:       mode,
			Email:      email,
			SSOEnabled: c.sso != nil,
		})
		return
	}

	c.startSession(w, r, identity)
}

// SSOLogin handles GET /login/sso
func (c *AuthController) SSOLogin(w http.ResponseWriter, r *http.Request) {
	if c.sso == nil {
		http.NotFound(w, r)
		return
	}

	state, err := generateRandomState()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	middleware.GetSession(r).Set(sessionState, state)
	http.Redirect(w, r, c.sso.GetAuthURL(state), http.StatusTemporaryRedirect)
}

// Callback handles the redirect back from the identity provider
func (c *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	if c.sso == nil {
		http.NotFound(w, r)
		return
	}

	sess := middleware.GetSession(r)
	storedState, _ := sess.Get(sessionState).(string)
	if storedState == "" {
		http.Error(w, "State not found in session", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != storedState {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}
	sess.Delete(sessionState)

	token, err := c.sso.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		http.Error(w, "Failed to exchange authorization code for a token: "+err.Error(), http.StatusUnauthorized)
		return
	}

	claims, err := c.sso.GetClaims(r.Context(), token)
	if err != nil {
		http.Error(w, "Failed to verify ID Token: "+err.Error(), http.StatusUnauthorized)
		return
	}

	identity, err := c.services.Auth.LoginVerifiedEmail(r.Context(), claims.Email())
	if err != nil {
		log.Printf("SSO login rejected for %q: %v", claims.Email(), err)
		http.Redirect(w, r, "/login?error="+url.QueryEscape(models.ErrEmployeeNotFound.Error()), http.StatusSeeOther)
		return
	}

	c.startSession(w, r, identity)
}

// Logout handles GET /logout
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearIdentity(middleware.GetSession(r))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (c *AuthController) startSession(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	sess := middleware.GetSession(r)
	if err := middleware.StoreIdentity(sess, identity); err != nil {
		http.Error(w, "Failed to store session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	target := "/"
	if redirect, ok := sess.Get(middleware.SessionRedirectAfter).(string); ok && strings.HasPrefix(redirect, "/") && !strings.HasPrefix(redirect, "//") {
		target = redirect
		sess.Delete(middleware.SessionRedirectAfter)
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
