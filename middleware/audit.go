package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/repositories"
	"github.com/blogem/time-tracker/userctx"
)

// BackgroundRunner runs work off the request goroutine
type BackgroundRunner interface {
	Go(fn func(ctx context.Context) error) error
}

// form fields never written to the audit log
var redactedFields = map[string]bool{
	"password": true,
}

// AuditLogger middleware logs all POST/PUT/DELETE requests. It must run
// after the auth middleware so the user email is known.
func AuditLogger(auditRepo repositories.AuditRepository, runner BackgroundRunner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Only log mutation operations
			if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodDelete {
				// Create audit log entry
				entry := &models.AuditLogEntry{
					UserEmail: userctx.GetUserEmail(r.Context()),
					Method:    r.Method,
					Path:      r.URL.Path,
					UserAgent: r.UserAgent(),
					IPAddress: getIPAddress(r),
					FormData:  captureFormData(r),
				}

				// Log in the background to avoid blocking request
				err := runner.Go(func(ctx context.Context) error {
					if err := auditRepo.Create(ctx, entry); err != nil {
						log.Printf("Failed to create audit log: %v", err)
						return err
					}
					return nil
				})
				if err != nil {
					log.Printf("Audit log for %s %s dropped: %v", entry.Method, entry.Path, err)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getIPAddress extracts IP address from request, checking X-Forwarded-For first
func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		// Take first IP if multiple
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	// Check X-Real-IP header
	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	// Remove port if present
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// captureFormData captures url-encoded form data as a JSON string
func captureFormData(r *http.Request) string {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		return ""
	}
	// Parse form data
	if err := r.ParseForm(); err != nil {
		return ""
	}

	// Convert to map
	formMap := make(map[string]interface{})
	for key, values := range r.PostForm {
		if redactedFields[key] {
			formMap[key] = "[redacted]"
			continue
		}
		if len(values) == 1 {
			formMap[key] = values[0]
		} else {
			formMap[key] = values
		}
	}
	if len(formMap) == 0 {
		return ""
	}

	// Convert to JSON
	jsonData, err := json.Marshal(formMap)
	if err != nil {
		return ""
	}

	return string(jsonData)
}
