package userctx

import (
	"context"

	"github.com/blogem/time-tracker/models"
)

// Context key type
type contextKey string

const userEmailKey contextKey = "user_email"
const identityKey contextKey = "identity"

// SetUserEmail adds user email to request context
func SetUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKey, email)
}

// GetUserEmail retrieves user email from request context
func GetUserEmail(ctx context.Context) string {
	email, ok := ctx.Value(userEmailKey).(string)
	if !ok || email == "" {
		return "anonymous"
	}
	return email
}

// SetIdentity stores the logged-in identity and its email in the context
func SetIdentity(ctx context.Context, identity *models.Identity) context.Context {
	ctx = context.WithValue(ctx, identityKey, identity)
	return SetUserEmail(ctx, identity.Email)
}

// GetIdentity returns the logged-in identity, or nil
func GetIdentity(ctx context.Context) *models.Identity {
	identity, _ := ctx.Value(identityKey).(*models.Identity)
	return identity
}
