package authenticator

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blogem/time-tracker/models"
)

// ErrInvalidToken is returned for missing, expired or tampered tokens
var ErrInvalidToken = errors.New("invalid token")

const tokenIssuer = "time-tracker"

// identityClaims is the JWT payload carrying an Identity
type identityClaims struct {
	Role       models.Role `json:"role"`
	Email      string      `json:"email"`
	EmployeeID string      `json:"employee_id,omitempty"`
	Name       string      `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 API tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer for the given secret and lifetime
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for identity and its expiry
func (t *TokenIssuer) Issue(identity *models.Identity) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)

	claims := identityClaims{
		Role:       identity.Role,
		Email:      identity.Email,
		EmployeeID: identity.EmployeeID,
		Name:       identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   identity.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies tokenString and returns the identity it carries
func (t *TokenIssuer) Parse(tokenString string) (*models.Identity, error) {
	claims := &identityClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Role != models.RoleAdmin && claims.Role != models.RoleEmployee {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	return &models.Identity{
		Role:       claims.Role,
		Email:      claims.Email,
		EmployeeID: claims.EmployeeID,
		Name:       claims.Name,
	}, nil
}
