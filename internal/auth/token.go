package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultIssuer = "wisatara"

// Claims is the token payload issued on login. The identity fields mirror
// what the console resolver reads, so a freshly issued token round-trips
// through session.DecodeIdentity without a second lookup.
type Claims struct {
	Name             string `json:"name,omitempty"`
	Email            string `json:"email,omitempty"`
	Role             string `json:"role,omitempty"`
	IsAdmin          bool   `json:"is_admin"`
	OrganizationID   string `json:"organization_id,omitempty"`
	OrganizationName string `json:"organization_name,omitempty"`
	jwt.RegisteredClaims
}

// signToken signs HS256 claims for the given user.
func signToken(user *User, orgName string, secret []byte, issuer string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if issuer == "" {
		issuer = defaultIssuer
	}
	role := "user"
	if user.IsAdmin {
		role = "admin"
	} else if user.OrganizationID != "" {
		role = "partner"
	}
	expiresAt := now.Add(ttl)
	claims := Claims{
		Name:             user.Name,
		Email:            user.Email,
		Role:             role,
		IsAdmin:          user.IsAdmin,
		OrganizationID:   user.OrganizationID,
		OrganizationName: orgName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// parseToken verifies signature and standard claims.
func parseToken(token string, secret []byte, issuer string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	if issuer == "" {
		issuer = defaultIssuer
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
