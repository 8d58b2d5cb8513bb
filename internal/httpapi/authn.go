package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"wisatara.id/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// Storefront visitors browse and check out without an account, so everything
// a public page needs stays open; the console surface requires a token.
var publicPaths = []string{
	"/v1/auth/register",
	"/v1/auth/verify",
	"/v1/auth/login",
	"/v1/checkout",
	"/v1/geo/provinces",
	"/metrics",
	"/healthz",
	"/readyz",
	"/v1/info",
	"/",
}
var publicPrefixes = []string{
	"/v1/geo/provinces/",
	"/v1/storefront/",
	"/v1/armada/types",
	"/v1/armada/bodies",
	"/v1/armada/engines",
}

func (a *API) withAuth(next http.Handler) http.Handler {
	if a == nil || a.auth == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		// Routes nothing matched fall through to the catch-all handler,
		// which answers 404. A token must not be required to learn that.
		if _, pattern := a.mux.Handler(r); pattern == "/" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			respondError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		user, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrNotFound):
				respondError(w, r, http.StatusUnauthorized, "invalid token")
			default:
				respondError(w, r, http.StatusInternalServerError, "authentication error")
			}
			return
		}

		ctx := auth.ContextWithUser(r.Context(), user)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireUser pulls the authenticated user from context; handlers behind
// withAuth can rely on it being present.
func requireUser(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return u, true
}

// requireOrganization additionally demands tenant membership.
func requireOrganization(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	u, ok := requireUser(w, r)
	if !ok {
		return nil, false
	}
	if u.OrganizationID == "" {
		respondError(w, r, http.StatusForbidden, "organization membership required")
		return nil, false
	}
	return u, true
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
