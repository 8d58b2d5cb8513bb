package httpapi

import (
	"net/http"
	"strings"
	"time"

	"wisatara.id/internal/audit"
	"wisatara.id/internal/auth"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	User *auth.User `json:"user"`
	// RegisterToken is handed to the verification email sender. It shows up
	// in the response so local setups without SMTP can finish the flow.
	RegisterToken string    `json:"register_token"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *auth.User `json:"user"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user, tok, err := a.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.register", map[string]any{"user_id": user.ID, "email": user.Email})
	respondData(w, r, http.StatusCreated, registerResponse{
		User:          user,
		RegisterToken: tok.Token,
		ExpiresAt:     tok.ExpiresAt,
	})
}

func (a *API) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.auth.Verify(r.Context(), strings.TrimSpace(req.Token))
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.verify", map[string]any{"user_id": user.ID})
	respondData(w, r, http.StatusOK, user)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	token, exp, user, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{"user_id": user.ID})
	respondData(w, r, http.StatusOK, sessionResponse{Token: token, ExpiresAt: exp, User: user})
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	raw, ok := auth.TokenFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	token, exp, user, err := a.auth.Refresh(r.Context(), raw)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, sessionResponse{Token: token, ExpiresAt: exp, User: user})
}

type profileUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		profile, err := a.auth.Profile(r.Context(), user.ID)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		respondData(w, r, http.StatusOK, profile)
	case http.MethodPut:
		var req profileUpdateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := a.auth.UpdateProfile(r.Context(), user.ID, auth.UserUpdate{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "profile.update", nil)
		respondData(w, r, http.StatusOK, updated)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}
