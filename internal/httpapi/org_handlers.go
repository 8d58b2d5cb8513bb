package httpapi

import (
	"net/http"
	"strings"

	"wisatara.id/internal/audit"
	"wisatara.id/internal/auth"
)

type createOrganizationRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type joinOrganizationRequest struct {
	Code string `json:"code"`
}

func (a *API) handleOrganizations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		user, ok := requireUser(w, r)
		if !ok {
			return
		}
		var req createOrganizationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		org, err := a.auth.CreateOrganization(r.Context(), user.ID, req.Name, req.Type)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "organization.create", map[string]any{
			"organization_id": org.ID,
			"code":            org.Code,
		})
		w.Header().Set("Location", "/v1/organizations/me")
		respondData(w, r, http.StatusCreated, org)
	case http.MethodGet:
		// The onboarding form needs the type list.
		respondData(w, r, http.StatusOK, map[string]any{"types": auth.OrganizationTypes})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleOrganizationJoin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req joinOrganizationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	org, err := a.auth.JoinOrganization(r.Context(), user.ID, req.Code)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "organization.join", map[string]any{"organization_id": org.ID})
	respondData(w, r, http.StatusOK, org)
}

type organizationUpdateRequest struct {
	Name       *string `json:"name,omitempty"`
	Type       *string `json:"type,omitempty"`
	Address    *string `json:"address,omitempty"`
	ProvinceID *string `json:"province_id,omitempty"`
	CityID     *string `json:"city_id,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
}

func (a *API) handleOrganizationMe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		org, err := a.auth.Organization(r.Context(), user.OrganizationID)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		respondData(w, r, http.StatusOK, org)
	case http.MethodPut:
		var req organizationUpdateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		org, err := a.auth.UpdateOrganization(r.Context(), user.OrganizationID, auth.OrganizationUpdate{
			Name:       req.Name,
			Type:       req.Type,
			Address:    req.Address,
			ProvinceID: req.ProvinceID,
			CityID:     req.CityID,
			Phone:      req.Phone,
			Email:      req.Email,
		})
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "organization.update", map[string]any{"organization_id": org.ID})
		respondData(w, r, http.StatusOK, org)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}

type createBankAccountRequest struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
}

func (a *API) handleBankAccountsCollection(w http.ResponseWriter, r *http.Request) {
	user, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		accounts, err := a.auth.ListBankAccounts(r.Context(), user.OrganizationID)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		respondData(w, r, http.StatusOK, accounts)
	case http.MethodPost:
		var req createBankAccountRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		acc, err := a.auth.CreateBankAccount(r.Context(), user.OrganizationID, req.BankName, req.AccountName, req.AccountNumber)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "bank_account.create", map[string]any{"bank_account_id": acc.ID})
		respondData(w, r, http.StatusCreated, acc)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleBankAccountResource(w http.ResponseWriter, r *http.Request) {
	user, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/bank-accounts/")
	if id == "" || strings.Contains(id, "/") {
		respondError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	if err := a.auth.DeleteBankAccount(r.Context(), user.OrganizationID, id); err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "bank_account.delete", map[string]any{"bank_account_id": id})
	respondData(w, r, http.StatusOK, map[string]any{"deleted": true})
}
