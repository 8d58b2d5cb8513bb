package httpapi

import (
	"net/http"
	"strings"

	"wisatara.id/internal/audit"
	"wisatara.id/internal/catalog"
)

func (a *API) handleProvinces(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	provinces, err := a.catalog.Provinces(r.Context())
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, provinces)
}

func (a *API) handleProvinceCities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/geo/provinces/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "cities" {
		respondError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	cities, err := a.catalog.Cities(r.Context(), parts[0])
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, cities)
}

type armadaRequest struct {
	Name        string `json:"name"`
	PlateNumber string `json:"plate_number"`
	TypeID      string `json:"type_id"`
	BodyID      string `json:"body_id"`
	EngineID    string `json:"engine_id"`
	Capacity    int    `json:"capacity"`
	PricePerDay int64  `json:"price_per_day"`
	Status      string `json:"status"`
}

func (a *API) handleArmadaCollection(w http.ResponseWriter, r *http.Request) {
	user, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		org := user.OrganizationID
		if user.IsAdmin {
			org = r.URL.Query().Get("organization_id")
		}
		items, err := a.catalog.ListArmada(r.Context(), org)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		respondData(w, r, http.StatusOK, items)
	case http.MethodPost:
		var req armadaRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		created, err := a.catalog.CreateArmada(r.Context(), catalog.Armada{
			OrganizationID: user.OrganizationID,
			Name:           req.Name,
			PlateNumber:    req.PlateNumber,
			TypeID:         req.TypeID,
			BodyID:         req.BodyID,
			EngineID:       req.EngineID,
			Capacity:       req.Capacity,
			PricePerDay:    req.PricePerDay,
			Status:         req.Status,
		})
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "armada.create", map[string]any{"armada_id": created.ID})
		w.Header().Set("Location", "/v1/armada/"+created.ID)
		respondData(w, r, http.StatusCreated, created)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleArmadaResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/armada/")

	// Reserved metadata segments sit beside the resource ids.
	switch rest {
	case "types", "bodies", "engines":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		var (
			items []catalog.MetadataItem
			err   error
		)
		switch rest {
		case "types":
			items, err = a.catalog.ArmadaTypes(r.Context())
		case "bodies":
			items, err = a.catalog.ArmadaBodies(r.Context())
		case "engines":
			items, err = a.catalog.ArmadaEngines(r.Context())
		}
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		respondData(w, r, http.StatusOK, items)
		return
	}

	if rest == "" || strings.Contains(rest, "/") {
		respondError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	user, ok := requireOrganization(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		item, err := a.catalog.Armada(r.Context(), rest)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		if item.OrganizationID != user.OrganizationID && !user.IsAdmin {
			respondError(w, r, http.StatusNotFound, catalog.ErrNotFound.Error())
			return
		}
		respondData(w, r, http.StatusOK, item)
	case http.MethodPut:
		var req armadaRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := a.catalog.UpdateArmada(r.Context(), catalog.Armada{
			ID:             rest,
			OrganizationID: user.OrganizationID,
			Name:           req.Name,
			PlateNumber:    req.PlateNumber,
			TypeID:         req.TypeID,
			BodyID:         req.BodyID,
			EngineID:       req.EngineID,
			Capacity:       req.Capacity,
			PricePerDay:    req.PricePerDay,
			Status:         req.Status,
		})
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "armada.update", map[string]any{"armada_id": rest})
		respondData(w, r, http.StatusOK, updated)
	case http.MethodDelete:
		if err := a.catalog.DeleteArmada(r.Context(), user.OrganizationID, rest); err != nil {
			handleCatalogError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "armada.delete", map[string]any{"armada_id": rest})
		respondData(w, r, http.StatusOK, map[string]any{"deleted": true})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

type tourPackageRequest struct {
	Name         string   `json:"name"`
	Destination  string   `json:"destination"`
	DurationDays int      `json:"duration_days"`
	Price        int64    `json:"price"`
	Facilities   []string `json:"facilities,omitempty"`
	Status       string   `json:"status"`
}

func (a *API) handleTourPackagesCollection(w http.ResponseWriter, r *http.Request) {
	user, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		org := user.OrganizationID
		if user.IsAdmin {
			org = r.URL.Query().Get("organization_id")
		}
		items, err := a.catalog.ListTourPackages(r.Context(), org)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		respondData(w, r, http.StatusOK, items)
	case http.MethodPost:
		var req tourPackageRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		created, err := a.catalog.CreateTourPackage(r.Context(), catalog.TourPackage{
			OrganizationID: user.OrganizationID,
			Name:           req.Name,
			Destination:    req.Destination,
			DurationDays:   req.DurationDays,
			Price:          req.Price,
			Facilities:     req.Facilities,
			Status:         req.Status,
		})
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "tour_package.create", map[string]any{"tour_package_id": created.ID})
		w.Header().Set("Location", "/v1/tour-packages/"+created.ID)
		respondData(w, r, http.StatusCreated, created)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleTourPackageResource(w http.ResponseWriter, r *http.Request) {
	user, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/tour-packages/")
	if id == "" || strings.Contains(id, "/") {
		respondError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		item, err := a.catalog.TourPackage(r.Context(), id)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		if item.OrganizationID != user.OrganizationID && !user.IsAdmin {
			respondError(w, r, http.StatusNotFound, catalog.ErrNotFound.Error())
			return
		}
		respondData(w, r, http.StatusOK, item)
	case http.MethodPut:
		var req tourPackageRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := a.catalog.UpdateTourPackage(r.Context(), catalog.TourPackage{
			ID:             id,
			OrganizationID: user.OrganizationID,
			Name:           req.Name,
			Destination:    req.Destination,
			DurationDays:   req.DurationDays,
			Price:          req.Price,
			Facilities:     req.Facilities,
			Status:         req.Status,
		})
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "tour_package.update", map[string]any{"tour_package_id": id})
		respondData(w, r, http.StatusOK, updated)
	case http.MethodDelete:
		if err := a.catalog.DeleteTourPackage(r.Context(), user.OrganizationID, id); err != nil {
			handleCatalogError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "tour_package.delete", map[string]any{"tour_package_id": id})
		respondData(w, r, http.StatusOK, map[string]any{"deleted": true})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
