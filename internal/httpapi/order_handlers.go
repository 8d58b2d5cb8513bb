package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"wisatara.id/internal/audit"
	"wisatara.id/internal/catalog"
	"wisatara.id/internal/stream"
)

// handleCheckout accepts storefront order submissions. It is the only write
// endpoint visitors reach without a token.
func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req catalog.NewOrderInput
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	order, err := a.catalog.CreateOrder(r.Context(), req)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	if a.stream != nil {
		a.stream.Publish(stream.FromOrder(order))
	}
	_ = audit.LogEvent(r.Context(), "order.create", map[string]any{
		"order_id":        order.ID,
		"organization_id": order.OrganizationID,
		"kind":            order.Kind,
	})
	w.Header().Set("Location", "/v1/orders/"+order.ID)
	respondData(w, r, http.StatusCreated, order)
}

func (a *API) handleOrdersCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	// Same scoping as the stream: admins may filter by any organization or
	// see everything; partners are bound to their own.
	scope := user.OrganizationID
	if user.IsAdmin {
		scope = r.URL.Query().Get("organization_id")
	} else if scope == "" {
		respondError(w, r, http.StatusForbidden, "organization membership required")
		return
	}
	filter := catalog.OrderFilter{
		OrganizationID: scope,
		Kind:           r.URL.Query().Get("kind"),
		Status:         r.URL.Query().Get("status"),
	}
	orders, err := a.catalog.ListOrders(r.Context(), filter)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, orders)
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func (a *API) handleOrderResource(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	if !user.IsAdmin && user.OrganizationID == "" {
		respondError(w, r, http.StatusForbidden, "organization membership required")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/orders/")

	if strings.HasSuffix(rest, "/status") {
		id := strings.TrimSuffix(strings.TrimSuffix(rest, "/status"), "/")
		if id == "" {
			respondError(w, r, http.StatusNotFound, "order not found")
			return
		}
		if r.Method != http.MethodPut {
			methodNotAllowed(w, r, http.MethodPut)
			return
		}
		var req orderStatusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		scope := user.OrganizationID
		if user.IsAdmin {
			// Admins act on any tenant's orders; resolve the owning
			// organization so the store's scoping check passes.
			existing, err := a.catalog.Order(r.Context(), id)
			if err != nil {
				handleCatalogError(w, r, err)
				return
			}
			scope = existing.OrganizationID
		}
		order, err := a.catalog.UpdateOrderStatus(r.Context(), scope, id, req.Status)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		if a.stream != nil {
			a.stream.Publish(stream.FromOrder(order))
		}
		_ = audit.LogEvent(r.Context(), "order.status_changed", map[string]any{
			"order_id": order.ID,
			"status":   order.Status,
		})
		respondData(w, r, http.StatusOK, order)
		return
	}

	if rest == "" || strings.Contains(rest, "/") {
		respondError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	order, err := a.catalog.Order(r.Context(), rest)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	if order.OrganizationID != user.OrganizationID && !user.IsAdmin {
		respondError(w, r, http.StatusNotFound, catalog.ErrNotFound.Error())
		return
	}
	respondData(w, r, http.StatusOK, order)
}

// handleOrderStream pushes order events over SSE, scoped to the caller's
// organization. Admins without an organization filter see everything.
func (a *API) handleOrderStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	if a.stream == nil {
		respondError(w, r, http.StatusServiceUnavailable, "streaming disabled")
		return
	}
	scope := user.OrganizationID
	if user.IsAdmin {
		scope = r.URL.Query().Get("organization_id")
	} else if scope == "" {
		respondError(w, r, http.StatusForbidden, "organization membership required")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ch := a.stream.Subscribe(ctx, scope)

	_, _ = w.Write([]byte(": stream started\n\n"))
	flusher.Flush()

	for event := range ch {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		_, _ = w.Write([]byte("data: "))
		_, _ = w.Write(payload)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	}
}
