// Package httpapi exposes the console and storefront REST surface. Every
// response uses the {status, data} envelope the console client expects.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"wisatara.id/internal/auth"
	"wisatara.id/internal/catalog"
	"wisatara.id/internal/content"
	"wisatara.id/internal/obs"
	"wisatara.id/internal/schedule"
	"wisatara.id/internal/stream"
)

// ReadyProbe reports backend readiness, e.g. a database ping.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options wires the API's collaborators.
type Options struct {
	Auth     *auth.Service
	Catalog  catalog.Service
	Content  content.Service
	Uploads  *content.Uploads
	Schedule *schedule.Index
	Stream   *stream.Stream
	Ready    ReadyProbe
	Version  string

	// AllowedOrigin configures CORS; "*" allows any origin.
	AllowedOrigin string
	// RateRPS and RateBurst shape the per-IP limiter. Zero disables it.
	RateRPS   float64
	RateBurst int
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	auth       *auth.Service
	catalog    catalog.Service
	content    content.Service
	uploads    *content.Uploads
	schedule   *schedule.Index
	stream     *stream.Stream
	readyProbe ReadyProbe
	version    string
	origin     string
	rateRPS    float64
	rateBurst  int
}

func New(opts Options) *API {
	a := &API{
		mux:        http.NewServeMux(),
		auth:       opts.Auth,
		catalog:    opts.Catalog,
		content:    opts.Content,
		uploads:    opts.Uploads,
		schedule:   opts.Schedule,
		stream:     opts.Stream,
		readyProbe: opts.Ready,
		version:    opts.Version,
		origin:     opts.AllowedOrigin,
		rateRPS:    opts.RateRPS,
		rateBurst:  opts.RateBurst,
	}
	if a.origin == "" {
		a.origin = "*"
	}
	if a.schedule == nil {
		a.schedule = schedule.NewIndex()
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/auth/register", a.handleRegister)
	a.mux.HandleFunc("/v1/auth/verify", a.handleVerify)
	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("/v1/auth/refresh", a.handleRefresh)

	a.mux.HandleFunc("/v1/profile", a.handleProfile)

	a.mux.HandleFunc("/v1/organizations", a.handleOrganizations)
	a.mux.HandleFunc("/v1/organizations/join", a.handleOrganizationJoin)
	a.mux.HandleFunc("/v1/organizations/me", a.handleOrganizationMe)

	a.mux.HandleFunc("/v1/bank-accounts", a.handleBankAccountsCollection)
	a.mux.HandleFunc("/v1/bank-accounts/", a.handleBankAccountResource)

	a.mux.HandleFunc("/v1/geo/provinces", a.handleProvinces)
	a.mux.HandleFunc("/v1/geo/provinces/", a.handleProvinceCities)

	a.mux.HandleFunc("/v1/armada", a.handleArmadaCollection)
	a.mux.HandleFunc("/v1/armada/", a.handleArmadaResource)

	a.mux.HandleFunc("/v1/tour-packages", a.handleTourPackagesCollection)
	a.mux.HandleFunc("/v1/tour-packages/", a.handleTourPackageResource)

	a.mux.HandleFunc("/v1/checkout", a.handleCheckout)
	a.mux.HandleFunc("/v1/orders", a.handleOrdersCollection)
	a.mux.HandleFunc("/v1/orders/stream", a.handleOrderStream)
	a.mux.HandleFunc("/v1/orders/", a.handleOrderResource)

	a.mux.HandleFunc("/v1/content/sections", a.handleSectionsCollection)
	a.mux.HandleFunc("/v1/content/sections/", a.handleSectionResource)

	a.mux.HandleFunc("/v1/storefront/", a.handleStorefront)

	a.mux.HandleFunc("/v1/schedule", a.handleScheduleGrid)
	a.mux.HandleFunc("/v1/schedule/days/", a.handleScheduleDay)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "resource not found")
	})

	return a
}

// Handler assembles the middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.withAuth(a.mux)
	if a.rateRPS > 0 && a.rateBurst > 0 {
		h = RateLimit(h, a.rateBurst, a.rateRPS)
	}
	h = MaxBodyBytes(h, 8<<20) // multipart image uploads need headroom
	h = CORS(h, a.origin)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, map[string]any{
		"service": "wisatara-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "not ready: "+err.Error())
		return
	}
	respondData(w, r, http.StatusOK, map[string]any{"ready": true})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, map[string]any{
		"name":    "wisatara-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
