package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"wisatara.id/internal/audit"
	"wisatara.id/internal/ids"
	"wisatara.id/internal/schedule"
)

type scheduleGridResponse struct {
	Year  int              `json:"year"`
	Month int              `json:"month"`
	Cells []*schedule.Cell `json:"cells"`
}

type scheduleEntryRequest struct {
	Date        string `json:"date"`
	ArmadaName  string `json:"armada_name"`
	OrderDetail string `json:"order_detail"`
	CrewName    string `json:"crew_name"`
	Destination string `json:"destination"`
	Time        string `json:"time"`
	Status      string `json:"status"`
}

// handleScheduleGrid returns the calendar cells for one month on GET, and
// records a departure entry on POST. Leading cells before the first day come
// back as null so the client renders the grid without weekday math of its own.
func (a *API) handleScheduleGrid(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		a.createScheduleEntry(w, r)
		return
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
		return
	}
	if _, ok := requireOrganization(w, r); !ok {
		return
	}

	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	if raw := r.URL.Query().Get("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1970 || v > 2200 {
			respondError(w, r, http.StatusBadRequest, "year out of range")
			return
		}
		year = v
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			respondError(w, r, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		month = v
	}

	cells := schedule.MonthGrid(year, time.Month(month), a.schedule)
	respondData(w, r, http.StatusOK, scheduleGridResponse{Year: year, Month: month, Cells: cells})
}

// handleScheduleDay returns the departure entries for one date key.
func (a *API) handleScheduleDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := requireOrganization(w, r); !ok {
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/v1/schedule/days/")
	if key == "" || strings.Contains(key, "/") {
		respondError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if _, err := time.Parse("2006-01-02", key); err != nil {
		respondError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	respondData(w, r, http.StatusOK, a.schedule.For(key))
}

func (a *API) createScheduleEntry(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireOrganization(w, r); !ok {
		return
	}
	var req scheduleEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		respondError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	entry := schedule.Entry{
		ID:          ids.New(),
		ArmadaName:  req.ArmadaName,
		OrderDetail: req.OrderDetail,
		CrewName:    req.CrewName,
		Destination: req.Destination,
		Time:        req.Time,
		Status:      schedule.Status(req.Status),
	}
	if entry.Status == "" {
		entry.Status = schedule.StatusScheduled
	}
	if err := entry.Validate(); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	a.schedule.Add(req.Date, entry)
	_ = audit.LogEvent(r.Context(), "schedule.entry_created", map[string]any{
		"entry_id": entry.ID,
		"date":     req.Date,
	})
	respondData(w, r, http.StatusCreated, entry)
}
