// Package httpapi exposes the application services as a JSON REST API. The
// handlers translate between wire payloads and core calls; no care-scheduling
// rules live here.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	app "github.com/verdeviva/plantcare/internal/app"
	"github.com/verdeviva/plantcare/internal/app/domain/care"
	"github.com/verdeviva/plantcare/internal/app/metrics"
	"github.com/verdeviva/plantcare/internal/app/storage"
)

const dateLayout = "2006-01-02"

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app      *app.Application
	sessions *Sessions
}

// NewHandler returns a router exposing the core REST API.
func NewHandler(application *app.Application, sessions *Sessions) http.Handler {
	h := &handler{app: application, sessions: sessions}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)

	api := r.PathPrefix("/").Subrouter()
	api.Use(sessions.Middleware)

	api.HandleFunc("/dashboard", h.dashboard).Methods(http.MethodGet)

	api.HandleFunc("/plants", h.listPlants).Methods(http.MethodGet)
	api.HandleFunc("/plants", h.createPlant).Methods(http.MethodPost)
	api.HandleFunc("/plants/stats", h.gardenStats).Methods(http.MethodGet)
	api.HandleFunc("/plants/recent", h.recentPlants).Methods(http.MethodGet)
	api.HandleFunc("/plants/{id:[0-9]+}", h.getPlant).Methods(http.MethodGet)
	api.HandleFunc("/plants/{id:[0-9]+}", h.updatePlant).Methods(http.MethodPut)
	api.HandleFunc("/plants/{id:[0-9]+}", h.deletePlant).Methods(http.MethodDelete)
	api.HandleFunc("/plants/{id:[0-9]+}/cares", h.listPlantCares).Methods(http.MethodGet)
	api.HandleFunc("/plants/{id:[0-9]+}/cares", h.createCare).Methods(http.MethodPost)

	api.HandleFunc("/cares/pending", h.pendingCares).Methods(http.MethodGet)
	api.HandleFunc("/cares/upcoming", h.upcomingCares).Methods(http.MethodGet)
	api.HandleFunc("/cares/stats", h.careStats).Methods(http.MethodGet)
	api.HandleFunc("/cares/{id:[0-9]+}", h.updateCare).Methods(http.MethodPut)
	api.HandleFunc("/cares/{id:[0-9]+}", h.deleteCare).Methods(http.MethodDelete)
	api.HandleFunc("/cares/{id:[0-9]+}/complete", h.completeCare).Methods(http.MethodPost)

	api.HandleFunc("/notifications", h.notifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/count", h.notificationCount).Methods(http.MethodGet)

	return metrics.InstrumentHandler(r)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- auth -------------------------------------------------------------------

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	u, err := h.app.Auth.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, storage.ErrDuplicateEmail) {
			status = http.StatusConflict
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	u, err := h.app.Auth.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	token, err := h.sessions.Issue(u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"token": token, "user": u})
}

// --- dashboard --------------------------------------------------------------

func (h *handler) dashboard(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, fmt.Errorf("no session"))
		return
	}
	start := time.Now()
	data := h.app.Dashboard.GetDashboardData(r.Context(), uid)
	metrics.RecordDashboardBuild(time.Since(start))
	writeJSON(w, http.StatusOK, data)
}

// --- plants -----------------------------------------------------------------

type plantPayload struct {
	Name            string `json:"name"`
	Species         string `json:"species"`
	AcquisitionDate string `json:"acquisition_date"`
	Location        string `json:"location"`
}

func (p plantPayload) parse() (name, species string, acquired time.Time, location string, err error) {
	if p.Name == "" {
		return "", "", time.Time{}, "", fmt.Errorf("name is required")
	}
	acquired, err = time.Parse(dateLayout, p.AcquisitionDate)
	if err != nil {
		return "", "", time.Time{}, "", fmt.Errorf("acquisition_date must be YYYY-MM-DD")
	}
	// The acquisition date is validated here at the input boundary; the core
	// does not re-check it.
	if acquired.After(care.Midnight(time.Now())) {
		return "", "", time.Time{}, "", fmt.Errorf("acquisition_date cannot be in the future")
	}
	return p.Name, p.Species, acquired, p.Location, nil
}

func (h *handler) createPlant(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	var payload plantPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	name, species, acquired, location, err := payload.parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	created, ok := h.app.Plants.Create(r.Context(), uid, name, species, acquired, location)
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("could not create plant"))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) listPlants(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	writeJSON(w, http.StatusOK, h.app.Plants.List(r.Context(), uid))
}

func (h *handler) getPlant(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	p, ok := h.app.Plants.Get(r.Context(), uid, pathID(r))
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("plant not found"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) updatePlant(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	var payload plantPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	name, species, acquired, location, err := payload.parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if !h.app.Plants.Update(r.Context(), uid, pathID(r), name, species, acquired, location) {
		writeError(w, http.StatusNotFound, fmt.Errorf("plant not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) deletePlant(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	if !h.app.Plants.Delete(r.Context(), uid, pathID(r)) {
		writeError(w, http.StatusNotFound, fmt.Errorf("plant not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) gardenStats(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	writeJSON(w, http.StatusOK, h.app.Plants.GardenStats(r.Context(), uid))
}

func (h *handler) recentPlants(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	writeJSON(w, http.StatusOK, h.app.Plants.RecentlyAdded(r.Context(), uid, queryInt(r, "limit", 5)))
}

// --- cares ------------------------------------------------------------------

type carePayload struct {
	CareType     string `json:"care_type"`
	CareDate     string `json:"care_date"`
	Observations string `json:"observations"`
}

func (c carePayload) parse() (rawType string, date time.Time, observations string, err error) {
	date, err = time.Parse(dateLayout, c.CareDate)
	if err != nil {
		return "", time.Time{}, "", fmt.Errorf("care_date must be YYYY-MM-DD")
	}
	return c.CareType, date, c.Observations, nil
}

func (h *handler) createCare(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	var payload carePayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rawType, date, observations, err := payload.parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if !h.app.Cares.CreateCare(r.Context(), uid, pathID(r), rawType, date, observations) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("could not record care"))
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *handler) listPlantCares(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	writeJSON(w, http.StatusOK, h.app.Cares.ListByPlant(r.Context(), uid, pathID(r)))
}

func (h *handler) updateCare(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	var payload carePayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rawType, date, observations, err := payload.parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if !h.app.Cares.UpdateCare(r.Context(), uid, pathID(r), rawType, date, observations) {
		writeError(w, http.StatusNotFound, fmt.Errorf("care not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) deleteCare(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	if !h.app.Cares.DeleteCare(r.Context(), uid, pathID(r)) {
		writeError(w, http.StatusNotFound, fmt.Errorf("care not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) completeCare(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	var payload struct {
		Note string `json:"note"`
	}
	// An empty body means "complete without a note".
	if err := decodeJSON(r.Body, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ok := h.app.Cares.CompleteCare(r.Context(), pathID(r), uid, payload.Note)
	metrics.RecordCareCompletion(ok)
	if !ok {
		// Not-found and not-owned answer identically.
		writeError(w, http.StatusNotFound, fmt.Errorf("care not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"completed": true})
}

func (h *handler) pendingCares(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	writeJSON(w, http.StatusOK, h.app.Cares.FindPending(r.Context(), uid))
}

func (h *handler) upcomingCares(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	writeJSON(w, http.StatusOK, h.app.Cares.FindUpcoming(r.Context(), uid, queryInt(r, "days", 7)))
}

func (h *handler) careStats(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	writeJSON(w, http.StatusOK, h.app.Cares.Stats(r.Context(), uid))
}

// --- notifications ----------------------------------------------------------

func (h *handler) notifications(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	writeJSON(w, http.StatusOK, h.app.Notifications.Merged(r.Context(), uid))
}

func (h *handler) notificationCount(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	writeJSON(w, http.StatusOK, map[string]int{"unread_count": h.app.Notifications.UnreadCount(r.Context(), uid)})
}

// --- helpers ----------------------------------------------------------------

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
