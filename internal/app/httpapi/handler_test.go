package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	app "github.com/verdeviva/plantcare/internal/app"
)

type apiFixture struct {
	t      *testing.T
	server http.Handler
	token  string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	application := app.New(nil, app.Stores{}, nil)
	sessions := NewSessions("test-secret", time.Hour, nil)
	f := &apiFixture{t: t, server: NewHandler(application, sessions)}

	f.do(http.MethodPost, "/auth/register", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "hunter22",
	}, http.StatusCreated)

	var login struct {
		Token string `json:"token"`
	}
	rec := f.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "ana@example.com", "password": "hunter22",
	}, http.StatusOK)
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	f.token = login.Token
	return f
}

func (f *apiFixture) do(method, path string, body interface{}, wantStatus int) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			f.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		f.t.Fatalf("%s %s: status %d, want %d (body: %s)", method, path, rec.Code, wantStatus, rec.Body.String())
	}
	return rec
}

func (f *apiFixture) createPlant(name string) int64 {
	f.t.Helper()
	rec := f.do(http.MethodPost, "/plants", map[string]string{
		"name":             name,
		"species":          "Fern",
		"acquisition_date": "2024-01-01",
		"location":         "Kitchen",
	}, http.StatusCreated)
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		f.t.Fatalf("decode plant: %v", err)
	}
	return created.ID
}

func TestHealthzUnauthenticated(t *testing.T) {
	f := newAPIFixture(t)
	f.token = ""
	f.do(http.MethodGet, "/healthz", nil, http.StatusOK)
}

func TestDashboardRequiresAuth(t *testing.T) {
	f := newAPIFixture(t)
	f.token = ""
	f.do(http.MethodGet, "/dashboard", nil, http.StatusUnauthorized)
}

func TestPlantLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	id := f.createPlant("Fern")

	rec := f.do(http.MethodGet, fmt.Sprintf("/plants/%d", id), nil, http.StatusOK)
	var got struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode plant: %v", err)
	}
	if got.Name != "Fern" {
		t.Errorf("name = %q, want Fern", got.Name)
	}

	f.do(http.MethodPut, fmt.Sprintf("/plants/%d", id), map[string]string{
		"name":             "Boston Fern",
		"species":          "Fern",
		"acquisition_date": "2024-01-01",
		"location":         "Office",
	}, http.StatusNoContent)

	f.do(http.MethodDelete, fmt.Sprintf("/plants/%d", id), nil, http.StatusNoContent)
	f.do(http.MethodGet, fmt.Sprintf("/plants/%d", id), nil, http.StatusNotFound)
}

func TestCreatePlantRejectsFutureAcquisitionDate(t *testing.T) {
	f := newAPIFixture(t)
	future := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	f.do(http.MethodPost, "/plants", map[string]string{
		"name":             "Time traveler",
		"acquisition_date": future,
	}, http.StatusBadRequest)
}

func TestCareLifecycleAndCompletion(t *testing.T) {
	f := newAPIFixture(t)
	id := f.createPlant("Fern")

	today := time.Now().UTC().Format("2006-01-02")
	f.do(http.MethodPost, fmt.Sprintf("/plants/%d/cares", id), map[string]string{
		"care_type":    "watering",
		"care_date":    today,
		"observations": "light soak",
	}, http.StatusCreated)

	rec := f.do(http.MethodGet, fmt.Sprintf("/plants/%d/cares", id), nil, http.StatusOK)
	var cares []struct {
		ID   int64  `json:"id"`
		Type string `json:"care_type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cares); err != nil {
		t.Fatalf("decode cares: %v", err)
	}
	if len(cares) != 1 || cares[0].Type != "Water" {
		t.Fatalf("cares = %+v", cares)
	}

	f.do(http.MethodPost, fmt.Sprintf("/cares/%d/complete", cares[0].ID), map[string]string{
		"note": "all good",
	}, http.StatusOK)

	f.do(http.MethodDelete, fmt.Sprintf("/cares/%d", cares[0].ID), nil, http.StatusNoContent)
	f.do(http.MethodDelete, fmt.Sprintf("/cares/%d", cares[0].ID), nil, http.StatusNotFound)
}

func TestDashboardShape(t *testing.T) {
	f := newAPIFixture(t)
	f.createPlant("Fern")

	rec := f.do(http.MethodGet, "/dashboard", nil, http.StatusOK)
	var data struct {
		Summary struct {
			TotalPlants int `json:"total_plants"`
		} `json:"summary_stats"`
		PendingCares     []json.RawMessage `json:"pending_cares"`
		Notifications    []json.RawMessage `json:"notifications"`
		RecentActivities []json.RawMessage `json:"recent_activities"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if data.Summary.TotalPlants != 1 {
		t.Errorf("total plants = %d, want 1", data.Summary.TotalPlants)
	}
	if data.PendingCares == nil || data.Notifications == nil || data.RecentActivities == nil {
		t.Error("dashboard slices must never be null")
	}
}

func TestNotificationsEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	f.createPlant("Fern")

	rec := f.do(http.MethodGet, "/notifications", nil, http.StatusOK)
	var feed []struct {
		Kind string `json:"type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &feed); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	if len(feed) == 0 {
		t.Fatal("expected a nonempty merged feed for a plant without care")
	}

	rec = f.do(http.MethodGet, "/notifications/count", nil, http.StatusOK)
	var count struct {
		Unread int `json:"unread_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &count); err != nil {
		t.Fatalf("decode count: %v", err)
	}
	if count.Unread != len(feed) {
		t.Errorf("unread = %d, feed length = %d", count.Unread, len(feed))
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	f := newAPIFixture(t)
	f.token = ""
	f.do(http.MethodPost, "/auth/register", map[string]string{
		"name": "Other", "email": "ana@example.com", "password": "hunter23",
	}, http.StatusConflict)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	f := newAPIFixture(t)
	f.token = ""
	f.do(http.MethodPost, "/auth/login", map[string]string{
		"email": "ana@example.com", "password": "wrong",
	}, http.StatusUnauthorized)
}
