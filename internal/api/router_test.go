package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bloompal-backend/config"
	"bloompal-backend/internal/care"
	"bloompal-backend/internal/db"
	"bloompal-backend/internal/logging"
	"bloompal-backend/internal/plants"
	"bloompal-backend/internal/store"
)

const owner = "alice"

var start = time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	clock  *clockwork.FakeClock
	store  store.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gormDB))

	log := logging.Discard()
	st := store.NewGormStore(gormDB, log)
	clock := clockwork.NewFakeClockAt(start)
	svc := plants.NewService(st, care.NewEngine(), clock, log, config.CareConfig{DefaultIntervalDays: 7, HistoryPreviewLimit: 10})

	router := NewRouter(RouterDeps{
		Config: &config.ServerConfig{
			OwnerHeader:     "X-Owner-ID",
			RateLimitPerSec: 1000,
			RateLimitBurst:  1000,
			CacheTTLSeconds: 60,
		},
		Plants: svc,
		Store:  st,
		Log:    log,
	})
	return &testServer{router: router, clock: clock, store: st}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Owner-ID", owner)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) createPlant(t *testing.T, body map[string]any) plantResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/plants", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[plantResponse](t, w)
}

func TestRouter_RequiresOwner(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/plants", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_CreatePlant(t *testing.T) {
	s := newTestServer(t)

	plant := s.createPlant(t, map[string]any{
		"name":           "Peace Lily",
		"type":           "Flowering Plant",
		"in_bloom":       true,
		"watering_every": "5",
	})
	assert.Equal(t, "Peace Lily", plant.Name)
	assert.Equal(t, "flowering", string(plant.Type))
	assert.Equal(t, "Flowering Plant", plant.TypeName)
	assert.Equal(t, "Indoor", plant.LocationName)
	assert.Equal(t, 5, plant.WateringIntervalDays)
	assert.Nil(t, plant.LastWateredAt)
	assert.True(t, plant.Status.NeedsWatering)
	assert.Equal(t, care.StateOverdue, plant.Status.State)

	testCases := []struct {
		name     string
		body     map[string]any
		expected int
	}{
		{"missing name", map[string]any{"species": "x"}, http.StatusBadRequest},
		{"bad image url", map[string]any{"name": "Fern", "image_url": "not a url"}, http.StatusBadRequest},
		{"unknown location", map[string]any{"name": "Fern", "location": "Moon"}, http.StatusBadRequest},
		{"non-numeric interval", map[string]any{"name": "Fern", "watering_every": "often"}, http.StatusBadRequest},
		{"zero interval", map[string]any{"name": "Fern", "watering_every": "0"}, http.StatusUnprocessableEntity},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/plants", tc.body)
			assert.Equal(t, tc.expected, w.Code, w.Body.String())
		})
	}
}

func TestRouter_WaterAndHistory(t *testing.T) {
	s := newTestServer(t)
	plant := s.createPlant(t, map[string]any{"name": "Fern", "watering_every": "3"})

	s.clock.Advance(time.Hour)
	w := s.do(t, http.MethodPost, "/api/plants/"+plant.ID+"/water", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	watered := decode[waterResponse](t, w)
	assert.Equal(t, care.DefaultNote, watered.Watering.Note)
	assert.Equal(t, 3, watered.Plant.Status.DaysUntilDue)
	assert.Equal(t, care.StateSatisfied, watered.Plant.Status.State)

	s.clock.Advance(care.Day)
	w = s.do(t, http.MethodPost, "/api/plants/"+plant.ID+"/water", map[string]any{"note": "misted too"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/plants/"+plant.ID+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[[]eventResponse](t, w)
	require.Len(t, history, 2)
	assert.Equal(t, "Watered", history[0].Note)
	assert.Equal(t, "misted too", history[1].Note)

	w = s.do(t, http.MethodGet, "/api/plants/"+plant.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[plantDetailResponse](t, w)
	assert.Equal(t, "Fern", detail.Name)
	require.Len(t, detail.RecentWaterings, 2)
	assert.Equal(t, "misted too", detail.RecentWaterings[0].Note)

	w = s.do(t, http.MethodGet, "/api/history?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode[[]feedDayResponse](t, w)
	require.Len(t, feed, 1)
	require.Len(t, feed[0].Waterings, 1)
	assert.Equal(t, "Fern", feed[0].Waterings[0].PlantName)

	w = s.do(t, http.MethodGet, "/api/history?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_NotFoundForOtherOwners(t *testing.T) {
	s := newTestServer(t)
	plant := s.createPlant(t, map[string]any{"name": "Fern"})

	for _, path := range []string{"/api/plants/" + plant.ID, "/api/plants/" + plant.ID + "/history"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Owner-ID", "mallory")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}

	w := s.do(t, http.MethodPost, "/api/plants/missing/water", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_SetInterval(t *testing.T) {
	s := newTestServer(t)
	plant := s.createPlant(t, map[string]any{"name": "Monstera"})

	w := s.do(t, http.MethodPut, "/api/plants/"+plant.ID+"/interval", map[string]any{"interval_days": 10})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[plantResponse](t, w)
	assert.Equal(t, 10, updated.WateringIntervalDays)
	assert.True(t, updated.NextDueAt.Equal(start.AddDate(0, 0, 10)))

	w = s.do(t, http.MethodPut, "/api/plants/"+plant.ID+"/interval", map[string]any{"interval_days": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodPut, "/api/plants/"+plant.ID+"/interval", map[string]any{"interval_days": 2_000_000_000})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	w = s.do(t, http.MethodPut, "/api/plants/"+plant.ID+"/interval", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_EditAndDelete(t *testing.T) {
	s := newTestServer(t)
	plant := s.createPlant(t, map[string]any{"name": "Orchid", "in_bloom": true})

	w := s.do(t, http.MethodPatch, "/api/plants/"+plant.ID, map[string]any{"name": "Moth Orchid", "location": "Outdoor"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	edited := decode[plantResponse](t, w)
	assert.Equal(t, "Moth Orchid", edited.Name)
	assert.Equal(t, "outdoor", string(edited.Location))
	assert.True(t, edited.InBloom)

	w = s.do(t, http.MethodDelete, "/api/plants/"+plant.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, "/api/plants/"+plant.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_DashboardCacheIsFlushedOnWrite(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/plants/demo", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	demo := decode[[]plantResponse](t, w)
	require.NotEmpty(t, demo)

	w = s.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode[dashboardResponse](t, w)
	assert.Equal(t, len(demo), dash.TotalPlants)
	assert.Equal(t, 0, dash.NeedingWater)

	s.createPlant(t, map[string]any{"name": "Fern"})

	w = s.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash = decode[dashboardResponse](t, w)
	assert.Equal(t, len(demo)+1, dash.TotalPlants)
	assert.Equal(t, 1, dash.NeedingWater, "a new plant is due immediately")
	require.Len(t, dash.NeedingCare, 1)
	assert.Equal(t, "Fern", dash.NeedingCare[0].Name)

	w = s.do(t, http.MethodGet, "/api/achievements", nil)
	require.Equal(t, http.StatusOK, w.Code)
	achievements := decode[[]achievementResponse](t, w)
	require.NotEmpty(t, achievements)
	assert.Equal(t, "first_plant", achievements[0].Key)
	assert.True(t, achievements[0].Unlocked)
}

func TestRouter_Reminders(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/reminders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandler_WriteError(t *testing.T) {
	testCases := []struct {
		err      error
		expected int
	}{
		{fmt.Errorf("%w: name", plants.ErrInvalidPlant), http.StatusBadRequest},
		{fmt.Errorf("%w: interval 0", care.ErrInvalidConfiguration), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: before last", care.ErrClockSkew), http.StatusConflict},
		{store.ErrNotFound, http.StatusNotFound},
		{store.ErrConflict, http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	h := NewHandler(nil, nil, logging.Discard())
	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			h.writeError(c, tc.err)
			assert.Equal(t, tc.expected, w.Code)
		})
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h.writeError(c, errors.New("secret connection string"))
	assert.NotContains(t, w.Body.String(), "secret")
}
