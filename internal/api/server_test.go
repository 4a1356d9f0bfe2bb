package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/hassglue/internal/coordinator"
	"github.com/MrSnakeDoc/hassglue/internal/entity"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/MrSnakeDoc/hassglue/internal/metrics"
	"github.com/MrSnakeDoc/hassglue/internal/update"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	m.Run()
}

type stubCache struct {
	subjects  map[string]coordinator.SubjectState
	refreshes int
}

func (c *stubCache) Read(key string) (coordinator.SubjectState, error) {
	st, ok := c.subjects[key]
	if !ok {
		return st, coordinator.ErrSubjectUnavailable
	}
	return st, nil
}

func (c *stubCache) Refresh(context.Context) error {
	c.refreshes++
	return nil
}

func (c *stubCache) Addons() []coordinator.SubjectState { return nil }
func (c *stubCache) IsHassOS() bool                     { return false }

type stubUpdater struct {
	err     error
	version string
	backup  bool
}

func (u *stubUpdater) UpdateCore(_ context.Context, version string, backup bool) error {
	u.version, u.backup = version, backup
	return u.err
}
func (u *stubUpdater) UpdateOS(context.Context, string) error          { return u.err }
func (u *stubUpdater) UpdateSupervisor(context.Context) error          { return u.err }
func (u *stubUpdater) UpdateAddon(context.Context, string, bool) error { return u.err }

type staticEntity struct{}

func (staticEntity) ID() string                 { return "sensor.backup_db" }
func (staticEntity) Name() string               { return "backup.db" }
func (staticEntity) Icon() string               { return "mdi:file" }
func (staticEntity) Value() any                 { return 2.5 }
func (staticEntity) Attributes() map[string]any { return map[string]any{"bytes": 2500000} }

func newTestServer(t *testing.T, up *stubUpdater) (*Server, *stubCache) {
	t.Helper()
	cache := &stubCache{subjects: map[string]coordinator.SubjectState{
		coordinator.KeyCore: {
			Key: coordinator.KeyCore, Version: "2022.4.0", LatestVersion: "2022.5.0", Available: true,
		},
	}}
	reg := entity.NewRegistry()
	reg.Add(staticEntity{})
	update.SyncRegistry(reg, cache, up)

	return NewServer(Config{
		Listen:   "127.0.0.1:0",
		Registry: reg,
		Metrics:  metrics.New(prometheus.NewRegistry()),
	}), cache
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, r)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, &stubUpdater{})
	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListEntities(t *testing.T) {
	s, _ := newTestServer(t, &stubUpdater{})
	rec := do(t, s, http.MethodGet, "/api/entities", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var states []entity.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &states))
	ids := make([]string, 0, len(states))
	for _, st := range states {
		ids = append(ids, st.ID)
	}
	assert.Equal(t, []string{
		"sensor.backup_db",
		"update.home_assistant_core_update",
		"update.home_assistant_supervisor_update",
	}, ids)
}

func TestGetEntity(t *testing.T) {
	s, _ := newTestServer(t, &stubUpdater{})

	rec := do(t, s, http.MethodGet, "/api/entities/update.home_assistant_core_update", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st entity.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "on", st.Value)
	assert.Equal(t, "2022.5.0", st.Attributes["latest_version"])

	rec = do(t, s, http.MethodGet, "/api/entities/update.nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInstall_Success(t *testing.T) {
	up := &stubUpdater{}
	s, cache := newTestServer(t, up)

	rec := do(t, s, http.MethodPost, "/api/updates/update.home_assistant_core_update/install",
		`{"version":"2022.5.0","backup":true}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "2022.5.0", up.version)
	assert.True(t, up.backup)
	assert.Equal(t, 1, cache.refreshes)
}

func TestInstall_EmptyBody(t *testing.T) {
	s, _ := newTestServer(t, &stubUpdater{})
	rec := do(t, s, http.MethodPost, "/api/updates/update.home_assistant_supervisor_update/install", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestInstall_Failure(t *testing.T) {
	s, cache := newTestServer(t, &stubUpdater{err: errors.New("no space left")})

	rec := do(t, s, http.MethodPost, "/api/updates/update.home_assistant_core_update/install", `{}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"Error updating Home Assistant Core: no space left"}`, rec.Body.String())
	assert.Zero(t, cache.refreshes)
}

func TestInstall_UnknownOrNonUpdateEntity(t *testing.T) {
	s, _ := newTestServer(t, &stubUpdater{})

	rec := do(t, s, http.MethodPost, "/api/updates/update.nope/install", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/updates/sensor.backup_db/install", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInstall_BadBody(t *testing.T) {
	s, _ := newTestServer(t, &stubUpdater{})
	rec := do(t, s, http.MethodPost, "/api/updates/update.home_assistant_core_update/install", `{"version":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, &stubUpdater{})
	do(t, s, http.MethodPost, "/api/updates/update.home_assistant_core_update/install", "")

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hassglue_update_installs_total")
}

func TestAccessLogAndCORS(t *testing.T) {
	var buf bytes.Buffer
	s := NewServer(Config{Registry: entity.NewRegistry(), AccessLog: &buf})

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set("Origin", "http://homeassistant.local:8123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, r)

	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, buf.String(), "GET /health")
}
