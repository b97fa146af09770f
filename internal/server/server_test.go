package server

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/home265/bob-obras-sanitarias/internal/calc"
	"github.com/home265/bob-obras-sanitarias/internal/config"
	"github.com/home265/bob-obras-sanitarias/internal/logging"
	"github.com/home265/bob-obras-sanitarias/internal/metrics"
	"github.com/home265/bob-obras-sanitarias/pkg/catalog"
	"github.com/home265/bob-obras-sanitarias/pkg/project"
	"github.com/home265/bob-obras-sanitarias/pkg/validation"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logging.Discard()
	reg := metrics.NewRegistry()
	loader := catalog.NewLoader(filepath.Join("..", "..", "data"), log, catalog.WithFallbackHook(reg.RecordCatalogFallback))
	runner := calc.NewRunner(config.Default(), loader, reg, log)
	srv := New(runner, project.NewMemoryStore(), reg, log, 0)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

var drainageSection = map[string]any{
	"building":   map[string]any{"floors": 2, "floor_height_m": 2.8},
	"disposal":   map[string]any{"type": "cloaca", "connection_depth_cm": 90},
	"system":     "pegamento",
	"collectors": []map[string]any{{"id": "c-1", "length_m": 40, "dn_mm": 110}},
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body bytes.Buffer
	body.ReadFrom(resp.Body)
	assert.Contains(t, body.String(), `instalaciones_http_requests_total{method="GET",path="GET /healthz",status="200"} 1`)
}

func TestCatalogs(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/api/catalogs?system=junta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got catalogsResponse
	decodeBody(t, resp, &got)
	assert.NotEmpty(t, got.Catalogs.Water.PPR.Pipes)
	assert.NotEmpty(t, got.Catalogs.Heating.Zones)
	assert.Empty(t, got.Fallbacks)

	resp = do(t, http.MethodGet, ts.URL+"/api/catalogs?system=rosca", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDrainageEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/api/drainage", drainageSection)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res struct {
		Runs []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"runs"`
		Materials []json.RawMessage `json:"materials"`
	}
	decodeBody(t, resp, &res)
	require.Len(t, res.Runs, 1)
	assert.Equal(t, "c-1", res.Runs[0].ID)
	assert.NotEmpty(t, res.Materials)
}

func TestCalculationRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/api/heating", map[string]any{"unknown": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL+"/api/heating", map[string]any{
		"system": map[string]any{"type": "estufa", "floors": 1, "climate_zone": "IV"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var report validation.Report
	decodeBody(t, resp, &report)
	assert.False(t, report.Valid)
	require.NotEmpty(t, report.Errors)
	assert.Equal(t, "heating.system.type", report.Errors[0].SpecPath)
}

func TestProjectWorkflow(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/api/projects", project.NewProject{Name: "Casa Ríos"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p project.Project
	decodeBody(t, resp, &p)
	assert.True(t, strings.HasPrefix(p.ID, "prj_"))

	base := ts.URL + "/api/projects/" + p.ID

	resp = do(t, http.MethodPut, base+"/partidas/drainage", map[string]any{"title": "Cloacal", "spec": drainageSection})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pt project.Partida
	decodeBody(t, resp, &pt)
	assert.Equal(t, project.KindDrainage, pt.Kind)
	assert.Equal(t, "Cloacal", pt.Title)
	assert.NotEmpty(t, pt.Materials)

	// Saving the same kind again overwrites.
	resp = do(t, http.MethodPut, base+"/partidas/sanitaria", map[string]any{"title": "Cloacal v2", "spec": drainageSection})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pt2 project.Partida
	decodeBody(t, resp, &pt2)
	assert.Equal(t, pt.ID, pt2.ID)

	resp = do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &p)
	require.Len(t, p.Parts, 1)
	assert.Equal(t, "Cloacal v2", p.Parts[0].Title)

	resp = do(t, http.MethodGet, base+"/materials", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mats materialsResponse
	decodeBody(t, resp, &mats)
	assert.Equal(t, len(pt2.Materials), len(mats.Materials))

	resp = do(t, http.MethodGet, base+"/export.csv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "casa-ros.csv")
	records, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "label", "qty", "unit"}, records[0])
	assert.Len(t, records, len(mats.Materials)+1)

	resp = do(t, http.MethodGet, base+"/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))

	resp = do(t, http.MethodPatch, base, map[string]string{"name": "Casa Ríos II"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &p)
	assert.Equal(t, "Casa Ríos II", p.Name)

	resp = do(t, http.MethodDelete, base+"/partidas/"+pt.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodDelete, base+"/partidas/"+pt.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSavePartidaErrors(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodPut, ts.URL+"/api/projects/prj_missing/partidas/gas", map[string]any{"spec": drainageSection})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, ts.URL+"/api/projects/prj_missing/partidas/sanitaria", map[string]any{"spec": drainageSection})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPut, ts.URL+"/api/projects/prj_missing/partidas/sanitaria", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
