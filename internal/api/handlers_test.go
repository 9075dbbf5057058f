package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsst-ts/nightreport/internal/config"
	"github.com/lsst-ts/nightreport/internal/report"
	"github.com/lsst-ts/nightreport/internal/storage"
)

var testStart = time.Date(2024, 3, 2, 9, 27, 12, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *storage.MemoryStore, *clockwork.FakeClock) {
	t.Helper()
	store := storage.NewMemory()
	clock := clockwork.NewFakeClockAt(testStart)
	s := New(config.Config{SiteID: "summit"}, store, WithClock(clock), WithVersion("test"))
	return s, store, clock
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeReport(t *testing.T, body []byte) report.Report {
	t.Helper()
	var r report.Report
	require.NoError(t, json.Unmarshal(body, &r))
	return r
}

const addBody = `{
	"day_obs": 20240302,
	"summary": "quiet night",
	"weather": "clear skies",
	"maintel_summary": "nominal",
	"auxtel_summary": "nominal",
	"confluence_url": "https://example.org/page",
	"user_id": "observer",
	"user_agent": "test-client",
	"observers_crew": ["a", "b"]
}`

func TestAddReport(t *testing.T) {
	s, store, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/nightreport/reports", addBody)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	added := decodeReport(t, rr.Body.Bytes())
	assert.NotEqual(t, uuid.Nil, added.ID)
	assert.Equal(t, "summit", added.SiteID)
	assert.Equal(t, 20240302, added.DayObs)
	assert.Equal(t, "quiet night", added.Summary)
	assert.Equal(t, []string{"a", "b"}, added.ObserversCrew)
	assert.True(t, added.IsValid)
	assert.Nil(t, added.ParentID)

	// date_added is the request time on the TAI scale.
	assert.True(t, added.DateAdded.Equal(report.NewTime(testStart.Add(report.TAIOffset))))
	assert.Equal(t, 1, store.Len())
}

func TestAddReportDefaultsCrew(t *testing.T) {
	s, _, _ := newTestServer(t)

	body := `{
		"day_obs": 20240302,
		"summary": "s",
		"weather": "w",
		"maintel_summary": "m",
		"auxtel_summary": "a",
		"confluence_url": "",
		"user_id": "u",
		"user_agent": "ua"
	}`
	rr := doRequest(t, s, http.MethodPost, "/nightreport/reports", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	added := decodeReport(t, rr.Body.Bytes())
	assert.Equal(t, []string{}, added.ObserversCrew)
}

func TestAddReportMissingFields(t *testing.T) {
	s, _, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/nightreport/reports", `{"day_obs": 20240302}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body.Detail, "summary")
	assert.Contains(t, body.Detail, "user_id")
	assert.NotContains(t, body.Detail, "day_obs")
}

func TestAddReportInvalidJSON(t *testing.T) {
	s, _, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/nightreport/reports", "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetReport(t *testing.T) {
	s, _, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/nightreport/reports", addBody)
	require.Equal(t, http.StatusOK, rr.Code)
	added := decodeReport(t, rr.Body.Bytes())

	rr = doRequest(t, s, http.MethodGet, "/nightreport/reports/"+added.ID.String(), "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeReport(t, rr.Body.Bytes())
	assert.Equal(t, added.ID, got.ID)
	assert.Equal(t, added.Summary, got.Summary)
}

func TestGetReportNotFound(t *testing.T) {
	s, _, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/nightreport/reports/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// A malformed UUID is indistinguishable from a missing report.
	rr = doRequest(t, s, http.MethodGet, "/nightreport/reports/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFindReports(t *testing.T) {
	s, _, _ := newTestServer(t)

	for day := 20240301; day <= 20240303; day++ {
		body := fmt.Sprintf(`{
			"day_obs": %d,
			"summary": "night %d",
			"weather": "clear",
			"maintel_summary": "m",
			"auxtel_summary": "a",
			"confluence_url": "",
			"user_id": "observer",
			"user_agent": "test"
		}`, day, day)
		rr := doRequest(t, s, http.MethodPost, "/nightreport/reports", body)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := doRequest(t, s, http.MethodGet, "/nightreport/reports?order_by=day_obs", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var found []report.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &found))
	require.Len(t, found, 3)
	assert.Equal(t, 20240301, found[0].DayObs)
	assert.Equal(t, 20240303, found[2].DayObs)

	rr = doRequest(t, s, http.MethodGet,
		"/nightreport/reports?min_day_obs=20240302&max_day_obs=20240303", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, 20240302, found[0].DayObs)
}

func TestFindReportsBadParams(t *testing.T) {
	s, _, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/nightreport/reports?is_valid=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, s, http.MethodGet, "/nightreport/reports?order_by=nope", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEditReport(t *testing.T) {
	s, store, clock := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/nightreport/reports", addBody)
	require.Equal(t, http.StatusOK, rr.Code)
	parent := decodeReport(t, rr.Body.Bytes())

	clock.Advance(time.Hour)

	editBody := `{"summary": "corrected", "telescope": "Simonyi"}`
	rr = doRequest(t, s, http.MethodPatch, "/nightreport/reports/"+parent.ID.String(), editBody)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	edited := decodeReport(t, rr.Body.Bytes())
	assert.NotEqual(t, parent.ID, edited.ID)
	assert.Equal(t, "corrected", edited.Summary)
	require.NotNil(t, edited.Telescope)
	assert.Equal(t, report.TelescopeSimonyi, *edited.Telescope)
	assert.Equal(t, parent.DayObs, edited.DayObs)
	require.NotNil(t, edited.ParentID)
	assert.Equal(t, parent.ID, *edited.ParentID)
	assert.True(t, edited.IsValid)
	assert.Equal(t, 2, store.Len())

	// The parent is now invalid and excluded from default finds.
	rr = doRequest(t, s, http.MethodGet, "/nightreport/reports", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var found []report.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, edited.ID, found[0].ID)
}

func TestEditReportInvalidTelescope(t *testing.T) {
	s, _, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/nightreport/reports", addBody)
	require.Equal(t, http.StatusOK, rr.Code)
	parent := decodeReport(t, rr.Body.Bytes())

	rr = doRequest(t, s, http.MethodPatch,
		"/nightreport/reports/"+parent.ID.String(), `{"telescope": "Hubble"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEditReportNotFound(t *testing.T) {
	s, _, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodPatch,
		"/nightreport/reports/"+uuid.NewString(), `{"summary": "x"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteReport(t *testing.T) {
	s, _, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/nightreport/reports", addBody)
	require.Equal(t, http.StatusOK, rr.Code)
	added := decodeReport(t, rr.Body.Bytes())

	rr = doRequest(t, s, http.MethodDelete, "/nightreport/reports/"+added.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// Deleting again is a no-op, not an error.
	rr = doRequest(t, s, http.MethodDelete, "/nightreport/reports/"+added.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// The report is still retrievable by ID, just invalid.
	rr = doRequest(t, s, http.MethodGet, "/nightreport/reports/"+added.ID.String(), "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeReport(t, rr.Body.Bytes())
	assert.False(t, got.IsValid)

	rr = doRequest(t, s, http.MethodDelete, "/nightreport/reports/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetConfiguration(t *testing.T) {
	s, _, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/nightreport/configuration", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var cfg configurationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cfg))
	assert.Equal(t, "summit", cfg.SiteID)
}

func TestRootPage(t *testing.T) {
	s, _, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/nightreport", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "openapi.json")
}

func TestHealthEndpoints(t *testing.T) {
	s, _, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, s, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestTrailingSlashTolerated(t *testing.T) {
	s, _, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/nightreport/reports/", addBody)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestReportJSONShape(t *testing.T) {
	s, _, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/nightreport/reports", addBody)
	require.Equal(t, http.StatusOK, rr.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	for _, key := range report.FieldNames {
		assert.Contains(t, raw, key)
	}

	// Naive ISO 8601, no zone designator.
	dateAdded, ok := raw["date_added"].(string)
	require.True(t, ok)
	assert.NotContains(t, dateAdded, "Z")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{6}$`, dateAdded)
}
