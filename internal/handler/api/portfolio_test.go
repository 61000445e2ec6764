package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioOne/internal/domain/models"
	internalrepo "PortfolioOne/internal/repository"
	"PortfolioOne/internal/services/engine"
	"PortfolioOne/internal/usecase"
	"PortfolioOne/pkg/cache"
	applogger "PortfolioOne/pkg/logger"
)

type fakeHistory struct {
	healthErr error
	rows      []models.RegimeEvaluation
}

func (f *fakeHistory) Append(context.Context, *models.RegimeEvaluation) error { return nil }
func (f *fakeHistory) Recent(_ context.Context, _ string, limit int) ([]models.RegimeEvaluation, error) {
	if limit < len(f.rows) {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}
func (f *fakeHistory) Health(context.Context) error { return f.healthErr }

func newTestHandler(t *testing.T) (*PortfolioHandler, *echo.Echo) {
	t.Helper()
	log, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)

	store := internalrepo.NewCacheWeightStore(cache.NewMemoryCache())
	alloc := usecase.NewAllocationUsecase(log, nil, store, engine.DefaultThresholds())

	h := NewPortfolioHandler(log, nil, alloc)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestSimulate_OK(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/simulate",
		`{"drawdown_pct":-25,"portfolio_value":100000}`)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	require.Equal(t, http.StatusOK, env.Status)

	var sim models.Simulation
	require.NoError(t, json.Unmarshal(env.Data, &sim))
	assert.Equal(t, models.RegimeB, sim.Regime.ID)
	assert.InDelta(t, 90000, sim.Allocation.EquityValue, 1e-9)
	assert.InDelta(t, 10000, sim.Allocation.ReserveValue, 1e-9)
}

func TestSimulate_RejectsNegativePortfolio(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/simulate",
		`{"drawdown_pct":-25,"portfolio_value":-5}`)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestSimulate_UnknownWeightKey(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/simulate",
		`{"drawdown_pct":-5,"portfolio_value":100000,"equity_weights":{"not_a_fund":1.0}}`)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestWeights_SaveAndClear(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/weights",
		`{"equity_weights":{"north_america":1.0}}`)
	env := decodeEnvelope(t, rec)
	require.Equal(t, http.StatusOK, env.Status)

	// saved table now feeds the reference payload
	rec = doJSON(e, http.MethodGet, "/api/reference", "")
	env = decodeEnvelope(t, rec)
	require.Equal(t, http.StatusOK, env.Status)
	var ref models.Reference
	require.NoError(t, json.Unmarshal(env.Data, &ref))
	assert.True(t, ref.HasSavedDefaults)
	assert.InDelta(t, 1.0, ref.EquityWeights["north_america"], 1e-9)

	rec = doJSON(e, http.MethodDelete, "/api/weights", "")
	env = decodeEnvelope(t, rec)
	require.Equal(t, http.StatusOK, env.Status)

	rec = doJSON(e, http.MethodGet, "/api/reference", "")
	env = decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &ref))
	assert.False(t, ref.HasSavedDefaults)
}

func TestWeights_EmptyRequestRejected(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/weights", `{}`)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestHistory_NotConfigured(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodGet, "/api/history", "")
	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusNotFound, env.Status)
}

func TestHistory_ReturnsRows(t *testing.T) {
	h, e := newTestHandler(t)
	h.SetHistory(&fakeHistory{rows: []models.RegimeEvaluation{
		{Ticker: "URTH", RegimeID: models.RegimeA, DrawdownPct: -3.2},
		{Ticker: "URTH", RegimeID: models.RegimeB, DrawdownPct: -21.4},
	}})

	rec := doJSON(e, http.MethodGet, "/api/history?limit=1", "")
	env := decodeEnvelope(t, rec)
	require.Equal(t, http.StatusOK, env.Status)

	var rows []models.RegimeEvaluation
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, models.RegimeA, rows[0].RegimeID)
}

func TestHistory_LimitBounds(t *testing.T) {
	h, e := newTestHandler(t)
	h.SetHistory(&fakeHistory{})

	rec := doJSON(e, http.MethodGet, "/api/history?limit=5000", "")
	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestHealth(t *testing.T) {
	h, e := newTestHandler(t)

	rec := doJSON(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	h.SetHistory(&fakeHistory{healthErr: fmt.Errorf("connection refused")})
	rec = doJSON(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Components map[string]string `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "down", body.Components["history"])
}
