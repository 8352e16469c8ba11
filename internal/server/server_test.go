package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogostos/optledger/internal/engine"
	"github.com/ogostos/optledger/internal/models"
	"github.com/ogostos/optledger/internal/normalize"
)

type stubProvider struct {
	positions []normalize.Raw
	summary   normalize.Raw
	err       error
}

func (s *stubProvider) GetPositions(context.Context) ([]normalize.Raw, error) {
	return s.positions, s.err
}

func (s *stubProvider) GetSummary(context.Context) (normalize.Raw, error) {
	return s.summary, s.err
}

func (s *stubProvider) GetExecutions(context.Context) ([]normalize.Raw, error) {
	return nil, nil
}

type stubStore struct{}

func (stubStore) ListOpenTrades() []models.Trade     { return nil }
func (stubStore) ListTrades() []models.Trade         { return nil }
func (stubStore) UpsertTrade(models.Trade) error     { return nil }
func (stubStore) CloseTrade(id, reason string) error { return nil }
func (stubStore) Save() error                        { return nil }
func (stubStore) Load() error                        { return nil }

func newTestServer(provider *stubProvider) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	eng := engine.New(provider, stubStore{}, logger)
	return New(eng, Config{Port: 0}, logger)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(&stubProvider{})

	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestPositionsEndpoint(t *testing.T) {
	s := newTestServer(&stubProvider{
		positions: []normalize.Raw{
			{"symbol": "SPY240315C00290000", "quantity": 1.0, "average_cost": 12.00},
			{"symbol": "SPY240315C00320000", "quantity": -1.0, "average_cost": 4.00},
		},
		summary: normalize.Raw{"netliquidation": 50000.0},
	})

	rec := get(t, s, "/api/positions")
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Positions []struct {
			Strategy string `json:"strategy"`
			NetDebit string `json:"net_debit"`
		} `json:"positions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Positions, 1)
	assert.Equal(t, string(models.StrategyBullCallSpread), result.Positions[0].Strategy)
	assert.Equal(t, "800", result.Positions[0].NetDebit)
}

func TestSummaryEndpoint(t *testing.T) {
	s := newTestServer(&stubProvider{
		summary: normalize.Raw{"netliquidation": 50000.0, "cash": 1000.0},
	})

	rec := get(t, s, "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		NetLiquidation *string `json:"net_liquidation"`
		BuyingPower    *string `json:"buying_power"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.NotNil(t, summary.NetLiquidation)
	assert.Equal(t, "50000", *summary.NetLiquidation)
	assert.Nil(t, summary.BuyingPower, "absent metrics must serialize as null")
}

func TestUpstreamFailureReturnsBadGateway(t *testing.T) {
	s := newTestServer(&stubProvider{err: context.DeadlineExceeded})

	rec := get(t, s, "/api/positions")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}
