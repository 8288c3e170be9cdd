package fx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customsbot-poc/server/internal/engine/model"
)

const sampleRates = `[
  {"result": 1, "cur_unit": "USD", "ttb": "1,292.50", "tts": "1,318.70"},
  {"result": 1, "cur_unit": "JPY(100)", "ttb": "905.12", "tts": "923.40"},
  {"result": 1, "cur_unit": "EUR", "ttb": "1,401.10", "tts": "1,429.30"}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := model.FxConfig{BaseURL: srv.URL, AuthKey: "test-key", TimeoutSeconds: 2}
	now := func() time.Time { return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) }
	return NewClientWithClock(cfg, now), srv
}

func TestRateBuysForDirectPurchase(t *testing.T) {
	var query map[string][]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(sampleRates))
	})

	rate, err := client.Rate(context.Background(), "USD", model.ScenarioOverseasDirect)

	require.NoError(t, err)
	assert.Equal(t, 1292.50, rate)
	assert.Equal(t, []string{"test-key"}, query["authkey"])
	assert.Equal(t, []string{"20260828"}, query["searchdate"])
	assert.Equal(t, []string{"AP01"}, query["data"])
}

func TestRateSellsForShippedFromAbroad(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRates))
	})

	rate, err := client.Rate(context.Background(), "USD", model.ScenarioShippedFromAbroad)

	require.NoError(t, err)
	assert.Equal(t, 1318.70, rate)
}

func TestRatePer100UnitNormalised(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRates))
	})

	rate, err := client.Rate(context.Background(), "JPY", model.ScenarioPurchasedAbroad)

	require.NoError(t, err)
	assert.InDelta(t, 9.0512, rate, 1e-9)
}

func TestRateUnknownCurrency(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRates))
	})

	_, err := client.Rate(context.Background(), "CHF", model.ScenarioOverseasDirect)

	require.Error(t, err)
}

func TestRateServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Rate(context.Background(), "USD", model.ScenarioOverseasDirect)

	require.Error(t, err)
}
