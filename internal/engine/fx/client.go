package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	errx "github.com/customsbot-poc/server/internal/core/error"
	"github.com/customsbot-poc/server/internal/engine/model"
	logx "github.com/customsbot-poc/server/pkg/logger"
)

// DefaultRate is the hard-coded last-resort rate when both the rate service
// and the static fallback table have no entry for a currency.
const DefaultRate = 1300.0

// Client fetches same-day buy/sell rates from the Korea Eximbank open API.
// It reports failures as errors; the fallback policy (static table, then
// DefaultRate) belongs to the caller so it stays an explicit function of the
// error, not a silent catch-all.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authKey    string
	now        func() time.Time
}

// NewClient builds a rate client from config. The now hook exists for tests.
func NewClient(cfg model.FxConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		baseURL:    cfg.BaseURL,
		authKey:    cfg.AuthKey,
		now:        time.Now,
	}
}

// NewClientWithClock is NewClient with a fixed clock, for tests pinning the
// search date.
func NewClientWithClock(cfg model.FxConfig, now func() time.Time) *Client {
	c := NewClient(cfg)
	c.now = now
	return c
}

type rateRow struct {
	Result  int    `json:"result"`
	CurUnit string `json:"cur_unit"`
	TTB     string `json:"ttb"`
	TTS     string `json:"tts"`
}

// Rate returns the same-day rate for the currency unit: the buy rate (ttb)
// for direct-purchase and travel scenarios, the sell rate (tts) for parcels
// shipped from abroad.
func (c *Client) Rate(ctx context.Context, curUnit string, scenario model.Scenario) (float64, error) {
	q := url.Values{}
	q.Set("authkey", c.authKey)
	q.Set("searchdate", c.now().Format("20060102"))
	q.Set("data", "AP01")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, errx.New(err, http.StatusInternalServerError, errx.RateLookupErrorMessage)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errx.New(err, http.StatusBadGateway, errx.RateLookupErrorMessage)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errx.New(fmt.Errorf("status %d", resp.StatusCode), http.StatusBadGateway, errx.RateLookupErrorMessage)
	}

	var rows []rateRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return 0, errx.New(err, http.StatusBadGateway, errx.RateLookupErrorMessage)
	}

	for _, row := range rows {
		// the API reports some units as e.g. "JPY(100)"
		if row.CurUnit != curUnit && !strings.HasPrefix(row.CurUnit, curUnit+"(") {
			continue
		}
		raw := row.TTB
		switch scenario {
		case model.ScenarioOverseasDirect, model.ScenarioPurchasedAbroad:
			raw = row.TTB
		case model.ScenarioShippedFromAbroad:
			raw = row.TTS
		default:
			return 0, errx.New(fmt.Errorf("unknown scenario %q", scenario), http.StatusBadRequest, errx.RateLookupErrorMessage)
		}
		rate, err := parseRate(raw)
		if err != nil {
			return 0, errx.New(err, http.StatusBadGateway, errx.RateLookupErrorMessage)
		}
		// units quoted per 100 (e.g. "JPY(100)") are normalised to per 1
		if strings.HasSuffix(row.CurUnit, "(100)") {
			rate /= 100
		}
		logx.Debug().Str("cur_unit", curUnit).Float64("rate", rate).Msg("exchange rate resolved")
		return rate, nil
	}
	return 0, errx.New(fmt.Errorf("currency %s not in exchange rate data", curUnit), http.StatusNotFound, errx.RateLookupErrorMessage)
}

func parseRate(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty rate value")
	}
	return strconv.ParseFloat(s, 64)
}
