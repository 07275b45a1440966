package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
)

// DefaultAlphaVantageURL is the production API root.
const DefaultAlphaVantageURL = "https://www.alphavantage.co"

// AlphaVantage fetches TIME_SERIES_DAILY closes.
type AlphaVantage struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewAlphaVantage builds a client. An empty baseURL selects
// DefaultAlphaVantageURL; a nil client gets a 30s timeout.
func NewAlphaVantage(baseURL, apiKey string, client *http.Client) *AlphaVantage {
	if baseURL == "" {
		baseURL = DefaultAlphaVantageURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &AlphaVantage{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client}
}

func (a *AlphaVantage) Name() string { return "alphavantage" }

type avDaily struct {
	Close string `json:"4. close"`
}

type avResponse struct {
	Series       map[string]avDaily `json:"Time Series (Daily)"`
	ErrorMessage string             `json:"Error Message"`
	Note         string             `json:"Note"`
	Information  string             `json:"Information"`
}

// Fetch downloads the full daily history of ticker.
func (a *AlphaVantage) Fetch(ctx context.Context, ticker string) ([]models.Observation, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", ticker)
	q.Set("outputsize", "full")
	q.Set("datatype", "json")
	q.Set("apikey", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/query?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: build request: %w: %w", errs.ErrRepository, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: request %s: %w: %w", ticker, errs.ErrRepository, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("alphavantage: %s: status %d: %s: %w", ticker, resp.StatusCode, strings.TrimSpace(string(body)), errs.ErrRepository)
	}

	var payload avResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("alphavantage: decode %s: %w: %w", ticker, errs.ErrRepository, err)
	}

	switch {
	case payload.ErrorMessage != "":
		return nil, fmt.Errorf("alphavantage: %s: %s: %w", ticker, payload.ErrorMessage, errs.ErrTickerNotFound)
	case payload.Note != "":
		return nil, fmt.Errorf("alphavantage: %s: %s: %w", ticker, payload.Note, errs.ErrRepository)
	case payload.Information != "":
		return nil, fmt.Errorf("alphavantage: %s: %s: %w", ticker, payload.Information, errs.ErrRepository)
	case len(payload.Series) == 0:
		return nil, fmt.Errorf("alphavantage: %s: empty time series: %w", ticker, errs.ErrTickerNotFound)
	}

	out := make([]models.Observation, 0, len(payload.Series))
	for day, v := range payload.Series {
		ts, err := time.Parse(csvDateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: %s: invalid date %q: %w", ticker, day, errs.ErrDataQuality)
		}
		price, err := parseDecimal(v.Close)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: %s: invalid close %q on %s: %w", ticker, v.Close, day, errs.ErrDataQuality)
		}
		out = append(out, models.Observation{Timestamp: ts, Price: price})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}
