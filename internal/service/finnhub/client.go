package finnhub

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	domrepo "MarketLens/internal/domain/repository"
	xhttp "MarketLens/pkg/http"
)

// Client implements domain repository.Provider against the Finnhub
// REST API. Transient failures are retried with a doubling delay; a
// 429 maps to repository.ErrRateLimited and is not retried.
type Client struct {
	apiKey     string
	baseURL    string
	retries    int
	retryDelay time.Duration
	http       *xhttp.Client
}

// ClientOption configures Client.
type ClientOption func(*Client)

// NewClient creates a new Finnhub REST client.
func NewClient(apiKey, baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		retries:    2,
		retryDelay: 500 * time.Millisecond,
		http:       xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTimeout bounds each outbound request.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http = xhttp.NewClient(xhttp.WithTimeout(d))
	}
}

// WithRetries sets the transient-failure retry count and base delay.
func WithRetries(n int, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.retries = n
		c.retryDelay = delay
	}
}

type quoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

type candleResponse struct {
	Status  string    `json:"s"`
	Times   []int64   `json:"t"`
	Opens   []float64 `json:"o"`
	Highs   []float64 `json:"h"`
	Lows    []float64 `json:"l"`
	Closes  []float64 `json:"c"`
	Volumes []float64 `json:"v"`
}

// FetchQuote fetches a realtime quote for symbol.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (*domrepo.QuoteData, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	var resp quoteResponse
	if err := c.get(ctx, "/quote", q, &resp); err != nil {
		return nil, err
	}

	// Finnhub reports zeros for unknown symbols instead of an error.
	if resp.Current == 0 && resp.PrevClose == 0 {
		return nil, fmt.Errorf("finnhub quote %s: empty payload", symbol)
	}

	return &domrepo.QuoteData{
		Price:         resp.Current,
		Change:        resp.Change,
		ChangePercent: resp.ChangePercent,
	}, nil
}

// FetchCandles fetches an OHLCV series for symbol between from and to
// (unix seconds) at the given resolution.
func (c *Client) FetchCandles(ctx context.Context, symbol, resolution string, from, to int64) (*domrepo.CandleData, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("resolution", resolution)
	q.Set("from", fmt.Sprintf("%d", from))
	q.Set("to", fmt.Sprintf("%d", to))

	var resp candleResponse
	if err := c.get(ctx, "/stock/candle", q, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "ok" || len(resp.Times) == 0 {
		return nil, fmt.Errorf("finnhub candles %s: status %q with %d points", symbol, resp.Status, len(resp.Times))
	}
	if len(resp.Closes) != len(resp.Times) {
		return nil, fmt.Errorf("finnhub candles %s: ragged series", symbol)
	}

	return &domrepo.CandleData{
		Times:   resp.Times,
		Opens:   resp.Opens,
		Highs:   resp.Highs,
		Lows:    resp.Lows,
		Closes:  resp.Closes,
		Volumes: resp.Volumes,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dest interface{}) error {
	q.Set("token", c.apiKey)

	var lastErr error
	delay := c.retryDelay
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		err := c.http.GetJSON(ctx, c.baseURL+path, q, dest)
		if err == nil {
			return nil
		}

		var se *xhttp.StatusError
		if errors.As(err, &se) && se.StatusCode == 429 {
			return fmt.Errorf("finnhub %s: %w", path, domrepo.ErrRateLimited)
		}
		lastErr = err
	}
	return fmt.Errorf("finnhub %s: %w", path, lastErr)
}
