package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketLens/internal/service/ratelimit"
	"MarketLens/internal/usecase"
	"MarketLens/pkg/cache"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

func newTestHandler(t *testing.T) *MarketHandler {
	t.Helper()

	cfg := &config.Config{}
	cfg.Environment = "test"
	cfg.Provider.Name = "none"
	cfg.Provider.IndexMode = "etf_proxy"
	cfg.Mock.Stocks = true
	cfg.Mock.Market = true
	cfg.Mock.Earnings = true
	cfg.Cache.StockTTL = 5 * time.Minute
	cfg.Cache.TileTTL = time.Second

	log, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	market := usecase.NewMarketData(cfg, nil,
		cache.NewMemoryCache(), cache.NewMemoryCache(cache.WithMemoryTTL(time.Second)),
		ratelimit.New(), nil, log)

	return NewMarketHandler(market, []string{"^GSPC", "^IXIC", "^DJI", "^RUT"})
}

func doRequest(t *testing.T, h echo.HandlerFunc, target string) (*httptest.ResponseRecorder, xhttp.APIResponse) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, resp
}

func TestOverviewRequiresSymbol(t *testing.T) {
	h := newTestHandler(t)

	_, resp := doRequest(t, h.Overview, "/api/stock/overview")
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("status %d, want %d", resp.Status, http.StatusBadRequest)
	}
}

func TestOverviewReturnsAllSections(t *testing.T) {
	h := newTestHandler(t)

	_, resp := doRequest(t, h.Overview, "/api/stock/overview?symbol=aapl&range=6M")
	if resp.Status != http.StatusOK {
		t.Fatalf("status %d, want %d", resp.Status, http.StatusOK)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want object", resp.Data)
	}
	if data["symbol"] != "AAPL" {
		t.Fatalf("symbol %v, want AAPL", data["symbol"])
	}
	for _, key := range []string{"quote", "history", "earnings", "news"} {
		if data[key] == nil {
			t.Fatalf("overview missing %q", key)
		}
	}
}

func TestHistoryRejectsBadRange(t *testing.T) {
	h := newTestHandler(t)

	_, resp := doRequest(t, h.History, "/api/stock/history?symbol=AAPL&range=7Q")
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("status %d, want %d", resp.Status, http.StatusBadRequest)
	}
}

func TestNewsLimitBounds(t *testing.T) {
	h := newTestHandler(t)

	_, resp := doRequest(t, h.News, "/api/stock/news?symbol=AAPL&limit=26")
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("limit above max should fail, got status %d", resp.Status)
	}

	_, resp = doRequest(t, h.News, "/api/stock/news?symbol=AAPL&limit=3")
	if resp.Status != http.StatusOK {
		t.Fatalf("status %d, want %d", resp.Status, http.StatusOK)
	}
	data := resp.Data.(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
}

func TestIndexQuoteDefaultsToSP500(t *testing.T) {
	h := newTestHandler(t)

	_, resp := doRequest(t, h.IndexQuote, "/api/index-quote")
	if resp.Status != http.StatusOK {
		t.Fatalf("status %d, want %d", resp.Status, http.StatusOK)
	}
	data := resp.Data.(map[string]interface{})
	if data["symbol"] != "^GSPC" {
		t.Fatalf("symbol %v, want ^GSPC", data["symbol"])
	}
	if data["name"] != "S&P 500" {
		t.Fatalf("name %v, want S&P 500", data["name"])
	}
}

func TestTilesUsesConfiguredDefaults(t *testing.T) {
	h := newTestHandler(t)

	_, resp := doRequest(t, h.Tiles, "/api/tiles")
	if resp.Status != http.StatusOK {
		t.Fatalf("status %d, want %d", resp.Status, http.StatusOK)
	}
	data := resp.Data.(map[string]interface{})
	tiles := data["tiles"].([]interface{})
	if len(tiles) != 4 {
		t.Fatalf("got %d tiles, want 4", len(tiles))
	}
}

func TestTilesAcceptsExplicitSymbols(t *testing.T) {
	h := newTestHandler(t)

	_, resp := doRequest(t, h.Tiles, "/api/tiles?symbols=aapl,msft")
	if resp.Status != http.StatusOK {
		t.Fatalf("status %d, want %d", resp.Status, http.StatusOK)
	}
	data := resp.Data.(map[string]interface{})
	tiles := data["tiles"].([]interface{})
	if len(tiles) != 2 {
		t.Fatalf("got %d tiles, want 2", len(tiles))
	}
	first := tiles[0].(map[string]interface{})
	if first["symbol"] != "AAPL" {
		t.Fatalf("first tile %v, want AAPL", first["symbol"])
	}
}

func TestTilesRejectsTooManySymbols(t *testing.T) {
	h := newTestHandler(t)

	symbols := "A"
	for i := 0; i < maxTileSymbols; i++ {
		symbols += ",A" + string(rune('A'+i%26))
	}
	_, resp := doRequest(t, h.Tiles, "/api/tiles?symbols="+symbols)
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("status %d, want %d", resp.Status, http.StatusBadRequest)
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := doRequest(t, h.Health, "/healthz")
	if rec.Code != http.StatusOK || resp.Status != http.StatusOK {
		t.Fatalf("health status %d/%d, want 200/200", rec.Code, resp.Status)
	}
}
