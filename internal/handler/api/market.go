package api

import (
	"strings"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	"MarketLens/pkg/util"

	"github.com/labstack/echo/v4"
)

// maxTileSymbols bounds one /api/tiles request.
const maxTileSymbols = 20

// MarketHandler exposes the market-data read API. All endpoints are
// GET; symbols are normalized to upper case before lookup.
type MarketHandler struct {
	market      *usecase.MarketData
	tileSymbols []string
}

// NewMarketHandler creates the handler. tileSymbols is the default set
// served by /api/tiles when the request names none.
func NewMarketHandler(market *usecase.MarketData, tileSymbols []string) *MarketHandler {
	return &MarketHandler{market: market, tileSymbols: tileSymbols}
}

// RegisterRoutes implements http.Handler.
func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/stock/overview", h.Overview)
	g.GET("/stock/history", h.History)
	g.GET("/stock/news", h.News)
	g.GET("/earnings", h.Earnings)
	g.GET("/index-quote", h.IndexQuote)
	g.GET("/tiles", h.Tiles)

	e.GET("/healthz", h.Health)
}

// Overview handles GET /api/stock/overview?symbol=AAPL&range=6M.
func (h *MarketHandler) Overview(c echo.Context) error {
	var req models.OverviewRequest
	if verrs := xhttp.ReadAndValidateRequest(c, &req); verrs != nil {
		return xhttp.BadRequestResponse(c, verrs)
	}

	symbol := strings.ToUpper(req.Symbol)
	rng := domrepo.NormalizeRange(req.Range)

	ov, err := h.market.Overview(c.Request().Context(), symbol, rng)
	if err != nil && ov == nil {
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, ov)
}

// History handles GET /api/stock/history?symbol=AAPL&range=1Y.
func (h *MarketHandler) History(c echo.Context) error {
	var req models.HistoryRequest
	if verrs := xhttp.ReadAndValidateRequest(c, &req); verrs != nil {
		return xhttp.BadRequestResponse(c, verrs)
	}

	symbol := strings.ToUpper(req.Symbol)
	rng := domrepo.NormalizeRange(req.Range)

	candles, _ := h.market.PriceHistory(c.Request().Context(), symbol, rng)
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol":  symbol,
		"range":   string(rng),
		"candles": candles,
	})
}

// News handles GET /api/stock/news?symbol=AAPL&limit=5&lookbackDays=7.
func (h *MarketHandler) News(c echo.Context) error {
	var req models.NewsRequest
	if verrs := xhttp.ReadAndValidateRequest(c, &req); verrs != nil {
		return xhttp.BadRequestResponse(c, verrs)
	}

	symbol := strings.ToUpper(req.Symbol)
	items, err := h.market.News(c.Request().Context(), symbol, req.Limit, req.LookbackDays)
	if err != nil {
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol": symbol,
		"items":  items,
	})
}

// Earnings handles GET /api/earnings?symbol=AAPL.
func (h *MarketHandler) Earnings(c echo.Context) error {
	var req models.EarningsRequest
	if verrs := xhttp.ReadAndValidateRequest(c, &req); verrs != nil {
		return xhttp.BadRequestResponse(c, verrs)
	}

	symbol := strings.ToUpper(req.Symbol)
	quarters, err := h.market.Earnings(c.Request().Context(), symbol)
	if err != nil {
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol":   symbol,
		"quarters": quarters,
	})
}

// IndexQuote handles GET /api/index-quote?symbol=^GSPC.
func (h *MarketHandler) IndexQuote(c echo.Context) error {
	var req models.IndexQuoteRequest
	if verrs := xhttp.ReadAndValidateRequest(c, &req); verrs != nil {
		return xhttp.BadRequestResponse(c, verrs)
	}

	symbol := strings.ToUpper(req.Symbol)
	q, _ := h.market.IndexQuote(c.Request().Context(), symbol)
	if q == nil {
		return xhttp.AppErrorResponse(c, xhttp.InternalError("index quote unavailable"))
	}
	return xhttp.SuccessResponse(c, q)
}

// Tiles handles GET /api/tiles?symbols=^GSPC,^IXIC.
func (h *MarketHandler) Tiles(c echo.Context) error {
	var req models.TilesRequest
	if verrs := xhttp.ReadAndValidateRequest(c, &req); verrs != nil {
		return xhttp.BadRequestResponse(c, verrs)
	}

	symbols := h.tileSymbols
	if req.Symbols != "" {
		symbols = make([]string, 0)
		for _, s := range util.SplitCSV(req.Symbols) {
			symbols = append(symbols, strings.ToUpper(s))
		}
		if len(symbols) > maxTileSymbols {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("at most %d symbols per request", maxTileSymbols))
		}
	}

	tiles, _ := h.market.TileQuotes(c.Request().Context(), symbols)
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"tiles": tiles,
	})
}

// Health handles GET /healthz.
func (h *MarketHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
