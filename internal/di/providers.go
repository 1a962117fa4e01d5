package di

import (
	"fmt"

	"MarketLens/internal/domain/repository"
	"MarketLens/internal/handler/api"
	"MarketLens/internal/service/finnhub"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/internal/usecase"
	"MarketLens/pkg/cache"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/metrics"
	"MarketLens/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics returns the Prometheus recorder, or a no-op recorder
// when metrics are disabled.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return repository.NopMetrics{}
	}
	return metrics.New()
}

// ProvideProvider creates the live market-data provider. It is nil
// when the provider is "none" or every data domain is mocked; the
// orchestrator then serves synthetic data directly.
func ProvideProvider(cfg *config.Config) repository.Provider {
	if cfg.Provider.Name != "finnhub" || cfg.MockAll() {
		return nil
	}
	return finnhub.NewClient(cfg.Provider.APIKey, cfg.Provider.BaseURL,
		finnhub.WithTimeout(cfg.Provider.Timeout),
		finnhub.WithRetries(cfg.Provider.Retries, cfg.Provider.RetryDelay),
	)
}

// ProvideLimiter creates the outbound request limiter.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideMarketData assembles the orchestrator with its two caches.
// With Redis enabled the stock cache becomes layered; the tile cache
// stays purely in-process because its entries live for about a second.
func ProvideMarketData(
	cfg *config.Config,
	provider repository.Provider,
	limiter *ratelimit.Limiter,
	rec repository.Metrics,
	log *applogger.Logger,
) (*usecase.MarketData, error) {
	var stocks cache.Service
	if cfg.Cache.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisTTL(cfg.Cache.StockTTL),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		stocks = cache.NewLayeredCache(redisCache,
			cache.WithMemoryTTL(cfg.Cache.StockTTL),
			cache.WithMemoryMaxEntries(cfg.Cache.StockMaxEntries),
		)
	} else {
		stocks = cache.NewMemoryCache(
			cache.WithMemoryTTL(cfg.Cache.StockTTL),
			cache.WithMemoryMaxEntries(cfg.Cache.StockMaxEntries),
		)
	}

	tiles := cache.NewMemoryCache(cache.WithMemoryTTL(cfg.Cache.TileTTL))

	return usecase.NewMarketData(cfg, provider, stocks, tiles, limiter, rec, log), nil
}

// ProvideHandler creates the market API handler.
func ProvideHandler(cfg *config.Config, market *usecase.MarketData) *api.MarketHandler {
	return api.NewMarketHandler(market, cfg.Refresher.Symbols)
}

// ProvideServer creates the HTTP server.
func ProvideServer(cfg *config.Config, handler *api.MarketHandler, log *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
	}
	return xhttp.NewServer(handler,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(log),
	)
}

// ProvideRunners assembles the background components: the tile
// refresher and, when streaming is on, the live trade pump.
func ProvideRunners(
	cfg *config.Config,
	market *usecase.MarketData,
	rec repository.Metrics,
	log *applogger.Logger,
) []server.Runner {
	var runners []server.Runner

	if cfg.Refresher.Enabled {
		runners = append(runners, usecase.NewTileRefresher(
			market,
			cfg.Refresher.Symbols,
			cfg.Refresher.Interval,
			cfg.Refresher.BackoffBase,
			cfg.Refresher.BackoffMax,
			rec,
			log,
		))
	}

	if cfg.Provider.Stream.Enabled && cfg.Provider.Name == "finnhub" && cfg.Provider.APIKey != "" {
		stream := finnhub.NewStream(
			cfg.Provider.APIKey,
			cfg.Provider.Stream.WebSocketURL,
			cfg.Refresher.Symbols,
			cfg.Provider.Stream.ReconnectDelay,
			cfg.Provider.Stream.PingInterval,
			log,
		)
		runners = append(runners, usecase.NewStreamPump(stream, market, log))
	}

	return runners
}

// ProvideApp assembles the application.
func ProvideApp(cfg *config.Config, srv *xhttp.Server, log *applogger.Logger, runners []server.Runner) *server.App {
	return server.New(srv, log, cfg.Server.ShutdownTimeout, runners...)
}
