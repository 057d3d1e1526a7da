package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Nazarious-ucu/weather-lookup/docs"
	"github.com/Nazarious-ucu/weather-lookup/internal/cities"
	"github.com/Nazarious-ucu/weather-lookup/internal/config"
	handlerWeather "github.com/Nazarious-ucu/weather-lookup/internal/handlers/weather"
	"github.com/Nazarious-ucu/weather-lookup/internal/handlers/middleware"
	"github.com/Nazarious-ucu/weather-lookup/internal/models"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/cache"
	loggerT "github.com/Nazarious-ucu/weather-lookup/internal/services/logger"
	metricsSvc "github.com/Nazarious-ucu/weather-lookup/internal/services/metrics"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/tracing"
	serviceWeather "github.com/Nazarious-ucu/weather-lookup/internal/services/weather"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/weather/decorators"
	fLogger "github.com/Nazarious-ucu/weather-lookup/pkg/logger"
)

const (
	ServiceName = "weather_lookup"

	shutdownTimeout = 5 * time.Second
)

type weatherGetterService interface {
	GetByCity(ctx context.Context, city string) (models.WeatherResult, error)
}

// ServiceContainer holds initialized dependencies for the HTTP server.
type ServiceContainer struct {
	WeatherService weatherGetterService
	Cities         *cities.Catalog

	Router *gin.Engine
	Srv    *http.Server

	redis          *redis.Client
	fileLogger     *zap.Logger
	tracerShutdown tracing.ShutdownFunc
}

// App ties together config, logger, and metrics for startup/shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metricsSvc.Metrics
}

// New prepares a new App with given config, zerolog logger, and metrics.
func New(cfg config.Config, logger zerolog.Logger, met *metricsSvc.Metrics) *App {
	return &App{
		cfg: cfg,
		l:   logger,
		m:   met,
	}
}

// Start initializes services, serves HTTP on ln (or on the configured
// address when ln is nil) and blocks until ctx is done.
func (a *App) Start(ctx context.Context, ln net.Listener) error {
	srvContainer, err := a.Init()
	if err != nil {
		return err
	}

	if ln == nil {
		ln, err = net.Listen("tcp", srvContainer.Srv.Addr)
		if err != nil {
			_ = a.Shutdown(srvContainer)
			return fmt.Errorf("listen on %s: %w", srvContainer.Srv.Addr, err)
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		a.l.Info().Str("address", ln.Addr().String()).Msg("HTTP server running")
		if err := srvContainer.Srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		a.l.Info().Msg("shutdown signal received, stopping weather lookup service")
	case err := <-serveErr:
		if err != nil {
			a.l.Error().Err(err).Msg("HTTP server failed")
			_ = a.Shutdown(srvContainer)
			return err
		}
	}

	if err := a.Shutdown(srvContainer); err != nil {
		a.l.Error().Err(err).Msg("failed to shutdown application")
		return err
	}
	a.l.Info().Msg("application shutdown successfully")
	return nil
}

// Shutdown stops the HTTP server, flushes traces and syncs loggers.
func (a *App) Shutdown(srvContainer ServiceContainer) error {
	a.l.Info().Msg("stopping weather lookup service…")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if srvContainer.redis != nil {
		if err := srvContainer.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if srvContainer.tracerShutdown != nil {
		if err := srvContainer.tracerShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if err := srvContainer.fileLogger.Sync(); err != nil {
		a.l.Warn().Err(err).Msg("failed to sync file logger")
	}

	a.l.Info().Msg("shutdown complete")
	return errors.Join(errs...)
}

// Init sets up logging, tracing, caching, metrics and the router without
// starting anything.
func (a *App) Init() (ServiceContainer, error) {
	a.l.Info().
		Str("address", a.cfg.ServerAddress()).
		Str("provider_url", a.cfg.Tomorrow.APIURL).
		Bool("coalesce", a.cfg.CoalesceRequests).
		Bool("breaker", a.cfg.Breaker.Enabled).
		Bool("redis", a.cfg.Redis.Enabled).
		Msg("initializing weather lookup service")

	tracerShutdown, err := tracing.Setup(ServiceName, a.cfg.ZipkinURL)
	if err != nil {
		return ServiceContainer{}, err
	}

	fileLogger, err := fLogger.NewFileLogger(a.cfg.HTTPLogsPath)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to create file logger, outbound calls will not be logged")
		fileLogger = zap.NewNop()
	}

	catalog, err := cities.Load(a.cfg.CitiesPath)
	if err != nil {
		return ServiceContainer{}, err
	}
	a.l.Info().Int("cities", catalog.Len()).Msg("city list loaded")

	httpLogClient := NewHTTPClient(fileLogger, a.cfg.RequestTimeout())
	rawService := BuildWeatherService(a.cfg, httpLogClient, a.l, a.m)

	var weatherService weatherGetterService = rawService
	var redisClient *redis.Client
	if a.cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{Addr: a.cfg.Redis.Address(), DB: a.cfg.Redis.DbType})
		cacheMetrics := cache.NewMetricsDecorator[models.WeatherResult](
			cache.NewRedisClient[models.WeatherResult](redisClient, a.l,
				time.Duration(a.cfg.Redis.LiveTime)*time.Minute),
			metricsSvc.NewPromCollector(a.m.Registerer()),
		)
		weatherService = decorators.NewCachedService(rawService, cacheMetrics, a.l)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(a.l), a.m.HTTPMiddleware())

	weatherHandler := handlerWeather.NewHandler(weatherService, catalog, a.cfg.RequestTimeout())

	api := router.Group("/api")
	{
		api.GET("/weather", weatherHandler.GetWeather)
		api.GET("/cities", weatherHandler.GetCities)
	}
	router.GET("/metrics", gin.WrapH(a.m.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))

	httpServer := &http.Server{
		Addr:        a.cfg.ServerAddress(),
		Handler:     router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	return ServiceContainer{
		WeatherService: weatherService,
		Cities:         catalog,
		Router:         router,
		Srv:            httpServer,
		redis:          redisClient,
		fileLogger:     fileLogger,
		tracerShutdown: tracerShutdown,
	}, nil
}

// NewHTTPClient returns the outbound client every fetch goes through: each
// exchange is written to fileLogger with credentials masked.
func NewHTTPClient(fileLogger *zap.Logger, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: loggerT.NewRoundTripper(fileLogger),
		Timeout:   timeout,
	}
}

type fetchRecorder interface {
	ObserveFetch(outcome string, d time.Duration)
}

// BuildWeatherService assembles the fetch pipeline and its optional
// decorators: breaker innermost, coalescing outermost.
func BuildWeatherService(
	cfg config.Config,
	httpClient serviceWeather.HTTPClient,
	l zerolog.Logger,
	recorder fetchRecorder,
) *serviceWeather.ServiceProvider {
	var opts []serviceWeather.Option
	if !cfg.Tomorrow.StrictDecode {
		opts = append(opts, serviceWeather.WithUnknownFieldsAllowed())
	}

	var cl interface {
		FetchTemperature(ctx context.Context, city string) (models.WeatherResult, error)
	} = serviceWeather.NewClientTomorrow(cfg.Tomorrow.APIKey, cfg.Tomorrow.APIURL, httpClient, l, opts...)

	if cfg.Breaker.Enabled {
		cl = serviceWeather.NewBreakerClient("Tomorrow", serviceWeather.BreakerConfig{
			TimeInterval: time.Duration(cfg.Breaker.TimeInterval) * time.Second,
			TimeTimeOut:  time.Duration(cfg.Breaker.TimeTimeOut) * time.Second,
			RepeatNumber: cfg.Breaker.RepeatNumber,
		}, cl)
	}
	if cfg.CoalesceRequests {
		cl = serviceWeather.NewCoalescingClient(cl, l, cfg.RequestTimeout())
	}

	return serviceWeather.NewService(l, cl, recorder)
}
