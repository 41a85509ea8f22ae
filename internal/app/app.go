package app

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	platformlogging "github.com/shestoi/productcatalog/platform/logging"
	platformobservability "github.com/shestoi/productcatalog/platform/observability"
	platformshutdown "github.com/shestoi/productcatalog/platform/shutdown"

	httpapi "github.com/shestoi/productcatalog/internal/api/http"
	"github.com/shestoi/productcatalog/internal/catalog"
	"github.com/shestoi/productcatalog/internal/config"
	"github.com/shestoi/productcatalog/internal/repository"
	"github.com/shestoi/productcatalog/internal/repository/memory"
	"github.com/shestoi/productcatalog/internal/service"
	"github.com/shestoi/productcatalog/internal/telemetry"
)

// serviceName используется в логах, телеметрии и health endpoint
const serviceName = "productcatalog"

// App содержит все зависимости для запуска и корректного shutdown сервиса
type App struct {
	logger      *zap.Logger
	httpServer  *http.Server
	shutdownMgr *platformshutdown.Manager
	wg          sync.WaitGroup
}

// Build создаёт и настраивает все зависимости Product Catalog Service
func Build(cfg config.Config) (*App, error) {
	const op = "app.Build"

	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: serviceName,
		Env:         string(cfg.AppEnv),
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		return nil, err
	}

	buildLog := logger.With(zap.String("op", op))
	buildLog.Info("Building Product Catalog service", zap.String("http_addr", cfg.HTTPAddr))

	// OpenTelemetry
	otelCfg := platformobservability.Config{
		Enabled:               cfg.OTelEnabled,
		OTLPEndpoint:          cfg.OTelEndpoint,
		SamplingRatio:         cfg.OTelSamplingRatio,
		ServiceName:           serviceName,
		DeploymentEnvironment: string(cfg.AppEnv),
		ServiceVersion:        cfg.ServiceVersion,
	}
	otelShutdown, err := platformobservability.Init(context.Background(), otelCfg)
	if err != nil {
		return nil, err
	}

	// Каталог: из файла при заданном CATALOG_PATH, иначе встроенный
	var products []repository.Product
	if cfg.CatalogPath != "" {
		buildLog.Info("Loading catalog from file", zap.String("path", cfg.CatalogPath))
		products, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
	} else {
		products = catalog.Default()
	}
	if err := catalog.Validate(products); err != nil {
		return nil, err
	}

	catalogRepo, err := memory.NewMemoryRepository(products)
	if err != nil {
		return nil, err
	}
	buildLog.Info("Catalog loaded", zap.Int("products", catalogRepo.Len()))

	// Стратегия имитации задержки хранилища (по умолчанию выключена)
	var delayer service.Delayer = service.NopDelayer{}
	if cfg.SimulatedDelayMax > 0 {
		delayer = service.NewRandomDelayer(cfg.SimulatedDelayMin, cfg.SimulatedDelayMax)
		buildLog.Info("Simulated delay enabled",
			zap.Duration("min", cfg.SimulatedDelayMin),
			zap.Duration("max", cfg.SimulatedDelayMax),
		)
	}

	catalogService := service.NewCatalogService(catalogRepo, delayer, logger)

	// Emitter собирается на провайдерах, установленных Init:
	// глобальное состояние otel читается один раз здесь,
	// обработчики получают emitter явной зависимостью
	emitter, err := telemetry.New(otel.GetTracerProvider(), otel.GetMeterProvider())
	if err != nil {
		return nil, err
	}

	handler := httpapi.NewHandler(catalogService, emitter, logger)

	readiness := func() bool {
		return catalogRepo.Len() > 0
	}

	router := httpapi.NewRouter(handler, readiness, logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// LIFO: сначала останавливается HTTP сервер, затем выгружается телеметрия
	shutdownMgr := platformshutdown.New(cfg.ShutdownTimeout, logger)
	shutdownMgr.Add("otel", otelShutdown)
	shutdownMgr.Add("http_server", platformshutdown.ShutdownHTTPServer(httpServer))

	return &App{
		logger:      logger,
		httpServer:  httpServer,
		shutdownMgr: shutdownMgr,
	}, nil
}

// Run запускает сервис и блокируется до получения сигнала shutdown
func (a *App) Run() error {
	defer platformlogging.Sync(a.logger)

	a.logger.Info("Starting Product Catalog service", zap.String("addr", a.httpServer.Addr))
	a.logger.Info("Health check available", zap.String("url", "http://"+a.httpServer.Addr+"/health"))

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	a.shutdownMgr.Wait()

	a.wg.Wait()
	a.logger.Info("Product Catalog service stopped")
	return nil
}
