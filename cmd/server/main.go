package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	dochandler "portal/internal/document/handler"
	docmetrics "portal/internal/document/metrics"
	docservice "portal/internal/document/service"
	"portal/internal/platform/config"
	"portal/internal/platform/httpserver"
	"portal/internal/platform/logger"
	"portal/internal/platform/metrics"
	"portal/internal/platform/postgres"
	"portal/internal/platform/redis"
	reghandler "portal/internal/registration/handler"
	regmetrics "portal/internal/registration/metrics"
	regservice "portal/internal/registration/service"
	draftstore "portal/internal/registration/store/draft"
	regstore "portal/internal/registration/store/registration"
	httptransport "portal/internal/transport/http"
	audit "portal/pkg/platform/audit"
	"portal/pkg/platform/audit/publishers/compliance"
	auditmemory "portal/pkg/platform/audit/store/memory"
	auditpostgres "portal/pkg/platform/audit/store/postgres"
	txcontext "portal/pkg/platform/tx"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies and runs the HTTP server until a signal arrives.
// Business logic lives in internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("portal exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	healthChecks := map[string]httptransport.HealthCheck{}

	drafts, closeDrafts, err := buildDraftStore(ctx, cfg, log, healthChecks)
	if err != nil {
		return err
	}
	defer closeDrafts()

	persistence, err := buildPersistence(ctx, cfg, log, healthChecks)
	if err != nil {
		return err
	}
	defer persistence.close()

	documents := docservice.New(
		docservice.WithLogger(log),
		docservice.WithMetrics(docmetrics.New(reg)),
	)
	auditor := compliance.New(persistence.audit,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics(reg)),
	)
	wizard := regservice.New(drafts, persistence.registrations,
		regservice.WithLogger(log),
		regservice.WithMetrics(regmetrics.New(reg)),
		regservice.WithDraftTTL(cfg.Registration.DraftTTL),
		regservice.WithAuditor(auditor),
		regservice.WithTxRunner(persistence.tx),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		RequestTimeout: cfg.RequestTimeout,
		Handlers: []httptransport.RouteRegistrar{
			dochandler.New(documents, log),
			reghandler.New(wizard, log),
		},
		HealthChecks: healthChecks,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting portal", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down portal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func buildDraftStore(ctx context.Context, cfg config.Server, log *slog.Logger, checks map[string]httptransport.HealthCheck) (regservice.DraftStore, func(), error) {
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Warn("REDIS_URL not set, registration drafts are kept in memory")
		return draftstore.NewInMemory(), func() {}, nil
	}
	checks["redis"] = client.Health
	return draftstore.NewRedis(client.Client), func() { _ = client.Close() }, nil
}

// persistence groups the stores that share the registration database so
// registrations and their audit events commit together.
type persistence struct {
	registrations regservice.RegistrationStore
	audit         audit.Store
	tx            txcontext.Runner
	close         func()
}

func buildPersistence(ctx context.Context, cfg config.Server, log *slog.Logger, checks map[string]httptransport.HealthCheck) (*persistence, error) {
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if db == nil {
		log.Warn("DATABASE_URL not set, registrations and audit events are kept in memory")
		return &persistence{
			registrations: regstore.NewInMemory(),
			audit:         auditmemory.NewInMemoryStore(),
			tx:            txcontext.NoopRunner{},
			close:         func() {},
		}, nil
	}

	registrations := regstore.NewPostgres(db)
	auditStore := auditpostgres.New(db)
	if err := registrations.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := auditStore.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	checks["postgres"] = db.PingContext
	return &persistence{
		registrations: registrations,
		audit:         auditStore,
		tx:            txcontext.NewSQLRunner(db),
		close:         func() { _ = db.Close() },
	}, nil
}
