package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/urbandrive/storefront/api/middleware"
	"github.com/urbandrive/storefront/api/routes"
	"github.com/urbandrive/storefront/api/views"
	authsvc "github.com/urbandrive/storefront/internal/auth"
	cartsvc "github.com/urbandrive/storefront/internal/cart"
	paymentsvc "github.com/urbandrive/storefront/internal/payments"
	reservationsvc "github.com/urbandrive/storefront/internal/reservations"
	"github.com/urbandrive/storefront/internal/sagalog"
	"github.com/urbandrive/storefront/internal/session"
	usersvc "github.com/urbandrive/storefront/internal/users"
	vehiclesvc "github.com/urbandrive/storefront/internal/vehicles"
	"github.com/urbandrive/storefront/pkg/banco"
	"github.com/urbandrive/storefront/pkg/config"
	"github.com/urbandrive/storefront/pkg/db"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
	"github.com/urbandrive/storefront/pkg/metrics"
	"github.com/urbandrive/storefront/pkg/migrate"
	"github.com/urbandrive/storefront/pkg/outbox"
	"github.com/urbandrive/storefront/pkg/pubsub"
	"github.com/urbandrive/storefront/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "web"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "web",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}
	sessions, err := middleware.NewSessions(sessionManager, cfg.Session, logg)
	if err != nil {
		logg.Error(ctx, "failed to create session middleware", err)
		os.Exit(1)
	}

	gestionClient, err := gestion.NewClient(ctx, cfg.Gestion, logg)
	if err != nil {
		logg.Error(ctx, "failed to create gestion client", err)
		os.Exit(1)
	}
	bancoClient, err := banco.NewClient(ctx, cfg.Banco, logg)
	if err != nil {
		logg.Error(ctx, "failed to create banco client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	group, groupCtx := errgroup.WithContext(ctx)

	// Pub/Sub is optional. Without a project id the outbox still records
	// events; they just stay staged until a dispatcher picks them up.
	outboxRepo := outbox.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outboxRepo, logg)
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(ctx, "failed to create pubsub client", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub client", err)
			}
		}()

		dispatcher := outbox.NewDispatcher(outboxRepo, pubsubClient.ReservationPublisher(), cfg.Outbox, logg)
		group.Go(func() error {
			err := dispatcher.Run(groupCtx)
			if err == context.Canceled {
				return nil
			}
			return err
		})
	} else {
		logg.Warn(ctx, "gcp project id not set, outbox dispatch disabled")
	}

	recorder, err := sagalog.NewRecorder(dbClient.DB(), logg)
	if err != nil {
		logg.Error(ctx, "failed to create saga recorder", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(gestionClient, cfg.Password, logg)
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}
	vehiclesService, err := vehiclesvc.NewService(gestionClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create vehicles service", err)
		os.Exit(1)
	}
	cartService, err := cartsvc.NewService(gestionClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}
	reservationsService, err := reservationsvc.NewService(gestionClient, cfg.Tax, logg)
	if err != nil {
		logg.Error(ctx, "failed to create reservations service", err)
		os.Exit(1)
	}
	usersService, err := usersvc.NewService(gestionClient, cfg.Password, logg)
	if err != nil {
		logg.Error(ctx, "failed to create users service", err)
		os.Exit(1)
	}
	paymentsService, err := paymentsvc.NewService(
		gestionClient,
		bancoClient,
		recorder,
		outboxService,
		dbClient.DB(),
		checkoutMetrics,
		cfg.Tax,
		logg,
	)
	if err != nil {
		logg.Error(ctx, "failed to create payments service", err)
		os.Exit(1)
	}

	renderer, err := views.NewRenderer(logg)
	if err != nil {
		logg.Error(ctx, "failed to parse templates", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:       cfg,
		Logger:       logg,
		Renderer:     renderer,
		Sessions:     sessions,
		DB:           dbClient,
		Redis:        redisClient,
		Promotions:   gestionClient,
		Auth:         authService,
		Vehicles:     vehiclesService,
		Cart:         cartService,
		Reservations: reservationsService,
		Payments:     paymentsService,
		Users:        usersService,
		SagaLog:      recorder,
		HTTPMetrics:  httpMetrics,
		Registry:     registry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting storefront server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logg.Error(startCtx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(startCtx, "storefront server stopped")
}
