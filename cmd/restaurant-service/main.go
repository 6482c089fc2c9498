package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Cheertaboi/restaurant-service/internal/api"
	"github.com/Cheertaboi/restaurant-service/internal/cache"
	"github.com/Cheertaboi/restaurant-service/internal/config"
	"github.com/Cheertaboi/restaurant-service/internal/logger"
	"github.com/Cheertaboi/restaurant-service/internal/messaging"
	"github.com/Cheertaboi/restaurant-service/internal/repository"
	"github.com/Cheertaboi/restaurant-service/internal/service"
	"github.com/Cheertaboi/restaurant-service/internal/storage/memory"
	"github.com/Cheertaboi/restaurant-service/pkg/db"
)

const serviceName = "restaurant-service"

// stores groups the repositories the services need, whichever backend
// provides them.
type stores struct {
	tx           service.Transactor
	coupons      service.CouponRepo
	usage        service.UsageRepo
	items        service.ItemRepo
	orders       service.OrderRepo
	reservations service.ReservationRepo
	catalog      service.CatalogRepo
	close        func() error
}

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to the YAML config file (empty for defaults)")
		migrate    = flag.Bool("migrate", false, "Apply database migrations before serving")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(serviceName, cfg.Log.Level)
	if err := run(cfg, *migrate, log); err != nil {
		log.Error("service failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, migrate bool, log *slog.Logger) error {
	fixtures, err := config.LoadFixtures(cfg.FixturesPath)
	if err != nil {
		return err
	}

	st, err := openStores(cfg, fixtures, migrate, log)
	if err != nil {
		return err
	}
	defer st.close()

	var publisher service.EventPublisher = messaging.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		dialCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		conn, err := messaging.Dial(dialCtx, cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		cancel()
		if err != nil {
			return err
		}
		p := messaging.NewPublisher(conn, log)
		defer p.Close()
		publisher = p
		log.Info("event publishing enabled", slog.String("exchange", cfg.RabbitMQ.Exchange))
	}

	timeout := cfg.Database.QueryTimeout
	svc := api.Services{
		Coupons: service.NewCouponService(st.coupons, timeout, cfg.Pricing.Currency, log),
		Reservations: service.NewReservationService(st.tx, st.reservations, publisher,
			cfg.Reservations, cfg.ReservationLocation(), timeout, log),
		Orders: service.NewOrderService(st.tx, st.orders, st.items, st.coupons, st.usage, st.catalog,
			publisher, cfg.Pricing, timeout, log),
		Catalog: service.NewCatalogService(st.tx, st.catalog, st.orders,
			cache.NewCatalogCache(cfg.Cache.CatalogTTL), fixtures, timeout, log),
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(svc, log, cfg.Server.RequestTimeout),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting "+serviceName,
			slog.String("addr", cfg.Server.Addr),
			slog.String("store", cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func openStores(cfg *config.Config, fixtures *config.Fixtures, migrate bool, log *slog.Logger) (*stores, error) {
	if cfg.Database.Driver == "memory" {
		store := memory.New()
		store.Seed(fixtures)
		log.Warn("using in-memory store; data is lost on restart")
		return &stores{
			tx:           store,
			coupons:      store,
			usage:        store,
			items:        store,
			orders:       store,
			reservations: store,
			catalog:      store,
			close:        func() error { return nil },
		}, nil
	}

	conn, err := db.NewPostgresConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if migrate {
		applied, err := db.RunMigrations(context.Background(), conn)
		if err != nil {
			conn.Close()
			return nil, err
		}
		log.Info("migrations applied", slog.Any("files", applied))
	}

	return &stores{
		tx:           db.NewTransactor(conn),
		coupons:      repository.NewCouponRepo(conn),
		usage:        repository.NewUsageRepo(conn),
		items:        repository.NewItemRepo(conn),
		orders:       repository.NewOrderRepo(conn),
		reservations: repository.NewReservationRepo(conn),
		catalog:      repository.NewCatalogRepo(conn),
		close:        conn.Close,
	}, nil
}
