package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"propledger/internal/api"
	"propledger/internal/events"
	"propledger/internal/infra/logging"
	"propledger/internal/infra/pgutils"
	"propledger/internal/metrics"
	pggames "propledger/internal/repos/games/postgres"
	"propledger/internal/repos/props"
	pgprops "propledger/internal/repos/props/postgres"
	"propledger/internal/repos/props/rediscache"
	pgsnapshots "propledger/internal/repos/snapshots/postgres"
	pgusers "propledger/internal/repos/users/postgres"
	pgwagers "propledger/internal/repos/wagers/postgres"
	"propledger/internal/services/ledger"
	"propledger/internal/services/performance"
	"propledger/internal/services/settlement"
	"propledger/pkg/envconf"
	"propledger/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	dbConns, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		return dbConns.Close()
	})

	var propStore props.Props = pgprops.New(dbConns)

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})

		shutdownqueue.Add(func(context.Context) error {
			return redisClient.Close()
		})

		propStore = rediscache.New(propStore, redisClient, cfg.Redis.PropsTTL)
		slog.Info("prop cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.PropsTTL.String())
	}

	var publisher *events.KafkaPublisher

	if cfg.Kafka.Brokers != "" {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers)

		shutdownqueue.Add(func(context.Context) error {
			return publisher.Close()
		})

		slog.Info("event publishing enabled", "brokers", cfg.Kafka.Brokers)
	}

	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)

	metricsSrv := metrics.StartServer(cfg.MetricsPort, func(c context.Context) error {
		return dbConns.PingContext(c)
	})

	shutdownqueue.Add(func(c context.Context) error {
		return metricsSrv.Shutdown(c)
	})

	// --- Services ---
	usersRepo := pgusers.New(dbConns)
	wagersRepo := pgwagers.New(dbConns)
	gamesRepo := pggames.New(dbConns)
	snapshotsRepo := pgsnapshots.New(dbConns)

	ledgerSrv := ledger.NewPostgres(dbConns)

	scanner := settlement.NewScanner(
		gamesRepo,
		propStore,
		wagersRepo,
		ledgerSrv,
		scannerPublisher(publisher),
		recorder,
		slog.Default(),
		cfg.Settlement.FinalAfter,
	)

	worker := settlement.NewWorker(scanner, cfg.Settlement.Interval, slog.Default())
	worker.Start(ctx)

	shutdownqueue.Add(func(context.Context) error {
		worker.Stop()
		return nil
	})

	perfSrv := performance.New(wagersRepo, usersRepo, snapshotsRepo)

	// --- HTTP server ---
	handler := api.NewHandler(api.Deps{
		Ledger:      ledgerSrv,
		Wagers:      wagersRepo,
		Props:       propStore,
		Settlements: scanner,
		Performance: perfSrv,
		Publisher:   apiPublisher(publisher),
		Metrics:     recorder,
	})

	srv := api.NewServer(cfg.Port, handler)

	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port, "metrics_port", cfg.MetricsPort)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}

// A nil *KafkaPublisher stored in a non-nil interface would dodge the
// publisher == nil checks downstream, so convert explicitly.
func scannerPublisher(p *events.KafkaPublisher) settlement.Publisher {
	if p == nil {
		return nil
	}

	return p
}

func apiPublisher(p *events.KafkaPublisher) api.PlacedPublisher {
	if p == nil {
		return nil
	}

	return p
}
