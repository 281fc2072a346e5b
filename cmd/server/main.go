package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/simaogato/wealthflow-payoff/internal/adapter/amqp"
	"github.com/simaogato/wealthflow-payoff/internal/adapter/cache"
	grpcadapter "github.com/simaogato/wealthflow-payoff/internal/adapter/grpc"
	"github.com/simaogato/wealthflow-payoff/internal/adapter/repository/sqlstore"
	"github.com/simaogato/wealthflow-payoff/internal/config"
	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/log"
	"github.com/simaogato/wealthflow-payoff/internal/usecase/payoff"
	"github.com/simaogato/wealthflow-payoff/internal/usecase/planner"
	"github.com/simaogato/wealthflow-payoff/internal/usecase/seeder"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Output:    os.Stdout,
	})
	log.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", log.FieldError, err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx := context.Background()

	// 1. Setup Database
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected", log.FieldBackend, cfg.DataBackend)

	if cfg.RunMigrations {
		if err := sqlstore.RunMigrations(db); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("migrations applied", log.FieldOperation, log.OpMigrate)
	}

	// 2. Initialize Repositories
	households := sqlstore.NewHouseholdRepository(db)
	accounts := sqlstore.NewAccountRepository(db)
	bills := sqlstore.NewBillRepository(db)
	debts := sqlstore.NewDebtRecordRepository(db)
	payments := sqlstore.NewPaymentRepository(db)
	settings := sqlstore.NewSettingsRepository(db)

	if cfg.SeedDemo {
		demo := seeder.NewDemoSeeder(seeder.Writers{
			Households: households,
			Accounts:   accounts,
			Bills:      bills,
			Debts:      debts,
			Payments:   payments,
			Settings:   settings,
		})
		seeded, err := demo.Seed(ctx)
		if err != nil {
			return fmt.Errorf("seed demo household: %w", err)
		}
		logger.Info("demo household ready", log.FieldHousehold, seeder.DEMO_HOUSEHOLD.String(), "created", seeded)
	}

	// 3. Cache and event publisher
	planCache, closeCache, err := openCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	publisher, closePublisher, err := openPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	// 4. Initialize Services (Use Cases)
	payoffService := payoff.NewPayoffService(payoff.Repositories{
		Households: households,
		Accounts:   accounts,
		Bills:      bills,
		Debts:      debts,
		Payments:   payments,
		Settings:   settings,
	}, planCache, publisher, logger, payoff.Options{
		Planner: planner.Options{
			HorizonMonths:  cfg.ProjectionHorizonMonths,
			HistoryPeriods: cfg.HistoryPeriods,
		},
		CacheTTL: cfg.PlanCacheTTL,
	})

	// 5. Start gRPC Server
	grpcServer, healthSrv := grpcadapter.NewGRPCServer(payoffService, cfg.APIToken, logger)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.GRPCAddr, err)
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("gRPC server listening", log.FieldAddr, cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpclib.ErrServerStopped) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown
	return waitForShutdown(grpcServer, healthSrv, serveErr, logger)
}

func openDatabase(cfg *config.Config) (*sqlstore.DB, error) {
	switch cfg.DataBackend {
	case config.BackendSQLite:
		return sqlstore.NewSQLiteDB(cfg.SQLiteDBPath)
	default:
		return connectPostgres(cfg.DBConnStr)
	}
}

// connectPostgres retries while the database container is still starting
func connectPostgres(connStr string) (*sqlstore.DB, error) {
	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		db, err := sqlstore.NewPostgresDB(connStr)
		if err == nil {
			return db, nil
		}
		lastErr = err
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connect to database: %w", lastErr)
}

func openCache(ctx context.Context, cfg *config.Config, logger *log.Logger) (domain.PlanCache, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("using in-memory plan cache")
		return cache.NewMemoryCache(), func() {}, nil
	}
	redisCache, err := cache.NewRedisCache(ctx, cfg.RedisAddr, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using redis plan cache", log.FieldAddr, cfg.RedisAddr)
	return redisCache, func() { redisCache.Close() }, nil
}

func openPublisher(cfg *config.Config, logger *log.Logger) (domain.PlanPublisher, func(), error) {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP not configured, plan events are not published")
		return amqp.NopPublisher{}, func() {}, nil
	}
	publisher, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("publishing plan events", "exchange", cfg.AMQPExchange, "routing_key", cfg.AMQPRoutingKey)
	return publisher, func() { publisher.Close() }, nil
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(grpcServer *grpclib.Server, healthSrv *health.Server, serveErr <-chan error, logger *log.Logger) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err, ok := <-serveErr:
		if ok && err != nil {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	case sig := <-sigChan:
		logger.Info("shutting down gracefully", log.FieldOperation, log.OpShutdown, "signal", sig.String())
	}

	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthSrv.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")
	return nil
}
