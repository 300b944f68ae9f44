package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/ledger-engine/internal/adapter/grpc"
	"github.com/simaogato/ledger-engine/internal/adapter/repository/memory"
	"github.com/simaogato/ledger-engine/internal/adapter/rest"
	"github.com/simaogato/ledger-engine/internal/config"
	"github.com/simaogato/ledger-engine/internal/domain"
	"github.com/simaogato/ledger-engine/internal/logger"
	"github.com/simaogato/ledger-engine/internal/usecase/account"
	"github.com/simaogato/ledger-engine/internal/usecase/seeder"
	"github.com/simaogato/ledger-engine/internal/usecase/transfer"
)

func main() {
	// 1. Load configuration; a missing .env file is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger := logger.New(cfg.LogLevel)
	defer zapLogger.Sync() //nolint:errcheck
	gin.SetMode(cfg.GinMode)

	// 2. Initialize in-memory stores
	clock := domain.SystemClock{}
	accounts := memory.NewAccountStore()
	ledger := memory.NewLedger()
	idempotency := memory.NewIdempotencyCache(cfg.Limits.IdempotencyTTL, clock)
	rateLimiter := memory.NewRateLimiter(cfg.Limits.RatePerWindow, cfg.Limits.RateWindow, clock)

	// 3. Initialize Services (Use Cases)
	transferService := transfer.NewTransferService(accounts, ledger, idempotency, rateLimiter, clock, cfg.Limits, zapLogger)
	accountService := account.NewAccountService(accounts, ledger, rateLimiter, clock, cfg.Limits)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := seeder.NewBalanceSeeder(transferService, zapLogger).Seed(ctx, cfg.SeedBalances); err != nil {
		zapLogger.Fatal("Failed to seed opening balances", zap.Error(err))
	}

	// 4. Build both transports
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: rest.NewServer(transferService, accountService, rest.Options{AllowOrigins: cfg.CORSAllowOrigins}, zapLogger).Handler(),
	}

	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.RecoveryInterceptor(zapLogger),
			grpcadapter.LoggingInterceptor(zapLogger),
		),
	)
	grpcadapter.RegisterLedgerServiceServer(grpcServer, grpcadapter.NewServer(transferService, accountService))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		zapLogger.Fatal("Failed to listen", zap.String("addr", cfg.GRPCAddr), zap.Error(err))
	}

	// 5. Serve until a signal arrives or a server fails
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLogger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		zapLogger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(httpServer, grpcServer, cfg, zapLogger)
	})

	if err := g.Wait(); err != nil {
		zapLogger.Fatal("Server exited with error", zap.Error(err))
	}
	zapLogger.Info("Servers stopped")
}

// shutdown drains both servers, giving up after the configured timeout
func shutdown(httpServer *http.Server, grpcServer *grpclib.Server, cfg *config.Config, zapLogger *zap.Logger) error {
	zapLogger.Info("Shutting down gracefully...", zap.Duration("timeout", cfg.ShutdownTimeout))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	err := httpServer.Shutdown(ctx)

	select {
	case <-stopped:
	case <-ctx.Done():
		grpcServer.Stop()
	}
	return err
}
