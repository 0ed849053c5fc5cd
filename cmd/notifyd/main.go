package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/goliatone/go-realtime-notifications/pkg/activity"
	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/broadcaster"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/logging"
	"github.com/goliatone/go-realtime-notifications/pkg/notifier"
	"github.com/goliatone/go-realtime-notifications/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	envPath := flag.String("env", ".env", "path to a dotenv file")
	flag.Parse()

	boot := bootstrapLogger()
	if err := loadEnv(*envPath); err != nil {
		boot.Warn("dotenv load failed", logger.String("path", *envPath), logger.Err(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, *configPath)
	stop()
	if err != nil {
		boot.Error("notifyd exited", logger.Err(err))
		_ = boot.Sync()
		os.Exit(1)
	}
}

// bootstrapLogger logs until the configured logger exists.
func bootstrapLogger() *logging.Zap {
	lgr, err := logging.NewZap(config.Defaults().Logging)
	if err != nil {
		return logging.FromZap(zap.NewExample())
	}
	return lgr
}

// loadEnv reads a dotenv file; a missing file is not an error.
func loadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func run(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	zl, err := logging.NewZap(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	providers, db, err := openStorage(ctx, cfg.Storage, zl)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	module, err := notifier.NewModule(notifier.ModuleOptions{
		Config:  cfg,
		Storage: providers,
		Logger:  zl,
		Broadcaster: broadcaster.NewFanout(broadcaster.Func(func(_ context.Context, evt broadcaster.Event) error {
			zl.Debug("notification event", logger.String("topic", evt.Topic))
			return nil
		})),
		Activity: activity.Hooks{activity.HookFunc(func(_ context.Context, evt activity.Event) {
			zl.Debug("activity",
				logger.String("verb", evt.Verb),
				logger.Int64("user_id", evt.UserID),
				logger.String("object_id", evt.ObjectID),
			)
		})},
	})
	if err != nil {
		return err
	}
	router, err := module.Router()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		zl.Info("notifyd listening", logger.String("addr", cfg.HTTP.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	zl.Info("notifyd shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	// hijacked WebSocket connections are not tracked by http.Server
	if err := module.Shutdown(shutdownCtx); err != nil {
		zl.Warn("websocket shutdown", logger.Err(err))
	}
	return srv.Shutdown(shutdownCtx)
}

func loadConfig(path string) (config.Config, error) {
	input := map[string]any{}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(raw, &input); err != nil {
			return config.Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg, err := config.Load(input)
	if err != nil {
		return config.Config{}, err
	}
	if secret := strings.TrimSpace(os.Getenv("JWT_SECRET")); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if dsn := strings.TrimSpace(os.Getenv("DATABASE_DSN")); dsn != "" {
		cfg.Storage.Driver = config.DriverSQLite
		cfg.Storage.DSN = dsn
	}
	if cfg.Auth.JWTSecret == "" {
		return config.Config{}, errors.New("auth.jwt_secret or JWT_SECRET is required")
	}
	return cfg, cfg.Validate()
}

func openStorage(ctx context.Context, cfg config.StorageConfig, lgr logger.Logger) (storage.Providers, *bun.DB, error) {
	if cfg.Driver == config.DriverMemory {
		lgr.Warn("using in-memory storage; notifications are lost on restart")
		return storage.NewMemoryProviders(nil), nil, nil
	}
	db, err := storage.OpenSQLite(ctx, cfg.DSN)
	if err != nil {
		return storage.Providers{}, nil, err
	}
	if cfg.Migrate {
		if err := storage.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return storage.Providers{}, nil, err
		}
	}
	return storage.NewBunProviders(db), db, nil
}
