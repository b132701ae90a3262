package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartapi/internal/app"
	"github.com/nikolayk812/cartapi/internal/handler"
	"github.com/nikolayk812/cartapi/internal/port"
	"github.com/nikolayk812/cartapi/internal/repository"
	"github.com/spf13/viper"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var configPath string
	flag.StringVar(&configPath, "config", "configs/config.toml", "path to config file")
	flag.Parse()

	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("store.driver", "memory")
	if err := viper.ReadInConfig(); err != nil {
		slog.Warn("config file not read, using defaults and environment",
			"path", configPath, "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var repo port.CartRepository
	switch driver := viper.GetString("store.driver"); driver {
	case "postgres":
		pool, err := pgxpool.New(ctx, viper.GetString("store.dsn"))
		if err != nil {
			slog.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		repo = repository.NewPostgres(pool)
	case "memory":
		repo = repository.NewMemory()
	default:
		slog.Error("unknown store driver", "driver", driver)
		os.Exit(1)
	}

	service := app.NewCartService(repo)
	router := handler.NewRouter(service)

	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", srv.Addr,
			"store", viper.GetString("store.driver"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}
