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

	"blogweb/internal/auth"
	"blogweb/internal/config"
	"blogweb/internal/db"
	"blogweb/internal/dbinit"
	apphttp "blogweb/internal/http"
	"blogweb/internal/logging"
	"blogweb/internal/telegram"
	"blogweb/internal/theme"
	"blogweb/internal/users"
)

func main() {
	cfgPath := config.Path()
	cfg, err := config.Load(cfgPath)
	if err != nil && cfg == nil {
		panic(err)
	}

	l := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	slog.SetDefault(l)

	if err != nil {
		slog.Warn("config.missing", "path", cfgPath, "err", err)
		slog.Warn("The JWT secret will be defined to a default value. This is a security risk in production.")
	}

	adminURL, err := cfg.Database.AdminURL()
	if err != nil {
		slog.Error("db.url", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	applied, err := dbinit.EnsureDatabaseAndMigrate(ctx, adminURL, cfg.Database.Name, cfg.Database.User)
	if err != nil {
		slog.Error("db.init", "err", err)
		os.Exit(1)
	}
	slog.Info("db.migrated", "applied", applied)

	auth.SetSecret(cfg.Security.JWTSecret)

	appURL, err := cfg.Database.AppURL()
	if err != nil {
		slog.Error("db.url", "err", err)
		os.Exit(1)
	}
	ctxpool, cancelpool := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancelpool()
	pool, err := db.NewPool(ctxpool, appURL)
	if err != nil {
		slog.Error("db.pool", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := users.NewPGStore(pool)
	app, err := apphttp.New(apphttp.Deps{
		Config:   cfg,
		Data:     store,
		Notifier: telegram.New(cfg.Telegram.BotToken, cfg.Telegram.AdminChatIDs, store.AdminChatIDs),
		Logger:   l,
		Theme:    theme.Default(),
		Ready:    pool.Ping,
	})
	if err != nil {
		slog.Error("http.init", "err", err)
		os.Exit(1)
	}
	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      app.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("http.starting", "addr", cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http.listen", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http.shutting_down")
	_ = srv.Shutdown(ctx)
	slog.Info("http.stopped")
}
