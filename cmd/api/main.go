package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/eventmate/eventmate-go/internal/config"
	"github.com/eventmate/eventmate-go/internal/logger"
	"github.com/eventmate/eventmate-go/internal/repository"
	"github.com/eventmate/eventmate-go/internal/server"
	"github.com/eventmate/eventmate-go/internal/service"
	"github.com/eventmate/eventmate-go/internal/validate"
)

func main() {
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	lg := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	if envErr != nil {
		lg.Warn().Msg("no .env file found, using environment variables")
	}
	if cfg.AdminCode == "" {
		lg.Warn().Msg("ADMIN_SECRET not set, admin registration disabled")
	}

	if err := run(ctx, cfg, lg); err != nil {
		lg.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, lg zerolog.Logger) error {
	db, err := repository.NewDB(ctx, cfg.DB.DSN(), repository.PoolConfig{MaxOpenConns: cfg.DB.MaxOpenConns})
	if err != nil {
		return err
	}
	defer db.Close()
	lg.Info().Str("host", cfg.DB.Host).Str("database", cfg.DB.Name).Msg("database connected")

	if cfg.DB.Migrate {
		if err := repository.Migrate(db); err != nil {
			return err
		}
		lg.Info().Msg("migrations applied")
	}

	users := repository.NewUserRepository(db)
	events := repository.NewEventRepository(db)
	regs := repository.NewRegistrationRepository(db)
	v := validate.New()

	router := server.NewRouter(ctx, server.Deps{
		Config: cfg,
		Logger: lg,
		Auth: service.NewAuthService(users, v, service.AuthConfig{
			JWTSecret: cfg.JWTSecret,
			JWTExpiry: cfg.JWTExpiry,
			AdminCode: cfg.AdminCode,
		}),
		Events:        service.NewEventService(events, v),
		Registrations: service.NewRegistrationService(events, regs),
		DB:            db,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		lg.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	lg.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	lg.Info().Msg("server stopped")
	return nil
}
