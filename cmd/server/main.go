// Command server runs the forge-site API: reviews, service requests,
// Google sign-in and the internal order dashboard.
//
//	@title						forge-site API
//	@version					1.0
//	@description				Reviews, service requests, sign-in and the internal order dashboard.
//	@BasePath					/
//	@securityDefinitions.apikey	DashboardToken
//	@in							header
//	@name						Authorization
//	@description				Bearer token for the internal dashboard (DASHBOARD_TOKEN).
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/cdforge/forge-site/internal/auth"
	"github.com/cdforge/forge-site/internal/config"
	"github.com/cdforge/forge-site/internal/fsstore"
	httpapi "github.com/cdforge/forge-site/internal/http"
	"github.com/cdforge/forge-site/internal/observability"
	"github.com/cdforge/forge-site/internal/repo"
	"github.com/cdforge/forge-site/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	shutdownTimeout = 15 * time.Second
	sessionPurge    = time.Hour
)

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ver := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, ver)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", cfg.DBPath, err)
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			return fmt.Errorf("gorm tracing: %w", err)
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	stores, closeStores, err := openStores(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeStores()

	am := auth.NewManager(newProvider(cfg), httpapi.NewSessionStore(db), cfg.Auth.SessionTTL, cfg.Auth.SignInTimeout)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, stores, am, cfg)

	go purgeSessions(ctx, db, sessionPurge)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", ver).
			Str("store", cfg.StoreBackend).
			Str("auth", am.Provider().Name()).
			Bool("dashboard", cfg.DashboardToken != "").
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownOTel(sctx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

// openStores picks the review and order backend. The returned close func is
// always safe to call.
func openStores(ctx context.Context, cfg config.Config, db *gorm.DB) (httpapi.Stores, func(), error) {
	if cfg.StoreBackend != config.BackendFirestore {
		return httpapi.SQLiteStores(db), func() {}, nil
	}
	fs, err := fsstore.Open(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
	if err != nil {
		return httpapi.Stores{}, func() {}, err
	}
	return httpapi.FirestoreStores(fs), func() {
		if err := fs.Close(); err != nil {
			log.Warn().Err(err).Msg("firestore close")
		}
	}, nil
}

func newProvider(cfg config.Config) auth.Provider {
	if cfg.Auth.Provider == config.ProviderStatic {
		log.Warn().Msg("AUTH_PROVIDER=static: every sign-in succeeds as the development user")
		return auth.NewStaticProvider("/auth/static/callback")
	}
	return auth.NewGoogleProvider(cfg.Auth.ClientID, cfg.Auth.ClientSecret, cfg.Auth.RedirectURL)
}

// purgeSessions deletes expired sessions every interval until ctx ends.
func purgeSessions(ctx context.Context, db *gorm.DB, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredSessions(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("session purge")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("expired sessions purged")
			}
		}
	}
}
