// Package main is the entry point for the Commt commitments API server.
// It wires together the repositories, services and HTTP router and starts
// the server alongside the WebSocket hub and the wizard session janitor.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/commt/commitments/internal/api"
	"github.com/commt/commitments/internal/cache/redis"
	"github.com/commt/commitments/internal/config"
	"github.com/commt/commitments/internal/metrics"
	"github.com/commt/commitments/internal/repository"
	"github.com/commt/commitments/internal/repository/memory"
	"github.com/commt/commitments/internal/service"
	"github.com/commt/commitments/internal/ws"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/shopspring/decimal"
)

// stores groups the read and write sides selected by STORE_DRIVER.
type stores struct {
	commitments service.CommitmentReader
	listings    service.ListingReader
	balances    service.BalanceProvider
	submitter   service.Submitter
	close       func()
}

func main() {
	// ── 1. Logger ─────────────────────────────────────────────────────────────
	cfg := config.MustLoad()

	var logHandler slog.Handler
	if cfg.IsProd() {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	logger.Info("starting commt commitments server",
		"env", cfg.Server.Env, "port", cfg.Server.Port, "store", cfg.Store.Driver)

	// ── 2. Root context + signal handling ─────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 3. Storage ────────────────────────────────────────────────────────────
	st, err := openStores(cfg, logger)
	if err != nil {
		logger.Error("storage setup failed", "err", err)
		os.Exit(1)
	}
	defer st.close()

	// ── 4. Commitment cache (optional) ────────────────────────────────────────
	commitments := st.commitments
	if cfg.Redis.Addr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		rc, err := redis.New(pingCtx, redis.ClientConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, serving commitments uncached", "err", err)
		} else {
			defer rc.Close()
			commitments = redis.NewCommitmentCache(rc, st.commitments, cfg.Redis.TTL, logger)
			logger.Info("commitment cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
		}
	}

	// ── 5. Metrics ────────────────────────────────────────────────────────────
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(logger)
	}

	// ── 6. Services + WebSocket Hub ───────────────────────────────────────────
	authSvc := service.NewAuthService(cfg)
	hub := ws.NewHub(authSvc, cfg.Server.AllowedOrigins)

	commitmentSvc := service.NewCommitmentService(commitments, cfg, collector)
	marketplaceSvc := service.NewMarketplaceService(st.listings, collector)
	wizardSvc := service.NewWizardService(st.balances, st.submitter, hub, cfg, collector)

	go hub.Run()
	logger.Info("websocket hub started")

	go wizardSvc.Run(ctx)
	logger.Info("wizard session janitor started", "ttl", cfg.Wizard.SessionTTL)

	// ── 7. HTTP Router ────────────────────────────────────────────────────────
	router := api.SetupRouter(api.RouterDeps{
		AuthSvc:        authSvc,
		CommitmentSvc:  commitmentSvc,
		MarketplaceSvc: marketplaceSvc,
		WizardSvc:      wizardSvc,
		Balances:       st.balances,
		Hub:            hub,
		Metrics:        collector,
		Cfg:            cfg,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// ── 8. Start server ───────────────────────────────────────────────────────
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
			stop() // trigger graceful shutdown
		}
	}()

	// ── 9. Graceful shutdown ──────────────────────────────────────────────────
	<-ctx.Done()
	logger.Info("shutdown signal received, draining connections…")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "err", err)
	}
	hub.Stop()
	logger.Info("server stopped cleanly")
}

// openStores builds the repositories for the configured driver.
func openStores(cfg *config.Config, logger *slog.Logger) (*stores, error) {
	if !cfg.UsesPostgres() {
		logger.Info("using in-memory store with seeded fixtures")
		return &stores{
			commitments: memory.NewCommitmentRepository(memory.SeedCommitments()...),
			listings:    memory.NewListingRepository(memory.SeedListings()...),
			balances:    memory.StaticBalance{Balance: decimal.NewFromFloat(cfg.Wizard.AvailableBalance)},
			submitter:   memory.NewDraftRepository(),
			close:       func() {},
		}, nil
	}

	db, err := sqlx.Connect("postgres", cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}
	logger.Info("database connected")

	if err = runMigrations(db, cfg.DB.MigrationsDir); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("migrations applied")

	var balances service.BalanceProvider = memory.StaticBalance{
		Balance: decimal.NewFromFloat(cfg.Wizard.AvailableBalance),
	}
	if cfg.Wizard.BalanceSource == "wallet" {
		balances = repository.NewWalletRepository(db)
	}

	return &stores{
		commitments: repository.NewCommitmentRepository(db),
		listings:    repository.NewListingRepository(db),
		balances:    balances,
		submitter:   repository.NewDraftRepository(db),
		close:       func() { db.Close() },
	}, nil
}

// runMigrations reads all *.sql files from dir, sorted by name, and executes
// them sequentially.  Idempotent: SQL files should use IF NOT EXISTS / ON CONFLICT.
func runMigrations(db *sqlx.DB, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("runMigrations: read dir %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("runMigrations: read %q: %w", f, err)
		}
		if _, err = db.Exec(string(data)); err != nil {
			return fmt.Errorf("runMigrations: exec %q: %w", f, err)
		}
		slog.Info("migration applied", "file", filepath.Base(f))
	}
	return nil
}
