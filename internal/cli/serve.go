package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrules/internal/config"
	"github.com/goliatone/go-formrules/internal/httpapi"
	"github.com/goliatone/go-formrules/internal/logging"
	"github.com/goliatone/go-formrules/internal/metrics"
	"github.com/goliatone/go-formrules/internal/store/redisstore"
	"github.com/goliatone/go-formrules/pkg/definition"
	"github.com/goliatone/go-formrules/pkg/submission"
)

const shutdownTimeout = 5 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr, formsDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the formrules HTTP API",
		Long: `Serve exposes form definitions, evaluation and submission over HTTP.
Definitions live in Redis when FORMRULES_REDIS_ADDR is set and in memory
otherwise; --forms-dir seeds the store at startup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("forms-dir") {
				cfg.FormsDir = formsDir
			}

			logger := rootOpts.Logger()
			if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
				level, err := logging.ParseLevel(cfg.LogLevel)
				if err != nil {
					return err
				}
				logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address (overrides FORMRULES_ADDR)")
	cmd.Flags().StringVar(&formsDir, "forms-dir", "", "directory of definitions to load at startup (overrides FORMRULES_FORMS_DIR)")

	return cmd
}

func loadConfig(rootOpts *RootOptions) (*config.Config, error) {
	if rootOpts.EnvFile != "" {
		return config.LoadFile(rootOpts.EnvFile)
	}
	return config.Load()
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.FormsDir != "" {
		catalog, err := definition.LoadFS(os.DirFS(cfg.FormsDir))
		if err != nil {
			return err
		}
		if err := definition.Seed(ctx, store, catalog); err != nil {
			return err
		}
		logger.Info("seeded forms", slog.String("dir", cfg.FormsDir), slog.Int("count", catalog.Len()))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := metrics.New(reg)
	if err != nil {
		return err
	}

	gate := submission.NewGate(
		submission.WithLogger(logger),
		submission.WithObserver(collector),
	)
	api := httpapi.New(store,
		httpapi.WithLogger(logger),
		httpapi.WithGate(gate),
		httpapi.WithMetrics(collector, reg),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("serve: shutdown: %w", err)
		}
		return nil
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (definition.Store, func(), error) {
	var (
		backing definition.Store = definition.NewMemoryStore()
		closer                   = func() {}
	)

	if cfg.Redis.Enabled() {
		var opts []redisstore.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redisstore.WithPrefix(cfg.Redis.Prefix))
		}
		rs := redisstore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, nil, fmt.Errorf("serve: redis %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("using redis store", slog.String("addr", cfg.Redis.Addr), slog.Int("db", cfg.Redis.DB))
		backing = rs
		closer = func() { _ = rs.Close() }
	}

	if cfg.CacheSize <= 0 {
		return backing, closer, nil
	}
	cached, err := definition.NewCachedStore(backing, cfg.CacheSize)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return cached, closer, nil
}
