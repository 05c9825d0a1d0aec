package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/logship/internal/core/config"
	"github.com/vietddude/logship/internal/health"
	"github.com/vietddude/logship/internal/infra/postgres"
	"github.com/vietddude/logship/internal/offset"
	"github.com/vietddude/logship/internal/ship"
	"github.com/vietddude/logship/internal/supervise"
)

var (
	cfgPath       string
	isDebug       bool
	watchPaths    []string
	watchGlobs    []string
	transportFlag string
	modeFlag      string
	hostnameFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "logship",
	Short: "Logship file shipping agent",
	Long:  `Logship tails local files and ships their lines as structured events to redis, a tcp socket or stdout.`,
	Run:   runShip,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (optional)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringArrayVar(&watchPaths, "path", nil, "file to tail (repeatable)")
	rootCmd.PersistentFlags().StringArrayVar(&watchGlobs, "glob", nil, "glob of files to tail (repeatable)")
	rootCmd.PersistentFlags().StringVar(&transportFlag, "transport", "", "transport: redis, tcp or stdout")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "socket mode: bind or connect")
	rootCmd.PersistentFlags().StringVar(&hostnameFlag, "hostname", "", "hostname stamped on shipped events")
}

func resolvedFlags() config.Flags {
	return config.Flags{
		Paths:     watchPaths,
		Globs:     watchGlobs,
		Transport: transportFlag,
		Mode:      modeFlag,
		Hostname:  hostnameFlag,
		Debug:     isDebug,
	}
}

func runShip(cmd *cobra.Command, args []string) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}
	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})

	runCfg, err := config.Resolve(cfg, resolvedFlags())
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Offset store: postgres when a database is configured, memory
	// otherwise (offsets then reset on process restart).
	var store offset.Store
	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			slog.Error("Failed to init database", "error", err)
			os.Exit(1)
		}
		store = postgres.NewOffsetRepo(db)
		slog.Info("Using PostgreSQL offset store")
	} else {
		store = offset.NewMemoryStore()
		slog.Info("Using in-memory offset store")
	}
	defer func() {
		_ = store.Close()
	}()

	pruner := offset.NewPruner(store, time.Hour)
	go pruner.Start(ctx)

	if cfg.Server.Port > 0 {
		srv := health.NewServer(cfg.Server.Port, string(runCfg.Transport))
		go func() {
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				slog.Error("Health server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(shutdownCtx)
		}()
		slog.Info("Health server started", "port", cfg.Server.Port)
	}

	slog.Info("Logship started",
		"transport", runCfg.Transport, "mode", runCfg.Mode, "files", len(runCfg.Files))

	sup := supervise.New(runCfg, func(c *config.RunConfig) (supervise.Worker, error) {
		return ship.New(c, store)
	})
	if err := sup.Run(ctx); err != nil {
		slog.Error("Worker failed", "error", err)
		os.Exit(1)
	}
}
