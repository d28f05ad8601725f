package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/fjala/internal/config"
	"github.com/abhisek/fjala/internal/llm"
	"github.com/abhisek/fjala/internal/logging"
	"github.com/abhisek/fjala/internal/progress"
	"github.com/abhisek/fjala/internal/store"
	"github.com/abhisek/fjala/internal/tips"
)

var rootCmd = &cobra.Command{
	Use:   "fjala",
	Short: "Albanian vocabulary practice in the terminal",
	Long:  "Fjala: practice Albanian words and phrases in Gheg or Tosk with spaced repetition, XP and streaks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd, "")
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a fjala.yaml config file")
	rootCmd.PersistentFlags().String("db", "", "Database DSN or SQLite path (overrides db.dsn and FJALA_DB)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides log.level)")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tipsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// env bundles what most commands need: configuration, a logger and an
// open store.
type env struct {
	cfg   *config.Config
	log   *logrus.Logger
	store *store.Store
	dsn   string
}

// openEnv loads configuration, applies flag overrides, builds the logger
// and opens the store.
func openEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dsn, _ := cmd.Flags().GetString("db"); dsn != "" {
		cfg.DB.DSN = dsn
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	sc, err := cfg.StoreConfig()
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	sc.Logger = log
	st, err := store.Open(cmd.Context(), sc)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.WithField("driver", sc.Driver).Debug("store opened")
	return &env{cfg: cfg, log: log, store: st, dsn: sc.DSN}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.WithError(err).Warn("close store")
	}
}

func (e *env) progress() progress.Store {
	return progress.NewKVStore(e.store.KVRepo())
}

// dataDir is where the log file of a terminal session goes: next to the
// SQLite file, or the default data directory for other drivers.
func (e *env) dataDir() string {
	if e.cfg.DB.Driver == store.DriverSQLite && e.dsn != "" {
		return filepath.Dir(e.dsn)
	}
	if p, err := store.DefaultDBPath(); err == nil {
		return filepath.Dir(p)
	}
	return "."
}

// provider builds the configured LLM provider, discovering one from the
// standard API key variables when none is set.
func (e *env) provider(ctx context.Context) (llm.Provider, error) {
	cfg, ok := llm.DiscoverConfig(e.cfg.LLM)
	if !ok {
		return nil, llm.ErrNotConfigured
	}
	return llm.NewProvider(ctx, cfg, e.store.EventRepo(), e.log)
}

// tipSource returns the builtin catalog, or a generated source backed by
// it when useLLM is set and a provider is available.
func (e *env) tipSource(ctx context.Context, useLLM bool) tips.Source {
	catalog := tips.NewCatalog(newRand())
	if !useLLM {
		return catalog
	}
	p, err := e.provider(ctx)
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			e.log.WithError(err).Warn("LLM tips unavailable, using builtin tips")
		}
		return catalog
	}
	src := tips.NewLLMSource(p, catalog, tips.DefaultConfig(), e.log)
	src.Prefetch(ctx)
	return src
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
}
