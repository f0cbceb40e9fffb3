// Package cmd contains all CLI commands for caucus.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/f3rmion/caucus/internal/config"
	"github.com/f3rmion/caucus/internal/logging"
	"github.com/f3rmion/caucus/internal/storage/sqlite"
)

// app carries the state shared by every command of one invocation.
type app struct {
	v        *viper.Viper
	cfgFile  string
	settings config.Settings
	logger   *zap.Logger
	store    *sqlite.Store
}

func newApp() *app {
	return &app{v: viper.New(), logger: zap.NewNop()}
}

// Execute runs the root command and releases resources afterwards.
func Execute(ctx context.Context) error {
	a := newApp()
	defer a.close()
	return a.rootCmd().ExecuteContext(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "caucus",
		Short: "Improv role assignment for drama classes",
		Long: `caucus draws improv exercises for a drama class.

For each selected student it picks a character nobody else plays and an
emotion to play it with, then picks the places where the scene happens.
Any place, character or emotion can be rerolled afterwards.

Pools of characters, moods and places, and the course rosters, live in a
SQLite database in the data directory.

Running 'caucus' without arguments launches the interactive TUI.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
		RunE:              a.runInteractive,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is <data dir>/config.yaml)")
	flags.String("data-dir", "", "data directory (default is $XDG_CONFIG_HOME/caucus or ~/.config/caucus)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	_ = a.v.BindPFlag("data_dir", flags.Lookup("data-dir"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))

	root.AddCommand(
		a.initCmd(),
		a.interactiveCmd(),
		a.generateCmd(),
		a.courseCmd(),
		a.studentCmd(),
		a.characterCmd(),
		a.moodCmd(),
		a.placeCmd(),
		a.poolsCmd(),
		a.migrateCmd(),
	)
	return root
}

// load reads settings and builds the logger before any command runs.
func (a *app) load(cmd *cobra.Command, args []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else if path, ok := defaultConfigFile(a.v); ok {
		a.v.SetConfigFile(path)
	}

	settings, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.settings = settings

	logger, err := logging.New(settings.Logging)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	a.logger = logger
	return nil
}

// defaultConfigFile looks for config.yaml in the data directory.
func defaultConfigFile(v *viper.Viper) (string, bool) {
	dir := v.GetString("data_dir")
	if dir == "" {
		d, err := config.DefaultDataDir()
		if err != nil {
			return "", false
		}
		dir = d
	}
	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// openStore opens the database once per invocation.
func (a *app) openStore(ctx context.Context) (*sqlite.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	if err := config.EnsureDataDir(a.settings); err != nil {
		return nil, err
	}
	store, err := sqlite.Open(ctx, a.settings.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.logger.Debug("database opened", zap.String("path", a.settings.DatabasePath()))
	a.store = store
	return store, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("closing database", zap.Error(err))
		}
		a.store = nil
	}
	// Sync fails on terminals; nothing useful can be done about it.
	_ = a.logger.Sync()
}
