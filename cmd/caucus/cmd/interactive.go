package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/f3rmion/caucus/internal/clipboard"
	"github.com/f3rmion/caucus/internal/config"
	"github.com/f3rmion/caucus/internal/logging"
	"github.com/f3rmion/caucus/internal/tui"
	"github.com/f3rmion/caucus/internal/tui/banner"
)

func (a *app) interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i", "ui"},
		Short:   "Launch the interactive TUI",
		Long: `Launch the interactive terminal UI.

Views:
  1 Setup   pick a course, the students and the number of places, then generate
  2 Impro   reroll places, characters and moods, remove entries, copy the sheet
  3 Pools   add, rename and remove characters, moods and places

Press ? inside the UI for every key binding.`,
		Args: cobra.NoArgs,
		RunE: a.runInteractive,
	}
}

func (a *app) runInteractive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Log lines would draw over the UI, so they go to a file.
	logCfg := a.settings.Logging
	if logCfg.File == "" {
		logCfg.File = filepath.Join(a.settings.DataDir, "caucus.log")
		if err := config.EnsureDataDir(a.settings); err != nil {
			return err
		}
		logger, err := logging.New(logCfg)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		a.logger = logger
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	renderer, err := newRenderer(a.settings.Sheet)
	if err != nil {
		return err
	}
	bnr, err := banner.New("")
	if err != nil {
		a.logger.Warn("banner disabled", zap.Error(err))
		bnr = nil
	}

	a.logger.Info("starting TUI", zap.String("database", a.settings.DatabasePath()))
	return tui.Run(ctx, tui.Deps{
		Courses:       store,
		Characters:    store.Characters(),
		Moods:         store.Moods(),
		Places:        store.Places(),
		Random:        randomSource(a.settings.Impro.Seed),
		Renderer:      renderer,
		Banner:        bnr,
		Clipboard:     clipboard.System,
		DefaultPlaces: a.settings.Impro.DefaultPlaces,
		Logger:        a.logger,
	})
}
