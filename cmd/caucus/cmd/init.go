package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/f3rmion/caucus/internal/config"
)

func (a *app) initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the data directory and seed the pools",
		Long: `Initialize the caucus data directory.

This writes pools.yaml, a starter list of characters, moods and places, and
loads it into every pool of the database that is still empty. Edit the file
and run 'caucus pools import' to load your own lists later.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if err := config.EnsureDataDir(a.settings); err != nil {
				return err
			}

			fmt.Fprintf(out, "Initializing caucus in %s\n\n", a.settings.DataDir)

			path := a.settings.PoolsPath()
			if _, err := os.Stat(path); err == nil && !force {
				fmt.Fprintf(out, "  Kept existing %s (use --force to overwrite)\n", config.PoolsFile)
			} else {
				if err := os.WriteFile(path, []byte(config.DefaultPools), 0644); err != nil {
					return fmt.Errorf("writing %s: %w", config.PoolsFile, err)
				}
				fmt.Fprintf(out, "  Created %s\n", config.PoolsFile)
			}

			pools, err := config.LoadPools(path)
			if err != nil {
				return err
			}
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			// Only seed pools that are still empty so user edits survive.
			current, err := exportPools(ctx, store)
			if err != nil {
				return err
			}
			var seed config.Pools
			if len(current.Characters) == 0 {
				seed.Characters = pools.Characters
			}
			if len(current.Moods) == 0 {
				seed.Moods = pools.Moods
			}
			if len(current.Places) == 0 {
				seed.Places = pools.Places
			}
			n, err := importPools(ctx, store, seed)
			if err != nil {
				return err
			}
			a.logger.Info("pools seeded", zap.Int("entries", n))
			fmt.Fprintf(out, "  Seeded %d pool entries into %s\n", n, a.settings.DatabasePath())

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  1. caucus course add <name>")
			fmt.Fprintln(out, "  2. caucus student add <course> <name> [name...]")
			fmt.Fprintln(out, "  3. caucus            (interactive) or caucus generate --course <name>")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing pools.yaml")
	return cmd
}
