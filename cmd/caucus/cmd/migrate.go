package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/f3rmion/caucus/internal/legacy"
)

func (a *app) migrateCmd() *cobra.Command {
	var (
		dryRun bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "migrate-legacy <dump.json>",
		Short: "Import data exported from the browser version",
		Long: `Import courses and pools exported from the browser version of the app.

The dump is a JSON object of localStorage keys, for example produced in the
browser console with:

  copy(JSON.stringify(Object.fromEntries(Object.entries(localStorage))))

Keys from old releases ("cre-impro~...") are renamed to "caucus~..." first.
When both exist the newer key wins. Ids are kept, so running the import twice
updates entries instead of duplicating them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening dump: %w", err)
			}
			defer f.Close()

			dump, err := legacy.ReadDump(f)
			if err != nil {
				return err
			}

			var res legacy.Result
			if dryRun {
				res = legacy.MigrateKeys(dump, a.logger)
			} else {
				store, err := a.openStore(cmd.Context())
				if err != nil {
					return err
				}
				res, err = legacy.Import(cmd.Context(), dump, legacy.Target{
					Courses:    store,
					Characters: store.Characters(),
					Moods:      store.Moods(),
					Places:     store.Places(),
				}, a.logger)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			for _, k := range res.MigratedKeys {
				fmt.Fprintf(out, "  %s\n", k)
			}
			for _, e := range res.Errors {
				fmt.Fprintf(out, "  error: %s\n", e)
			}
			verb := "Imported"
			if dryRun {
				verb = "Found"
			}
			fmt.Fprintf(out, "%s %d items\n", verb, res.TotalItems)
			if !res.Success {
				return fmt.Errorf("migration finished with %d errors", len(res.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only report what would be imported")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
