package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/f3rmion/caucus/internal/caucus"
	"github.com/f3rmion/caucus/internal/config"
	"github.com/f3rmion/caucus/internal/storage/sqlite"
)

// poolDef describes one entity pool for the generic pool commands.
type poolDef[T any] struct {
	kind   caucus.Kind
	pool   func(*sqlite.Store) *sqlite.Pool[T]
	fields func(T) (id, name string)
}

var (
	characterDef = poolDef[caucus.Character]{
		kind:   caucus.KindCharacter,
		pool:   (*sqlite.Store).Characters,
		fields: func(c caucus.Character) (string, string) { return c.ID, c.Name },
	}
	moodDef = poolDef[caucus.Mood]{
		kind:   caucus.KindMood,
		pool:   (*sqlite.Store).Moods,
		fields: func(m caucus.Mood) (string, string) { return m.ID, m.Name },
	}
	placeDef = poolDef[caucus.Place]{
		kind:   caucus.KindPlace,
		pool:   (*sqlite.Store).Places,
		fields: func(p caucus.Place) (string, string) { return p.ID, p.Name },
	}
)

func (a *app) characterCmd() *cobra.Command {
	return newPoolCmd(a, characterDef, []string{"char"})
}

func (a *app) moodCmd() *cobra.Command {
	return newPoolCmd(a, moodDef, []string{"emotion"})
}

func (a *app) placeCmd() *cobra.Command {
	return newPoolCmd(a, placeDef, nil)
}

func newPoolCmd[T any](a *app, def poolDef[T], aliases []string) *cobra.Command {
	kind, plural := string(def.kind), def.kind.Plural()

	cmd := &cobra.Command{
		Use:     kind,
		Aliases: append([]string{plural}, aliases...),
		Short:   fmt.Sprintf("Manage the %s pool", kind),
	}

	withPool := func(ctx context.Context) (*sqlite.Pool[T], error) {
		store, err := a.openStore(ctx)
		if err != nil {
			return nil, err
		}
		return def.pool(store), nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s, newest first", plural),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := withPool(cmd.Context())
			if err != nil {
				return err
			}
			items, err := pool.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s yet. Add some with 'caucus %s add <name>'.\n", plural, kind)
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, it := range items {
				id, name := def.fields(it)
				rows = append(rows, []string{id, name})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "NAME"}, rows)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> [name...]",
		Short: fmt.Sprintf("Add one %s per argument", kind),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := withPool(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range args {
				it, err := pool.Create(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("adding %q: %w", name, err)
				}
				id, name := def.fields(it)
				a.logger.Debug("pool entry created", zap.String("pool", plural), zap.String("id", id))
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q\n", kind, name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   fmt.Sprintf("rename <%s> <new name>", kind),
		Short: fmt.Sprintf("Rename a %s", kind),
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := withPool(cmd.Context())
			if err != nil {
				return err
			}
			items, err := pool.List(cmd.Context())
			if err != nil {
				return err
			}
			it, err := resolve(items, args[0], def.fields)
			if err != nil {
				return fmt.Errorf("%s %w", kind, err)
			}
			id, _ := def.fields(it)
			it, err = pool.Rename(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			_, name := def.fields(it)
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", kind, name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     fmt.Sprintf("rm <%s> [%s...]", kind, kind),
		Aliases: []string{"remove"},
		Short:   fmt.Sprintf("Remove %s by id or name", plural),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := withPool(cmd.Context())
			if err != nil {
				return err
			}
			items, err := pool.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, ref := range args {
				it, err := resolve(items, ref, def.fields)
				if err != nil {
					return fmt.Errorf("%s %w", kind, err)
				}
				id, name := def.fields(it)
				if _, err := pool.Remove(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %q\n", kind, name)
			}
			return nil
		},
	})

	return cmd
}

func (a *app) poolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "Import or export all pools as YAML",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Add or update pool entries from a YAML file",
		Long: `Add or update pool entries from a YAML file.

Entries with an id replace the stored entry with that id. Entries without one
are added. The file uses the same layout as the pools.yaml written by 'caucus init'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pools, err := config.LoadPools(args[0])
			if err != nil {
				return err
			}
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			n, err := importPools(cmd.Context(), store, pools)
			if err != nil {
				return err
			}
			a.logger.Info("pools imported", zap.String("file", args[0]), zap.Int("entries", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries from %s\n", n, args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write every pool to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			pools, err := exportPools(cmd.Context(), store)
			if err != nil {
				return err
			}
			if err := config.SavePools(args[0], pools); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", pools.Len(), args[0])
			return nil
		},
	})

	return cmd
}

// importPools stores every entry of pools. Files list entries newest first,
// like the pools themselves, so they are written oldest first.
func importPools(ctx context.Context, store *sqlite.Store, pools config.Pools) (int, error) {
	n1, err := putAll(ctx, store.Characters(), pools.Characters)
	if err != nil {
		return 0, err
	}
	n2, err := putAll(ctx, store.Moods(), pools.Moods)
	if err != nil {
		return 0, err
	}
	n3, err := putAll(ctx, store.Places(), pools.Places)
	if err != nil {
		return 0, err
	}
	return n1 + n2 + n3, nil
}

func putAll[T any](ctx context.Context, pool *sqlite.Pool[T], items []T) (int, error) {
	for _, it := range slices.Backward(items) {
		if _, err := pool.Put(ctx, it); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}

func exportPools(ctx context.Context, store *sqlite.Store) (config.Pools, error) {
	var pools config.Pools
	var err error
	if pools.Characters, err = store.Characters().List(ctx); err != nil {
		return config.Pools{}, err
	}
	if pools.Moods, err = store.Moods().List(ctx); err != nil {
		return config.Pools{}, err
	}
	if pools.Places, err = store.Places().List(ctx); err != nil {
		return config.Pools{}, err
	}
	return pools, nil
}
