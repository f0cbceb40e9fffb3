package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/f3rmion/caucus/internal/caucus"
	"github.com/f3rmion/caucus/internal/clipboard"
	"github.com/f3rmion/caucus/internal/config"
	"github.com/f3rmion/caucus/internal/impro"
	"github.com/f3rmion/caucus/internal/sheet"
	"github.com/f3rmion/caucus/internal/storage/sqlite"
)

type generateOptions struct {
	course   string
	students []string
	places   int
	seed     uint64
	format   string
	template string
	copy     bool
}

func (a *app) generateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Draw an impro for a course and print its sheet",
		Long: `Draw an impro for a course and print its sheet.

Every selected student gets a distinct character and a mood. Moods repeat
only when there are more students than moods.

Examples:
  caucus generate --course Monday
  caucus generate --course Monday --student Ana --student Ben --places 2
  caucus generate --course Monday --seed 42 --format markdown --copy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("places") {
				opts.places = a.settings.Impro.DefaultPlaces
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = a.settings.Impro.Seed
			}
			if !cmd.Flags().Changed("format") {
				opts.format = a.settings.Sheet.Format
			}
			if !cmd.Flags().Changed("template") {
				opts.template = a.settings.Sheet.Template
			}
			return a.runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.course, "course", "c", "", "course id or name (required)")
	f.StringArrayVarP(&opts.students, "student", "s", nil, "student id or name, repeatable (default: whole roster)")
	f.IntVarP(&opts.places, "places", "p", impro.DefaultPlacesCount, "number of places")
	f.Uint64Var(&opts.seed, "seed", 0, "seed for a reproducible draw (0 = random)")
	f.StringVarP(&opts.format, "format", "f", sheet.FormatText, "sheet format: text, markdown")
	f.StringVar(&opts.template, "template", "", "custom text/template file for the sheet")
	f.BoolVar(&opts.copy, "copy", false, "also copy the sheet to the clipboard")
	_ = cmd.MarkFlagRequired("course")

	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, opts generateOptions) error {
	ctx := cmd.Context()
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	course, err := store.FindCourse(ctx, opts.course)
	if err != nil {
		return fmt.Errorf("course %q: %w", opts.course, err)
	}

	selected := make(map[string]bool)
	if len(opts.students) == 0 {
		for _, s := range course.Students {
			selected[s.ID] = true
		}
	}
	for _, ref := range opts.students {
		s, err := resolve(course.Students, ref, studentFields)
		if err != nil {
			return fmt.Errorf("student %w", err)
		}
		selected[s.ID] = true
	}
	if msg := impro.ValidateStudentSelection(selected, course); msg != "" {
		return errors.New(msg)
	}

	places, err := store.Places().List(ctx)
	if err != nil {
		return err
	}
	if msg := impro.ValidatePlacesCount(opts.places, len(places)); msg != "" {
		return errors.New(msg)
	}

	renderer, err := newRenderer(config.SheetConfig{Format: opts.format, Template: opts.template})
	if err != nil {
		return err
	}

	gen := impro.NewGenerator(storePools(store), randomSource(opts.seed), a.logger)
	imp, err := gen.Generate(ctx, course.StudentsByID(selected), opts.places)
	if err != nil {
		return err
	}
	a.logger.Info("impro generated",
		zap.String("course", course.ID),
		zap.Int("students", len(imp.Assignments)),
		zap.Int("places", len(imp.Places)))

	out, err := renderer.Render(imp)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	if opts.copy {
		if err := clipboard.System(out); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Sheet copied to clipboard.")
	}
	return nil
}

func storePools(store *sqlite.Store) impro.Pools {
	return impro.Pools{
		Characters: store.Characters(),
		Moods:      store.Moods(),
		Places:     store.Places(),
	}
}

func randomSource(seed uint64) caucus.RandomSource {
	if seed != 0 {
		return caucus.NewSeededSource(seed)
	}
	return caucus.NewCryptoSource()
}

func newRenderer(cfg config.SheetConfig) (*sheet.Renderer, error) {
	r, err := sheet.NewRenderer(cfg.Format)
	if err != nil {
		return nil, err
	}
	if cfg.Template != "" {
		if err := r.LoadTemplate(cfg.Template); err != nil {
			return nil, err
		}
	}
	return r, nil
}
