package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) courseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "course",
		Aliases: []string{"courses"},
		Short:   "Manage courses",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List courses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			courses, err := store.ListCourses(cmd.Context())
			if err != nil {
				return err
			}
			if len(courses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No courses yet. Add one with 'caucus course add <name>'.")
				return nil
			}
			rows := make([][]string, 0, len(courses))
			for _, c := range courses {
				rows = append(rows, []string{c.ID, strconv.Itoa(len(c.Students)), c.Name})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "STUDENTS", "NAME"}, rows)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a course",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			c, err := store.CreateCourse(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			a.logger.Info("course created", zap.String("id", c.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "Created course %q (%s)\n", c.Name, c.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <course> <new name>",
		Short: "Rename a course",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			c, err := store.FindCourse(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("course %q: %w", args[0], err)
			}
			c, err = store.RenameCourse(cmd.Context(), c.ID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed course to %q\n", c.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <course>",
		Aliases: []string{"remove"},
		Short:   "Delete a course and its roster",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			c, err := store.FindCourse(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("course %q: %w", args[0], err)
			}
			if _, err := store.RemoveCourse(cmd.Context(), c.ID); err != nil {
				return err
			}
			a.logger.Info("course removed", zap.String("id", c.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "Removed course %q\n", c.Name)
			return nil
		},
	})

	return cmd
}

func (a *app) studentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "student",
		Aliases: []string{"students"},
		Short:   "Manage the roster of a course",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <course>",
		Short: "List the students of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			c, err := store.FindCourse(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("course %q: %w", args[0], err)
			}
			if len(c.Students) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No students in %q yet.\n", c.Name)
				return nil
			}
			rows := make([][]string, 0, len(c.Students))
			for _, s := range c.Students {
				rows = append(rows, []string{s.ID, s.Name})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "NAME"}, rows)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <course> <name> [name...]",
		Short: "Add one student per name argument",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			c, err := store.FindCourse(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("course %q: %w", args[0], err)
			}
			for _, name := range args[1:] {
				s, err := store.AddStudent(cmd.Context(), c.ID, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %q\n", s.Name, c.Name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <course> <student> <new name>",
		Short: "Rename a student",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			c, err := store.FindCourse(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("course %q: %w", args[0], err)
			}
			s, err := resolve(c.Students, args[1], studentFields)
			if err != nil {
				return fmt.Errorf("student %w", err)
			}
			s, err = store.RenameStudent(cmd.Context(), c.ID, s.ID, strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed student to %q\n", s.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <course> <student>",
		Aliases: []string{"remove"},
		Short:   "Remove a student from a course",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			c, err := store.FindCourse(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("course %q: %w", args[0], err)
			}
			s, err := resolve(c.Students, args[1], studentFields)
			if err != nil {
				return fmt.Errorf("student %w", err)
			}
			if _, err := store.RemoveStudent(cmd.Context(), c.ID, s.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from %q\n", s.Name, c.Name)
			return nil
		},
	})

	return cmd
}
