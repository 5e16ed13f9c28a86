package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"passcode-app/internal/database"
)

func migrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	// run открывает отдельный мигратор на каждую команду.
	run := func(cmd *cobra.Command, fn func(*database.Migrator) error) error {
		cfg, err := e.config()
		if err != nil {
			return err
		}
		m, err := database.NewMigratorFromDSN(cfg.Database.DSN(), e.log)
		if err != nil {
			return err
		}
		defer m.Close()

		err = fn(m)
		if errors.Is(err, database.ErrNoChange) {
			fmt.Fprintln(cmd.OutOrStdout(), "no change")
			return nil
		}
		return err
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, (*database.Migrator).Up)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, (*database.Migrator).Down)
			},
		},
		&cobra.Command{
			Use:     "steps <n>",
			Short:   "Apply (n > 0) or roll back (n < 0) n migrations",
			Example: "  passcodectl migrate steps 2\n  passcodectl migrate steps -- -1",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("некорректное число шагов %q: %w", args[0], err)
				}
				return run(cmd, func(m *database.Migrator) error { return m.Steps(n) })
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(m *database.Migrator) error {
					v, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", v, dirty)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("некорректная версия %q: %w", args[0], err)
				}
				return run(cmd, func(m *database.Migrator) error { return m.Force(v) })
			},
		},
	)
	return cmd
}
