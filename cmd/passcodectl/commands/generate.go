package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"passcode-app/pkg/passcode"
)

func generateCmd(e *env) *cobra.Command {
	var (
		count  int
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create users with fresh passcodes and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count должен быть положительным: %d", count)
			}
			out := cmd.OutOrStdout()

			if dryRun {
				for range count {
					code, err := passcode.Generate(e.random)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, code)
				}
				return nil
			}

			users, err := e.users(cmd.Context())
			if err != nil {
				return err
			}
			for range count {
				u, err := users.Generate(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d\t%s\t%s\n", u.ID, u.UUID, u.Code)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of passcodes to generate")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only print passcodes, do not touch the database")
	return cmd
}
