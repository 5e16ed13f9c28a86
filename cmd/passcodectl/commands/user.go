package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func showCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <uuid>",
		Short: "Print a stored user with its passcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("некорректный UUID: %w", err)
			}
			users, err := e.users(cmd.Context())
			if err != nil {
				return err
			}

			u, err := users.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "id:         %d\nuuid:       %s\npasscode:   %s\ncreated_at: %s\n",
				u.ID, u.UUID, u.Code, u.CreatedAt.Format(time.RFC3339))
			return nil
		},
	}
}

func verifyCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <uuid> <passcode>",
		Short: "Check a passcode against the stored one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("некорректный UUID: %w", err)
			}
			users, err := e.users(cmd.Context())
			if err != nil {
				return err
			}

			if _, err := users.Verify(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func pingCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check database connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := e.connect(cmd.Context())
			if err != nil {
				return err
			}
			if err := db.Ping(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s\n", e.cfg.Database.Target())
			return nil
		},
	}
}
