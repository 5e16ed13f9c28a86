package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"passcode-app/pkg/passcode"
)

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <digits>",
		Short: "Validate a passcode and print its stored bytes in hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := passcode.Parse(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%x\n", code.Bytes())
			return nil
		},
	}
}
