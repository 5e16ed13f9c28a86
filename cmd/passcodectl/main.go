package main

import (
	"os"

	"passcode-app/cmd/passcodectl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
