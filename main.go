package main

import (
	"os"

	"github.com/mattsolo1/grove-core/cli"

	"github.com/protalker/protalker/cmd"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"protalker",
		"Practice interviews, presentations and speeches with a training assistant",
	)

	rootCmd.AddCommand(cmd.NewDemoCmd())
	rootCmd.AddCommand(cmd.NewLoginCmd())
	rootCmd.AddCommand(cmd.NewLogoutCmd())
	rootCmd.AddCommand(cmd.NewFeedbackCmd())
	rootCmd.AddCommand(cmd.NewDevServerCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
