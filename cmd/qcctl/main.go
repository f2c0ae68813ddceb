package main

import (
	"os"

	"github.com/brandworks/asset-qc/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	command := NewQCCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewQCCtlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qcctl [flags] [options]",
		Short: "qcctl drives the asset qc review workflow.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdConfigure())
	cmd.AddCommand(cli.NewCmdGet())
	cmd.AddCommand(cli.NewCmdCreate())
	cmd.AddCommand(cli.NewCmdStart())
	cmd.AddCommand(cli.NewCmdSubmit())
	cmd.AddCommand(cli.NewCmdReview())
	cmd.AddCommand(cli.NewCmdExport())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
