package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/armparts/pkg/oneline"
)

func newOnelineCmd() *cobra.Command {
	var argumentsOnly bool

	cmd := &cobra.Command{
		Use:   "oneline <script.ps1>",
		Short: "Collapse a PowerShell script into one command line",
		Long: `Collapse a PowerShell script into a single powershell.exe invocation for a
commandToExecute property. Double quotes become single quotes. A single
'.arguments = ...;' assignment is removed from the script and can be
printed with --arguments; more than one is an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := oneline.Convert(args[0])
			if err != nil {
				return err
			}

			if argumentsOnly {
				fmt.Fprintln(cmd.OutOrStdout(), c.Arguments)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.String())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&argumentsOnly, "arguments", "a", false, "Print the extracted argument list instead of the command")

	return cmd
}
