package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/armparts/pkg/validation"
)

// newValidateCmd creates the validate subcommand
func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the manifest and its input files",
		Long: `Check that every variant in the manifest names existing input files, that
variant names and outputs are unique, and that each base template uses its
marker tokens sensibly. Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, root)
		},
	}
}

// runValidate validates the manifest and prints every issue.
func runValidate(cmd *cobra.Command, root *rootOptions) error {
	m, err := root.loadManifest()
	if err != nil {
		return err
	}

	result := validation.NewValidator(m).ValidateAll()
	out := cmd.OutOrStdout()

	printIssues(out, result, false)

	if result.HasErrors() {
		return fmt.Errorf("validation failed with %d error(s)", result.ErrorCount())
	}

	if len(result.Issues) == 0 {
		fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("All %d variants are valid.", len(m.Variants))))
	} else {
		fmt.Fprintf(out, "\nValidation passed with %d warning(s).\n", result.WarningCount())
	}

	return nil
}
