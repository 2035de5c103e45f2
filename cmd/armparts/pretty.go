package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/armparts/pkg/canonical"
	"github.com/jaspreet-dot-casa/armparts/pkg/project"
)

type prettyOptions struct {
	inPlace       bool
	allowComments bool
	parameters    bool
}

func newPrettyCmd() *cobra.Command {
	opts := &prettyOptions{}

	cmd := &cobra.Command{
		Use:   "pretty <template.json>",
		Short: "Rewrite a template with sorted keys and ARM section order",
		Long: `Pretty-print a JSON template with two-space indentation and sorted keys.
Top-level sections are ordered $schema, contentVersion, parameters,
variables, resources, outputs. Numbers and expressions are kept as written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPretty(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.inPlace, "in-place", "i", false, "Rewrite the file instead of printing it")
	cmd.Flags().BoolVar(&opts.allowComments, "allow-comments", false, "Accept comments and trailing commas")
	cmd.Flags().BoolVar(&opts.parameters, "parameters", false, "Treat the file as a parameter file, adding the envelope if missing")

	return cmd
}

func runPretty(cmd *cobra.Command, path string, opts *prettyOptions) error {
	data, err := project.ReadInput(path)
	if err != nil {
		return err
	}

	var options []canonical.Option
	if opts.allowComments {
		options = append(options, canonical.WithComments())
	}

	rewrite := canonical.Canonicalize
	if opts.parameters {
		rewrite = canonical.ParametersFile
	}

	text, err := rewrite(string(data), options...)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if opts.inPlace {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}
