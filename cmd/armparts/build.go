package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/armparts/pkg/build"
	"github.com/jaspreet-dot-casa/armparts/pkg/globalconfig"
	"github.com/jaspreet-dot-casa/armparts/pkg/validation"
)

type buildOptions struct {
	outputDir       string
	writeParameters bool
	keepGoing       bool
	summary         bool
}

// newBuildCmd creates the build subcommand
func newBuildCmd(root *rootOptions) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build [variant...]",
		Short: "Assemble ARM templates from the parts directory",
		Long: `Assemble every variant in the manifest, or only the named variants, and
write the templates to the output directory.

The manifest is validated first. A template that fails to parse as JSON is
written to <output>.err and the build stops, unless --keep-going is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", ".", "Directory for generated templates (created if absent; defaults to the configured output_dir)")
	cmd.Flags().BoolVar(&opts.writeParameters, "write-parameter-files", false, "Write <output>.parameters.json next to each template")
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "Continue with remaining variants after a failure")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Write "+build.SummaryFileName+" to the output directory")

	return cmd
}

// runBuild validates the manifest and builds the selected variants.
func runBuild(cmd *cobra.Command, root *rootOptions, opts *buildOptions, variants []string) error {
	out := cmd.OutOrStdout()

	m, err := root.loadManifest()
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("output-dir") {
		if cfg, err := globalconfig.Load(); err == nil && cfg.OutputDir != "" {
			opts.outputDir = cfg.OutputDir
		}
	}

	// Step 1: Validate the manifest
	fmt.Fprintln(out, InfoStyle.Render("Validating manifest..."))
	result := validation.NewValidator(m).ValidateAll()
	printIssues(out, result, false)
	if result.HasErrors() && !opts.keepGoing {
		return fmt.Errorf("validation failed with %d error(s), fix errors before building", result.ErrorCount())
	}

	// Step 2: Assemble
	fmt.Fprintln(out, InfoStyle.Render("Building templates..."))
	builder := build.NewBuilder(m)
	report, buildErr := builder.Build(cmd.Context(), &build.Options{
		OutputDir:           opts.outputDir,
		WriteParameterFiles: opts.writeParameters,
		KeepGoing:           opts.keepGoing,
		Variants:            variants,
	}, printProgress(out))

	// Step 3: Summary
	if opts.summary && report != nil && len(report.Results) > 0 {
		summaryPath := filepath.Join(opts.outputDir, build.SummaryFileName)
		if err := build.WriteSummary(cmd.Context(), report, summaryPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Summary: %s\n", summaryPath)
	}

	if buildErr != nil {
		return buildErr
	}

	fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("\nBuild complete! %d template(s) written to %s", report.Succeeded(), opts.outputDir)))
	return nil
}

// printProgress reports completed and failed variants.
func printProgress(w io.Writer) build.ProgressCallback {
	return func(e build.ProgressEvent) {
		switch e.Stage {
		case build.StageComplete:
			fmt.Fprintf(w, "  %s %s: %s\n", SuccessStyle.Render("✓"), e.Variant, e.Message)
		case build.StageError:
			fmt.Fprintf(w, "  %s %s: %s\n", ErrorStyle.Render("✗"), e.Variant, e.Detail)
		}
	}
}
