package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/armparts/pkg/config"
	"github.com/jaspreet-dot-casa/armparts/pkg/globalconfig"
	"github.com/jaspreet-dot-casa/armparts/pkg/project"
)

type initOptions struct {
	force     bool
	global    bool
	outputDir string
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write the built-in manifest to a parts directory",
		Long: `Write ` + project.ManifestFileName + ` describing the six mesos and swarm variants so
it can be edited.

With --global the directory is also recorded as the default parts directory
in ~/.config/armparts/config.yaml, so armparts can run from anywhere.

Examples:
  armparts init                          # Use current directory
  armparts init parts                    # Use a relative path
  armparts init ~/parts --global         # Remember as the default parts directory
  armparts init ~/parts --global --default-output-dir ~/templates`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, dir, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing manifest")
	cmd.Flags().BoolVar(&opts.global, "global", false, "Record the directory as the default parts directory")
	cmd.Flags().StringVar(&opts.outputDir, "default-output-dir", "", "Default build output directory (with --global)")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts *initOptions) error {
	out := cmd.OutOrStdout()
	path := filepath.Join(dir, project.ManifestFileName)

	if opts.outputDir != "" && !opts.global {
		return fmt.Errorf("--default-output-dir requires --global")
	}

	if _, err := os.Stat(path); err == nil && !opts.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	if err := config.Default().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Manifest written to: %s\n", path)

	if !opts.global {
		return nil
	}

	cfg, err := globalconfig.LoadOrCreate()
	if err != nil {
		return err
	}
	if err := cfg.SetPartsDir(dir); err != nil {
		return err
	}
	if opts.outputDir != "" {
		abs, err := filepath.Abs(opts.outputDir)
		if err != nil {
			return fmt.Errorf("failed to resolve output directory: %w", err)
		}
		cfg.OutputDir = abs
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	configPath, _ := globalconfig.GetConfigPath()
	fmt.Fprintf(out, "Default parts directory set to: %s (%s)\n", cfg.PartsDir, configPath)
	return nil
}
