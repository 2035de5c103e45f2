// Package main provides the armparts CLI for assembling ARM templates from a
// directory of base templates, fragments and provisioning scripts.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jaspreet-dot-casa/armparts/pkg/config"
	"github.com/jaspreet-dot-casa/armparts/pkg/ctxlog"
	"github.com/jaspreet-dot-casa/armparts/pkg/globalconfig"
	"github.com/jaspreet-dot-casa/armparts/pkg/project"
)

// version is set via -ldflags during build
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	dir      string
	manifest string
	verbose  bool
}

func (o *rootOptions) bindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.dir, "dir", "C", "", "Parts directory (defaults to the configured parts_dir, then the project root)")
	fs.StringVarP(&o.manifest, "manifest", "m", "", "Manifest file (defaults to <dir>/"+project.ManifestFileName+", then the built-in manifest)")
	fs.BoolVar(&o.verbose, "verbose", false, "Enable debug logging")
}

// loadManifest reads the manifest named by --manifest, or the one in the
// parts directory, falling back to the built-in manifest.
func (o *rootOptions) loadManifest() (*config.Manifest, error) {
	if o.manifest != "" {
		return config.Load(o.manifest)
	}

	dir, err := o.partsDir()
	if err != nil {
		return nil, err
	}

	return config.NewReader(dir).ReadAll()
}

// partsDir resolves --dir, then the user's configured parts_dir, then the
// project root.
func (o *rootOptions) partsDir() (string, error) {
	if o.dir != "" {
		return o.dir, nil
	}

	cfg, err := globalconfig.Load()
	switch {
	case err == nil && cfg.PartsDir != "":
		return cfg.PartsDirectory()
	case err != nil && !errors.Is(err, globalconfig.ErrNotInitialized):
		return "", err
	}

	root, err := project.FindRoot()
	if err != nil {
		return "", fmt.Errorf("could not find project root: %w", err)
	}
	return root, nil
}

// newRootCmd creates the root command for armparts
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "armparts",
		Short: "ARM template parts assembler",
		Long: `armparts assembles Azure Resource Manager templates from parts: base
templates with marker tokens, JSON fragments and provisioning scripts.

Scripts are gzip-compressed, base64-encoded and embedded as cloud-init
write_files entries. Every assembled template must parse as JSON; a template
that does not is saved with a .err suffix for inspection.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := ctxlog.New(cmd.ErrOrStderr(), opts.verbose)
			slog.SetDefault(logger)
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		},
	}

	opts.bindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newBuildCmd(opts),
		newValidateCmd(opts),
		newInitCmd(),
		newOnelineCmd(),
		newPrettyCmd(),
		newSizesCmd(),
		newEncodeCmd(),
		newDecodeCmd(),
	)

	return rootCmd
}
