package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/armparts/pkg/sizes"
)

type sizesOptions struct {
	role          string
	allowedValues bool
	output        string
}

func newSizesCmd() *cobra.Command {
	opts := &sizesOptions{}

	cmd := &cobra.Command{
		Use:   "sizes <catalog>...",
		Short: "Generate the VM size mapping fragment from a size catalog",
		Long: `Generate the "vmSizesMap" fragment substituted for #vmsizemapping, or an
"allowedValues" list, from one or more saved size catalogs (the JSON written
by 'az vm list-sizes', or YAML). Catalogs for several locations are merged;
Basic tier sizes are dropped.

Roles for --allowed-values:
  all           every size
  master-agent  at least 1 core
  dcos-master   at least 2 cores and a 100 GiB resource disk`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSizes(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.role, "role", "all", "Role filter for --allowed-values")
	cmd.Flags().BoolVar(&opts.allowedValues, "allowed-values", false, "Print the allowed size list instead of the mapping")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func runSizes(cmd *cobra.Command, paths []string, opts *sizesOptions) error {
	role, err := sizes.ParseRole(opts.role)
	if err != nil {
		return err
	}

	catalog, err := sizes.LoadCatalog(paths...)
	if err != nil {
		return err
	}

	var text string
	if opts.allowedValues {
		text, err = sizes.AllowedValues(catalog, role)
	} else {
		text, err = sizes.MappingFragment(catalog)
	}
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.output, err)
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
