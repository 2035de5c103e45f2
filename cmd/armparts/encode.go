package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/armparts/pkg/payload"
	"github.com/jaspreet-dot-casa/armparts/pkg/project"
)

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <file>",
		Short: "Print the gzip+base64 payload of a file",
		Long: `Print the payload embedded for a script: gzip-compressed with a fixed
header and base64-encoded. The same bytes always give the same payload.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := payload.Encode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newDecodeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode <file|->",
		Short: "Decode a gzip+base64 payload back to its original bytes",
		Long:  `Decode a payload produced by encode, or copied out of a template, from a file or stdin (-).`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = project.ReadInput(args[0])
			}
			if err != nil {
				return err
			}

			decoded, err := payload.Decode(strings.TrimSpace(string(data)))
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, decoded, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				return nil
			}

			_, err = cmd.OutOrStdout().Write(decoded)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}
