package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhpenta/refgen"
	"github.com/mhpenta/refgen/internal/config"
)

func newTextCmd(a *app) *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "text PROMPT",
		Short: "Generate an image from a text prompt alone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.newManager(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			req := &refgen.GenerationRequest{Instruction: args[0]}
			if err := out.apply(req); err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "Generating image with prompt: %q\n", args[0])
			return a.generate(cmd.Context(), m, req, out.batch)
		},
	}

	out.register(cmd, config.DefaultOutputFile, "", "")
	return cmd
}
