package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhpenta/refgen"
	"github.com/mhpenta/refgen/internal/config"
)

func newEditCmd(a *app) *cobra.Command {
	var (
		images []string
		out    outputFlags
	)

	cmd := &cobra.Command{
		Use:   "edit PROMPT -i image[:description]...",
		Short: "Generate an image from 1-14 described reference images",
		Example: `  refgen edit "Put them on a beach at sunset" -i person.jpg:"the main subject" -i dog.png:"their dog"
  refgen edit "Make it a watercolor" -i photo.png --batch 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := refgen.ParseReferences(images)
			if err != nil {
				return err
			}

			m, err := a.newManager(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			req, err := m.NewRequest(args[0], refs, nil)
			if err != nil {
				return err
			}
			if err := out.apply(req); err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "Generating image with %d reference image(s)...\n", len(refs))
			for i, ref := range refs {
				if role, ok := ref.Role(); ok {
					fmt.Fprintf(a.stdout, "  %d. %s: %s\n", i+1, ref.Filename(), role)
				} else {
					fmt.Fprintf(a.stdout, "  %d. %s\n", i+1, ref.Filename())
				}
			}

			return a.generate(cmd.Context(), m, req, out.batch)
		},
	}

	cmd.Flags().StringArrayVarP(&images, "image", "i", nil, "reference image, optionally with a description (path:description)")
	_ = cmd.MarkFlagRequired("image")
	out.register(cmd, config.DefaultOutputFile, string(refgen.AspectRatio1x1), string(refgen.Resolution2K))
	return cmd
}
