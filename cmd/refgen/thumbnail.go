package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mhpenta/refgen"
	"github.com/mhpenta/refgen/internal/config"
)

// thumbnailAspectRatios are the formats offered for video thumbnails.
var thumbnailAspectRatios = []string{"16:9", "9:16", "4:3", "1:1"}

func newThumbnailCmd(a *app) *cobra.Command {
	var (
		references string
		style      string
		logos      []string
		out        outputFlags
	)

	cmd := &cobra.Command{
		Use:   "thumbnail PROMPT",
		Short: "Generate a thumbnail that keeps your face consistent across images",
		Example: `  refgen thumbnail "Excited pose pointing at a rocket launch"
  refgen thumbnail "Shocked face" -r ./me -s viral.png -l logo.png --batch 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(thumbnailAspectRatios, out.aspectRatio) {
				return fmt.Errorf("%w: %q (thumbnails support %v)", refgen.ErrUnsupportedAspectRatio, out.aspectRatio, thumbnailAspectRatios)
			}

			src, err := thumbnailSource(references)
			if err != nil {
				return err
			}
			refs, err := refgen.NewAvatarResolver(a.cfg.ReferenceDir).Resolve(src)
			if err != nil {
				if src.Kind() == refgen.SourceDefault && errors.Is(err, refgen.ErrReferenceDirectoryMissing) {
					return fmt.Errorf("%w\nrun 'refgen setup' first to create it", err)
				}
				return err
			}

			var aux []refgen.AuxiliaryImage
			if style != "" {
				aux = append(aux, refgen.AuxiliaryImage{Tag: refgen.AuxiliaryStyle, Path: style})
			}
			for _, logo := range logos {
				aux = append(aux, refgen.AuxiliaryImage{Tag: refgen.AuxiliaryLogo, Path: logo})
			}

			m, err := a.newManager(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			req, err := m.NewRequest(args[0], refs, aux)
			if err != nil {
				return err
			}
			if err := out.apply(req); err != nil {
				return err
			}

			if style != "" {
				fmt.Fprintf(a.stdout, "Style reference: %s\n", style)
			}
			if len(logos) > 0 {
				fmt.Fprintf(a.stdout, "Logo references: %d\n", len(logos))
			}
			fmt.Fprintf(a.stdout, "Using %d character reference image(s):\n", len(refs))
			for _, ref := range refs {
				fmt.Fprintf(a.stdout, "  %s\n", ref.Filename())
			}
			fmt.Fprintf(a.stdout, "Resolution: %s | Aspect ratio: %s\n", req.Resolution, req.AspectRatio)

			return a.generate(cmd.Context(), m, req, out.batch)
		},
	}

	cmd.Flags().StringVarP(&references, "references", "r", "", "reference folder or single image (default from REFGEN_REFERENCE_DIR)")
	cmd.Flags().StringVarP(&style, "style", "s", "", "style reference image")
	cmd.Flags().StringArrayVarP(&logos, "logo", "l", nil, "logo image to include (repeatable)")
	out.register(cmd, config.DefaultThumbnailFile, string(refgen.AspectRatio16x9), string(refgen.Resolution4K))
	return cmd
}

// thumbnailSource turns the --references value into a source: empty uses
// the configured folder, a directory is listed, anything else is one image.
func thumbnailSource(path string) (refgen.ReferenceSource, error) {
	switch {
	case path == "":
		return refgen.DefaultSource(), nil
	case refgen.DirectoryExists(path):
		return refgen.DirectorySource(path), nil
	default:
		ref, err := refgen.NewReference(path, "")
		if err != nil {
			return refgen.ReferenceSource{}, err
		}
		return refgen.ExplicitSource(ref), nil
	}
}
