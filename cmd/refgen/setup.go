package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mhpenta/refgen"
)

const setupInstructions = `To create a consistent AI avatar of yourself:

1. Take 3-5 high-quality photos of yourself:
   - Front-facing (looking at camera)
   - Slight left turn
   - Slight right turn
   - Different expressions (neutral, smiling)
   - Consistent lighting (well-lit, avoid harsh shadows)

2. Save these photos to:
   %s

3. Name them clearly, e.g. face_front.jpg, face_left.jpg, face_right.jpg

4. Use the SAME photos for ALL thumbnails to keep your face consistent.
`

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "setup",
		Short:       "Create the reference photo folder or list its contents",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipCredential: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(a.cfg.ReferenceDir)
		},
	}
}

func (a *app) setup(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	if !refgen.DirectoryExists(dir) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating reference folder: %w", err)
		}
		a.logger.Info("created reference folder", "path", abs)
		fmt.Fprintf(a.stdout, "Created reference folder: %s\n\n", dir)
		fmt.Fprintf(a.stdout, setupInstructions, abs+string(filepath.Separator))
		return nil
	}

	refs, err := refgen.NewResolver(dir).Resolve(refgen.DefaultSource())
	if err != nil {
		if errors.Is(err, refgen.ErrNoReferencesFound) {
			fmt.Fprintf(a.stdout, "Reference folder exists but is empty: %s\n", dir)
			fmt.Fprintln(a.stdout, "Add 3-5 reference photos of yourself to this folder.")
			return nil
		}
		return err
	}

	fmt.Fprintf(a.stdout, "Reference folder already set up with %d images:\n", len(refs))
	for _, ref := range refs {
		fmt.Fprintf(a.stdout, "  %s\n", ref.Filename())
	}
	return nil
}
