package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mhpenta/refgen"
	"github.com/mhpenta/refgen/internal/config"
	"github.com/mhpenta/refgen/provider/gemini"
)

// app carries what every subcommand shares once the root has run.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stdout io.Writer

	// newGenerator is swapped in tests.
	newGenerator func(ctx context.Context, cfg *config.Config) (refgen.ContentGenerator, error)
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&app{newGenerator: newGeminiGenerator})
}

func buildRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "refgen",
		Short:        "Generate images from a prompt and reference photos",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.preRun(cmd)
		},
	}

	rootCmd.AddCommand(
		newEditCmd(a),
		newThumbnailCmd(a),
		newTextCmd(a),
		newSetupCmd(a),
	)
	return rootCmd
}

// preRun loads configuration and checks the credential before any work.
// Commands annotated with skipCredential only need configuration.
func (a *app) preRun(cmd *cobra.Command) error {
	a.stdout = cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil && !(errors.Is(err, refgen.ErrCredentialMissing) && cmd.Annotations[skipCredential] == "true") {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.NewLogger(cmd.ErrOrStderr())
	return nil
}

const skipCredential = "skip-credential"

func newGeminiGenerator(ctx context.Context, cfg *config.Config) (refgen.ContentGenerator, error) {
	return gemini.New(ctx, cfg.ProviderConfig(), gemini.WithTimeout(cfg.RequestTimeout))
}

// newManager builds the generation pipeline from the loaded configuration.
func (a *app) newManager(ctx context.Context) (*refgen.Manager, error) {
	gen, err := a.newGenerator(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	return refgen.NewManager(gen,
		refgen.WithLogger(a.logger),
		refgen.WithDefaultModel(refgen.Model(a.cfg.Model)),
	), nil
}

// generate runs req once, or as a batch of variations when batch > 1.
// A batch fails only when no variation succeeded.
func (a *app) generate(ctx context.Context, m *refgen.Manager, req *refgen.GenerationRequest, batch int) error {
	if batch == 1 {
		outcome, err := m.Generate(ctx, req)
		if err != nil {
			return err
		}
		a.printOutcome(outcome)
		return nil
	}

	plan, err := refgen.NewBatchPlan(req, batch, req.OutputPath)
	if err != nil {
		return err
	}

	orch := refgen.NewOrchestrator(m)
	orch.OnIteration = func(it refgen.IterationOutcome) {
		if it.Err != nil {
			fmt.Fprintf(a.stdout, "[%d/%d] failed: %v\n", it.Index, batch, it.Err)
			return
		}
		fmt.Fprintf(a.stdout, "[%d/%d] saved %s\n", it.Index, batch, it.OutputPath)
	}

	report, err := orch.Run(ctx, plan)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%d of %d variations generated\n", report.Succeeded(), len(report.Iterations))
	if !report.OK() {
		return fmt.Errorf("no variation succeeded: %w", report.Err())
	}
	return nil
}

func (a *app) printOutcome(o *refgen.GenerationOutcome) {
	fmt.Fprintf(a.stdout, "Image saved to: %s\n", o.OutputPath)
	if o.Text != "" {
		fmt.Fprintf(a.stdout, "Model response: %s\n", o.Text)
	}
}

// outputFlags are shared by every generating command.
type outputFlags struct {
	output      string
	model       string
	aspectRatio string
	resolution  string
	batch       int
}

func (f *outputFlags) register(cmd *cobra.Command, defaultOutput, defaultAspect, defaultResolution string) {
	cmd.Flags().StringVarP(&f.output, "output", "o", defaultOutput, "output image path")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "model alias or API name (default from REFGEN_MODEL)")
	cmd.Flags().StringVar(&f.aspectRatio, "aspect-ratio", defaultAspect, "output aspect ratio")
	cmd.Flags().StringVar(&f.resolution, "resolution", defaultResolution, "output resolution (1K, 2K, 4K)")
	cmd.Flags().IntVar(&f.batch, "batch", 1, "number of variations to generate")
}

// apply parses the flags into req.
func (f *outputFlags) apply(req *refgen.GenerationRequest) error {
	ar, err := refgen.ParseAspectRatio(f.aspectRatio)
	if err != nil {
		return err
	}
	res, err := refgen.ParseResolution(f.resolution)
	if err != nil {
		return err
	}
	if f.batch < 1 {
		return fmt.Errorf("%w: %d", refgen.ErrInvalidBatchCount, f.batch)
	}

	req.Model = refgen.Model(f.model)
	req.OutputPath = f.output
	req.AspectRatio = ar
	req.Resolution = res
	return nil
}
