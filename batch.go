package refgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// MaxBatchCount bounds the number of variations a single batch may request.
const MaxBatchCount = 100

// BatchPlan is one request template repeated Count times with derived
// output paths.
type BatchPlan struct {
	Template *GenerationRequest
	Count    int

	// OutputStem and OutputExt are the base output path split at its extension.
	OutputStem string
	OutputExt  string
}

// NewBatchPlan validates count and returns a plan for template. An output
// without an extension gets ".png".
func NewBatchPlan(template *GenerationRequest, count int, output string) (*BatchPlan, error) {
	if count < 1 || count > MaxBatchCount {
		return nil, fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidBatchCount, count, MaxBatchCount)
	}
	if output == "" {
		output = template.OutputPath
	}
	if output == "" {
		output = DefaultOutputPath
	}

	ext := filepath.Ext(output)
	stem := strings.TrimSuffix(output, ext)
	if ext == "" {
		ext = ".png"
	}
	return &BatchPlan{Template: template, Count: count, OutputStem: stem, OutputExt: ext}, nil
}

// OutputPath returns the path for variation i (1-based): "{stem}_v{i}{ext}".
func (p *BatchPlan) OutputPath(i int) string {
	return fmt.Sprintf("%s_v%d%s", p.OutputStem, i, p.OutputExt)
}

// Requests expands the plan into Count copies of the template, each with
// its own output path. The copies share the template's image data.
func (p *BatchPlan) Requests() []*GenerationRequest {
	reqs := make([]*GenerationRequest, 0, p.Count)
	for i := 1; i <= p.Count; i++ {
		req := *p.Template
		req.OutputPath = p.OutputPath(i)
		reqs = append(reqs, &req)
	}
	return reqs
}

// IterationOutcome is the result of one batch iteration.
type IterationOutcome struct {
	// Index is 1-based.
	Index      int
	OutputPath string

	Outcome *GenerationOutcome
	Err     error
}

// OK reports whether the iteration produced a saved image.
func (o IterationOutcome) OK() bool {
	return o.Err == nil && o.Outcome != nil
}

// BatchReport collects per-iteration outcomes in iteration order.
type BatchReport struct {
	Iterations []IterationOutcome
	Duration   time.Duration
}

// Succeeded returns the number of iterations that saved an image.
func (r *BatchReport) Succeeded() int {
	n := 0
	for _, it := range r.Iterations {
		if it.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of iterations that did not.
func (r *BatchReport) Failed() int {
	return len(r.Iterations) - r.Succeeded()
}

// OK reports whether at least one iteration succeeded.
func (r *BatchReport) OK() bool {
	return r.Succeeded() > 0
}

// Paths returns the output paths of successful iterations.
func (r *BatchReport) Paths() []string {
	var paths []string
	for _, it := range r.Iterations {
		if it.OK() {
			paths = append(paths, it.Outcome.OutputPath)
		}
	}
	return paths
}

// Err joins the errors of all failed iterations, or returns nil.
func (r *BatchReport) Err() error {
	var errs []error
	for _, it := range r.Iterations {
		if it.Err != nil {
			errs = append(errs, fmt.Errorf("variation %d: %w", it.Index, it.Err))
		}
	}
	return errors.Join(errs...)
}

// Orchestrator runs a BatchPlan sequentially through a Manager.
// A failed iteration is recorded and the batch moves on.
type Orchestrator struct {
	manager *Manager
	logger  *slog.Logger

	// OnIteration, if set, is called after each iteration completes.
	OnIteration func(IterationOutcome)
}

// NewOrchestrator creates an Orchestrator that logs through the manager's logger.
func NewOrchestrator(manager *Manager) *Orchestrator {
	manager.mu.RLock()
	logger := manager.logger
	manager.mu.RUnlock()

	return &Orchestrator{manager: manager, logger: logger}
}

// Run prepares the template once and executes it Count times. A prepare
// error aborts the batch before any call is made. Cancelling ctx stops
// the batch between iterations; the report covers what already ran.
func (o *Orchestrator) Run(ctx context.Context, plan *BatchPlan) (*BatchReport, error) {
	prepared, err := o.manager.Prepare(plan.Template)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report := &BatchReport{Iterations: make([]IterationOutcome, 0, plan.Count)}

	o.logger.Info("starting batch",
		"count", plan.Count,
		"model", prepared.APIModel,
		"output", plan.OutputStem+plan.OutputExt,
	)

	for i := 1; i <= plan.Count; i++ {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}

		path := plan.OutputPath(i)
		outcome, err := o.manager.Execute(ctx, prepared, path)

		it := IterationOutcome{Index: i, OutputPath: path, Outcome: outcome, Err: err}
		if err != nil {
			o.logger.Warn("variation failed",
				"index", i,
				"count", plan.Count,
				"error", err.Error(),
			)
		} else {
			it.OutputPath = outcome.OutputPath
			o.logger.Info("variation saved",
				"index", i,
				"count", plan.Count,
				"path", outcome.OutputPath,
			)
		}

		report.Iterations = append(report.Iterations, it)
		if o.OnIteration != nil {
			o.OnIteration(it)
		}
	}

	report.Duration = time.Since(start)
	o.logger.Info("batch completed",
		"succeeded", report.Succeeded(),
		"failed", report.Failed(),
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}
