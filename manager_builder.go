package refgen

import (
	"log/slog"
	"time"
)

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithLogger sets a structured logger for the manager.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithStorage sets the backend generated images are written to.
func WithStorage(storage Storage) ManagerOption {
	return func(m *Manager) {
		m.storage = storage
	}
}

// WithValidator replaces the validator used by NewRequest.
func WithValidator(v *Validator) ManagerOption {
	return func(m *Manager) {
		m.validator = v
	}
}

// WithDefaultModel sets the default model used when request.Model is empty.
func WithDefaultModel(model Model) ManagerOption {
	return func(m *Manager) {
		m.defaultModel = model
	}
}

// WithRateLimiting controls local pacing. When wait is false a request that
// does not fit the budget fails with a RateLimitError instead of waiting.
// A zero maxWait waits as long as the context allows.
func WithRateLimiting(wait bool, maxWait time.Duration) ManagerOption {
	return func(m *Manager) {
		m.waitOnRateLimit = wait
		m.maxWait = maxWait
	}
}

// WithTokenEstimator replaces the estimator used for rate limit budgeting.
func WithTokenEstimator(e TokenEstimator) ManagerOption {
	return func(m *Manager) {
		m.tokenEstimator = e
	}
}

// NewManager creates a Manager for generator, registering every model it
// serves, and applies opts.
//
// Example:
//
//	gen, err := gemini.NewWithAPIKey(ctx, apiKey)
//	if err != nil {
//	    return err
//	}
//	manager := refgen.NewManager(gen)
//
// With options:
//
//	manager := refgen.NewManager(gen,
//	    refgen.WithLogger(slog.Default()),
//	    refgen.WithDefaultModel(refgen.ModelNanoBanana),
//	)
func NewManager(generator ContentGenerator, opts ...ManagerOption) *Manager {
	m := New(generator)

	models := generator.Models()
	for i := range models {
		m.RegisterModel(&models[i])
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}
