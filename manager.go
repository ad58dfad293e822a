package refgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/mhpenta/refgen/ratelimiter"
)

const (
	ModelNanoBananaPro Model = "nano-banana-pro" // Gemini 3 Pro Image
	ModelNanoBanana    Model = "nano-banana"     // Gemini 2.5 Flash Image

	ModelDefault Model = ModelNanoBananaPro
)

// DefaultOutputPath is used when a request names no output file.
const DefaultOutputPath = "generated_image.png"

// ErrModelNotRegistered is returned when a model alias has no provider mapping.
var ErrModelNotRegistered = errors.New("model not registered")

// Provider represents a model provider/backend.
type Provider string

const (
	ProviderGeminiAPI Provider = "gemini"
)

// ProviderConfig configures a specific provider.
type ProviderConfig struct {
	// Provider type
	Provider Provider

	// APIKey for authentication. Required.
	APIKey string

	// BaseURL for custom endpoints (optional)
	BaseURL string
}

// GenerationRequest is everything needed for one generation attempt.
// It is read-only once built.
type GenerationRequest struct {
	Instruction string

	// References may be empty for text-only generation.
	References ValidatedReferenceSet

	// Auxiliary holds style and logo images, in caller order.
	Auxiliary []LoadedAuxiliary

	// Model is an alias or API model name; empty uses the manager default.
	Model Model

	OutputPath  string
	AspectRatio AspectRatio
	Resolution  Resolution
}

// PreparedRequest is a request that passed all local checks and has its
// payload assembled. It can be executed any number of times.
type PreparedRequest struct {
	// Model is the model as the caller named it.
	Model Model

	// APIModel is the provider's model name.
	APIModel string

	// Instruction is the composed text sent as the first part.
	Instruction string

	Parts  []Part
	Config *GenerateConfig

	info *ModelInfo
}

// ReferenceCount returns the number of image parts in the payload.
func (p *PreparedRequest) ReferenceCount() int {
	n := 0
	for _, part := range p.Parts {
		if !part.IsText() {
			n++
		}
	}
	return n
}

// Manager runs the single-generation pipeline: compose, assemble, submit,
// extract, persist. Calls are never retried.
type Manager struct {
	generator ContentGenerator

	// Model catalog, keyed by both alias and API model name
	models   map[Model]*ModelInfo
	catalog  []*ModelInfo
	provider map[Model]Provider

	// Default model to use when request.Model is empty
	defaultModel Model

	// Rate limiting (per API model name)
	limiters        *ratelimiter.Registry
	waitOnRateLimit bool
	maxWait         time.Duration

	validator *Validator

	// Storage for persisting generated images
	storage Storage

	// Logger for structured logging
	logger *slog.Logger

	tokenEstimator TokenEstimator

	mu sync.RWMutex
}

// New creates a Manager around generator without registering any models.
// Most callers want NewManager.
func New(generator ContentGenerator) *Manager {
	return &Manager{
		generator:       generator,
		models:          make(map[Model]*ModelInfo),
		provider:        make(map[Model]Provider),
		defaultModel:    ModelDefault,
		limiters:        ratelimiter.NewRegistry(),
		waitOnRateLimit: true,
		validator:       NewValidator(nil),
		storage:         NewLocalStorage(nil),
		logger:          slog.Default(),
		tokenEstimator:  NewSimpleTokenEstimator(),
	}
}

// RegisterModel adds a model to the catalog and creates an in-memory rate
// limiter from its limits. Use SetRateLimiter to override the limiter.
func (m *Manager) RegisterModel(info *ModelInfo) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	if info.APIModelName == "" {
		info.APIModelName = info.Name
	}
	m.models[Model(info.Name)] = info
	m.models[Model(info.APIModelName)] = info
	m.provider[Model(info.APIModelName)] = info.Provider
	m.catalog = append(m.catalog, info)

	if info.RateLimits.TokensPerMinute > 0 || info.RateLimits.RequestsPerMinute > 0 {
		m.limiters.Set(info.APIModelName, ratelimiter.New(
			info.RateLimits.TokensPerMinute,
			info.RateLimits.RequestsPerMinute,
		))
	}
	return m
}

// SetRateLimiter sets a custom rate limiter for a model. A nil limiter
// disables pacing for that model.
func (m *Manager) SetRateLimiter(model Model, limiter ratelimiter.Limiter) *Manager {
	apiModel, _ := m.resolveModel(model)
	m.limiters.Set(apiModel, limiter)
	return m
}

// SetDefaultModel sets the default model used when request.Model is empty.
func (m *Manager) SetDefaultModel(model Model) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.defaultModel = model
	return m
}

// SetLogger sets a structured logger for the manager.
func (m *Manager) SetLogger(logger *slog.Logger) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger = logger
	return m
}

// SetStorage sets the backend generated images are written to.
func (m *Manager) SetStorage(storage Storage) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.storage = storage
	return m
}

// Storage returns the configured storage backend, or nil if not set.
func (m *Manager) Storage() Storage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.storage
}

// Validator returns the validator used by NewRequest.
func (m *Manager) Validator() *Validator {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.validator
}

// NewRequest validates refs and aux and builds a request from them.
// Validation fails fast; nothing is sent to the service.
func (m *Manager) NewRequest(instruction string, refs []ReferenceImage, aux []AuxiliaryImage) (*GenerationRequest, error) {
	v := m.Validator()

	set, err := v.Validate(refs)
	if err != nil {
		return nil, err
	}
	loaded, err := v.ValidateAuxiliary(aux)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	m.logger.Debug("validated inputs",
		"reference_count", set.Len(),
		"references", pathsOf(refs),
		"auxiliary_count", len(loaded),
	)
	m.mu.RUnlock()

	return &GenerationRequest{
		Instruction: instruction,
		References:  set,
		Auxiliary:   loaded,
	}, nil
}

// Prepare runs every local check on req and assembles its payload.
func (m *Manager) Prepare(req *GenerationRequest) (*PreparedRequest, error) {
	if req == nil {
		return nil, ErrEmptyPrompt
	}
	if err := ValidatePrompt(req.Instruction); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = m.DefaultModel()
	}
	apiModel, info := m.resolveModel(model)

	if info != nil {
		if err := info.CheckOutput(req.AspectRatio, req.Resolution); err != nil {
			return nil, err
		}
	}

	base := req.Instruction
	if hasStyle(req.Auxiliary) {
		base = StyleInstruction(base)
	}
	instruction := ComposeInstruction(base, req.References.References())

	m.mu.RLock()
	wait, maxWait := m.waitOnRateLimit, m.maxWait
	m.mu.RUnlock()

	return &PreparedRequest{
		Model:       model,
		APIModel:    apiModel,
		Instruction: instruction,
		Parts:       AssembleContent(instruction, req.Auxiliary, req.References),
		Config: &GenerateConfig{
			Model:           Model(apiModel),
			Resolution:      req.Resolution,
			AspectRatio:     req.AspectRatio,
			WaitOnRateLimit: wait,
			MaxWaitDuration: maxWait,
		},
		info: info,
	}, nil
}

// Generate prepares and executes req, writing the image to req.OutputPath.
func (m *Manager) Generate(ctx context.Context, req *GenerationRequest) (*GenerationOutcome, error) {
	prepared, err := m.Prepare(req)
	if err != nil {
		return nil, err
	}
	return m.Execute(ctx, prepared, req.OutputPath)
}

// Execute submits a prepared request once and saves the returned image to
// outputPath. If outputPath has no extension, one matching the image MIME
// type is appended.
func (m *Manager) Execute(ctx context.Context, p *PreparedRequest, outputPath string) (*GenerationOutcome, error) {
	if outputPath == "" {
		outputPath = DefaultOutputPath
	}

	m.mu.RLock()
	logger, storage := m.logger, m.storage
	m.mu.RUnlock()

	start := time.Now()
	logger.Debug("starting image generation",
		"model", p.APIModel,
		"instruction_length", len(p.Instruction),
		"reference_count", p.ReferenceCount(),
		"output", outputPath,
	)

	if err := m.checkRateLimit(ctx, p); err != nil {
		logger.Warn("rate limit hit",
			"model", p.APIModel,
			"error", err.Error(),
		)
		return nil, err
	}

	resp, err := m.generator.Submit(ctx, p.APIModel, p.Parts, p.Config)
	duration := time.Since(start)
	if err != nil {
		if !errors.Is(err, ErrGenerationTransport) {
			err = &TransportError{Model: p.APIModel, Err: err}
		}
		logger.Error("generation failed",
			"model", p.APIModel,
			"duration_ms", duration.Milliseconds(),
			"error", err.Error(),
		)
		return nil, err
	}

	result := ExtractImage(resp)
	if !result.HasImage() {
		logger.Warn("no image in response",
			"model", p.APIModel,
			"duration_ms", duration.Milliseconds(),
			"finish_reason", result.FinishReason,
			"text_length", len(result.Text),
		)
		return nil, result.Err()
	}

	if filepath.Ext(outputPath) == "" {
		outputPath += ExtensionFromMIME(result.Image.MIMEType)
	}

	saved, err := SaveImage(ctx, storage, result.Image, outputPath)
	if err != nil {
		logger.Error("saving image failed",
			"path", outputPath,
			"error", err.Error(),
		)
		return nil, fmt.Errorf("saving %s: %w", outputPath, err)
	}

	logAttrs := []any{
		"model", p.APIModel,
		"duration_ms", duration.Milliseconds(),
		"reference_count", p.ReferenceCount(),
		"bytes", saved.Size,
		"location", saved.Location,
	}
	if resp.Usage != nil {
		logAttrs = append(logAttrs,
			"prompt_tokens", resp.Usage.PromptTokens,
			"response_tokens", resp.Usage.CandidatesTokens,
			"total_tokens", resp.Usage.TotalTokens,
		)
		if p.info != nil {
			logAttrs = append(logAttrs, "estimated_cost_usd", p.info.EstimateCost(resp.Usage))
		}
	}
	logger.Info("generation completed", logAttrs...)

	return &GenerationOutcome{
		OutputPath: outputPath,
		Location:   saved.Location,
		Image:      result.Image,
		Text:       result.Text,
		Usage:      resp.Usage,
		Duration:   duration,
	}, nil
}

// Models returns the registered model definitions, in registration order.
func (m *Manager) Models() []ModelInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	models := make([]ModelInfo, 0, len(m.catalog))
	for _, info := range m.catalog {
		models = append(models, *info)
	}
	return models
}

// GetModelInfo returns model information for an alias or API model name.
func (m *Manager) GetModelInfo(model Model) (*ModelInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.models[model]
	return info, ok
}

// GetModelProvider returns the provider for a model.
func (m *Manager) GetModelProvider(model Model) (Provider, error) {
	apiModel, _ := m.resolveModel(model)

	m.mu.RLock()
	defer m.mu.RUnlock()

	provider, ok := m.provider[Model(apiModel)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrModelNotRegistered, model)
	}
	return provider, nil
}

// ListModels returns all registered aliases, sorted.
func (m *Manager) ListModels() []Model {
	m.mu.RLock()
	defer m.mu.RUnlock()

	models := make([]Model, 0, len(m.catalog))
	for _, info := range m.catalog {
		models = append(models, Model(info.Name))
	}
	slices.Sort(models)
	return models
}

// DefaultModel returns the model used when a request names none.
func (m *Manager) DefaultModel() Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultModel
}

// Close releases the generator's resources.
func (m *Manager) Close() error {
	if m.generator == nil {
		return nil
	}
	if err := m.generator.Close(); err != nil {
		return fmt.Errorf("closing generator: %w", err)
	}
	return nil
}

// checkRateLimit consumes budget for p, waiting if the config allows it.
func (m *Manager) checkRateLimit(ctx context.Context, p *PreparedRequest) error {
	const (
		tokenBuffer = 100
	)

	limiter, ok := m.limiters.Get(p.APIModel)
	if !ok {
		return nil
	}

	estimatedTokens := estimatePartsTokens(m.tokenEstimator, p.Parts) + tokenBuffer

	if p.Config.WaitOnRateLimit {
		if err := limiter.WaitAndConsume(ctx, estimatedTokens, p.Config.MaxWaitDuration); err != nil {
			return &RateLimitError{
				RetryAfter: limiter.TimeUntilAvailable(estimatedTokens),
				LimitType:  "local",
				Model:      p.APIModel,
				Err:        err,
			}
		}
		return nil
	}

	if !limiter.TryConsume(estimatedTokens) {
		return &RateLimitError{
			RetryAfter: limiter.TimeUntilAvailable(estimatedTokens),
			LimitType:  "tokens",
			Model:      p.APIModel,
		}
	}
	return nil
}

// resolveModel maps an alias to its API model name. Unknown names are
// passed through unchanged with no catalog entry.
func (m *Manager) resolveModel(model Model) (string, *ModelInfo) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if model == "" {
		model = m.defaultModel
	}
	if info, ok := m.models[model]; ok {
		return info.APIModelName, info
	}
	return string(model), nil
}
