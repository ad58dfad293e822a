// Package gemini provides a ContentGenerator implementation using Google's Gemini API.
//
// This provider uses the Gemini API backend via the official Go SDK:
// https://github.com/googleapis/go-genai
//
// For Vertex AI or other Google Cloud backends, a separate provider implementation
// could be created using the same SDK with a different backend configuration.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mhpenta/refgen"
	"google.golang.org/genai"
)

// Model name constants - the actual API model names.
const (
	// APIModelNanoBananaPro is the actual API name for Gemini 3 Pro Image
	APIModelNanoBananaPro = "gemini-3-pro-image-preview"

	// APIModelNanoBanana is the actual API name for Gemini 2.5 Flash Image
	APIModelNanoBanana = "gemini-2.5-flash-image"
)

// GeminiGenerator implements ContentGenerator using Google's Gemini API.
type GeminiGenerator struct {
	client *genai.Client
}

// Ensure GeminiGenerator implements the interface.
var _ refgen.ContentGenerator = (*GeminiGenerator)(nil)

// Option customizes the underlying client.
type Option func(*genai.ClientConfig)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPClient = c
	}
}

// WithTimeout bounds every API call. Zero leaves the SDK default.
// It has no effect when combined with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(cfg *genai.ClientConfig) {
		if d > 0 && cfg.HTTPClient == nil {
			cfg.HTTPClient = &http.Client{Timeout: d}
		}
	}
}

// New creates a new GeminiGenerator from a ProviderConfig.
// An empty APIKey is rejected; the SDK's own environment lookup is not used.
func New(ctx context.Context, config *refgen.ProviderConfig, opts ...Option) (*GeminiGenerator, error) {
	if config == nil || config.APIKey == "" {
		return nil, refgen.ErrCredentialMissing
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}
	for _, opt := range opts {
		opt(clientCfg)
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
	}, nil
}

// NewWithAPIKey creates a generator with an API key for Gemini API.
func NewWithAPIKey(ctx context.Context, apiKey string, opts ...Option) (*GeminiGenerator, error) {
	return New(ctx, &refgen.ProviderConfig{
		Provider: refgen.ProviderGeminiAPI,
		APIKey:   apiKey,
	}, opts...)
}

// Submit sends parts as a single user turn. Every failure of the call is
// returned as a *refgen.TransportError; quota failures also carry a
// *refgen.RateLimitError.
func (g *GeminiGenerator) Submit(ctx context.Context, model string, parts []refgen.Part, config *refgen.GenerateConfig) (*refgen.Response, error) {
	if config == nil {
		config = refgen.DefaultConfig()
	}
	if model == "" {
		model = APIModelNanoBananaPro
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: toGenaiParts(parts),
		},
	}

	result, err := g.client.Models.GenerateContent(ctx, model, contents, buildGenerateContentConfig(config))
	if err != nil {
		return nil, &refgen.TransportError{
			Model: model,
			Err:   checkRateLimitError(err, model),
		}
	}

	return fromGenaiResponse(result), nil
}

// Models returns the model definitions supported by this provider.
func (g *GeminiGenerator) Models() []refgen.ModelInfo {
	return []refgen.ModelInfo{
		NanoBananaProInfo,
		NanoBananaInfo,
	}
}

// Close releases any resources held by the generator.
func (g *GeminiGenerator) Close() error {
	// The genai.Client doesn't require explicit closing in the current SDK
	return nil
}

// buildGenerateContentConfig converts our config to Gemini's GenerateContentConfig format.
func buildGenerateContentConfig(config *refgen.GenerateConfig) *genai.GenerateContentConfig {
	genConfig := &genai.GenerateContentConfig{
		// Enable image output
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	if config.Resolution != "" || config.AspectRatio != refgen.AspectRatioAuto {
		genConfig.ImageConfig = &genai.ImageConfig{
			ImageSize:   config.Resolution.String(),
			AspectRatio: config.AspectRatio.String(),
		}
	}

	if config.Temperature != nil {
		genConfig.Temperature = genai.Ptr(*config.Temperature)
	}

	return genConfig
}

// toGenaiParts converts request parts, preserving order.
func toGenaiParts(parts []refgen.Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.IsText() {
			out = append(out, &genai.Part{Text: p.Text})
			continue
		}
		out = append(out, &genai.Part{
			InlineData: &genai.Blob{
				Data:     p.Image.Data,
				MIMEType: p.Image.MIMEType,
			},
		})
	}
	return out
}

// fromGenaiResponse flattens all candidates into one ordered part list.
// The finish reason is taken from the first candidate that reports one.
func fromGenaiResponse(result *genai.GenerateContentResponse) *refgen.Response {
	resp := &refgen.Response{}
	if result == nil {
		return resp
	}

	for _, candidate := range result.Candidates {
		if candidate == nil {
			continue
		}
		if resp.FinishReason == "" && candidate.FinishReason != "" {
			resp.FinishReason = string(candidate.FinishReason)
		}
		if candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			rp := refgen.ResponsePart{
				Text:    part.Text,
				Thought: part.Thought,
			}
			if part.InlineData != nil {
				rp.InlineData = &refgen.Blob{
					Data:     part.InlineData.Data,
					MIMEType: part.InlineData.MIMEType,
				}
			}
			resp.Parts = append(resp.Parts, rp)
		}
	}

	if result.PromptFeedback != nil {
		resp.BlockReason = string(result.PromptFeedback.BlockReason)
	}

	// Parse usage metadata if available
	if result.UsageMetadata != nil {
		resp.Usage = &refgen.UsageMetadata{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CandidatesTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}

	return resp
}

// checkRateLimitError checks if an error from the Gemini API is a rate limit error.
// If so, it wraps it in a RateLimitError for standardized handling; otherwise returns the original error.
func checkRateLimitError(err error, model string) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	if apiErr.Code != http.StatusTooManyRequests && apiErr.Status != "RESOURCE_EXHAUSTED" {
		return err
	}

	return &refgen.RateLimitError{
		RetryAfter: 60 * time.Second, // Default; API doesn't reliably provide Retry-After
		LimitType:  "requests",
		Model:      model,
		Err:        err,
	}
}
