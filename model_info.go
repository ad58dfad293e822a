package refgen

import (
	"fmt"
	"slices"
)

// ModelCapabilities describes what features a model supports.
type ModelCapabilities struct {
	SupportsTextToImage  bool
	SupportsImageEditing bool
	SupportsMultiImage   bool // Multiple input images per request

	// Limits
	MaxInputImages int // Max images per request (e.g., 14 for Gemini)
}

// RateLimits defines rate limiting parameters for a model.
type RateLimits struct {
	TokensPerMinute   int
	RequestsPerMinute int
	TokensPerDay      int // 0 = unlimited
}

// Pricing defines cost information for a model.
type Pricing struct {
	InputTokensPerMillion  float64
	OutputTokensPerMillion float64
	ImageGenerationCost    float64 // Per image (if applicable)
}

// ImageConstraints defines supported image configurations for a model.
type ImageConstraints struct {
	SupportedAspectRatios []AspectRatio
	SupportedResolutions  []Resolution
}

// ModelInfo contains complete metadata for a model.
type ModelInfo struct {
	// Identity
	Name         string   // Public alias (e.g., "nano-banana-pro")
	Provider     Provider // Which provider serves this model
	APIModelName string   // Actual API name (e.g., "gemini-3-pro-image-preview")

	Capabilities ModelCapabilities

	ContextLength    int
	ImageConstraints ImageConstraints

	RateLimits RateLimits

	Pricing Pricing
}

// CheckOutput verifies that the model can produce the requested aspect ratio
// and resolution. Empty values always pass; so do models with no constraints.
func (info *ModelInfo) CheckOutput(ar AspectRatio, res Resolution) error {
	c := info.ImageConstraints
	if ar != AspectRatioAuto && len(c.SupportedAspectRatios) > 0 && !slices.Contains(c.SupportedAspectRatios, ar) {
		return fmt.Errorf("%w: %s does not support %s", ErrUnsupportedAspectRatio, info.Name, ar)
	}
	if res != "" && len(c.SupportedResolutions) > 0 && !slices.Contains(c.SupportedResolutions, res) {
		return fmt.Errorf("%w: %s does not support %s", ErrUnsupportedResolution, info.Name, res)
	}
	return nil
}

// EstimateCost returns an approximate USD cost from token usage.
func (info *ModelInfo) EstimateCost(usage *UsageMetadata) float64 {
	if usage == nil {
		return 0
	}
	in := float64(usage.PromptTokens) / 1e6 * info.Pricing.InputTokensPerMillion
	out := float64(usage.CandidatesTokens) / 1e6 * info.Pricing.OutputTokensPerMillion
	return in + out + info.Pricing.ImageGenerationCost
}
