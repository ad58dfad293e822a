package gemini

import "github.com/mhpenta/refgen"

// NanoBananaProInfo is the model info for Gemini 3 Pro Image (nano-banana-pro).
//
// Nano Banana Pro (official name: Gemini 3 Pro Image) is Google DeepMind's
// image generation and editing model, built on Gemini 3 Pro. It composes up
// to 14 reference images into one output.
var NanoBananaProInfo = refgen.ModelInfo{
	Name:         string(refgen.ModelNanoBananaPro),
	Provider:     refgen.ProviderGeminiAPI,
	APIModelName: APIModelNanoBananaPro,

	Capabilities: refgen.ModelCapabilities{
		SupportsTextToImage:  true,
		SupportsImageEditing: true,
		SupportsMultiImage:   true,
		MaxInputImages:       refgen.MaxReferenceImages,
	},

	ContextLength: 1048576, // 1M tokens

	ImageConstraints: refgen.ImageConstraints{
		SupportedAspectRatios: refgen.AllAspectRatios,
		SupportedResolutions:  refgen.AllResolutions,
	},

	RateLimits: refgen.RateLimits{
		TokensPerMinute:   4000000,
		RequestsPerMinute: 360,
		TokensPerDay:      1000000000,
	},

	// Image output is priced at ~$120/million tokens.
	// Approximate costs: 4K image ~$0.24, 1K/2K image ~$0.134.
	Pricing: refgen.Pricing{
		InputTokensPerMillion:  2.00,
		OutputTokensPerMillion: 120.00,
	},
}

// NanoBananaInfo is the model info for Gemini 2.5 Flash Image (nano-banana).
var NanoBananaInfo = refgen.ModelInfo{
	Name:         string(refgen.ModelNanoBanana),
	Provider:     refgen.ProviderGeminiAPI,
	APIModelName: APIModelNanoBanana,

	Capabilities: refgen.ModelCapabilities{
		SupportsTextToImage:  true,
		SupportsImageEditing: true,
		SupportsMultiImage:   true,
		MaxInputImages:       3, // Works best with up to 3
	},

	ContextLength: 32768,

	ImageConstraints: refgen.ImageConstraints{
		SupportedAspectRatios: refgen.AllAspectRatios,

		// Flash Image only supports ~1024px output (1K)
		SupportedResolutions: []refgen.Resolution{
			refgen.Resolution1K,
		},
	},

	RateLimits: refgen.RateLimits{
		TokensPerMinute:   4000000,
		RequestsPerMinute: 500, // ~500 RPM for Tier 1
		TokensPerDay:      1000000000,
	},

	Pricing: refgen.Pricing{
		InputTokensPerMillion:  0.30,
		OutputTokensPerMillion: 30.00,
	},
}
