package refgen

import (
	"errors"
	"fmt"
	"time"
)

// Model is a model identifier: either a registered alias (e.g. "nano-banana-pro")
// or a raw API model name (e.g. "gemini-3-pro-image-preview").
type Model string

// Resolution represents the output resolution for generated images.
type Resolution string

const (
	Resolution1K Resolution = "1K"
	Resolution2K Resolution = "2K"
	Resolution4K Resolution = "4K"
)

// AspectRatio represents the aspect ratio for generated images.
type AspectRatio string

const (
	AspectRatio1x1  AspectRatio = "1:1"
	AspectRatio16x9 AspectRatio = "16:9"
	AspectRatio9x16 AspectRatio = "9:16"
	AspectRatio4x3  AspectRatio = "4:3"
	AspectRatio3x4  AspectRatio = "3:4"
	AspectRatio2x3  AspectRatio = "2:3"  // Photo portrait
	AspectRatio3x2  AspectRatio = "3:2"  // Photo landscape (35mm film ratio)
	AspectRatio4x5  AspectRatio = "4:5"  // Instagram portrait
	AspectRatio5x4  AspectRatio = "5:4"  // Large format photo
	AspectRatio21x9 AspectRatio = "21:9" // Ultrawide/cinematic
	AspectRatioAuto AspectRatio = ""
)

var (
	ErrUnsupportedAspectRatio = errors.New("unsupported aspect ratio")
	ErrUnsupportedResolution  = errors.New("unsupported resolution")
)

// AllAspectRatios lists every aspect ratio the image models accept, in the
// order they are presented to users.
var AllAspectRatios = []AspectRatio{
	AspectRatio1x1, AspectRatio2x3, AspectRatio3x2, AspectRatio3x4, AspectRatio4x3,
	AspectRatio4x5, AspectRatio5x4, AspectRatio9x16, AspectRatio16x9, AspectRatio21x9,
}

// AllResolutions lists every output resolution the image models accept.
var AllResolutions = []Resolution{Resolution1K, Resolution2K, Resolution4K}

// ParseAspectRatio converts user input into an AspectRatio.
// An empty string yields AspectRatioAuto.
func ParseAspectRatio(s string) (AspectRatio, error) {
	if s == "" {
		return AspectRatioAuto, nil
	}
	for _, ar := range AllAspectRatios {
		if string(ar) == s {
			return ar, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedAspectRatio, s)
}

// ParseResolution converts user input into a Resolution.
// An empty string leaves the choice to the model.
func ParseResolution(s string) (Resolution, error) {
	if s == "" {
		return "", nil
	}
	for _, r := range AllResolutions {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedResolution, s)
}

// GenerateConfig holds the per-call options handed to a ContentGenerator.
type GenerateConfig struct {
	// Model is the provider's API model name.
	Model Model

	// Resolution of the output image (1K, 2K, 4K)
	Resolution Resolution

	// AspectRatio of the output image
	AspectRatio AspectRatio

	// Temperature controls randomness (0.0-2.0)
	Temperature *float32

	// WaitOnRateLimit, if true, causes the Manager to wait for a local rate
	// limit slot before submitting. If false, a RateLimitError is returned
	// immediately. Waiting never re-sends a request.
	WaitOnRateLimit bool

	// MaxWaitDuration is the maximum time to wait when WaitOnRateLimit is true.
	// Zero means no limit.
	MaxWaitDuration time.Duration
}

// DefaultConfig returns a GenerateConfig with sensible defaults.
func DefaultConfig() *GenerateConfig {
	return &GenerateConfig{
		Model:           ModelDefault,
		Resolution:      Resolution2K,
		AspectRatio:     AspectRatio1x1,
		WaitOnRateLimit: true,
	}
}

// String returns the string representation for API calls.
func (r Resolution) String() string {
	return string(r)
}

// String returns the string representation for API calls.
func (a AspectRatio) String() string {
	return string(a)
}

// String returns the model identifier.
func (m Model) String() string {
	return string(m)
}
