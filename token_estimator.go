package refgen

import (
	"math"
)

// imageTokens is the approximate prompt cost of one inline input image.
const imageTokens = 258

// TokenEstimator provides configurable token estimation strategies
type TokenEstimator interface {
	EstimateTokens(text string) int
}

// SimpleTokenEstimator - fast approximation of token usage for rate limiting
type SimpleTokenEstimator struct {
	SafetyMargin float64
}

func NewSimpleTokenEstimator() *SimpleTokenEstimator {
	return &SimpleTokenEstimator{
		SafetyMargin: 1.2,
	}
}

func (e *SimpleTokenEstimator) EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	charCount := len([]rune(text))
	tokenEstimate := float64(charCount) / 4.0
	tokenEstimate *= e.SafetyMargin

	return int(math.Ceil(tokenEstimate)) + 3
}

// estimatePartsTokens estimates the prompt tokens of a whole payload.
func estimatePartsTokens(e TokenEstimator, parts []Part) int {
	total := 0
	for _, p := range parts {
		if p.IsText() {
			total += e.EstimateTokens(p.Text)
		} else {
			total += imageTokens
		}
	}
	return total
}
