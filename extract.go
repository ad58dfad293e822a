package refgen

import "strings"

// GenerationResult is either an image (Image != nil) or no image, in which
// case Text holds whatever the model said instead. "No image" is an ordinary
// outcome, not an error; call Err to turn it into one.
type GenerationResult struct {
	Image *GeneratedImage

	// Text is the concatenation of all non-thought text parts.
	Text string

	FinishReason string
}

// HasImage reports whether the response contained an inline image.
func (r GenerationResult) HasImage() bool {
	return r.Image != nil
}

// Err returns a *NoImageError when there is no image, nil otherwise.
func (r GenerationResult) Err() error {
	if r.HasImage() {
		return nil
	}
	return &NoImageError{Text: r.Text, FinishReason: r.FinishReason}
}

// ExtractImage scans parts in order and returns the first inline image.
// Parts after the first image never replace it. A nil or empty response
// yields no image.
func ExtractImage(resp *Response) GenerationResult {
	var result GenerationResult
	if resp == nil {
		return result
	}

	result.FinishReason = resp.FinishReason
	if result.FinishReason == "" {
		result.FinishReason = resp.BlockReason
	}

	var text strings.Builder
	for _, part := range resp.Parts {
		if part.Text != "" && !part.Thought {
			text.WriteString(part.Text)
		}
		if result.Image == nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			result.Image = &GeneratedImage{
				Data:     part.InlineData.Data,
				MIMEType: part.InlineData.MIMEType,
			}
		}
	}
	result.Text = text.String()
	return result
}
