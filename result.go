package refgen

import "time"

// Blob is inline binary data in a response part.
type Blob struct {
	Data     []byte
	MIMEType string
}

// ResponsePart is one part of a model response. A part may carry text,
// inline data, both, or neither.
type ResponsePart struct {
	Text string

	// Thought marks reasoning text that is not part of the answer.
	Thought bool

	InlineData *Blob
}

// Response is the raw multi-part answer of a ContentGenerator.
type Response struct {
	Parts []ResponsePart

	// FinishReason is the provider's reason for stopping (e.g. "STOP", "SAFETY").
	FinishReason string

	// BlockReason is set when the prompt itself was blocked.
	BlockReason string

	// Usage contains token/billing information, when reported
	Usage *UsageMetadata
}

// UsageMetadata contains usage information for billing and monitoring.
type UsageMetadata struct {
	PromptTokens     int
	CandidatesTokens int
	TotalTokens      int
}

// GeneratedImage is an image returned by the model.
type GeneratedImage struct {
	// Data contains the raw image bytes
	Data []byte

	// MIMEType of the generated image
	MIMEType string
}

// GenerationOutcome describes one completed generation.
type GenerationOutcome struct {
	// OutputPath is where the image was requested to be written
	OutputPath string

	// Location is where storage reports the image was written
	Location string

	Image *GeneratedImage

	// Text is any text the model returned with the image
	Text string

	Usage    *UsageMetadata
	Duration time.Duration
}
