package refgen

import "context"

// ContentGenerator is the remote generation capability: submit ordered
// multi-part content, receive zero or more response parts.
// Implement this interface to add support for new models or providers.
type ContentGenerator interface {
	// Submit sends parts to model in a single call. Implementations must not
	// retry; any network, auth or quota failure is returned as a *TransportError.
	Submit(ctx context.Context, model string, parts []Part, genConfig *GenerateConfig) (*Response, error)

	// Models returns the model definitions supported by this provider.
	Models() []ModelInfo

	// Close releases any resources held by the generator.
	Close() error
}
