package adapter

import "context"

// GenerationRequest is the provider-independent payload for one synthesis
// attempt. Exactly one transport attempt consumes it; the orchestrator reuses
// the same value across fallback paths.
type GenerationRequest struct {
	Prompt        string // fixed template with the script interpolated
	Script        string // raw script, relays re-compose their own prompt
	ImageDataURL  string // inline image, data: URL
	ImageURL      string // resolvable image URL
	Duration      string // e.g. "8s"
	Resolution    string // e.g. "720p"
	GenerateAudio bool
}

// GenerationResult is a terminal success.
type GenerationResult struct {
	VideoURL  string
	RequestID string // provider correlation token, empty on relay paths
}

// VideoTransport is one reachable path to the synthesis provider. Transports
// are tried in a fixed order with uniform error handling; adding or removing
// a path is a wiring change only.
type VideoTransport interface {
	Name() string
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
}
