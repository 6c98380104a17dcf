package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"buzzugc/internal/domain/ports/adapter"
)

var _ adapter.VideoTransport = (*RelayTransport)(nil)

// RelayTransport submits to a server-side relay that forwards to the
// provider, keeping provider credentials off this hop. Two deployments of
// the same relay contract exist (same-origin and function host); both are
// wired as separate instances of this type.
type RelayTransport struct {
	name   string
	url    string
	client *http.Client
}

func NewRelayTransport(name, url string) *RelayTransport {
	return &RelayTransport{
		name:   name,
		url:    url,
		client: &http.Client{},
	}
}

func (t *RelayTransport) Name() string { return t.name }

type relayRequest struct {
	ImageDataURL   string `json:"imageDataUrl,omitempty"`
	AvatarImageURL string `json:"avatarImageUrl,omitempty"`
	Script         string `json:"script"`
}

type relayResponse struct {
	VideoURL string `json:"videoUrl"`
	Error    string `json:"error"`
}

// Generate posts {image, script} and expects {videoUrl}. Any non-OK status
// or empty URL is a plain error so the orchestrator falls through to the
// next path.
func (t *RelayTransport) Generate(ctx context.Context, req adapter.GenerationRequest) (*adapter.GenerationResult, error) {
	body, err := json.Marshal(relayRequest{
		ImageDataURL:   req.ImageDataURL,
		AvatarImageURL: req.ImageURL,
		Script:         req.Script,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal relay request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create relay request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read relay response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relay returned %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var out relayResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode relay response: %w", err)
	}
	if out.VideoURL == "" {
		if out.Error != "" {
			return nil, fmt.Errorf("relay error: %s", out.Error)
		}
		return nil, fmt.Errorf("relay response missing video URL")
	}
	return &adapter.GenerationResult{VideoURL: out.VideoURL}, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
