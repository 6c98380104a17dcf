package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"buzzugc/internal/domain"
	"buzzugc/internal/domain/ports/adapter"
)

var _ adapter.VideoTransport = (*FalTransport)(nil)

// FalTransport talks to the provider directly, authenticated with the
// server-held key. It tries the synchronous endpoint first; when that yields
// no immediate result it submits to the queue endpoint and polls the status
// surface at a fixed interval until a terminal status or the wall-clock
// timeout. No backoff and no jitter: the provider SLA makes a plain
// sleep-then-check loop good enough.
type FalTransport struct {
	apiKey       string
	syncURL      string
	queueURL     string
	pollInterval time.Duration
	pollTimeout  time.Duration
	client       *http.Client
	log          *zerolog.Logger
}

func NewFalTransport(apiKey, syncURL, queueURL string, pollInterval, pollTimeout time.Duration, logger *zerolog.Logger) *FalTransport {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if pollTimeout <= 0 {
		pollTimeout = 90 * time.Second
	}
	return &FalTransport{
		apiKey:       apiKey,
		syncURL:      syncURL,
		queueURL:     queueURL,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
		client:       &http.Client{},
		log:          logger,
	}
}

func (t *FalTransport) Name() string { return "fal-direct" }

type falPayload struct {
	Input falInput `json:"input"`
}

type falInput struct {
	Prompt        string `json:"prompt"`
	ImageURL      string `json:"image_url"`
	Duration      string `json:"duration"`
	GenerateAudio bool   `json:"generate_audio"`
	Resolution    string `json:"resolution"`
}

type falQueueResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

type falStatusResponse struct {
	Status string `json:"status"` // IN_QUEUE | IN_PROGRESS | COMPLETED | FAILED
	Error  string `json:"error"`
}

func (t *FalTransport) payload(req adapter.GenerationRequest) falPayload {
	imageURL := req.ImageDataURL
	if imageURL == "" {
		imageURL = req.ImageURL
	}
	return falPayload{Input: falInput{
		Prompt:        req.Prompt,
		ImageURL:      imageURL,
		Duration:      req.Duration,
		GenerateAudio: req.GenerateAudio,
		Resolution:    req.Resolution,
	}}
}

func (t *FalTransport) Generate(ctx context.Context, req adapter.GenerationRequest) (*adapter.GenerationResult, error) {
	// Synchronous attempt: some deployments answer with the finished video.
	decoded, err := t.post(ctx, t.syncURL, t.payload(req))
	if err == nil {
		if url := extractVideoURL(decoded); url != "" {
			return &adapter.GenerationResult{VideoURL: url}, nil
		}
	} else {
		t.log.Debug().Err(err).Msg("sync endpoint did not answer, queueing")
	}

	return t.queueAndPoll(ctx, req)
}

func (t *FalTransport) queueAndPoll(ctx context.Context, req adapter.GenerationRequest) (*adapter.GenerationResult, error) {
	decoded, err := t.post(ctx, t.queueURL, t.payload(req))
	if err != nil {
		return nil, fmt.Errorf("queue submit: %w", err)
	}
	var queued falQueueResponse
	remarshal(decoded, &queued)
	if queued.RequestID == "" {
		return nil, fmt.Errorf("queue submit: no request id in response")
	}
	t.log.Info().Str("request_id", queued.RequestID).Msg("job queued")

	deadline := time.Now().Add(t.pollTimeout)
	for {
		if time.Now().After(deadline) {
			return nil, &domain.GenerationError{
				Err:       domain.ErrTimeout,
				Transport: t.Name(),
				RequestID: queued.RequestID,
				Detail:    "the job may still complete, retry later with the request id",
			}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(t.pollInterval):
		}

		status, err := t.getStatus(ctx, queued.RequestID)
		if err != nil {
			// Transient poll failure: the deadline bounds how long we keep trying.
			t.log.Warn().Err(err).Str("request_id", queued.RequestID).Msg("status poll failed")
			continue
		}

		switch status.Status {
		case "COMPLETED":
			return t.fetchResult(ctx, queued.RequestID)
		case "FAILED":
			return nil, &domain.GenerationError{
				Err:       domain.ErrProviderFailure,
				Transport: t.Name(),
				RequestID: queued.RequestID,
				Detail:    status.Error,
			}
		}
		// IN_QUEUE / IN_PROGRESS: keep polling
	}
}

func (t *FalTransport) fetchResult(ctx context.Context, requestID string) (*adapter.GenerationResult, error) {
	decoded, err := t.get(ctx, t.queueURL+"/requests/"+requestID)
	if err != nil {
		return nil, fmt.Errorf("fetch result: %w", err)
	}
	url := extractVideoURL(decoded)
	if url == "" {
		return nil, &domain.GenerationError{
			Err:       domain.ErrMissingResult,
			Transport: t.Name(),
			RequestID: requestID,
		}
	}
	return &adapter.GenerationResult{VideoURL: url, RequestID: requestID}, nil
}

func (t *FalTransport) getStatus(ctx context.Context, requestID string) (*falStatusResponse, error) {
	decoded, err := t.get(ctx, t.queueURL+"/requests/"+requestID+"/status")
	if err != nil {
		return nil, err
	}
	var status falStatusResponse
	remarshal(decoded, &status)
	return &status, nil
}

func (t *FalTransport) post(ctx context.Context, url string, payload falPayload) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+t.apiKey)
	return t.do(req)
}

func (t *FalTransport) get(ctx context.Context, url string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Key "+t.apiKey)
	return t.do(req)
}

func (t *FalTransport) do(req *http.Request) (map[string]any, error) {
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, truncate(raw, 200))
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	return decoded, nil
}

// remarshal projects a decoded generic map onto a typed struct. The provider
// mixes known and drifting fields; the generic map is kept for URL
// extraction while typed views read the stable parts.
func remarshal(m map[string]any, out any) {
	b, err := json.Marshal(m)
	if err != nil {
		return
	}
	_ = json.Unmarshal(b, out)
}
