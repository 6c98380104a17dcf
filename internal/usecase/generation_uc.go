// File: internal/usecase/generation_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"buzzugc/internal/domain"
	"buzzugc/internal/domain/model"
	"buzzugc/internal/domain/ports/adapter"
	"buzzugc/internal/infra/metrics"
)

// MaxScriptLength mirrors the script box in the creation hub.
const MaxScriptLength = 5000

// promptTemplate frames every generation the same way; only the script text
// is interpolated.
const promptTemplate = `Create a high-quality UGC (User-Generated Content) style video in a 9:16 vertical format. The person in the image should appear as the speaker, looking directly at the camera with natural expressions. The video should feature the person speaking the following text with clear lip-sync and natural gestures: "%s". The setting should be casual and authentic, like a social media influencer or content creator speaking to their audience. Ensure good lighting and a clean background suitable for social media platforms like TikTok or Instagram.`

// GenerationUseCase turns (avatar image, script) into a playable video URL.
// It hides provider request-shape variance and transient failures behind an
// ordered list of transports, tried in sequence, first success wins. Each
// call is independent: no dedup of identical requests, no caching, and no
// remote cancel (the provider keeps processing abandoned jobs).
type GenerationUseCase struct {
	transports []adapter.VideoTransport
	log        *zerolog.Logger
}

func NewGenerationUseCase(transports []adapter.VideoTransport, logger *zerolog.Logger) *GenerationUseCase {
	return &GenerationUseCase{transports: transports, log: logger}
}

func composePrompt(script string) string {
	return fmt.Sprintf(promptTemplate, script)
}

// GenerateVideo validates inputs, then walks the transport chain. The
// returned job carries the result URL on success; on failure the error is a
// *domain.GenerationError whose sentinel tells the caller whether to retry.
func (uc *GenerationUseCase) GenerateVideo(ctx context.Context, image model.ImageReference, script string) (*model.VideoJob, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil, &domain.GenerationError{Err: domain.ErrInvalidInput, Detail: "script is empty"}
	}
	if len(script) > MaxScriptLength {
		return nil, &domain.GenerationError{Err: domain.ErrInvalidInput, Detail: "script too long"}
	}
	if image.IsZero() {
		return nil, &domain.GenerationError{Err: domain.ErrInvalidInput, Detail: "avatar image missing"}
	}

	job := model.NewVideoJob(image, script)
	req := adapter.GenerationRequest{
		Prompt:        composePrompt(script),
		Script:        script,
		ImageDataURL:  image.DataURL,
		ImageURL:      image.URL,
		Duration:      "8s",
		Resolution:    "720p",
		GenerateAudio: true,
	}

	var lastErr error
	for _, t := range uc.transports {
		start := time.Now()
		res, err := t.Generate(ctx, req)
		if err == nil && res != nil && res.VideoURL != "" {
			if res.RequestID != "" {
				job.MarkQueued(res.RequestID)
			}
			job.MarkCompleted(res.VideoURL)
			metrics.ObserveGeneration(t.Name(), "success", time.Since(start))
			uc.log.Info().Str("job_id", job.ID).Str("transport", t.Name()).
				Dur("duration", time.Since(start)).Msg("video generated")
			return job, nil
		}
		if err == nil {
			err = &domain.GenerationError{Err: domain.ErrMissingResult, Transport: t.Name()}
		}
		metrics.ObserveGeneration(t.Name(), outcomeLabel(err), time.Since(start))
		uc.log.Warn().Err(err).Str("job_id", job.ID).Str("transport", t.Name()).
			Msg("transport failed, trying next")
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	var genErr *domain.GenerationError
	if errors.As(lastErr, &genErr) {
		switch {
		case errors.Is(genErr.Err, domain.ErrTimeout):
			job.ProviderRequestID = genErr.RequestID
			job.MarkTimedOut()
		default:
			job.ProviderRequestID = genErr.RequestID
			job.MarkFailed()
		}
		return nil, genErr
	}

	// Every path failed before any job was accepted by the provider.
	job.MarkFailed()
	detail := "no transports configured"
	if lastErr != nil {
		detail = lastErr.Error()
	}
	return nil, &domain.GenerationError{Err: domain.ErrProviderUnavailable, Detail: detail}
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrProviderFailure):
		return "provider_failure"
	case errors.Is(err, domain.ErrMissingResult):
		return "missing_result"
	default:
		return "unavailable"
	}
}
