package video

import (
	"context"

	"buzzugc/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.VideoTransport = (*limitedTransport)(nil)

type limitedTransport struct {
	inner adapter.VideoTransport
	sem   chan struct{}
}

// NewLimitedTransport bounds concurrent provider calls with a semaphore. A
// generation can hold a connection for up to the poll timeout, so an
// unbounded fan-out would pile up slow requests under load.
func NewLimitedTransport(inner adapter.VideoTransport, maxConcurrent int) adapter.VideoTransport {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedTransport{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedTransport) Name() string { return l.inner.Name() }

func (l *limitedTransport) Generate(ctx context.Context, req adapter.GenerationRequest) (*adapter.GenerationResult, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-l.sem }()
	return l.inner.Generate(ctx, req)
}
