package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type VideoJobState string

const (
	VideoJobStateSubmitted  VideoJobState = "submitted"
	VideoJobStateQueued     VideoJobState = "queued"
	VideoJobStateInProgress VideoJobState = "in_progress"
	VideoJobStateCompleted  VideoJobState = "completed"
	VideoJobStateFailed     VideoJobState = "failed"
	VideoJobStateTimedOut   VideoJobState = "timed_out"
)

// ImageReference points at the avatar frame: either inline data (a data: URL)
// or a resolvable HTTP URL. At least one must be set.
type ImageReference struct {
	DataURL string
	URL     string
}

func (r ImageReference) IsZero() bool { return r.DataURL == "" && r.URL == "" }

// VideoJob tracks one in-flight synthesis request. Jobs are not persisted as
// queryable entities; the struct exists for state transitions, logging and
// the correlation token surfaced on failure.
type VideoJob struct {
	ID                string // ULID, assigned locally
	Image             ImageReference
	Script            string
	State             VideoJobState
	ProviderRequestID string // assigned by the provider once queued
	ResultURL         string // set only when State == Completed
	CreatedAt         time.Time
}

func NewVideoJob(image ImageReference, script string) *VideoJob {
	return &VideoJob{
		ID:        ulid.Make().String(),
		Image:     image,
		Script:    script,
		State:     VideoJobStateSubmitted,
		CreatedAt: time.Now(),
	}
}

func (j *VideoJob) MarkQueued(requestID string) {
	j.ProviderRequestID = requestID
	j.State = VideoJobStateQueued
}

func (j *VideoJob) MarkCompleted(url string) {
	j.ResultURL = url
	j.State = VideoJobStateCompleted
}

func (j *VideoJob) MarkFailed()   { j.State = VideoJobStateFailed }
func (j *VideoJob) MarkTimedOut() { j.State = VideoJobStateTimedOut }

// Terminal reports whether polling may stop.
func (j *VideoJob) Terminal() bool {
	switch j.State {
	case VideoJobStateCompleted, VideoJobStateFailed, VideoJobStateTimedOut:
		return true
	}
	return false
}
