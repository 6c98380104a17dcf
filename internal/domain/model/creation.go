package model

import (
	"time"

	"buzzugc/internal/domain"
)

// Creation is the persisted record of one completed generation. Monthly quota
// usage is derived by counting these per user inside the calendar month.
type Creation struct {
	ID             string // UUID
	UserID         string
	AvatarImageURL string
	Script         string
	VideoURL       string
	CreatedAt      time.Time
}

func NewCreation(id, userID, avatarImageURL, script, videoURL string) (*Creation, error) {
	if id == "" || userID == "" || videoURL == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Creation{
		ID:             id,
		UserID:         userID,
		AvatarImageURL: avatarImageURL,
		Script:         script,
		VideoURL:       videoURL,
		CreatedAt:      time.Now(),
	}, nil
}
