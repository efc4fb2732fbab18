package domain

import "context"

// Speaker is keyed by email and accumulates the sessions it speaks at.
// swagger:model Speaker
type Speaker struct {
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	SessionIDs []string `json:"session_ids"`
}

// SpeakerRepository defines storage for speakers. Speakers are upserted by SessionRepository.Create.
type SpeakerRepository interface {
	GetByEmail(ctx context.Context, email string) (*Speaker, error)
}
