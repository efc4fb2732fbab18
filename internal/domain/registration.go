package domain

import "context"

// RegistrationStore runs seat-accounting read-modify-write cycles atomically.
type RegistrationStore interface {
	// UpdateRegistration locks the profile and conference rows (in that order),
	// calls fn with both and persists them in the same transaction when fn
	// returns (true, nil). When fn returns (false, nil) nothing is written.
	// Returns ErrNotFound if either row is missing.
	UpdateRegistration(ctx context.Context, profileID, conferenceID string, fn func(p *Profile, c *Conference) (bool, error)) error
}

// RegistrationService registers and unregisters users for conferences.
type RegistrationService interface {
	Register(ctx context.Context, identity Identity, conferenceKey string) (bool, error)
	Unregister(ctx context.Context, identity Identity, conferenceKey string) (bool, error)
}
