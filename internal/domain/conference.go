package domain

import (
	"context"
	"time"
)

// Conference defaults applied on creation when the form leaves them empty.
const (
	DefaultCity         = "Default City"
	DefaultMaxAttendees = 0
)

// DefaultTopics is applied on creation when no topics are given.
func DefaultTopics() []string {
	return []string{"Default", "Topic"}
}

// Conference is owned by the profile of its organizer.
// swagger:model Conference
type Conference struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	OrganizerID    string     `json:"organizer_id"`
	Topics         []string   `json:"topics"`
	City           string     `json:"city"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Month          int        `json:"month"`
	MaxAttendees   int        `json:"max_attendees"`
	SeatsAvailable int        `json:"seats_available"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ConferenceWithOrganizer bundles a conference with the organizer's display name.
type ConferenceWithOrganizer struct {
	Conference           *Conference
	OrganizerDisplayName string
}

// ConferenceUpdate carries the owner-modifiable fields. Nil fields are unchanged.
type ConferenceUpdate struct {
	Name         *string
	Description  *string
	Topics       []string
	City         *string
	StartDate    *time.Time
	EndDate      *time.Time
	MaxAttendees *int
}

// ConferenceRepository defines storage for conferences.
type ConferenceRepository interface {
	Create(ctx context.Context, c *Conference) error
	GetByID(ctx context.Context, id string) (*Conference, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Conference, error)
	ListByOrganizerID(ctx context.Context, organizerID string) ([]*Conference, error)
	// Query runs a compiled filter plan.
	Query(ctx context.Context, plan *QueryPlan) ([]*Conference, error)
	// ListNearlySoldOut returns conferences with 0 < seats_available <= maxSeats, ordered by name.
	ListNearlySoldOut(ctx context.Context, maxSeats int) ([]*Conference, error)
	// Modify locks the conference row, applies fn and persists the result if fn returns nil.
	Modify(ctx context.Context, id string, fn func(c *Conference) error) (*Conference, error)
}

// ConferenceService defines conference CRUD and querying.
type ConferenceService interface {
	CreateConference(ctx context.Context, identity Identity, c *Conference) (*Conference, error)
	UpdateConference(ctx context.Context, userID, conferenceKey string, update ConferenceUpdate) (*ConferenceWithOrganizer, error)
	GetConference(ctx context.Context, conferenceKey string) (*ConferenceWithOrganizer, error)
	QueryConferences(ctx context.Context, filters []ConferenceFilter, page PaginationParams) ([]*ConferenceWithOrganizer, error)
	ListConferencesCreated(ctx context.Context, identity Identity) ([]*ConferenceWithOrganizer, error)
	ListConferencesToAttend(ctx context.Context, identity Identity) ([]*ConferenceWithOrganizer, error)
}
