package domain

import (
	"context"
	"slices"
	"strings"
)

// TeeShirtSize is the shirt size stored on a profile.
type TeeShirtSize string

const (
	TeeShirtNotSpecified TeeShirtSize = "NOT_SPECIFIED"
	TeeShirtXSM          TeeShirtSize = "XS_M"
	TeeShirtXSW          TeeShirtSize = "XS_W"
	TeeShirtSM           TeeShirtSize = "S_M"
	TeeShirtSW           TeeShirtSize = "S_W"
	TeeShirtMM           TeeShirtSize = "M_M"
	TeeShirtMW           TeeShirtSize = "M_W"
	TeeShirtLM           TeeShirtSize = "L_M"
	TeeShirtLW           TeeShirtSize = "L_W"
	TeeShirtXLM          TeeShirtSize = "XL_M"
	TeeShirtXLW          TeeShirtSize = "XL_W"
	TeeShirtXXLM         TeeShirtSize = "XXL_M"
	TeeShirtXXLW         TeeShirtSize = "XXL_W"
	TeeShirtXXXLM        TeeShirtSize = "XXXL_M"
	TeeShirtXXXLW        TeeShirtSize = "XXXL_W"
)

var teeShirtSizes = []TeeShirtSize{
	TeeShirtNotSpecified,
	TeeShirtXSM, TeeShirtXSW,
	TeeShirtSM, TeeShirtSW,
	TeeShirtMM, TeeShirtMW,
	TeeShirtLM, TeeShirtLW,
	TeeShirtXLM, TeeShirtXLW,
	TeeShirtXXLM, TeeShirtXXLW,
	TeeShirtXXXLM, TeeShirtXXXLW,
}

// ParseTeeShirtSize normalizes s (case-insensitive) and reports whether it is a known size.
func ParseTeeShirtSize(s string) (TeeShirtSize, bool) {
	size := TeeShirtSize(strings.ToUpper(strings.TrimSpace(s)))
	return size, slices.Contains(teeShirtSizes, size)
}

// Profile is the per-user record. ID is the authenticated user ID.
// swagger:model Profile
type Profile struct {
	ID                    string       `json:"id"`
	DisplayName           string       `json:"display_name"`
	MainEmail             string       `json:"main_email"`
	TeeShirtSize          TeeShirtSize `json:"tee_shirt_size"`
	ConferenceIDsToAttend []string     `json:"conference_ids_to_attend"`
	SessionIDsWishlist    []string     `json:"session_ids_wishlist"`
}

// NewProfile returns a profile for a first-time user with no registrations.
func NewProfile(identity Identity) *Profile {
	displayName := identity.Name
	if displayName == "" {
		displayName, _, _ = strings.Cut(identity.Email, "@")
	}
	return &Profile{
		ID:                    identity.UserID,
		DisplayName:           displayName,
		MainEmail:             identity.Email,
		TeeShirtSize:          TeeShirtNotSpecified,
		ConferenceIDsToAttend: []string{},
		SessionIDsWishlist:    []string{},
	}
}

// IsAttending reports whether conferenceID is in the attend-list.
func (p *Profile) IsAttending(conferenceID string) bool {
	return slices.Contains(p.ConferenceIDsToAttend, conferenceID)
}

// HasWishlisted reports whether sessionID is in the wishlist.
func (p *Profile) HasWishlisted(sessionID string) bool {
	return slices.Contains(p.SessionIDsWishlist, sessionID)
}

// ProfileRepository defines storage for profiles.
type ProfileRepository interface {
	// Create inserts the profile; it is a no-op if a profile with the same ID exists.
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	// Update persists display name and shirt size.
	Update(ctx context.Context, p *Profile) error
	// AddToWishlist appends sessionID to the wishlist in a single statement
	// unless it is already there, and reports whether it was added.
	// Returns ErrNotFound if the profile is missing.
	AddToWishlist(ctx context.Context, profileID, sessionID string) (bool, error)
}

// ProfileUpdate carries the user-modifiable profile fields. Nil fields are unchanged.
type ProfileUpdate struct {
	DisplayName  *string
	TeeShirtSize *TeeShirtSize
}

// ProfileService defines profile operations.
type ProfileService interface {
	// GetOrCreate returns the caller's profile, creating it on first access.
	GetOrCreate(ctx context.Context, identity Identity) (*Profile, error)
	Save(ctx context.Context, identity Identity, update ProfileUpdate) (*Profile, error)
}
