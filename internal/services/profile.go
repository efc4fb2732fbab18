package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

type profileService struct {
	profileRepo    domain.ProfileRepository
	contextTimeout time.Duration
}

func NewProfileService(profileRepo domain.ProfileRepository, timeout time.Duration) domain.ProfileService {
	return &profileService{profileRepo: profileRepo, contextTimeout: timeout}
}

func (s *profileService) GetOrCreate(ctx context.Context, identity domain.Identity) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return loadOrCreateProfile(ctx, s.profileRepo, identity)
}

// Save updates the writable profile fields. Absent fields are left as they are.
func (s *profileService) Save(ctx context.Context, identity domain.Identity, update domain.ProfileUpdate) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := loadOrCreateProfile(ctx, s.profileRepo, identity)
	if err != nil {
		return nil, err
	}
	if update.DisplayName != nil {
		name := strings.TrimSpace(*update.DisplayName)
		if name == "" {
			return nil, fmt.Errorf("%w: display_name must not be empty", domain.ErrInvalidInput)
		}
		p.DisplayName = name
	}
	if update.TeeShirtSize != nil {
		size, ok := domain.ParseTeeShirtSize(string(*update.TeeShirtSize))
		if !ok {
			return nil, fmt.Errorf("%w: invalid tee_shirt_size %q", domain.ErrInvalidInput, *update.TeeShirtSize)
		}
		p.TeeShirtSize = size
	}
	if err := s.profileRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}
