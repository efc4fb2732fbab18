package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/keys"
)

type conferenceService struct {
	conferenceRepo domain.ConferenceRepository
	profileRepo    domain.ProfileRepository
	emailService   domain.EmailService
	dispatcher     domain.TaskDispatcher
	contextTimeout time.Duration
}

func NewConferenceService(
	conferenceRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
	emailService domain.EmailService,
	dispatcher domain.TaskDispatcher,
	timeout time.Duration,
) domain.ConferenceService {
	return &conferenceService{
		conferenceRepo: conferenceRepo,
		profileRepo:    profileRepo,
		emailService:   emailService,
		dispatcher:     dispatcher,
		contextTimeout: timeout,
	}
}

// CreateConference fills in defaults, stores the conference under the
// caller's profile and queues a confirmation email.
func (s *conferenceService) CreateConference(ctx context.Context, identity domain.Identity, c *domain.Conference) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "ConferenceService.CreateConference")
	defer span.End()

	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, fmt.Errorf("%w: conference 'name' field required", domain.ErrInvalidInput)
	}
	if c.MaxAttendees < 0 {
		return nil, fmt.Errorf("%w: max_attendees must not be negative", domain.ErrInvalidInput)
	}
	profile, err := loadOrCreateProfile(ctx, s.profileRepo, identity)
	if err != nil {
		return nil, err
	}

	if len(c.Topics) == 0 {
		c.Topics = domain.DefaultTopics()
	}
	if strings.TrimSpace(c.City) == "" {
		c.City = domain.DefaultCity
	}
	c.ID = uuid.NewString()
	c.OrganizerID = profile.ID
	c.Month = monthOf(c.StartDate)
	c.SeatsAvailable = c.MaxAttendees
	span.SetAttributes(attribute.String("conference.id", c.ID))

	if err := s.conferenceRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create conference: %w", err)
	}

	data := &domain.ConferenceCreatedEmailData{Email: profile.MainEmail, DisplayName: profile.DisplayName, Conference: copyConference(c)}
	if data.Email != "" {
		s.dispatcher.Enqueue(domain.Task{
			Name: "conference_created_email",
			Run: func(ctx context.Context) error {
				return s.emailService.SendConferenceCreated(ctx, data)
			},
		})
	}
	return c, nil
}

func (s *conferenceService) UpdateConference(ctx context.Context, userID, conferenceKey string, update domain.ConferenceUpdate) (*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "ConferenceService.UpdateConference")
	defer span.End()

	id, err := decodeEntityKey(conferenceKey, keys.KindConference)
	if err != nil {
		return nil, err
	}
	updated, err := s.conferenceRepo.Modify(ctx, id, func(c *domain.Conference) error {
		if c.OrganizerID != userID {
			return fmt.Errorf("%w: only the owner can update the conference", domain.ErrForbidden)
		}
		return applyConferenceUpdate(c, update)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key: %s", domain.ErrNotFound, conferenceKey)
		}
		if errors.Is(err, domain.ErrForbidden) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("update conference: %w", err)
	}
	return s.attachOrganizer(ctx, updated)
}

// applyConferenceUpdate copies the set fields onto c. Changing max_attendees
// moves seats_available by the same amount.
func applyConferenceUpdate(c *domain.Conference, update domain.ConferenceUpdate) error {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return fmt.Errorf("%w: conference 'name' field required", domain.ErrInvalidInput)
		}
		c.Name = name
	}
	if update.Description != nil {
		c.Description = *update.Description
	}
	if update.Topics != nil {
		c.Topics = update.Topics
	}
	if update.City != nil {
		c.City = *update.City
	}
	if update.StartDate != nil {
		c.StartDate = update.StartDate
		c.Month = monthOf(c.StartDate)
	}
	if update.EndDate != nil {
		c.EndDate = update.EndDate
	}
	if update.MaxAttendees != nil {
		if *update.MaxAttendees < 0 {
			return fmt.Errorf("%w: max_attendees must not be negative", domain.ErrInvalidInput)
		}
		seats := c.SeatsAvailable + *update.MaxAttendees - c.MaxAttendees
		if seats < 0 {
			return fmt.Errorf("%w: max_attendees is below the number of registered attendees", domain.ErrInvalidInput)
		}
		c.MaxAttendees = *update.MaxAttendees
		c.SeatsAvailable = seats
	}
	return nil
}

func (s *conferenceService) GetConference(ctx context.Context, conferenceKey string) (*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	id, err := decodeEntityKey(conferenceKey, keys.KindConference)
	if err != nil {
		return nil, err
	}
	c, err := s.conferenceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key: %s", domain.ErrNotFound, conferenceKey)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return s.attachOrganizer(ctx, c)
}

func (s *conferenceService) QueryConferences(ctx context.Context, filters []domain.ConferenceFilter, page domain.PaginationParams) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "ConferenceService.QueryConferences", trace.WithAttributes(attribute.Int("filters", len(filters))))
	defer span.End()

	plan, err := CompileFilters(filters)
	if err != nil {
		return nil, err
	}
	if page.IsSet() {
		plan.Limit = page.PageSize
		plan.Offset = page.Offset()
	}
	conferences, err := s.conferenceRepo.Query(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("query conferences: %w", err)
	}
	return withOrganizers(ctx, s.profileRepo, conferences)
}

func (s *conferenceService) ListConferencesCreated(ctx context.Context, identity domain.Identity) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	conferences, err := s.conferenceRepo.ListByOrganizerID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	return withOrganizers(ctx, s.profileRepo, conferences)
}

func (s *conferenceService) ListConferencesToAttend(ctx context.Context, identity domain.Identity) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := loadOrCreateProfile(ctx, s.profileRepo, identity)
	if err != nil {
		return nil, err
	}
	conferences, err := s.conferenceRepo.ListByIDs(ctx, profile.ConferenceIDsToAttend)
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	return withOrganizers(ctx, s.profileRepo, conferences)
}

func (s *conferenceService) attachOrganizer(ctx context.Context, c *domain.Conference) (*domain.ConferenceWithOrganizer, error) {
	out, err := withOrganizers(ctx, s.profileRepo, []*domain.Conference{c})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func monthOf(t *time.Time) int {
	if t == nil {
		return 0
	}
	return int(t.Month())
}

func copyConference(c *domain.Conference) *domain.Conference {
	cp := *c
	cp.Topics = append([]string(nil), c.Topics...)
	return &cp
}
