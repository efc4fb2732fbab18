package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/keys"
)

var organizer = domain.Identity{UserID: "user-1", Email: "ada@example.com", Name: "Ada"}

func newTestConferenceService(conferences *fakeConferenceRepo, profiles *fakeProfileRepo, email *fakeEmailService, dispatcher *fakeDispatcher) domain.ConferenceService {
	return NewConferenceService(conferences, profiles, email, dispatcher, 5*time.Second)
}

func TestConferenceService_CreateConference(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults and queues the confirmation email", func(t *testing.T) {
		conferences := newFakeConferenceRepo()
		profiles := newFakeProfileRepo()
		email := &fakeEmailService{}
		dispatcher := &fakeDispatcher{runNow: true}
		svc := newTestConferenceService(conferences, profiles, email, dispatcher)

		got, err := svc.CreateConference(ctx, organizer, &domain.Conference{Name: "  GopherCon ", MaxAttendees: 50})
		require.NoError(t, err)
		assert.Equal(t, "GopherCon", got.Name)
		assert.Equal(t, domain.DefaultCity, got.City)
		assert.Equal(t, []string{"Default", "Topic"}, got.Topics)
		assert.Equal(t, 50, got.SeatsAvailable)
		assert.Equal(t, 0, got.Month)
		assert.Equal(t, "user-1", got.OrganizerID)
		_, err = uuid.Parse(got.ID)
		require.NoError(t, err)

		_, err = profiles.GetByID(ctx, "user-1")
		require.NoError(t, err, "profile is created lazily")

		require.Len(t, email.sent, 1)
		assert.Equal(t, "ada@example.com", email.sent[0].Email)
		assert.Equal(t, got.ID, email.sent[0].Conference.ID)
	})

	t.Run("month follows the start date", func(t *testing.T) {
		svc := newTestConferenceService(newFakeConferenceRepo(), newFakeProfileRepo(), &fakeEmailService{}, &fakeDispatcher{})
		start := time.Date(2025, time.September, 3, 0, 0, 0, 0, time.UTC)

		got, err := svc.CreateConference(ctx, organizer, &domain.Conference{Name: "Conf", StartDate: &start, City: "Berlin", Topics: []string{"Go"}})
		require.NoError(t, err)
		assert.Equal(t, 9, got.Month)
		assert.Equal(t, "Berlin", got.City)
		assert.Equal(t, []string{"Go"}, got.Topics)
	})

	t.Run("name is required", func(t *testing.T) {
		svc := newTestConferenceService(newFakeConferenceRepo(), newFakeProfileRepo(), &fakeEmailService{}, &fakeDispatcher{})
		_, err := svc.CreateConference(ctx, organizer, &domain.Conference{Name: " "})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		svc := newTestConferenceService(newFakeConferenceRepo(), newFakeProfileRepo(), &fakeEmailService{}, &fakeDispatcher{})
		_, err := svc.CreateConference(ctx, domain.Identity{}, &domain.Conference{Name: "Conf"})
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("repository error is wrapped", func(t *testing.T) {
		conferences := newFakeConferenceRepo()
		conferences.createErr = errors.New("db down")
		dispatcher := &fakeDispatcher{}
		svc := newTestConferenceService(conferences, newFakeProfileRepo(), &fakeEmailService{}, dispatcher)

		_, err := svc.CreateConference(ctx, organizer, &domain.Conference{Name: "Conf"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create conference")
		assert.Empty(t, dispatcher.tasks)
	})
}

func seededConference(seats, max int) *domain.Conference {
	return &domain.Conference{
		ID: uuid.NewString(), Name: "GopherCon", OrganizerID: "user-1", City: "London",
		Topics: []string{"Go"}, MaxAttendees: max, SeatsAvailable: seats,
	}
}

func TestConferenceService_UpdateConference(t *testing.T) {
	ctx := context.Background()
	intPtr := func(v int) *int { return &v }
	strPtr := func(v string) *string { return &v }

	tests := []struct {
		name      string
		userID    string
		key       func(c *domain.Conference) string
		update    domain.ConferenceUpdate
		wantErr   error
		wantSeats int
		wantMax   int
	}{
		{
			name:      "raising max attendees adds seats",
			userID:    "user-1",
			update:    domain.ConferenceUpdate{MaxAttendees: intPtr(15), Name: strPtr("GopherCon EU")},
			wantSeats: 12,
			wantMax:   15,
		},
		{
			name:      "lowering max attendees removes seats",
			userID:    "user-1",
			update:    domain.ConferenceUpdate{MaxAttendees: intPtr(4)},
			wantSeats: 1,
			wantMax:   4,
		},
		{
			name:    "below registered attendees",
			userID:  "user-1",
			update:  domain.ConferenceUpdate{MaxAttendees: intPtr(2)},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "not the owner",
			userID:  "user-2",
			update:  domain.ConferenceUpdate{Name: strPtr("Mine now")},
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "unknown conference",
			userID:  "user-1",
			key:     func(*domain.Conference) string { return keys.Conference(uuid.NewString()) },
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "session key",
			userID:  "user-1",
			key:     func(c *domain.Conference) string { return keys.Session(c.ID) },
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := seededConference(7, 10)
			conferences := newFakeConferenceRepo(conf)
			profiles := newFakeProfileRepo(domain.NewProfile(organizer))
			svc := newTestConferenceService(conferences, profiles, &fakeEmailService{}, &fakeDispatcher{})

			key := keys.Conference(conf.ID)
			if tt.key != nil {
				key = tt.key(conf)
			}
			got, err := svc.UpdateConference(ctx, tt.userID, key, tt.update)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 7, conferences.byID[conf.ID].SeatsAvailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSeats, got.Conference.SeatsAvailable)
			assert.Equal(t, tt.wantMax, got.Conference.MaxAttendees)
			assert.Equal(t, "Ada", got.OrganizerDisplayName)
		})
	}
}

func TestConferenceService_GetConference(t *testing.T) {
	ctx := context.Background()
	conf := seededConference(10, 10)
	svc := newTestConferenceService(newFakeConferenceRepo(conf), newFakeProfileRepo(domain.NewProfile(organizer)), &fakeEmailService{}, &fakeDispatcher{})

	got, err := svc.GetConference(ctx, keys.Conference(conf.ID))
	require.NoError(t, err)
	assert.Equal(t, conf.ID, got.Conference.ID)
	assert.Equal(t, "Ada", got.OrganizerDisplayName)

	_, err = svc.GetConference(ctx, "not a key")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.GetConference(ctx, keys.Conference("not-a-uuid"))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConferenceService_QueryConferences(t *testing.T) {
	ctx := context.Background()
	conferences := newFakeConferenceRepo(seededConference(1, 1), seededConference(2, 2))
	svc := newTestConferenceService(conferences, newFakeProfileRepo(domain.NewProfile(organizer)), &fakeEmailService{}, &fakeDispatcher{})

	got, err := svc.QueryConferences(ctx, []domain.ConferenceFilter{{Field: "month", Operator: ">", Value: "3"}}, domain.PaginationParams{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	require.NotNil(t, conferences.lastPlan)
	assert.Equal(t, 10, conferences.lastPlan.Limit)
	assert.Equal(t, 20, conferences.lastPlan.Offset)
	assert.Equal(t, domain.FilterFieldMonth, conferences.lastPlan.InequalityField)

	got, err = svc.QueryConferences(ctx, nil, domain.PaginationParams{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Zero(t, conferences.lastPlan.Limit)
	assert.Zero(t, conferences.lastPlan.Offset)

	_, err = svc.QueryConferences(ctx, []domain.ConferenceFilter{
		{Field: "month", Operator: ">", Value: "3"},
		{Field: "city", Operator: "!=", Value: "Paris"},
	}, domain.PaginationParams{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConferenceService_Lists(t *testing.T) {
	ctx := context.Background()
	mine := seededConference(5, 5)
	other := seededConference(5, 5)
	other.OrganizerID = "user-2"
	attendee := domain.NewProfile(domain.Identity{UserID: "user-3", Email: "bob@example.com"})
	attendee.ConferenceIDsToAttend = []string{other.ID}
	profiles := newFakeProfileRepo(domain.NewProfile(organizer), attendee)
	svc := newTestConferenceService(newFakeConferenceRepo(mine, other), profiles, &fakeEmailService{}, &fakeDispatcher{})

	created, err := svc.ListConferencesCreated(ctx, organizer)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, mine.ID, created[0].Conference.ID)
	assert.Equal(t, "Ada", created[0].OrganizerDisplayName)

	attending, err := svc.ListConferencesToAttend(ctx, domain.Identity{UserID: "user-3"})
	require.NoError(t, err)
	require.Len(t, attending, 1)
	assert.Equal(t, other.ID, attending[0].Conference.ID)
	assert.Equal(t, "", attending[0].OrganizerDisplayName)
}
