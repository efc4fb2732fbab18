package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/require"
)

var caller = domain.Identity{UserID: "user-1", Email: "ada@example.com", Name: "Ada"}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// withCaller stores the test identity in the request context the way RequireAuth does.
func withCaller(req *http.Request) *http.Request {
	return req.WithContext(middleware.SetIdentity(req.Context(), caller))
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.Nil(t, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

type fakeProfileService struct {
	profile    *domain.Profile
	err        error
	lastUpdate domain.ProfileUpdate
}

func (f *fakeProfileService) GetOrCreate(_ context.Context, identity domain.Identity) (*domain.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.profile != nil {
		return f.profile, nil
	}
	return domain.NewProfile(identity), nil
}

func (f *fakeProfileService) Save(_ context.Context, identity domain.Identity, update domain.ProfileUpdate) (*domain.Profile, error) {
	f.lastUpdate = update
	if f.err != nil {
		return nil, f.err
	}
	p := domain.NewProfile(identity)
	if update.DisplayName != nil {
		p.DisplayName = *update.DisplayName
	}
	if update.TeeShirtSize != nil {
		p.TeeShirtSize = *update.TeeShirtSize
	}
	return p, nil
}

type fakeConferenceService struct {
	conference  *domain.Conference
	list        []*domain.ConferenceWithOrganizer
	err         error
	lastCreate  *domain.Conference
	lastUpdate  domain.ConferenceUpdate
	lastKey     string
	lastFilters []domain.ConferenceFilter
	lastPage    domain.PaginationParams
}

func (f *fakeConferenceService) CreateConference(_ context.Context, identity domain.Identity, c *domain.Conference) (*domain.Conference, error) {
	f.lastCreate = c
	if f.err != nil {
		return nil, f.err
	}
	c.ID = "11111111-1111-1111-1111-111111111111"
	c.OrganizerID = identity.UserID
	c.SeatsAvailable = c.MaxAttendees
	return c, nil
}

func (f *fakeConferenceService) UpdateConference(_ context.Context, _ string, key string, update domain.ConferenceUpdate) (*domain.ConferenceWithOrganizer, error) {
	f.lastKey, f.lastUpdate = key, update
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ConferenceWithOrganizer{Conference: f.conference, OrganizerDisplayName: "Ada"}, nil
}

func (f *fakeConferenceService) GetConference(_ context.Context, key string) (*domain.ConferenceWithOrganizer, error) {
	f.lastKey = key
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ConferenceWithOrganizer{Conference: f.conference, OrganizerDisplayName: "Ada"}, nil
}

func (f *fakeConferenceService) QueryConferences(_ context.Context, filters []domain.ConferenceFilter, page domain.PaginationParams) ([]*domain.ConferenceWithOrganizer, error) {
	f.lastFilters, f.lastPage = filters, page
	return f.list, f.err
}

func (f *fakeConferenceService) ListConferencesCreated(context.Context, domain.Identity) ([]*domain.ConferenceWithOrganizer, error) {
	return f.list, f.err
}

func (f *fakeConferenceService) ListConferencesToAttend(context.Context, domain.Identity) ([]*domain.ConferenceWithOrganizer, error) {
	return f.list, f.err
}

type fakeRegistrationService struct {
	result  bool
	err     error
	lastKey string
}

func (f *fakeRegistrationService) Register(_ context.Context, _ domain.Identity, key string) (bool, error) {
	f.lastKey = key
	return f.result, f.err
}

func (f *fakeRegistrationService) Unregister(_ context.Context, _ domain.Identity, key string) (bool, error) {
	f.lastKey = key
	return f.result, f.err
}

type fakeSessionService struct {
	sessions     []*domain.Session
	err          error
	lastCreate   *domain.Session
	lastKey      string
	lastType     string
	lastDate     time.Time
	lastExcluded string
	lastBefore   int
}

func (f *fakeSessionService) CreateSession(_ context.Context, _ string, key string, s *domain.Session) (*domain.Session, error) {
	f.lastKey, f.lastCreate = key, s
	if f.err != nil {
		return nil, f.err
	}
	s.ID = "22222222-2222-2222-2222-222222222222"
	s.ConferenceID = "11111111-1111-1111-1111-111111111111"
	return s, nil
}

func (f *fakeSessionService) ListConferenceSessions(_ context.Context, key string) ([]*domain.Session, error) {
	f.lastKey = key
	return f.sessions, f.err
}

func (f *fakeSessionService) ListConferenceSessionsByType(_ context.Context, key, sessionType string) ([]*domain.Session, error) {
	f.lastKey, f.lastType = key, sessionType
	return f.sessions, f.err
}

func (f *fakeSessionService) ListSessionsByDate(_ context.Context, key string, date time.Time) ([]*domain.Session, error) {
	f.lastKey, f.lastDate = key, date
	return f.sessions, f.err
}

func (f *fakeSessionService) ListSessionsILike(_ context.Context, key, excluded string, before int) ([]*domain.Session, error) {
	f.lastKey, f.lastExcluded, f.lastBefore = key, excluded, before
	return f.sessions, f.err
}

func (f *fakeSessionService) ListSessionsBySpeaker(_ context.Context, key string) ([]*domain.Session, error) {
	f.lastKey = key
	return f.sessions, f.err
}

type fakeWishlistService struct {
	sessions []*domain.Session
	err      error
	lastKey  string
}

func (f *fakeWishlistService) AddSessionToWishlist(_ context.Context, identity domain.Identity, key string) (*domain.Profile, error) {
	f.lastKey = key
	if f.err != nil {
		return nil, f.err
	}
	p := domain.NewProfile(identity)
	p.SessionIDsWishlist = []string{"22222222-2222-2222-2222-222222222222"}
	return p, nil
}

func (f *fakeWishlistService) ListSessionsInWishlist(context.Context, domain.Identity) ([]*domain.Session, error) {
	return f.sessions, f.err
}

type fakeAnnouncementService struct {
	announcement string
	featured     string
	refreshErr   error
	refreshed    int
}

func (f *fakeAnnouncementService) RefreshAnnouncement(context.Context) (string, error) {
	f.refreshed++
	return f.announcement, f.refreshErr
}

func (f *fakeAnnouncementService) RefreshFeaturedSpeaker(context.Context, string) (string, error) {
	return f.featured, nil
}

func (f *fakeAnnouncementService) GetAnnouncement(context.Context) string { return f.announcement }

func (f *fakeAnnouncementService) GetFeaturedSpeaker(context.Context) string { return f.featured }
