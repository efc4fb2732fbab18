package services

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"conferencecentral/internal/domain"
)

// fakeProfileRepo is an in-memory ProfileRepository for tests.
type fakeProfileRepo struct {
	byID      map[string]*domain.Profile
	updateErr error
	// beforeAdd runs inside AddToWishlist before the stored row is checked.
	beforeAdd func(stored *domain.Profile)
	// beforeUpdate runs inside Update before the stored row is written.
	beforeUpdate func(stored *domain.Profile)
}

func newFakeProfileRepo(profiles ...*domain.Profile) *fakeProfileRepo {
	f := &fakeProfileRepo{byID: make(map[string]*domain.Profile)}
	for _, p := range profiles {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	if _, ok := f.byID[p.ID]; !ok {
		cp := *p
		f.byID[p.ID] = &cp
	}
	return nil
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	cp.ConferenceIDsToAttend = slices.Clone(p.ConferenceIDsToAttend)
	cp.SessionIDsWishlist = slices.Clone(p.SessionIDsWishlist)
	return &cp, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.byID[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if f.beforeUpdate != nil {
		f.beforeUpdate(stored)
	}
	stored.DisplayName = p.DisplayName
	stored.TeeShirtSize = p.TeeShirtSize
	return nil
}

func (f *fakeProfileRepo) AddToWishlist(ctx context.Context, profileID, sessionID string) (bool, error) {
	if f.updateErr != nil {
		return false, f.updateErr
	}
	stored, ok := f.byID[profileID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if f.beforeAdd != nil {
		f.beforeAdd(stored)
	}
	if slices.Contains(stored.SessionIDsWishlist, sessionID) {
		return false, nil
	}
	stored.SessionIDsWishlist = append(stored.SessionIDsWishlist, sessionID)
	return true, nil
}

// fakeConferenceRepo is an in-memory ConferenceRepository for tests. Query
// records the plan and returns every conference sorted by name.
type fakeConferenceRepo struct {
	byID      map[string]*domain.Conference
	lastPlan  *domain.QueryPlan
	createErr error
}

func newFakeConferenceRepo(conferences ...*domain.Conference) *fakeConferenceRepo {
	f := &fakeConferenceRepo{byID: make(map[string]*domain.Conference)}
	for _, c := range conferences {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeConferenceRepo) Create(ctx context.Context, c *domain.Conference) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.byID[c.ID] = copyConference(c)
	return nil
}

func (f *fakeConferenceRepo) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyConference(c), nil
}

func (f *fakeConferenceRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.Conference, error) {
	return f.filter(func(c *domain.Conference) bool { return slices.Contains(ids, c.ID) }), nil
}

func (f *fakeConferenceRepo) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Conference, error) {
	return f.filter(func(c *domain.Conference) bool { return c.OrganizerID == organizerID }), nil
}

func (f *fakeConferenceRepo) Query(ctx context.Context, plan *domain.QueryPlan) ([]*domain.Conference, error) {
	f.lastPlan = plan
	return f.filter(func(*domain.Conference) bool { return true }), nil
}

func (f *fakeConferenceRepo) ListNearlySoldOut(ctx context.Context, maxSeats int) ([]*domain.Conference, error) {
	return f.filter(func(c *domain.Conference) bool { return c.SeatsAvailable > 0 && c.SeatsAvailable <= maxSeats }), nil
}

func (f *fakeConferenceRepo) Modify(ctx context.Context, id string, fn func(c *domain.Conference) error) (*domain.Conference, error) {
	stored, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := copyConference(stored)
	if err := fn(c); err != nil {
		return nil, err
	}
	f.byID[id] = copyConference(c)
	return c, nil
}

func (f *fakeConferenceRepo) filter(keep func(*domain.Conference) bool) []*domain.Conference {
	out := []*domain.Conference{}
	for _, c := range f.byID {
		if keep(c) {
			out = append(out, copyConference(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// fakeRegistrationStore applies the callback to copies of the stored rows and
// writes both back only when it reports a change.
type fakeRegistrationStore struct {
	mu          sync.Mutex
	profiles    *fakeProfileRepo
	conferences *fakeConferenceRepo
	writes      int
}

func (f *fakeRegistrationStore) UpdateRegistration(ctx context.Context, profileID, conferenceID string, fn func(p *domain.Profile, c *domain.Conference) (bool, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.profiles.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	c, err := f.conferences.GetByID(ctx, conferenceID)
	if err != nil {
		return err
	}
	changed, err := fn(p, c)
	if err != nil || !changed {
		return err
	}
	f.profiles.byID[p.ID].ConferenceIDsToAttend = slices.Clone(p.ConferenceIDsToAttend)
	f.conferences.byID[c.ID] = copyConference(c)
	f.writes++
	return nil
}

// fakeSessionRepo is an in-memory SessionRepository for tests.
type fakeSessionRepo struct {
	sessions  []*domain.Session
	speakers  map[string]*domain.Speaker
	createErr error
}

func newFakeSessionRepo(sessions ...*domain.Session) *fakeSessionRepo {
	return &fakeSessionRepo{sessions: sessions, speakers: make(map[string]*domain.Speaker)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *s
	f.sessions = append(f.sessions, &cp)
	if s.Speaker.Email != "" {
		sp, ok := f.speakers[s.Speaker.Email]
		if !ok {
			sp = &domain.Speaker{Email: s.Speaker.Email, Name: s.Speaker.Name}
			f.speakers[s.Speaker.Email] = sp
		}
		sp.SessionIDs = append(sp.SessionIDs, s.ID)
	}
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	for _, s := range f.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSessionRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.Session, error) {
	return f.filter(func(s *domain.Session) bool { return slices.Contains(ids, s.ID) }), nil
}

func (f *fakeSessionRepo) ListByConferenceID(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	return f.filter(func(s *domain.Session) bool { return s.ConferenceID == conferenceID }), nil
}

func (f *fakeSessionRepo) ListByConferenceAndType(ctx context.Context, conferenceID string, t domain.SessionType) ([]*domain.Session, error) {
	return f.filter(func(s *domain.Session) bool { return s.ConferenceID == conferenceID && s.SessionType == t }), nil
}

func (f *fakeSessionRepo) ListByConferenceAndDate(ctx context.Context, conferenceID string, date time.Time) ([]*domain.Session, error) {
	return f.filter(func(s *domain.Session) bool {
		return s.ConferenceID == conferenceID && s.Date != nil && s.Date.Equal(date)
	}), nil
}

func (f *fakeSessionRepo) ListByConferenceExcludingTypeBefore(ctx context.Context, conferenceID string, excluded domain.SessionType, beforeTime int) ([]*domain.Session, error) {
	return f.filter(func(s *domain.Session) bool {
		return s.ConferenceID == conferenceID && s.SessionType != excluded && s.StartTime != nil && *s.StartTime < beforeTime
	}), nil
}

func (f *fakeSessionRepo) GetByEmail(ctx context.Context, email string) (*domain.Speaker, error) {
	sp, ok := f.speakers[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return sp, nil
}

func (f *fakeSessionRepo) filter(keep func(*domain.Session) bool) []*domain.Session {
	out := []*domain.Session{}
	for _, s := range f.sessions {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// fakeCache is a map-backed KeyValueCache.
type fakeCache struct {
	values map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{values: make(map[string]string)} }

func (f *fakeCache) Get(ctx context.Context, key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeCache) Set(ctx context.Context, key, value string) { f.values[key] = value }

func (f *fakeCache) Delete(ctx context.Context, key string) { delete(f.values, key) }

// fakeDispatcher records tasks; runNow executes them inline.
type fakeDispatcher struct {
	tasks  []domain.Task
	runNow bool
	reject bool
}

func (f *fakeDispatcher) Enqueue(t domain.Task) bool {
	if f.reject {
		return false
	}
	f.tasks = append(f.tasks, t)
	if f.runNow {
		_ = t.Run(context.Background())
	}
	return true
}

type fakeEmailService struct {
	sent []*domain.ConferenceCreatedEmailData
	err  error
}

func (f *fakeEmailService) SendConferenceCreated(ctx context.Context, data *domain.ConferenceCreatedEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}
