package domain

import "context"

// Cache keys for derived values.
const (
	CacheKeyAnnouncement    = "RECENT_ANNOUNCEMENTS"
	CacheKeyFeaturedSpeaker = "FEATURED_SPEAKER"
)

// KeyValueCache is the ancillary cache for derived strings. Entries do not expire.
type KeyValueCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Delete(ctx context.Context, key string)
}

// AnnouncementService recomputes and serves the derived cache entries.
// Refresh methods are idempotent and safe to call from background triggers.
type AnnouncementService interface {
	RefreshAnnouncement(ctx context.Context) (string, error)
	RefreshFeaturedSpeaker(ctx context.Context, sessionKey string) (string, error)
	GetAnnouncement(ctx context.Context) string
	GetFeaturedSpeaker(ctx context.Context) string
}
