package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "conferencecentral/docs"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Profile      *controllers.ProfileController
	Conference   *controllers.ConferenceController
	Session      *controllers.SessionController
	Wishlist     *controllers.WishlistController
	Announcement *controllers.AnnouncementController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, cronToken string, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Profile
	mux.HandleFunc("GET /profile", auth(c.Profile.GetProfile))
	mux.HandleFunc("POST /profile", auth(c.Profile.SaveProfile))

	// Conferences
	mux.HandleFunc("POST /conference", auth(c.Conference.CreateConference))
	mux.HandleFunc("PUT /conference/{websafeConferenceKey}", auth(c.Conference.UpdateConference))
	mux.HandleFunc("GET /conference/{websafeConferenceKey}", c.Conference.GetConference)
	mux.HandleFunc("POST /queryConferences", c.Conference.QueryConferences)
	mux.HandleFunc("GET /conferences/created", auth(c.Conference.ListConferencesCreated))
	mux.HandleFunc("GET /conferences/attending", auth(c.Conference.ListConferencesToAttend))
	mux.HandleFunc("POST /conference/{websafeConferenceKey}/registration", auth(c.Conference.Register))
	mux.HandleFunc("DELETE /conference/{websafeConferenceKey}/registration", auth(c.Conference.Unregister))

	// Sessions
	mux.HandleFunc("POST /conference/{websafeConferenceKey}/sessions", auth(c.Session.CreateSession))
	mux.HandleFunc("GET /conference/{websafeConferenceKey}/sessions", c.Session.ListConferenceSessions)
	mux.HandleFunc("GET /conference/{websafeConferenceKey}/sessions/type/{typeOfSession}", c.Session.ListConferenceSessionsByType)
	mux.HandleFunc("GET /conference/{websafeConferenceKey}/sessions/date/{date}", c.Session.ListSessionsByDate)
	mux.HandleFunc("GET /conference/{websafeConferenceKey}/sessions/preferred", c.Session.ListSessionsILike)
	mux.HandleFunc("GET /speaker/{websafeSpeakerKey}/sessions", c.Session.ListSessionsBySpeaker)

	// Wishlist
	mux.HandleFunc("POST /wishlist/{websafeSessionKey}", auth(c.Wishlist.AddSessionToWishlist))
	mux.HandleFunc("GET /wishlist", auth(c.Wishlist.ListSessionsInWishlist))

	// Announcements
	mux.HandleFunc("GET /announcement", c.Announcement.GetAnnouncement)
	mux.HandleFunc("GET /featuredSpeaker", c.Announcement.GetFeaturedSpeaker)
	mux.HandleFunc("POST /crons/set_announcement", middleware.RequireCronToken(cronToken)(c.Announcement.SetAnnouncement))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
