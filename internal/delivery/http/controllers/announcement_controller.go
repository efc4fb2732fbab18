package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

type AnnouncementController struct {
	Logger  *slog.Logger
	Service domain.AnnouncementService
}

func NewAnnouncementController(logger *slog.Logger, svc domain.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{Logger: logger, Service: svc}
}

// GetAnnouncement godoc
// @Summary Get the current announcement
// @Description Returns the cached "last chance" announcement, or an empty string.
// @Tags announcements
// @Produce json
// @Success 200 {object} controllers.StringSuccessResponse
// @Router /announcement [get]
func (c *AnnouncementController) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.GetAnnouncement(r.Context()))
}

// GetFeaturedSpeaker godoc
// @Summary Get the featured speaker message
// @Description Returns the cached featured speaker message, or an empty string.
// @Tags announcements
// @Produce json
// @Success 200 {object} controllers.StringSuccessResponse
// @Router /featuredSpeaker [get]
func (c *AnnouncementController) GetFeaturedSpeaker(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.GetFeaturedSpeaker(r.Context()))
}

// SetAnnouncement godoc
// @Summary Recompute the announcement
// @Description Cron trigger. Requires the X-Cron-Token header.
// @Tags announcements
// @Produce json
// @Param X-Cron-Token header string true "Cron token"
// @Success 200 {object} controllers.StringSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /crons/set_announcement [post]
func (c *AnnouncementController) SetAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcement, err := c.Service.RefreshAnnouncement(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, announcement)
}
