package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

type WishlistController struct {
	Logger  *slog.Logger
	Service domain.WishlistService
}

func NewWishlistController(logger *slog.Logger, svc domain.WishlistService) *WishlistController {
	return &WishlistController{Logger: logger, Service: svc}
}

// AddSessionToWishlist godoc
// @Summary Add a session to the caller's wishlist
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param websafeSessionKey path string true "Session key"
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already in wishlist)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /wishlist/{websafeSessionKey} [post]
func (c *WishlistController) AddSessionToWishlist(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	profile, err := c.Service.AddSessionToWishlist(r.Context(), identity, r.PathValue("websafeSessionKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toProfileForm(profile))
}

// ListSessionsInWishlist godoc
// @Summary List sessions in the caller's wishlist
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /wishlist [get]
func (c *WishlistController) ListSessionsInWishlist(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	sessions, err := c.Service.ListSessionsInWishlist(r.Context(), identity)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toSessionForms(sessions))
}
