package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/keys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistController_AddSessionToWishlist(t *testing.T) {
	t.Run("added", func(t *testing.T) {
		svc := &fakeWishlistService{}
		ctrl := NewWishlistController(quietLogger(), svc)
		req := withCaller(httptest.NewRequest(http.MethodPost, "/wishlist/s", nil))
		req.SetPathValue("websafeSessionKey", "s")
		rec := httptest.NewRecorder()
		ctrl.AddSessionToWishlist(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "s", svc.lastKey)
		var form ProfileForm
		decodeData(t, rec, &form)
		assert.Equal(t, []string{keys.Session("22222222-2222-2222-2222-222222222222")}, form.SessionKeysWishlist)
	})

	t.Run("already present", func(t *testing.T) {
		svc := &fakeWishlistService{err: fmt.Errorf("%w: session already in wishlist", domain.ErrConflict)}
		ctrl := NewWishlistController(quietLogger(), svc)
		req := withCaller(httptest.NewRequest(http.MethodPost, "/wishlist/s", nil))
		req.SetPathValue("websafeSessionKey", "s")
		rec := httptest.NewRecorder()
		ctrl.AddSessionToWishlist(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		ctrl := NewWishlistController(quietLogger(), &fakeWishlistService{})
		rec := httptest.NewRecorder()
		ctrl.AddSessionToWishlist(rec, httptest.NewRequest(http.MethodPost, "/wishlist/s", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestWishlistController_ListSessionsInWishlist(t *testing.T) {
	svc := &fakeWishlistService{sessions: []*domain.Session{sampleSession()}}
	ctrl := NewWishlistController(quietLogger(), svc)
	rec := httptest.NewRecorder()
	ctrl.ListSessionsInWishlist(rec, withCaller(httptest.NewRequest(http.MethodGet, "/wishlist", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	var forms []SessionForm
	decodeData(t, rec, &forms)
	require.Len(t, forms, 1)
	assert.Equal(t, "Generics in practice", forms[0].Name)
}
