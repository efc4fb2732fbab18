package domain

import "context"

// WishlistService manages the per-user session wishlist.
type WishlistService interface {
	AddSessionToWishlist(ctx context.Context, identity Identity, sessionKey string) (*Profile, error)
	ListSessionsInWishlist(ctx context.Context, identity Identity) ([]*Session, error)
}
