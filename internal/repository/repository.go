package repository

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

import (
	"context"

	model "auction-house/internal/models"
)

// BidRule decides, under the listing lock, whether a bid may be recorded.
// highest is nil when the listing has no bids yet. The returned bid is
// persisted as-is; a non-nil error aborts without any state change.
type BidRule func(listing model.Listing, highest *model.Bid) (model.Bid, error)

// CloseRule vets a close request under the listing lock.
type CloseRule func(listing model.Listing) error

// AuctionDB defines the listing, bid, watchlist and comment storage of the auction house
type AuctionDB interface {
	CreateListing(ctx context.Context, listing model.Listing) (model.Listing, error)
	GetListing(ctx context.Context, listingID string) (model.Listing, error)
	GetActiveListings(ctx context.Context) ([]model.Listing, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetListingsByCategory(ctx context.Context, name string) ([]model.Listing, error)

	// RecordBid locks the listing, loads its highest bid, asks rule for the
	// bid to store and appends it, all in one transaction.
	RecordBid(ctx context.Context, listingID string, rule BidRule) (model.Bid, error)
	GetBidsByListing(ctx context.Context, listingID string) ([]model.Bid, error)
	GetHighestBid(ctx context.Context, listingID string) (model.Bid, error)
	GetListingsByBidder(ctx context.Context, userID string) ([]model.Listing, error)
	// CloseListing marks the listing inactive and stores a reference to its
	// highest bid. winner is nil when no bid was ever placed.
	CloseListing(ctx context.Context, listingID string, rule CloseRule) (listing model.Listing, winner *model.Bid, err error)
	GetBid(ctx context.Context, bidID string) (model.Bid, error)

	AddToWatchlist(ctx context.Context, userID, listingID string) error
	RemoveFromWatchlist(ctx context.Context, userID, listingID string) error
	IsWatched(ctx context.Context, userID, listingID string) (bool, error)
	GetWatchlist(ctx context.Context, userID string) ([]model.Listing, error)

	AddComment(ctx context.Context, comment model.Comment) error
	GetComments(ctx context.Context, listingID string) ([]model.Comment, error)
}

// UserDB defines account storage
type UserDB interface {
	CreateUser(ctx context.Context, user model.User) error
	GetUserByID(ctx context.Context, userID string) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

// Store is a complete storage backend
type Store interface {
	AuctionDB
	UserDB
	Ping(ctx context.Context) error
}
