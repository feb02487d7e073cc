package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
)

// MemoryRepo is a concurrency-safe in-memory implementation of Store.
// A single mutex guards everything, so RecordBid and CloseListing are
// serialized exactly like their transactional counterparts in GormRepo.
type MemoryRepo struct {
	mu         sync.RWMutex
	users      map[string]model.User             // key: userID
	usernames  map[string]string                 // key: username -> userID
	listings   map[string]model.Listing          // key: listingID
	order      []string                          // listing IDs in creation order
	categories map[string]model.Category         // key: category name
	bids       map[string][]model.Bid            // key: listingID -> bids in placement order
	bidsByID   map[string]model.Bid              // key: bidID
	userItems  map[string][]string               // key: userID -> listingIDs the user has bid on
	watchlists map[string][]model.WatchlistEntry // key: userID
	comments   map[string][]model.Comment        // key: listingID
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:      make(map[string]model.User),
		usernames:  make(map[string]string),
		listings:   make(map[string]model.Listing),
		categories: make(map[string]model.Category),
		bids:       make(map[string][]model.Bid),
		bidsByID:   make(map[string]model.Bid),
		userItems:  make(map[string][]string),
		watchlists: make(map[string][]model.WatchlistEntry),
		comments:   make(map[string][]model.Comment),
	}
}

// Ping always succeeds for the in-memory store
func (r *MemoryRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

// CreateUser stores a new account, rejecting taken usernames
func (r *MemoryRepo) CreateUser(ctx context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.usernames[user.Username]; taken {
		return fmt.Errorf("create user %s: %w", user.Username, auctionerrors.ErrDuplicateUsername)
	}
	r.users[user.ID] = user
	r.usernames[user.Username] = user.ID
	return nil
}

// GetUserByID returns a user by ID
func (r *MemoryRepo) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return user, nil
}

// GetUserByUsername returns a user by username
func (r *MemoryRepo) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.usernames[username]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", username, auctionerrors.ErrUserNotFound)
	}
	return r.users[id], nil
}

// CreateListing stores a listing and any categories it names that do not exist yet
func (r *MemoryRepo) CreateListing(ctx context.Context, listing model.Listing) (model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range listing.Categories {
		r.categories[c.Name] = c
	}
	stored := cloneListing(listing)
	r.listings[listing.ID] = stored
	r.order = append(r.order, listing.ID)
	return cloneListing(stored), nil
}

// GetListing returns a listing by ID
func (r *MemoryRepo) GetListing(ctx context.Context, listingID string) (model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[listingID]
	if !ok {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return cloneListing(listing), nil
}

// GetActiveListings returns active listings, newest first
func (r *MemoryRepo) GetActiveListings(ctx context.Context) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectNewestFirst(func(l model.Listing) bool { return l.Active }), nil
}

// GetCategories returns all categories sorted by name
func (r *MemoryRepo) GetCategories(ctx context.Context) ([]model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// GetListingsByCategory returns the active listings of a category, newest first
func (r *MemoryRepo) GetListingsByCategory(ctx context.Context, name string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.categories[name]; !ok {
		return nil, fmt.Errorf("get listings for category %s: %w", name, auctionerrors.ErrCategoryNotFound)
	}
	return r.collectNewestFirst(func(l model.Listing) bool {
		if !l.Active {
			return false
		}
		for _, c := range l.Categories {
			if c.Name == name {
				return true
			}
		}
		return false
	}), nil
}

// RecordBid validates and appends a bid while holding the write lock
func (r *MemoryRepo) RecordBid(ctx context.Context, listingID string, rule BidRule) (model.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[listingID]
	if !ok {
		return model.Bid{}, fmt.Errorf("record bid for listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}

	bid, err := rule(cloneListing(listing), r.highestLocked(listingID))
	if err != nil {
		return model.Bid{}, err
	}

	r.bids[listingID] = append(r.bids[listingID], bid)
	r.bidsByID[bid.ID] = bid

	for _, id := range r.userItems[bid.BidderID] {
		if id == listingID {
			return bid, nil
		}
	}
	r.userItems[bid.BidderID] = append(r.userItems[bid.BidderID], listingID)

	return bid, nil
}

// GetBidsByListing returns all bids for a listing in placement order
func (r *MemoryRepo) GetBidsByListing(ctx context.Context, listingID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.listings[listingID]; !ok {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return append([]model.Bid{}, r.bids[listingID]...), nil
}

// GetHighestBid returns the highest bid for a listing
func (r *MemoryRepo) GetHighestBid(ctx context.Context, listingID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.listings[listingID]; !ok {
		return model.Bid{}, fmt.Errorf("get highest bid for listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	highest := r.highestLocked(listingID)
	if highest == nil {
		return model.Bid{}, fmt.Errorf("get highest bid for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}
	return *highest, nil
}

// GetBid returns a single bid by ID
func (r *MemoryRepo) GetBid(ctx context.Context, bidID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bid, ok := r.bidsByID[bidID]
	if !ok {
		return model.Bid{}, fmt.Errorf("get bid %s: %w", bidID, auctionerrors.ErrNoBids)
	}
	return bid, nil
}

// GetListingsByBidder returns all listings a user has bid on
func (r *MemoryRepo) GetListingsByBidder(ctx context.Context, userID string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.userItems[userID]
	listings := make([]model.Listing, 0, len(ids))
	for _, id := range ids {
		if listing, exists := r.listings[id]; exists {
			listings = append(listings, cloneListing(listing))
		}
	}
	return listings, nil
}

// CloseListing deactivates a listing and pins its highest bid as the winner
func (r *MemoryRepo) CloseListing(ctx context.Context, listingID string, rule CloseRule) (model.Listing, *model.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[listingID]
	if !ok {
		return model.Listing{}, nil, fmt.Errorf("close listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	if err := rule(cloneListing(listing)); err != nil {
		return model.Listing{}, nil, err
	}

	if !listing.Active {
		var winner *model.Bid
		if listing.WinningBidID != nil {
			b := r.bidsByID[*listing.WinningBidID]
			winner = &b
		}
		return cloneListing(listing), winner, nil
	}

	winner := r.highestLocked(listingID)
	listing.Active = false
	if winner != nil {
		id := winner.ID
		listing.WinningBidID = &id
	}
	r.listings[listingID] = listing
	return cloneListing(listing), winner, nil
}

// AddToWatchlist adds a listing to a user's watchlist; adding twice keeps one entry
func (r *MemoryRepo) AddToWatchlist(ctx context.Context, userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listingID]; !ok {
		return fmt.Errorf("watch listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	for _, e := range r.watchlists[userID] {
		if e.ListingID == listingID {
			return nil
		}
	}
	r.watchlists[userID] = append(r.watchlists[userID], model.WatchlistEntry{
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: nowUTC(),
	})
	return nil
}

// RemoveFromWatchlist deletes every watchlist entry for (user, listing)
func (r *MemoryRepo) RemoveFromWatchlist(ctx context.Context, userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listingID]; !ok {
		return fmt.Errorf("unwatch listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	kept := r.watchlists[userID][:0]
	for _, e := range r.watchlists[userID] {
		if e.ListingID != listingID {
			kept = append(kept, e)
		}
	}
	r.watchlists[userID] = kept
	return nil
}

// IsWatched reports whether the listing is on the user's watchlist
func (r *MemoryRepo) IsWatched(ctx context.Context, userID, listingID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.watchlists[userID] {
		if e.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

// GetWatchlist returns the listings a user watches, in the order they were added
func (r *MemoryRepo) GetWatchlist(ctx context.Context, userID string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.watchlists[userID]
	listings := make([]model.Listing, 0, len(entries))
	for _, e := range entries {
		if listing, ok := r.listings[e.ListingID]; ok {
			listings = append(listings, cloneListing(listing))
		}
	}
	return listings, nil
}

// AddComment appends a comment to a listing
func (r *MemoryRepo) AddComment(ctx context.Context, comment model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[comment.ListingID]; !ok {
		return fmt.Errorf("add comment to listing %s: %w", comment.ListingID, auctionerrors.ErrListingNotFound)
	}
	r.comments[comment.ListingID] = append(r.comments[comment.ListingID], comment)
	return nil
}

// GetComments returns a listing's comments, oldest first
func (r *MemoryRepo) GetComments(ctx context.Context, listingID string) ([]model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.Comment{}, r.comments[listingID]...), nil
}

// AddListing stores a listing as-is. This method is intended for tests and seeding only.
func (r *MemoryRepo) AddListing(listing model.Listing) {
	if _, err := r.CreateListing(context.Background(), listing); err != nil {
		panic(err)
	}
}

// highestLocked must be called with r.mu held.
func (r *MemoryRepo) highestLocked(listingID string) *model.Bid {
	bids := r.bids[listingID]
	if len(bids) == 0 {
		return nil
	}
	highest := bids[0]
	for _, b := range bids[1:] {
		if b.Amount.GreaterThan(highest.Amount) {
			highest = b
		}
	}
	return &highest
}

func (r *MemoryRepo) collectNewestFirst(keep func(model.Listing) bool) []model.Listing {
	listings := make([]model.Listing, 0)
	for i := len(r.order) - 1; i >= 0; i-- {
		listing := r.listings[r.order[i]]
		if keep(listing) {
			listings = append(listings, cloneListing(listing))
		}
	}
	return listings
}

func cloneListing(l model.Listing) model.Listing {
	l.Categories = append([]model.Category{}, l.Categories...)
	if l.WinningBidID != nil {
		id := *l.WinningBidID
		l.WinningBidID = &id
	}
	return l
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
