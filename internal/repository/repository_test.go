package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Helper to create a new Listing
func newListing(sellerID, title, startingBid string, categories ...string) model.Listing {
	cats := make([]model.Category, 0, len(categories))
	for _, name := range categories {
		cats = append(cats, model.Category{Name: name})
	}
	return model.Listing{
		ID:          uuid.NewString(),
		Title:       title,
		Description: fmt.Sprintf("%s description", title),
		StartingBid: decimal.RequireFromString(startingBid),
		SellerID:    sellerID,
		Active:      true,
		Categories:  cats,
		CreatedAt:   time.Now().UTC(),
	}
}

// Helper to create a new User
func newUser(username string) model.User {
	return model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
}

// strictlyHigher accepts a bid of amount by bidder only when it beats the current highest bid
func strictlyHigher(bidder, amount string) BidRule {
	return func(listing model.Listing, highest *model.Bid) (model.Bid, error) {
		a := decimal.RequireFromString(amount)
		if highest != nil && !a.GreaterThan(highest.Amount) {
			return model.Bid{}, auctionerrors.ErrBidTooLow
		}
		return model.Bid{
			ID:        uuid.NewString(),
			ListingID: listing.ID,
			BidderID:  bidder,
			Amount:    a,
			CreatedAt: time.Now().UTC(),
		}, nil
	}
}

func allowClose(model.Listing) error { return nil }

// The tests below run against every Store implementation.

func testUsers(t *testing.T, store Store) {
	ctx := context.Background()
	alice := newUser("alice")

	require.NoError(t, store.CreateUser(ctx, alice))

	err := store.CreateUser(ctx, newUser("alice"))
	require.True(t, errors.Is(err, auctionerrors.ErrDuplicateUsername), "got %v", err)

	byName, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, alice.ID, byName.ID)

	byID, err := store.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)

	_, err = store.GetUserByUsername(ctx, "nobody")
	require.True(t, errors.Is(err, auctionerrors.ErrUserNotFound))

	_, err = store.GetUserByID(ctx, uuid.NewString())
	require.True(t, errors.Is(err, auctionerrors.ErrUserNotFound))
}

func testListingsAndCategories(t *testing.T, store Store) {
	ctx := context.Background()
	seller := uuid.NewString()

	older := newListing(seller, "Lamp", "10.00", "Home")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := newListing(seller, "Guitar", "150.00", "Music", "Home")

	_, err := store.CreateListing(ctx, older)
	require.NoError(t, err)
	_, err = store.CreateListing(ctx, newer)
	require.NoError(t, err)

	got, err := store.GetListing(ctx, newer.ID)
	require.NoError(t, err)
	require.Equal(t, "Guitar", got.Title)
	require.True(t, got.Active)
	require.True(t, decimal.RequireFromString("150").Equal(got.StartingBid))
	require.Len(t, got.Categories, 2)

	_, err = store.GetListing(ctx, uuid.NewString())
	require.True(t, errors.Is(err, auctionerrors.ErrListingNotFound))

	active, err := store.GetActiveListings(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, newer.ID, active[0].ID, "newest listing first")

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.Category{{Name: "Home"}, {Name: "Music"}}, categories)

	home, err := store.GetListingsByCategory(ctx, "Home")
	require.NoError(t, err)
	require.Len(t, home, 2)

	music, err := store.GetListingsByCategory(ctx, "Music")
	require.NoError(t, err)
	require.Len(t, music, 1)
	require.Equal(t, newer.ID, music[0].ID)

	_, err = store.GetListingsByCategory(ctx, "Garden")
	require.True(t, errors.Is(err, auctionerrors.ErrCategoryNotFound))

	// closed listings drop out of browsing
	_, _, err = store.CloseListing(ctx, newer.ID, allowClose)
	require.NoError(t, err)
	music, err = store.GetListingsByCategory(ctx, "Music")
	require.NoError(t, err)
	require.Empty(t, music)
	active, err = store.GetActiveListings(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
}

func testBidLifecycle(t *testing.T, store Store) {
	ctx := context.Background()
	listing := newListing(uuid.NewString(), "Clock", "10.00")
	_, err := store.CreateListing(ctx, listing)
	require.NoError(t, err)

	_, err = store.GetHighestBid(ctx, listing.ID)
	require.True(t, errors.Is(err, auctionerrors.ErrNoBids), "got %v", err)

	bids, err := store.GetBidsByListing(ctx, listing.ID)
	require.NoError(t, err)
	require.Empty(t, bids)

	first, err := store.RecordBid(ctx, listing.ID, strictlyHigher("u1", "10.00"))
	require.NoError(t, err)

	_, err = store.RecordBid(ctx, listing.ID, strictlyHigher("u2", "10.00"))
	require.True(t, errors.Is(err, auctionerrors.ErrBidTooLow), "got %v", err)

	second, err := store.RecordBid(ctx, listing.ID, strictlyHigher("u2", "10.01"))
	require.NoError(t, err)

	highest, err := store.GetHighestBid(ctx, listing.ID)
	require.NoError(t, err)
	require.Equal(t, second.ID, highest.ID)
	require.True(t, decimal.RequireFromString("10.01").Equal(highest.Amount))

	bids, err = store.GetBidsByListing(ctx, listing.ID)
	require.NoError(t, err)
	require.Len(t, bids, 2)
	require.Equal(t, first.ID, bids[0].ID)
	require.Equal(t, second.ID, bids[1].ID)

	fetched, err := store.GetBid(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "u1", fetched.BidderID)

	byBidder, err := store.GetListingsByBidder(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, byBidder, 1)
	require.Equal(t, listing.ID, byBidder[0].ID)

	none, err := store.GetListingsByBidder(ctx, "u3")
	require.NoError(t, err)
	require.Empty(t, none)

	_, err = store.RecordBid(ctx, uuid.NewString(), strictlyHigher("u1", "1.00"))
	require.True(t, errors.Is(err, auctionerrors.ErrListingNotFound))

	closed, winner, err := store.CloseListing(ctx, listing.ID, allowClose)
	require.NoError(t, err)
	require.False(t, closed.Active)
	require.NotNil(t, winner)
	require.Equal(t, second.ID, winner.ID)
	require.Equal(t, "u2", winner.BidderID)
	require.NotNil(t, closed.WinningBidID)
	require.Equal(t, second.ID, *closed.WinningBidID)

	// closing again reports the same outcome
	again, winnerAgain, err := store.CloseListing(ctx, listing.ID, allowClose)
	require.NoError(t, err)
	require.False(t, again.Active)
	require.NotNil(t, winnerAgain)
	require.Equal(t, second.ID, winnerAgain.ID)

	stored, err := store.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	require.False(t, stored.Active)
	require.Equal(t, second.ID, *stored.WinningBidID)
}

func testCloseRules(t *testing.T, store Store) {
	ctx := context.Background()
	listing := newListing(uuid.NewString(), "Vase", "5.00")
	_, err := store.CreateListing(ctx, listing)
	require.NoError(t, err)

	denied := errors.New("denied")
	_, _, err = store.CloseListing(ctx, listing.ID, func(model.Listing) error { return denied })
	require.True(t, errors.Is(err, denied))

	stillOpen, err := store.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	require.True(t, stillOpen.Active)

	closed, winner, err := store.CloseListing(ctx, listing.ID, allowClose)
	require.NoError(t, err)
	require.False(t, closed.Active)
	require.Nil(t, winner)
	require.Nil(t, closed.WinningBidID)

	_, _, err = store.CloseListing(ctx, uuid.NewString(), allowClose)
	require.True(t, errors.Is(err, auctionerrors.ErrListingNotFound))
}

func testWatchlist(t *testing.T, store Store) {
	ctx := context.Background()
	a := newListing(uuid.NewString(), "Chair", "20.00")
	b := newListing(uuid.NewString(), "Table", "40.00")
	for _, l := range []model.Listing{a, b} {
		_, err := store.CreateListing(ctx, l)
		require.NoError(t, err)
	}

	watched, err := store.IsWatched(ctx, "u1", a.ID)
	require.NoError(t, err)
	require.False(t, watched)

	require.NoError(t, store.AddToWatchlist(ctx, "u1", a.ID))
	require.NoError(t, store.AddToWatchlist(ctx, "u1", a.ID))
	require.NoError(t, store.AddToWatchlist(ctx, "u1", b.ID))

	watched, err = store.IsWatched(ctx, "u1", a.ID)
	require.NoError(t, err)
	require.True(t, watched)

	list, err := store.GetWatchlist(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2, "adding twice keeps one entry")

	other, err := store.IsWatched(ctx, "u2", a.ID)
	require.NoError(t, err)
	require.False(t, other)

	require.NoError(t, store.RemoveFromWatchlist(ctx, "u1", a.ID))
	watched, err = store.IsWatched(ctx, "u1", a.ID)
	require.NoError(t, err)
	require.False(t, watched)

	list, err = store.GetWatchlist(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, b.ID, list[0].ID)

	err = store.AddToWatchlist(ctx, "u1", uuid.NewString())
	require.True(t, errors.Is(err, auctionerrors.ErrListingNotFound))
}

func testComments(t *testing.T, store Store) {
	ctx := context.Background()
	listing := newListing(uuid.NewString(), "Bike", "75.00")
	_, err := store.CreateListing(ctx, listing)
	require.NoError(t, err)

	now := time.Now().UTC()
	first := model.Comment{ID: uuid.NewString(), ListingID: listing.ID, CommenterID: "u1", Text: "Is it still available?", CreatedAt: now}
	second := model.Comment{ID: uuid.NewString(), ListingID: listing.ID, CommenterID: "u2", Text: "Nice bike", CreatedAt: now.Add(time.Second)}
	require.NoError(t, store.AddComment(ctx, first))
	require.NoError(t, store.AddComment(ctx, second))

	comments, err := store.GetComments(ctx, listing.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, first.ID, comments[0].ID)
	require.Equal(t, "Nice bike", comments[1].Text)

	err = store.AddComment(ctx, model.Comment{ID: uuid.NewString(), ListingID: uuid.NewString(), CommenterID: "u1", Text: "hello"})
	require.True(t, errors.Is(err, auctionerrors.ErrListingNotFound))
}

func testConcurrentBids(t *testing.T, store Store) {
	ctx := context.Background()
	listing := newListing(uuid.NewString(), "Painting", "1.00")
	_, err := store.CreateListing(ctx, listing)
	require.NoError(t, err)

	var wg sync.WaitGroup
	concurrentCount := 40

	for i := 0; i < concurrentCount; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			amount := fmt.Sprintf("%d.00", 100+i%10)
			_, err := store.RecordBid(ctx, listing.ID, strictlyHigher(fmt.Sprintf("user-%d", i), amount))
			if err != nil && !errors.Is(err, auctionerrors.ErrBidTooLow) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	bids, err := store.GetBidsByListing(ctx, listing.ID)
	require.NoError(t, err)
	require.NotEmpty(t, bids)
	for i := 1; i < len(bids); i++ {
		require.True(t, bids[i].Amount.GreaterThan(bids[i-1].Amount),
			"bid %d (%s) must exceed bid %d (%s)", i, bids[i].Amount, i-1, bids[i-1].Amount)
	}
}

func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	tests := []struct {
		name string
		run  func(t *testing.T, store Store)
	}{
		{"users", testUsers},
		{"listings_and_categories", testListingsAndCategories},
		{"bid_lifecycle", testBidLifecycle},
		{"close_rules", testCloseRules},
		{"watchlist", testWatchlist},
		{"comments", testComments},
		{"concurrent_bids", testConcurrentBids},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tc.run(t, newStore(t))
		})
	}
}
