package auction

import (
	"errors"
	"testing"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCheckBid(t *testing.T) {
	t.Parallel()

	open := models.Listing{ID: "l1", StartingBid: dec("10.00"), Active: true}
	closed := models.Listing{ID: "l1", StartingBid: dec("10.00"), Active: false}
	highest := &models.Bid{ID: "b1", Amount: dec("10.00")}

	tests := []struct {
		name          string
		listing       models.Listing
		highest       *models.Bid
		amount        string
		expectedError error
	}{
		{name: "first_bid_equal_to_starting_bid", listing: open, amount: "10.00"},
		{name: "first_bid_above_starting_bid", listing: open, amount: "12.50"},
		{name: "first_bid_below_starting_bid", listing: open, amount: "9.99", expectedError: auctionerrors.ErrBidTooLow},
		{name: "equal_to_highest", listing: open, highest: highest, amount: "10.00", expectedError: auctionerrors.ErrBidTooLow},
		{name: "below_highest", listing: open, highest: highest, amount: "9.00", expectedError: auctionerrors.ErrBidTooLow},
		{name: "one_cent_above_highest", listing: open, highest: highest, amount: "10.01"},
		{name: "closed_listing", listing: closed, amount: "50.00", expectedError: auctionerrors.ErrListingClosed},
		{name: "closed_listing_with_bids", listing: closed, highest: highest, amount: "50.00", expectedError: auctionerrors.ErrListingClosed},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := CheckBid(tc.listing, tc.highest, dec(tc.amount))
			if tc.expectedError == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
		})
	}
}

func TestOutcomeMessage(t *testing.T) {
	t.Parallel()

	winner := &models.Bid{ID: "b1", BidderID: "alice"}

	tests := []struct {
		name    string
		active  bool
		winner  *models.Bid
		viewer  string
		message string
	}{
		{"active_listing", true, winner, "alice", ""},
		{"no_bids", false, nil, "alice", MessageNoBids},
		{"viewer_won", false, winner, "alice", MessageWon},
		{"viewer_lost", false, winner, "bob", MessageEnded},
		{"anonymous_viewer", false, winner, "", MessageEnded},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := OutcomeMessage(models.Listing{Active: tc.active}, tc.winner, tc.viewer)
			require.Equal(t, tc.message, got)
		})
	}
}
