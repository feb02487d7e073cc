package auction

import (
	"fmt"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"

	"github.com/shopspring/decimal"
)

// Messages shown on a closed listing
const (
	MessageWon    = "You've won this item!"
	MessageEnded  = "This auction has ended."
	MessageNoBids = "This auction ended with no bids."
)

// CheckBid applies the bidding rules for amount against a listing and its
// current highest bid (nil when there is none). The first bid must reach the
// starting bid; every later bid must beat the highest bid strictly.
func CheckBid(listing models.Listing, highest *models.Bid, amount decimal.Decimal) error {
	if !listing.Active {
		return fmt.Errorf("service: %w - bids are no longer accepted for listing %s", auctionerrors.ErrListingClosed, listing.ID)
	}
	if highest == nil {
		if amount.LessThan(listing.StartingBid) {
			return fmt.Errorf("service: %w - starting bid is %s", auctionerrors.ErrBidTooLow, models.FormatAmount(listing.StartingBid))
		}
		return nil
	}
	if !amount.GreaterThan(highest.Amount) {
		return fmt.Errorf("service: %w - current highest bid is %s", auctionerrors.ErrBidTooLow, models.FormatAmount(highest.Amount))
	}
	return nil
}

// OutcomeMessage describes how a closed auction ended from viewerID's point
// of view. It returns "" while the listing is still active.
func OutcomeMessage(listing models.Listing, winner *models.Bid, viewerID string) string {
	switch {
	case listing.Active:
		return ""
	case winner == nil:
		return MessageNoBids
	case viewerID != "" && winner.BidderID == viewerID:
		return MessageWon
	default:
		return MessageEnded
	}
}
