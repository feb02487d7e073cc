package auction

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"

	"github.com/shopspring/decimal"
)

const (
	maxTitleLength    = 64
	maxCategoryLength = 25
)

// NewListing carries the seller-supplied fields of a listing
type NewListing struct {
	Title       string
	Description string
	StartingBid decimal.Decimal
	Categories  []string
	Photo       string
}

// Outcome is the result of closing a listing. Winner is nil when nobody bid.
type Outcome struct {
	Listing models.Listing
	Winner  *models.Bid
}

// HasWinner reports whether the auction ended with a winning bid
func (o Outcome) HasWinner() bool {
	return o.Winner != nil
}

// ListingDetail is everything the listing page shows to one viewer
type ListingDetail struct {
	Listing    models.Listing
	HighestBid *decimal.Decimal
	Comments   []models.Comment
	Watched    bool
	Owner      bool
	Winner     *models.Bid
	Message    string
}

// AuctionService implements the listing, bidding, watchlist and comment rules
type AuctionService struct {
	repo repository.AuctionDB
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(repo repository.AuctionDB) *AuctionService {
	return &AuctionService{
		repo: repo,
	}
}

// CreateListing validates and stores a new active listing for sellerID
func (s *AuctionService) CreateListing(ctx context.Context, sellerID string, in NewListing) (models.Listing, error) {
	if sellerID == "" {
		return models.Listing{}, fmt.Errorf("service: %w - missing seller", auctionerrors.ErrValidation)
	}
	listing, err := buildListing(sellerID, in)
	if err != nil {
		return models.Listing{}, err
	}

	created, err := s.repo.CreateListing(ctx, listing)
	if err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to create listing for seller %s: %w", sellerID, err)
	}
	return created, nil
}

func buildListing(sellerID string, in NewListing) (models.Listing, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return models.Listing{}, fmt.Errorf("service: %w - title must be 1 to %d characters", auctionerrors.ErrValidation, maxTitleLength)
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return models.Listing{}, fmt.Errorf("service: %w - description is required", auctionerrors.ErrValidation)
	}
	if !models.ValidAmount(in.StartingBid) {
		return models.Listing{}, fmt.Errorf("service: %w - starting bid must be a positive amount with at most two decimals, up to %s",
			auctionerrors.ErrValidation, models.FormatAmount(models.MaxAmount))
	}
	photo := strings.TrimSpace(in.Photo)
	if photo != "" {
		u, err := url.ParseRequestURI(photo)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return models.Listing{}, fmt.Errorf("service: %w - photo must be an http(s) URL", auctionerrors.ErrValidation)
		}
	}

	seen := make(map[string]bool, len(in.Categories))
	categories := make([]models.Category, 0, len(in.Categories))
	for _, raw := range in.Categories {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		if utf8.RuneCountInString(name) > maxCategoryLength {
			return models.Listing{}, fmt.Errorf("service: %w - category %q is longer than %d characters",
				auctionerrors.ErrValidation, name, maxCategoryLength)
		}
		seen[name] = true
		categories = append(categories, models.Category{Name: name})
	}

	return models.Listing{
		ID:          utils.GenerateID(),
		Title:       title,
		Description: description,
		StartingBid: in.StartingBid.Round(models.MonetaryPrecision),
		SellerID:    sellerID,
		Photo:       photo,
		Active:      true,
		Categories:  categories,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// GetListing returns one listing
func (s *AuctionService) GetListing(ctx context.Context, listingID string) (models.Listing, error) {
	listing, err := s.repo.GetListing(ctx, listingID)
	if err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to get listing %s: %w", listingID, err)
	}
	return listing, nil
}

// ListActiveListings returns the listings still open for bidding
func (s *AuctionService) ListActiveListings(ctx context.Context) ([]models.Listing, error) {
	listings, err := s.repo.GetActiveListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list active listings: %w", err)
	}
	return listings, nil
}

// ListCategories returns every category
func (s *AuctionService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}
	return categories, nil
}

// ListingsInCategory returns the active listings of one category
func (s *AuctionService) ListingsInCategory(ctx context.Context, name string) ([]models.Listing, error) {
	if name == "" {
		return nil, fmt.Errorf("service: %w - empty category", auctionerrors.ErrCategoryNotFound)
	}
	listings, err := s.repo.GetListingsByCategory(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list category %s: %w", name, err)
	}
	return listings, nil
}

// FindHighestBid returns the highest amount bid on a listing; ok is false when there are no bids
func (s *AuctionService) FindHighestBid(ctx context.Context, listingID string) (amount decimal.Decimal, ok bool, err error) {
	bid, err := s.repo.GetHighestBid(ctx, listingID)
	if errors.Is(err, auctionerrors.ErrNoBids) {
		return decimal.Decimal{}, false, nil
	}
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("service: failed to find highest bid for listing %s: %w", listingID, err)
	}
	return bid.Amount, true, nil
}

// PlaceBid validates and records a user's bid. The highest-bid lookup, the
// rule check and the insert happen atomically in the repository.
func (s *AuctionService) PlaceBid(ctx context.Context, listingID, bidderID string, amount decimal.Decimal) (models.Bid, error) {
	if listingID == "" || bidderID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing listingID or bidderID", auctionerrors.ErrInvalidBid)
	}
	if !models.ValidAmount(amount) {
		return models.Bid{}, fmt.Errorf("service: %w - amount %s must be positive with at most two decimals, up to %s",
			auctionerrors.ErrInvalidBid, amount, models.FormatAmount(models.MaxAmount))
	}

	bid, err := s.repo.RecordBid(ctx, listingID, func(listing models.Listing, highest *models.Bid) (models.Bid, error) {
		if err := CheckBid(listing, highest, amount); err != nil {
			return models.Bid{}, err
		}
		return models.Bid{
			ID:        utils.GenerateID(),
			ListingID: listing.ID,
			BidderID:  bidderID,
			Amount:    amount.Round(models.MonetaryPrecision),
			CreatedAt: time.Now().UTC(),
		}, nil
	})
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid for listing %s by user %s: %w", listingID, bidderID, err)
	}
	return bid, nil
}

// GetBidsForListing returns all bids for a listing
func (s *AuctionService) GetBidsForListing(ctx context.Context, listingID string) ([]models.Bid, error) {
	if listingID == "" {
		return nil, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrInvalidBid)
	}

	bids, err := s.repo.GetBidsByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for listing %s: %w", listingID, err)
	}
	return bids, nil
}

// GetWinningBid returns the highest bid record for a listing
func (s *AuctionService) GetWinningBid(ctx context.Context, listingID string) (models.Bid, error) {
	if listingID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrInvalidBid)
	}

	bid, err := s.repo.GetHighestBid(ctx, listingID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for listing %s: %w", listingID, err)
	}
	return bid, nil
}

// GetListingsByBidder returns all listings a user has placed bids on
func (s *AuctionService) GetListingsByBidder(ctx context.Context, userID string) ([]models.Listing, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrValidation)
	}

	listings, err := s.repo.GetListingsByBidder(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get listings for user %s: %w", userID, err)
	}
	return listings, nil
}

// CloseListing ends the auction. Only the seller may close; closing twice
// returns the original outcome.
func (s *AuctionService) CloseListing(ctx context.Context, listingID, actorID string) (Outcome, error) {
	if listingID == "" || actorID == "" {
		return Outcome{}, fmt.Errorf("service: %w - missing listingID or user", auctionerrors.ErrValidation)
	}

	listing, winner, err := s.repo.CloseListing(ctx, listingID, func(listing models.Listing) error {
		if listing.SellerID != actorID {
			return fmt.Errorf("service: %w - user %s", auctionerrors.ErrNotSeller, actorID)
		}
		return nil
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("service: failed to close listing %s: %w", listingID, err)
	}
	return Outcome{Listing: listing, Winner: winner}, nil
}

// ListingDetail assembles the listing page for viewerID ("" for anonymous visitors)
func (s *AuctionService) ListingDetail(ctx context.Context, listingID, viewerID string) (ListingDetail, error) {
	listing, err := s.GetListing(ctx, listingID)
	if err != nil {
		return ListingDetail{}, err
	}

	detail := ListingDetail{
		Listing: listing,
		Owner:   viewerID != "" && viewerID == listing.SellerID,
	}

	if amount, ok, err := s.FindHighestBid(ctx, listingID); err != nil {
		return ListingDetail{}, err
	} else if ok {
		detail.HighestBid = &amount
	}

	if detail.Comments, err = s.GetComments(ctx, listingID); err != nil {
		return ListingDetail{}, err
	}

	if viewerID != "" {
		if detail.Watched, err = s.IsWatched(ctx, viewerID, listingID); err != nil {
			return ListingDetail{}, err
		}
	}

	if !listing.Active && listing.WinningBidID != nil {
		winner, err := s.repo.GetBid(ctx, *listing.WinningBidID)
		if err != nil {
			return ListingDetail{}, fmt.Errorf("service: failed to load winning bid of listing %s: %w", listingID, err)
		}
		detail.Winner = &winner
	}
	detail.Message = OutcomeMessage(listing, detail.Winner, viewerID)

	return detail, nil
}

// IsWatched reports whether userID watches the listing
func (s *AuctionService) IsWatched(ctx context.Context, userID, listingID string) (bool, error) {
	watched, err := s.repo.IsWatched(ctx, userID, listingID)
	if err != nil {
		return false, fmt.Errorf("service: failed to check watchlist of user %s: %w", userID, err)
	}
	return watched, nil
}

// ToggleWatchlist adds the listing to (add=true) or removes it from the
// user's watchlist and returns the resulting membership.
func (s *AuctionService) ToggleWatchlist(ctx context.Context, userID, listingID string, add bool) (bool, error) {
	if userID == "" || listingID == "" {
		return false, fmt.Errorf("service: %w - missing listingID or user", auctionerrors.ErrValidation)
	}

	if add {
		if err := s.repo.AddToWatchlist(ctx, userID, listingID); err != nil {
			return false, fmt.Errorf("service: failed to add listing %s to watchlist of user %s: %w", listingID, userID, err)
		}
		return true, nil
	}
	if err := s.repo.RemoveFromWatchlist(ctx, userID, listingID); err != nil {
		return false, fmt.Errorf("service: failed to remove listing %s from watchlist of user %s: %w", listingID, userID, err)
	}
	return false, nil
}

// GetWatchlist returns the listings on a user's watchlist
func (s *AuctionService) GetWatchlist(ctx context.Context, userID string) ([]models.Listing, error) {
	listings, err := s.repo.GetWatchlist(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get watchlist of user %s: %w", userID, err)
	}
	return listings, nil
}

// AddComment appends a comment to a listing
func (s *AuctionService) AddComment(ctx context.Context, listingID, commenterID, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, fmt.Errorf("service: %w - comment text is empty", auctionerrors.ErrValidation)
	}
	if listingID == "" || commenterID == "" {
		return models.Comment{}, fmt.Errorf("service: %w - missing listingID or commenter", auctionerrors.ErrValidation)
	}

	comment := models.Comment{
		ID:          utils.GenerateID(),
		ListingID:   listingID,
		CommenterID: commenterID,
		Text:        text,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return models.Comment{}, fmt.Errorf("service: failed to add comment to listing %s: %w", listingID, err)
	}
	return comment, nil
}

// GetComments returns a listing's comments, oldest first
func (s *AuctionService) GetComments(ctx context.Context, listingID string) ([]models.Comment, error) {
	comments, err := s.repo.GetComments(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get comments for listing %s: %w", listingID, err)
	}
	return comments, nil
}
