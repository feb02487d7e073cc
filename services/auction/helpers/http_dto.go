package helpers

import (
	"time"

	auction "auction-house/internal/auctionService"
	model "auction-house/internal/models"

	"github.com/shopspring/decimal"
)

// AddToWatchlist is the submit value that adds a listing; any other value removes it
const AddToWatchlist = "Add to Watchlist"

// Request DTOs. Every request binds from JSON or from a posted form.
type CreateListingRequest struct {
	Title       string          `json:"title" form:"title" binding:"required,max=64"`
	Description string          `json:"description" form:"description" binding:"required"`
	StartingBid decimal.Decimal `json:"starting_bid" form:"starting_bid"`
	Categories  []string        `json:"categories" form:"categories"`
	Photo       string          `json:"photo" form:"photo" binding:"omitempty,url"`
}

type PlaceBidRequest struct {
	Amount decimal.Decimal `json:"amount" form:"amount"`
}

type WatchlistRequest struct {
	Watchlist string `json:"watchlist" form:"watchlist" binding:"required"`
}

type CommentRequest struct {
	Text string `json:"comment_text" form:"comment_text" binding:"required"`
}

// Response DTOs. Amounts are rendered as fixed two-decimal strings.
type BidResponse struct {
	BidID     string `json:"bid_id"`
	ListingID string `json:"listing_id"`
	BidderID  string `json:"bidder_id"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"created_at"`
}

type ListingResponse struct {
	ListingID    string   `json:"listing_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	StartingBid  string   `json:"starting_bid"`
	SellerID     string   `json:"seller_id"`
	Photo        string   `json:"photo,omitempty"`
	Active       bool     `json:"active"`
	Categories   []string `json:"categories"`
	WinningBidID string   `json:"winning_bid_id,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

type CommentResponse struct {
	CommentID   string `json:"comment_id"`
	CommenterID string `json:"commenter_id"`
	Text        string `json:"text"`
	CreatedAt   string `json:"created_at"`
}

type ListingDetailResponse struct {
	Listing    ListingResponse   `json:"listing"`
	HighestBid *string           `json:"highest_bid"`
	Comments   []CommentResponse `json:"comments"`
	Watched    bool              `json:"watched"`
	Owner      bool              `json:"owner"`
	Active     bool              `json:"active"`
	Winner     *BidResponse      `json:"winner,omitempty"`
	Message    string            `json:"message,omitempty"`
}

type CloseResponse struct {
	Listing   ListingResponse `json:"listing"`
	HasWinner bool            `json:"has_winner"`
	Winner    *BidResponse    `json:"winner,omitempty"`
}

type WatchlistResponse struct {
	ListingID string `json:"listing_id"`
	Watched   bool   `json:"watched"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// NewBidResponse converts a bid for the wire
func NewBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.ID,
		ListingID: bid.ListingID,
		BidderID:  bid.BidderID,
		Amount:    model.FormatAmount(bid.Amount),
		CreatedAt: formatTime(bid.CreatedAt),
	}
}

// NewBidResponses converts bids for the wire
func NewBidResponses(bids []model.Bid) []BidResponse {
	resp := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, NewBidResponse(b))
	}
	return resp
}

// NewListingResponse converts a listing for the wire
func NewListingResponse(l model.Listing) ListingResponse {
	categories := make([]string, 0, len(l.Categories))
	for _, c := range l.Categories {
		categories = append(categories, c.Name)
	}
	resp := ListingResponse{
		ListingID:   l.ID,
		Title:       l.Title,
		Description: l.Description,
		StartingBid: model.FormatAmount(l.StartingBid),
		SellerID:    l.SellerID,
		Photo:       l.Photo,
		Active:      l.Active,
		Categories:  categories,
		CreatedAt:   formatTime(l.CreatedAt),
	}
	if l.WinningBidID != nil {
		resp.WinningBidID = *l.WinningBidID
	}
	return resp
}

// NewListingResponses converts listings for the wire
func NewListingResponses(listings []model.Listing) []ListingResponse {
	resp := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		resp = append(resp, NewListingResponse(l))
	}
	return resp
}

// NewListingDetailResponse converts the listing page for the wire
func NewListingDetailResponse(d auction.ListingDetail) ListingDetailResponse {
	comments := make([]CommentResponse, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, NewCommentResponse(c))
	}
	resp := ListingDetailResponse{
		Listing:  NewListingResponse(d.Listing),
		Comments: comments,
		Watched:  d.Watched,
		Owner:    d.Owner,
		Active:   d.Listing.Active,
		Message:  d.Message,
	}
	if d.HighestBid != nil {
		amount := model.FormatAmount(*d.HighestBid)
		resp.HighestBid = &amount
	}
	if d.Winner != nil {
		winner := NewBidResponse(*d.Winner)
		resp.Winner = &winner
	}
	return resp
}

// NewCloseResponse converts a close outcome for the wire
func NewCloseResponse(o auction.Outcome) CloseResponse {
	resp := CloseResponse{
		Listing:   NewListingResponse(o.Listing),
		HasWinner: o.HasWinner(),
	}
	if o.Winner != nil {
		winner := NewBidResponse(*o.Winner)
		resp.Winner = &winner
	}
	return resp
}

// NewCommentResponse converts a comment for the wire
func NewCommentResponse(c model.Comment) CommentResponse {
	return CommentResponse{
		CommentID:   c.ID,
		CommenterID: c.CommenterID,
		Text:        c.Text,
		CreatedAt:   formatTime(c.CreatedAt),
	}
}
