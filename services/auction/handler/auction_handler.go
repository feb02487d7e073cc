package handler

//go:generate mockgen -source=auction_handler.go -destination=mock_auction_handler.go -package=handler

import (
	"context"
	"errors"
	"net/http"

	auction "auction-house/internal/auctionService"
	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AuctionServiceInterface interface {
	CreateListing(ctx context.Context, sellerID string, in auction.NewListing) (model.Listing, error)
	ListActiveListings(ctx context.Context) ([]model.Listing, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListingsInCategory(ctx context.Context, name string) ([]model.Listing, error)
	ListingDetail(ctx context.Context, listingID, viewerID string) (auction.ListingDetail, error)
	PlaceBid(ctx context.Context, listingID, bidderID string, amount decimal.Decimal) (model.Bid, error)
	GetBidsForListing(ctx context.Context, listingID string) ([]model.Bid, error)
	GetWinningBid(ctx context.Context, listingID string) (model.Bid, error)
	GetListingsByBidder(ctx context.Context, userID string) ([]model.Listing, error)
	CloseListing(ctx context.Context, listingID, actorID string) (auction.Outcome, error)
	ToggleWatchlist(ctx context.Context, userID, listingID string, add bool) (bool, error)
	GetWatchlist(ctx context.Context, userID string) ([]model.Listing, error)
	AddComment(ctx context.Context, listingID, commenterID, text string) (model.Comment, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

func listingPath(listingID string) string {
	return "/listing/" + listingID
}

// IndexHandler handles GET /
func (h *AuctionHandler) IndexHandler(c *gin.Context) {
	listings, err := h.service.ListActiveListings(c.Request.Context())
	if err != nil {
		helpers.HandleServiceError(c, "IndexHandler", "error retrieving active listings", err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingResponses(listings), "active listings retrieved successfully")
	helpers.LogSuccess("IndexHandler", "active listings retrieved successfully", map[string]any{"count": len(listings)})
}

// CreateListingHandler handles POST /create
func (h *AuctionHandler) CreateListingHandler(c *gin.Context) {
	sellerID, ok := helpers.RequireUser(c, "CreateListingHandler")
	if !ok {
		return
	}

	var req helpers.CreateListingRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.HandleBindError(c, "CreateListingHandler", err)
		return
	}

	listing, err := h.service.CreateListing(c.Request.Context(), sellerID, auction.NewListing{
		Title:       req.Title,
		Description: req.Description,
		StartingBid: req.StartingBid,
		Categories:  req.Categories,
		Photo:       req.Photo,
	})
	if err != nil {
		helpers.HandleServiceError(c, "CreateListingHandler", "failed to create listing", err, map[string]any{"seller_id": sellerID})
		return
	}

	utils.JSONCreated(c, listingPath(listing.ID), helpers.NewListingResponse(listing), "listing created successfully")
	helpers.LogSuccess("CreateListingHandler", "listing created successfully", map[string]any{
		"listing_id":   listing.ID,
		"seller_id":    sellerID,
		"starting_bid": model.FormatAmount(listing.StartingBid),
	})
}

// ListingDetailHandler handles GET /listing/:id
func (h *AuctionHandler) ListingDetailHandler(c *gin.Context) {
	listingID, ok := helpers.ListingIDParam(c, "ListingDetailHandler")
	if !ok {
		return
	}

	viewerID := utils.CurrentUserID(c)
	detail, err := h.service.ListingDetail(c.Request.Context(), listingID, viewerID)
	if err != nil {
		helpers.HandleServiceError(c, "ListingDetailHandler", "error retrieving listing", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingDetailResponse(detail), "listing retrieved successfully")
	helpers.LogSuccess("ListingDetailHandler", "listing retrieved successfully", map[string]any{
		"listing_id": listingID,
		"viewer_id":  viewerID,
	})
}

// GetBidsByListingHandler handles GET /listing/:id/bids
func (h *AuctionHandler) GetBidsByListingHandler(c *gin.Context) {
	listingID, ok := helpers.ListingIDParam(c, "GetBidsByListingHandler")
	if !ok {
		return
	}

	bids, err := h.service.GetBidsForListing(c.Request.Context(), listingID)
	if err != nil && !errors.Is(err, auctionerrors.ErrNoBids) {
		helpers.HandleServiceError(c, "GetBidsByListingHandler", "error retrieving bids", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByListingHandler", "bids retrieved successfully", map[string]any{
		"listing_id": listingID,
		"count":      len(bids),
	})
}

// GetWinningBidHandler handles GET /listing/:id/winning
func (h *AuctionHandler) GetWinningBidHandler(c *gin.Context) {
	listingID, ok := helpers.ListingIDParam(c, "GetWinningBidHandler")
	if !ok {
		return
	}

	bid, err := h.service.GetWinningBid(c.Request.Context(), listingID)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrNoBids) {
			utils.JSONError(c, http.StatusNotFound, err, "no winning bid found")
			utils.Info("GetWinningBidHandler: no winning bid found", map[string]any{"listing_id": listingID})
			return
		}
		helpers.HandleServiceError(c, "GetWinningBidHandler", "winning bid error", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":     bid.ID,
		"listing_id": bid.ListingID,
		"bidder_id":  bid.BidderID,
		"amount":     model.FormatAmount(bid.Amount),
	})
}

// PlaceBidHandler handles POST /bid/:id
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	bidderID, ok := helpers.RequireUser(c, "PlaceBidHandler")
	if !ok {
		return
	}
	listingID, ok := helpers.ListingIDParam(c, "PlaceBidHandler")
	if !ok {
		return
	}

	var req helpers.PlaceBidRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), listingID, bidderID, req.Amount)
	if err != nil {
		helpers.HandleServiceError(c, "PlaceBidHandler", "failed to record bid", err, map[string]any{
			"listing_id": listingID,
			"bidder_id":  bidderID,
			"amount":     req.Amount.String(),
		})
		return
	}

	utils.JSONCreated(c, listingPath(listingID), helpers.NewBidResponse(bid), "bid recorded successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":     bid.ID,
		"listing_id": listingID,
		"bidder_id":  bidderID,
		"amount":     model.FormatAmount(bid.Amount),
	})
}

// ToggleWatchlistHandler handles POST /watchlist/:id
func (h *AuctionHandler) ToggleWatchlistHandler(c *gin.Context) {
	userID, ok := helpers.RequireUser(c, "ToggleWatchlistHandler")
	if !ok {
		return
	}
	listingID, ok := helpers.ListingIDParam(c, "ToggleWatchlistHandler")
	if !ok {
		return
	}

	var req helpers.WatchlistRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.HandleBindError(c, "ToggleWatchlistHandler", err)
		return
	}

	watched, err := h.service.ToggleWatchlist(c.Request.Context(), userID, listingID, req.Watchlist == helpers.AddToWatchlist)
	if err != nil {
		helpers.HandleServiceError(c, "ToggleWatchlistHandler", "failed to update watchlist", err, map[string]any{
			"listing_id": listingID,
			"user_id":    userID,
		})
		return
	}

	message := "removed from watchlist"
	if watched {
		message = "added to watchlist"
	}
	c.Header("Location", listingPath(listingID))
	utils.JSONResponse(c, http.StatusOK, helpers.WatchlistResponse{ListingID: listingID, Watched: watched}, message)
	helpers.LogSuccess("ToggleWatchlistHandler", message, map[string]any{"listing_id": listingID, "user_id": userID})
}

// GetWatchlistHandler handles GET /watchlist
func (h *AuctionHandler) GetWatchlistHandler(c *gin.Context) {
	userID, ok := helpers.RequireUser(c, "GetWatchlistHandler")
	if !ok {
		return
	}

	listings, err := h.service.GetWatchlist(c.Request.Context(), userID)
	if err != nil {
		helpers.HandleServiceError(c, "GetWatchlistHandler", "error retrieving watchlist", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingResponses(listings), "watchlist retrieved successfully")
	helpers.LogSuccess("GetWatchlistHandler", "watchlist retrieved successfully", map[string]any{
		"user_id": userID,
		"count":   len(listings),
	})
}

// CloseListingHandler handles POST /close/:id
func (h *AuctionHandler) CloseListingHandler(c *gin.Context) {
	userID, ok := helpers.RequireUser(c, "CloseListingHandler")
	if !ok {
		return
	}
	listingID, ok := helpers.ListingIDParam(c, "CloseListingHandler")
	if !ok {
		return
	}

	outcome, err := h.service.CloseListing(c.Request.Context(), listingID, userID)
	if err != nil {
		helpers.HandleServiceError(c, "CloseListingHandler", "failed to close listing", err, map[string]any{
			"listing_id": listingID,
			"user_id":    userID,
		})
		return
	}

	fields := map[string]any{"listing_id": listingID, "has_winner": outcome.HasWinner()}
	if outcome.Winner != nil {
		fields["winner_id"] = outcome.Winner.BidderID
		fields["amount"] = model.FormatAmount(outcome.Winner.Amount)
	}
	c.Header("Location", listingPath(listingID))
	utils.JSONResponse(c, http.StatusOK, helpers.NewCloseResponse(outcome), "auction closed")
	helpers.LogSuccess("CloseListingHandler", "auction closed", fields)
}

// AddCommentHandler handles POST /comment/:id
func (h *AuctionHandler) AddCommentHandler(c *gin.Context) {
	userID, ok := helpers.RequireUser(c, "AddCommentHandler")
	if !ok {
		return
	}
	listingID, ok := helpers.ListingIDParam(c, "AddCommentHandler")
	if !ok {
		return
	}

	var req helpers.CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		helpers.HandleBindError(c, "AddCommentHandler", err)
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), listingID, userID, req.Text)
	if err != nil {
		helpers.HandleServiceError(c, "AddCommentHandler", "failed to add comment", err, map[string]any{
			"listing_id": listingID,
			"user_id":    userID,
		})
		return
	}

	utils.JSONCreated(c, listingPath(listingID), helpers.NewCommentResponse(comment), "comment added successfully")
	helpers.LogSuccess("AddCommentHandler", "comment added successfully", map[string]any{
		"comment_id": comment.ID,
		"listing_id": listingID,
	})
}

// CategoriesHandler handles GET /categories
func (h *AuctionHandler) CategoriesHandler(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		helpers.HandleServiceError(c, "CategoriesHandler", "error retrieving categories", err, nil)
		return
	}

	names := make([]string, 0, len(categories))
	for _, cat := range categories {
		names = append(names, cat.Name)
	}
	utils.JSONResponse(c, http.StatusOK, names, "categories retrieved successfully")
	helpers.LogSuccess("CategoriesHandler", "categories retrieved successfully", map[string]any{"count": len(names)})
}

// CategoryListingsHandler handles GET /categories/:name
func (h *AuctionHandler) CategoryListingsHandler(c *gin.Context) {
	name := c.Param("name")
	listings, err := h.service.ListingsInCategory(c.Request.Context(), name)
	if err != nil {
		helpers.HandleServiceError(c, "CategoryListingsHandler", "error retrieving category", err, map[string]any{"category": name})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingResponses(listings), "category listings retrieved successfully")
	helpers.LogSuccess("CategoryListingsHandler", "category listings retrieved successfully", map[string]any{
		"category": name,
		"count":    len(listings),
	})
}

// GetListingsByUserHandler handles GET /users/:user_id/listings
func (h *AuctionHandler) GetListingsByUserHandler(c *gin.Context) {
	userID := c.Param("user_id")
	listings, err := h.service.GetListingsByBidder(c.Request.Context(), userID)
	if err != nil {
		helpers.HandleServiceError(c, "GetListingsByUserHandler", "error retrieving listings", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewListingResponses(listings), "listings retrieved successfully")
	helpers.LogSuccess("GetListingsByUserHandler", "listings retrieved successfully", map[string]any{
		"user_id":        userID,
		"listings_count": len(listings),
	})
}
