package repository

import (
	"context"
	"errors"
	"fmt"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pgUniqueViolation is the SQLSTATE Postgres reports for unique index conflicts.
const pgUniqueViolation = "23505"

// GormRepo is a relational implementation of Store on top of gorm.
// Bid submission and closing lock the listing row (SELECT ... FOR UPDATE)
// inside a transaction, so concurrent writers on one listing serialize.
type GormRepo struct {
	db *gorm.DB
}

// NewGormRepo wraps an open gorm connection
func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

// Ping checks that the database is reachable
func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// CreateUser stores a new account, rejecting taken usernames
func (r *GormRepo) CreateUser(ctx context.Context, user model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return fmt.Errorf("create user %s: %w", user.Username, err)
		}
		if count > 0 {
			return fmt.Errorf("create user %s: %w", user.Username, auctionerrors.ErrDuplicateUsername)
		}
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("create user %s: %w", user.Username, auctionerrors.ErrDuplicateUsername)
			}
			return fmt.Errorf("create user %s: %w", user.Username, err)
		}
		return nil
	})
}

// GetUserByID returns a user by ID
func (r *GormRepo) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, notFound(err, auctionerrors.ErrUserNotFound))
	}
	return user, nil
}

// GetUserByUsername returns a user by username
func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return model.User{}, fmt.Errorf("get user %s: %w", username, notFound(err, auctionerrors.ErrUserNotFound))
	}
	return user, nil
}

// CreateListing stores a listing together with its categories; unknown categories are created
func (r *GormRepo) CreateListing(ctx context.Context, listing model.Listing) (model.Listing, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(listing.Categories) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&listing.Categories).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Categories.*").Create(&listing).Error
	})
	if err != nil {
		return model.Listing{}, fmt.Errorf("create listing %s: %w", listing.ID, err)
	}
	return listing, nil
}

// GetListing returns a listing by ID
func (r *GormRepo) GetListing(ctx context.Context, listingID string) (model.Listing, error) {
	var listing model.Listing
	err := r.db.WithContext(ctx).Preload("Categories").Where("id = ?", listingID).First(&listing).Error
	if err != nil {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, notFound(err, auctionerrors.ErrListingNotFound))
	}
	return listing, nil
}

// GetActiveListings returns active listings, newest first
func (r *GormRepo) GetActiveListings(ctx context.Context) ([]model.Listing, error) {
	listings := make([]model.Listing, 0)
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("active = ?", true).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("get active listings: %w", err)
	}
	return listings, nil
}

// GetCategories returns all categories sorted by name
func (r *GormRepo) GetCategories(ctx context.Context) ([]model.Category, error) {
	categories := make([]model.Category, 0)
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return categories, nil
}

// GetListingsByCategory returns the active listings of a category, newest first
func (r *GormRepo) GetListingsByCategory(ctx context.Context, name string) ([]model.Listing, error) {
	db := r.db.WithContext(ctx)

	var category model.Category
	if err := db.Where("name = ?", name).First(&category).Error; err != nil {
		return nil, fmt.Errorf("get listings for category %s: %w", name, notFound(err, auctionerrors.ErrCategoryNotFound))
	}

	listings := make([]model.Listing, 0)
	err := db.
		Preload("Categories").
		Joins("JOIN listing_categories ON listing_categories.listing_id = listings.id").
		Where("listing_categories.category_name = ? AND listings.active = ?", name, true).
		Order("listings.created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("get listings for category %s: %w", name, err)
	}
	return listings, nil
}

// RecordBid locks the listing, consults rule and inserts the resulting bid in one transaction
func (r *GormRepo) RecordBid(ctx context.Context, listingID string, rule BidRule) (model.Bid, error) {
	var bid model.Bid
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, err := lockListing(tx, listingID)
		if err != nil {
			return err
		}
		highest, err := highestBid(tx, listingID)
		if err != nil {
			return err
		}
		bid, err = rule(listing, highest)
		if err != nil {
			return err
		}
		return tx.Create(&bid).Error
	})
	if err != nil {
		return model.Bid{}, fmt.Errorf("record bid for listing %s: %w", listingID, err)
	}
	return bid, nil
}

// GetBidsByListing returns all bids for a listing in placement order
func (r *GormRepo) GetBidsByListing(ctx context.Context, listingID string) ([]model.Bid, error) {
	db := r.db.WithContext(ctx)
	if err := ensureListing(db, listingID); err != nil {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, err)
	}

	bids := make([]model.Bid, 0)
	if err := db.Where("listing_id = ?", listingID).Order("created_at, amount").Find(&bids).Error; err != nil {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, err)
	}
	return bids, nil
}

// GetHighestBid returns the highest bid for a listing
func (r *GormRepo) GetHighestBid(ctx context.Context, listingID string) (model.Bid, error) {
	db := r.db.WithContext(ctx)
	if err := ensureListing(db, listingID); err != nil {
		return model.Bid{}, fmt.Errorf("get highest bid for listing %s: %w", listingID, err)
	}

	highest, err := highestBid(db, listingID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("get highest bid for listing %s: %w", listingID, err)
	}
	if highest == nil {
		return model.Bid{}, fmt.Errorf("get highest bid for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}
	return *highest, nil
}

// GetBid returns a single bid by ID
func (r *GormRepo) GetBid(ctx context.Context, bidID string) (model.Bid, error) {
	var bid model.Bid
	if err := r.db.WithContext(ctx).Where("id = ?", bidID).First(&bid).Error; err != nil {
		return model.Bid{}, fmt.Errorf("get bid %s: %w", bidID, notFound(err, auctionerrors.ErrNoBids))
	}
	return bid, nil
}

// GetListingsByBidder returns all listings a user has bid on
func (r *GormRepo) GetListingsByBidder(ctx context.Context, userID string) ([]model.Listing, error) {
	db := r.db.WithContext(ctx)
	listings := make([]model.Listing, 0)
	err := db.
		Preload("Categories").
		Where("id IN (?)", db.Model(&model.Bid{}).Select("listing_id").Where("bidder_id = ?", userID)).
		Order("created_at").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("get listings for bidder %s: %w", userID, err)
	}
	return listings, nil
}

// CloseListing deactivates a listing and pins its highest bid as the winner
func (r *GormRepo) CloseListing(ctx context.Context, listingID string, rule CloseRule) (model.Listing, *model.Bid, error) {
	var (
		listing model.Listing
		winner  *model.Bid
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		listing, err = lockListing(tx, listingID)
		if err != nil {
			return err
		}
		if err := rule(listing); err != nil {
			return err
		}

		if !listing.Active {
			if listing.WinningBidID == nil {
				return nil
			}
			var bid model.Bid
			if err := tx.Where("id = ?", *listing.WinningBidID).First(&bid).Error; err != nil {
				return err
			}
			winner = &bid
			return nil
		}

		winner, err = highestBid(tx, listingID)
		if err != nil {
			return err
		}
		updates := map[string]any{"active": false}
		if winner != nil {
			updates["winning_bid_id"] = winner.ID
			listing.WinningBidID = &winner.ID
		}
		listing.Active = false
		return tx.Model(&model.Listing{}).Where("id = ?", listingID).Updates(updates).Error
	})
	if err != nil {
		return model.Listing{}, nil, fmt.Errorf("close listing %s: %w", listingID, err)
	}
	return listing, winner, nil
}

// AddToWatchlist adds a listing to a user's watchlist; adding twice keeps one entry
func (r *GormRepo) AddToWatchlist(ctx context.Context, userID, listingID string) error {
	db := r.db.WithContext(ctx)
	if err := ensureListing(db, listingID); err != nil {
		return fmt.Errorf("watch listing %s: %w", listingID, err)
	}

	entry := model.WatchlistEntry{UserID: userID, ListingID: listingID, CreatedAt: nowUTC()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error; err != nil {
		return fmt.Errorf("watch listing %s: %w", listingID, err)
	}
	return nil
}

// RemoveFromWatchlist deletes every watchlist entry for (user, listing)
func (r *GormRepo) RemoveFromWatchlist(ctx context.Context, userID, listingID string) error {
	db := r.db.WithContext(ctx)
	if err := ensureListing(db, listingID); err != nil {
		return fmt.Errorf("unwatch listing %s: %w", listingID, err)
	}

	err := db.Where("user_id = ? AND listing_id = ?", userID, listingID).Delete(&model.WatchlistEntry{}).Error
	if err != nil {
		return fmt.Errorf("unwatch listing %s: %w", listingID, err)
	}
	return nil
}

// IsWatched reports whether the listing is on the user's watchlist
func (r *GormRepo) IsWatched(ctx context.Context, userID, listingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WatchlistEntry{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check watchlist for listing %s: %w", listingID, err)
	}
	return count > 0, nil
}

// GetWatchlist returns the listings a user watches, in the order they were added
func (r *GormRepo) GetWatchlist(ctx context.Context, userID string) ([]model.Listing, error) {
	listings := make([]model.Listing, 0)
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Joins("JOIN watchlist_entries ON watchlist_entries.listing_id = listings.id").
		Where("watchlist_entries.user_id = ?", userID).
		Order("watchlist_entries.created_at").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("get watchlist for user %s: %w", userID, err)
	}
	return listings, nil
}

// AddComment appends a comment to a listing
func (r *GormRepo) AddComment(ctx context.Context, comment model.Comment) error {
	db := r.db.WithContext(ctx)
	if err := ensureListing(db, comment.ListingID); err != nil {
		return fmt.Errorf("add comment to listing %s: %w", comment.ListingID, err)
	}
	if err := db.Create(&comment).Error; err != nil {
		return fmt.Errorf("add comment to listing %s: %w", comment.ListingID, err)
	}
	return nil
}

// GetComments returns a listing's comments, oldest first
func (r *GormRepo) GetComments(ctx context.Context, listingID string) ([]model.Comment, error) {
	comments := make([]model.Comment, 0)
	err := r.db.WithContext(ctx).Where("listing_id = ?", listingID).Order("created_at").Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("get comments for listing %s: %w", listingID, err)
	}
	return comments, nil
}

// lockListing loads a listing with a row lock held until tx ends.
func lockListing(tx *gorm.DB, listingID string) (model.Listing, error) {
	var listing model.Listing
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", listingID).First(&listing).Error
	if err != nil {
		return model.Listing{}, notFound(err, auctionerrors.ErrListingNotFound)
	}
	return listing, nil
}

// highestBid returns nil when the listing has no bids.
func highestBid(db *gorm.DB, listingID string) (*model.Bid, error) {
	var bids []model.Bid
	if err := db.Where("listing_id = ?", listingID).Order("amount DESC").Limit(1).Find(&bids).Error; err != nil {
		return nil, err
	}
	if len(bids) == 0 {
		return nil, nil
	}
	return &bids[0], nil
}

func ensureListing(db *gorm.DB, listingID string) error {
	var count int64
	if err := db.Model(&model.Listing{}).Where("id = ?", listingID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return auctionerrors.ErrListingNotFound
	}
	return nil
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
