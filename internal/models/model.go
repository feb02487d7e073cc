package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered participant in the auction house
type User struct {
	ID           string    `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	Username     string    `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// Category groups listings; a listing may belong to several categories
type Category struct {
	Name string `json:"name" gorm:"primaryKey;type:varchar(25)"`
}

// Listing represents an item offered for auction by a seller
type Listing struct {
	ID          string          `json:"listing_id" gorm:"primaryKey;type:varchar(36)"`
	Title       string          `json:"title" gorm:"type:varchar(64);not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	StartingBid decimal.Decimal `json:"starting_bid" gorm:"type:numeric(9,2);not null"`
	SellerID    string          `json:"seller_id" gorm:"type:varchar(36);index;not null"`
	Photo       string          `json:"photo,omitempty"`
	Active      bool            `json:"active" gorm:"not null;default:true"`
	// WinningBidID is set when the listing is closed with at least one bid.
	WinningBidID *string    `json:"winning_bid_id,omitempty" gorm:"type:varchar(36)"`
	Categories   []Category `json:"categories" gorm:"many2many:listing_categories;"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Bid represents a user's bid on a listing
type Bid struct {
	ID        string          `json:"bid_id" gorm:"primaryKey;type:varchar(36)"`
	ListingID string          `json:"listing_id" gorm:"type:varchar(36);index;not null"`
	BidderID  string          `json:"bidder_id" gorm:"type:varchar(36);index;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(9,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
}

// WatchlistEntry marks a listing as tracked by a user
type WatchlistEntry struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	ListingID string    `json:"listing_id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
}

func (WatchlistEntry) TableName() string {
	return "watchlist_entries"
}

// Comment is a note left by a user on a listing
type Comment struct {
	ID          string    `json:"comment_id" gorm:"primaryKey;type:varchar(36)"`
	ListingID   string    `json:"listing_id" gorm:"type:varchar(36);index;not null"`
	CommenterID string    `json:"commenter_id" gorm:"type:varchar(36);not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// All returns every persisted model, in migration order
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Listing{},
		&Bid{},
		&WatchlistEntry{},
		&Comment{},
	}
}
