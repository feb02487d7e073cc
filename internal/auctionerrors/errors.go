package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrListingNotFound   = errors.New("listing not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrNoBids            = errors.New("no bids found for listing")
	ErrDuplicateUsername = errors.New("username already taken")
)

// business logic errors
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidBid         = errors.New("invalid bid")
	ErrBidTooLow          = errors.New("bid amount too low")
	ErrListingClosed      = errors.New("listing is closed")
	ErrNotSeller          = errors.New("only the seller can close this listing")
	ErrInvalidCredentials = errors.New("invalid username and/or password")
	ErrUnauthenticated    = errors.New("login required")
)
