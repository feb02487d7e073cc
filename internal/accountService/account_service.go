package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"

	"golang.org/x/crypto/bcrypt"
)

// AccountService registers users and checks their credentials
type AccountService struct {
	repo repository.UserDB
	cost int
}

// NewAccountService creates an AccountService hashing with bcrypt.DefaultCost
func NewAccountService(repo repository.UserDB) *AccountService {
	return &AccountService{repo: repo, cost: bcrypt.DefaultCost}
}

// WithHashCost returns a copy using a different bcrypt cost; tests use bcrypt.MinCost
func (s *AccountService) WithHashCost(cost int) *AccountService {
	clone := *s
	clone.cost = cost
	return &clone
}

// Register creates a new account
func (s *AccountService) Register(ctx context.Context, username, email, password, confirmation string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, fmt.Errorf("service: %w - username and password are required", auctionerrors.ErrValidation)
	}
	if password != confirmation {
		return models.User{}, fmt.Errorf("service: %w - passwords must match", auctionerrors.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("service: %w - %v", auctionerrors.ErrValidation, err)
	}

	user := models.User{
		ID:           utils.GenerateID(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("service: failed to register %s: %w", username, err)
	}
	return user, nil
}

// Authenticate returns the user whose username and password match
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, auctionerrors.ErrUserNotFound) {
		return models.User{}, fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to load user %s: %w", username, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
	}
	return user, nil
}

// GetUser returns a user by ID
func (s *AccountService) GetUser(ctx context.Context, userID string) (models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to get user %s: %w", userID, err)
	}
	return user, nil
}
