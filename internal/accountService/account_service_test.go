package account

import (
	"context"
	"errors"
	"testing"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccountService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		confirmation  string
		mockSetup     func(repo *repository.MockUserDB)
		expectedError error
	}{
		{
			name:         "valid",
			username:     " alice ",
			password:     "pw",
			confirmation: "pw",
			mockSetup: func(repo *repository.MockUserDB) {
				repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:          "passwords_differ",
			username:      "alice",
			password:      "pw",
			confirmation:  "other",
			mockSetup:     func(repo *repository.MockUserDB) {},
			expectedError: auctionerrors.ErrValidation,
		},
		{
			name:          "empty_username",
			username:      "  ",
			password:      "pw",
			confirmation:  "pw",
			mockSetup:     func(repo *repository.MockUserDB) {},
			expectedError: auctionerrors.ErrValidation,
		},
		{
			name:          "empty_password",
			username:      "alice",
			mockSetup:     func(repo *repository.MockUserDB) {},
			expectedError: auctionerrors.ErrValidation,
		},
		{
			name:         "username_taken",
			username:     "alice",
			password:     "pw",
			confirmation: "pw",
			mockSetup: func(repo *repository.MockUserDB) {
				repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(auctionerrors.ErrDuplicateUsername)
			},
			expectedError: auctionerrors.ErrDuplicateUsername,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockRepo := repository.NewMockUserDB(ctrl)
			service := NewAccountService(mockRepo).WithHashCost(bcrypt.MinCost)
			tc.mockSetup(mockRepo)

			user, err := service.Register(context.Background(), tc.username, "a@example.com", tc.password, tc.confirmation)
			if tc.expectedError != nil {
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, "alice", user.Username)
			require.NotEqual(t, tc.password, user.PasswordHash)
			require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tc.password)))
		})
	}
}

func TestAccountService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := models.User{ID: "u1", Username: "alice", PasswordHash: string(hash)}

	tests := []struct {
		name          string
		username      string
		password      string
		mockSetup     func(repo *repository.MockUserDB)
		expectedError error
	}{
		{
			name:     "valid",
			username: "alice",
			password: "secret",
			mockSetup: func(repo *repository.MockUserDB) {
				repo.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(stored, nil)
			},
		},
		{
			name:     "wrong_password",
			username: "alice",
			password: "guess",
			mockSetup: func(repo *repository.MockUserDB) {
				repo.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(stored, nil)
			},
			expectedError: auctionerrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown_user",
			username: "bob",
			password: "secret",
			mockSetup: func(repo *repository.MockUserDB) {
				repo.EXPECT().GetUserByUsername(gomock.Any(), "bob").Return(models.User{}, auctionerrors.ErrUserNotFound)
			},
			expectedError: auctionerrors.ErrInvalidCredentials,
		},
		{
			name:     "repo_error",
			username: "alice",
			password: "secret",
			mockSetup: func(repo *repository.MockUserDB) {
				repo.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(models.User{}, errors.New("db down"))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockRepo := repository.NewMockUserDB(ctrl)
			service := NewAccountService(mockRepo)
			tc.mockSetup(mockRepo)

			user, err := service.Authenticate(context.Background(), tc.username, tc.password)
			switch {
			case tc.expectedError != nil:
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
			case tc.name == "repo_error":
				require.Error(t, err)
				require.False(t, errors.Is(err, auctionerrors.ErrInvalidCredentials))
			default:
				require.NoError(t, err)
				require.Equal(t, "u1", user.ID)
			}
		})
	}
}
