package handler

//go:generate mockgen -source=account_handler.go -destination=mock_account_handler.go -package=handler

import (
	"context"
	"fmt"
	"net/http"

	model "auction-house/internal/models"
	"auction-house/services/account/helpers"
	httphelpers "auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, username, email, password, confirmation string) (model.User, error)
	Authenticate(ctx context.Context, username, password string) (model.User, error)
	GetUser(ctx context.Context, userID string) (model.User, error)
}

type AccountHandler struct {
	service AccountServiceInterface
}

func NewAccountHandler(service AccountServiceInterface) *AccountHandler {
	return &AccountHandler{service: service}
}

// startSession stores the user ID in the cookie session
func startSession(c *gin.Context, userID string) error {
	sess := sessions.Default(c)
	sess.Set(utils.SessionUserKey, userID)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// RegisterHandler handles POST /register and logs the new user in
func (h *AccountHandler) RegisterHandler(c *gin.Context) {
	var req helpers.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		httphelpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.Confirmation)
	if err != nil {
		httphelpers.HandleServiceError(c, "RegisterHandler", "failed to register", err, map[string]any{"username": req.Username})
		return
	}
	if err := startSession(c, user.ID); err != nil {
		httphelpers.HandleServiceError(c, "RegisterHandler", "failed to start session", err, map[string]any{"user_id": user.ID})
		return
	}

	utils.JSONCreated(c, "/", helpers.NewUserResponse(user), "registered successfully")
	httphelpers.LogSuccess("RegisterHandler", "registered successfully", map[string]any{"user_id": user.ID, "username": user.Username})
}

// LoginHandler handles POST /login
func (h *AccountHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		httphelpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	user, err := h.service.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		httphelpers.HandleServiceError(c, "LoginHandler", "login failed", err, map[string]any{"username": req.Username})
		return
	}
	if err := startSession(c, user.ID); err != nil {
		httphelpers.HandleServiceError(c, "LoginHandler", "failed to start session", err, map[string]any{"user_id": user.ID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewUserResponse(user), "logged in successfully")
	httphelpers.LogSuccess("LoginHandler", "logged in successfully", map[string]any{"user_id": user.ID})
}

// LogoutHandler handles GET|POST /logout
func (h *AccountHandler) LogoutHandler(c *gin.Context) {
	userID := utils.CurrentUserID(c)
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	if err := sess.Save(); err != nil {
		httphelpers.HandleServiceError(c, "LogoutHandler", "failed to clear session", fmt.Errorf("save session: %w", err), nil)
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "logged out successfully")
	httphelpers.LogSuccess("LogoutHandler", "logged out successfully", map[string]any{"user_id": userID})
}

// MeHandler handles GET /me
func (h *AccountHandler) MeHandler(c *gin.Context) {
	userID, ok := httphelpers.RequireUser(c, "MeHandler")
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		httphelpers.HandleServiceError(c, "MeHandler", "failed to load current user", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewUserResponse(user), "current user retrieved successfully")
}
