package server

import (
	"context"
	"net/http"
	"time"

	account "auction-house/internal/accountService"
	auction "auction-house/internal/auctionService"
	accounthandler "auction-house/services/account/handler"
	handler "auction-house/services/auction/handler"
	"auction-house/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService *auction.AuctionService, accountService *account.AccountService, sessionSecret string, store Pinger) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	cookieStore := cookie.NewStore([]byte(sessionSecret))
	cookieStore.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})

	router.Use(gin.Recovery())                                    // recover from panics
	router.Use(sessions.Sessions(utils.SessionName, cookieStore)) // signed cookie sessions
	router.Use(SessionUserMiddleware)
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(auctionService)
	accountHandler := accounthandler.NewAccountHandler(accountService)

	router.GET("/health", healthHandler(store))

	router.POST("/register", accountHandler.RegisterHandler)
	router.POST("/login", accountHandler.LoginHandler)
	router.GET("/logout", accountHandler.LogoutHandler)
	router.POST("/logout", accountHandler.LogoutHandler)
	router.GET("/me", accountHandler.MeHandler)

	router.GET("/", auctionHandler.IndexHandler)
	router.POST("/create", auctionHandler.CreateListingHandler)
	router.POST("/bid/:id", auctionHandler.PlaceBidHandler)
	router.POST("/close/:id", auctionHandler.CloseListingHandler)
	router.POST("/comment/:id", auctionHandler.AddCommentHandler)

	listing := router.Group("/listing")
	{
		listing.GET("/:id", auctionHandler.ListingDetailHandler)
		listing.GET("/:id/bids", auctionHandler.GetBidsByListingHandler)
		listing.GET("/:id/winning", auctionHandler.GetWinningBidHandler)
	}

	router.GET("/watchlist", auctionHandler.GetWatchlistHandler)
	router.POST("/watchlist/:id", auctionHandler.ToggleWatchlistHandler)

	categories := router.Group("/categories")
	{
		categories.GET("", auctionHandler.CategoriesHandler)
		categories.GET("/:name", auctionHandler.CategoryListingsHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/listings", auctionHandler.GetListingsByUserHandler)
	}

	return router
}

func healthHandler(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			utils.JSONError(c, http.StatusServiceUnavailable, err, "store unavailable")
			utils.Error("healthHandler: store ping failed", map[string]any{"error": err.Error()})
			return
		}
		utils.JSONResponse(c, http.StatusOK, gin.H{"store": "ok"}, "healthy")
	}
}
