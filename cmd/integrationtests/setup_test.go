package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	account "auction-house/internal/accountService"
	auction "auction-house/internal/auctionService"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	accounthelpers "auction-house/services/account/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// SetupTestRouter initializes the router with an in-memory repository for integration testing.
func SetupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryRepo()
	auctionSvc := auction.NewAuctionService(repo)
	accountSvc := account.NewAccountService(repo).WithHashCost(bcrypt.MinCost)
	router := server.SetupRouter(auctionSvc, accountSvc, "integration-secret", repo)
	return router
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response.
// For 201 responses the returned map is the "data" object.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any, cookies ...*http.Cookie) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		if err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if w.Code == http.StatusCreated {
			resp = resp["data"].(map[string]any)
		}
	}

	return resp, w
}

// RegisterUser signs a user up and returns its ID and session cookies
func RegisterUser(t *testing.T, router *gin.Engine, username string) (string, []*http.Cookie) {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/register", accounthelpers.RegisterRequest{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "pw-" + username,
		Confirmation: "pw-" + username,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return resp["user_id"].(string), w.Result().Cookies()
}
