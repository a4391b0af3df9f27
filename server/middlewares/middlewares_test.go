package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeVerifier struct {
	users map[string]string
}

func (f *fakeVerifier) GetUser(ctx context.Context, params *cognitoidentityprovider.GetUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GetUserOutput, error) {
	username, ok := f.users[*params.AccessToken]
	if !ok {
		return nil, errors.New("token expired")
	}
	return &cognitoidentityprovider.GetUserOutput{Username: &username}, nil
}

func serve(allowAnonymous bool, req *http.Request) (*httptest.ResponseRecorder, string) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWT(&fakeVerifier{users: map[string]string{"good": "u1"}}, allowAnonymous))
	seen := "<unset>"
	router.GET("/whoami", func(c *gin.Context) {
		seen = c.GetHeader(ViewerHeader)
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, seen
}

func TestJWTSetsViewer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/whoami?token=good", nil)
	req.Header.Set(ViewerHeader, "spoofed")
	w, seen := serve(false, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", seen)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good")
	w, seen = serve(false, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", seen)
}

func TestJWTRejectsBadToken(t *testing.T) {
	w, seen := serve(true, httptest.NewRequest(http.MethodGet, "/whoami?token=bad", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "<unset>", seen)
}

func TestJWTMissingToken(t *testing.T) {
	w, _ := serve(false, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(ViewerHeader, "spoofed")
	w, seen := serve(true, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", seen)
}
