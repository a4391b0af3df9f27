package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/Luismorlan/eventmux/utils"
	. "github.com/Luismorlan/eventmux/utils/log"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// ViewerHeader carries the authenticated user id to the handlers.
const ViewerHeader = "sub"

// TokenVerifier resolves an access token to its user. The Cognito client
// implements it.
type TokenVerifier interface {
	GetUser(ctx context.Context, params *cognitoidentityprovider.GetUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GetUserOutput, error)
}

// NewCognitoVerifier creates a default client with aws config located in path
// ~/.aws/config or the environment.
func NewCognitoVerifier(ctx context.Context) (*cognitoidentityprovider.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fail to load aws config")
	}
	return cognitoidentityprovider.NewFromConfig(cfg), nil
}

// tokenOf reads the access token from the "token" query parameter, falling
// back to a bearer Authorization header.
func tokenOf(c *gin.Context) string {
	if jwt := c.Query("token"); jwt != "" {
		return jwt
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code": utils.ErrorTokenAuthFail,
		"msg":  msg,
	})
	c.Abort()
}

// JWT middleware validates the user's access token and replaces any "sub"
// header sent by the client with the user's id. It aborts with 401 when the
// token is wrong or expired. A request without token is aborted too, unless
// allowAnonymous is set, in which case it continues with no "sub" header.
func JWT(verifier TokenVerifier, allowAnonymous bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Header.Del(ViewerHeader)

		jwt := tokenOf(c)
		if jwt == "" {
			if allowAnonymous {
				c.Next()
				return
			}
			abortUnauthorized(c, "empty jwt token")
			return
		}

		user, err := verifier.GetUser(c.Request.Context(), &cognitoidentityprovider.GetUserInput{AccessToken: &jwt})
		if err != nil {
			Log.Info("reject jwt token: ", err)
			abortUnauthorized(c, err.Error())
			return
		}
		if user == nil || user.Username == nil || *user.Username == "" {
			abortUnauthorized(c, "token has no user")
			return
		}

		c.Request.Header.Set(ViewerHeader, *user.Username)
		c.Next()
	}
}
