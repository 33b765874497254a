package http

import (
	"net/http"
	"time"

	jwt "github.com/appleboy/gin-jwt/v2"
	"github.com/gin-gonic/gin"
	jwtgo "github.com/golang-jwt/jwt/v4"
	"github.com/kerberos-io/translator/src/models"
)

// JWTMiddleWare protects the endpoints that change the camera or move it.
// Credentials and signing key come from the configuration.
func JWTMiddleWare(config models.Config) jwt.GinJWTMiddleware {

	identityKey := "id"
	secret := []byte(config.APISecret)

	m := jwt.GinJWTMiddleware{
		Realm:       "translator",
		Key:         secret,
		Timeout:     time.Hour * 24,
		MaxRefresh:  time.Hour * 24 * 7,
		IdentityKey: identityKey,
		PayloadFunc: func(data interface{}) jwt.MapClaims {
			if v, ok := data.(*models.User); ok {
				return jwt.MapClaims{
					identityKey: map[string]interface{}{
						"username": v.Username,
						"role":     v.Role,
					},
				}
			}
			return jwt.MapClaims{}
		},
		IdentityHandler: func(c *gin.Context) interface{} {
			claims := jwt.ExtractClaims(c)
			user, ok := claims[identityKey].(map[string]interface{})
			if !ok {
				return nil
			}
			username, _ := user["username"].(string)
			role, _ := user["role"].(string)
			return &models.User{
				Username: username,
				Role:     role,
			}
		},
		Authenticator: func(c *gin.Context) (interface{}, error) {
			var loginVals models.Authentication
			if err := c.ShouldBind(&loginVals); err != nil {
				return "", jwt.ErrMissingLoginValues
			}
			if loginVals.Username == config.APIUsername && loginVals.Password == config.APIPassword {
				return &models.User{
					Username: loginVals.Username,
					Role:     "admin",
				}, nil
			}
			return nil, jwt.ErrFailedAuthentication
		},
		LoginResponse: func(c *gin.Context, code int, token string, expire time.Time) {
			t, err := jwtgo.Parse(token, func(token *jwtgo.Token) (interface{}, error) {
				return secret, nil
			})
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    http.StatusInternalServerError,
					"message": err.Error(),
				})
				return
			}
			claims, _ := t.Claims.(jwtgo.MapClaims)
			user, _ := claims[identityKey].(map[string]interface{})
			username, _ := user["username"].(string)
			role, _ := user["role"].(string)

			c.JSON(http.StatusOK, models.Authorization{
				Code:     http.StatusOK,
				Token:    token,
				Expire:   expire.Format(time.RFC3339),
				Username: username,
				Role:     role,
			})
		},
		Authorizator: func(data interface{}, c *gin.Context) bool {
			_, ok := data.(*models.User)
			return ok
		},
		Unauthorized: func(c *gin.Context, code int, message string) {
			c.AbortWithStatusJSON(code, gin.H{
				"code":    code,
				"message": message,
			})
		},
		TokenLookup:   "header: Authorization, query: token, cookie: jwt",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
	}
	return m
}
