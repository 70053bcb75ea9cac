package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tensillabs/teamspace/internal/common"
)

// userIDKey is the gin context key the auth middleware stores the
// authenticated user id under.
const userIDKey = "userID"

// requireAuth authenticates the request from the Authorization header
// (Bearer scheme) or, failing that, the access token cookie. Requests
// without a valid access token are rejected before reaching the handler.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(common.AccessTokenCookieName); err == nil {
				token = cookie
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Authentication required",
			})
			return
		}

		userID, err := s.issuer.ParseAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
