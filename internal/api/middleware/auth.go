package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yankaics/OnlineJudge/internal/models"
	jwtutil "github.com/yankaics/OnlineJudge/pkg/jwt"
)

const (
	IdentityKey = "identity"
	UserIDKey   = "userId"
)

// tokenFromRequest Authorization 헤더 우선, 없으면 token 쿼리 (WebSocket)
func tokenFromRequest(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		token := c.Query("token")
		return token, token != ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Auth JWT 인증 미들웨어
func Auth(jwtManager *jwtutil.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := tokenFromRequest(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		claims, err := jwtManager.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(IdentityKey, models.Identity{
			UserID:    claims.UserID,
			Username:  claims.Username,
			AdminType: models.AdminType(claims.AdminType),
		})
		c.Set(UserIDKey, claims.UserID)

		c.Next()
	}
}

// GetIdentity Auth 이후 요청자 정보
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

// SuperAdminRequired 슈퍼관리자 전용 (Auth 뒤에 둔다)
func SuperAdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}
		if !identity.IsSuperAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "forbidden",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
