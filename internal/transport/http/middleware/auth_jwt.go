package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"orgdesk/internal/core/auth"
	"orgdesk/internal/domain"
)

const (
	KeyUserID = "userId"
	KeyRole   = "role"
)

// AuthJWT 解析 Bearer token，写入 userId/role；requireRole 非空时校验角色
func AuthJWT(j *auth.JWTer, requireRole domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}
		if requireRole != "" && domain.Role(claims.Role) != requireRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
			return
		}
		c.Set("claims", claims)
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}
