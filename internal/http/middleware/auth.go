package middleware

import (
	"net/http"
	"strings"

	"liquidaciones/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDKey   = "user_id"
	userRoleKey = "user_role"
)

// RequireAuth validates the Bearer token and stores user id and role in the
// gin context for the role gates downstream.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token requerido"})
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token inválido o expirado"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token inválido"})
			return
		}

		if v, ok := claims["user_id"].(float64); ok {
			c.Set(userIDKey, int64(v))
		}
		if v, ok := claims["role"].(string); ok {
			c.Set(userRoleKey, strings.ToUpper(v))
		}
		c.Next()
	}
}

// RequireRoles aborts unless the authenticated role is in the allow list.
func RequireRoles(roles ...domain.Rol) gin.HandlerFunc {
	allowed := map[domain.Rol]bool{}
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		ctx := GetRequestContext(c)
		if !allowed[ctx.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "tu rol no tiene acceso a este recurso"})
			return
		}
		c.Next()
	}
}

// GetRequestContext reads the authenticated user from the gin context.
func GetRequestContext(c *gin.Context) domain.RequestContext {
	var out domain.RequestContext
	if c == nil {
		return out
	}
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			out.UserID = domain.ID(id)
		}
	}
	if v, ok := c.Get(userRoleKey); ok {
		if rol, ok := v.(string); ok {
			out.Role = domain.Rol(rol)
		}
	}
	return out
}
