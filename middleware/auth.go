package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/adrianfredes10/tienda-api/apperr"
	"github.com/adrianfredes10/tienda-api/auth"
	"github.com/adrianfredes10/tienda-api/models"
	"github.com/adrianfredes10/tienda-api/respond"
)

const ctxUserKey = "current_user"

// Authenticate verifies the bearer token, resolves it to a live user row and
// stores the user in the request context.
func Authenticate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			respond.AbortErr(c, apperr.Authentication("no autorizado, token no proporcionado"))
			return
		}

		claims, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				respond.AbortErr(c, apperr.Authentication("token expirado, inicie sesión nuevamente"))
				return
			}
			respond.AbortErr(c, apperr.Authentication("token inválido"))
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			respond.AbortErr(c, apperr.Authentication("usuario no encontrado"))
			return
		}
		if !user.Active {
			respond.AbortErr(c, apperr.Authentication("usuario inactivo"))
			return
		}

		SetCurrentUser(c, &user)
		c.Next()
	}
}

// SetCurrentUser stores the authenticated user in the request context.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(ctxUserKey, user)
}

// RequireRole aborts with 403 unless the authenticated user has one of the
// given roles. Must run after Authenticate.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			respond.AbortErr(c, apperr.Authentication("usuario no autenticado"))
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		respond.AbortErr(c, apperr.Authorization("el rol '"+string(user.Role)+"' no tiene permiso para acceder a este recurso"))
	}
}

// CurrentUser returns the user stored by Authenticate, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// IsOwnerOrAdmin is the shared authorization predicate for self-or-admin
// gated resources.
func IsOwnerOrAdmin(user *models.User, ownerID string) bool {
	return user != nil && (user.ID == ownerID || user.IsAdmin())
}
