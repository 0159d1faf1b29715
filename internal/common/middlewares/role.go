package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/physiocapture/physiocapture-backend/internal/common/models"
	"github.com/physiocapture/physiocapture-backend/pkg/utils"
)

// RequireRole checks that the JWT claims carry one of the allowed roles.
// Must be chained after JWTMiddleware.
func RequireRole(allowed ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawClaims := c.Get(string(ContextKeyClaims))
			if rawClaims == nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "Missing or invalid JWT claims",
					"data":    nil,
				})
			}
			claims, ok := rawClaims.(*utils.Claims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "Invalid JWT claims format",
					"data":    nil,
				})
			}

			for _, role := range allowed {
				if claims.Role == string(role) {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, map[string]interface{}{
				"status":  http.StatusForbidden,
				"message": "Você não tem permissão para acessar este recurso",
				"data":    nil,
			})
		}
	}
}
