package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	common "github.com/physiocapture/physiocapture-backend/internal/common/middlewares"
	"github.com/physiocapture/physiocapture-backend/internal/dashboard/services"
	jwtUtils "github.com/physiocapture/physiocapture-backend/pkg/utils"
)

type DashboardController struct {
	Service *services.DashboardService
}

func NewDashboardController(svc *services.DashboardService) *DashboardController {
	return &DashboardController{Service: svc}
}

// GetDashboard handles GET /api/dashboard. The role decides which of the
// four view models comes back; the identity context comes from the JWT.
func (dc *DashboardController) GetDashboard(c echo.Context) error {
	claims, ok := c.Get(string(common.ContextKeyClaims)).(*jwtUtils.Claims)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  http.StatusUnauthorized,
			"message": "Missing or invalid JWT claims",
			"data":    nil,
		})
	}

	ident := services.Identity{
		UserID:   claims.UserID,
		ClinicID: claims.ClinicID,
		Role:     claims.Role,
	}

	dash, err := dc.Service.BuildDashboard(c.Request().Context(), ident)
	if err != nil {
		var roleErr *services.UnrecognizedRoleError
		if errors.As(err, &roleErr) || errors.Is(err, services.ErrMissingTenant) {
			// Configuration problem on the account, not a server fault.
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"status":  http.StatusUnprocessableEntity,
				"message": "Conta mal configurada: " + err.Error(),
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Não foi possível carregar o dashboard",
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Dashboard retrieved successfully",
		"data":    dash,
	})
}
