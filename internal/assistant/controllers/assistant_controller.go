package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/physiocapture/physiocapture-backend/internal/assistant/services"
)

type AssistantController struct {
	Service *services.AssistantService
}

func NewAssistantController(svc *services.AssistantService) *AssistantController {
	return &AssistantController{Service: svc}
}

type askRequest struct {
	Message string `json:"message"`
}

// Ask handles POST /api/assistant.
func (ac *AssistantController) Ask(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
			"data":    nil,
		})
	}

	answer, err := ac.Service.Answer(req.Message)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Answer generated successfully",
		"data": map[string]interface{}{
			"answer": answer,
		},
	})
}
