package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/physiocapture/physiocapture-backend/config"
	common "github.com/physiocapture/physiocapture-backend/internal/common/middlewares"
	"github.com/physiocapture/physiocapture-backend/internal/consultations/models"
	"github.com/physiocapture/physiocapture-backend/internal/consultations/services"
	jwtUtils "github.com/physiocapture/physiocapture-backend/pkg/utils"
	"github.com/physiocapture/physiocapture-backend/ws"
)

type ConsultationController struct {
	Service *services.ConsultationService
}

func NewConsultationController(svc *services.ConsultationService) *ConsultationController {
	return &ConsultationController{Service: svc}
}

// LogConsultation handles POST /api/consultations and broadcasts the event
// so open dashboards refresh their counters.
func (cc *ConsultationController) LogConsultation(c echo.Context) error {
	var req models.LogConsultationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
			"data":    nil,
		})
	}
	if req.PatientID == "" || req.Type == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "patient_id e type são obrigatórios",
			"data":    nil,
		})
	}

	loc := config.LoadConfig().Location()
	date := time.Now().In(loc)
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02 15:04", req.Date, loc)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": "Formato de date inválido. Use YYYY-MM-DD HH:MM",
				"data":    nil,
			})
		}
		date = parsed
	}

	claims := c.Get(string(common.ContextKeyClaims)).(*jwtUtils.Claims)
	consultation := models.Consultation{
		PatientID: req.PatientID,
		Type:      req.Type,
		Date:      date,
		Notes:     req.Notes,
	}

	created, err := cc.Service.LogConsultation(claims.ClinicID, claims.UserID, consultation)
	if err != nil {
		if strings.Contains(err.Error(), "não encontrado") {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": err.Error(),
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Falha ao registrar consulta: " + err.Error(),
			"data":    nil,
		})
	}

	wrapper := map[string]interface{}{
		"type": "consultation_logged",
		"data": map[string]interface{}{
			"id":         created.ID,
			"patient_id": created.PatientID,
			"date":       created.Date,
		},
	}
	msg, _ := json.Marshal(wrapper)
	ws.HubInstance.Broadcast <- msg

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Consulta registrada com sucesso",
		"data":    created,
	})
}

// ListToday handles GET /api/consultations/today.
func (cc *ConsultationController) ListToday(c echo.Context) error {
	claims := c.Get(string(common.ContextKeyClaims)).(*jwtUtils.Claims)

	loc := config.LoadConfig().Location()
	now := time.Now().In(loc)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	list, err := cc.Service.ListToday(claims.ClinicID, todayStart, todayStart.AddDate(0, 0, 1))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve consultations: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Consultations retrieved successfully",
		"data":    list,
	})
}
