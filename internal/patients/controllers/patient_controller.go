package controllers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	common "github.com/physiocapture/physiocapture-backend/internal/common/middlewares"
	"github.com/physiocapture/physiocapture-backend/internal/patients/models"
	"github.com/physiocapture/physiocapture-backend/internal/patients/services"
	jwtUtils "github.com/physiocapture/physiocapture-backend/pkg/utils"
)

type PatientController struct {
	Service *services.PatientService
}

func NewPatientController(service *services.PatientService) *PatientController {
	return &PatientController{Service: service}
}

// RegisterPatient handles POST /api/patients.
func (pc *PatientController) RegisterPatient(c echo.Context) error {
	var req models.RegisterPatientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
			"data":    nil,
		})
	}
	if req.FullName == "" || req.CPF == "" || req.BirthDate == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "full_name, cpf e birth_date são obrigatórios",
			"data":    nil,
		})
	}
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Formato de birth_date inválido. Use YYYY-MM-DD",
			"data":    nil,
		})
	}

	claims := c.Get(string(common.ContextKeyClaims)).(*jwtUtils.Claims)
	p := models.Patient{
		FullName:  req.FullName,
		CPF:       req.CPF,
		BirthDate: birthDate,
		Gender:    req.Gender,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
	}

	created, err := pc.Service.RegisterPatient(claims.ClinicID, p)
	if err != nil {
		if strings.Contains(err.Error(), "já cadastrado") {
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"status":  http.StatusConflict,
				"message": "CPF já cadastrado",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Falha ao cadastrar paciente: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Paciente cadastrado com sucesso",
		"data":    created,
	})
}

// ListPatients handles GET /api/patients with optional search and pagination.
func (pc *PatientController) ListPatients(c echo.Context) error {
	filter := c.QueryParam("search")
	pageStr := c.QueryParam("page")
	limitStr := c.QueryParam("limit")

	page := 1
	limit := 20
	var err error
	if pageStr != "" {
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			page = 1
		}
	}
	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			limit = 20
		}
	}

	claims := c.Get(string(common.ContextKeyClaims)).(*jwtUtils.Claims)
	list, err := pc.Service.ListPatients(claims.ClinicID, filter, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve patients: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Patients retrieved successfully",
		"data":    list,
	})
}

// GetPatient handles GET /api/patients/:id.
func (pc *PatientController) GetPatient(c echo.Context) error {
	id := c.Param("id")
	claims := c.Get(string(common.ContextKeyClaims)).(*jwtUtils.Claims)

	patient, err := pc.Service.GetPatient(claims.ClinicID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Paciente não encontrado",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve patient: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Patient retrieved successfully",
		"data":    patient,
	})
}

// UpdateStatus handles PUT /api/patients/:id/status.
func (pc *PatientController) UpdateStatus(c echo.Context) error {
	id := c.Param("id")
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "status é obrigatório",
			"data":    nil,
		})
	}

	claims := c.Get(string(common.ContextKeyClaims)).(*jwtUtils.Claims)
	if err := pc.Service.UpdateStatus(claims.ClinicID, id, req.Status); err != nil {
		if strings.Contains(err.Error(), "não encontrado") {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": err.Error(),
				"data":    nil,
			})
		}
		if strings.Contains(err.Error(), "status inválido") {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": err.Error(),
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Falha ao atualizar status: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Status atualizado com sucesso",
		"data":    nil,
	})
}

// AssignTherapist handles PUT /api/patients/:id/assign.
func (pc *PatientController) AssignTherapist(c echo.Context) error {
	id := c.Param("id")
	var req struct {
		TherapistID string `json:"therapist_id"`
	}
	if err := c.Bind(&req); err != nil || req.TherapistID == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "therapist_id é obrigatório",
			"data":    nil,
		})
	}

	claims := c.Get(string(common.ContextKeyClaims)).(*jwtUtils.Claims)
	if err := pc.Service.AssignTherapist(claims.ClinicID, id, req.TherapistID); err != nil {
		if strings.Contains(err.Error(), "não encontrado") {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": err.Error(),
				"data":    nil,
			})
		}
		if strings.Contains(err.Error(), "não é fisioterapeuta") {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": err.Error(),
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Falha ao atribuir fisioterapeuta: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Fisioterapeuta atribuído com sucesso",
		"data":    nil,
	})
}
