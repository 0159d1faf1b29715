package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	common "github.com/physiocapture/physiocapture-backend/internal/common/middlewares"
	docmodels "github.com/physiocapture/physiocapture-backend/internal/documents/models"
	"github.com/physiocapture/physiocapture-backend/internal/documents/services"
	jwtUtils "github.com/physiocapture/physiocapture-backend/pkg/utils"
	"github.com/physiocapture/physiocapture-backend/ws"
)

type DocumentController struct {
	Service *services.DocumentService
}

func NewDocumentController(svc *services.DocumentService) *DocumentController {
	return &DocumentController{Service: svc}
}

// UploadDocument handles POST /api/documents (multipart form with "file"
// and "patient_id").
func (dc *DocumentController) UploadDocument(c echo.Context) error {
	patientID := c.FormValue("patient_id")
	if patientID == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "patient_id é obrigatório",
			"data":    nil,
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Arquivo não enviado: " + err.Error(),
			"data":    nil,
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Falha ao ler arquivo: " + err.Error(),
			"data":    nil,
		})
	}
	defer file.Close()

	claims := c.Get(string(common.ContextKeyClaims)).(*jwtUtils.Claims)
	doc, err := dc.Service.UploadDocument(c.Request().Context(), claims.ClinicID, claims.UserID,
		patientID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
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
			"message": "Falha ao enviar documento: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Documento enviado para digitalização",
		"data":    doc,
	})
}

// GetStatus handles GET /api/documents/:id/status, polling the OCR job and
// broadcasting once processing finishes.
func (dc *DocumentController) GetStatus(c echo.Context) error {
	id := c.Param("id")
	claims := c.Get(string(common.ContextKeyClaims)).(*jwtUtils.Claims)

	doc, err := dc.Service.CheckStatus(c.Request().Context(), claims.ClinicID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Documento não encontrado",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Falha ao consultar status: " + err.Error(),
			"data":    nil,
		})
	}

	if doc.Status == docmodels.StatusDone {
		wrapper := map[string]interface{}{
			"type": "document_processed",
			"data": map[string]interface{}{
				"id":         doc.ID,
				"patient_id": doc.PatientID,
				"file_name":  doc.FileName,
			},
		}
		msg, _ := json.Marshal(wrapper)
		ws.HubInstance.Broadcast <- msg
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Document status retrieved successfully",
		"data":    doc,
	})
}

// ListByPatient handles GET /api/patients/:id/documents.
func (dc *DocumentController) ListByPatient(c echo.Context) error {
	patientID := c.Param("id")
	claims := c.Get(string(common.ContextKeyClaims)).(*jwtUtils.Claims)

	list, err := dc.Service.ListByPatient(c.Request().Context(), claims.ClinicID, patientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve documents: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Documents retrieved successfully",
		"data":    list,
	})
}
