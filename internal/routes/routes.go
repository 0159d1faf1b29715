package routes

import (
	"database/sql"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/physiocapture/physiocapture-backend/config"
	assistantControllers "github.com/physiocapture/physiocapture-backend/internal/assistant/controllers"
	assistantServices "github.com/physiocapture/physiocapture-backend/internal/assistant/services"
	"github.com/physiocapture/physiocapture-backend/internal/common/middlewares"
	"github.com/physiocapture/physiocapture-backend/internal/common/models"
	consultationControllers "github.com/physiocapture/physiocapture-backend/internal/consultations/controllers"
	consultationServices "github.com/physiocapture/physiocapture-backend/internal/consultations/services"
	dashboardControllers "github.com/physiocapture/physiocapture-backend/internal/dashboard/controllers"
	dashboardServices "github.com/physiocapture/physiocapture-backend/internal/dashboard/services"
	documentControllers "github.com/physiocapture/physiocapture-backend/internal/documents/controllers"
	documentServices "github.com/physiocapture/physiocapture-backend/internal/documents/services"
	patientControllers "github.com/physiocapture/physiocapture-backend/internal/patients/controllers"
	patientServices "github.com/physiocapture/physiocapture-backend/internal/patients/services"
	userControllers "github.com/physiocapture/physiocapture-backend/internal/users/controllers"
	userServices "github.com/physiocapture/physiocapture-backend/internal/users/services"
	"github.com/physiocapture/physiocapture-backend/ws"
)

// Init wires every route on the Echo instance.
func Init(e *echo.Echo, db *sql.DB) {
	cfg := config.LoadConfig()
	loc := cfg.Location()
	clock := func() time.Time { return time.Now().In(loc) }

	userService := userServices.NewUserService(db)
	patientService := patientServices.NewPatientService(db)
	consultationService := consultationServices.NewConsultationService(db)
	metricsService := dashboardServices.NewMetricsService(db)
	dashboardService := dashboardServices.NewDashboardService(metricsService, clock)
	ocrClient := documentServices.NewOCRClient(cfg.OCRBaseURL)
	documentService := documentServices.NewDocumentService(db, ocrClient)
	assistantService := assistantServices.NewAssistantService()

	userController := userControllers.NewUserController(userService)
	patientController := patientControllers.NewPatientController(patientService)
	consultationController := consultationControllers.NewConsultationController(consultationService)
	dashboardController := dashboardControllers.NewDashboardController(dashboardService)
	documentController := documentControllers.NewDocumentController(documentService)
	assistantController := assistantControllers.NewAssistantController(assistantService)

	jwt := middlewares.JWTMiddleware()
	adminOnly := middlewares.RequireRole(models.RoleAdmin)
	frontDesk := middlewares.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleReceptionist)

	api := e.Group("/api")

	// Auth
	auth := api.Group("/auth")
	auth.POST("/login", userController.Login) // no JWT

	// Users (admin only)
	users := api.Group("/users")
	users.POST("", userController.AddUser, jwt, adminOnly)
	users.GET("", userController.ListUsers, jwt)
	users.DELETE("/:id", userController.DeactivateUser, jwt, adminOnly)

	// Patients
	patients := api.Group("/patients")
	patients.POST("", patientController.RegisterPatient, jwt, frontDesk)
	patients.GET("", patientController.ListPatients, jwt)
	patients.GET("/:id", patientController.GetPatient, jwt)
	patients.PUT("/:id/status", patientController.UpdateStatus, jwt)
	patients.PUT("/:id/assign", patientController.AssignTherapist, jwt, frontDesk)
	patients.GET("/:id/documents", documentController.ListByPatient, jwt)

	// Consultations
	consultations := api.Group("/consultations")
	consultations.POST("", consultationController.LogConsultation, jwt)
	consultations.GET("/today", consultationController.ListToday, jwt)

	// Documents
	documents := api.Group("/documents")
	documents.POST("", documentController.UploadDocument, jwt)
	documents.GET("/:id/status", documentController.GetStatus, jwt)

	// Dashboard
	api.GET("/dashboard", dashboardController.GetDashboard, jwt)

	// Assistant
	api.POST("/assistant", assistantController.Ask, jwt)

	// WebSocket for dashboard refresh events
	e.GET("/ws", ws.ServeWS(ws.HubInstance))
}
