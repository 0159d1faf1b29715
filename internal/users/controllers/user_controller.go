package controllers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	common "github.com/physiocapture/physiocapture-backend/internal/common/middlewares"
	"github.com/physiocapture/physiocapture-backend/internal/users/models"
	"github.com/physiocapture/physiocapture-backend/internal/users/services"
	jwtUtils "github.com/physiocapture/physiocapture-backend/pkg/utils"
)

type UserController struct {
	Service *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{Service: svc}
}

// Login handles POST /api/auth/login and issues the identity JWT.
func (uc *UserController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
			"data":    nil,
		})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Email e senha são obrigatórios",
			"data":    nil,
		})
	}

	user, err := uc.Service.AuthenticateUser(req.Email, req.Password)
	if err != nil {
		if err == sql.ErrNoRows || strings.Contains(err.Error(), "invalid credentials") {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"status":  http.StatusUnauthorized,
				"message": "Credenciais inválidas",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Falha no login: " + err.Error(),
			"data":    nil,
		})
	}

	token, err := jwtUtils.GenerateJWTToken(user.ID, user.ClinicID, user.Role, user.Name, time.Now().Add(12*time.Hour))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Falha ao gerar token: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Login realizado com sucesso",
		"data": map[string]interface{}{
			"token": token,
			"user": map[string]interface{}{
				"id":        user.ID,
				"clinic_id": user.ClinicID,
				"name":      user.Name,
				"role":      user.Role,
			},
		},
	})
}

// AddUser handles POST /api/users (admin only, enforced by middleware).
func (uc *UserController) AddUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
			"data":    nil,
		})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "name, email, password e role são obrigatórios",
			"data":    nil,
		})
	}

	claims := c.Get(string(common.ContextKeyClaims)).(*jwtUtils.Claims)
	user, err := uc.Service.CreateUser(claims.ClinicID, req)
	if err != nil {
		if strings.Contains(err.Error(), "já cadastrado") {
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"status":  http.StatusConflict,
				"message": err.Error(),
				"data":    nil,
			})
		}
		if strings.Contains(err.Error(), "unrecognized role") {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": "Role inválida",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Falha ao criar usuário: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Usuário criado com sucesso",
		"data":    user,
	})
}

// ListUsers handles GET /api/users.
func (uc *UserController) ListUsers(c echo.Context) error {
	claims := c.Get(string(common.ContextKeyClaims)).(*jwtUtils.Claims)
	list, err := uc.Service.ListUsers(claims.ClinicID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve users: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Users retrieved successfully",
		"data":    list,
	})
}

// DeactivateUser handles DELETE /api/users/:id (admin only).
func (uc *UserController) DeactivateUser(c echo.Context) error {
	id := c.Param("id")
	claims := c.Get(string(common.ContextKeyClaims)).(*jwtUtils.Claims)
	if err := uc.Service.DeactivateUser(claims.ClinicID, id); err != nil {
		if strings.Contains(err.Error(), "não encontrado") {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": err.Error(),
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Falha ao desativar usuário: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Usuário desativado com sucesso",
		"data":    nil,
	})
}
