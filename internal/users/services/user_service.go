package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	commonmodels "github.com/physiocapture/physiocapture-backend/internal/common/models"
	"github.com/physiocapture/physiocapture-backend/internal/users/models"
)

type UserService struct {
	DB *sql.DB
}

func NewUserService(db *sql.DB) *UserService {
	return &UserService{DB: db}
}

// AuthenticateUser validates an email/password login.
func (s *UserService) AuthenticateUser(email, password string) (*models.User, error) {
	var u models.User
	query := "SELECT id, clinic_id, name, email, password, role, is_active, created_at FROM User WHERE email = ?"
	err := s.DB.QueryRow(query, email).Scan(&u.ID, &u.ClinicID, &u.Name, &u.Email, &u.Password, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, errors.New("user is inactive")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return &u, nil
}

// CreateUser adds a team member to the clinic. The email must be unique and
// the role one of the four known values.
func (s *UserService) CreateUser(clinicID string, req models.CreateUserRequest) (*models.User, error) {
	role, err := commonmodels.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	var existingID string
	err = s.DB.QueryRow("SELECT id FROM User WHERE email = ?", req.Email).Scan(&existingID)
	if err == nil {
		return nil, fmt.Errorf("email já cadastrado")
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := models.User{
		ID:        uuid.NewString(),
		ClinicID:  clinicID,
		Name:      req.Name,
		Email:     req.Email,
		Role:      string(role),
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	query := "INSERT INTO User (id, clinic_id, name, email, password, role, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	if _, err := s.DB.Exec(query, u.ID, u.ClinicID, u.Name, u.Email, string(hashed), u.Role, u.IsActive, u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns the clinic's team.
func (s *UserService) ListUsers(clinicID string) ([]models.User, error) {
	query := "SELECT id, clinic_id, name, email, role, is_active, created_at FROM User WHERE clinic_id = ? ORDER BY name"
	rows, err := s.DB.Query(query, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.ClinicID, &u.Name, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// DeactivateUser soft-disables a login without losing history.
func (s *UserService) DeactivateUser(clinicID, userID string) error {
	res, err := s.DB.Exec("UPDATE User SET is_active = 0 WHERE id = ? AND clinic_id = ?", userID, clinicID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("usuário não encontrado")
	}
	return nil
}
