package models

import "time"

// Patient statuses are stable machine values; the frontend translates them.
const (
	StatusActive     = "ACTIVE"
	StatusInactive   = "INACTIVE"
	StatusEvaluation = "EVALUATION"
	StatusDischarged = "DISCHARGED"
)

type Patient struct {
	ID                  string     `json:"id"`
	ClinicID            string     `json:"clinic_id"`
	FullName            string     `json:"full_name"`
	CPF                 string     `json:"cpf"`
	BirthDate           time.Time  `json:"birth_date"`
	Gender              string     `json:"gender"`
	Phone               string     `json:"phone,omitempty"`
	Email               string     `json:"email,omitempty"`
	Address             string     `json:"address,omitempty"`
	Status              string     `json:"status"`
	AssignedTherapistID *string    `json:"assigned_therapist_id,omitempty"`
	LastVisit           *time.Time `json:"last_visit,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// RegisterPatientRequest is the registration form payload.
type RegisterPatientRequest struct {
	FullName  string `json:"full_name"`
	CPF       string `json:"cpf"`
	BirthDate string `json:"birth_date"`
	Gender    string `json:"gender"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusEvaluation, StatusDischarged:
		return true
	}
	return false
}
