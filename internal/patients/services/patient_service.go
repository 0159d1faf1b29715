package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/physiocapture/physiocapture-backend/internal/patients/models"
)

type PatientService struct {
	DB *sql.DB
}

func NewPatientService(db *sql.DB) *PatientService {
	return &PatientService{DB: db}
}

// RegisterPatient inserts a new patient. CPF must be unique within the
// clinic; new patients start in EVALUATION until the first consultation.
func (s *PatientService) RegisterPatient(clinicID string, p models.Patient) (*models.Patient, error) {
	var existingID string
	err := s.DB.QueryRow("SELECT id FROM Patient WHERE clinic_id = ? AND cpf = ?", clinicID, p.CPF).Scan(&existingID)
	if err == nil {
		return nil, fmt.Errorf("CPF já cadastrado")
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	p.ID = uuid.NewString()
	p.ClinicID = clinicID
	p.Status = models.StatusEvaluation
	p.CreatedAt = time.Now()

	query := `
		INSERT INTO Patient
			(id, clinic_id, full_name, cpf, birth_date, gender, phone, email, address, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.DB.Exec(query,
		p.ID, p.ClinicID, p.FullName, p.CPF, p.BirthDate, p.Gender,
		p.Phone, p.Email, p.Address, p.Status, p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPatients returns a page of the clinic's patients, optionally filtered
// by name or CPF.
func (s *PatientService) ListPatients(clinicID, filter string, page, limit int) ([]models.Patient, error) {
	query := "SELECT id, clinic_id, full_name, cpf, birth_date, gender, COALESCE(phone,''), COALESCE(email,''), COALESCE(address,''), status, assigned_therapist_id, last_visit, created_at FROM Patient WHERE clinic_id = ?"
	params := []interface{}{clinicID}
	if filter != "" {
		query += " AND (full_name LIKE ? OR cpf LIKE ?)"
		like := "%" + filter + "%"
		params = append(params, like, like)
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	params = append(params, limit, (page-1)*limit)

	rows, err := s.DB.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetPatient fetches one patient, clinic-scoped.
func (s *PatientService) GetPatient(clinicID, patientID string) (*models.Patient, error) {
	query := "SELECT id, clinic_id, full_name, cpf, birth_date, gender, COALESCE(phone,''), COALESCE(email,''), COALESCE(address,''), status, assigned_therapist_id, last_visit, created_at FROM Patient WHERE id = ? AND clinic_id = ?"
	rows, err := s.DB.Query(query, patientID, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	p, err := scanPatient(rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateStatus moves a patient through the care lifecycle.
func (s *PatientService) UpdateStatus(clinicID, patientID, status string) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("status inválido: %s", status)
	}
	res, err := s.DB.Exec("UPDATE Patient SET status = ? WHERE id = ? AND clinic_id = ?", status, patientID, clinicID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("paciente não encontrado")
	}
	return nil
}

// AssignTherapist links a patient to a physiotherapist of the same clinic.
func (s *PatientService) AssignTherapist(clinicID, patientID, therapistID string) error {
	var role string
	err := s.DB.QueryRow("SELECT role FROM User WHERE id = ? AND clinic_id = ?", therapistID, clinicID).Scan(&role)
	if err == sql.ErrNoRows {
		return fmt.Errorf("fisioterapeuta não encontrado")
	} else if err != nil {
		return err
	}
	if role != "PHYSIOTHERAPIST" {
		return fmt.Errorf("usuário não é fisioterapeuta")
	}

	res, err := s.DB.Exec("UPDATE Patient SET assigned_therapist_id = ? WHERE id = ? AND clinic_id = ?", therapistID, patientID, clinicID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("paciente não encontrado")
	}
	return nil
}

func scanPatient(rows *sql.Rows) (models.Patient, error) {
	var p models.Patient
	var therapistID sql.NullString
	var lastVisit sql.NullTime
	err := rows.Scan(&p.ID, &p.ClinicID, &p.FullName, &p.CPF, &p.BirthDate, &p.Gender,
		&p.Phone, &p.Email, &p.Address, &p.Status, &therapistID, &lastVisit, &p.CreatedAt)
	if err != nil {
		return p, err
	}
	if therapistID.Valid {
		v := therapistID.String
		p.AssignedTherapistID = &v
	}
	if lastVisit.Valid {
		t := lastVisit.Time
		p.LastVisit = &t
	}
	return p, nil
}
