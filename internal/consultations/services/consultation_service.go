package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/physiocapture/physiocapture-backend/internal/consultations/models"
)

type ConsultationService struct {
	DB *sql.DB
}

func NewConsultationService(db *sql.DB) *ConsultationService {
	return &ConsultationService{DB: db}
}

// LogConsultation records a session and moves the patient's last_visit
// forward in the same transaction, so the follow-up query never sees a
// consultation without the matching visit date.
func (s *ConsultationService) LogConsultation(clinicID, performedBy string, c models.Consultation) (*models.Consultation, error) {
	var patientStatus string
	err := s.DB.QueryRow("SELECT status FROM Patient WHERE id = ? AND clinic_id = ?", c.PatientID, clinicID).Scan(&patientStatus)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("paciente não encontrado")
	} else if err != nil {
		return nil, err
	}

	c.ID = uuid.NewString()
	c.ClinicID = clinicID
	c.PerformedBy = performedBy
	c.CreatedAt = time.Now()

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO Consultation
			(id, clinic_id, patient_id, performed_by, type, date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.Exec(query, c.ID, c.ClinicID, c.PatientID, c.PerformedBy, c.Type, c.Date, c.Notes, c.CreatedAt); err != nil {
		tx.Rollback()
		return nil, err
	}

	// First consultation graduates an EVALUATION patient to ACTIVE.
	updateQ := "UPDATE Patient SET last_visit = ?"
	params := []interface{}{c.Date}
	if patientStatus == "EVALUATION" {
		updateQ += ", status = 'ACTIVE'"
	}
	updateQ += " WHERE id = ? AND clinic_id = ?"
	params = append(params, c.PatientID, clinicID)
	if _, err := tx.Exec(updateQ, params...); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListToday returns the day's consultations with patient names.
func (s *ConsultationService) ListToday(clinicID string, todayStart, tomorrowStart time.Time) ([]map[string]interface{}, error) {
	query := `
		SELECT c.id, c.patient_id, p.full_name, u.name, c.type, c.date
		FROM Consultation c
		JOIN Patient p ON p.id = c.patient_id
		JOIN User u ON u.id = c.performed_by
		WHERE c.clinic_id = ? AND c.date >= ? AND c.date < ?
		ORDER BY c.date
	`
	rows, err := s.DB.Query(query, clinicID, todayStart, tomorrowStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []map[string]interface{}
	for rows.Next() {
		var id, patientID, patientName, performerName, ctype string
		var date time.Time
		if err := rows.Scan(&id, &patientID, &patientName, &performerName, &ctype, &date); err != nil {
			return nil, err
		}
		result = append(result, map[string]interface{}{
			"id":             id,
			"patient_id":     patientID,
			"patient_name":   patientName,
			"performed_by":   performerName,
			"type":           ctype,
			"date":           date,
		})
	}
	return result, rows.Err()
}
