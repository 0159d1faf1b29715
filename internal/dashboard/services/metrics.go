package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/physiocapture/physiocapture-backend/internal/dashboard/models"
)

// MetricsService implements MetricsStore over MySQL. Every query is scoped
// by clinic_id; no aggregate ever mixes rows across clinics.
type MetricsService struct {
	DB *sql.DB
}

func NewMetricsService(db *sql.DB) *MetricsService {
	return &MetricsService{DB: db}
}

var _ MetricsStore = (*MetricsService)(nil)

func (s *MetricsService) CountUsers(ctx context.Context, clinicID string, onlyActive bool) (int, error) {
	q := "SELECT COUNT(*) FROM User WHERE clinic_id = ?"
	params := []interface{}{clinicID}
	if onlyActive {
		q += " AND is_active = 1"
	}
	var cnt int
	if err := s.DB.QueryRowContext(ctx, q, params...).Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}

func (s *MetricsService) UsersByRole(ctx context.Context, clinicID string) ([]models.RoleCount, error) {
	q := "SELECT role, COUNT(*) FROM User WHERE clinic_id = ? GROUP BY role"
	rows, err := s.DB.QueryContext(ctx, q, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.RoleCount
	for rows.Next() {
		var rc models.RoleCount
		if err := rows.Scan(&rc.Role, &rc.Count); err != nil {
			return nil, err
		}
		result = append(result, rc)
	}
	return result, rows.Err()
}

func (s *MetricsService) RecentUsers(ctx context.Context, clinicID string, limit int) ([]models.UserSummary, error) {
	q := "SELECT id, name, role, created_at FROM User WHERE clinic_id = ? ORDER BY created_at DESC LIMIT ?"
	rows, err := s.DB.QueryContext(ctx, q, clinicID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUserSummaries(rows)
}

func (s *MetricsService) Physiotherapists(ctx context.Context, clinicID string) ([]models.UserSummary, error) {
	q := "SELECT id, name, role, created_at FROM User WHERE clinic_id = ? AND role = 'PHYSIOTHERAPIST' AND is_active = 1 ORDER BY name"
	rows, err := s.DB.QueryContext(ctx, q, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUserSummaries(rows)
}

func (s *MetricsService) PatientsByTherapist(ctx context.Context, clinicID string) ([]models.TherapistPatientCount, error) {
	q := `
		SELECT u.id, u.name, COUNT(p.id)
		FROM User u
		LEFT JOIN Patient p ON p.assigned_therapist_id = u.id AND p.clinic_id = u.clinic_id
		WHERE u.clinic_id = ? AND u.role = 'PHYSIOTHERAPIST'
		GROUP BY u.id, u.name
		ORDER BY COUNT(p.id) DESC
	`
	rows, err := s.DB.QueryContext(ctx, q, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.TherapistPatientCount
	for rows.Next() {
		var tc models.TherapistPatientCount
		if err := rows.Scan(&tc.TherapistID, &tc.TherapistName, &tc.PatientCount); err != nil {
			return nil, err
		}
		result = append(result, tc)
	}
	return result, rows.Err()
}

func (s *MetricsService) CountPatients(ctx context.Context, clinicID, therapistID string, onlyActive bool) (int, error) {
	q := "SELECT COUNT(*) FROM Patient WHERE clinic_id = ?"
	params := []interface{}{clinicID}
	if therapistID != "" {
		q += " AND assigned_therapist_id = ?"
		params = append(params, therapistID)
	}
	if onlyActive {
		q += " AND status = 'ACTIVE'"
	}
	var cnt int
	if err := s.DB.QueryRowContext(ctx, q, params...).Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}

func (s *MetricsService) CountPatientsCreatedBetween(ctx context.Context, clinicID string, from, to time.Time) (int, error) {
	q := "SELECT COUNT(*) FROM Patient WHERE clinic_id = ? AND created_at >= ? AND created_at < ?"
	var cnt int
	if err := s.DB.QueryRowContext(ctx, q, clinicID, from, to).Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}

func (s *MetricsService) RecentPatients(ctx context.Context, clinicID string, limit int) ([]models.PatientSummary, error) {
	q := "SELECT id, full_name, COALESCE(phone, ''), status, last_visit, created_at FROM Patient WHERE clinic_id = ? ORDER BY created_at DESC LIMIT ?"
	rows, err := s.DB.QueryContext(ctx, q, clinicID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPatientSummaries(rows)
}

func (s *MetricsService) PatientRegistrationsSince(ctx context.Context, clinicID string, since time.Time) ([]time.Time, error) {
	q := "SELECT created_at FROM Patient WHERE clinic_id = ? AND created_at >= ? ORDER BY created_at"
	rows, err := s.DB.QueryContext(ctx, q, clinicID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTimes(rows)
}

// FollowUpPatients lists active patients never seen or not seen since cutoff.
func (s *MetricsService) FollowUpPatients(ctx context.Context, clinicID, therapistID string, cutoff time.Time) ([]models.PatientSummary, error) {
	q := "SELECT id, full_name, COALESCE(phone, ''), status, last_visit, created_at FROM Patient WHERE clinic_id = ? AND status = 'ACTIVE' AND (last_visit IS NULL OR last_visit < ?)"
	params := []interface{}{clinicID, cutoff}
	if therapistID != "" {
		q += " AND assigned_therapist_id = ?"
		params = append(params, therapistID)
	}
	q += " ORDER BY last_visit IS NULL DESC, last_visit"
	rows, err := s.DB.QueryContext(ctx, q, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPatientSummaries(rows)
}

func (s *MetricsService) CountConsultations(ctx context.Context, clinicID, performedBy string, from, to time.Time) (int, error) {
	q := "SELECT COUNT(*) FROM Consultation WHERE clinic_id = ?"
	params := []interface{}{clinicID}
	if performedBy != "" {
		q += " AND performed_by = ?"
		params = append(params, performedBy)
	}
	if !from.IsZero() {
		q += " AND date >= ?"
		params = append(params, from)
	}
	if !to.IsZero() {
		q += " AND date < ?"
		params = append(params, to)
	}
	var cnt int
	if err := s.DB.QueryRowContext(ctx, q, params...).Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}

func (s *MetricsService) ConsultationDatesSince(ctx context.Context, clinicID, performedBy string, since time.Time) ([]time.Time, error) {
	q := "SELECT date FROM Consultation WHERE clinic_id = ? AND date >= ?"
	params := []interface{}{clinicID, since}
	if performedBy != "" {
		q += " AND performed_by = ?"
		params = append(params, performedBy)
	}
	q += " ORDER BY date"
	rows, err := s.DB.QueryContext(ctx, q, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTimes(rows)
}

func (s *MetricsService) ConsultationList(ctx context.Context, clinicID string, from, to time.Time) ([]models.ConsultationSummary, error) {
	q := `
		SELECT c.id, c.patient_id, p.full_name, c.type, c.date
		FROM Consultation c
		JOIN Patient p ON p.id = c.patient_id
		WHERE c.clinic_id = ? AND c.date >= ? AND c.date < ?
		ORDER BY c.date
	`
	rows, err := s.DB.QueryContext(ctx, q, clinicID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanConsultationSummaries(rows)
}

func (s *MetricsService) RecentConsultationsByUser(ctx context.Context, clinicID, userID string, limit int) ([]models.ConsultationSummary, error) {
	q := `
		SELECT c.id, c.patient_id, p.full_name, c.type, c.date
		FROM Consultation c
		JOIN Patient p ON p.id = c.patient_id
		WHERE c.clinic_id = ? AND c.performed_by = ?
		ORDER BY c.date DESC
		LIMIT ?
	`
	rows, err := s.DB.QueryContext(ctx, q, clinicID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanConsultationSummaries(rows)
}

func scanUserSummaries(rows *sql.Rows) ([]models.UserSummary, error) {
	var result []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func scanPatientSummaries(rows *sql.Rows) ([]models.PatientSummary, error) {
	var result []models.PatientSummary
	for rows.Next() {
		var p models.PatientSummary
		var lastVisit sql.NullTime
		if err := rows.Scan(&p.ID, &p.FullName, &p.Phone, &p.Status, &lastVisit, &p.CreatedAt); err != nil {
			return nil, err
		}
		if lastVisit.Valid {
			t := lastVisit.Time
			p.LastVisit = &t
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func scanConsultationSummaries(rows *sql.Rows) ([]models.ConsultationSummary, error) {
	var result []models.ConsultationSummary
	for rows.Next() {
		var c models.ConsultationSummary
		if err := rows.Scan(&c.ID, &c.PatientID, &c.PatientName, &c.Type, &c.Date); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func scanTimes(rows *sql.Rows) ([]time.Time, error) {
	var result []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
