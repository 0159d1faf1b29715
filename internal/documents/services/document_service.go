package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/physiocapture/physiocapture-backend/internal/documents/models"
)

type DocumentService struct {
	DB  *sql.DB
	OCR *OCRClient
}

func NewDocumentService(db *sql.DB, ocr *OCRClient) *DocumentService {
	return &DocumentService{DB: db, OCR: ocr}
}

// UploadDocument stores the metadata row and submits the file to the OCR
// service. The document stays in PROCESSING until a status check sees the
// job finish.
func (s *DocumentService) UploadDocument(ctx context.Context, clinicID, uploadedBy, patientID, fileName, contentType string, file io.Reader) (*models.Document, error) {
	var existingID string
	err := s.DB.QueryRow("SELECT id FROM Patient WHERE id = ? AND clinic_id = ?", patientID, clinicID).Scan(&existingID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("paciente não encontrado")
	} else if err != nil {
		return nil, err
	}

	jobID, err := s.OCR.SubmitJob(ctx, fileName, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("falha ao enviar documento para OCR: %w", err)
	}

	doc := models.Document{
		ID:          uuid.NewString(),
		ClinicID:    clinicID,
		PatientID:   patientID,
		FileName:    fileName,
		ContentType: contentType,
		Status:      models.StatusProcessing,
		OCRJobID:    jobID,
		UploadedBy:  uploadedBy,
		CreatedAt:   time.Now(),
	}
	query := `
		INSERT INTO Document
			(id, clinic_id, patient_id, file_name, content_type, status, ocr_job_id, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := s.DB.ExecContext(ctx, query, doc.ID, doc.ClinicID, doc.PatientID, doc.FileName,
		doc.ContentType, doc.Status, doc.OCRJobID, doc.UploadedBy, doc.CreatedAt); err != nil {
		return nil, err
	}
	return &doc, nil
}

// CheckStatus relays the OCR job state. When the job has finished since the
// last check, the extracted text is persisted and the returned document
// reflects the final state.
func (s *DocumentService) CheckStatus(ctx context.Context, clinicID, documentID string) (*models.Document, error) {
	doc, err := s.getDocument(ctx, clinicID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.StatusProcessing && doc.Status != models.StatusPending {
		return doc, nil
	}

	job, err := s.OCR.JobStatus(ctx, doc.OCRJobID)
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar OCR: %w", err)
	}

	switch job.Status {
	case models.StatusDone:
		if _, err := s.DB.ExecContext(ctx,
			"UPDATE Document SET status = ?, extracted_text = ? WHERE id = ? AND clinic_id = ?",
			models.StatusDone, job.Text, doc.ID, clinicID); err != nil {
			return nil, err
		}
		doc.Status = models.StatusDone
		doc.ExtractedText = job.Text
	case models.StatusFailed:
		if _, err := s.DB.ExecContext(ctx,
			"UPDATE Document SET status = ? WHERE id = ? AND clinic_id = ?",
			models.StatusFailed, doc.ID, clinicID); err != nil {
			return nil, err
		}
		doc.Status = models.StatusFailed
	}
	return doc, nil
}

// ListByPatient returns a patient's documents, newest first.
func (s *DocumentService) ListByPatient(ctx context.Context, clinicID, patientID string) ([]models.Document, error) {
	query := `
		SELECT id, clinic_id, patient_id, file_name, content_type, status,
			COALESCE(extracted_text, ''), COALESCE(ocr_job_id, ''), uploaded_by, created_at
		FROM Document
		WHERE clinic_id = ? AND patient_id = ?
		ORDER BY created_at DESC
	`
	rows, err := s.DB.QueryContext(ctx, query, clinicID, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.ClinicID, &d.PatientID, &d.FileName, &d.ContentType,
			&d.Status, &d.ExtractedText, &d.OCRJobID, &d.UploadedBy, &d.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (s *DocumentService) getDocument(ctx context.Context, clinicID, documentID string) (*models.Document, error) {
	query := `
		SELECT id, clinic_id, patient_id, file_name, content_type, status,
			COALESCE(extracted_text, ''), COALESCE(ocr_job_id, ''), uploaded_by, created_at
		FROM Document
		WHERE id = ? AND clinic_id = ?
	`
	var d models.Document
	err := s.DB.QueryRowContext(ctx, query, documentID, clinicID).Scan(&d.ID, &d.ClinicID, &d.PatientID,
		&d.FileName, &d.ContentType, &d.Status, &d.ExtractedText, &d.OCRJobID, &d.UploadedBy, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
