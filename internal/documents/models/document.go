package models

import "time"

// Document processing statuses.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

type Document struct {
	ID            string    `json:"id"`
	ClinicID      string    `json:"clinic_id"`
	PatientID     string    `json:"patient_id"`
	FileName      string    `json:"file_name"`
	ContentType   string    `json:"content_type"`
	Status        string    `json:"status"`
	ExtractedText string    `json:"extracted_text,omitempty"`
	OCRJobID      string    `json:"ocr_job_id,omitempty"`
	UploadedBy    string    `json:"uploaded_by"`
	CreatedAt     time.Time `json:"created_at"`
}
