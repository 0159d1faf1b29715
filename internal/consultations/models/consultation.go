package models

import "time"

type Consultation struct {
	ID          string    `json:"id"`
	ClinicID    string    `json:"clinic_id"`
	PatientID   string    `json:"patient_id"`
	PerformedBy string    `json:"performed_by"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LogConsultationRequest is the payload for recording a session.
type LogConsultationRequest struct {
	PatientID string `json:"patient_id"`
	Type      string `json:"type"`
	Date      string `json:"date"`
	Notes     string `json:"notes"`
}
