package services

import (
	"context"
	"time"

	"github.com/physiocapture/physiocapture-backend/internal/dashboard/models"
)

// MetricsStore is the read-only data access surface the dashboard pipelines
// fan out over. Every method is scoped by clinic id; methods taking a
// therapist or performer id additionally scope to that user when the id is
// non-empty. Implementations must honor context cancellation so an abandoned
// request abandons its in-flight queries.
type MetricsStore interface {
	CountUsers(ctx context.Context, clinicID string, onlyActive bool) (int, error)
	UsersByRole(ctx context.Context, clinicID string) ([]models.RoleCount, error)
	RecentUsers(ctx context.Context, clinicID string, limit int) ([]models.UserSummary, error)
	Physiotherapists(ctx context.Context, clinicID string) ([]models.UserSummary, error)
	PatientsByTherapist(ctx context.Context, clinicID string) ([]models.TherapistPatientCount, error)

	CountPatients(ctx context.Context, clinicID, therapistID string, onlyActive bool) (int, error)
	CountPatientsCreatedBetween(ctx context.Context, clinicID string, from, to time.Time) (int, error)
	RecentPatients(ctx context.Context, clinicID string, limit int) ([]models.PatientSummary, error)
	PatientRegistrationsSince(ctx context.Context, clinicID string, since time.Time) ([]time.Time, error)
	FollowUpPatients(ctx context.Context, clinicID, therapistID string, cutoff time.Time) ([]models.PatientSummary, error)

	// CountConsultations counts within [from, to); zero bounds mean all time.
	CountConsultations(ctx context.Context, clinicID, performedBy string, from, to time.Time) (int, error)
	ConsultationDatesSince(ctx context.Context, clinicID, performedBy string, since time.Time) ([]time.Time, error)
	ConsultationList(ctx context.Context, clinicID string, from, to time.Time) ([]models.ConsultationSummary, error)
	RecentConsultationsByUser(ctx context.Context, clinicID, userID string, limit int) ([]models.ConsultationSummary, error)
}
