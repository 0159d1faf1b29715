package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physiocapture/physiocapture-backend/internal/dashboard/models"
)

// mockMetricsStore lets each test override just the fetchers it cares about.
// Unset fetchers return zero values. Calls is incremented on every fetcher
// invocation; pipelines run fetchers concurrently, so it is atomic.
type mockMetricsStore struct {
	Calls int64

	CountUsersFn                  func(ctx context.Context, clinicID string, onlyActive bool) (int, error)
	UsersByRoleFn                 func(ctx context.Context, clinicID string) ([]models.RoleCount, error)
	RecentUsersFn                 func(ctx context.Context, clinicID string, limit int) ([]models.UserSummary, error)
	PhysiotherapistsFn            func(ctx context.Context, clinicID string) ([]models.UserSummary, error)
	PatientsByTherapistFn         func(ctx context.Context, clinicID string) ([]models.TherapistPatientCount, error)
	CountPatientsFn               func(ctx context.Context, clinicID, therapistID string, onlyActive bool) (int, error)
	CountPatientsCreatedBetweenFn func(ctx context.Context, clinicID string, from, to time.Time) (int, error)
	RecentPatientsFn              func(ctx context.Context, clinicID string, limit int) ([]models.PatientSummary, error)
	PatientRegistrationsSinceFn   func(ctx context.Context, clinicID string, since time.Time) ([]time.Time, error)
	FollowUpPatientsFn            func(ctx context.Context, clinicID, therapistID string, cutoff time.Time) ([]models.PatientSummary, error)
	CountConsultationsFn          func(ctx context.Context, clinicID, performedBy string, from, to time.Time) (int, error)
	ConsultationDatesSinceFn      func(ctx context.Context, clinicID, performedBy string, since time.Time) ([]time.Time, error)
	ConsultationListFn            func(ctx context.Context, clinicID string, from, to time.Time) ([]models.ConsultationSummary, error)
	RecentConsultationsByUserFn   func(ctx context.Context, clinicID, userID string, limit int) ([]models.ConsultationSummary, error)
}

var _ MetricsStore = (*mockMetricsStore)(nil)

func (m *mockMetricsStore) CountUsers(ctx context.Context, clinicID string, onlyActive bool) (int, error) {
	atomic.AddInt64(&m.Calls, 1)
	if m.CountUsersFn != nil {
		return m.CountUsersFn(ctx, clinicID, onlyActive)
	}
	return 0, nil
}

func (m *mockMetricsStore) UsersByRole(ctx context.Context, clinicID string) ([]models.RoleCount, error) {
	atomic.AddInt64(&m.Calls, 1)
	if m.UsersByRoleFn != nil {
		return m.UsersByRoleFn(ctx, clinicID)
	}
	return nil, nil
}

func (m *mockMetricsStore) RecentUsers(ctx context.Context, clinicID string, limit int) ([]models.UserSummary, error) {
	atomic.AddInt64(&m.Calls, 1)
	if m.RecentUsersFn != nil {
		return m.RecentUsersFn(ctx, clinicID, limit)
	}
	return nil, nil
}

func (m *mockMetricsStore) Physiotherapists(ctx context.Context, clinicID string) ([]models.UserSummary, error) {
	atomic.AddInt64(&m.Calls, 1)
	if m.PhysiotherapistsFn != nil {
		return m.PhysiotherapistsFn(ctx, clinicID)
	}
	return nil, nil
}

func (m *mockMetricsStore) PatientsByTherapist(ctx context.Context, clinicID string) ([]models.TherapistPatientCount, error) {
	atomic.AddInt64(&m.Calls, 1)
	if m.PatientsByTherapistFn != nil {
		return m.PatientsByTherapistFn(ctx, clinicID)
	}
	return nil, nil
}

func (m *mockMetricsStore) CountPatients(ctx context.Context, clinicID, therapistID string, onlyActive bool) (int, error) {
	atomic.AddInt64(&m.Calls, 1)
	if m.CountPatientsFn != nil {
		return m.CountPatientsFn(ctx, clinicID, therapistID, onlyActive)
	}
	return 0, nil
}

func (m *mockMetricsStore) CountPatientsCreatedBetween(ctx context.Context, clinicID string, from, to time.Time) (int, error) {
	atomic.AddInt64(&m.Calls, 1)
	if m.CountPatientsCreatedBetweenFn != nil {
		return m.CountPatientsCreatedBetweenFn(ctx, clinicID, from, to)
	}
	return 0, nil
}

func (m *mockMetricsStore) RecentPatients(ctx context.Context, clinicID string, limit int) ([]models.PatientSummary, error) {
	atomic.AddInt64(&m.Calls, 1)
	if m.RecentPatientsFn != nil {
		return m.RecentPatientsFn(ctx, clinicID, limit)
	}
	return nil, nil
}

func (m *mockMetricsStore) PatientRegistrationsSince(ctx context.Context, clinicID string, since time.Time) ([]time.Time, error) {
	atomic.AddInt64(&m.Calls, 1)
	if m.PatientRegistrationsSinceFn != nil {
		return m.PatientRegistrationsSinceFn(ctx, clinicID, since)
	}
	return nil, nil
}

func (m *mockMetricsStore) FollowUpPatients(ctx context.Context, clinicID, therapistID string, cutoff time.Time) ([]models.PatientSummary, error) {
	atomic.AddInt64(&m.Calls, 1)
	if m.FollowUpPatientsFn != nil {
		return m.FollowUpPatientsFn(ctx, clinicID, therapistID, cutoff)
	}
	return nil, nil
}

func (m *mockMetricsStore) CountConsultations(ctx context.Context, clinicID, performedBy string, from, to time.Time) (int, error) {
	atomic.AddInt64(&m.Calls, 1)
	if m.CountConsultationsFn != nil {
		return m.CountConsultationsFn(ctx, clinicID, performedBy, from, to)
	}
	return 0, nil
}

func (m *mockMetricsStore) ConsultationDatesSince(ctx context.Context, clinicID, performedBy string, since time.Time) ([]time.Time, error) {
	atomic.AddInt64(&m.Calls, 1)
	if m.ConsultationDatesSinceFn != nil {
		return m.ConsultationDatesSinceFn(ctx, clinicID, performedBy, since)
	}
	return nil, nil
}

func (m *mockMetricsStore) ConsultationList(ctx context.Context, clinicID string, from, to time.Time) ([]models.ConsultationSummary, error) {
	atomic.AddInt64(&m.Calls, 1)
	if m.ConsultationListFn != nil {
		return m.ConsultationListFn(ctx, clinicID, from, to)
	}
	return nil, nil
}

func (m *mockMetricsStore) RecentConsultationsByUser(ctx context.Context, clinicID, userID string, limit int) ([]models.ConsultationSummary, error) {
	atomic.AddInt64(&m.Calls, 1)
	if m.RecentConsultationsByUserFn != nil {
		return m.RecentConsultationsByUserFn(ctx, clinicID, userID, limit)
	}
	return nil, nil
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)
	}
}

func TestBuildDashboardUnrecognizedRole(t *testing.T) {
	store := &mockMetricsStore{}
	svc := NewDashboardService(store, fixedClock())

	dash, err := svc.BuildDashboard(context.Background(), Identity{
		UserID:   "u-1",
		ClinicID: "c-1",
		Role:     "JANITOR",
	})

	assert.Nil(t, dash)
	var roleErr *UnrecognizedRoleError
	require.ErrorAs(t, err, &roleErr)
	assert.Equal(t, "JANITOR", roleErr.Role)
	assert.Equal(t, int64(0), atomic.LoadInt64(&store.Calls), "no fetcher should run for an invalid role")
}

func TestBuildDashboardMissingTenant(t *testing.T) {
	store := &mockMetricsStore{}
	svc := NewDashboardService(store, fixedClock())

	dash, err := svc.BuildDashboard(context.Background(), Identity{
		UserID: "u-1",
		Role:   "ADMIN",
	})

	assert.Nil(t, dash)
	assert.ErrorIs(t, err, ErrMissingTenant)
	assert.Equal(t, int64(0), atomic.LoadInt64(&store.Calls))
}

func TestBuildDashboardRoleCheckedBeforeTenant(t *testing.T) {
	store := &mockMetricsStore{}
	svc := NewDashboardService(store, fixedClock())

	// Both invalid: the role error must win.
	_, err := svc.BuildDashboard(context.Background(), Identity{Role: "WIZARD"})

	var roleErr *UnrecognizedRoleError
	assert.ErrorAs(t, err, &roleErr)
	assert.NotErrorIs(t, err, ErrMissingTenant)
}

func TestBuildAdminDashboard(t *testing.T) {
	loc := time.UTC
	store := &mockMetricsStore{
		CountUsersFn: func(_ context.Context, clinicID string, onlyActive bool) (int, error) {
			assert.Equal(t, "c-1", clinicID)
			if onlyActive {
				return 8, nil
			}
			return 10, nil
		},
		CountPatientsFn: func(_ context.Context, clinicID, therapistID string, onlyActive bool) (int, error) {
			assert.Empty(t, therapistID, "admin metrics are clinic-wide")
			if onlyActive {
				return 40, nil
			}
			return 55, nil
		},
		CountConsultationsFn: func(_ context.Context, clinicID, performedBy string, from, to time.Time) (int, error) {
			assert.Empty(t, performedBy)
			switch {
			case from.IsZero() && to.IsZero():
				return 900, nil
			case from.Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, loc)):
				return 60, nil
			case from.Equal(time.Date(2025, time.March, 10, 0, 0, 0, 0, loc)):
				return 4, nil
			case from.Equal(time.Date(2025, time.February, 25, 0, 0, 0, 0, loc)):
				return 10, nil // previous rolling week
			case from.Equal(time.Date(2025, time.February, 1, 0, 0, 0, 0, loc)):
				return 40, nil // previous calendar month
			}
			return 0, fmt.Errorf("unexpected window %v - %v", from, to)
		},
		UsersByRoleFn: func(_ context.Context, _ string) ([]models.RoleCount, error) {
			return []models.RoleCount{
				{Role: "PHYSIOTHERAPIST", Count: 5},
				{Role: "RECEPTIONIST", Count: 2},
			}, nil
		},
		ConsultationDatesSinceFn: func(_ context.Context, _, performedBy string, since time.Time) ([]time.Time, error) {
			assert.Empty(t, performedBy)
			assert.Equal(t, time.Date(2025, time.March, 4, 0, 0, 0, 0, loc), since)
			return []time.Time{
				time.Date(2025, time.March, 9, 10, 0, 0, 0, loc),
				time.Date(2025, time.March, 10, 11, 0, 0, 0, loc),
				time.Date(2025, time.March, 10, 14, 0, 0, 0, loc),
			}, nil
		},
	}
	svc := NewDashboardService(store, fixedClock())

	dash, err := svc.BuildAdminDashboard(context.Background(), Identity{UserID: "u-1", ClinicID: "c-1", Role: "ADMIN"})
	require.NoError(t, err)

	assert.Equal(t, 10, dash.TotalUsers)
	assert.Equal(t, 8, dash.ActiveUsers)
	assert.Equal(t, 55, dash.TotalPatients)
	assert.Equal(t, 40, dash.ActivePatients)
	assert.Equal(t, 900, dash.TotalConsultations)
	assert.Equal(t, 60, dash.MonthConsultations)
	assert.Equal(t, 4, dash.TodayConsultations)

	// Labels are translated at the view model boundary only.
	require.Len(t, dash.UsersByRole, 2)
	assert.Equal(t, "Fisioterapeuta", dash.UsersByRole[0].Label)
	assert.Equal(t, "Recepcionista", dash.UsersByRole[1].Label)

	require.Len(t, dash.Last7DaysChart, 7)
	assert.Equal(t, 2, dash.Last7DaysChart[6].Count)

	// 3 consultations this week vs 10 the week before, 60 vs 40 this month.
	assert.InDelta(t, -70.0, dash.WeekGrowthPercent, 1e-9)
	assert.InDelta(t, 50.0, dash.MonthGrowthPercent, 1e-9)
}

func TestBuildPhysiotherapistDashboardScopesToTherapist(t *testing.T) {
	store := &mockMetricsStore{
		CountPatientsFn: func(_ context.Context, clinicID, therapistID string, onlyActive bool) (int, error) {
			assert.Equal(t, "c-1", clinicID)
			assert.Equal(t, "therapist-9", therapistID)
			return 12, nil
		},
		CountConsultationsFn: func(_ context.Context, clinicID, performedBy string, from, to time.Time) (int, error) {
			assert.Equal(t, "therapist-9", performedBy)
			return 3, nil
		},
		RecentConsultationsByUserFn: func(_ context.Context, clinicID, userID string, limit int) ([]models.ConsultationSummary, error) {
			assert.Equal(t, "therapist-9", userID)
			return nil, nil
		},
		FollowUpPatientsFn: func(_ context.Context, clinicID, therapistID string, cutoff time.Time) ([]models.PatientSummary, error) {
			assert.Equal(t, "therapist-9", therapistID)
			assert.Equal(t, time.Date(2025, time.February, 8, 0, 0, 0, 0, time.UTC), cutoff)
			return nil, nil
		},
		ConsultationDatesSinceFn: func(_ context.Context, clinicID, performedBy string, since time.Time) ([]time.Time, error) {
			assert.Equal(t, "therapist-9", performedBy)
			return nil, nil
		},
	}
	svc := NewDashboardService(store, fixedClock())

	dash, err := svc.BuildPhysiotherapistDashboard(context.Background(), Identity{
		UserID:   "therapist-9",
		ClinicID: "c-1",
		Role:     "PHYSIOTHERAPIST",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, dash.AssignedPatients)
	assert.Equal(t, 3, dash.MonthConsultations)
}

func TestBuildReceptionistDashboardTrends(t *testing.T) {
	loc := time.UTC
	store := &mockMetricsStore{
		PatientRegistrationsSinceFn: func(_ context.Context, _ string, since time.Time) ([]time.Time, error) {
			assert.Equal(t, time.Date(2025, time.March, 4, 0, 0, 0, 0, loc), since)
			return []time.Time{
				time.Date(2025, time.March, 5, 9, 0, 0, 0, loc),
				time.Date(2025, time.March, 6, 9, 0, 0, 0, loc),
				time.Date(2025, time.March, 10, 9, 0, 0, 0, loc),
				time.Date(2025, time.March, 10, 10, 0, 0, 0, loc),
			}, nil
		},
		CountPatientsCreatedBetweenFn: func(_ context.Context, _ string, from, to time.Time) (int, error) {
			switch {
			case from.Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, loc)):
				return 20, nil
			case from.Equal(time.Date(2025, time.February, 25, 0, 0, 0, 0, loc)):
				return 2, nil
			case from.Equal(time.Date(2025, time.February, 1, 0, 0, 0, 0, loc)):
				return 10, nil
			}
			return 0, fmt.Errorf("unexpected window %v - %v", from, to)
		},
	}
	svc := NewDashboardService(store, fixedClock())

	dash, err := svc.BuildReceptionistDashboard(context.Background(), Identity{
		UserID:   "r-1",
		ClinicID: "c-1",
		Role:     "RECEPTIONIST",
	})
	require.NoError(t, err)

	assert.Equal(t, 20, dash.MonthRegistrations)
	// 4 registrations this week vs 2 the prior week.
	assert.InDelta(t, 100.0, dash.WeekGrowthPercent, 1e-9)
	// 20 this month vs 10 the prior month.
	assert.InDelta(t, 100.0, dash.MonthGrowthPercent, 1e-9)
	require.Len(t, dash.Last7DaysChart, 7)
	assert.Equal(t, 2, dash.Last7DaysChart[6].Count)
}

func TestBuildDashboardFetchFailureIsAtomic(t *testing.T) {
	boom := errors.New("connection reset")
	store := &mockMetricsStore{
		UsersByRoleFn: func(_ context.Context, _ string) ([]models.RoleCount, error) {
			return nil, boom
		},
	}
	svc := NewDashboardService(store, fixedClock())

	dash, err := svc.BuildDashboard(context.Background(), Identity{
		UserID:   "u-1",
		ClinicID: "c-1",
		Role:     "ADMIN",
	})

	assert.Nil(t, dash, "no partial dashboard on fetcher failure")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "load admin dashboard")
}

func TestBuildDashboardDispatchesExactlyOnePipeline(t *testing.T) {
	store := &mockMetricsStore{}
	svc := NewDashboardService(store, fixedClock())

	dash, err := svc.BuildDashboard(context.Background(), Identity{
		UserID:   "m-1",
		ClinicID: "c-1",
		Role:     "MANAGER",
	})
	require.NoError(t, err)

	_, ok := dash.(*models.ManagerDashboard)
	assert.True(t, ok, "manager identity must get the manager view model")
	// The manager pipeline runs exactly 8 fetchers.
	assert.Equal(t, int64(8), atomic.LoadInt64(&store.Calls))
}
