package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	commonmodels "github.com/physiocapture/physiocapture-backend/internal/common/models"
	"github.com/physiocapture/physiocapture-backend/internal/dashboard/models"
)

// Identity is the validated authentication context a request carries.
type Identity struct {
	UserID   string
	ClinicID string
	Role     string
}

// DashboardService routes an identity to exactly one role pipeline and
// assembles the role's view model. Fetchers inside a pipeline run
// concurrently; any failure fails the whole pipeline so a partially wrong
// dashboard is never surfaced.
type DashboardService struct {
	store MetricsStore
	clock func() time.Time
}

// NewDashboardService wires the metric store and the clock. The clock is
// injected so date boundaries are deterministic under test; pass nil for
// time.Now.
func NewDashboardService(store MetricsStore, clock func() time.Time) *DashboardService {
	if clock == nil {
		clock = time.Now
	}
	return &DashboardService{store: store, clock: clock}
}

// BuildDashboard validates the identity and dispatches to the single
// pipeline matching the role. No fetcher runs for an invalid identity.
func (s *DashboardService) BuildDashboard(ctx context.Context, ident Identity) (interface{}, error) {
	role, err := commonmodels.ParseRole(ident.Role)
	if err != nil {
		return nil, &UnrecognizedRoleError{Role: ident.Role}
	}
	if ident.ClinicID == "" {
		return nil, ErrMissingTenant
	}

	switch role {
	case commonmodels.RoleAdmin:
		return s.BuildAdminDashboard(ctx, ident)
	case commonmodels.RoleManager:
		return s.BuildManagerDashboard(ctx, ident)
	case commonmodels.RolePhysiotherapist:
		return s.BuildPhysiotherapistDashboard(ctx, ident)
	case commonmodels.RoleReceptionist:
		return s.BuildReceptionistDashboard(ctx, ident)
	default:
		return nil, &UnrecognizedRoleError{Role: ident.Role}
	}
}

func (s *DashboardService) BuildAdminDashboard(ctx context.Context, ident Identity) (*models.AdminDashboard, error) {
	if ident.ClinicID == "" {
		return nil, ErrMissingTenant
	}
	w := NewWindows(s.clock())

	var (
		totalUsers, activeUsers         int
		totalPatients, activePatients   int
		totalConsultations              int
		monthConsultations              int
		todayConsultations              int
		prevWeekConsultations           int
		prevMonthConsultations          int
		usersByRole                     []models.RoleCount
		recentUsers                     []models.UserSummary
		patientsByTherapist             []models.TherapistPatientCount
		weekDates                       []time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalUsers, err = s.store.CountUsers(gctx, ident.ClinicID, false)
		return
	})
	g.Go(func() (err error) {
		activeUsers, err = s.store.CountUsers(gctx, ident.ClinicID, true)
		return
	})
	g.Go(func() (err error) {
		totalPatients, err = s.store.CountPatients(gctx, ident.ClinicID, "", false)
		return
	})
	g.Go(func() (err error) {
		activePatients, err = s.store.CountPatients(gctx, ident.ClinicID, "", true)
		return
	})
	g.Go(func() (err error) {
		totalConsultations, err = s.store.CountConsultations(gctx, ident.ClinicID, "", time.Time{}, time.Time{})
		return
	})
	g.Go(func() (err error) {
		monthConsultations, err = s.store.CountConsultations(gctx, ident.ClinicID, "", w.FirstOfMonth, w.TomorrowStart)
		return
	})
	g.Go(func() (err error) {
		todayConsultations, err = s.store.CountConsultations(gctx, ident.ClinicID, "", w.TodayStart, w.TomorrowStart)
		return
	})
	g.Go(func() (err error) {
		prevWeekConsultations, err = s.store.CountConsultations(gctx, ident.ClinicID, "", w.NDaysAgo(13), w.NDaysAgo(6))
		return
	})
	g.Go(func() (err error) {
		prevMonthConsultations, err = s.store.CountConsultations(gctx, ident.ClinicID, "", w.FirstOfPrevMonth, w.FirstOfMonth)
		return
	})
	g.Go(func() (err error) {
		usersByRole, err = s.store.UsersByRole(gctx, ident.ClinicID)
		return
	})
	g.Go(func() (err error) {
		recentUsers, err = s.store.RecentUsers(gctx, ident.ClinicID, 5)
		return
	})
	g.Go(func() (err error) {
		patientsByTherapist, err = s.store.PatientsByTherapist(gctx, ident.ClinicID)
		return
	})
	g.Go(func() (err error) {
		weekDates, err = s.store.ConsultationDatesSince(gctx, ident.ClinicID, "", w.NDaysAgo(6))
		return
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load admin dashboard: %w", err)
	}

	for i := range usersByRole {
		usersByRole[i].Label = commonmodels.Role(usersByRole[i].Role).Label()
	}

	return &models.AdminDashboard{
		TotalUsers:          totalUsers,
		ActiveUsers:         activeUsers,
		TotalPatients:       totalPatients,
		ActivePatients:      activePatients,
		TotalConsultations:  totalConsultations,
		MonthConsultations:  monthConsultations,
		TodayConsultations:  todayConsultations,
		UsersByRole:         usersByRole,
		PatientsByTherapist: patientsByTherapist,
		RecentUsers:         recentUsers,
		Last7DaysChart:      Bucketize(weekDates, 7, s.clock()),
		WeekGrowthPercent:   ComputeTrend(len(weekDates), prevWeekConsultations),
		MonthGrowthPercent:  ComputeTrend(monthConsultations, prevMonthConsultations),
	}, nil
}

func (s *DashboardService) BuildManagerDashboard(ctx context.Context, ident Identity) (*models.ManagerDashboard, error) {
	if ident.ClinicID == "" {
		return nil, ErrMissingTenant
	}
	w := NewWindows(s.clock())

	var (
		totalPatients, activePatients int
		todayConsultations            int
		monthConsultations            int
		todayList                     []models.ConsultationSummary
		recentPatients                []models.PatientSummary
		physiotherapists              []models.UserSummary
		weekDates                     []time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalPatients, err = s.store.CountPatients(gctx, ident.ClinicID, "", false)
		return
	})
	g.Go(func() (err error) {
		activePatients, err = s.store.CountPatients(gctx, ident.ClinicID, "", true)
		return
	})
	g.Go(func() (err error) {
		todayConsultations, err = s.store.CountConsultations(gctx, ident.ClinicID, "", w.TodayStart, w.TomorrowStart)
		return
	})
	g.Go(func() (err error) {
		monthConsultations, err = s.store.CountConsultations(gctx, ident.ClinicID, "", w.FirstOfMonth, w.TomorrowStart)
		return
	})
	g.Go(func() (err error) {
		todayList, err = s.store.ConsultationList(gctx, ident.ClinicID, w.TodayStart, w.TomorrowStart)
		return
	})
	g.Go(func() (err error) {
		recentPatients, err = s.store.RecentPatients(gctx, ident.ClinicID, 5)
		return
	})
	g.Go(func() (err error) {
		physiotherapists, err = s.store.Physiotherapists(gctx, ident.ClinicID)
		return
	})
	g.Go(func() (err error) {
		weekDates, err = s.store.ConsultationDatesSince(gctx, ident.ClinicID, "", w.NDaysAgo(6))
		return
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load manager dashboard: %w", err)
	}

	return &models.ManagerDashboard{
		TotalPatients:         totalPatients,
		ActivePatients:        activePatients,
		TodayConsultations:    todayConsultations,
		MonthConsultations:    monthConsultations,
		TodayConsultationList: todayList,
		RecentPatients:        recentPatients,
		Physiotherapists:      physiotherapists,
		Last7DaysChart:        Bucketize(weekDates, 7, s.clock()),
	}, nil
}

func (s *DashboardService) BuildPhysiotherapistDashboard(ctx context.Context, ident Identity) (*models.PhysiotherapistDashboard, error) {
	if ident.ClinicID == "" {
		return nil, ErrMissingTenant
	}
	w := NewWindows(s.clock())

	var (
		assignedPatients       int
		activeAssignedPatients int
		monthConsultations     int
		todayConsultations     int
		recentConsultations    []models.ConsultationSummary
		followUpPatients       []models.PatientSummary
		weekDates              []time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		assignedPatients, err = s.store.CountPatients(gctx, ident.ClinicID, ident.UserID, false)
		return
	})
	g.Go(func() (err error) {
		activeAssignedPatients, err = s.store.CountPatients(gctx, ident.ClinicID, ident.UserID, true)
		return
	})
	g.Go(func() (err error) {
		monthConsultations, err = s.store.CountConsultations(gctx, ident.ClinicID, ident.UserID, w.FirstOfMonth, w.TomorrowStart)
		return
	})
	g.Go(func() (err error) {
		todayConsultations, err = s.store.CountConsultations(gctx, ident.ClinicID, ident.UserID, w.TodayStart, w.TomorrowStart)
		return
	})
	g.Go(func() (err error) {
		recentConsultations, err = s.store.RecentConsultationsByUser(gctx, ident.ClinicID, ident.UserID, 10)
		return
	})
	g.Go(func() (err error) {
		followUpPatients, err = s.store.FollowUpPatients(gctx, ident.ClinicID, ident.UserID, w.NDaysAgo(30))
		return
	})
	g.Go(func() (err error) {
		weekDates, err = s.store.ConsultationDatesSince(gctx, ident.ClinicID, ident.UserID, w.NDaysAgo(6))
		return
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load physiotherapist dashboard: %w", err)
	}

	return &models.PhysiotherapistDashboard{
		AssignedPatients:       assignedPatients,
		ActiveAssignedPatients: activeAssignedPatients,
		MonthConsultations:     monthConsultations,
		TodayConsultations:     todayConsultations,
		RecentConsultations:    recentConsultations,
		FollowUpPatients:       followUpPatients,
		Last7DaysChart:         Bucketize(weekDates, 7, s.clock()),
	}, nil
}

func (s *DashboardService) BuildReceptionistDashboard(ctx context.Context, ident Identity) (*models.ReceptionistDashboard, error) {
	if ident.ClinicID == "" {
		return nil, ErrMissingTenant
	}
	w := NewWindows(s.clock())

	var (
		totalPatients, activePatients int
		monthRegistrations            int
		todayConsultations            int
		monthConsultations            int
		recentPatients                []models.PatientSummary
		todayList                     []models.ConsultationSummary
		weekRegistrations             []time.Time
		prevWeekRegistrations         int
		prevMonthRegistrations        int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalPatients, err = s.store.CountPatients(gctx, ident.ClinicID, "", false)
		return
	})
	g.Go(func() (err error) {
		activePatients, err = s.store.CountPatients(gctx, ident.ClinicID, "", true)
		return
	})
	g.Go(func() (err error) {
		monthRegistrations, err = s.store.CountPatientsCreatedBetween(gctx, ident.ClinicID, w.FirstOfMonth, w.TomorrowStart)
		return
	})
	g.Go(func() (err error) {
		todayConsultations, err = s.store.CountConsultations(gctx, ident.ClinicID, "", w.TodayStart, w.TomorrowStart)
		return
	})
	g.Go(func() (err error) {
		monthConsultations, err = s.store.CountConsultations(gctx, ident.ClinicID, "", w.FirstOfMonth, w.TomorrowStart)
		return
	})
	g.Go(func() (err error) {
		recentPatients, err = s.store.RecentPatients(gctx, ident.ClinicID, 10)
		return
	})
	g.Go(func() (err error) {
		todayList, err = s.store.ConsultationList(gctx, ident.ClinicID, w.TodayStart, w.TomorrowStart)
		return
	})
	g.Go(func() (err error) {
		weekRegistrations, err = s.store.PatientRegistrationsSince(gctx, ident.ClinicID, w.NDaysAgo(6))
		return
	})
	g.Go(func() (err error) {
		prevWeekRegistrations, err = s.store.CountPatientsCreatedBetween(gctx, ident.ClinicID, w.NDaysAgo(13), w.NDaysAgo(6))
		return
	})
	g.Go(func() (err error) {
		prevMonthRegistrations, err = s.store.CountPatientsCreatedBetween(gctx, ident.ClinicID, w.FirstOfPrevMonth, w.FirstOfMonth)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load receptionist dashboard: %w", err)
	}

	return &models.ReceptionistDashboard{
		TotalPatients:         totalPatients,
		ActivePatients:        activePatients,
		MonthRegistrations:    monthRegistrations,
		TodayConsultations:    todayConsultations,
		MonthConsultations:    monthConsultations,
		RecentPatients:        recentPatients,
		TodayConsultationList: todayList,
		Last7DaysChart:        Bucketize(weekRegistrations, 7, s.clock()),
		WeekGrowthPercent:     ComputeTrend(len(weekRegistrations), prevWeekRegistrations),
		MonthGrowthPercent:    ComputeTrend(monthRegistrations, prevMonthRegistrations),
	}, nil
}
