package models

import "time"

// Summary rows returned by the metric fetchers. Role values are the stable
// machine strings; translated labels are filled in by the dashboard service
// when the view model is assembled.

type UserSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type PatientSummary struct {
	ID        string     `json:"id"`
	FullName  string     `json:"full_name"`
	Phone     string     `json:"phone,omitempty"`
	Status    string     `json:"status"`
	LastVisit *time.Time `json:"last_visit,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type ConsultationSummary struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
}

type RoleCount struct {
	Role  string `json:"role"`
	Label string `json:"label,omitempty"`
	Count int    `json:"count"`
}

type TherapistPatientCount struct {
	TherapistID   string `json:"therapist_id"`
	TherapistName string `json:"therapist_name"`
	PatientCount  int    `json:"patient_count"`
}

// DayBucket is one day of a gapless chart series.
type DayBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AdminDashboard is the clinic-wide overview.
type AdminDashboard struct {
	TotalUsers          int                     `json:"total_users"`
	ActiveUsers         int                     `json:"active_users"`
	TotalPatients       int                     `json:"total_patients"`
	ActivePatients      int                     `json:"active_patients"`
	TotalConsultations  int                     `json:"total_consultations"`
	MonthConsultations  int                     `json:"month_consultations"`
	TodayConsultations  int                     `json:"today_consultations"`
	UsersByRole         []RoleCount             `json:"users_by_role"`
	PatientsByTherapist []TherapistPatientCount `json:"patients_by_therapist"`
	RecentUsers         []UserSummary           `json:"recent_users"`
	Last7DaysChart      []DayBucket             `json:"last_7_days_chart"`
	WeekGrowthPercent   float64                 `json:"week_growth_percent"`
	MonthGrowthPercent  float64                 `json:"month_growth_percent"`
}

// ManagerDashboard is the daily operations view.
type ManagerDashboard struct {
	TotalPatients      int                   `json:"total_patients"`
	ActivePatients     int                   `json:"active_patients"`
	TodayConsultations int                   `json:"today_consultations"`
	MonthConsultations int                   `json:"month_consultations"`
	TodayConsultationList []ConsultationSummary `json:"today_consultation_list"`
	RecentPatients     []PatientSummary      `json:"recent_patients"`
	Physiotherapists   []UserSummary         `json:"physiotherapists"`
	Last7DaysChart     []DayBucket           `json:"last_7_days_chart"`
}

// PhysiotherapistDashboard is scoped to the therapist's own caseload.
type PhysiotherapistDashboard struct {
	AssignedPatients       int                   `json:"assigned_patients"`
	ActiveAssignedPatients int                   `json:"active_assigned_patients"`
	MonthConsultations     int                   `json:"month_consultations"`
	TodayConsultations     int                   `json:"today_consultations"`
	RecentConsultations    []ConsultationSummary `json:"recent_consultations"`
	FollowUpPatients       []PatientSummary      `json:"follow_up_patients"`
	Last7DaysChart         []DayBucket           `json:"last_7_days_chart"`
}

// ReceptionistDashboard tracks registrations and the day's schedule.
type ReceptionistDashboard struct {
	TotalPatients         int                   `json:"total_patients"`
	ActivePatients        int                   `json:"active_patients"`
	MonthRegistrations    int                   `json:"month_registrations"`
	TodayConsultations    int                   `json:"today_consultations"`
	MonthConsultations    int                   `json:"month_consultations"`
	RecentPatients        []PatientSummary      `json:"recent_patients"`
	TodayConsultationList []ConsultationSummary `json:"today_consultation_list"`
	Last7DaysChart        []DayBucket           `json:"last_7_days_chart"`
	WeekGrowthPercent     float64               `json:"week_growth_percent"`
	MonthGrowthPercent    float64               `json:"month_growth_percent"`
}
