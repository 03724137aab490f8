package app

import (
	"context"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/analytics"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/student"
)

// StatsService serves the TPO and HOD dashboards from SQL aggregates.
type StatsService struct {
	stats analytics.StatsRepository
	hods  student.HODRepository
}

func NewStatsService(stats analytics.StatsRepository, hods student.HODRepository) *StatsService {
	return &StatsService{stats: stats, hods: hods}
}

func (s *StatsService) Overview(ctx context.Context) (*analytics.Overview, error) {
	return s.stats.Overview(ctx)
}

// AnalyticsReport is the TPO analytics page payload: placement funnel,
// company leaderboard and per-department placements.
type AnalyticsReport struct {
	CompanyStats    []analytics.CompanyLeader       `json:"company_stats"`
	StatusStats     map[string]int                  `json:"status_stats"`
	DepartmentStats []analytics.DepartmentPlacement `json:"department_stats"`
	Overview        analytics.Overview              `json:"overview"`
}

func (s *StatsService) Analytics(ctx context.Context) (*AnalyticsReport, error) {
	companies, err := s.stats.TopCompanies(ctx, 5)
	if err != nil {
		return nil, err
	}
	statuses, err := s.stats.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := s.stats.DepartmentPlacements(ctx)
	if err != nil {
		return nil, err
	}
	overview, err := s.stats.Overview(ctx)
	if err != nil {
		return nil, err
	}
	return &AnalyticsReport{
		CompanyStats:    companies,
		StatusStats:     statuses,
		DepartmentStats: departments,
		Overview:        *overview,
	}, nil
}

// DepartmentOverview aggregates the HOD's own department.
func (s *StatsService) DepartmentOverview(ctx context.Context, hodUserID common.UUID) (map[string]int, error) {
	hod, err := s.hods.GetByUserID(ctx, hodUserID)
	if err != nil {
		return nil, err
	}
	return s.stats.DepartmentOverview(ctx, hod.DepartmentID)
}
