package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/analytics"
)

type AnalyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) Create(ctx context.Context, event analytics.Event) error {
	var payload []byte
	if len(event.Payload) > 0 {
		var err error
		payload, err = json.Marshal(event.Payload)
		if err != nil {
			return common.NewError(common.CodeInternal, "failed to encode event payload", err)
		}
	}
	var userID any
	if event.UserID != nil {
		userID = *event.UserID
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO analytics_events (id, name, user_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		common.NewUUID(), event.Name, userID, payload, event.CreatedAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to record event", err)
	}
	return nil
}

type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Overview(ctx context.Context) (*analytics.Overview, error) {
	var o analytics.Overview
	err := r.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM companies),
		(SELECT COUNT(*) FROM drives),
		(SELECT COUNT(*) FROM drives WHERE status = 'active'),
		(SELECT COUNT(*) FROM drives WHERE status = 'completed'),
		(SELECT COUNT(*) FROM applications),
		(SELECT COUNT(DISTINCT student_id) FROM applications WHERE status = 'selected'),
		(SELECT COUNT(*) FROM students),
		(SELECT COUNT(*) FROM students WHERE is_approved = TRUE)`).
		Scan(&o.TotalCompanies, &o.TotalDrives, &o.ActiveDrives, &o.CompletedDrives,
			&o.TotalApplications, &o.StudentsPlaced, &o.TotalStudents, &o.ApprovedStudents)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load overview", err)
	}
	return &o, nil
}

func (r *StatsRepository) StatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load status counts", err)
	}
	defer rows.Close()
	return scanCountMap(rows)
}

func (r *StatsRepository) TopCompanies(ctx context.Context, limit int) ([]analytics.CompanyLeader, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT c.name, COUNT(a.id) AS applications
		FROM companies c
		JOIN drives pd ON pd.company_id = c.id
		JOIN applications a ON a.drive_id = pd.id
		GROUP BY c.name
		ORDER BY applications DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load company leaderboard", err)
	}
	defer rows.Close()
	var leaders []analytics.CompanyLeader
	for rows.Next() {
		var leader analytics.CompanyLeader
		if err := rows.Scan(&leader.CompanyName, &leader.ApplicationCount); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan company leaderboard", err)
		}
		leaders = append(leaders, leader)
	}
	return leaders, nil
}

func (r *StatsRepository) DepartmentPlacements(ctx context.Context) ([]analytics.DepartmentPlacement, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT d.name, COUNT(DISTINCT a.student_id) AS placed
		FROM departments d
		JOIN students s ON s.department_id = d.id
		JOIN applications a ON a.student_id = s.id AND a.status = 'selected'
		GROUP BY d.name
		ORDER BY placed DESC`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load department placements", err)
	}
	defer rows.Close()
	var placements []analytics.DepartmentPlacement
	for rows.Next() {
		var p analytics.DepartmentPlacement
		if err := rows.Scan(&p.DepartmentName, &p.PlacedCount); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan department placements", err)
		}
		placements = append(placements, p)
	}
	return placements, nil
}

func (r *StatsRepository) DepartmentOverview(ctx context.Context, departmentID common.UUID) (map[string]int, error) {
	counts := make(map[string]int)
	var total, approved, pending, placed int
	err := r.db.QueryRowContext(ctx, `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE is_approved = TRUE),
		COUNT(*) FILTER (WHERE is_approved = FALSE),
		(SELECT COUNT(DISTINCT a.student_id) FROM applications a
			JOIN students s2 ON s2.id = a.student_id
			WHERE s2.department_id = $1 AND a.status = 'selected')
		FROM students WHERE department_id = $1`, departmentID).
		Scan(&total, &approved, &pending, &placed)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load department overview", err)
	}
	counts["total_students"] = total
	counts["approved_students"] = approved
	counts["pending_students"] = pending
	counts["students_placed"] = placed
	return counts, nil
}

func scanCountMap(rows *sql.Rows) (map[string]int, error) {
	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan counts", err)
		}
		counts[key] = count
	}
	return counts, nil
}
