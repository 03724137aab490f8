package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/application"
)

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, student_id, drive_id, status, current_round, feedback, applied_at, updated_at`

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.AppliedAt = now
	app.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `INSERT INTO applications
		(id, student_id, drive_id, status, current_round, feedback, applied_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		app.ID, app.StudentID, app.DriveID, app.Status, app.CurrentRound, app.Feedback, app.AppliedAt, app.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "application already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row.Scan)
}

func (r *ApplicationRepository) FindByStudentAndDrive(ctx context.Context, studentID, driveID common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+`
		FROM applications WHERE student_id = $1 AND drive_id = $2`, studentID, driveID)
	return scanApplication(row.Scan)
}

func (r *ApplicationRepository) UpdateState(ctx context.Context, id common.UUID, status application.Status, currentRound int, feedback string) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `UPDATE applications
		SET status = $1, current_round = $2, feedback = $3, updated_at = $4
		WHERE id = $5
		RETURNING `+applicationColumns, status, currentRound, feedback, time.Now().UTC(), id)
	return scanApplication(row.Scan)
}

func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID common.UUID) ([]application.Application, error) {
	return r.queryApplications(ctx, `SELECT `+applicationColumns+`
		FROM applications WHERE student_id = $1 ORDER BY applied_at DESC`, studentID)
}

func (r *ApplicationRepository) List(ctx context.Context, filter application.ListFilter) ([]application.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE 1=1`
	var args []any
	if !filter.DriveID.IsZero() {
		args = append(args, filter.DriveID)
		query += fmt.Sprintf(" AND drive_id = $%d", len(args))
	}
	if !filter.StudentID.IsZero() {
		args = append(args, filter.StudentID)
		query += fmt.Sprintf(" AND student_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += ` ORDER BY applied_at DESC`
	return r.queryApplications(ctx, query, args...)
}

// ListByDriveAtRound returns the candidates who reached at least the
// given round and are still moving, plus those whose run ended there.
func (r *ApplicationRepository) ListByDriveAtRound(ctx context.Context, driveID common.UUID, roundNumber int) ([]application.Application, error) {
	return r.queryApplications(ctx, `SELECT `+applicationColumns+`
		FROM applications WHERE drive_id = $1 AND current_round >= $2
		ORDER BY applied_at`, driveID, roundNumber)
}

func (r *ApplicationRepository) CountByStudent(ctx context.Context, studentID common.UUID) (map[application.Status]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*)
		FROM applications WHERE student_id = $1 GROUP BY status`, studentID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count applications", err)
	}
	defer rows.Close()
	counts := make(map[application.Status]int)
	for rows.Next() {
		var status application.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application counts", err)
		}
		counts[status] = count
	}
	return counts, nil
}

func (r *ApplicationRepository) queryApplications(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	var items []application.Application
	for rows.Next() {
		var app application.Application
		if err := rows.Scan(&app.ID, &app.StudentID, &app.DriveID, &app.Status, &app.CurrentRound,
			&app.Feedback, &app.AppliedAt, &app.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		items = append(items, app)
	}
	return items, nil
}

func scanApplication(scan func(...any) error) (*application.Application, error) {
	var app application.Application
	err := scan(&app.ID, &app.StudentID, &app.DriveID, &app.Status, &app.CurrentRound,
		&app.Feedback, &app.AppliedAt, &app.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return &app, nil
}
