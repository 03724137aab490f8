package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/drive"
)

type DriveRepository struct {
	db *sql.DB
}

func NewDriveRepository(db *sql.DB) *DriveRepository {
	return &DriveRepository{db: db}
}

const driveColumns = `pd.id, pd.company_id, c.name, pd.job_role, pd.job_description, pd.package_ctc,
	pd.location, pd.job_type, pd.min_cgpa, pd.max_backlogs, pd.application_deadline,
	pd.status, pd.total_rounds, pd.created_by, pd.created_at, pd.updated_at`

// Create inserts the drive and its rounds in one transaction so a
// half-written pipeline never becomes visible.
func (r *DriveRepository) Create(ctx context.Context, d drive.Drive) (*drive.Drive, error) {
	d.ID = common.NewUUID()
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO drives
		(id, company_id, job_role, job_description, package_ctc, location, job_type, min_cgpa, max_backlogs, application_deadline, status, total_rounds, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		d.ID, d.CompanyID, d.JobRole, d.JobDescription, d.PackageCTC, d.Location, d.JobType,
		d.MinCGPA, d.MaxBacklogs, d.ApplicationDeadline, d.Status, d.TotalRounds, d.CreatedBy, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create drive", err)
	}
	for i := range d.Rounds {
		d.Rounds[i].ID = common.NewUUID()
		d.Rounds[i].DriveID = d.ID
		_, err = tx.ExecContext(ctx, `INSERT INTO rounds (id, drive_id, round_number, round_name, round_type, round_date)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			d.Rounds[i].ID, d.ID, d.Rounds[i].RoundNumber, d.Rounds[i].RoundName, d.Rounds[i].RoundType, d.Rounds[i].RoundDate)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to create round", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit drive", err)
	}
	return r.GetByID(ctx, d.ID)
}

func (r *DriveRepository) Update(ctx context.Context, d drive.Drive) (*drive.Drive, error) {
	d.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `UPDATE drives SET job_role = $1, job_description = $2, package_ctc = $3,
		location = $4, job_type = $5, min_cgpa = $6, max_backlogs = $7, application_deadline = $8,
		status = $9, updated_at = $10 WHERE id = $11`,
		d.JobRole, d.JobDescription, d.PackageCTC, d.Location, d.JobType, d.MinCGPA, d.MaxBacklogs,
		d.ApplicationDeadline, d.Status, d.UpdatedAt, d.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update drive", err)
	}
	return r.GetByID(ctx, d.ID)
}

func (r *DriveRepository) UpdateStatus(ctx context.Context, id common.UUID, status drive.Status) error {
	_, err := r.db.ExecContext(ctx, `UPDATE drives SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to update drive status", err)
	}
	return nil
}

func (r *DriveRepository) GetByID(ctx context.Context, id common.UUID) (*drive.Drive, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+driveColumns+`
		FROM drives pd JOIN companies c ON c.id = pd.company_id WHERE pd.id = $1`, id)
	var d drive.Drive
	if err := scanDrive(row.Scan, &d); err != nil {
		return nil, err
	}
	rounds, err := r.loadRounds(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Rounds = rounds
	return &d, nil
}

func (r *DriveRepository) List(ctx context.Context, filter drive.ListFilter) ([]drive.Drive, error) {
	query := `SELECT ` + driveColumns + ` FROM drives pd JOIN companies c ON c.id = pd.company_id WHERE 1=1`
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND pd.status = $%d", len(args))
	}
	if !filter.CompanyID.IsZero() {
		args = append(args, filter.CompanyID)
		query += fmt.Sprintf(" AND pd.company_id = $%d", len(args))
	}
	query += ` ORDER BY pd.created_at DESC`
	return r.queryDrives(ctx, query, args...)
}

func (r *DriveRepository) ListActive(ctx context.Context) ([]drive.Drive, error) {
	return r.queryDrives(ctx, `SELECT `+driveColumns+`
		FROM drives pd JOIN companies c ON c.id = pd.company_id
		WHERE pd.status = 'active' ORDER BY pd.application_deadline ASC`)
}

func (r *DriveRepository) Delete(ctx context.Context, id common.UUID) error {
	// rounds go with the drive via ON DELETE CASCADE
	_, err := r.db.ExecContext(ctx, `DELETE FROM drives WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete drive", err)
	}
	return nil
}

func (r *DriveRepository) CountApplications(ctx context.Context, id common.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications WHERE drive_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count applications", err)
	}
	return count, nil
}

func (r *DriveRepository) queryDrives(ctx context.Context, query string, args ...any) ([]drive.Drive, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list drives", err)
	}
	defer rows.Close()
	var items []drive.Drive
	for rows.Next() {
		var d drive.Drive
		if err := scanDrive(rows.Scan, &d); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, nil
}

func (r *DriveRepository) loadRounds(ctx context.Context, driveID common.UUID) ([]drive.Round, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, drive_id, round_number, round_name, round_type, round_date
		FROM rounds WHERE drive_id = $1 ORDER BY round_number`, driveID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list rounds", err)
	}
	defer rows.Close()
	var rounds []drive.Round
	for rows.Next() {
		var round drive.Round
		if err := rows.Scan(&round.ID, &round.DriveID, &round.RoundNumber, &round.RoundName, &round.RoundType, &round.RoundDate); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan round", err)
		}
		rounds = append(rounds, round)
	}
	return rounds, nil
}

func scanDrive(scan func(...any) error, d *drive.Drive) error {
	err := scan(&d.ID, &d.CompanyID, &d.CompanyName, &d.JobRole, &d.JobDescription, &d.PackageCTC,
		&d.Location, &d.JobType, &d.MinCGPA, &d.MaxBacklogs, &d.ApplicationDeadline,
		&d.Status, &d.TotalRounds, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewError(common.CodeNotFound, "drive not found", err)
		}
		return common.NewError(common.CodeInternal, "failed to load drive", err)
	}
	return nil
}
