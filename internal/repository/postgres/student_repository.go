package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/student"
)

type StudentRepository struct {
	db *sql.DB
}

func NewStudentRepository(db *sql.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `s.id, s.user_id, s.department_id, d.name, s.first_name, s.last_name,
	s.enrollment_number, s.phone, s.cgpa, s.backlogs, s.skills, s.bio, s.resume_url,
	s.is_approved, s.approved_by, s.approved_at, s.created_at, s.updated_at`

func (r *StudentRepository) Create(ctx context.Context, profile student.Profile) (*student.Profile, error) {
	profile.ID = common.NewUUID()
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	var cgpa sql.NullFloat64
	if profile.HasCGPA {
		cgpa = sql.NullFloat64{Float64: profile.CGPA, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO students
		(id, user_id, department_id, first_name, last_name, enrollment_number, phone, cgpa, backlogs, skills, bio, resume_url, is_approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		profile.ID, profile.UserID, profile.DepartmentID, profile.FirstName, profile.LastName,
		profile.EnrollmentNumber, profile.Phone, cgpa, profile.Backlogs, pq.Array(profile.Skills),
		profile.Bio, nullString(profile.ResumeURL), profile.IsApproved, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create student profile", err)
	}
	return r.GetByID(ctx, profile.ID)
}

func (r *StudentRepository) GetByID(ctx context.Context, id common.UUID) (*student.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentColumns+`
		FROM students s JOIN departments d ON d.id = s.department_id WHERE s.id = $1`, id)
	return scanStudent(row)
}

func (r *StudentRepository) GetByUserID(ctx context.Context, userID common.UUID) (*student.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentColumns+`
		FROM students s JOIN departments d ON d.id = s.department_id WHERE s.user_id = $1`, userID)
	return scanStudent(row)
}

func (r *StudentRepository) Update(ctx context.Context, id common.UUID, update student.Update) (*student.Profile, error) {
	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if update.FirstName != nil {
		add("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		add("last_name", *update.LastName)
	}
	if update.Phone != nil {
		add("phone", *update.Phone)
	}
	if update.CGPA != nil {
		add("cgpa", *update.CGPA)
	}
	if update.Backlogs != nil {
		add("backlogs", *update.Backlogs)
	}
	if update.Skills != nil {
		add("skills", pq.Array(update.Skills))
	}
	if update.Bio != nil {
		add("bio", *update.Bio)
	}
	if len(sets) == 1 {
		return nil, common.NewError(common.CodeValidation, "no fields to update", nil)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE students SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update student profile", err)
	}
	return r.GetByID(ctx, id)
}

func (r *StudentRepository) SetResumeURL(ctx context.Context, id common.UUID, resumeURL string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE students SET resume_url = $1, updated_at = $2 WHERE id = $3`,
		resumeURL, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to set resume url", err)
	}
	return nil
}

func (r *StudentRepository) SetApproval(ctx context.Context, id common.UUID, approved bool, approvedBy *common.UUID, approvedAt *time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE students SET is_approved = $1, approved_by = $2, approved_at = $3, updated_at = $4 WHERE id = $5`,
		approved, approvedBy, approvedAt, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to set approval", err)
	}
	return nil
}

func (r *StudentRepository) List(ctx context.Context, filter student.ListFilter) ([]student.Summary, error) {
	query := `SELECT ` + studentColumns + `,
		COUNT(DISTINCT a.id) AS application_count,
		COUNT(DISTINCT CASE WHEN a.status = 'selected' THEN a.id END) AS placements
		FROM students s
		JOIN departments d ON d.id = s.department_id
		LEFT JOIN applications a ON a.student_id = s.id
		WHERE s.department_id = $1`
	args := []any{filter.DepartmentID}
	if filter.Approved != nil {
		args = append(args, *filter.Approved)
		query += fmt.Sprintf(" AND s.is_approved = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (s.first_name ILIKE $%d OR s.last_name ILIKE $%d OR s.enrollment_number ILIKE $%d)", n, n, n)
	}
	query += ` GROUP BY s.id, d.name ORDER BY s.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list students", err)
	}
	defer rows.Close()
	var items []student.Summary
	for rows.Next() {
		var summary student.Summary
		if err := scanStudentInto(rows, &summary.Profile, &summary.ApplicationCount, &summary.Placements); err != nil {
			return nil, err
		}
		items = append(items, summary)
	}
	return items, nil
}

func scanStudent(row *sql.Row) (*student.Profile, error) {
	var profile student.Profile
	var cgpa sql.NullFloat64
	var resumeURL sql.NullString
	var skills pq.StringArray
	err := row.Scan(&profile.ID, &profile.UserID, &profile.DepartmentID, &profile.DepartmentName,
		&profile.FirstName, &profile.LastName, &profile.EnrollmentNumber, &profile.Phone,
		&cgpa, &profile.Backlogs, &skills, &profile.Bio, &resumeURL,
		&profile.IsApproved, &profile.ApprovedBy, &profile.ApprovedAt, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "student profile not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load student profile", err)
	}
	applyStudentNullables(&profile, cgpa, resumeURL, skills)
	return &profile, nil
}

func scanStudentInto(rows *sql.Rows, profile *student.Profile, extra ...any) error {
	var cgpa sql.NullFloat64
	var resumeURL sql.NullString
	var skills pq.StringArray
	dest := []any{&profile.ID, &profile.UserID, &profile.DepartmentID, &profile.DepartmentName,
		&profile.FirstName, &profile.LastName, &profile.EnrollmentNumber, &profile.Phone,
		&cgpa, &profile.Backlogs, &skills, &profile.Bio, &resumeURL,
		&profile.IsApproved, &profile.ApprovedBy, &profile.ApprovedAt, &profile.CreatedAt, &profile.UpdatedAt}
	dest = append(dest, extra...)
	if err := rows.Scan(dest...); err != nil {
		return common.NewError(common.CodeInternal, "failed to scan student", err)
	}
	applyStudentNullables(profile, cgpa, resumeURL, skills)
	return nil
}

func applyStudentNullables(profile *student.Profile, cgpa sql.NullFloat64, resumeURL sql.NullString, skills pq.StringArray) {
	if cgpa.Valid {
		profile.CGPA = cgpa.Float64
		profile.HasCGPA = true
	}
	if resumeURL.Valid {
		profile.ResumeURL = resumeURL.String
	}
	profile.Skills = []string(skills)
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

type HODRepository struct {
	db *sql.DB
}

func NewHODRepository(db *sql.DB) *HODRepository {
	return &HODRepository{db: db}
}

func (r *HODRepository) GetByUserID(ctx context.Context, userID common.UUID) (*student.HOD, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, department_id, first_name, last_name FROM hods WHERE user_id = $1`, userID)
	var hod student.HOD
	if err := row.Scan(&hod.ID, &hod.UserID, &hod.DepartmentID, &hod.FirstName, &hod.LastName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "hod profile not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load hod profile", err)
	}
	return &hod, nil
}

func (r *HODRepository) Create(ctx context.Context, hod student.HOD) (*student.HOD, error) {
	hod.ID = common.NewUUID()
	_, err := r.db.ExecContext(ctx, `INSERT INTO hods (id, user_id, department_id, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)`,
		hod.ID, hod.UserID, hod.DepartmentID, hod.FirstName, hod.LastName)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create hod profile", err)
	}
	return &hod, nil
}
