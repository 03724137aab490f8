package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/company"
)

type CompanyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(ctx context.Context, c company.Company) (*company.Company, error) {
	c.ID = common.NewUUID()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO companies (id, name, website, industry, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Name, c.Website, c.Industry, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create company", err)
	}
	return &c, nil
}

func (r *CompanyRepository) Update(ctx context.Context, c company.Company) (*company.Company, error) {
	c.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `UPDATE companies SET name = $1, website = $2, industry = $3, description = $4, updated_at = $5 WHERE id = $6`,
		c.Name, c.Website, c.Industry, c.Description, c.UpdatedAt, c.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update company", err)
	}
	return r.GetByID(ctx, c.ID)
}

func (r *CompanyRepository) GetByID(ctx context.Context, id common.UUID) (*company.Company, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, website, industry, description, created_at, updated_at FROM companies WHERE id = $1`, id)
	var c company.Company
	if err := row.Scan(&c.ID, &c.Name, &c.Website, &c.Industry, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "company not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load company", err)
	}
	return &c, nil
}

func (r *CompanyRepository) List(ctx context.Context) ([]company.Company, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, website, industry, description, created_at, updated_at FROM companies ORDER BY name`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list companies", err)
	}
	defer rows.Close()
	var items []company.Company
	for rows.Next() {
		var c company.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Website, &c.Industry, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan company", err)
		}
		items = append(items, c)
	}
	return items, nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id common.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete company", err)
	}
	return nil
}

func (r *CompanyRepository) CountDrives(ctx context.Context, id common.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drives WHERE company_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count drives", err)
	}
	return count, nil
}
