package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/department"
)

type DepartmentRepository struct {
	db *sql.DB
}

func NewDepartmentRepository(db *sql.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) List(ctx context.Context) ([]department.Department, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, code FROM departments ORDER BY name`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list departments", err)
	}
	defer rows.Close()
	var items []department.Department
	for rows.Next() {
		var d department.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Code); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan department", err)
		}
		items = append(items, d)
	}
	return items, nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id common.UUID) (*department.Department, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, code FROM departments WHERE id = $1`, id)
	var d department.Department
	if err := row.Scan(&d.ID, &d.Name, &d.Code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "department not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load department", err)
	}
	return &d, nil
}
