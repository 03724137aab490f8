package app

import (
	"context"
	"strings"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/analytics"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/company"
)

type CompanyService struct {
	repo      company.Repository
	analytics analytics.Repository
}

func NewCompanyService(repo company.Repository, analyticsRepo analytics.Repository) *CompanyService {
	return &CompanyService{repo: repo, analytics: analyticsRepo}
}

func (s *CompanyService) Create(ctx context.Context, c company.Company) (*company.Company, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, common.NewValidationError("invalid request", map[string]string{"name": "name is required"})
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.record(ctx, "company.created", map[string]string{"company_id": created.ID.String()})
	return created, nil
}

func (s *CompanyService) Update(ctx context.Context, c company.Company) (*company.Company, error) {
	current, err := s.repo.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.Name) != "" {
		current.Name = strings.TrimSpace(c.Name)
	}
	if c.Website != "" {
		current.Website = c.Website
	}
	if c.Industry != "" {
		current.Industry = c.Industry
	}
	if c.Description != "" {
		current.Description = c.Description
	}
	updated, err := s.repo.Update(ctx, *current)
	if err != nil {
		return nil, err
	}
	s.record(ctx, "company.updated", map[string]string{"company_id": c.ID.String()})
	return updated, nil
}

func (s *CompanyService) Get(ctx context.Context, id common.UUID) (*company.Company, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CompanyService) List(ctx context.Context) ([]company.Company, error) {
	return s.repo.List(ctx)
}

// Delete refuses while drives reference the company.
func (s *CompanyService) Delete(ctx context.Context, id common.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountDrives(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return common.NewError(common.CodeConflict, "company has drives and cannot be deleted", nil)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "company.deleted", map[string]string{"company_id": id.String()})
	return nil
}

func (s *CompanyService) record(ctx context.Context, name string, payload map[string]string) {
	if s.analytics == nil {
		return
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: name, Payload: payload})
}
