package application

import (
	"context"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
)

type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	FindByStudentAndDrive(ctx context.Context, studentID, driveID common.UUID) (*Application, error)
	// UpdateState writes status, current_round and feedback together so
	// a pipeline transition is one statement.
	UpdateState(ctx context.Context, id common.UUID, status Status, currentRound int, feedback string) (*Application, error)
	ListByStudent(ctx context.Context, studentID common.UUID) ([]Application, error)
	List(ctx context.Context, filter ListFilter) ([]Application, error)
	ListByDriveAtRound(ctx context.Context, driveID common.UUID, roundNumber int) ([]Application, error)
	CountByStudent(ctx context.Context, studentID common.UUID) (map[Status]int, error)
}
