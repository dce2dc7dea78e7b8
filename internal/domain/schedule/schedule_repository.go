package schedule

import (
	"context"

	"github.com/google/uuid"
)

// ScheduleRepository defines the interface for schedule persistence
type ScheduleRepository interface {
	// FindByID finds a schedule by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Schedule, error)

	// FindByEmail finds a schedule by its contact email
	FindByEmail(ctx context.Context, email string) (*Schedule, error)

	// FindAll lists all schedules
	FindAll(ctx context.Context) ([]Schedule, error)

	// FindActive lists all active schedules
	FindActive(ctx context.Context) ([]Schedule, error)

	// Save creates or updates a schedule
	Save(ctx context.Context, schedule *Schedule) error

	// Delete deletes a schedule
	Delete(ctx context.Context, id uuid.UUID) error
}
