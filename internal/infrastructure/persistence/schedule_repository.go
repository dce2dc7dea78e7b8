package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/muhohoweb/shoe-app/internal/domain/schedule"
	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// GormScheduleRepository implements ScheduleRepository using GORM
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GormScheduleRepository
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// FindByID finds a schedule by its ID
func (r *GormScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*schedule.Schedule, error) {
	var s schedule.Schedule
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByEmail finds a schedule by its contact email
func (r *GormScheduleRepository) FindByEmail(ctx context.Context, email string) (*schedule.Schedule, error) {
	var s schedule.Schedule
	if err := r.db.WithContext(ctx).First(&s, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll lists all schedules
func (r *GormScheduleRepository) FindAll(ctx context.Context) ([]schedule.Schedule, error) {
	var schedules []schedule.Schedule
	if err := r.db.WithContext(ctx).Order("email ASC").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// FindActive lists all active schedules
func (r *GormScheduleRepository) FindActive(ctx context.Context) ([]schedule.Schedule, error) {
	var schedules []schedule.Schedule
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("email ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// Save creates or updates a schedule
func (r *GormScheduleRepository) Save(ctx context.Context, s *schedule.Schedule) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete deletes a schedule
func (r *GormScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&schedule.Schedule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormScheduleRepository implements ScheduleRepository
var _ schedule.ScheduleRepository = (*GormScheduleRepository)(nil)
