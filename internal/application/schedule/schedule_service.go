package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muhohoweb/shoe-app/internal/domain/schedule"
	"github.com/muhohoweb/shoe-app/internal/domain/shared"
	"github.com/muhohoweb/shoe-app/internal/domain/trade"
)

// UpsertScheduleRequest creates or replaces the schedule for an email
type UpsertScheduleRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Frequency string `json:"frequency" binding:"required,oneof=daily weekly bi-weekly monthly quarterly"`
	RunTime   string `json:"run_time" binding:"omitempty,len=5"`
}

// ScheduleResponse represents a schedule in API responses
type ScheduleResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Frequency string     `json:"frequency"`
	RunTime   string     `json:"run_time"`
	IsActive  bool       `json:"is_active"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	NextRunAt time.Time  `json:"next_run_at"`
}

// TriggerReport summarises one maintenance run
type TriggerReport struct {
	SchedulesRun int   `json:"schedules_run"`
	OrdersPurged int64 `json:"orders_purged"`
}

// ToScheduleResponse converts a domain Schedule
func ToScheduleResponse(s *schedule.Schedule, now time.Time) ScheduleResponse {
	return ScheduleResponse{
		ID:        s.ID,
		Email:     s.Email,
		Frequency: string(s.Frequency),
		RunTime:   s.RunTime(),
		IsActive:  s.IsActive,
		LastRunAt: s.LastRunAt,
		NextRunAt: s.NextRunTime(now),
	}
}

// ScheduleService manages the recurring order purge schedules
type ScheduleService struct {
	scheduleRepo schedule.ScheduleRepository
	orderRepo    trade.OrderRepository
	logger       *zap.Logger
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(
	scheduleRepo schedule.ScheduleRepository,
	orderRepo trade.OrderRepository,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		orderRepo:    orderRepo,
		logger:       logger,
	}
}

// Upsert creates the schedule for an email, or reconfigures the
// existing one. One schedule per contact email.
func (s *ScheduleService) Upsert(ctx context.Context, req UpsertScheduleRequest) (*ScheduleResponse, error) {
	existing, err := s.scheduleRepo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	var sched *schedule.Schedule
	if existing != nil {
		if err := existing.Update(schedule.Frequency(req.Frequency), req.RunTime); err != nil {
			return nil, err
		}
		sched = existing
	} else {
		sched, err = schedule.NewSchedule(req.Email, schedule.Frequency(req.Frequency), req.RunTime)
		if err != nil {
			return nil, err
		}
	}

	if err := s.scheduleRepo.Save(ctx, sched); err != nil {
		return nil, err
	}

	resp := ToScheduleResponse(sched, time.Now())
	return &resp, nil
}

// List returns all schedules
func (s *ScheduleService) List(ctx context.Context) ([]ScheduleResponse, error) {
	schedules, err := s.scheduleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]ScheduleResponse, len(schedules))
	for i := range schedules {
		responses[i] = ToScheduleResponse(&schedules[i], now)
	}
	return responses, nil
}

// Toggle flips a schedule's active flag
func (s *ScheduleService) Toggle(ctx context.Context, id uuid.UUID) (*ScheduleResponse, error) {
	sched, err := s.scheduleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sched.Toggle()
	if err := s.scheduleRepo.Save(ctx, sched); err != nil {
		return nil, err
	}

	resp := ToScheduleResponse(sched, time.Now())
	return &resp, nil
}

// Delete removes a schedule
func (s *ScheduleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scheduleRepo.Delete(ctx, id)
}

// RunDue executes every schedule due at now. Each run purges paid
// orders that already completed or were cancelled, then stamps the
// schedule. Returns the number of schedules that fired.
func (s *ScheduleService) RunDue(ctx context.Context, now time.Time) (int, error) {
	schedules, err := s.scheduleRepo.FindActive(ctx)
	if err != nil {
		return 0, err
	}

	ran := 0
	for i := range schedules {
		sched := &schedules[i]
		if !sched.IsDue(now) {
			continue
		}

		purged, err := s.orderRepo.PurgeSettled(ctx, now)
		if err != nil {
			s.logger.Error("Order purge failed",
				zap.String("schedule_id", sched.ID.String()),
				zap.Error(err),
			)
			continue
		}

		sched.MarkRun(now)
		if err := s.scheduleRepo.Save(ctx, sched); err != nil {
			return ran, err
		}

		s.logger.Info("Order purge completed",
			zap.String("schedule_id", sched.ID.String()),
			zap.String("email", sched.Email),
			zap.Int64("orders_purged", purged),
		)
		ran++
	}

	return ran, nil
}

// TriggerNow runs the purge immediately, outside any schedule
func (s *ScheduleService) TriggerNow(ctx context.Context) (*TriggerReport, error) {
	now := time.Now()
	purged, err := s.orderRepo.PurgeSettled(ctx, now)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Manual order purge completed",
		zap.Int64("orders_purged", purged))

	return &TriggerReport{SchedulesRun: 1, OrdersPurged: purged}, nil
}
