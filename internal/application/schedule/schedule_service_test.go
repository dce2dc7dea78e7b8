package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/muhohoweb/shoe-app/internal/domain/schedule"
	"github.com/muhohoweb/shoe-app/internal/domain/shared"
	"github.com/muhohoweb/shoe-app/internal/domain/trade"
)

// MockScheduleRepository is a mock implementation of ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*schedule.Schedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedule.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) FindByEmail(ctx context.Context, email string) (*schedule.Schedule, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedule.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) FindAll(ctx context.Context) ([]schedule.Schedule, error) {
	args := m.Called(ctx)
	return args.Get(0).([]schedule.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) FindActive(ctx context.Context) ([]schedule.Schedule, error) {
	args := m.Called(ctx)
	return args.Get(0).([]schedule.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) Save(ctx context.Context, sched *schedule.Schedule) error {
	args := m.Called(ctx, sched)
	return args.Error(0)
}

func (m *MockScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderRepository implements the slice of trade.OrderRepository the
// service touches
type MockOrderRepository struct {
	mock.Mock
	trade.OrderRepository
}

func (m *MockOrderRepository) PurgeSettled(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func newScheduleFixture(t *testing.T) (*ScheduleService, *MockScheduleRepository, *MockOrderRepository) {
	t.Helper()
	scheduleRepo := new(MockScheduleRepository)
	orderRepo := new(MockOrderRepository)
	service := NewScheduleService(scheduleRepo, orderRepo, zap.NewNop())
	return service, scheduleRepo, orderRepo
}

func TestScheduleService_Upsert_CreatesNew(t *testing.T) {
	service, scheduleRepo, _ := newScheduleFixture(t)

	scheduleRepo.On("FindByEmail", mock.Anything, "ops@example.com").Return(nil, shared.ErrNotFound)
	scheduleRepo.On("Save", mock.Anything, mock.AnythingOfType("*schedule.Schedule")).Return(nil)

	resp, err := service.Upsert(context.Background(), UpsertScheduleRequest{
		Email:     "ops@example.com",
		Frequency: "weekly",
		RunTime:   "09:30",
	})

	require.NoError(t, err)
	assert.Equal(t, "weekly", resp.Frequency)
	assert.Equal(t, "09:30", resp.RunTime)
	assert.True(t, resp.IsActive)
}

func TestScheduleService_Upsert_ReconfiguresExisting(t *testing.T) {
	service, scheduleRepo, _ := newScheduleFixture(t)

	existing, err := schedule.NewSchedule("ops@example.com", schedule.FrequencyDaily, "")
	require.NoError(t, err)

	scheduleRepo.On("FindByEmail", mock.Anything, "ops@example.com").Return(existing, nil)
	scheduleRepo.On("Save", mock.Anything, existing).Return(nil)

	resp, err := service.Upsert(context.Background(), UpsertScheduleRequest{
		Email:     "ops@example.com",
		Frequency: "monthly",
		RunTime:   "06:15",
	})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, resp.ID)
	assert.Equal(t, "monthly", resp.Frequency)
	assert.Equal(t, "06:15", resp.RunTime)
}

func TestScheduleService_RunDue_FiresWhenIntervalElapsed(t *testing.T) {
	service, scheduleRepo, orderRepo := newScheduleFixture(t)

	sched, err := schedule.NewSchedule("ops@example.com", schedule.FrequencyDaily, "08:00")
	require.NoError(t, err)
	lastRun := time.Date(2025, 8, 16, 7, 0, 0, 0, time.UTC)
	sched.LastRunAt = &lastRun

	// 25 hours after the last run, at the configured minute
	now := time.Date(2025, 8, 17, 8, 0, 30, 0, time.UTC)

	scheduleRepo.On("FindActive", mock.Anything).Return([]schedule.Schedule{*sched}, nil)
	orderRepo.On("PurgeSettled", mock.Anything, now).Return(int64(3), nil)
	scheduleRepo.On("Save", mock.Anything, mock.AnythingOfType("*schedule.Schedule")).Return(nil)

	ran, err := service.RunDue(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 1, ran)
	orderRepo.AssertExpectations(t)
}

func TestScheduleService_RunDue_SkipsInsideInterval(t *testing.T) {
	service, scheduleRepo, orderRepo := newScheduleFixture(t)

	sched, err := schedule.NewSchedule("ops@example.com", schedule.FrequencyDaily, "08:00")
	require.NoError(t, err)
	lastRun := time.Date(2025, 8, 17, 8, 0, 0, 0, time.UTC)
	sched.LastRunAt = &lastRun

	// Only 10 hours later; the time of day cannot even match, and the
	// daily interval has not elapsed.
	now := time.Date(2025, 8, 17, 18, 0, 0, 0, time.UTC)

	scheduleRepo.On("FindActive", mock.Anything).Return([]schedule.Schedule{*sched}, nil)

	ran, err := service.RunDue(context.Background(), now)

	require.NoError(t, err)
	assert.Zero(t, ran)
	orderRepo.AssertNotCalled(t, "PurgeSettled", mock.Anything, mock.Anything)
}

func TestScheduleService_RunDue_SkipsInactive(t *testing.T) {
	service, scheduleRepo, orderRepo := newScheduleFixture(t)

	sched, err := schedule.NewSchedule("ops@example.com", schedule.FrequencyDaily, "08:00")
	require.NoError(t, err)
	sched.Toggle()

	now := time.Date(2025, 8, 17, 8, 0, 0, 0, time.UTC)

	scheduleRepo.On("FindActive", mock.Anything).Return([]schedule.Schedule{*sched}, nil)

	ran, err := service.RunDue(context.Background(), now)

	require.NoError(t, err)
	assert.Zero(t, ran)
	orderRepo.AssertNotCalled(t, "PurgeSettled", mock.Anything, mock.Anything)
}

func TestScheduleService_TriggerNow_Purges(t *testing.T) {
	service, _, orderRepo := newScheduleFixture(t)

	orderRepo.On("PurgeSettled", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(7), nil)

	report, err := service.TriggerNow(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), report.OrdersPurged)
}
