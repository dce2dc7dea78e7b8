package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DueScheduleRunner runs every schedule that is due at the given time.
type DueScheduleRunner interface {
	// RunDue executes all schedules whose run time matches now and whose
	// interval has elapsed. Returns the number of schedules executed.
	RunDue(ctx context.Context, now time.Time) (int, error)
}

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	// TickInterval is how often to check for due schedules
	TickInterval time.Duration
}

// DefaultCronTriggerConfig returns default configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		TickInterval: time.Minute,
	}
}

// CronTrigger periodically runs due maintenance schedules
type CronTrigger struct {
	config CronTriggerConfig
	runner DueScheduleRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(config CronTriggerConfig, runner DueScheduleRunner, logger *zap.Logger) *CronTrigger {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Minute
	}
	return &CronTrigger{
		config: config,
		runner: runner,
		logger: logger,
	}
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Schedule cron trigger started",
		zap.Duration("tick_interval", c.config.TickInterval),
	)

	return nil
}

// Stop stops the cron trigger and waits for the loop to exit
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Schedule cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop ticks and runs due schedules until the context is cancelled
func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.TickInterval)
	defer ticker.Stop()

	// Run immediately on start
	c.tick(ctx, time.Now())

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.tick(ctx, now)
		}
	}
}

func (c *CronTrigger) tick(ctx context.Context, now time.Time) {
	ran, err := c.runner.RunDue(ctx, now)
	if err != nil {
		c.logger.Error("Failed to run due schedules", zap.Error(err))
		return
	}
	if ran > 0 {
		c.logger.Info("Ran due schedules",
			zap.Int("count", ran),
			zap.Time("tick", now),
		)
	}
}
