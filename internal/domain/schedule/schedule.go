package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/muhohoweb/shoe-app/internal/domain/shared"
)

// Frequency is how often a schedule fires
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiWeekly  Frequency = "bi-weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

// DefaultRunTime is used when a schedule is created without a time
const DefaultRunTime = "08:00"

// IsValid reports whether f is a known frequency
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly, FrequencyQuarterly:
		return true
	}
	return false
}

// Schedule configures the recurring order purge job. One schedule per
// contact email; the email also receives the run report.
type Schedule struct {
	shared.BaseAggregateRoot
	Email     string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Frequency Frequency  `gorm:"type:varchar(20);not null;default:'daily'"`
	RunHour   int        `gorm:"not null;default:8"`
	RunMinute int        `gorm:"not null;default:0"`
	IsActive  bool       `gorm:"not null;default:true"`
	LastRunAt *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (Schedule) TableName() string {
	return "schedules"
}

// NewSchedule creates an active schedule. runTime is "HH:MM"; an empty
// string falls back to DefaultRunTime.
func NewSchedule(email string, frequency Frequency, runTime string) (*Schedule, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Schedule email is required")
	}
	if !frequency.IsValid() {
		return nil, shared.NewDomainError("INVALID_FREQUENCY", "Unknown schedule frequency")
	}

	hour, minute, err := ParseRunTime(runTime)
	if err != nil {
		return nil, err
	}

	return &Schedule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Frequency:         frequency,
		RunHour:           hour,
		RunMinute:         minute,
		IsActive:          true,
	}, nil
}

// Update changes frequency and run time
func (s *Schedule) Update(frequency Frequency, runTime string) error {
	if !frequency.IsValid() {
		return shared.NewDomainError("INVALID_FREQUENCY", "Unknown schedule frequency")
	}
	hour, minute, err := ParseRunTime(runTime)
	if err != nil {
		return err
	}

	s.Frequency = frequency
	s.RunHour = hour
	s.RunMinute = minute
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Toggle flips the active flag and returns the new state
func (s *Schedule) Toggle() bool {
	s.IsActive = !s.IsActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return s.IsActive
}

// RunTime formats the configured time of day as "HH:MM"
func (s *Schedule) RunTime() string {
	return fmt.Sprintf("%02d:%02d", s.RunHour, s.RunMinute)
}

// IsDue reports whether the schedule should fire at now. It fires when
// the schedule is active, now matches the configured hour and minute,
// and at least one full frequency interval passed since the last run.
// A schedule that never ran is due on its first time-of-day match.
func (s *Schedule) IsDue(now time.Time) bool {
	if !s.IsActive {
		return false
	}
	if now.Hour() != s.RunHour || now.Minute() != s.RunMinute {
		return false
	}
	if s.LastRunAt == nil {
		return true
	}
	return !now.Before(s.nextRunAfter(*s.LastRunAt))
}

// NextRunTime returns the earliest moment the schedule can fire after
// now, for display purposes.
func (s *Schedule) NextRunTime(now time.Time) time.Time {
	base := now
	if s.LastRunAt != nil {
		earliest := s.nextRunAfter(*s.LastRunAt)
		if earliest.After(base) {
			base = earliest
		}
	}

	candidate := time.Date(base.Year(), base.Month(), base.Day(), s.RunHour, s.RunMinute, 0, 0, base.Location())
	if candidate.Before(base) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

// MarkRun stamps the last run time
func (s *Schedule) MarkRun(now time.Time) {
	s.LastRunAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()
}

func (s *Schedule) nextRunAfter(last time.Time) time.Time {
	switch s.Frequency {
	case FrequencyDaily:
		return last.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return last.AddDate(0, 0, 7)
	case FrequencyBiWeekly:
		return last.AddDate(0, 0, 14)
	case FrequencyMonthly:
		return last.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		return last.AddDate(0, 3, 0)
	default:
		return last.AddDate(0, 0, 1)
	}
}

// ParseRunTime parses "HH:MM" into hour and minute. Empty input yields
// the default run time.
func ParseRunTime(runTime string) (int, int, error) {
	if runTime == "" {
		runTime = DefaultRunTime
	}

	parts := strings.SplitN(runTime, ":", 2)
	if len(parts) != 2 {
		return 0, 0, shared.NewDomainError("INVALID_TIME", "Run time must be HH:MM")
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, shared.NewDomainError("INVALID_TIME", "Run hour must be between 00 and 23")
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, shared.NewDomainError("INVALID_TIME", "Run minute must be between 00 and 59")
	}
	return hour, minute, nil
}
