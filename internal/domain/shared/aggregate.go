package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps every persisted
// domain type shares. GORM fills the timestamps on save.
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity mints an identity with both timestamps set to now
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BaseAggregateRoot adds an optimistic-lock version on top of
// BaseEntity. Aggregates bump it on every state change; child
// entities owned by an aggregate embed BaseEntity alone.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// NewBaseAggregateRoot creates an aggregate identity at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// GetVersion returns the current optimistic-lock version
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion records that the aggregate changed state
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}
