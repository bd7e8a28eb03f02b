package sagalog

import (
	"time"

	"github.com/urbandrive/storefront/pkg/enums"
)

// Run is the persisted header of one checkout or cancellation execution.
// It exists so a crash mid-flow can be inspected and compensated by hand
// instead of leaving no trace at all.
type Run struct {
	ID            string              `gorm:"column:id;primaryKey"`
	Kind          enums.SagaKind      `gorm:"column:kind"`
	ReservationID string              `gorm:"column:reservation_id"`
	UserID        string              `gorm:"column:user_id"`
	Status        enums.SagaRunStatus `gorm:"column:status"`
	Detail        string              `gorm:"column:detail"`
	StartedAt     time.Time           `gorm:"column:started_at"`
	FinishedAt    *time.Time          `gorm:"column:finished_at"`
}

// TableName implements the gorm naming hook.
func (Run) TableName() string {
	return "saga_runs"
}

// Step is one recorded step outcome inside a run.
type Step struct {
	ID         string               `gorm:"column:id;primaryKey"`
	RunID      string               `gorm:"column:run_id"`
	Seq        int                  `gorm:"column:seq"`
	Name       string               `gorm:"column:name"`
	Status     enums.SagaStepStatus `gorm:"column:status"`
	Detail     string               `gorm:"column:detail"`
	RecordedAt time.Time            `gorm:"column:recorded_at"`
}

// TableName implements the gorm naming hook.
func (Step) TableName() string {
	return "saga_steps"
}
