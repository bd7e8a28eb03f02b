package outbox

import (
	"time"

	"github.com/urbandrive/storefront/pkg/enums"
)

// Event is one staged row awaiting publication.
type Event struct {
	ID          string                `gorm:"column:id;primaryKey"`
	EventType   enums.OutboxEventType `gorm:"column:event_type"`
	AggregateID string                `gorm:"column:aggregate_id"`
	Payload     string                `gorm:"column:payload"`
	Attempts    int                   `gorm:"column:attempts"`
	PublishedAt *time.Time            `gorm:"column:published_at"`
	LastError   string                `gorm:"column:last_error"`
	CreatedAt   time.Time             `gorm:"column:created_at"`
}

// TableName implements the gorm naming hook.
func (Event) TableName() string {
	return "outbox_events"
}
