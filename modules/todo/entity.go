package todo

import (
	"time"

	"gorm.io/gorm"
)

// Todo represents a single item on the personal TODO list.
// A non-null DeletedAt marks the item soft-deleted: it is excluded from
// every default read and can only be restored or hard-deleted.
type Todo struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description *string        `gorm:"type:text" json:"description"`
	IsCompleted bool           `gorm:"not null;default:false" json:"is_completed"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName returns the table name for the Todo model.
func (Todo) TableName() string {
	return "todos"
}

// TodoIdempotency maps a client-supplied idempotency key to the todo it
// produced. Rows are written once, alongside their todo, and never mutated
// or expired.
type TodoIdempotency struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	IdempotencyKey string    `gorm:"size:50;uniqueIndex;not null" json:"idempotency_key"`
	TodoID         uint      `gorm:"not null" json:"todo_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName returns the table name for the TodoIdempotency model.
func (TodoIdempotency) TableName() string {
	return "todo_idempotency_keys"
}
