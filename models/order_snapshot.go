package models

import (
	"time"
)

// OrderSnapshot is the single-row-per-key table backing the SQL order store.
// Payload holds the whole order collection as a JSON array.
type OrderSnapshot struct {
	Key       string    `gorm:"primaryKey;size:128" json:"key"`
	Payload   string    `gorm:"type:text;not null" json:"payload"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the OrderSnapshot model
func (OrderSnapshot) TableName() string {
	return "order_snapshots"
}
