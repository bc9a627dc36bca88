package models

import "time"

// Appointment is a booking on the single shared calendar. Rows are never
// deleted; cancellation flips Status.
type Appointment struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	CustomerName string `gorm:"size:200;not null" json:"customer_name"`
	Phone        string `gorm:"size:40" json:"phone"`

	StartTime   time.Time `gorm:"type:timestamptz;not null;index" json:"start_time"`
	EndTime     time.Time `gorm:"type:timestamptz;not null" json:"end_time"`
	DurationMin int       `gorm:"not null" json:"duration_min"`

	Status string `gorm:"size:20;not null;default:'confirmed';index" json:"status"`

	Notes       string     `gorm:"type:text" json:"notes"`
	CancelledAt *time.Time `gorm:"type:timestamptz" json:"cancelled_at,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz" json:"updated_at"`
}
