package models

import "time"

// Goal represents a savings or spending-reduction goal (meta). Goals are
// never updated or deleted; the "current" goal for a user is the one with
// the latest start date.
type Goal struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	GoalAmount  float64   `gorm:"not null" json:"goal_amount"`
	Tipo        string    `json:"tipo"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName keeps the table name of the original schema.
func (Goal) TableName() string { return "metas" }
