package models

import "time"

// Utility classifies an expense by perceived usefulness.
type Utility string

const (
	UtilityAligned     Utility = "aligned"
	UtilityRegret      Utility = "regret"
	UtilityNotAssigned Utility = "not assigned"
)

// Valid reports whether u is one of the three enumerated states.
func (u Utility) Valid() bool {
	switch u {
	case UtilityAligned, UtilityRegret, UtilityNotAssigned:
		return true
	}
	return false
}

// Assigned reports whether u is a state a client may set explicitly.
func (u Utility) Assigned() bool {
	return u == UtilityAligned || u == UtilityRegret
}

// Expense represents a recorded charge (gasto). Expenses are never deleted;
// the only mutation after insertion is reclassifying the utility.
type Expense struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	ChargeName string    `gorm:"not null" json:"chargeName"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Timestamp  time.Time `gorm:"not null" json:"timestamp"`
	Location   string    `json:"location"`
	Category   string    `json:"category"`
	Utility    Utility   `gorm:"not null;default:'not assigned'" json:"utility"`
}

// TableName keeps the table name of the original schema.
func (Expense) TableName() string { return "gastos" }
