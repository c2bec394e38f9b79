package models

import (
	"encoding/json"
	"time"
)

// User represents an account owner. Besides a display name, the row carries
// the serialized classification reference used to auto-classify new expenses.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Reference string    `gorm:"type:text" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Expenses []Expense `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
	Goals    []Goal    `gorm:"foreignKey:UserID" json:"goals,omitempty"`
}

// TableName keeps the table name of the original schema.
func (User) TableName() string { return "usuarios" }

// ClassificationReference is a per-user pair of exemplar charge-name lists.
// A new expense whose charge name exactly matches an entry is forced to the
// corresponding utility at insertion time.
type ClassificationReference struct {
	Aligned []string `json:"aligned"`
	Regret  []string `json:"regret"`
}

// Contains reports whether name appears in the given list by exact match.
func contains(list []string, name string) bool {
	for _, entry := range list {
		if entry == name {
			return true
		}
	}
	return false
}

// Classify returns the utility forced by the reference for the given charge
// name, or ok=false when the name matches neither list.
func (r ClassificationReference) Classify(chargeName string) (Utility, bool) {
	if contains(r.Aligned, chargeName) {
		return UtilityAligned, true
	}
	if contains(r.Regret, chargeName) {
		return UtilityRegret, true
	}
	return UtilityNotAssigned, false
}

// ParseReference decodes the user's stored classification reference.
// An empty column yields an empty reference, not an error.
func (u *User) ParseReference() (ClassificationReference, error) {
	var ref ClassificationReference
	if u.Reference == "" {
		return ref, nil
	}
	if err := json.Unmarshal([]byte(u.Reference), &ref); err != nil {
		return ClassificationReference{}, err
	}
	return ref, nil
}
