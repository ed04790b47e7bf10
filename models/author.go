package models

import (
	"time"
)

// Author repräsentiert eine Autorin oder einen Autor. Identität für die
// Deduplizierung ist der getrimmte Name (case-insensitive), nicht die ID:
// zwei Personen mit identischem Namen kollidieren absichtlich.
type Author struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string  `json:"name" gorm:"not null;index"`
	Affiliation *string `json:"affiliation"`
	ORCID       *string `json:"orcid" gorm:"column:orcid"`
	UserID      *uint   `json:"user_id"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Author) TableName() string {
	return "authors"
}
