package models

import (
	"time"
)

// Conference repräsentiert eine wissenschaftliche Konferenz.
type Conference struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"not null;index"`
	Location  *string    `json:"location"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Conference) TableName() string {
	return "conferences"
}
