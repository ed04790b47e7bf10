package models

import (
	"time"
)

// Reviewer repräsentiert eine Gutachterin oder einen Gutachter. Gleiche
// Namensregel wie bei Author; Affiliation und ExpertiseArea werden bei
// erneuter Einreichung aktualisiert, sofern ein neuer Wert mitkommt.
type Reviewer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name          string  `json:"name" gorm:"not null;index"`
	Affiliation   *string `json:"affiliation"`
	ExpertiseArea *string `json:"expertise_area"`
	UserID        *uint   `json:"user_id"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Reviewer) TableName() string {
	return "reviewers"
}
