package models

import (
	"time"
)

// Review repräsentiert ein Gutachten zu einem Artikel. Recommendation ist
// im Store ein freier String (die UI kennt vier Werte, der Store nicht).
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ArticleID  uint `json:"article_id" gorm:"index;not null"`
	ReviewerID uint `json:"reviewer_id" gorm:"index;not null"`

	ReviewDate     time.Time `json:"review_date" gorm:"index"`
	Comments       *string   `json:"comments" gorm:"type:text"`
	Recommendation string    `json:"recommendation"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Review) TableName() string {
	return "reviews"
}
