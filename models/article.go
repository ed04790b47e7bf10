package models

import (
	"time"
)

// Article repräsentiert einen Forschungsartikel und dessen Metadaten.
// Status ist hier bewusst ein freier String; die erlaubten Werte
// (Submitted, Under Review, ...) sind eine Angelegenheit der API-Schicht.
type Article struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title    string  `json:"title" gorm:"not null"`
	Abstract string  `json:"abstract" gorm:"type:text"`
	DOI      *string `json:"doi" gorm:"column:doi;index"`
	Keywords string  `json:"keywords"`

	SubmissionDate time.Time `json:"submission_date" gorm:"index"`
	Status         string    `json:"status" gorm:"index;default:'Submitted'"`

	// Optionale Zuordnung zu Journal oder Konferenz
	JournalID    *uint `json:"journal_id" gorm:"index"`
	ConferenceID *uint `json:"conference_id" gorm:"index"`
}

// TableName gibt explizit den Tabellennamen an.
func (Article) TableName() string {
	return "research_articles"
}
