package models

import (
	"time"
)

// Citation modelliert eine gerichtete Kante: der zitierende Artikel
// verweist auf den zitierten. Das Unique-Paar verhindert doppelte Kanten;
// Selbstzitate werden in der Service-Schicht abgewiesen.
type Citation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CitingArticleID uint `json:"citing_article_id" gorm:"index:idx_citations_edge,unique;not null"`
	CitedArticleID  uint `json:"cited_article_id" gorm:"index:idx_citations_edge,unique;not null"`

	CitationDate time.Time `json:"citation_date" gorm:"index"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Citation) TableName() string {
	return "citations"
}
