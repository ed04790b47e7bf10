package models

// ArticleAuthor verknüpft Artikel und Autoren (m:n). Das Unique-Paar
// verhindert doppelte Verknüpfungen desselben Autors mit einem Artikel.
type ArticleAuthor struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ArticleID uint `json:"article_id" gorm:"index:idx_article_authors_pair,unique;not null"`
	AuthorID  uint `json:"author_id" gorm:"index:idx_article_authors_pair,unique;not null"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (ArticleAuthor) TableName() string {
	return "article_authors"
}
