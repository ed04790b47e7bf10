package services

import (
	"errors"
	"time"

	"scholar-desk/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Fehlermeldungen entsprechen wörtlich den API-Antworten; die Reihenfolge
// der Prüfungen in CreateCitation ist Teil des Vertrags (fail fast, die
// erste verletzte Regel gewinnt).
var (
	ErrMissingCitationIDs    = errors.New("Both citingArticleId and citedArticleId are required")
	ErrSelfCitation          = errors.New("An article cannot cite itself")
	ErrCitationExists        = errors.New("Citation already exists")
	ErrCitingArticleNotFound = errors.New("Citing article not found")
	ErrCitedArticleNotFound  = errors.New("Cited article not found")
)

// CitationService verwaltet den Zitationsgraphen: gerichtete Kanten
// zwischen Artikeln mit Create/Delete und den Richtungs-/Top-Abfragen.
type CitationService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewCitationService erstellt einen neuen CitationService.
func NewCitationService(db *gorm.DB, logger *zap.Logger) *CitationService {
	return &CitationService{DB: db, Logger: logger}
}

// OutgoingCitation ist eine Kante aus Sicht des zitierenden Artikels.
type OutgoingCitation struct {
	ID              uint      `json:"id"`
	CitingArticleID uint      `json:"citing_article_id"`
	CitedArticleID  uint      `json:"cited_article_id"`
	CitationDate    time.Time `json:"citation_date"`
	CitedTitle      string    `json:"cited_title"`
	CitedDOI        *string   `json:"cited_doi"`
	CitedDate       time.Time `json:"cited_date"`
}

// IncomingCitation ist eine Kante aus Sicht des zitierten Artikels.
type IncomingCitation struct {
	ID              uint      `json:"id"`
	CitingArticleID uint      `json:"citing_article_id"`
	CitedArticleID  uint      `json:"cited_article_id"`
	CitationDate    time.Time `json:"citation_date"`
	CitingTitle     string    `json:"citing_title"`
	CitingDOI       *string   `json:"citing_doi"`
	CitingDate      time.Time `json:"citing_date"`
}

// MostCitedArticle ist ein Eintrag der Top-Zitiert-Statistik.
type MostCitedArticle struct {
	ArticleID     uint    `json:"article_id"`
	Title         string  `json:"title"`
	DOI           *string `json:"doi"`
	CitationCount int64   `json:"citation_count"`
}

// ListOutgoing liefert alle Kanten, die vom Artikel ausgehen, absteigend
// nach Zitationsdatum. Unbekannte IDs ergeben eine leere Liste, kein 404.
func (s *CitationService) ListOutgoing(articleID uint) ([]OutgoingCitation, error) {
	rows := []OutgoingCitation{}
	err := s.DB.Table("citations").
		Select("citations.id, citations.citing_article_id, citations.cited_article_id, citations.citation_date, research_articles.title AS cited_title, research_articles.doi AS cited_doi, research_articles.submission_date AS cited_date").
		Joins("JOIN research_articles ON research_articles.id = citations.cited_article_id").
		Where("citations.citing_article_id = ?", articleID).
		Order("citations.citation_date DESC").
		Scan(&rows).Error
	return rows, err
}

// ListIncoming liefert alle Kanten, die auf den Artikel zeigen, absteigend
// nach Zitationsdatum.
func (s *CitationService) ListIncoming(articleID uint) ([]IncomingCitation, error) {
	rows := []IncomingCitation{}
	err := s.DB.Table("citations").
		Select("citations.id, citations.citing_article_id, citations.cited_article_id, citations.citation_date, research_articles.title AS citing_title, research_articles.doi AS citing_doi, research_articles.submission_date AS citing_date").
		Joins("JOIN research_articles ON research_articles.id = citations.citing_article_id").
		Where("citations.cited_article_id = ?", articleID).
		Order("citations.citation_date DESC").
		Scan(&rows).Error
	return rows, err
}

// CreateCitation legt eine Kante an. Prüfreihenfolge: IDs vorhanden,
// kein Selbstzitat, keine doppelte Kante, zitierender Artikel existiert,
// zitierter Artikel existiert. Die Existenzprüfung ist bewusst explizit
// und kein Foreign-Key-Fehler, damit die beiden 404-Fälle unterscheidbar
// bleiben. Ohne Datum gilt der aktuelle UTC-Kalendertag.
func (s *CitationService) CreateCitation(citingID, citedID uint, citationDate string) (*OutgoingCitation, error) {
	if citingID == 0 || citedID == 0 {
		return nil, ErrMissingCitationIDs
	}
	if citingID == citedID {
		return nil, ErrSelfCitation
	}

	var count int64
	if err := s.DB.Model(&models.Citation{}).
		Where("citing_article_id = ? AND cited_article_id = ?", citingID, citedID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCitationExists
	}

	if err := s.articleExists(citingID, ErrCitingArticleNotFound); err != nil {
		return nil, err
	}
	if err := s.articleExists(citedID, ErrCitedArticleNotFound); err != nil {
		return nil, err
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if citationDate != "" {
		parsed, err := ParseDate(citationDate)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	citation := models.Citation{
		CitingArticleID: citingID,
		CitedArticleID:  citedID,
		CitationDate:    date,
	}
	if err := s.DB.Create(&citation).Error; err != nil {
		return nil, err
	}

	s.Logger.Info("Citation created",
		zap.Uint("citing_article_id", citingID),
		zap.Uint("cited_article_id", citedID))

	var row OutgoingCitation
	err := s.DB.Table("citations").
		Select("citations.id, citations.citing_article_id, citations.cited_article_id, citations.citation_date, research_articles.title AS cited_title, research_articles.doi AS cited_doi, research_articles.submission_date AS cited_date").
		Joins("JOIN research_articles ON research_articles.id = citations.cited_article_id").
		Where("citations.id = ?", citation.ID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *CitationService) articleExists(id uint, notFound error) error {
	var count int64
	if err := s.DB.Model(&models.Article{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return nil
}

// DeleteCitation entfernt eine Kante.
func (s *CitationService) DeleteCitation(id uint) error {
	result := s.DB.Delete(&models.Citation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MostCited liefert die bis zu `limit` meistzitierten Artikel, absteigend
// nach Zitationszahl. Nur Artikel mit mindestens einer eingehenden Kante
// erscheinen; Gleichstände werden stabil über die Artikel-ID aufgelöst.
func (s *CitationService) MostCited(limit int) ([]MostCitedArticle, error) {
	if limit <= 0 {
		limit = 10
	}
	rows := []MostCitedArticle{}
	err := s.DB.Table("citations").
		Select("citations.cited_article_id AS article_id, research_articles.title, research_articles.doi, COUNT(citations.id) AS citation_count").
		Joins("JOIN research_articles ON research_articles.id = citations.cited_article_id").
		Group("citations.cited_article_id, research_articles.title, research_articles.doi").
		Order("citation_count DESC, article_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
