package services

import (
	"sort"
	"strings"
	"time"

	"scholar-desk/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ArticleService bündelt Listen-, Such-, Detail- und Schreiboperationen
// für Artikel. Mehrtabellen-Sichten werden mit einer Query pro Relation
// geladen und in Go zusammengesetzt; das hält die Queries portabel.
type ArticleService struct {
	DB       *gorm.DB
	Logger   *zap.Logger
	Resolver *EntityResolver
}

// NewArticleService erstellt einen neuen ArticleService.
func NewArticleService(db *gorm.DB, logger *zap.Logger, resolver *EntityResolver) *ArticleService {
	return &ArticleService{DB: db, Logger: logger, Resolver: resolver}
}

// AuthorInput ist ein Autoren-Eintrag im Create-Payload.
type AuthorInput struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
	ORCID       string `json:"orcid"`
}

// ArticleInput ist der Payload für das Anlegen/Ersetzen eines Artikels.
type ArticleInput struct {
	Title          string        `json:"title"`
	Abstract       string        `json:"abstract"`
	DOI            string        `json:"doi"`
	Keywords       string        `json:"keywords"`
	SubmissionDate string        `json:"submissionDate"`
	Status         string        `json:"status"`
	JournalID      *uint         `json:"journalId"`
	ConferenceID   *uint         `json:"conferenceId"`
	Authors        []AuthorInput `json:"authors"`
}

// ArticleSummary ist die Listen-Projektion: denormalisierte Namen plus
// alphabetisch sortierte, deduplizierte Autorenliste als ein String.
type ArticleSummary struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Abstract       string    `json:"abstract"`
	DOI            *string   `json:"doi"`
	Keywords       string    `json:"keywords"`
	SubmissionDate time.Time `json:"submission_date"`
	Status         string    `json:"status"`
	JournalID      *uint     `json:"journal_id"`
	ConferenceID   *uint     `json:"conference_id"`
	JournalName    *string   `json:"journal_name"`
	ConferenceName *string   `json:"conference_name"`
	Authors        string    `json:"authors"`
}

// AuthorRef ist ein Autoren-Eintrag in der Detail-Sicht.
type AuthorRef struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Affiliation *string `json:"affiliation"`
	ORCID       *string `json:"orcid"`
}

// ArticleDetail ist die vollständige Artikel-Sicht inklusive Journal- und
// Konferenzfeldern, berechnetem Alter, Autoren und Reviews.
type ArticleDetail struct {
	models.Article

	JournalName    *string    `json:"journal_name"`
	Publisher      *string    `json:"publisher"`
	ImpactFactor   *float64   `json:"impact_factor"`
	ConferenceName *string    `json:"conference_name"`
	Location       *string    `json:"location"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`

	// ArticleAgeDays wird bei jedem Read neu berechnet, nicht gespeichert.
	ArticleAgeDays int `json:"article_age_days"`

	Authors []AuthorRef `json:"authors"`
	Reviews []ReviewRow `json:"reviews"`
}

// ListArticles liefert alle Artikel als Summary-Projektion, absteigend
// nach Einreichungsdatum.
func (s *ArticleService) ListArticles() ([]ArticleSummary, error) {
	var articles []models.Article
	if err := s.DB.Order("submission_date DESC").Find(&articles).Error; err != nil {
		return nil, err
	}
	return s.summarize(articles)
}

// SearchArticles sucht case-insensitiv als Substring über Titel, Keywords,
// Abstract, Autorennamen und Journalnamen. Trotz Join-Fan-Out wird pro
// Artikel-ID nur ein Treffer geliefert.
func (s *ArticleService) SearchArticles(term string) ([]ArticleSummary, error) {
	pattern := "%" + strings.ToLower(term) + "%"

	var ids []uint
	err := s.DB.Table("research_articles").
		Joins("LEFT JOIN article_authors ON article_authors.article_id = research_articles.id").
		Joins("LEFT JOIN authors ON authors.id = article_authors.author_id").
		Joins("LEFT JOIN journals ON journals.id = research_articles.journal_id").
		Where("LOWER(research_articles.title) LIKE ? OR LOWER(research_articles.keywords) LIKE ? OR LOWER(research_articles.abstract) LIKE ? OR LOWER(authors.name) LIKE ? OR LOWER(journals.name) LIKE ?",
			pattern, pattern, pattern, pattern, pattern).
		Distinct().
		Pluck("research_articles.id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []ArticleSummary{}, nil
	}

	var articles []models.Article
	if err := s.DB.Where("id IN ?", ids).Order("submission_date DESC").Find(&articles).Error; err != nil {
		return nil, err
	}
	return s.summarize(articles)
}

// summarize reichert geladene Artikel um Journal-/Konferenznamen und den
// Autoren-String an (sortiert, dedupliziert, komma-separiert).
func (s *ArticleService) summarize(articles []models.Article) ([]ArticleSummary, error) {
	if len(articles) == 0 {
		return []ArticleSummary{}, nil
	}

	ids := make([]uint, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}

	journalNames, conferenceNames, err := s.lookupVenueNames(articles)
	if err != nil {
		return nil, err
	}

	type authorRow struct {
		ArticleID uint
		Name      string
	}
	var rows []authorRow
	err = s.DB.Table("article_authors").
		Select("article_authors.article_id, authors.name").
		Joins("JOIN authors ON authors.id = article_authors.author_id").
		Where("article_authors.article_id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	namesByArticle := make(map[uint][]string)
	seen := make(map[uint]map[string]bool)
	for _, row := range rows {
		if seen[row.ArticleID] == nil {
			seen[row.ArticleID] = make(map[string]bool)
		}
		if seen[row.ArticleID][row.Name] {
			continue
		}
		seen[row.ArticleID][row.Name] = true
		namesByArticle[row.ArticleID] = append(namesByArticle[row.ArticleID], row.Name)
	}

	summaries := make([]ArticleSummary, 0, len(articles))
	for _, a := range articles {
		names := namesByArticle[a.ID]
		sort.Strings(names)
		summary := ArticleSummary{
			ID:             a.ID,
			Title:          a.Title,
			Abstract:       a.Abstract,
			DOI:            a.DOI,
			Keywords:       a.Keywords,
			SubmissionDate: a.SubmissionDate,
			Status:         a.Status,
			JournalID:      a.JournalID,
			ConferenceID:   a.ConferenceID,
			Authors:        strings.Join(names, ", "),
		}
		if a.JournalID != nil {
			if name, ok := journalNames[*a.JournalID]; ok {
				summary.JournalName = &name
			}
		}
		if a.ConferenceID != nil {
			if name, ok := conferenceNames[*a.ConferenceID]; ok {
				summary.ConferenceName = &name
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *ArticleService) lookupVenueNames(articles []models.Article) (map[uint]string, map[uint]string, error) {
	journalIDs := make([]uint, 0)
	conferenceIDs := make([]uint, 0)
	for _, a := range articles {
		if a.JournalID != nil {
			journalIDs = append(journalIDs, *a.JournalID)
		}
		if a.ConferenceID != nil {
			conferenceIDs = append(conferenceIDs, *a.ConferenceID)
		}
	}

	journalNames := make(map[uint]string)
	if len(journalIDs) > 0 {
		var journals []models.Journal
		if err := s.DB.Where("id IN ?", journalIDs).Find(&journals).Error; err != nil {
			return nil, nil, err
		}
		for _, j := range journals {
			journalNames[j.ID] = j.Name
		}
	}

	conferenceNames := make(map[uint]string)
	if len(conferenceIDs) > 0 {
		var conferences []models.Conference
		if err := s.DB.Where("id IN ?", conferenceIDs).Find(&conferences).Error; err != nil {
			return nil, nil, err
		}
		for _, c := range conferences {
			conferenceNames[c.ID] = c.Name
		}
	}
	return journalNames, conferenceNames, nil
}

// GetArticleDetail baut die vollständige Artikel-Sicht zusammen. Einziger
// Fehlerfall neben Store-Fehlern: gorm.ErrRecordNotFound bei unbekannter ID.
func (s *ArticleService) GetArticleDetail(id uint) (*ArticleDetail, error) {
	var article models.Article
	if err := s.DB.First(&article, id).Error; err != nil {
		return nil, err
	}

	detail := &ArticleDetail{
		Article:        article,
		ArticleAgeDays: int(time.Since(article.SubmissionDate).Hours() / 24),
		Authors:        []AuthorRef{},
		Reviews:        []ReviewRow{},
	}

	if article.JournalID != nil {
		var journal models.Journal
		if err := s.DB.First(&journal, *article.JournalID).Error; err == nil {
			detail.JournalName = &journal.Name
			detail.Publisher = journal.Publisher
			detail.ImpactFactor = journal.ImpactFactor
		}
	}
	if article.ConferenceID != nil {
		var conference models.Conference
		if err := s.DB.First(&conference, *article.ConferenceID).Error; err == nil {
			detail.ConferenceName = &conference.Name
			detail.Location = conference.Location
			detail.StartDate = conference.StartDate
			detail.EndDate = conference.EndDate
		}
	}

	err := s.DB.Table("article_authors").
		Select("authors.id, authors.name, authors.affiliation, authors.orcid").
		Joins("JOIN authors ON authors.id = article_authors.author_id").
		Where("article_authors.article_id = ?", id).
		Order("article_authors.id").
		Scan(&detail.Authors).Error
	if err != nil {
		return nil, err
	}

	err = s.DB.Table("reviews").
		Select("reviews.id, reviews.article_id, reviews.reviewer_id, reviews.review_date, reviews.comments, reviews.recommendation, reviewers.name AS reviewer_name, reviewers.affiliation AS reviewer_affiliation, reviewers.expertise_area").
		Joins("JOIN reviewers ON reviewers.id = reviews.reviewer_id").
		Where("reviews.article_id = ?", id).
		Order("reviews.review_date DESC").
		Scan(&detail.Reviews).Error
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// CreateArticle legt den Artikel samt Autoren-Verknüpfungen in einer
// Transaktion an: scheitert ein Schritt, bleibt kein halber Artikel zurück.
func (s *ArticleService) CreateArticle(in ArticleInput) (*models.Article, error) {
	article := models.Article{
		Title:        strings.TrimSpace(in.Title),
		Abstract:     in.Abstract,
		DOI:          optional(in.DOI),
		Keywords:     in.Keywords,
		Status:       in.Status,
		JournalID:    in.JournalID,
		ConferenceID: in.ConferenceID,
	}
	if article.Status == "" {
		article.Status = "Submitted"
	}
	article.SubmissionDate = time.Now()
	if in.SubmissionDate != "" {
		date, err := ParseDate(in.SubmissionDate)
		if err != nil {
			return nil, err
		}
		article.SubmissionDate = date
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&article).Error; err != nil {
			return err
		}
		linked := make(map[uint]bool)
		for _, a := range in.Authors {
			authorID, err := s.Resolver.ResolveAuthor(tx, a.Name, a.Affiliation, a.ORCID)
			if err != nil {
				return err
			}
			if linked[authorID] {
				continue
			}
			linked[authorID] = true
			link := models.ArticleAuthor{ArticleID: article.ID, AuthorID: authorID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Article created",
		zap.Uint("article_id", article.ID),
		zap.String("title", article.Title),
		zap.Int("authors", len(in.Authors)))
	return &article, nil
}

// UpdateArticle ersetzt alle Felder des Artikels (Full Replace, inklusive
// Nullen der Venue-Zuordnungen).
func (s *ArticleService) UpdateArticle(id uint, in ArticleInput) (*models.Article, error) {
	var article models.Article
	if err := s.DB.First(&article, id).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":         in.Title,
		"abstract":      in.Abstract,
		"doi":           optional(in.DOI),
		"keywords":      in.Keywords,
		"status":        in.Status,
		"journal_id":    in.JournalID,
		"conference_id": in.ConferenceID,
	}
	if in.SubmissionDate != "" {
		date, err := ParseDate(in.SubmissionDate)
		if err != nil {
			return nil, err
		}
		updates["submission_date"] = date
	}

	if err := s.DB.Model(&article).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := s.DB.First(&article, id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// DeleteArticle entfernt den Artikel und kaskadiert auf Autoren-Links,
// Reviews und Zitationskanten (beide Richtungen) in einer Transaktion.
// Autoren selbst bleiben bestehen, sie können anderen Artikeln gehören.
func (s *ArticleService) DeleteArticle(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var article models.Article
		if err := tx.First(&article, id).Error; err != nil {
			return err
		}
		if err := tx.Where("citing_article_id = ? OR cited_article_id = ?", id, id).Delete(&models.Citation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.ArticleAuthor{}).Error; err != nil {
			return err
		}
		return tx.Delete(&article).Error
	})
}

// ParseDate akzeptiert RFC3339-Zeitstempel und reine Datumswerte (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
