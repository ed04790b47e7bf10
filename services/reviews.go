package services

import (
	"time"

	"scholar-desk/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReviewService verwaltet Reviews. Die Reviewer-Identität läuft über den
// EntityResolver; Anlegen von Reviewer und Review passiert atomar.
type ReviewService struct {
	DB       *gorm.DB
	Logger   *zap.Logger
	Resolver *EntityResolver
}

// NewReviewService erstellt einen neuen ReviewService.
func NewReviewService(db *gorm.DB, logger *zap.Logger, resolver *EntityResolver) *ReviewService {
	return &ReviewService{DB: db, Logger: logger, Resolver: resolver}
}

// ReviewInput ist der Payload für das Anlegen eines Reviews.
type ReviewInput struct {
	ArticleID      uint   `json:"articleId"`
	ReviewerName   string `json:"reviewerName"`
	Affiliation    string `json:"affiliation"`
	ExpertiseArea  string `json:"expertiseArea"`
	ReviewDate     string `json:"reviewDate"`
	Comments       string `json:"comments"`
	Recommendation string `json:"recommendation"`
}

// ReviewRow ist die Listen-/Detail-Projektion eines Reviews mit den
// dazugejointen Reviewer-Feldern und optional dem Artikeltitel.
type ReviewRow struct {
	ID                  uint      `json:"id"`
	ArticleID           uint      `json:"article_id"`
	ReviewerID          uint      `json:"reviewer_id"`
	ReviewDate          time.Time `json:"review_date"`
	Comments            *string   `json:"comments"`
	Recommendation      string    `json:"recommendation"`
	ReviewerName        string    `json:"reviewer_name"`
	ReviewerAffiliation *string   `json:"reviewer_affiliation"`
	ExpertiseArea       *string   `json:"expertise_area,omitempty"`
	ArticleTitle        *string   `json:"article_title,omitempty"`
}

const reviewColumns = "reviews.id, reviews.article_id, reviews.reviewer_id, reviews.review_date, reviews.comments, reviews.recommendation, reviewers.name AS reviewer_name, reviewers.affiliation AS reviewer_affiliation, reviewers.expertise_area"

// ListReviews liefert alle Reviews mit Reviewer-Name und Artikeltitel,
// absteigend nach Review-Datum.
func (s *ReviewService) ListReviews() ([]ReviewRow, error) {
	rows := []ReviewRow{}
	err := s.DB.Table("reviews").
		Select(reviewColumns + ", research_articles.title AS article_title").
		Joins("JOIN reviewers ON reviewers.id = reviews.reviewer_id").
		Joins("LEFT JOIN research_articles ON research_articles.id = reviews.article_id").
		Order("reviews.review_date DESC").
		Scan(&rows).Error
	return rows, err
}

// ListByArticle liefert die Reviews eines Artikels, absteigend nach
// Review-Datum. Unbekannte Artikel-IDs ergeben eine leere Liste.
func (s *ReviewService) ListByArticle(articleID uint) ([]ReviewRow, error) {
	rows := []ReviewRow{}
	err := s.DB.Table("reviews").
		Select(reviewColumns).
		Joins("JOIN reviewers ON reviewers.id = reviews.reviewer_id").
		Where("reviews.article_id = ?", articleID).
		Order("reviews.review_date DESC").
		Scan(&rows).Error
	return rows, err
}

// CreateReview löst den Reviewer per Name auf (Insert oder coalescendes
// Update) und legt das Review an; beides in einer Transaktion.
func (s *ReviewService) CreateReview(in ReviewInput) (*ReviewRow, error) {
	reviewDate, err := ParseDate(in.ReviewDate)
	if err != nil {
		return nil, err
	}

	var review models.Review
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		reviewerID, err := s.Resolver.ResolveReviewer(tx, in.ReviewerName, in.Affiliation, in.ExpertiseArea)
		if err != nil {
			return err
		}
		review = models.Review{
			ArticleID:      in.ArticleID,
			ReviewerID:     reviewerID,
			ReviewDate:     reviewDate,
			Comments:       optional(in.Comments),
			Recommendation: in.Recommendation,
		}
		return tx.Create(&review).Error
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Review created",
		zap.Uint("review_id", review.ID),
		zap.Uint("article_id", review.ArticleID),
		zap.Uint("reviewer_id", review.ReviewerID))
	return s.getRow(review.ID)
}

// UpdateReview ersetzt Datum, Kommentar und Empfehlung eines Reviews.
func (s *ReviewService) UpdateReview(id uint, reviewDate, comments, recommendation string) (*ReviewRow, error) {
	var review models.Review
	if err := s.DB.First(&review, id).Error; err != nil {
		return nil, err
	}

	date, err := ParseDate(reviewDate)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"review_date":    date,
		"comments":       optional(comments),
		"recommendation": recommendation,
	}
	if err := s.DB.Model(&review).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.getRow(id)
}

// DeleteReview entfernt ein Review.
func (s *ReviewService) DeleteReview(id uint) error {
	result := s.DB.Delete(&models.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *ReviewService) getRow(id uint) (*ReviewRow, error) {
	var row ReviewRow
	err := s.DB.Table("reviews").
		Select(reviewColumns).
		Joins("JOIN reviewers ON reviewers.id = reviews.reviewer_id").
		Where("reviews.id = ?", id).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
