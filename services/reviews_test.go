package services

import (
	"errors"
	"testing"

	"scholar-desk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newReviewFixture(t *testing.T) (*ArticleService, *ReviewService) {
	t.Helper()
	articles := newArticleService(t)
	return articles, NewReviewService(articles.DB, zap.NewNop(), articles.Resolver)
}

func TestCreateReviewResolvesReviewer(t *testing.T) {
	articles, reviews := newReviewFixture(t)
	article := mustCreateArticle(t, articles, "Paper Under Review", 0, "Jane Doe")

	row, err := reviews.CreateReview(ReviewInput{
		ArticleID:      article.ID,
		ReviewerName:   "Carol Jones",
		Affiliation:    "ETH",
		ExpertiseArea:  "Systems",
		ReviewDate:     "2026-01-15",
		Comments:       "Solid work",
		Recommendation: "Accept",
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol Jones", row.ReviewerName)
	require.NotNil(t, row.ReviewerAffiliation)
	assert.Equal(t, "ETH", *row.ReviewerAffiliation)
	assert.Equal(t, "Accept", row.Recommendation)

	// Zweites Review mit gleichem Namen (andere Schreibweise) legt keinen
	// zweiten Reviewer an
	_, err = reviews.CreateReview(ReviewInput{
		ArticleID:      article.ID,
		ReviewerName:   "carol jones",
		ReviewDate:     "2026-02-01",
		Recommendation: "Minor Revision",
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, reviews.DB.Model(&models.Reviewer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, reviews.DB.Model(&models.Review{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestListByArticleOrdersByDateDescending(t *testing.T) {
	articles, reviews := newReviewFixture(t)
	article := mustCreateArticle(t, articles, "Paper Under Review", 0, "Jane Doe")
	other := mustCreateArticle(t, articles, "Other Paper", 0, "Bob Smith")

	_, err := reviews.CreateReview(ReviewInput{
		ArticleID: article.ID, ReviewerName: "Carol Jones",
		ReviewDate: "2026-01-10", Recommendation: "Accept",
	})
	require.NoError(t, err)
	_, err = reviews.CreateReview(ReviewInput{
		ArticleID: article.ID, ReviewerName: "Dan Brown",
		ReviewDate: "2026-03-05", Recommendation: "Reject",
	})
	require.NoError(t, err)
	_, err = reviews.CreateReview(ReviewInput{
		ArticleID: other.ID, ReviewerName: "Carol Jones",
		ReviewDate: "2026-02-20", Recommendation: "Accept",
	})
	require.NoError(t, err)

	rows, err := reviews.ListByArticle(article.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Dan Brown", rows[0].ReviewerName)
	assert.Equal(t, "Carol Jones", rows[1].ReviewerName)

	// Unbekannte Artikel-ID ergibt eine leere Liste, keinen Fehler
	rows, err = reviews.ListByArticle(999)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListReviewsIncludesArticleTitle(t *testing.T) {
	articles, reviews := newReviewFixture(t)
	article := mustCreateArticle(t, articles, "Titled Paper", 0, "Jane Doe")

	_, err := reviews.CreateReview(ReviewInput{
		ArticleID: article.ID, ReviewerName: "Carol Jones",
		ReviewDate: "2026-01-10", Recommendation: "Accept",
	})
	require.NoError(t, err)

	rows, err := reviews.ListReviews()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].ArticleTitle)
	assert.Equal(t, "Titled Paper", *rows[0].ArticleTitle)
}

func TestUpdateReview(t *testing.T) {
	articles, reviews := newReviewFixture(t)
	article := mustCreateArticle(t, articles, "Paper Under Review", 0, "Jane Doe")

	row, err := reviews.CreateReview(ReviewInput{
		ArticleID: article.ID, ReviewerName: "Carol Jones",
		ReviewDate: "2026-01-10", Comments: "First pass", Recommendation: "Major Revision",
	})
	require.NoError(t, err)

	updated, err := reviews.UpdateReview(row.ID, "2026-04-01", "Much improved", "Accept")
	require.NoError(t, err)
	assert.Equal(t, "Accept", updated.Recommendation)
	require.NotNil(t, updated.Comments)
	assert.Equal(t, "Much improved", *updated.Comments)
	assert.Equal(t, 4, int(updated.ReviewDate.Month()))

	_, err = reviews.UpdateReview(999, "2026-04-01", "", "Accept")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDeleteReview(t *testing.T) {
	articles, reviews := newReviewFixture(t)
	article := mustCreateArticle(t, articles, "Paper Under Review", 0, "Jane Doe")

	row, err := reviews.CreateReview(ReviewInput{
		ArticleID: article.ID, ReviewerName: "Carol Jones",
		ReviewDate: "2026-01-10", Recommendation: "Accept",
	})
	require.NoError(t, err)

	require.NoError(t, reviews.DeleteReview(row.ID))
	err = reviews.DeleteReview(row.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
