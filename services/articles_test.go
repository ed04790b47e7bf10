package services

import (
	"errors"
	"testing"
	"time"

	"scholar-desk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestCreateArticleLinksAuthors(t *testing.T) {
	s := newArticleService(t)

	article := mustCreateArticle(t, s, "Query Optimization Revisited", 0, "Jane Doe", "Bob Smith")
	assert.Equal(t, "Submitted", article.Status)

	var authorCount, linkCount int64
	require.NoError(t, s.DB.Model(&models.Author{}).Count(&authorCount).Error)
	require.NoError(t, s.DB.Model(&models.ArticleAuthor{}).Count(&linkCount).Error)
	assert.Equal(t, int64(2), authorCount)
	assert.Equal(t, int64(2), linkCount)
}

func TestCreateArticleDeduplicatesAuthorsWithinRequest(t *testing.T) {
	s := newArticleService(t)

	// Derselbe Name zweimal im Payload ergibt genau einen Link
	mustCreateArticle(t, s, "Self-Similar Streams", 0, "Jane Doe", "jane doe")

	var authorCount, linkCount int64
	require.NoError(t, s.DB.Model(&models.Author{}).Count(&authorCount).Error)
	require.NoError(t, s.DB.Model(&models.ArticleAuthor{}).Count(&linkCount).Error)
	assert.Equal(t, int64(1), authorCount)
	assert.Equal(t, int64(1), linkCount)
}

func TestCreateArticleReusesAuthorsAcrossRequests(t *testing.T) {
	s := newArticleService(t)

	first := mustCreateArticle(t, s, "Paper One", 0, "Jane Doe")
	second := mustCreateArticle(t, s, "Paper Two", 0, "JANE DOE")
	require.NotEqual(t, first.ID, second.ID)

	var authorCount int64
	require.NoError(t, s.DB.Model(&models.Author{}).Count(&authorCount).Error)
	assert.Equal(t, int64(1), authorCount)
}

func TestGetArticleDetailComputesAge(t *testing.T) {
	s := newArticleService(t)

	fresh := mustCreateArticle(t, s, "Fresh Paper", 0, "Jane Doe")
	aged := mustCreateArticle(t, s, "Aged Paper", 5, "Jane Doe")

	detail, err := s.GetArticleDetail(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, detail.ArticleAgeDays)

	detail, err = s.GetArticleDetail(aged.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, detail.ArticleAgeDays)
}

func TestGetArticleDetailIncludesVenueAndAuthors(t *testing.T) {
	s := newArticleService(t)

	publisher := "ACM"
	journal := models.Journal{Name: "TODS", Publisher: &publisher}
	require.NoError(t, s.DB.Create(&journal).Error)

	article, err := s.CreateArticle(ArticleInput{
		Title:     "Join Ordering at Scale",
		JournalID: &journal.ID,
		Authors: []AuthorInput{
			{Name: "Jane Doe", Affiliation: "MIT"},
			{Name: "Bob Smith"},
		},
	})
	require.NoError(t, err)

	detail, err := s.GetArticleDetail(article.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.JournalName)
	assert.Equal(t, "TODS", *detail.JournalName)
	require.NotNil(t, detail.Publisher)
	assert.Equal(t, "ACM", *detail.Publisher)

	// Autoren in Verknüpfungsreihenfolge
	require.Len(t, detail.Authors, 2)
	assert.Equal(t, "Jane Doe", detail.Authors[0].Name)
	assert.Equal(t, "Bob Smith", detail.Authors[1].Name)
	assert.Empty(t, detail.Reviews)
}

func TestGetArticleDetailNotFound(t *testing.T) {
	s := newArticleService(t)
	_, err := s.GetArticleDetail(999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestListArticlesSummaries(t *testing.T) {
	s := newArticleService(t)

	mustCreateArticle(t, s, "Older Paper", 10, "Zoe Young", "Adam Abel")
	mustCreateArticle(t, s, "Newer Paper", 2, "Jane Doe")

	summaries, err := s.ListArticles()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Neuestes Einreichungsdatum zuerst
	assert.Equal(t, "Newer Paper", summaries[0].Title)
	assert.Equal(t, "Older Paper", summaries[1].Title)

	// Autoren alphabetisch sortiert und komma-separiert
	assert.Equal(t, "Jane Doe", summaries[0].Authors)
	assert.Equal(t, "Adam Abel, Zoe Young", summaries[1].Authors)
}

func TestSearchArticles(t *testing.T) {
	s := newArticleService(t)

	journal := models.Journal{Name: "Nature Physics"}
	require.NoError(t, s.DB.Create(&journal).Error)

	_, err := s.CreateArticle(ArticleInput{
		Title:     "Quantum Entanglement in Practice",
		Keywords:  "quantum, entanglement",
		JournalID: &journal.ID,
		Authors:   []AuthorInput{{Name: "Alice Zhang"}, {Name: "Alan Zhukov"}},
	})
	require.NoError(t, err)
	mustCreateArticle(t, s, "Classical Mechanics Notes", 0, "Bob Smith")

	// Titel, case-insensitiv
	hits, err := s.SearchArticles("QUANTUM")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Quantum Entanglement in Practice", hits[0].Title)

	// Autorname
	hits, err = s.SearchArticles("zhang")
	require.NoError(t, err)
	require.Len(t, hits, 1)

	// Journalname
	hits, err = s.SearchArticles("nature")
	require.NoError(t, err)
	require.Len(t, hits, 1)

	// Zwei passende Autoren desselben Artikels ergeben trotzdem einen Treffer
	hits, err = s.SearchArticles("zh")
	require.NoError(t, err)
	require.Len(t, hits, 1)

	hits, err = s.SearchArticles("does-not-exist")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestUpdateArticleFullReplace(t *testing.T) {
	s := newArticleService(t)

	journal := models.Journal{Name: "TODS"}
	require.NoError(t, s.DB.Create(&journal).Error)

	article, err := s.CreateArticle(ArticleInput{
		Title:     "Draft Title",
		Abstract:  "Old abstract",
		DOI:       "10.1/old",
		JournalID: &journal.ID,
		Authors:   []AuthorInput{{Name: "Jane Doe"}},
	})
	require.NoError(t, err)

	updated, err := s.UpdateArticle(article.ID, ArticleInput{
		Title:    "Final Title",
		Abstract: "New abstract",
		Status:   "Accepted",
		// JournalID fehlt im Payload und wird genullt (Full Replace)
	})
	require.NoError(t, err)
	assert.Equal(t, "Final Title", updated.Title)
	assert.Equal(t, "Accepted", updated.Status)
	assert.Nil(t, updated.JournalID)
	assert.Nil(t, updated.DOI)
}

func TestUpdateArticleNotFound(t *testing.T) {
	s := newArticleService(t)
	_, err := s.UpdateArticle(999, ArticleInput{Title: "Anything"})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDeleteArticleCascades(t *testing.T) {
	s := newArticleService(t)
	log := zap.NewNop()
	reviews := NewReviewService(s.DB, log, s.Resolver)
	citations := NewCitationService(s.DB, log)

	target := mustCreateArticle(t, s, "Doomed Paper", 0, "Jane Doe")
	other := mustCreateArticle(t, s, "Surviving Paper", 0, "Bob Smith")

	_, err := reviews.CreateReview(ReviewInput{
		ArticleID:      target.ID,
		ReviewerName:   "Carol Jones",
		ReviewDate:     "2026-01-15",
		Recommendation: "Accept",
	})
	require.NoError(t, err)
	_, err = citations.CreateCitation(target.ID, other.ID, "")
	require.NoError(t, err)
	_, err = citations.CreateCitation(other.ID, target.ID, "")
	require.NoError(t, err)

	require.NoError(t, s.DeleteArticle(target.ID))

	var count int64
	require.NoError(t, s.DB.Model(&models.Citation{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, s.DB.Model(&models.Review{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, s.DB.Model(&models.ArticleAuthor{}).Where("article_id = ?", target.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// Autoren überleben die Artikel-Löschung
	require.NoError(t, s.DB.Model(&models.Author{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	_, err = s.GetArticleDetail(target.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, err = s.GetArticleDetail(other.ID)
	assert.NoError(t, err)
}

func TestDeleteArticleNotFound(t *testing.T) {
	s := newArticleService(t)
	err := s.DeleteArticle(999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestParseDate(t *testing.T) {
	ts, err := ParseDate("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), ts)

	ts, err = ParseDate("2026-03-01T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, ts.Hour())

	_, err = ParseDate("01.03.2026")
	assert.Error(t, err)
}
