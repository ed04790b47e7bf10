package services

import (
	"testing"
	"time"

	"scholar-desk/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB öffnet eine In-Memory-SQLite-Datenbank mit dem vollständigen
// Schema. MaxOpenConns(1) ist nötig, damit alle Queries dieselbe
// In-Memory-Verbindung sehen.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Article{}, &models.Author{}, &models.ArticleAuthor{},
		&models.Journal{}, &models.Conference{},
		&models.Review{}, &models.Reviewer{},
		&models.Citation{}, &models.UserAccount{},
	)
	require.NoError(t, err)
	return db
}

func newArticleService(t *testing.T) *ArticleService {
	t.Helper()
	log := zap.NewNop()
	return NewArticleService(newTestDB(t), log, NewEntityResolver(log))
}

// mustCreateArticle legt einen Artikel mit Einreichungsdatum `daysAgo`
// Tage in der Vergangenheit an.
func mustCreateArticle(t *testing.T, s *ArticleService, title string, daysAgo int, authorNames ...string) *models.Article {
	t.Helper()

	authors := make([]AuthorInput, 0, len(authorNames))
	for _, name := range authorNames {
		authors = append(authors, AuthorInput{Name: name})
	}
	article, err := s.CreateArticle(ArticleInput{
		Title:          title,
		SubmissionDate: time.Now().AddDate(0, 0, -daysAgo).Format(time.RFC3339),
		Authors:        authors,
	})
	require.NoError(t, err)
	return article
}
