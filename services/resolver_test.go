package services

import (
	"testing"

	"scholar-desk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolveAuthorDeduplicatesByName(t *testing.T) {
	db := newTestDB(t)
	resolver := NewEntityResolver(zap.NewNop())

	first, err := resolver.ResolveAuthor(db, "  Jane Doe  ", "MIT", "0000-0001")
	require.NoError(t, err)

	// Groß-/Kleinschreibung und Whitespace dürfen keine zweite Zeile erzeugen
	second, err := resolver.ResolveAuthor(db, "jane doe", "", "")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	third, err := resolver.ResolveAuthor(db, "JANE DOE", "Stanford", "")
	require.NoError(t, err)
	assert.Equal(t, first, third)

	var count int64
	require.NoError(t, db.Model(&models.Author{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveAuthorStoresTrimmedName(t *testing.T) {
	db := newTestDB(t)
	resolver := NewEntityResolver(zap.NewNop())

	id, err := resolver.ResolveAuthor(db, "  Ada Lovelace  ", "", "")
	require.NoError(t, err)

	var author models.Author
	require.NoError(t, db.First(&author, id).Error)
	assert.Equal(t, "Ada Lovelace", author.Name)
	assert.Nil(t, author.Affiliation)
	assert.Nil(t, author.ORCID)
}

func TestResolveAuthorDoesNotUpdateExisting(t *testing.T) {
	db := newTestDB(t)
	resolver := NewEntityResolver(zap.NewNop())

	id, err := resolver.ResolveAuthor(db, "Jane Doe", "MIT", "0000-0001")
	require.NoError(t, err)

	// Ein zweiter Resolve mit neuen Werten lässt den Datensatz unverändert
	_, err = resolver.ResolveAuthor(db, "Jane Doe", "Stanford", "0000-0002")
	require.NoError(t, err)

	var author models.Author
	require.NoError(t, db.First(&author, id).Error)
	require.NotNil(t, author.Affiliation)
	assert.Equal(t, "MIT", *author.Affiliation)
	require.NotNil(t, author.ORCID)
	assert.Equal(t, "0000-0001", *author.ORCID)
}

func TestResolveReviewerCoalescesUpdates(t *testing.T) {
	db := newTestDB(t)
	resolver := NewEntityResolver(zap.NewNop())

	id, err := resolver.ResolveReviewer(db, "Bob Smith", "MIT", "Databases")
	require.NoError(t, err)

	// Leere Werte lassen die gespeicherten Felder unangetastet
	again, err := resolver.ResolveReviewer(db, "bob smith", "", "")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	var reviewer models.Reviewer
	require.NoError(t, db.First(&reviewer, id).Error)
	require.NotNil(t, reviewer.Affiliation)
	assert.Equal(t, "MIT", *reviewer.Affiliation)
	require.NotNil(t, reviewer.ExpertiseArea)
	assert.Equal(t, "Databases", *reviewer.ExpertiseArea)

	// Nicht-leere Werte überschreiben
	_, err = resolver.ResolveReviewer(db, "Bob Smith", "Stanford", "")
	require.NoError(t, err)
	require.NoError(t, db.First(&reviewer, id).Error)
	require.NotNil(t, reviewer.Affiliation)
	assert.Equal(t, "Stanford", *reviewer.Affiliation)
	require.NotNil(t, reviewer.ExpertiseArea)
	assert.Equal(t, "Databases", *reviewer.ExpertiseArea)

	var count int64
	require.NoError(t, db.Model(&models.Reviewer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
