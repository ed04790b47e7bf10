package services

import (
	"errors"
	"strings"

	"scholar-desk/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EntityResolver löst Autoren und Reviewer über ihren Namen auf:
// Lookup per getrimmtem, case-insensitivem Namen, Insert bei Miss.
// Der Resolver arbeitet immer auf der übergebenen Transaktion, damit
// Artikel- und Review-Erstellung atomar bleiben.
type EntityResolver struct {
	Logger *zap.Logger
}

// NewEntityResolver erstellt einen neuen Resolver.
func NewEntityResolver(logger *zap.Logger) *EntityResolver {
	return &EntityResolver{Logger: logger}
}

// ResolveAuthor liefert die ID eines bestehenden Autors mit gleichem Namen
// oder legt einen neuen an. Bestehende Autoren werden bei einem Treffer
// NICHT aktualisiert (Asymmetrie zum Reviewer, siehe ResolveReviewer).
func (r *EntityResolver) ResolveAuthor(tx *gorm.DB, name, affiliation, orcid string) (uint, error) {
	trimmed := strings.TrimSpace(name)

	var existing models.Author
	err := tx.Where("LOWER(name) = ?", strings.ToLower(trimmed)).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	author := models.Author{
		Name:        trimmed,
		Affiliation: optional(affiliation),
		ORCID:       optional(orcid),
	}
	if err := tx.Create(&author).Error; err != nil {
		return 0, err
	}
	r.Logger.Info("Author created", zap.Uint("author_id", author.ID), zap.String("name", trimmed))
	return author.ID, nil
}

// ResolveReviewer liefert die ID eines bestehenden Reviewers mit gleichem
// Namen oder legt einen neuen an. Bei einem Treffer werden Affiliation und
// ExpertiseArea coalescend aktualisiert: ein neuer nicht-leerer Wert
// überschreibt den gespeicherten, ein leerer lässt ihn unangetastet.
func (r *EntityResolver) ResolveReviewer(tx *gorm.DB, name, affiliation, expertiseArea string) (uint, error) {
	trimmed := strings.TrimSpace(name)

	var existing models.Reviewer
	err := tx.Where("LOWER(name) = ?", strings.ToLower(trimmed)).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{}
		if v := strings.TrimSpace(affiliation); v != "" {
			updates["affiliation"] = v
		}
		if v := strings.TrimSpace(expertiseArea); v != "" {
			updates["expertise_area"] = v
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Reviewer{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
				return 0, err
			}
		}
		return existing.ID, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		reviewer := models.Reviewer{
			Name:          trimmed,
			Affiliation:   optional(affiliation),
			ExpertiseArea: optional(expertiseArea),
		}
		if err := tx.Create(&reviewer).Error; err != nil {
			return 0, err
		}
		r.Logger.Info("Reviewer created", zap.Uint("reviewer_id", reviewer.ID), zap.String("name", trimmed))
		return reviewer.ID, nil

	default:
		return 0, err
	}
}

// optional gibt nil zurück, wenn der Wert nach Trim leer ist.
func optional(s string) *string {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	return &v
}
