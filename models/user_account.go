package models

import (
	"time"
)

// UserAccount repräsentiert ein Benutzerkonto.
//
// ACHTUNG: Die Spalte password_hash enthält das Passwort im Klartext.
// Das Quellsystem vergleicht Passwörter unverschlüsselt; dieses Verhalten
// wird hier bewusst beibehalten und nicht stillschweigend "repariert".
type UserAccount struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username     string `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	Role         string `json:"role" gorm:"default:'Author'"`

	Affiliation *string `json:"affiliation"`
	ORCID       *string `json:"orcid" gorm:"column:orcid"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (UserAccount) TableName() string {
	return "user_accounts"
}
