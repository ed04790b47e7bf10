package services

import (
	"errors"
	"strings"

	"scholar-desk/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Fehlermeldungen entsprechen wörtlich den SIGNAL-Meldungen der
// create_user_if_unique-Prozedur des Quellsystems bzw. den API-Antworten.
// "PasswordHash is required" bleibt absichtlich so benannt, obwohl das
// Feld ein Klartext-Passwort enthält.
var (
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrUsernameRequired   = errors.New("Username is required")
	ErrPasswordRequired   = errors.New("PasswordHash is required")
	ErrEmailRequired      = errors.New("Email is required")
	ErrUsernameExists     = errors.New("Username already exists")
	ErrEmailExists        = errors.New("Email already exists")
	ErrEmailInUse         = errors.New("Email already in use")
)

// AccountService verwaltet Benutzerkonten. Passwörter werden wie im
// Quellsystem im Klartext gespeichert und verglichen — ein dokumentierter
// Defekt, der hier verhaltensgetreu reproduziert wird.
type AccountService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewAccountService erstellt einen neuen AccountService.
func NewAccountService(db *gorm.DB, logger *zap.Logger) *AccountService {
	return &AccountService{DB: db, Logger: logger}
}

// UserProfile ist die Konto-Sicht ohne Passwortfeld.
type UserProfile struct {
	UserID      uint    `json:"user_id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Affiliation *string `json:"affiliation"`
	ORCID       *string `json:"orcid"`
	Role        string  `json:"role"`
}

func profileOf(u *models.UserAccount) *UserProfile {
	return &UserProfile{
		UserID:      u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Affiliation: u.Affiliation,
		ORCID:       u.ORCID,
		Role:        u.Role,
	}
}

// Login prüft Benutzername und Passwort (exakter String-Vergleich).
func (s *AccountService) Login(username, password string) (*UserProfile, error) {
	var user models.UserAccount
	err := s.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if password != user.PasswordHash {
		return nil, ErrInvalidCredentials
	}
	return profileOf(&user), nil
}

// Signup legt ein Konto an. Die Unique-Prüfungen und der Insert laufen in
// einer Transaktion (Ersatz für die Stored Procedure des Quellsystems);
// die Rolle ist bei Selbstregistrierung immer "Author".
func (s *AccountService) Signup(username, password, email, affiliation, orcid string) (*UserProfile, error) {
	var user models.UserAccount
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if strings.TrimSpace(username) == "" {
			return ErrUsernameRequired
		}
		if strings.TrimSpace(password) == "" {
			return ErrPasswordRequired
		}
		if strings.TrimSpace(email) == "" {
			return ErrEmailRequired
		}

		var count int64
		if err := tx.Model(&models.UserAccount{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameExists
		}
		if err := tx.Model(&models.UserAccount{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailExists
		}

		user = models.UserAccount{
			Username:     username,
			PasswordHash: password,
			Email:        email,
			Role:         "Author",
			Affiliation:  optional(affiliation),
			ORCID:        optional(orcid),
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("User registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return profileOf(&user), nil
}

// ListUsers liefert alle Konten ohne Passwortfeld.
func (s *AccountService) ListUsers() ([]UserProfile, error) {
	var users []models.UserAccount
	if err := s.DB.Find(&users).Error; err != nil {
		return nil, err
	}
	profiles := make([]UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, *profileOf(&users[i]))
	}
	return profiles, nil
}

// GetUser liefert ein Konto ohne Passwortfeld.
func (s *AccountService) GetUser(id uint) (*UserProfile, error) {
	var user models.UserAccount
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return profileOf(&user), nil
}

// UpdateUser ändert die Profilfelder. Eine neue E-Mail darf von keinem
// anderen Konto belegt sein.
func (s *AccountService) UpdateUser(id uint, email, affiliation, orcid string) (*UserProfile, error) {
	var user models.UserAccount
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, err
	}

	if email != "" {
		var count int64
		if err := s.DB.Model(&models.UserAccount{}).
			Where("email = ? AND id != ?", email, id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailInUse
		}
	}

	updates := map[string]interface{}{
		"email":       email,
		"affiliation": optional(affiliation),
		"orcid":       optional(orcid),
	}
	if err := s.DB.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return profileOf(&user), nil
}

// UpdatePassword speichert das neue Passwort unverändert (kein Hashing,
// siehe Hinweis am AccountService).
func (s *AccountService) UpdatePassword(id uint, password string) error {
	var user models.UserAccount
	if err := s.DB.First(&user, id).Error; err != nil {
		return err
	}
	return s.DB.Model(&user).Update("password_hash", password).Error
}

// DeleteUser entfernt ein Konto.
func (s *AccountService) DeleteUser(id uint) error {
	result := s.DB.Delete(&models.UserAccount{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
