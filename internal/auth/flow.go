package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"salesadmin/internal/models"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// Flow orchestrates the credential store, password hasher, token issuer and
// refresh token registry for login and token rotation.
type Flow struct {
	db       *gorm.DB
	issuer   *Issuer
	registry *Registry
}

func NewFlow(db *gorm.DB, issuer *Issuer, registry *Registry) *Flow {
	return &Flow{db: db, issuer: issuer, registry: registry}
}

// Session is the response shape shared by login and refresh.
type Session struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}

// Login verifies the password for username and starts a session. An unknown
// username and a wrong password both come back as ErrInvalidCredentials so
// the caller cannot probe which usernames exist.
func (f *Flow) Login(ctx context.Context, username, password string) (Session, error) {
	var u models.User
	if err := f.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if CheckPassword(u.PasswordHash, password) != nil {
		return Session{}, ErrInvalidCredentials
	}
	return f.startSession(u)
}

// Refresh rotates the token pair for whichever user currently owns the
// supplied refresh token. The old refresh token is unusable the moment the
// registry entry is overwritten.
func (f *Flow) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if refreshToken == "" {
		return Session{}, ErrInvalidRefreshToken
	}
	var users []models.User
	if err := f.db.WithContext(ctx).Find(&users).Error; err != nil {
		return Session{}, err
	}
	for _, u := range users {
		if f.registry.Validate(u.Username, refreshToken) {
			return f.startSession(u)
		}
	}
	return Session{}, ErrInvalidRefreshToken
}

func (f *Flow) startSession(u models.User) (Session, error) {
	token, err := f.issuer.Issue(u)
	if err != nil {
		return Session{}, err
	}
	refresh, err := NewRefreshToken()
	if err != nil {
		return Session{}, err
	}
	f.registry.Save(u.Username, refresh)
	return Session{Token: token, RefreshToken: refresh, Username: u.Username, Email: u.Email}, nil
}
