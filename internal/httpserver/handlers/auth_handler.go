package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"salesadmin/internal/auth"
	"salesadmin/internal/models"
)

type registerReq struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=4"`
	Email    string `json:"email" validate:"required,email"`
}

func Register(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if !decodeValid(w, r, &req) {
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			http.Error(w, "hash error", http.StatusInternalServerError)
			return
		}
		u := models.User{Username: req.Username, Email: req.Email, PasswordHash: hash}
		if err := db.Create(&u).Error; err != nil {
			respondDBError(w, err)
			return
		}
		lg.Infow("user registered", "username", u.Username)
		respondJSON(w, map[string]any{"message": "user registered successfully", "id": u.ID})
	}
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func Login(db *gorm.DB, flow *auth.Flow, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if !decodeValid(w, r, &req) {
			return
		}
		sess, err := flow.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			lg.Errorw("login failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		recordAudit(db, sess.Username, "auth.login", nil)
		respondJSON(w, sess)
	}
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func Refresh(db *gorm.DB, flow *auth.Flow, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshReq
		if !decodeValid(w, r, &req) {
			return
		}
		sess, err := flow.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidRefreshToken) {
				http.Error(w, "invalid refresh token", http.StatusUnauthorized)
				return
			}
			lg.Errorw("refresh failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		recordAudit(db, sess.Username, "auth.refresh", nil)
		respondJSON(w, sess)
	}
}
