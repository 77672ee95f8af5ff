package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"salesadmin/internal/auth"
	"salesadmin/internal/models"
)

func ListUsers(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var users []models.User
		if err := db.Order("id").Find(&users).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, users)
	}
}

func GetUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var u models.User
		if err := db.First(&u, "id = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, u)
	}
}

func CreateUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if !decodeValid(w, r, &req) {
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			http.Error(w, "hash error", http.StatusInternalServerError)
			return
		}
		u := models.User{
			Username:     strings.TrimSpace(req.Username),
			Email:        strings.ToLower(req.Email),
			PasswordHash: hash,
		}
		if err := db.Create(&u).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSONStatus(w, http.StatusCreated, u)
	}
}

func UpdateUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req struct {
			Username *string `json:"username"`
			Email    *string `json:"email"`
			Password *string `json:"password"`
		}
		if !decodeValid(w, r, &req) {
			return
		}
		var u models.User
		if err := db.First(&u, "id = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		if req.Username != nil {
			u.Username = strings.TrimSpace(*req.Username)
		}
		if req.Email != nil {
			u.Email = strings.ToLower(*req.Email)
		}
		if req.Password != nil && *req.Password != "" {
			hash, err := auth.HashPassword(*req.Password)
			if err != nil {
				http.Error(w, "hash error", http.StatusInternalServerError)
				return
			}
			u.PasswordHash = hash
		}
		if err := db.Save(&u).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, u)
	}
}

func DeleteUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var u models.User
		if err := db.First(&u, "id = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		if err := db.Delete(&u).Error; err != nil {
			respondDBError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
