package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"salesadmin/internal/models"
)

type clientReq struct {
	Identification string `json:"identification" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Address        string `json:"address" validate:"required"`
}

func ListClients(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cs []models.Client
		if err := db.Order("identification").Find(&cs).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, cs)
	}
}

func GetClient(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var c models.Client
		if err := db.First(&c, "identification = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, c)
	}
}

func CreateClient(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clientReq
		if !decodeValid(w, r, &req) {
			return
		}
		c := models.Client{
			Identification: strings.TrimSpace(req.Identification),
			Name:           strings.TrimSpace(req.Name),
			Phone:          req.Phone,
			Email:          strings.ToLower(req.Email),
			Address:        req.Address,
		}
		if err := db.Create(&c).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSONStatus(w, http.StatusCreated, c)
	}
}

func UpdateClient(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req struct {
			Name    *string `json:"name"`
			Phone   *string `json:"phone"`
			Email   *string `json:"email"`
			Address *string `json:"address"`
		}
		if !decodeValid(w, r, &req) {
			return
		}
		var c models.Client
		if err := db.First(&c, "identification = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		if req.Name != nil {
			c.Name = *req.Name
		}
		if req.Phone != nil {
			c.Phone = *req.Phone
		}
		if req.Email != nil {
			c.Email = strings.ToLower(*req.Email)
		}
		if req.Address != nil {
			c.Address = *req.Address
		}
		if err := db.Save(&c).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, c)
	}
}

// DeleteClient is rejected with 409 while sales still reference the client.
func DeleteClient(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var c models.Client
		if err := db.First(&c, "identification = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		if err := db.Delete(&c).Error; err != nil {
			respondDBError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
