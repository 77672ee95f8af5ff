package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"salesadmin/internal/models"
)

type saleStatusReq struct {
	Name string `json:"name" validate:"required"`
}

func ListSaleStatuses(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ss []models.SaleStatus
		if err := db.Order("id").Find(&ss).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, ss)
	}
}

func GetSaleStatus(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var s models.SaleStatus
		if err := db.First(&s, "id = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, s)
	}
}

func CreateSaleStatus(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saleStatusReq
		if !decodeValid(w, r, &req) {
			return
		}
		s := models.SaleStatus{Name: strings.TrimSpace(req.Name)}
		if err := db.Create(&s).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSONStatus(w, http.StatusCreated, s)
	}
}

func UpdateSaleStatus(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req saleStatusReq
		if !decodeValid(w, r, &req) {
			return
		}
		var s models.SaleStatus
		if err := db.First(&s, "id = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		s.Name = strings.TrimSpace(req.Name)
		if err := db.Save(&s).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, s)
	}
}

func DeleteSaleStatus(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var s models.SaleStatus
		if err := db.First(&s, "id = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		if err := db.Delete(&s).Error; err != nil {
			respondDBError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
