package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"salesadmin/internal/models"
)

type productReq struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock" validate:"gte=0"`
	Image *string         `json:"image"`
}

func ListProducts(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ps []models.Product
		if err := db.Order("id").Find(&ps).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, ps)
	}
}

func GetProduct(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var p models.Product
		if err := db.First(&p, "id = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, p)
	}
}

func CreateProduct(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productReq
		if !decodeValid(w, r, &req) {
			return
		}
		if req.Price.IsNegative() {
			http.Error(w, "price must not be negative", http.StatusBadRequest)
			return
		}
		p := models.Product{
			Name:  strings.TrimSpace(req.Name),
			Price: req.Price,
			Stock: req.Stock,
			Image: req.Image,
		}
		if err := db.Create(&p).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSONStatus(w, http.StatusCreated, p)
	}
}

func UpdateProduct(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		var req struct {
			Name  *string          `json:"name"`
			Price *decimal.Decimal `json:"price"`
			Stock *int             `json:"stock"`
			Image *string          `json:"image"`
		}
		if !decodeValid(w, r, &req) {
			return
		}
		var p models.Product
		if err := db.First(&p, "id = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Price != nil {
			if req.Price.IsNegative() {
				http.Error(w, "price must not be negative", http.StatusBadRequest)
				return
			}
			p.Price = *req.Price
		}
		if req.Stock != nil {
			p.Stock = *req.Stock
		}
		if req.Image != nil {
			p.Image = req.Image
		}
		if err := db.Save(&p).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, p)
	}
}

// DeleteProduct refuses to remove a product still referenced by sale line
// items: the FK is protective, so the violation surfaces as 409.
func DeleteProduct(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var p models.Product
		if err := db.First(&p, "id = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		if err := db.Delete(&p).Error; err != nil {
			respondDBError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
