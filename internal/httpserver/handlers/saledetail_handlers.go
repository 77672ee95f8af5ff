package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"salesadmin/internal/models"
	"salesadmin/internal/sales"
)

type saleDetailReq struct {
	SaleID    int             `json:"saleId" validate:"required,gt=0"`
	ProductID int             `json:"productId" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func ListSaleDetails(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := db.Order("id")
		if s := r.URL.Query().Get("saleId"); s != "" {
			q = q.Where("sale_id = ?", s)
		}
		var ds []models.SaleDetail
		if err := q.Find(&ds).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, ds)
	}
}

func GetSaleDetail(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var d models.SaleDetail
		if err := db.Preload("Product").First(&d, "id = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, d)
	}
}

// CreateSaleDetail appends a line item to an existing sale and recomputes
// the sale's stored totals in the same transaction, so they never drift
// from the items.
func CreateSaleDetail(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saleDetailReq
		if !decodeValid(w, r, &req) {
			return
		}
		if req.UnitPrice.IsNegative() {
			http.Error(w, "unit price must not be negative", http.StatusBadRequest)
			return
		}
		d := models.SaleDetail{
			SaleID:    req.SaleID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			UnitPrice: req.UnitPrice,
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&d).Error; err != nil {
				return err
			}
			return sales.RecomputeTotals(tx, d.SaleID)
		})
		if err != nil {
			respondDBError(w, err)
			return
		}
		respondJSONStatus(w, http.StatusCreated, d)
	}
}

func UpdateSaleDetail(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		var req struct {
			ProductID *int             `json:"productId"`
			Quantity  *int             `json:"quantity"`
			UnitPrice *decimal.Decimal `json:"unitPrice"`
		}
		if !decodeValid(w, r, &req) {
			return
		}
		var d models.SaleDetail
		if err := db.First(&d, "id = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		if req.ProductID != nil {
			d.ProductID = *req.ProductID
		}
		if req.Quantity != nil {
			if *req.Quantity <= 0 {
				http.Error(w, "quantity must be positive", http.StatusBadRequest)
				return
			}
			d.Quantity = *req.Quantity
		}
		if req.UnitPrice != nil {
			if req.UnitPrice.IsNegative() {
				http.Error(w, "unit price must not be negative", http.StatusBadRequest)
				return
			}
			d.UnitPrice = *req.UnitPrice
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&d).Error; err != nil {
				return err
			}
			return sales.RecomputeTotals(tx, d.SaleID)
		})
		if err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, d)
	}
}

func DeleteSaleDetail(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var d models.SaleDetail
		if err := db.First(&d, "id = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&d).Error; err != nil {
				return err
			}
			return sales.RecomputeTotals(tx, d.SaleID)
		})
		if err != nil {
			respondDBError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
