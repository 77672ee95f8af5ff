package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"salesadmin/internal/auth"
	"salesadmin/internal/models"
	"salesadmin/internal/sales"
)

// ListSales serves the paged, filtered sale listing:
// GET /sales?page&pageSize&clientIdentification&from&to&statusId
func ListSales(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		pageSize, _ := strconv.Atoi(q.Get("pageSize"))
		statusID, _ := strconv.Atoi(q.Get("statusId"))

		f := sales.Filter{
			ClientIdentification: q.Get("clientIdentification"),
			StatusID:             statusID,
		}
		var ok bool
		if f.From, ok = parseDateParam(q.Get("from")); !ok {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		if f.To, ok = parseDateParam(q.Get("to")); !ok {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}

		result, err := sales.Paged(db, page, pageSize, f)
		if err != nil {
			lg.Errorw("sale listing failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		respondJSON(w, result)
	}
}

func GetSale(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		s, err := sales.GetByID(db, id)
		if err != nil {
			respondDBError(w, err)
			return
		}
		respondJSON(w, sales.ToResponse(s))
	}
}

func CreateSale(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in sales.CreateInput
		if !decodeValid(w, r, &in) {
			return
		}
		s, err := sales.Create(db, in)
		if err != nil {
			if errors.Is(err, sales.ErrNegativeUnitPrice) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			respondDBError(w, err)
			return
		}
		recordAudit(db, auth.Username(r.Context()), "sale.create", map[string]any{"saleId": s.ID})
		respondJSONStatus(w, http.StatusCreated, sales.ToResponse(s))
	}
}

// UpdateSale changes a sale's date, client or status. Line items are edited
// through the sale-details endpoints, which recompute the stored totals.
func UpdateSale(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		var req struct {
			ID                   *int       `json:"id"`
			Date                 *time.Time `json:"date"`
			ClientIdentification *string    `json:"clientIdentification"`
			SaleStatusID         *int       `json:"saleStatusId"`
		}
		if !decodeValid(w, r, &req) {
			return
		}
		if req.ID != nil && *req.ID != id {
			http.Error(w, "sale id does not match", http.StatusBadRequest)
			return
		}
		var s models.Sale
		if err := db.First(&s, "id = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		if req.Date != nil {
			s.Date = *req.Date
		}
		if req.ClientIdentification != nil {
			if *req.ClientIdentification == "" {
				s.ClientIdentification = nil
			} else {
				s.ClientIdentification = req.ClientIdentification
			}
		}
		if req.SaleStatusID != nil {
			s.SaleStatusID = *req.SaleStatusID
		}
		if err := db.Save(&s).Error; err != nil {
			respondDBError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteSale(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		var s models.Sale
		if err := db.First(&s, "id = ?", id).Error; err != nil {
			respondDBError(w, err)
			return
		}
		if err := sales.Delete(db, id); err != nil {
			respondDBError(w, err)
			return
		}
		recordAudit(db, auth.Username(r.Context()), "sale.delete", map[string]any{"saleId": id})
		w.WriteHeader(http.StatusNoContent)
	}
}

// parseDateParam accepts a plain date or RFC 3339 timestamp. Empty input
// means "no bound".
func parseDateParam(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, true
	}
	return nil, false
}
