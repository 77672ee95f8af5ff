package sales

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"salesadmin/internal/models"
)

var ErrNegativeUnitPrice = errors.New("line item unit price must not be negative")

type DetailInput struct {
	ProductID int             `json:"productId" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type CreateInput struct {
	Date                 time.Time     `json:"date"`
	ClientIdentification *string       `json:"clientIdentification"`
	SaleStatusID         int           `json:"saleStatusId" validate:"required,gt=0"`
	Items                []DetailInput `json:"items" validate:"required,min=1,dive"`
}

// Create builds line items from the caller-supplied triples, derives the
// totals once, and writes the sale and its details as a single transaction.
// Unit prices are taken as given, not re-read from the product catalog, so a
// sale keeps its point-in-time pricing. Returns the fully hydrated sale.
func Create(db *gorm.DB, in CreateInput) (models.Sale, error) {
	details := make([]models.SaleDetail, 0, len(in.Items))
	for _, it := range in.Items {
		if it.UnitPrice.IsNegative() {
			return models.Sale{}, ErrNegativeUnitPrice
		}
		details = append(details, models.SaleDetail{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	total, items := ComputeTotals(details)

	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	client := in.ClientIdentification
	if client != nil && *client == "" {
		client = nil
	}

	sale := models.Sale{
		Date:                 date,
		ClientIdentification: client,
		TotalValue:           total,
		TotalItems:           items,
		SaleStatusID:         in.SaleStatusID,
		Details:              details,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&sale).Error
	})
	if err != nil {
		return models.Sale{}, err
	}
	return GetByID(db, sale.ID)
}

// GetByID loads a sale with its client, status and each item's product.
func GetByID(db *gorm.DB, id int) (models.Sale, error) {
	var s models.Sale
	err := db.
		Preload("Client").
		Preload("SaleStatus").
		Preload("Details.Product").
		First(&s, "id = ?", id).Error
	return s, err
}

// Delete removes a sale; its details go with it via the FK cascade.
func Delete(db *gorm.DB, id int) error {
	return db.Delete(&models.Sale{}, "id = ?", id).Error
}

// RecomputeTotals re-derives and stores a sale's totals from its current
// details. Every line-item mutation must call this inside the same
// transaction, otherwise the stored totals drift from the items.
func RecomputeTotals(tx *gorm.DB, saleID int) error {
	var details []models.SaleDetail
	if err := tx.Find(&details, "sale_id = ?", saleID).Error; err != nil {
		return err
	}
	total, items := ComputeTotals(details)
	return tx.Model(&models.Sale{}).Where("id = ?", saleID).
		Updates(map[string]any{"total_value": total, "total_items": items}).Error
}
