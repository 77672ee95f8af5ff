package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"salesadmin/internal/models"
)

// Response is the API projection of a sale with its resolved associations.
type Response struct {
	ID                   int                `json:"id"`
	Date                 time.Time          `json:"date"`
	ClientIdentification *string            `json:"clientIdentification"`
	Client               *models.Client     `json:"client"`
	TotalValue           decimal.Decimal    `json:"totalValue"`
	TotalItems           int                `json:"totalItems"`
	SaleStatusID         int                `json:"saleStatusId"`
	SaleStatus           *models.SaleStatus `json:"saleStatus"`
	Items                []DetailResponse   `json:"items"`
}

type DetailResponse struct {
	ID        int             `json:"id"`
	ProductID int             `json:"productId"`
	Product   *models.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// ToResponse projects a sale onto its API shape. Associations that did not
// load stay nil and render as JSON null; nothing here errors.
func ToResponse(s models.Sale) Response {
	items := make([]DetailResponse, 0, len(s.Details))
	for _, d := range s.Details {
		items = append(items, DetailResponse{
			ID:        d.ID,
			ProductID: d.ProductID,
			Product:   d.Product,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
		})
	}
	return Response{
		ID:                   s.ID,
		Date:                 s.Date,
		ClientIdentification: s.ClientIdentification,
		Client:               s.Client,
		TotalValue:           s.TotalValue,
		TotalItems:           s.TotalItems,
		SaleStatusID:         s.SaleStatusID,
		SaleStatus:           s.SaleStatus,
		Items:                items,
	}
}
