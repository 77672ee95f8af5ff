package sales

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"salesadmin/internal/models"
)

const defaultPageSize = 10

// Filter narrows the paged sale listing. All set filters are ANDed.
// A StatusID of zero or below means "all statuses" — it is a sentinel the
// UI sends for the unfiltered view, not a real status id.
type Filter struct {
	ClientIdentification string
	From                 *time.Time
	To                   *time.Time
	StatusID             int
}

type PagedResult struct {
	Items      []Response `json:"items"`
	TotalCount int64      `json:"totalCount"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
}

// Paged returns one window of matching sales, newest first with id as the
// tiebreak so page boundaries stay stable between calls. Pages are 1-based;
// page below 1 is clamped to 1 and pageSize below 1 to the default of 10.
// TotalCount counts all matching rows before windowing.
func Paged(db *gorm.DB, page, pageSize int, f Filter) (PagedResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	q := db.Model(&models.Sale{})
	if s := strings.TrimSpace(f.ClientIdentification); s != "" {
		q = q.Where("client_identification = ?", s)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		// inclusive upper bound: everything before the start of the next day
		q = q.Where("date < ?", f.To.AddDate(0, 0, 1))
	}
	if f.StatusID > 0 {
		q = q.Where("sale_status_id = ?", f.StatusID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return PagedResult{}, err
	}

	var rows []models.Sale
	err := q.
		Preload("Client").
		Preload("SaleStatus").
		Preload("Details.Product").
		Order("date DESC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return PagedResult{}, err
	}

	items := make([]Response, 0, len(rows))
	for _, s := range rows {
		items = append(items, ToResponse(s))
	}
	return PagedResult{Items: items, TotalCount: total, Page: page, PageSize: pageSize}, nil
}
