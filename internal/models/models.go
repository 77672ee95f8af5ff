package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
}

// Client is keyed by its real-world identification number, not a surrogate id.
type Client struct {
	Identification string `gorm:"primaryKey;size:20" json:"identification"`
	Name           string `gorm:"not null" json:"name"`
	Phone          string `gorm:"not null" json:"phone"`
	Email          string `gorm:"not null" json:"email"`
	Address        string `gorm:"not null" json:"address"`
}

type Product struct {
	ID    int             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string          `gorm:"not null" json:"name"`
	Price decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	Stock int             `gorm:"not null;default:0" json:"stock"`
	Image *string         `json:"image,omitempty"`
}

// SaleStatus rows are an open set managed through the API, not a fixed enum.
type SaleStatus struct {
	ID   int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// Sale owns its details (deleted with the sale); Client and SaleStatus are
// lookups and survive the sale. TotalValue and TotalItems are derived from
// the details when they change and stored, not recomputed on read.
type Sale struct {
	ID                   int             `gorm:"primaryKey;autoIncrement" json:"id"`
	Date                 time.Time       `gorm:"not null;index" json:"date"`
	ClientIdentification *string         `gorm:"size:20;index" json:"clientIdentification"`
	Client               *Client         `gorm:"foreignKey:ClientIdentification;references:Identification" json:"client,omitempty"`
	TotalValue           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"totalValue"`
	TotalItems           int             `gorm:"not null" json:"totalItems"`
	SaleStatusID         int             `gorm:"not null;index" json:"saleStatusId"`
	SaleStatus           *SaleStatus     `json:"saleStatus,omitempty"`
	Details              []SaleDetail    `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

type SaleDetail struct {
	ID        int             `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID    int             `gorm:"not null;index" json:"saleId"`
	ProductID int             `gorm:"not null;index" json:"productId"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unitPrice"`
}

type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"index;not null" json:"username"`
	Action    string    `gorm:"not null" json:"action"`
	Metadata  JSONB     `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

// All lists every entity for AutoMigrate, in FK dependency order.
func All() []any {
	return []any{
		&User{}, &Client{}, &Product{}, &SaleStatus{},
		&Sale{}, &SaleDetail{}, &AuditLog{},
	}
}
