package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is one sale of a product. The forecast engine aggregates these
// rows into a daily demand series.
type Order struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity  int             `gorm:"not null"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
