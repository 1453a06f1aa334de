package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the inventory unit being monitored. Stock is mutated only
// through StockService.Decrement; everything else in the core treats the
// row as read-only.
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string          `gorm:"index;not null"`
	Stock         int             `gorm:"not null;default:0"`
	CriticalStock int             `gorm:"not null;default:5"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Active        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsCritical reports whether the product sits at or below its threshold.
func (p *Product) IsCritical() bool {
	return p.Stock <= p.CriticalStock
}
