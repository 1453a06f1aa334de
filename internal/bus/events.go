package bus

import (
	"time"

	"github.com/google/uuid"
)

// Kind is a closed set of event kinds; new kinds are added here, not at
// runtime.
type Kind string

const (
	KindCriticalStock Kind = "critical_stock"
	KindUserLogin     Kind = "user_login"
	KindUserLogout    Kind = "user_logout"
	KindOrderCreated  Kind = "order_created"
)

// StockEvent is published exactly once per downward threshold crossing
// (previous stock above the critical level, new stock at or below it). It is
// never persisted.
type StockEvent struct {
	ProductID     uuid.UUID
	ProductName   string
	Stock         int
	CriticalStock int
	Timestamp     time.Time
}

// OrderEvent is published when a sale is recorded.
type OrderEvent struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Timestamp time.Time
}
