package dto

// DecrementStockRequest asks to remove quantity units from a product's stock.
type DecrementStockRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// ProductResponse is the public product shape.
type ProductResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Stock         int    `json:"stock"`
	CriticalStock int    `json:"critical_stock"`
	Price         string `json:"price"`
}

// CreateOrderRequest records a sale against a product.
type CreateOrderRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// OrderResponse is the public order shape.
type OrderResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Total     string `json:"total"`
	CreatedAt string `json:"created_at"`
}

// MetricsResponse is the overview returned by GET /metrics.
type MetricsResponse struct {
	CriticalStockCount int64  `json:"critical_stock_count"`
	TotalProductsCount int64  `json:"total_products_count"`
	TotalOrders        int64  `json:"total_orders"`
	TotalOrdersRevenue string `json:"total_orders_revenue"`
}
