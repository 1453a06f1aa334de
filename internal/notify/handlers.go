package notify

import (
	"context"
	"fmt"

	"stockwatch/internal/bus"

	"github.com/rs/zerolog/log"
)

// HandleCriticalStock is the bus subscriber for critical-stock edge events.
// It renders the realtime message and alert email, then dispatches both.
func (d *Dispatcher) HandleCriticalStock(ctx context.Context, payload any) error {
	event, ok := payload.(bus.StockEvent)
	if !ok {
		return fmt.Errorf("notify: unexpected payload %T for critical stock event", payload)
	}

	wsMessage := map[string]any{
		"type":           "critical_stock",
		"product_id":     event.ProductID,
		"name":           event.ProductName,
		"stock":          event.Stock,
		"critical_stock": event.CriticalStock,
	}

	subject := fmt.Sprintf("🚨 Critical Stock Alert - %s", event.ProductName)
	d.Dispatch(ctx, wsMessage, subject, renderCriticalStockEmail(event), true)
	return nil
}

// HandleUserLogin and HandleUserLogout only leave an audit trail.
func (d *Dispatcher) HandleUserLogin(_ context.Context, payload any) error {
	log.Info().Interface("event", payload).Msg("user logged in")
	return nil
}

func (d *Dispatcher) HandleUserLogout(_ context.Context, payload any) error {
	log.Info().Interface("event", payload).Msg("user logged out")
	return nil
}

func renderCriticalStockEmail(event bus.StockEvent) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .alert { background-color: #fee; border: 1px solid #fcc; border-radius: 5px; padding: 15px; margin: 20px 0; }
    .product-name { color: #d63384; font-weight: bold; }
    .stock-info { background-color: #f8f9fa; padding: 10px; border-radius: 3px; margin: 10px 0; }
    .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #dee2e6; font-size: 0.9em; color: #6c757d; }
  </style>
</head>
<body>
  <div class="container">
    <h2 style="color: #dc3545;">🚨 Critical Stock Alert</h2>
    <div class="alert">
      <p><strong>Attention:</strong> One of your products has reached a critical stock level!</p>
    </div>
    <div class="stock-info">
      <h3>Product Details:</h3>
      <ul>
        <li><strong>Product Name:</strong> <span class="product-name">%s</span></li>
        <li><strong>Current Stock:</strong> <span style="color: #dc3545; font-weight: bold;">%d units</span></li>
        <li><strong>Critical Level:</strong> %d units</li>
      </ul>
    </div>
    <p><strong>Action Required:</strong> Please restock this item as soon as possible to avoid stockouts.</p>
    <div class="footer">
      <p>This is an automated notification from your Stock Management System.</p>
      <p>If you have any questions, please contact your system administrator.</p>
    </div>
  </div>
</body>
</html>`, event.ProductName, event.Stock, event.CriticalStock)
}
