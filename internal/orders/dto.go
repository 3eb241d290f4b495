package orders

import (
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	PaymentRef  string          `json:"payment_ref"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	OrderDate   time.Time       `json:"order_date"`
	Items       []OrderItemDTO  `json:"items"`
}

// OrderItemDTO is a single purchased line.
type OrderItemDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// PaymentIntentDTO carries what the client needs to complete a payment.
type PaymentIntentDTO struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
}

// FromModel maps the persisted order to its DTO.
func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return &OrderDTO{
		ID:          order.ID,
		UserID:      order.UserID,
		PaymentRef:  order.PaymentRef,
		TotalAmount: order.TotalAmount,
		Status:      order.Status.String(),
		OrderDate:   order.OrderDate,
		Items:       items,
	}
}
