package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmwangi/sokoni-backend/api/middleware"
	"github.com/dmwangi/sokoni-backend/api/responses"
	"github.com/dmwangi/sokoni-backend/api/validators"
	ordersvc "github.com/dmwangi/sokoni-backend/internal/orders"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
	"github.com/dmwangi/sokoni-backend/pkg/logger"
)

type orderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type createOrderRequest struct {
	Items       []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount decimal.Decimal    `json:"total_amount" validate:"required"`
	PaymentRef  string             `json:"payment_ref" validate:"required"`
}

type paymentIntentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type setOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreatePaymentIntent reserves a Stripe intent for the quoted amount.
func CreatePaymentIntent(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body paymentIntentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		intent, err := svc.CreatePaymentIntent(r.Context(), body.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "payment intent created", intent)
	}
}

// CreateOrder records a purchase after the payment has been confirmed.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := middleware.ActorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]ordersvc.OrderItemInput, 0, len(body.Items))
		for _, item := range body.Items {
			items = append(items, ordersvc.OrderItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		order, err := svc.Create(r.Context(), actor.ID, ordersvc.CreateOrderInput{
			Items:       items,
			TotalAmount: body.TotalAmount,
			PaymentRef:  body.PaymentRef,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "order recorded", order)
	}
}

// ListMyOrders returns the caller's order history, newest first.
func ListMyOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := middleware.ActorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.ListForUser(r.Context(), actor.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "orders fetched", orders)
	}
}

// AdminSetOrderStatus advances an order along the fulfillment pipeline.
func AdminSetOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(strings.TrimSpace(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		order, err := svc.SetStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "status updated", order)
	}
}
