package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/db"
	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
	pkgstripe "github.com/dmwangi/sokoni-backend/pkg/stripe"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes order recording and fulfillment operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	SetStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal) (*PaymentIntentDTO, error)
}

// CreateOrderInput is the validated payload to record a completed purchase.
type CreateOrderInput struct {
	Items       []OrderItemInput
	TotalAmount decimal.Decimal
	PaymentRef  string
}

// OrderItemInput is one purchased line.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

type accountReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type orderRepository interface {
	WithTx(tx *gorm.DB) *Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

type service struct {
	repo     orderRepository
	dbClient *db.Client
	accounts accountReader
	gateway  pkgstripe.Gateway
	currency string
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	Repo        orderRepository
	DBClient    *db.Client
	AccountRepo accountReader
	Gateway     pkgstripe.Gateway
	Currency    string
}

// NewService constructs an orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if params.AccountRepo == nil {
		return nil, fmt.Errorf("accounts repository is required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}
	return &service{
		repo:     params.Repo,
		dbClient: params.DBClient,
		accounts: params.AccountRepo,
		gateway:  params.Gateway,
		currency: currency,
	}, nil
}

// Create records a completed purchase. The payment reference is re-verified
// against the gateway before anything is written; a reference that was never
// confirmed never becomes an order.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*OrderDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	if _, err := s.accounts.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup account")
	}

	if err := s.gateway.VerifyPayment(ctx, input.PaymentRef); err != nil {
		if errors.Is(err, pkgstripe.ErrPaymentNotConfirmed) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment has not been confirmed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify payment")
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, models.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order := &models.Order{
		UserID:      userID,
		PaymentRef:  strings.TrimSpace(input.PaymentRef),
		TotalAmount: input.TotalAmount,
		Status:      enums.OrderStatusPending,
		OrderDate:   time.Now().UTC(),
		Items:       items,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).Create(ctx, order)
		return err
	}); err != nil {
		if db.IsUniqueViolation(err, "orders_user_payment_ref_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "payment reference already recorded")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
	}

	return FromModel(order), nil
}

// ListForUser returns the user's purchase history newest first.
func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	dtos := make([]OrderDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, *FromModel(&records[i]))
	}
	return dtos, nil
}

// SetStatus advances fulfillment. Orders only move forward; repeating the
// current status is a no-op.
func (s *service) SetStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup order")
	}

	if order.Status == status {
		return FromModel(order), nil
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}
	order.Status = status
	return FromModel(order), nil
}

// CreatePaymentIntent opens a gateway intent for the given amount.
func (s *service) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal) (*PaymentIntentDTO, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	intent, err := s.gateway.CreatePaymentIntent(ctx, cents, s.currency)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
	}

	return &PaymentIntentDTO{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		AmountCents:     cents,
		Currency:        s.currency,
	}, nil
}

func validateCreateInput(input CreateOrderInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "item product_id is required")
		}
		if item.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
	}
	if input.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "total_amount must be positive")
	}
	if strings.TrimSpace(input.PaymentRef) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment_ref is required")
	}
	return nil
}
