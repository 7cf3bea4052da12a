package usecase

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/internal/domain/service"
	"bazaarbondhu/pkg/errors"
	"bazaarbondhu/pkg/logger"
)

type PaymentUseCase struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	gateway     service.PaymentGatewayService
	notifier    service.Notifier
	currency    string
}

func NewPaymentUseCase(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	gateway service.PaymentGatewayService,
	notifier service.Notifier,
	currency string,
) *PaymentUseCase {
	if notifier == nil {
		notifier = service.NopNotifier{}
	}
	return &PaymentUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		gateway:     gateway,
		notifier:    notifier,
		currency:    strings.ToLower(currency),
	}
}

type PaymentIntentResult struct {
	ClientSecret    string  `json:"clientSecret"`
	PaymentIntentID string  `json:"paymentIntentId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

type RecordPaymentInput struct {
	ProductID     string
	TransactionID string
	PaymentMethod []string
}

func (uc *PaymentUseCase) payableProduct(ctx context.Context, caller Caller, productID string) (*entity.Product, error) {
	if !caller.Is(entity.RoleUser) {
		return nil, errors.Forbidden("Only users can buy products", nil)
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != entity.StatusApproved {
		return nil, errors.BadRequest("Product is not available for purchase", nil)
	}
	return product, nil
}

// CreatePaymentIntent prices the product server-side; clients never choose
// the amount.
func (uc *PaymentUseCase) CreatePaymentIntent(ctx context.Context, caller Caller, productID string) (*PaymentIntentResult, error) {
	product, err := uc.payableProduct(ctx, caller, productID)
	if err != nil {
		return nil, err
	}

	intent, err := uc.gateway.CreateIntent(ctx, service.PaymentIntentRequest{
		Amount:      service.ToMinorUnits(product.PricePerUnit),
		Currency:    uc.currency,
		Email:       caller.Email(),
		ProductID:   product.ID,
		Description: product.ItemName + " @ " + product.MarketName,
	})
	if err != nil {
		return nil, errors.PaymentFailed("Could not start payment", err)
	}

	return &PaymentIntentResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          service.FromMinorUnits(intent.Amount),
		Currency:        intent.Currency,
	}, nil
}

// RecordPayment stores an order for a confirmed intent. The intent must have
// succeeded for this product's current price; replays of the same
// transaction return the stored order.
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, caller Caller, input RecordPaymentInput) (*entity.Order, error) {
	if strings.TrimSpace(input.TransactionID) == "" {
		return nil, errors.Validation("transactionId", "transactionId is required")
	}
	product, err := uc.payableProduct(ctx, caller, input.ProductID)
	if err != nil {
		return nil, err
	}

	intent, err := uc.gateway.GetIntent(ctx, input.TransactionID)
	if err != nil {
		if stderrors.Is(err, service.ErrCardDeclined) {
			return nil, errors.PaymentFailed("Card was declined", err)
		}
		return nil, errors.PaymentFailed("Could not verify payment", err)
	}
	if !intent.Succeeded() {
		return nil, errors.PaymentFailed("Payment has not succeeded", nil)
	}
	if pid := intent.Metadata["productId"]; pid != "" && pid != product.ID {
		return nil, errors.PaymentFailed("Payment does not belong to this product", nil)
	}
	if email := intent.Metadata["email"]; email != "" && !strings.EqualFold(email, caller.Email()) {
		return nil, errors.PaymentFailed("Payment does not belong to this account", nil)
	}
	if intent.Amount != service.ToMinorUnits(product.PricePerUnit) {
		// a replay after a price change still returns the recorded order
		if existing, getErr := uc.orderRepo.GetByID(ctx, intent.ID); getErr == nil && strings.EqualFold(existing.Email, caller.Email()) {
			return existing, nil
		}
		return nil, errors.PaymentFailed("Payment amount does not match the product price", nil)
	}

	methods := input.PaymentMethod
	if len(methods) == 0 {
		methods = intent.PaymentMethodTypes
	}

	order := &entity.Order{
		ProductID:     product.ID,
		Email:         strings.ToLower(caller.Email()),
		VendorEmail:   product.VendorEmail,
		ItemName:      product.ItemName,
		MarketName:    product.MarketName,
		Amount:        service.FromMinorUnits(intent.Amount),
		Currency:      intent.Currency,
		TransactionID: intent.ID,
		PaymentMethod: methods,
		PaidAt:        time.Now(),
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, errors.CodeConflict) {
			existing, getErr := uc.orderRepo.GetByID(ctx, intent.ID)
			if getErr == nil && strings.EqualFold(existing.Email, caller.Email()) {
				return existing, nil
			}
		}
		return nil, err
	}

	logger.FromContext(ctx).Info().
		Str("transaction_id", order.TransactionID).
		Str("product_id", order.ProductID).
		Float64("amount", order.Amount).
		Msg("payment recorded")

	uc.notifier.Notify(product.VendorEmail, service.Notification{
		Type:    service.NotifyPaymentRecorded,
		Message: product.ItemName + " was purchased",
		Data:    map[string]string{"orderId": order.ID},
	})
	return order, nil
}

func (uc *PaymentUseCase) ListOrders(ctx context.Context, params access.ListParams) ([]*entity.Order, int64, error) {
	return uc.orderRepo.List(ctx, params)
}
