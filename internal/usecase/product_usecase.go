package usecase

import (
	"context"
	"strings"
	"time"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/internal/domain/service"
	"bazaarbondhu/pkg/errors"
	"bazaarbondhu/pkg/logger"
)

const LatestProductsLimit = 6

type ProductUseCase struct {
	productRepo repository.ProductRepository
	notifier    service.Notifier
	now         func() time.Time
}

func NewProductUseCase(productRepo repository.ProductRepository, notifier service.Notifier) *ProductUseCase {
	if notifier == nil {
		notifier = service.NopNotifier{}
	}
	return &ProductUseCase{
		productRepo: productRepo,
		notifier:    notifier,
		now:         time.Now,
	}
}

type ProductInput struct {
	MarketName        string
	MarketDescription string
	Date              string
	ItemName          string
	ItemDescription   string
	Image             string
	PricePerUnit      float64
	PriceHistory      []entity.PricePoint
}

func validDate(field, value string) error {
	if _, err := time.Parse(entity.DateLayout, value); err != nil {
		return errors.Validation(field, field+" must be a date in YYYY-MM-DD format")
	}
	return nil
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.ItemName) == "" {
		return errors.Validation("itemName", "itemName is required")
	}
	if strings.TrimSpace(in.MarketName) == "" {
		return errors.Validation("marketName", "marketName is required")
	}
	if in.PricePerUnit <= 0 {
		return errors.Validation("pricePerUnit", "pricePerUnit must be greater than 0")
	}
	if in.Date != "" {
		if err := validDate("date", in.Date); err != nil {
			return err
		}
	}
	for _, pt := range in.PriceHistory {
		if err := validDate("priceHistory.date", pt.Date); err != nil {
			return err
		}
		if pt.Price <= 0 {
			return errors.Validation("priceHistory.price", "price must be greater than 0")
		}
	}
	return nil
}

// CreateProduct stores a new pending product owned by the calling vendor.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, vendor Caller, input ProductInput) (*entity.Product, error) {
	if !vendor.Is(entity.RoleVendor) {
		return nil, errors.Forbidden("Only vendors can add products", nil)
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	date := input.Date
	if date == "" {
		date = repository.Today(uc.now())
	}
	history := append([]entity.PricePoint(nil), input.PriceHistory...)
	if len(history) == 0 {
		history = []entity.PricePoint{{Date: date, Price: input.PricePerUnit}}
	}

	product := &entity.Product{
		VendorEmail:       vendor.Email(),
		VendorName:        vendor.Identity.DisplayName,
		MarketName:        strings.TrimSpace(input.MarketName),
		MarketDescription: input.MarketDescription,
		ItemName:          strings.TrimSpace(input.ItemName),
		ItemDescription:   input.ItemDescription,
		Image:             input.Image,
		PricePerUnit:      input.PricePerUnit,
		Date:              date,
		PriceHistory:      repository.PriceHistorySince(history, ""),
		Status:            entity.StatusPending,
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct edits a vendor's own product. A price change is appended to
// the price history, and any edit sends the product back to moderation.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, vendor Caller, id string, input ProductInput) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !vendor.Is(entity.RoleVendor) || !strings.EqualFold(product.VendorEmail, vendor.Email()) {
		return nil, errors.Forbidden("You can only update your own products", nil)
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	if input.PricePerUnit != product.PricePerUnit {
		product.PriceHistory = appendPricePoint(product.PriceHistory, entity.PricePoint{
			Date:  repository.Today(uc.now()),
			Price: input.PricePerUnit,
		})
	}

	product.MarketName = strings.TrimSpace(input.MarketName)
	product.MarketDescription = input.MarketDescription
	product.ItemName = strings.TrimSpace(input.ItemName)
	product.ItemDescription = input.ItemDescription
	product.PricePerUnit = input.PricePerUnit
	if input.Image != "" {
		product.Image = input.Image
	}
	if input.Date != "" {
		product.Date = input.Date
	}
	product.Status = entity.StatusPending
	product.RejectionReason = ""
	product.RejectionFeedback = ""

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// appendPricePoint replaces a same-day point instead of duplicating it.
func appendPricePoint(history []entity.PricePoint, pt entity.PricePoint) []entity.PricePoint {
	out := append([]entity.PricePoint(nil), history...)
	for i := range out {
		if out[i].Date == pt.Date {
			out[i].Price = pt.Price
			return out
		}
	}
	return append(out, pt)
}

// GetProduct hides unapproved products from everyone but their vendor and admins.
func (uc *ProductUseCase) GetProduct(ctx context.Context, caller Caller, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(caller, product) {
		return nil, errors.NotFound("Product", nil)
	}
	return product, nil
}

func canSee(caller Caller, p *entity.Product) bool {
	if p.Status == entity.StatusApproved || caller.Is(entity.RoleAdmin) {
		return true
	}
	return caller.Is(entity.RoleVendor) && strings.EqualFold(p.VendorEmail, caller.Email())
}

// ListProducts expects params produced by access.BuildListParams.
func (uc *ProductUseCase) ListProducts(ctx context.Context, params access.ListParams) ([]*entity.Product, int64, error) {
	if params.StartDate != "" {
		if err := validDate("startDate", params.StartDate); err != nil {
			return nil, 0, err
		}
	}
	if params.EndDate != "" {
		if err := validDate("endDate", params.EndDate); err != nil {
			return nil, 0, err
		}
	}
	return uc.productRepo.List(ctx, params)
}

func (uc *ProductUseCase) LatestProducts(ctx context.Context) ([]*entity.Product, error) {
	return uc.productRepo.Latest(ctx, LatestProductsLimit)
}

// PriceHistory returns the points dated on or after since, oldest first.
func (uc *ProductUseCase) PriceHistory(ctx context.Context, caller Caller, id, since string) ([]entity.PricePoint, error) {
	if since != "" {
		if err := validDate("date", since); err != nil {
			return nil, err
		}
	}
	product, err := uc.GetProduct(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return repository.PriceHistorySince(product.PriceHistory, since), nil
}

func (uc *ProductUseCase) ApproveProduct(ctx context.Context, admin Caller, id string) (*entity.Product, error) {
	if !admin.Is(entity.RoleAdmin) {
		return nil, errors.Forbidden("Only admins can moderate products", nil)
	}
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Status = entity.StatusApproved
	product.RejectionReason = ""
	product.RejectionFeedback = ""
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().Str("admin", admin.Email()).Str("product_id", id).Msg("product approved")
	uc.notifier.Notify(product.VendorEmail, service.Notification{
		Type:    service.NotifyProductApproved,
		Message: product.ItemName + " was approved",
		Data:    map[string]string{"productId": product.ID},
	})
	return product, nil
}

// RejectProduct needs both a reason and feedback; without them the product
// is left untouched.
func (uc *ProductUseCase) RejectProduct(ctx context.Context, admin Caller, id, reason, feedback string) (*entity.Product, error) {
	if !admin.Is(entity.RoleAdmin) {
		return nil, errors.Forbidden("Only admins can moderate products", nil)
	}
	reason = strings.TrimSpace(reason)
	feedback = strings.TrimSpace(feedback)
	if reason == "" {
		return nil, errors.Validation("reason", "reason is required")
	}
	if feedback == "" {
		return nil, errors.Validation("feedback", "feedback is required")
	}

	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Status = entity.StatusRejected
	product.RejectionReason = reason
	product.RejectionFeedback = feedback
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().Str("admin", admin.Email()).Str("product_id", id).Msg("product rejected")
	uc.notifier.Notify(product.VendorEmail, service.Notification{
		Type:    service.NotifyProductRejected,
		Message: product.ItemName + " was rejected: " + reason,
		Data:    map[string]string{"productId": product.ID, "reason": reason, "feedback": feedback},
	})
	return product, nil
}

// DeleteProduct lets admins remove anything and vendors remove their own.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, caller Caller, id string) error {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	owner := caller.Is(entity.RoleVendor) && strings.EqualFold(product.VendorEmail, caller.Email())
	if !owner && !caller.Is(entity.RoleAdmin) {
		return errors.Forbidden("You can only delete your own products", nil)
	}
	return uc.productRepo.Delete(ctx, id)
}
