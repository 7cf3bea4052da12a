package usecase

import (
	"context"
	"strings"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/internal/domain/service"
	"bazaarbondhu/pkg/errors"
)

type AdvertisementUseCase struct {
	adRepo   repository.AdvertisementRepository
	notifier service.Notifier
}

func NewAdvertisementUseCase(adRepo repository.AdvertisementRepository, notifier service.Notifier) *AdvertisementUseCase {
	if notifier == nil {
		notifier = service.NopNotifier{}
	}
	return &AdvertisementUseCase{adRepo: adRepo, notifier: notifier}
}

type AdvertisementInput struct {
	Title       string
	Description string
	Image       string
}

func (uc *AdvertisementUseCase) CreateAdvertisement(ctx context.Context, vendor Caller, input AdvertisementInput) (*entity.Advertisement, error) {
	if !vendor.Is(entity.RoleVendor) {
		return nil, errors.Forbidden("Only vendors can create advertisements", nil)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.Validation("title", "title is required")
	}

	ad := &entity.Advertisement{
		VendorEmail: vendor.Email(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Image:       input.Image,
		Status:      entity.StatusPending,
	}
	if err := uc.adRepo.Create(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// UpdateAdvertisement lets a vendor edit their own advertisement. Any edit
// sends it back to moderation.
func (uc *AdvertisementUseCase) UpdateAdvertisement(ctx context.Context, vendor Caller, id string, input AdvertisementInput) (*entity.Advertisement, error) {
	if !vendor.Is(entity.RoleVendor) {
		return nil, errors.Forbidden("Only vendors can edit advertisements", nil)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.Validation("title", "title is required")
	}

	ad, err := uc.adRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(ad.VendorEmail, vendor.Email()) {
		return nil, errors.Forbidden("You can only edit your own advertisements", nil)
	}

	ad.Title = strings.TrimSpace(input.Title)
	ad.Description = input.Description
	ad.Image = input.Image
	ad.Status = entity.StatusPending
	ad.RejectionReason = ""
	if err := uc.adRepo.Update(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (uc *AdvertisementUseCase) ListAdvertisements(ctx context.Context, params access.ListParams) ([]*entity.Advertisement, int64, error) {
	return uc.adRepo.List(ctx, params)
}

// CurrentAdvertisements feeds the home page banner.
func (uc *AdvertisementUseCase) CurrentAdvertisements(ctx context.Context, limit int) ([]*entity.Advertisement, error) {
	ads, _, err := uc.adRepo.List(ctx, access.ListParams{
		Status: entity.StatusApproved,
		Sort:   access.SortDateDesc,
		Page:   1,
		Limit:  limit,
	})
	return ads, err
}

// SetStatus moves an advertisement to approved or rejected.
func (uc *AdvertisementUseCase) SetStatus(ctx context.Context, admin Caller, id, status, reason string) (*entity.Advertisement, error) {
	if !admin.Is(entity.RoleAdmin) {
		return nil, errors.Forbidden("Only admins can moderate advertisements", nil)
	}
	next := entity.ModerationStatus(strings.ToLower(strings.TrimSpace(status)))
	if next != entity.StatusApproved && next != entity.StatusRejected {
		return nil, errors.Validation("status", "status must be one of: approved rejected")
	}

	ad, err := uc.adRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ad.Status = next
	ad.RejectionReason = ""
	if next == entity.StatusRejected {
		ad.RejectionReason = strings.TrimSpace(reason)
	}
	if err := uc.adRepo.Update(ctx, ad); err != nil {
		return nil, err
	}

	kind := service.NotifyAdvertisementApproved
	if next == entity.StatusRejected {
		kind = service.NotifyAdvertisementRejected
	}
	uc.notifier.Notify(ad.VendorEmail, service.Notification{
		Type:    kind,
		Message: ad.Title + " is now " + string(next),
		Data:    map[string]string{"advertisementId": ad.ID, "by": admin.Email()},
	})
	return ad, nil
}

func (uc *AdvertisementUseCase) DeleteAdvertisement(ctx context.Context, caller Caller, id string) error {
	ad, err := uc.adRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	owner := caller.Is(entity.RoleVendor) && strings.EqualFold(ad.VendorEmail, caller.Email())
	if !owner && !caller.Is(entity.RoleAdmin) {
		return errors.Forbidden("You can only delete your own advertisements", nil)
	}
	return uc.adRepo.Delete(ctx, id)
}
