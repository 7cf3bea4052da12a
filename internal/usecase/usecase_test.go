package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaarbondhu/internal/adapter/cache"
	"bazaarbondhu/internal/adapter/repository/memory"
	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
	"bazaarbondhu/internal/domain/service"
	"bazaarbondhu/pkg/errors"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[string][]service.Notification
}

func (n *recordingNotifier) Notify(email string, note service.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sent == nil {
		n.sent = map[string][]service.Notification{}
	}
	n.sent[email] = append(n.sent[email], note)
}

func (n *recordingNotifier) count(email string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent[email])
}

func caller(email string, role entity.Role) Caller {
	return Caller{Identity: access.Identity{UID: "uid-" + email, Email: email, DisplayName: email}, Role: role}
}

var (
	vendor = caller("vendor@example.com", entity.RoleVendor)
	admin  = caller("admin@example.com", entity.RoleAdmin)
	buyer  = caller("buyer@example.com", entity.RoleUser)
)

func catalog(t *testing.T, uc *ProductUseCase) []*entity.Product {
	params, err := access.BuildListParams(access.ResourceProducts, access.ViewCatalog, "", nil, access.Filters{})
	require.NoError(t, err)
	items, _, err := uc.ListProducts(context.Background(), params)
	require.NoError(t, err)
	return items
}

func TestProductUseCase_SubmitApprovePublish(t *testing.T) {
	notifier := &recordingNotifier{}
	uc := NewProductUseCase(memory.NewProductRepository(), notifier)
	ctx := context.Background()

	p, err := uc.CreateProduct(ctx, vendor, ProductInput{
		MarketName:   "Karwan Bazar",
		ItemName:     "Onion",
		PricePerUnit: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, p.Status)
	assert.Equal(t, "vendor@example.com", p.VendorEmail)
	require.Len(t, p.PriceHistory, 1)
	assert.Empty(t, catalog(t, uc), "pending products stay out of the catalog")

	approved, err := uc.ApproveProduct(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, approved.Status)

	items := catalog(t, uc)
	require.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].ID)
	assert.Equal(t, 1, notifier.count("vendor@example.com"))
}

func TestProductUseCase_RejectWithoutFeedbackLeavesPending(t *testing.T) {
	repo := memory.NewProductRepository()
	uc := NewProductUseCase(repo, nil)
	ctx := context.Background()

	p, err := uc.CreateProduct(ctx, vendor, ProductInput{MarketName: "Mirpur", ItemName: "Rice", PricePerUnit: 70})
	require.NoError(t, err)

	_, err = uc.RejectProduct(ctx, admin, p.ID, "Blurry photo", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeValidation))

	stored, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, stored.Status)
	assert.Empty(t, stored.RejectionReason)

	rejected, err := uc.RejectProduct(ctx, admin, p.ID, "Blurry photo", "Upload a clearer image")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, rejected.Status)
	assert.Equal(t, "Upload a clearer image", rejected.RejectionFeedback)
}

func TestProductUseCase_OnlyVendorsCreate(t *testing.T) {
	uc := NewProductUseCase(memory.NewProductRepository(), nil)

	for _, c := range []Caller{buyer, admin, caller("nobody@example.com", "")} {
		_, err := uc.CreateProduct(context.Background(), c, ProductInput{MarketName: "m", ItemName: "i", PricePerUnit: 1})
		assert.True(t, errors.Is(err, errors.CodeForbidden), "role %q", c.Role)
	}
}

func TestProductUseCase_ModerationIsAdminOnly(t *testing.T) {
	uc := NewProductUseCase(memory.NewProductRepository(), nil)
	ctx := context.Background()
	p, err := uc.CreateProduct(ctx, vendor, ProductInput{MarketName: "m", ItemName: "Chili", PricePerUnit: 5})
	require.NoError(t, err)

	for _, c := range []Caller{vendor, buyer, caller("nobody@example.com", "")} {
		_, err := uc.ApproveProduct(ctx, c, p.ID)
		assert.True(t, errors.Is(err, errors.CodeForbidden), "approve as %q", c.Role)
		_, err = uc.RejectProduct(ctx, c, p.ID, "Blurry", "Retake the photo")
		assert.True(t, errors.Is(err, errors.CodeForbidden), "reject as %q", c.Role)
	}

	got, err := uc.GetProduct(ctx, vendor, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status)
}

func TestProductUseCase_UnapprovedHiddenFromOthers(t *testing.T) {
	uc := NewProductUseCase(memory.NewProductRepository(), nil)
	ctx := context.Background()

	p, err := uc.CreateProduct(ctx, vendor, ProductInput{MarketName: "m", ItemName: "Potato", PricePerUnit: 30})
	require.NoError(t, err)

	_, err = uc.GetProduct(ctx, buyer, p.ID)
	assert.True(t, errors.IsNotFound(err))
	_, err = uc.GetProduct(ctx, caller("other-vendor@example.com", entity.RoleVendor), p.ID)
	assert.True(t, errors.IsNotFound(err))

	_, err = uc.GetProduct(ctx, vendor, p.ID)
	assert.NoError(t, err)
	_, err = uc.GetProduct(ctx, admin, p.ID)
	assert.NoError(t, err)
}

func TestProductUseCase_VendorListIsAlwaysOwn(t *testing.T) {
	uc := NewProductUseCase(memory.NewProductRepository(), nil)
	ctx := context.Background()

	other := caller("other@example.com", entity.RoleVendor)
	_, err := uc.CreateProduct(ctx, vendor, ProductInput{MarketName: "m", ItemName: "Egg", PricePerUnit: 12})
	require.NoError(t, err)
	_, err = uc.CreateProduct(ctx, other, ProductInput{MarketName: "m", ItemName: "Fish", PricePerUnit: 400})
	require.NoError(t, err)

	id := vendor.Identity
	params, err := access.BuildListParams(access.ResourceProducts, access.ViewMine, entity.RoleVendor, &id,
		access.Filters{VendorEmail: "other@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "vendor@example.com", params.VendorEmail)

	items, total, err := uc.ListProducts(ctx, params)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Egg", items[0].ItemName)
}

func TestProductUseCase_PriceChangeExtendsHistory(t *testing.T) {
	uc := NewProductUseCase(memory.NewProductRepository(), nil)
	ctx := context.Background()
	day := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return day }

	p, err := uc.CreateProduct(ctx, vendor, ProductInput{MarketName: "m", ItemName: "Lentil", PricePerUnit: 100})
	require.NoError(t, err)

	day = day.AddDate(0, 0, 1)
	updated, err := uc.UpdateProduct(ctx, vendor, p.ID, ProductInput{MarketName: "m", ItemName: "Lentil", PricePerUnit: 110})
	require.NoError(t, err)
	require.Len(t, updated.PriceHistory, 2)
	assert.Equal(t, "2025-03-02", updated.PriceHistory[1].Date)
	assert.Equal(t, 110.0, updated.PriceHistory[1].Price)
	assert.Equal(t, entity.StatusPending, updated.Status)
}

func TestRoleResolver_FailsClosed(t *testing.T) {
	users := memory.NewUserRepository()
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &entity.User{Email: "odd@example.com", Role: entity.Role("superuser")}))
	require.NoError(t, users.Create(ctx, &entity.User{Email: "v@example.com", Role: entity.RoleVendor}))

	r := NewRoleResolver(users, cache.NewMemoryRoleCache(), time.Minute)

	_, err := r.Resolve(ctx, "missing@example.com")
	assert.True(t, errors.Is(err, errors.CodeRoleNotFound))

	_, err = r.Resolve(ctx, "odd@example.com")
	assert.True(t, errors.Is(err, errors.CodeRoleResolution))

	_, err = r.Resolve(ctx, "")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))

	role, err := r.Resolve(ctx, "V@Example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendor, role)
}

func TestUserUseCase_ChangeRoleInvalidatesCache(t *testing.T) {
	users := memory.NewUserRepository()
	roles := NewRoleResolver(users, cache.NewMemoryRoleCache(), time.Hour)
	uc := NewUserUseCase(users, roles, nil)
	ctx := context.Background()

	u, created, err := uc.SyncUser(ctx, buyer.Identity)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, entity.RoleUser, u.Role)

	role, err := roles.Resolve(ctx, buyer.Email())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, role)

	_, err = uc.ChangeRole(ctx, admin, u.ID, "vendor")
	require.NoError(t, err)

	role, err = roles.Resolve(ctx, buyer.Email())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendor, role, "cached role is dropped on change")

	_, created, err = uc.SyncUser(ctx, buyer.Identity)
	require.NoError(t, err)
	assert.False(t, created)
	role, err = roles.Resolve(ctx, buyer.Email())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendor, role, "sign-in never resets the role")
}

// slowUsers holds GetByEmail until release is closed.
type slowUsers struct {
	repository.UserRepository
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *slowUsers) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.UserRepository.GetByEmail(ctx, email)
	first := false
	s.once.Do(func() { first = true })
	if first {
		close(s.entered)
		<-s.release
	}
	return u, err
}

func TestUserUseCase_DemotionWinsOverLookupInFlight(t *testing.T) {
	ctx := context.Background()
	users := &slowUsers{
		UserRepository: memory.NewUserRepository(),
		entered:        make(chan struct{}),
		release:        make(chan struct{}),
	}
	staff := &entity.User{Email: "staff@example.com", Role: entity.RoleAdmin}
	require.NoError(t, users.Create(ctx, staff))

	roles := NewRoleResolver(users, cache.NewMemoryRoleCache(), time.Hour)
	uc := NewUserUseCase(users, roles, nil)

	done := make(chan entity.Role, 1)
	go func() {
		role, _ := roles.Resolve(ctx, staff.Email)
		done <- role
	}()
	<-users.entered

	_, err := uc.ChangeRole(ctx, admin, staff.ID, "user")
	require.NoError(t, err)
	close(users.release)
	assert.Equal(t, entity.RoleAdmin, <-done, "the lookup read the record before the change")

	role, err := roles.Resolve(ctx, staff.Email)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, role)
}

func TestUserUseCase_RoleOfOthersIsAdminOnly(t *testing.T) {
	users := memory.NewUserRepository()
	uc := NewUserUseCase(users, NewRoleResolver(users, nil, time.Minute), nil)
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &entity.User{Email: vendor.Email(), Role: entity.RoleVendor}))

	_, err := uc.RoleOf(ctx, buyer, vendor.Email())
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	role, err := uc.RoleOf(ctx, admin, vendor.Email())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendor, role)
}

func TestUserUseCase_ChangeRoleIsAdminOnly(t *testing.T) {
	users := memory.NewUserRepository()
	uc := NewUserUseCase(users, NewRoleResolver(users, nil, time.Minute), nil)
	ctx := context.Background()
	target := &entity.User{Email: "target@example.com", Role: entity.RoleUser}
	require.NoError(t, users.Create(ctx, target))

	_, err := uc.ChangeRole(ctx, vendor, target.ID, "admin")
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	stored, err := users.GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, stored.Role)
}

func TestUserUseCase_AdminCannotDemoteSelf(t *testing.T) {
	users := memory.NewUserRepository()
	uc := NewUserUseCase(users, NewRoleResolver(users, nil, time.Minute), nil)
	ctx := context.Background()
	self := &entity.User{Email: admin.Email(), Role: entity.RoleAdmin}
	require.NoError(t, users.Create(ctx, self))

	_, err := uc.ChangeRole(ctx, admin, self.ID, "user")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = uc.ChangeRole(ctx, admin, self.ID, "root")
	assert.True(t, errors.Is(err, errors.CodeValidation))
}

func approvedProduct(t *testing.T, products repository.ProductRepository, price float64) *entity.Product {
	p := &entity.Product{
		VendorEmail:  vendor.Email(),
		MarketName:   "Karwan Bazar",
		ItemName:     "Garlic",
		PricePerUnit: price,
		Status:       entity.StatusApproved,
	}
	require.NoError(t, products.Create(context.Background(), p))
	return p
}

func TestWatchlistUseCase_OnlyUsers(t *testing.T) {
	products := memory.NewProductRepository()
	uc := NewWatchlistUseCase(memory.NewWatchlistRepository(), products)
	ctx := context.Background()
	p := approvedProduct(t, products, 20)

	for _, c := range []Caller{vendor, admin} {
		_, err := uc.AddToWatchlist(ctx, c, p.ID)
		assert.True(t, errors.Is(err, errors.CodeForbidden), "role %q", c.Role)
	}

	item, err := uc.AddToWatchlist(ctx, buyer, p.ID)
	require.NoError(t, err)

	_, err = uc.AddToWatchlist(ctx, buyer, p.ID)
	assert.True(t, errors.Is(err, errors.CodeConflict))

	items, total, err := uc.GetWatchlist(ctx, buyer, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Garlic", items[0].Product.ItemName)

	err = uc.RemoveFromWatchlist(ctx, caller("someone@example.com", entity.RoleUser), item.ID)
	assert.True(t, errors.IsNotFound(err))
	require.NoError(t, uc.RemoveFromWatchlist(ctx, buyer, item.ID))
}

func TestPaymentUseCase_RecordIsIdempotent(t *testing.T) {
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	gateway := service.NewSimulatedPaymentService()
	notifier := &recordingNotifier{}
	uc := NewPaymentUseCase(orders, products, gateway, notifier, "BDT")
	ctx := context.Background()
	p := approvedProduct(t, products, 125.5)

	intent, err := uc.CreatePaymentIntent(ctx, buyer, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 125.5, intent.Amount)
	assert.Equal(t, "bdt", intent.Currency)

	_, err = uc.RecordPayment(ctx, buyer, RecordPaymentInput{ProductID: p.ID, TransactionID: intent.PaymentIntentID})
	assert.True(t, errors.Is(err, errors.CodePaymentFailed), "unconfirmed intents are refused")

	require.NoError(t, gateway.Confirm(intent.PaymentIntentID))

	first, err := uc.RecordPayment(ctx, buyer, RecordPaymentInput{ProductID: p.ID, TransactionID: intent.PaymentIntentID})
	require.NoError(t, err)
	second, err := uc.RecordPayment(ctx, buyer, RecordPaymentInput{ProductID: p.ID, TransactionID: intent.PaymentIntentID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, total, err := orders.List(ctx, access.ListParams{Resource: access.ResourceOrders, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, 1, notifier.count(vendor.Email()))
}

func TestPaymentUseCase_ForeignIntentRejected(t *testing.T) {
	products := memory.NewProductRepository()
	gateway := service.NewSimulatedPaymentService()
	uc := NewPaymentUseCase(memory.NewOrderRepository(), products, gateway, nil, "usd")
	ctx := context.Background()
	p := approvedProduct(t, products, 10)

	intent, err := uc.CreatePaymentIntent(ctx, buyer, p.ID)
	require.NoError(t, err)
	require.NoError(t, gateway.Confirm(intent.PaymentIntentID))

	thief := caller("thief@example.com", entity.RoleUser)
	_, err = uc.RecordPayment(ctx, thief, RecordPaymentInput{ProductID: p.ID, TransactionID: intent.PaymentIntentID})
	assert.True(t, errors.Is(err, errors.CodePaymentFailed))
}

func TestPaymentUseCase_OnlyUsersPay(t *testing.T) {
	products := memory.NewProductRepository()
	uc := NewPaymentUseCase(memory.NewOrderRepository(), products, service.NewSimulatedPaymentService(), nil, "usd")
	p := approvedProduct(t, products, 10)

	_, err := uc.CreatePaymentIntent(context.Background(), vendor, p.ID)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
}

func TestPaymentUseCase_AmountMustMatchCurrentPrice(t *testing.T) {
	products := memory.NewProductRepository()
	gateway := service.NewSimulatedPaymentService()
	uc := NewPaymentUseCase(memory.NewOrderRepository(), products, gateway, nil, "bdt")
	ctx := context.Background()
	p := approvedProduct(t, products, 40)

	paid, err := uc.CreatePaymentIntent(ctx, buyer, p.ID)
	require.NoError(t, err)
	require.NoError(t, gateway.Confirm(paid.PaymentIntentID))
	order, err := uc.RecordPayment(ctx, buyer, RecordPaymentInput{ProductID: p.ID, TransactionID: paid.PaymentIntentID})
	require.NoError(t, err)

	stale, err := uc.CreatePaymentIntent(ctx, buyer, p.ID)
	require.NoError(t, err)
	require.NoError(t, gateway.Confirm(stale.PaymentIntentID))

	p.PricePerUnit = 55
	require.NoError(t, products.Update(ctx, p))

	_, err = uc.RecordPayment(ctx, buyer, RecordPaymentInput{ProductID: p.ID, TransactionID: stale.PaymentIntentID})
	assert.True(t, errors.Is(err, errors.CodePaymentFailed))

	replay, err := uc.RecordPayment(ctx, buyer, RecordPaymentInput{ProductID: p.ID, TransactionID: paid.PaymentIntentID})
	require.NoError(t, err)
	assert.Equal(t, order.ID, replay.ID)
}

func TestAdvertisementUseCase_OwnerEditReturnsToReview(t *testing.T) {
	notifier := &recordingNotifier{}
	uc := NewAdvertisementUseCase(memory.NewAdvertisementRepository(), notifier)
	ctx := context.Background()

	ad, err := uc.CreateAdvertisement(ctx, vendor, AdvertisementInput{Title: "Fresh hilsa"})
	require.NoError(t, err)
	_, err = uc.SetStatus(ctx, admin, ad.ID, "rejected", "Too dark")
	require.NoError(t, err)

	other := caller("other@example.com", entity.RoleVendor)
	for _, c := range []Caller{other, admin, buyer} {
		_, err := uc.UpdateAdvertisement(ctx, c, ad.ID, AdvertisementInput{Title: "Taken"})
		assert.True(t, errors.Is(err, errors.CodeForbidden), "edit as %s", c.Email())
	}

	_, err = uc.UpdateAdvertisement(ctx, vendor, ad.ID, AdvertisementInput{Title: "  "})
	assert.True(t, errors.Is(err, errors.CodeValidation))

	updated, err := uc.UpdateAdvertisement(ctx, vendor, ad.ID, AdvertisementInput{Title: "Fresh hilsa, brighter", Image: "https://img.example.com/h.png"})
	require.NoError(t, err)
	assert.Equal(t, "Fresh hilsa, brighter", updated.Title)
	assert.Equal(t, entity.StatusPending, updated.Status)
	assert.Empty(t, updated.RejectionReason)

	current, err := uc.CurrentAdvertisements(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, current)

	_, err = uc.UpdateAdvertisement(ctx, vendor, "missing", AdvertisementInput{Title: "x"})
	assert.True(t, errors.IsNotFound(err))
}

func TestAdvertisementUseCase_StatusIsAdminOnly(t *testing.T) {
	uc := NewAdvertisementUseCase(memory.NewAdvertisementRepository(), nil)
	ctx := context.Background()
	ad, err := uc.CreateAdvertisement(ctx, vendor, AdvertisementInput{Title: "Mango week"})
	require.NoError(t, err)

	_, err = uc.SetStatus(ctx, vendor, ad.ID, "approved", "")
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	approved, err := uc.SetStatus(ctx, admin, ad.ID, "approved", "")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, approved.Status)
}
