package v1

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"sunushop-backend/internal/domain"
	"sunushop-backend/internal/usecase"
	"sunushop-backend/pkg/countries"
)

type mockDelivery struct{ mock.Mock }

func (m *mockDelivery) Quote(ctx context.Context, req domain.QuoteRequest) domain.DeliveryQuote {
	return m.Called(ctx, req).Get(0).(domain.DeliveryQuote)
}

func (m *mockDelivery) HomeCountry() string { return "SN" }

func (m *mockDelivery) ActiveCities(ctx context.Context) ([]domain.City, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.City), args.Error(1)
}

func (m *mockDelivery) ActiveRegions(ctx context.Context) ([]domain.Region, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Region), args.Error(1)
}

func (m *mockDelivery) ActiveZones(ctx context.Context) ([]domain.InternationalZone, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.InternationalZone), args.Error(1)
}

func (m *mockDelivery) ActiveTransporteurs(ctx context.Context) ([]domain.Transporteur, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Transporteur), args.Error(1)
}

type mockCheckout struct{ mock.Mock }

func (m *mockCheckout) PlaceOrder(ctx context.Context, userID *string, req usecase.CheckoutRequest) (*usecase.CheckoutResult, error) {
	args := m.Called(ctx, userID, req)
	res, _ := args.Get(0).(*usecase.CheckoutResult)
	return res, args.Error(1)
}

func (m *mockCheckout) GetMyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockCheckout) Confirmation(ctx context.Context, orderNumber, email string) (*domain.Order, error) {
	args := m.Called(ctx, orderNumber, email)
	o, _ := args.Get(0).(*domain.Order)
	return o, args.Error(1)
}

type mockOrderAdmin struct{ mock.Mock }

func (m *mockOrderAdmin) GetAllOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Order), args.Get(1).(int64), args.Error(2)
}

func (m *mockOrderAdmin) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*domain.Order)
	return o, args.Error(1)
}

func (m *mockOrderAdmin) UpdateOrderStatus(ctx context.Context, orderID, newStatus, note, actorID string) error {
	return m.Called(ctx, orderID, newStatus, note, actorID).Error(0)
}

func (m *mockOrderAdmin) GetOrderHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.OrderHistory), args.Error(1)
}

func (m *mockOrderAdmin) HandlePaymentCallback(ctx context.Context, payload []byte, signature string) (*domain.Order, error) {
	args := m.Called(ctx, payload, signature)
	o, _ := args.Get(0).(*domain.Order)
	return o, args.Error(1)
}

type mockLocations struct{ mock.Mock }

func (m *mockLocations) SearchCities(ctx context.Context, sessionKey, query, country string) ([]domain.CityResult, error) {
	args := m.Called(ctx, sessionKey, query, country)
	res, _ := args.Get(0).([]domain.CityResult)
	return res, args.Error(1)
}

func (m *mockLocations) Countries(query string) []countries.Country {
	return countries.Search(query)
}

type mockRevenue struct{ mock.Mock }

func (m *mockRevenue) VendorRevenue(ctx context.Context, vendorID string, start, end time.Time) (*domain.VendorRevenue, error) {
	args := m.Called(ctx, vendorID, start, end)
	rev, _ := args.Get(0).(*domain.VendorRevenue)
	return rev, args.Error(1)
}

func (m *mockRevenue) Overview(ctx context.Context, start, end time.Time) (*domain.SalesOverview, error) {
	args := m.Called(ctx, start, end)
	ov, _ := args.Get(0).(*domain.SalesOverview)
	return ov, args.Error(1)
}

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Register(ctx context.Context, req usecase.RegisterRequest) (*usecase.AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*usecase.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuth) Login(ctx context.Context, req usecase.LoginRequest) (*usecase.AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*usecase.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuth) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockAuth) GetAllUsers(ctx context.Context, limit, offset int) ([]*domain.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*domain.User), args.Get(1).(int64), args.Error(2)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) GetCategoryTree(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCatalog) GetCategoriesFlat(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCatalog) CreateCategory(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCatalog) UpdateCategory(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCatalog) DeleteCategory(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalog) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, domain.Pagination, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Product), args.Get(1).(domain.Pagination), args.Error(2)
}

func (m *mockCatalog) ListDeletedProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, domain.Pagination, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Product), args.Get(1).(domain.Pagination), args.Error(2)
}

func (m *mockCatalog) GetProduct(ctx context.Context, id string, includeHidden bool) (*domain.Product, error) {
	args := m.Called(ctx, id, includeHidden)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (m *mockCatalog) CreateProduct(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockCatalog) UpdateProduct(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockCatalog) SoftDeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalog) RestoreProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type fakeStore struct {
	folder      string
	contentType string
	size        int
}

func (f *fakeStore) UploadImage(ctx context.Context, folder string, data []byte, contentType string) (string, error) {
	f.folder, f.contentType, f.size = folder, contentType, len(data)
	return "https://cdn.sunushop.sn/" + folder + "/img.webp", nil
}
