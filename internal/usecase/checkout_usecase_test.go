package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sunushop-backend/config"
	"sunushop-backend/internal/domain"
)

type checkoutFixture struct {
	orders    *mockOrderRepo
	products  *mockProductRepo
	payment   *mockPayment
	publisher *mockPublisher
	uc        *CheckoutUsecase
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	deliveryRepo := &mockDeliveryRepo{}
	deliveryRepo.expectCatalog(testCatalog(t))
	cfg := &config.Config{MaxOrderQuantity: 10, FrontendURL: "https://sunushop.sn/"}
	c := newMapCache()

	f := &checkoutFixture{
		orders:    &mockOrderRepo{},
		products:  &mockProductRepo{},
		payment:   &mockPayment{},
		publisher: &mockPublisher{},
	}
	f.uc = NewCheckoutUsecase(f.orders, f.products, NewDeliveryUsecase(deliveryRepo, c, NewDeliveryResolver("SN"), cfg),
		f.payment, f.publisher, fakeTx{}, c, cfg)
	return f
}

func (f *checkoutFixture) withProducts(products ...domain.Product) {
	f.products.On("GetProductsByIDs", mock.Anything, mock.Anything).Return(products, nil)
}

func (f *checkoutFixture) expectPersist() {
	f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("CreateOrderHistory", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(nil)
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }

var (
	tshirt = domain.Product{ID: "p-tshirt", Name: "T-shirt Wax", Price: 10000, SalePrice: int64Ptr(8000), IsCustomizable: true, IsActive: true}
	design = domain.Product{ID: "p-design", Name: "Baobab Sunset", Price: 5000, VendorID: strPtr("v-1"), IsVendorDesign: true, DesignCommission: 500, IsCustomizable: true, IsActive: true}
	mug    = domain.Product{ID: "p-mug", Name: "Mug Teranga", Price: 3500, IsActive: true}
)

func checkoutRequest(city, country, method string, items ...CheckoutItem) CheckoutRequest {
	return CheckoutRequest{
		Items:           items,
		Customer:        domain.CustomerInfo{FirstName: "Awa", LastName: "Ndiaye", Email: "Awa@Example.sn", Phone: "+221770000000"},
		ShippingAddress: domain.ShippingAddress{Address: "Rue 10", City: city, Country: country},
		PaymentMethod:   method,
	}
}

func TestPlaceOrderCashOnDelivery(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withProducts(tshirt, design)
	f.expectPersist()

	req := checkoutRequest("Dakar", "sn", domain.PaymentMethodCashDelivery,
		CheckoutItem{ProductID: "p-tshirt", Quantity: 2, Customization: domain.JSONB{"text": "Teranga"}},
		CheckoutItem{ProductID: "p-design", Quantity: 1, Customization: domain.JSONB{"color": "red"}},
	)

	res, err := f.uc.PlaceOrder(context.Background(), nil, req)
	require.NoError(t, err)

	o := res.Order
	assert.Regexp(t, regexp.MustCompile(`^CMD-\d{8}-[A-Z0-9]{6}$`), o.OrderNumber)
	assert.Nil(t, o.UserID)
	assert.Equal(t, int64(21000), o.Subtotal)
	assert.Equal(t, int64(1500), o.DeliveryFee)
	assert.Equal(t, int64(22500), o.TotalAmount)
	assert.Equal(t, domain.OrderStatusPending, o.Status)
	assert.Equal(t, domain.PaymentStatusPending, o.PaymentStatus)

	require.Len(t, o.Items, 2)
	assert.Equal(t, int64(8000), o.Items[0].UnitPrice)
	assert.Equal(t, int64(16000), o.Items[0].LineTotal)
	assert.Equal(t, "Teranga", o.Items[0].Customization["text"])
	assert.Nil(t, o.Items[1].Customization)
	assert.Equal(t, int64(500), o.Items[1].DesignCommission)
	assert.Equal(t, o.ID, o.Items[1].OrderID)

	assert.Equal(t, domain.DeliveryTypeCity, o.DeliveryInfo.DeliveryType)
	assert.Equal(t, "c-dakar", o.DeliveryInfo.CityID)
	assert.Equal(t, "SN", o.DeliveryInfo.Country)

	assert.Equal(t, "/commande/confirmation?amount=22500&email=awa%40example.sn&orderNumber="+o.OrderNumber, res.RedirectURL)

	f.publisher.AssertCalled(t, "PublishOrderPlaced", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.Type == domain.EventOrderPlaced && e.OrderNumber == o.OrderNumber && e.Guest && e.ItemCount == 2
	}))
	f.payment.AssertNotCalled(t, "CreateCheckout", mock.Anything, mock.Anything)
}

func TestPlaceOrderMatchesStreetAddress(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withProducts(mug)
	f.expectPersist()

	req := checkoutRequest("Quartier inconnu", "SN", domain.PaymentMethodCashDelivery, CheckoutItem{ProductID: "p-mug", Quantity: 1})
	req.ShippingAddress.Address = "Rue 10, Point E"

	res, err := f.uc.PlaceOrder(context.Background(), strPtr("u-1"), req)
	require.NoError(t, err)
	assert.Equal(t, "c-pointe", res.Order.DeliveryInfo.CityID)
	assert.Equal(t, int64(5000), res.Order.TotalAmount)
}

func TestPlaceOrderOnlinePayment(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withProducts(mug)
	f.expectPersist()
	f.payment.On("CreateCheckout", mock.Anything, mock.MatchedBy(func(r domain.PaymentRequest) bool {
		return r.Amount == 23500 && r.Currency == "XOF" && r.Method == domain.PaymentMethodWave &&
			regexp.MustCompile(`^https://sunushop\.sn/commande/confirmation\?`).MatchString(r.ReturnURL)
	})).Return(&domain.PaymentSession{Reference: "pay_123", RedirectURL: "https://pay.example/checkout/pay_123"}, nil)
	f.orders.On("SetPaymentReference", mock.Anything, mock.Anything, "pay_123", "https://pay.example/checkout/pay_123").Return(nil)

	req := checkoutRequest("Paris", "FR", domain.PaymentMethodWave, CheckoutItem{ProductID: "p-mug", Quantity: 1})
	req.ZoneTarifID = "tf-dhl"

	res, err := f.uc.PlaceOrder(context.Background(), strPtr("u-1"), req)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/checkout/pay_123", res.RedirectURL)

	info := res.Order.DeliveryInfo
	assert.Equal(t, domain.DeliveryTypeInternational, info.DeliveryType)
	assert.Equal(t, "z-eu", info.ZoneID)
	assert.Equal(t, "tf-dhl", info.ZoneTarifID)
	assert.Equal(t, "DHL", info.TransporteurName)
	assert.Equal(t, "https://cdn.example.sn/dhl.webp", info.TransporteurLogo)
	assert.Equal(t, int64(20000), info.DeliveryFee)
	assert.Len(t, info.Metadata.AvailableCarriers, 3)
	assert.Equal(t, "pay_123", res.Order.PaymentReference)
}

func TestPlaceOrderPaymentFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withProducts(mug)
	f.expectPersist()
	f.payment.On("CreateCheckout", mock.Anything, mock.Anything).Return(nil, errors.New("gateway returned 502"))
	f.orders.On("UpdatePaymentStatus", mock.Anything, mock.Anything, domain.PaymentStatusFailed).Return(nil)

	req := checkoutRequest("Dakar", "SN", domain.PaymentMethodOrangeMoney, CheckoutItem{ProductID: "p-mug", Quantity: 1})
	_, err := f.uc.PlaceOrder(context.Background(), nil, req)

	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryPayment, appErr.Category)
	assert.Equal(t, domain.CodePaymentInitFailed, appErr.Code)
	f.orders.AssertCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, domain.PaymentStatusFailed)
	f.orders.AssertNotCalled(t, "SetPaymentReference", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrderInternationalCarrierRules(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withProducts(mug)

	req := checkoutRequest("Paris", "FR", domain.PaymentMethodCard, CheckoutItem{ProductID: "p-mug", Quantity: 1})
	_, err := f.uc.PlaceOrder(context.Background(), nil, req)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryDelivery, appErr.Category)
	assert.Equal(t, domain.CodeCarrierRequired, appErr.Code)

	// inactive carrier is not an option
	req.ZoneTarifID = "tf-fedex"
	_, err = f.uc.PlaceOrder(context.Background(), nil, req)
	appErr, ok = domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeCarrierInvalid, appErr.Code)

	f.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestPlaceOrderZonePriceNeedsNoCarrier(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withProducts(mug)
	f.expectPersist()

	req := checkoutRequest("Bamako", "ML", domain.PaymentMethodCashDelivery, CheckoutItem{ProductID: "p-mug", Quantity: 2})
	res, err := f.uc.PlaceOrder(context.Background(), nil, req)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), res.Order.DeliveryFee)
	assert.Equal(t, int64(17000), res.Order.TotalAmount)
	assert.Empty(t, res.Order.DeliveryInfo.ZoneTarifID)
}

func TestPlaceOrderUnservedDestination(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withProducts(mug)

	req := checkoutRequest("Kédougou", "SN", domain.PaymentMethodCashDelivery, CheckoutItem{ProductID: "p-mug", Quantity: 1})
	req.ShippingAddress.Address = "Route de Saraya"
	_, err := f.uc.PlaceOrder(context.Background(), nil, req)

	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryDelivery, appErr.Category)
	assert.Equal(t, domain.CodeDeliveryUnavailable, appErr.Code)
	assert.Equal(t, "delivery", appErr.Field)
}

func TestPlaceOrderProductRules(t *testing.T) {
	f := newCheckoutFixture(t)
	inactive := mug
	inactive.ID = "p-old"
	inactive.IsActive = false
	f.withProducts(mug, inactive)

	_, err := f.uc.PlaceOrder(context.Background(), nil, checkoutRequest("Dakar", "SN", domain.PaymentMethodCashDelivery,
		CheckoutItem{ProductID: "p-mug", Quantity: 1},
		CheckoutItem{ProductID: "p-old", Quantity: 1},
	))
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeProductUnavailable, appErr.Code)
	assert.Equal(t, "items[1].productId", appErr.Field)

	_, err = f.uc.PlaceOrder(context.Background(), nil, checkoutRequest("Dakar", "SN", domain.PaymentMethodCashDelivery,
		CheckoutItem{ProductID: "p-mug", Quantity: 1, Customization: domain.JSONB{"text": "Awa"}},
	))
	appErr, ok = domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeCustomizationForbidden, appErr.Code)

	_, err = f.uc.PlaceOrder(context.Background(), nil, checkoutRequest("Dakar", "SN", domain.PaymentMethodCashDelivery,
		CheckoutItem{ProductID: "p-unknown", Quantity: 1},
	))
	appErr, ok = domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeProductUnavailable, appErr.Code)
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.uc.PlaceOrder(context.Background(), nil, checkoutRequest("Dakar", "SN", "paypal"))
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryValidation, appErr.Category)
	assert.Contains(t, appErr.Fields, "items")
	assert.Contains(t, appErr.Fields, "paymentMethod")

	req := checkoutRequest("Dakar", "SN", domain.PaymentMethodCashDelivery, CheckoutItem{ProductID: "p-mug", Quantity: 11})
	req.Customer.Email = "not-an-email"
	_, err = f.uc.PlaceOrder(context.Background(), nil, req)
	appErr, ok = domain.AsAppError(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "customer.email")

	req.Customer.Email = "awa@example.sn"
	_, err = f.uc.PlaceOrder(context.Background(), nil, req)
	appErr, ok = domain.AsAppError(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "items[0].quantity")

	f.products.AssertNotCalled(t, "GetProductsByIDs", mock.Anything, mock.Anything)
}

func TestPlaceOrderSurvivesPublishFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withProducts(mug)
	f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("CreateOrderHistory", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	res, err := f.uc.PlaceOrder(context.Background(), nil, checkoutRequest("Pikine", "SN", domain.PaymentMethodCashDelivery,
		CheckoutItem{ProductID: "p-mug", Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, int64(6000), res.Order.TotalAmount)
}

func TestPlaceOrderPersistFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	f.withProducts(mug)
	f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(errors.New("deadlock"))

	_, err := f.uc.PlaceOrder(context.Background(), nil, checkoutRequest("Dakar", "SN", domain.PaymentMethodCashDelivery,
		CheckoutItem{ProductID: "p-mug", Quantity: 1}))
	require.Error(t, err)
	f.publisher.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything, mock.Anything)
}

func TestConfirmation(t *testing.T) {
	f := newCheckoutFixture(t)
	order := &domain.Order{ID: "o-1", OrderNumber: "CMD-20260101-ABCDEF", Customer: domain.CustomerInfo{Email: "awa@example.sn"}}
	f.orders.On("GetByNumber", mock.Anything, "CMD-20260101-ABCDEF").Return(order, nil)
	f.orders.On("GetByNumber", mock.Anything, "CMD-X").Return(nil, domain.ErrNotFound)

	got, err := f.uc.Confirmation(context.Background(), "CMD-20260101-ABCDEF", " AWA@example.sn")
	require.NoError(t, err)
	assert.Equal(t, "o-1", got.ID)

	_, err = f.uc.Confirmation(context.Background(), "CMD-20260101-ABCDEF", "someone@else.sn")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Confirmation(context.Background(), "CMD-X", "awa@example.sn")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Confirmation(context.Background(), "", "")
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryValidation, appErr.Category)
}
