package v1

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sunushop-backend/internal/domain"
	"sunushop-backend/internal/usecase"
	"sunushop-backend/pkg/utils"
)

func withUser(r *http.Request, id, role string) *http.Request {
	ctx := context.WithValue(r.Context(), domain.UserContextKey, &domain.User{ID: id, Role: role})
	return r.WithContext(ctx)
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) *domain.AppError {
	t.Helper()
	var body utils.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error
}

func TestDeliveryQuoteDefaultsToHomeCountry(t *testing.T) {
	svc := &mockDelivery{}
	svc.On("Quote", mock.Anything, domain.QuoteRequest{Query: "Pikine", Country: "SN"}).
		Return(domain.DeliveryQuote{Status: domain.QuoteAvailable, DeliveryType: "city", Fee: 2000})
	h := NewDeliveryHandler(svc)

	rec := httptest.NewRecorder()
	h.Quote(rec, httptest.NewRequest(http.MethodGet, "/api/v1/delivery/quote?city=Pikine", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var quote domain.DeliveryQuote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, int64(2000), quote.Fee)
	svc.AssertExpectations(t)
}

func TestDeliveryListsNeverNull(t *testing.T) {
	svc := &mockDelivery{}
	svc.On("ActiveZones", mock.Anything).Return([]domain.InternationalZone(nil), nil)
	svc.On("ActiveCities", mock.Anything).Return([]domain.City(nil), errors.New("db down"))
	h := NewDeliveryHandler(svc)

	rec := httptest.NewRecorder()
	h.Zones(rec, httptest.NewRequest(http.MethodGet, "/api/v1/delivery/zones", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = httptest.NewRecorder()
	h.Cities(rec, httptest.NewRequest(http.MethodGet, "/api/v1/delivery/cities", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, domain.CategoryInternal, errorOf(t, rec).Category)
	assert.NotContains(t, rec.Body.String(), "db down")
}

const checkoutBody = `{
	"items": [{"productId": "p-1", "quantity": 2}],
	"customer": {"firstName": "Awa", "lastName": "Ndiaye", "email": "awa@example.sn", "phone": "+221771234567"},
	"shippingAddress": {"address": "Rue 10", "city": "Dakar", "country": "SN"},
	"paymentMethod": "cash_on_delivery"
}`

func TestPlaceOrderRequiresUser(t *testing.T) {
	h := NewOrderHandler(&mockCheckout{})
	rec := httptest.NewRecorder()
	h.PlaceOrder(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(checkoutBody)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlaceGuestOrder(t *testing.T) {
	svc := &mockCheckout{}
	svc.On("PlaceOrder", mock.Anything, (*string)(nil), mock.MatchedBy(func(req usecase.CheckoutRequest) bool {
		return len(req.Items) == 1 && req.Items[0].Quantity == 2 && req.ShippingAddress.City == "Dakar"
	})).Return(&usecase.CheckoutResult{
		Order:       &domain.Order{OrderNumber: "CMD-20260301-ABC234"},
		RedirectURL: "/commande/confirmation?orderNumber=CMD-20260301-ABC234",
	}, nil)
	h := NewOrderHandler(svc)

	rec := httptest.NewRecorder()
	h.PlaceGuestOrder(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/guest", strings.NewReader(checkoutBody)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var res usecase.CheckoutResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "CMD-20260301-ABC234", res.Order.OrderNumber)
	svc.AssertExpectations(t)
}

func TestPlaceOrderErrorCategories(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		cat    domain.ErrorCategory
	}{
		{"delivery", domain.NewDeliveryError(domain.CodeDeliveryUnavailable, "Livraison indisponible"), http.StatusUnprocessableEntity, domain.CategoryDelivery},
		{"payment", domain.NewPaymentError(domain.CodePaymentInitFailed, "Paiement indisponible", nil), http.StatusBadGateway, domain.CategoryPayment},
		{"fields", domain.NewFieldErrors(map[string]string{"customer.email": "E-mail invalide"}), http.StatusBadRequest, domain.CategoryValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockCheckout{}
			svc.On("PlaceOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err)
			h := NewOrderHandler(svc)

			req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(checkoutBody)), "u-1", domain.RoleCustomer)
			rec := httptest.NewRecorder()
			h.PlaceOrder(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.cat, errorOf(t, rec).Category)
		})
	}
}

func TestPlaceOrderInvalidJSON(t *testing.T) {
	h := NewOrderHandler(&mockCheckout{})
	rec := httptest.NewRecorder()
	h.PlaceGuestOrder(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/guest", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.CodeInvalidBody, errorOf(t, rec).Code)
}

func TestConfirmation(t *testing.T) {
	svc := &mockCheckout{}
	svc.On("Confirmation", mock.Anything, "CMD-1", "awa@example.sn").Return(&domain.Order{OrderNumber: "CMD-1"}, nil)
	svc.On("Confirmation", mock.Anything, "CMD-1", "other@example.sn").Return(nil, domain.NewNotFoundError("Commande"))
	h := NewOrderHandler(svc)

	rec := httptest.NewRecorder()
	h.Confirmation(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/confirmation?orderNumber=CMD-1&email=awa@example.sn", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Confirmation(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/confirmation?orderNumber=CMD-1&email=other@example.sn", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminUpdateStatus(t *testing.T) {
	svc := &mockOrderAdmin{}
	svc.On("UpdateOrderStatus", mock.Anything, "o-1", domain.OrderStatusShipped, "DHL 123", "admin-1").Return(nil)
	svc.On("UpdateOrderStatus", mock.Anything, "o-1", domain.OrderStatusPending, "", "admin-1").
		Return(domain.NewValidationError(domain.CodeInvalidTransition, "Transition interdite"))

	mux := http.NewServeMux()
	h := NewAdminOrderHandler(svc)
	mux.HandleFunc("PATCH /api/v1/admin/orders/{id}/status", h.UpdateStatus)

	send := func(body string) *httptest.ResponseRecorder {
		req := withUser(httptest.NewRequest(http.MethodPatch, "/api/v1/admin/orders/o-1/status", strings.NewReader(body)), "admin-1", domain.RoleAdmin)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send(`{"status":"shipped","note":"DHL 123"}`).Code)
	rec := send(`{"status":"pending"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.CodeInvalidTransition, errorOf(t, rec).Code)
}

func TestAdminListOrdersClampsLimit(t *testing.T) {
	svc := &mockOrderAdmin{}
	svc.On("GetAllOrders", mock.Anything, domain.OrderFilter{Page: 2, Limit: 20, Status: "pending"}).
		Return([]domain.Order(nil), int64(25), nil)
	h := NewAdminOrderHandler(svc)

	rec := httptest.NewRecorder()
	h.ListOrders(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders?page=2&limit=500&status=pending", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
	assert.Contains(t, rec.Body.String(), `"totalPages":2`)
}

func TestPaymentCallbackForwardsSignature(t *testing.T) {
	payload := `{"reference":"ref-1","orderNumber":"CMD-1","status":"paid","amount":22500}`
	svc := &mockOrderAdmin{}
	svc.On("HandlePaymentCallback", mock.Anything, []byte(payload), "sig-ok").
		Return(&domain.Order{OrderNumber: "CMD-1", Status: domain.OrderStatusConfirmed, PaymentStatus: domain.PaymentStatusPaid}, nil)
	svc.On("HandlePaymentCallback", mock.Anything, []byte(payload), "forged").
		Return(nil, &domain.AppError{Code: domain.CodeInvalidSignature, Category: domain.CategoryUnauthorized, Message: "Signature invalide"})
	h := NewAdminOrderHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/callback", strings.NewReader(payload))
	req.Header.Set("X-Signature", "sig-ok")
	rec := httptest.NewRecorder()
	h.PaymentCallback(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"paymentStatus":"paid"`)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/payments/callback", strings.NewReader(payload))
	req.Header.Set("X-Signature", "forged")
	rec = httptest.NewRecorder()
	h.PaymentCallback(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSearchCitiesSessionKey(t *testing.T) {
	svc := &mockLocations{}
	svc.On("SearchCities", mock.Anything, "hdr:tab-1", "Thi", "SN").Return([]domain.CityResult{{Name: "Thiès"}}, nil)
	svc.On("SearchCities", mock.Anything, "user:u-7", "Thi", "SN").Return(nil, domain.ErrSearchSuperseded)
	svc.On("SearchCities", mock.Anything, "ip:41.82.1.1", "Thi", "SN").Return([]domain.CityResult{}, nil)
	h := NewLocationHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/cities?q=Thi&country=SN", nil)
	req.Header.Set(SearchSessionHeader, "tab-1")
	rec := httptest.NewRecorder()
	h.SearchCities(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thiès")

	req = withUser(httptest.NewRequest(http.MethodGet, "/api/v1/locations/cities?q=Thi&country=SN", nil), "u-7", domain.RoleCustomer)
	rec = httptest.NewRecorder()
	h.SearchCities(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, domain.CodeSearchSuperseded, errorOf(t, rec).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/locations/cities?q=Thi&country=SN", nil)
	req.RemoteAddr = "41.82.1.1:40000"
	rec = httptest.NewRecorder()
	h.SearchCities(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestCountriesHandler(t *testing.T) {
	h := NewLocationHandler(&mockLocations{})
	rec := httptest.NewRecorder()
	h.Countries(rec, httptest.NewRequest(http.MethodGet, "/api/v1/countries?q=zzzz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestDeliveryResourceRoutes(t *testing.T) {
	var created, updated *domain.City
	res := resource[domain.City]{
		list: func(context.Context) ([]domain.City, error) { return nil, nil },
		get: func(_ context.Context, id string) (*domain.City, error) {
			return nil, domain.NewNotFoundError("Ville")
		},
		create: func(_ context.Context, c *domain.City) error {
			c.ID = "c-new"
			created = c
			return nil
		},
		update: func(_ context.Context, c *domain.City) error {
			updated = c
			return nil
		},
		remove: func(context.Context, string) error {
			return domain.NewValidationError(domain.CodeResourceInUse, "Utilisée par des tarifs")
		},
		toggle: func(context.Context, string) (domain.Status, error) { return domain.StatusInactive, nil },
		setID:  func(c *domain.City, id string) { c.ID = id },
	}
	mux := http.NewServeMux()
	res.register(mux, "/api/v1/admin/delivery/cities", func(h http.HandlerFunc) http.Handler { return h })

	do := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	rec := do(http.MethodPost, "/api/v1/admin/delivery/cities", `{"id":"spoofed","name":"Rufisque","zoneType":"banlieue","price":3000}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	assert.Equal(t, "c-new", created.ID)
	assert.Equal(t, int64(3000), created.Price)

	rec = do(http.MethodPut, "/api/v1/admin/delivery/cities/c-9", `{"id":"other","name":"Rufisque"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c-9", updated.ID)

	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/api/v1/admin/delivery/cities/c-0", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodDelete, "/api/v1/admin/delivery/cities/c-9", "").Code)
	assert.JSONEq(t, "[]", do(http.MethodGet, "/api/v1/admin/delivery/cities", "").Body.String())

	rec = do(http.MethodPatch, "/api/v1/admin/delivery/cities/c-9/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"c-9","status":"inactive"}`, rec.Body.String())
}

func TestStatsHandlers(t *testing.T) {
	svc := &mockRevenue{}
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	svc.On("VendorRevenue", mock.Anything, "v-1", start, end).Return(&domain.VendorRevenue{VendorID: "v-1", TotalCommission: 7500}, nil)
	svc.On("VendorRevenue", mock.Anything, "", time.Time{}, time.Time{}).
		Return(nil, domain.NewFieldErrors(map[string]string{"vendorId": "Ce champ est obligatoire"}))
	h := NewStatsHandler(svc)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/vendor/revenue?start=2026-03-01&end=2026-03-31", nil), "v-1", domain.RoleVendor)
	rec := httptest.NewRecorder()
	h.MyRevenue(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCommission":7500`)

	rec = httptest.NewRecorder()
	h.VendorRevenue(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats/vendor-revenue", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Overview(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats/overview?start=03/01/2026", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec).Fields, "start")
	svc.AssertNotCalled(t, "Overview", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginSetsCookie(t *testing.T) {
	svc := &mockAuth{}
	expires := time.Now().Add(time.Hour)
	svc.On("Login", mock.Anything, usecase.LoginRequest{Email: "awa@example.sn", Password: "teranga2026"}).
		Return(&usecase.AuthResult{AccessToken: "jwt-token", ExpiresAt: expires, User: &domain.User{ID: "u-1"}}, nil)
	h := NewAuthHandler(svc, true)

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"awa@example.sn","password":"teranga2026"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, utils.AccessTokenCookie, cookies[0].Name)
	assert.Equal(t, "jwt-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}

func TestMeUsesTokenUser(t *testing.T) {
	svc := &mockAuth{}
	svc.On("GetUserByID", mock.Anything, "u-1").Return(&domain.User{ID: "u-1", Email: "awa@example.sn"}, nil)
	h := NewAuthHandler(svc, false)

	rec := httptest.NewRecorder()
	h.Me(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), "u-1", domain.RoleCustomer))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "awa@example.sn")
}

func TestPublicProductListOnlyActive(t *testing.T) {
	svc := &mockCatalog{}
	svc.On("ListProducts", mock.Anything, mock.MatchedBy(func(f domain.ProductFilter) bool {
		return f.IsActive != nil && *f.IsActive && f.CategoryID == "cat-1" && f.Page == 2
	})).Return([]domain.Product{{ID: "p-1"}}, domain.NewPagination(2, 20, 21), nil)
	h := NewCatalogHandler(svc)

	rec := httptest.NewRecorder()
	h.ListProducts(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?categoryId=cat-1&page=2&isActive=false", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestAdminProductRoutes(t *testing.T) {
	svc := &mockCatalog{}
	svc.On("GetProduct", mock.Anything, "p-1", true).Return(&domain.Product{ID: "p-1", IsActive: false}, nil)
	svc.On("RestoreProduct", mock.Anything, "p-1").Return(nil)
	svc.On("ListProducts", mock.Anything, mock.MatchedBy(func(f domain.ProductFilter) bool {
		return f.IsActive == nil
	})).Return([]domain.Product{}, domain.NewPagination(1, 20, 0), nil)
	h := NewAdminCatalogHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/admin/products", h.ListProducts)
	mux.HandleFunc("GET /api/v1/admin/products/{id}", h.GetProduct)
	mux.HandleFunc("POST /api/v1/admin/products/{id}/restore", h.RestoreProduct)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/products/p-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/p-1/restore", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreateCategoryValidation(t *testing.T) {
	svc := &mockCatalog{}
	svc.On("CreateCategory", mock.Anything, mock.Anything).
		Return(domain.NewFieldErrors(map[string]string{"parentId": "Catégorie parente introuvable"}))
	h := NewAdminCatalogHandler(svc)

	rec := httptest.NewRecorder()
	h.CreateCategory(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/categories", strings.NewReader(`{"name":"Tasses","level":1,"parentId":"nope"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Catégorie parente introuvable", errorOf(t, rec).Fields["parentId"])
}

func multipartImage(t *testing.T, filename, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var raw bytes.Buffer
	require.NoError(t, png.Encode(&raw, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(raw.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	store := &fakeStore{}
	h := NewUploadHandler(store, 2)

	body, ct := multipartImage(t, "logo.png", "image/png")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/uploads?kind=logo", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.UploadImage(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "logos", store.folder)
	assert.NotZero(t, store.size)
	assert.Contains(t, rec.Body.String(), "https://cdn.sunushop.sn/logos/")

	body, ct = multipartImage(t, "notes.txt", "text/plain")
	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/uploads", body)
	req.Header.Set("Content-Type", ct)
	rec = httptest.NewRecorder()
	h.UploadImage(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec).Fields, "file")
}
