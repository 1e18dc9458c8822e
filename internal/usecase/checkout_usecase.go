package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sunushop-backend/config"
	"sunushop-backend/internal/domain"
	"sunushop-backend/internal/metrics"
	"sunushop-backend/internal/validator"
	"sunushop-backend/pkg/cache"
	"sunushop-backend/pkg/utils"
)

const (
	confirmationPath  = "/commande/confirmation"
	paymentCancelPath = "/commande/paiement-annule"
	orderNumberChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	publishTimeout    = 5 * time.Second
)

type CheckoutItem struct {
	ProductID     string       `json:"productId" validate:"required"`
	Quantity      int          `json:"quantity" validate:"gte=1"`
	Customization domain.JSONB `json:"customization,omitempty"`
}

type CheckoutRequest struct {
	Items           []CheckoutItem         `json:"items" validate:"required,min=1,dive"`
	Customer        domain.CustomerInfo    `json:"customer"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required,oneof=wave orange_money card cash_on_delivery"`
	ZoneTarifID     string                 `json:"zoneTarifId,omitempty"`
	Notes           string                 `json:"notes,omitempty" validate:"max=500"`
}

// CheckoutResult tells the storefront where to send the shopper next.
type CheckoutResult struct {
	Order       *domain.Order `json:"order"`
	RedirectURL string        `json:"redirectUrl"`
}

type CheckoutUsecase struct {
	orderRepo   domain.OrderRepository
	productRepo domain.ProductRepository
	delivery    *DeliveryUsecase
	payment     domain.PaymentGateway
	publisher   domain.EventPublisher
	txManager   domain.TransactionManager
	cache       cache.CacheService
	maxQuantity int
	frontendURL string
}

func NewCheckoutUsecase(
	orderRepo domain.OrderRepository,
	productRepo domain.ProductRepository,
	delivery *DeliveryUsecase,
	payment domain.PaymentGateway,
	publisher domain.EventPublisher,
	txManager domain.TransactionManager,
	cache cache.CacheService,
	cfg *config.Config,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		delivery:    delivery,
		payment:     payment,
		publisher:   publisher,
		txManager:   txManager,
		cache:       cache,
		maxQuantity: cfg.MaxOrderQuantity,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
	}
}

// PlaceOrder prices the cart and the delivery on the server, persists the
// order and starts payment. userID is nil for guest checkout.
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID *string, req CheckoutRequest) (res *CheckoutResult, err error) {
	defer func() {
		if err != nil {
			category := domain.CategoryInternal
			if appErr, ok := domain.AsAppError(err); ok {
				category = appErr.Category
			}
			metrics.CheckoutFailures.WithLabelValues(string(category)).Inc()
		}
	}()

	if err := u.validate(&req); err != nil {
		return nil, err
	}

	items, subtotal, err := u.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	info, err := u.resolveDelivery(ctx, req)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:              utils.GenerateUUID(),
		OrderNumber:     newOrderNumber(time.Now()),
		UserID:          userID,
		Customer:        req.Customer,
		ShippingAddress: req.ShippingAddress,
		Status:          domain.OrderStatusPending,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   domain.PaymentStatusPending,
		Subtotal:        subtotal,
		DeliveryFee:     info.DeliveryFee,
		TotalAmount:     subtotal + info.DeliveryFee,
		DeliveryInfo:    *info,
		Notes:           strings.TrimSpace(req.Notes),
		Items:           items,
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := u.orderRepo.CreateOrder(txCtx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		reason := "Commande créée"
		return u.orderRepo.CreateOrderHistory(txCtx, &domain.OrderHistory{
			ID:        utils.GenerateUUID(),
			OrderID:   order.ID,
			NewStatus: domain.OrderStatusPending,
			Reason:    &reason,
			CreatedBy: userID,
		})
	})
	if err != nil {
		slog.Error("Usecase: PlaceOrder - persist failed", "error", err)
		return nil, err
	}

	slog.Info("Usecase: PlaceOrder - order created",
		"orderNumber", order.OrderNumber,
		"total", order.TotalAmount,
		"deliveryType", info.DeliveryType,
		"guest", userID == nil)
	metrics.OrdersPlaced.WithLabelValues(order.PaymentMethod, info.DeliveryType).Inc()
	u.cache.DeletePrefix(cache.PrefixStats)
	u.publishPlaced(ctx, order)

	if order.PaymentMethod == domain.PaymentMethodCashDelivery {
		return &CheckoutResult{Order: order, RedirectURL: confirmationURL("", order)}, nil
	}

	session, err := u.payment.CreateCheckout(ctx, domain.PaymentRequest{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Amount:      order.TotalAmount,
		Currency:    domain.Currency,
		Method:      order.PaymentMethod,
		Customer:    order.Customer,
		ReturnURL:   confirmationURL(u.frontendURL, order),
		CancelURL:   u.frontendURL + paymentCancelPath + "?orderNumber=" + url.QueryEscape(order.OrderNumber),
	})
	if err != nil {
		slog.Error("Usecase: PlaceOrder - payment init failed", "orderNumber", order.OrderNumber, "error", err)
		if updErr := u.orderRepo.UpdatePaymentStatus(ctx, order.ID, domain.PaymentStatusFailed); updErr != nil {
			slog.Error("Usecase: PlaceOrder - mark payment failed", "orderNumber", order.OrderNumber, "error", updErr)
		}
		order.PaymentStatus = domain.PaymentStatusFailed
		if errors.Is(err, domain.ErrPaymentDisabled) {
			return nil, domain.NewPaymentError(domain.CodePaymentMethodInvalid,
				"Ce moyen de paiement n'est pas disponible pour le moment. Choisissez le paiement à la livraison", err)
		}
		return nil, domain.NewPaymentError(domain.CodePaymentInitFailed,
			"Le paiement n'a pas pu être initialisé. Veuillez réessayer ou choisir un autre moyen de paiement", err)
	}

	if err := u.orderRepo.SetPaymentReference(ctx, order.ID, session.Reference, session.RedirectURL); err != nil {
		slog.Error("Usecase: PlaceOrder - save payment reference", "orderNumber", order.OrderNumber, "error", err)
		return nil, err
	}
	order.PaymentReference = session.Reference
	order.PaymentURL = session.RedirectURL

	return &CheckoutResult{Order: order, RedirectURL: session.RedirectURL}, nil
}

func (u *CheckoutUsecase) validate(req *CheckoutRequest) error {
	req.ShippingAddress.Country = strings.ToUpper(strings.TrimSpace(req.ShippingAddress.Country))
	req.Customer.Email = strings.ToLower(strings.TrimSpace(req.Customer.Email))

	if err := validator.ValidateStruct(req); err != nil {
		return err
	}
	if u.maxQuantity > 0 {
		fields := map[string]string{}
		for i, it := range req.Items {
			if it.Quantity > u.maxQuantity {
				fields[fmt.Sprintf("items[%d].quantity", i)] = fmt.Sprintf("Doit être inférieur ou égal à %d", u.maxQuantity)
			}
		}
		if len(fields) > 0 {
			return domain.NewFieldErrors(fields)
		}
	}
	return nil
}

// priceItems builds order lines from current product data.
func (u *CheckoutUsecase) priceItems(ctx context.Context, reqItems []CheckoutItem) ([]domain.OrderItem, int64, error) {
	ids := make([]string, 0, len(reqItems))
	seen := make(map[string]bool, len(reqItems))
	for _, it := range reqItems {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}

	products, err := u.productRepo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]domain.OrderItem, 0, len(reqItems))
	var subtotal int64
	for i, it := range reqItems {
		p, ok := byID[it.ProductID]
		if !ok || !p.Purchasable() {
			name := it.ProductID
			if ok {
				name = p.Name
			}
			appErr := domain.NewValidationError(domain.CodeProductUnavailable, fmt.Sprintf("Le produit %s n'est plus disponible", name))
			appErr.Field = fmt.Sprintf("items[%d].productId", i)
			return nil, 0, appErr
		}

		customization := it.Customization
		switch {
		case p.IsVendorDesign:
			if len(customization) > 0 {
				slog.Debug("Usecase: PlaceOrder - dropping customization on vendor design", "productId", p.ID)
			}
			customization = nil
		case len(customization) > 0 && !p.IsCustomizable:
			appErr := domain.NewValidationError(domain.CodeCustomizationForbidden, fmt.Sprintf("Le produit %s ne peut pas être personnalisé", p.Name))
			appErr.Field = fmt.Sprintf("items[%d].customization", i)
			return nil, 0, appErr
		}

		unit := p.UnitPrice()
		line := domain.OrderItem{
			ID:             utils.GenerateUUID(),
			ProductID:      p.ID,
			ProductName:    p.Name,
			VendorID:       p.VendorID,
			IsVendorDesign: p.IsVendorDesign,
			Quantity:       it.Quantity,
			UnitPrice:      unit,
			LineTotal:      unit * int64(it.Quantity),
			Customization:  customization,
		}
		if p.IsVendorDesign {
			line.DesignCommission = p.DesignCommission
		}
		subtotal += line.LineTotal
		items = append(items, line)
	}
	return items, subtotal, nil
}

// resolveDelivery re-runs the storefront resolution on the server. For the
// home country the city field is tried first, then the street address.
func (u *CheckoutUsecase) resolveDelivery(ctx context.Context, req CheckoutRequest) (*domain.DeliveryInfo, error) {
	addr := req.ShippingAddress
	quote := u.delivery.Quote(ctx, domain.QuoteRequest{Query: addr.City, Country: addr.Country, ZoneTarifID: req.ZoneTarifID})
	if !quote.Available() && addr.Country == u.delivery.HomeCountry() && strings.TrimSpace(addr.Address) != "" {
		byAddress := u.delivery.Quote(ctx, domain.QuoteRequest{Query: addr.Address, Country: addr.Country})
		if byAddress.Available() {
			quote = byAddress
		}
	}

	if !quote.Available() {
		msg := quote.Message
		if msg == "" {
			msg = "Veuillez saisir une ville de livraison valide"
		}
		return nil, domain.NewDeliveryError(domain.CodeDeliveryUnavailable, msg)
	}

	if quote.RequiresCarrier {
		if req.ZoneTarifID == "" {
			return nil, domain.NewDeliveryError(domain.CodeCarrierRequired, "Veuillez choisir un transporteur pour la livraison internationale")
		}
		if _, ok := quote.Option(req.ZoneTarifID); !ok {
			return nil, domain.NewDeliveryError(domain.CodeCarrierInvalid, "Le transporteur choisi ne dessert pas ce pays")
		}
	}

	info := deliveryInfoFromQuote(quote)
	return &info, nil
}

func deliveryInfoFromQuote(q domain.DeliveryQuote) domain.DeliveryInfo {
	info := domain.DeliveryInfo{
		DeliveryType: q.DeliveryType,
		Country:      q.Country,
		CountryName:  q.CountryName,
		DeliveryFee:  q.Fee,
		DeliveryTime: q.DeliveryTime,
		Metadata: domain.DeliveryMeta{
			MatchType:         q.MatchType,
			Query:             q.Query,
			AvailableCarriers: q.Options,
			ResolvedAt:        time.Now().UTC(),
		},
	}
	if q.City != nil {
		info.CityID = q.City.ID
		info.CityName = q.City.Name
	}
	if q.Region != nil {
		info.RegionID = q.Region.ID
		info.RegionName = q.Region.Name
	}
	if q.Zone != nil {
		info.ZoneID = q.Zone.ID
		info.ZoneName = q.Zone.Name
	}
	if q.Selected != nil {
		info.ZoneTarifID = q.Selected.ZoneTarifID
		info.TransporteurID = q.Selected.TransporteurID
		info.TransporteurName = q.Selected.TransporteurName
		info.TransporteurLogo = q.Selected.LogoURL
	}
	return info
}

func (u *CheckoutUsecase) publishPlaced(ctx context.Context, order *domain.Order) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := u.publisher.PublishOrderPlaced(pubCtx, domain.OrderEvent{
		Type:         domain.EventOrderPlaced,
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		TotalAmount:  order.TotalAmount,
		DeliveryFee:  order.DeliveryFee,
		DeliveryType: order.DeliveryInfo.DeliveryType,
		Country:      order.DeliveryInfo.Country,
		Payment:      order.PaymentMethod,
		ItemCount:    len(order.Items),
		Guest:        order.UserID == nil,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("Usecase: PlaceOrder - publish event failed", "orderNumber", order.OrderNumber, "error", err)
	}
}

// confirmationURL is the return page for an order; base may be empty for a
// route relative to the storefront.
func confirmationURL(base string, order *domain.Order) string {
	q := url.Values{}
	q.Set("orderNumber", order.OrderNumber)
	q.Set("amount", strconv.FormatInt(order.TotalAmount, 10))
	q.Set("email", order.Customer.Email)
	return base + confirmationPath + "?" + q.Encode()
}

// newOrderNumber returns CMD-YYYYMMDD-XXXXXX.
func newOrderNumber(now time.Time) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		copy(buf, strings.ReplaceAll(utils.GenerateUUID(), "-", ""))
	}
	for i, b := range buf {
		buf[i] = orderNumberChars[int(b)%len(orderNumberChars)]
	}
	return fmt.Sprintf("CMD-%s-%s", now.Format("20060102"), buf)
}

// GetMyOrders lists the orders of an authenticated shopper.
func (u *CheckoutUsecase) GetMyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := u.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// Confirmation backs the return page. The e-mail must match the order's customer.
func (u *CheckoutUsecase) Confirmation(ctx context.Context, orderNumber, email string) (*domain.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" || strings.TrimSpace(email) == "" {
		return nil, domain.NewFieldErrors(map[string]string{
			"orderNumber": "Ce champ est obligatoire",
			"email":       "Ce champ est obligatoire",
		})
	}

	order, err := u.orderRepo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, wrapNotFound(err, "Commande")
	}
	if !strings.EqualFold(order.Customer.Email, strings.TrimSpace(email)) {
		return nil, domain.NewNotFoundError("Commande")
	}
	return order, nil
}
