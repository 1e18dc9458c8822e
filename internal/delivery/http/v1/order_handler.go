package v1

import (
	"context"
	"log/slog"
	"net/http"

	"sunushop-backend/internal/domain"
	"sunushop-backend/internal/usecase"
	"sunushop-backend/pkg/utils"
)

type checkoutService interface {
	PlaceOrder(ctx context.Context, userID *string, req usecase.CheckoutRequest) (*usecase.CheckoutResult, error)
	GetMyOrders(ctx context.Context, userID string) ([]domain.Order, error)
	Confirmation(ctx context.Context, orderNumber, email string) (*domain.Order, error)
}

type OrderHandler struct {
	checkout checkoutService
}

func NewOrderHandler(uc checkoutService) *OrderHandler {
	return &OrderHandler{checkout: uc}
}

// PlaceOrder handles POST /api/v1/orders for signed-in shoppers.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	h.place(w, r, &user.ID)
}

// PlaceGuestOrder handles POST /api/v1/orders/guest. A valid token, when
// present, still links the order to its owner.
func (h *OrderHandler) PlaceGuestOrder(w http.ResponseWriter, r *http.Request) {
	var userID *string
	if user, ok := domain.UserFromContext(r.Context()); ok {
		userID = &user.ID
	}
	h.place(w, r, userID)
}

func (h *OrderHandler) place(w http.ResponseWriter, r *http.Request, userID *string) {
	var req usecase.CheckoutRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	res, err := h.checkout.PlaceOrder(r.Context(), userID, req)
	if err != nil {
		slog.Warn("Handler: PlaceOrder rejected", "error", err)
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, res)
}

func (h *OrderHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	orders, err := h.checkout.GetMyOrders(r.Context(), user.ID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

// GET /api/v1/orders/confirmation?orderNumber=CMD-...&email=...
func (h *OrderHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	order, err := h.checkout.Confirmation(r.Context(), q.Get("orderNumber"), q.Get("email"))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}
