package v1

import (
	"context"
	"io"
	"net/http"

	"sunushop-backend/internal/domain"
	"sunushop-backend/pkg/utils"
)

const maxCallbackBody = 64 << 10

type orderAdmin interface {
	GetAllOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, newStatus, note, actorID string) error
	GetOrderHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error)
	HandlePaymentCallback(ctx context.Context, payload []byte, signature string) (*domain.Order, error)
}

type AdminOrderHandler struct {
	orders orderAdmin
}

func NewAdminOrderHandler(uc orderAdmin) *AdminOrderHandler {
	return &AdminOrderHandler{orders: uc}
}

func (h *AdminOrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.OrderFilter{
		Page:          max(queryInt(r, "page", 1), 1),
		Limit:         queryInt(r, "limit", 20),
		Status:        q.Get("status"),
		PaymentStatus: q.Get("paymentStatus"),
		DeliveryType:  q.Get("deliveryType"),
		Search:        q.Get("search"),
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	orders, total, err := h.orders.GetAllOrders(r.Context(), filter)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"data":       orders,
		"pagination": domain.NewPagination(filter.Page, filter.Limit, total),
	})
}

func (h *AdminOrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

type updateStatusReq struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (h *AdminOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	user, err := currentUser(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	var req updateStatusReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	if err := h.orders.UpdateOrderStatus(r.Context(), id, req.Status, req.Note, user.ID); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

func (h *AdminOrderHandler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	history, err := h.orders.GetOrderHistory(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	if history == nil {
		history = []domain.OrderHistory{}
	}
	utils.WriteJSON(w, http.StatusOK, history)
}

// PaymentCallback receives the gateway's signed notification.
// POST /api/v1/payments/callback with the HMAC in X-Signature.
func (h *AdminOrderHandler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackBody))
	if err != nil {
		utils.WriteAppError(w, domain.NewValidationError(domain.CodeInvalidBody, "Corps de requête illisible"))
		return
	}

	order, err := h.orders.HandlePaymentCallback(r.Context(), payload, r.Header.Get("X-Signature"))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"orderNumber":   order.OrderNumber,
		"status":        order.Status,
		"paymentStatus": order.PaymentStatus,
	})
}
