package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/goccy/go-json"

	"sunushop-backend/internal/domain"
	"sunushop-backend/internal/validator"
	"sunushop-backend/pkg/cache"
	"sunushop-backend/pkg/utils"
)

// OrderUsecase covers back-office order handling and payment notifications.
type OrderUsecase struct {
	orderRepo domain.OrderRepository
	payment   domain.PaymentGateway
	txManager domain.TransactionManager
	cache     cache.CacheService
}

func NewOrderUsecase(repo domain.OrderRepository, payment domain.PaymentGateway, txManager domain.TransactionManager, cache cache.CacheService) *OrderUsecase {
	return &OrderUsecase{
		orderRepo: repo,
		payment:   payment,
		txManager: txManager,
		cache:     cache,
	}
}

func (u *OrderUsecase) GetAllOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	return u.orderRepo.GetAll(ctx, filter)
}

func (u *OrderUsecase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "Commande")
	}
	return order, nil
}

func (u *OrderUsecase) UpdateOrderStatus(ctx context.Context, orderID, newStatus, note, actorID string) error {
	if !slices.Contains(domain.OrderStatuses, newStatus) {
		return domain.NewFieldErrors(map[string]string{"status": "Statut inconnu"})
	}

	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return wrapNotFound(err, "Commande")
	}
	oldStatus := order.Status
	if oldStatus == newStatus {
		return nil
	}

	if err := validateOrderTransition(oldStatus, newStatus); err != nil {
		return err
	}

	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := u.orderRepo.UpdateStatus(txCtx, orderID, newStatus); err != nil {
			return err
		}

		reason := note
		if reason == "" {
			reason = fmt.Sprintf("Statut modifié : %s -> %s", oldStatus, newStatus)
		}
		history := &domain.OrderHistory{
			ID:             utils.GenerateUUID(),
			OrderID:        orderID,
			PreviousStatus: &oldStatus,
			NewStatus:      newStatus,
			Reason:         &reason,
			CreatedBy:      &actorID,
		}
		if err := u.orderRepo.CreateOrderHistory(txCtx, history); err != nil {
			return fmt.Errorf("record history: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Usecase: UpdateOrderStatus", "orderId", orderID, "from", oldStatus, "to", newStatus, "actor", actorID)
	u.cache.DeletePrefix(cache.PrefixStats)
	return nil
}

// Forward-only: an order may skip ahead (pending -> cancelled) but never go back.
var statusWeights = map[string]int{
	domain.OrderStatusPending:    10,
	domain.OrderStatusConfirmed:  20,
	domain.OrderStatusProcessing: 30,
	domain.OrderStatusShipped:    40,
	domain.OrderStatusDelivered:  50,
	domain.OrderStatusRefunded:   60,
	domain.OrderStatusCancelled:  70,
}

func validateOrderTransition(current, next string) error {
	currentWeight, okCurrent := statusWeights[current]
	newWeight, okNew := statusWeights[next]

	// unknown legacy value: let the admin fix it
	if !okCurrent || !okNew {
		return nil
	}
	if newWeight < currentWeight {
		return domain.NewValidationError(domain.CodeInvalidTransition,
			fmt.Sprintf("Impossible de repasser une commande de « %s » à « %s »", current, next))
	}
	return nil
}

// HandlePaymentCallback applies a signed gateway notification. Replays of an
// already applied outcome are accepted without changes.
func (u *OrderUsecase) HandlePaymentCallback(ctx context.Context, payload []byte, signature string) (*domain.Order, error) {
	if !u.payment.VerifySignature(payload, signature) {
		slog.Warn("Usecase: HandlePaymentCallback - bad signature")
		return nil, &domain.AppError{
			Code:     domain.CodeInvalidSignature,
			Category: domain.CategoryUnauthorized,
			Message:  "Signature invalide",
			Err:      domain.ErrUnauthorized,
		}
	}

	var cb domain.PaymentCallback
	if err := json.Unmarshal(payload, &cb); err != nil {
		return nil, domain.NewValidationError(domain.CodeValidationFailed, "Notification de paiement illisible")
	}
	if err := validator.ValidateStruct(&cb); err != nil {
		return nil, err
	}

	order, err := u.orderRepo.GetByNumber(ctx, cb.OrderNumber)
	if err != nil {
		return nil, wrapNotFound(err, "Commande")
	}
	if order.PaymentReference != "" && order.PaymentReference != cb.Reference {
		return nil, domain.NewValidationError(domain.CodeValidationFailed, "Référence de paiement inconnue pour cette commande")
	}
	if cb.Status == domain.PaymentStatusPaid && cb.Amount != 0 && cb.Amount != order.TotalAmount {
		slog.Error("Usecase: HandlePaymentCallback - amount mismatch", "orderNumber", order.OrderNumber, "expected", order.TotalAmount, "got", cb.Amount)
		return nil, domain.NewPaymentError(domain.CodeValidationFailed, "Montant payé différent du total de la commande", nil)
	}

	newPayment := cb.Status
	if order.PaymentStatus == newPayment {
		return order, nil
	}

	oldStatus := order.Status
	newStatus := oldStatus
	if newPayment == domain.PaymentStatusPaid && oldStatus == domain.OrderStatusPending {
		newStatus = domain.OrderStatusConfirmed
	}

	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := u.orderRepo.UpdatePaymentStatus(txCtx, order.ID, newPayment); err != nil {
			return err
		}
		if newStatus != oldStatus {
			if err := u.orderRepo.UpdateStatus(txCtx, order.ID, newStatus); err != nil {
				return err
			}
		}
		reason := fmt.Sprintf("Paiement %s (%s)", newPayment, cb.Reference)
		return u.orderRepo.CreateOrderHistory(txCtx, &domain.OrderHistory{
			ID:             utils.GenerateUUID(),
			OrderID:        order.ID,
			PreviousStatus: &oldStatus,
			NewStatus:      newStatus,
			Reason:         &reason,
		})
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Usecase: HandlePaymentCallback", "orderNumber", order.OrderNumber, "payment", newPayment, "status", newStatus)
	u.cache.DeletePrefix(cache.PrefixStats)
	order.PaymentStatus = newPayment
	order.Status = newStatus
	if order.PaymentReference == "" {
		order.PaymentReference = cb.Reference
	}
	return order, nil
}

func (u *OrderUsecase) GetOrderHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error) {
	history, err := u.orderRepo.GetOrderHistory(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []domain.OrderHistory{}
	}
	return history, nil
}
