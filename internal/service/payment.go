package service

import (
	"context"
	"fmt"
	"time"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/logger"
	"dressrental-backend/internal/repository"

	"github.com/google/uuid"
)

type paymentService struct {
	orderRepo repository.OrderRepository
	auditRepo repository.AuditRepository
	avail     AvailabilityService
}

func NewPaymentService(
	orderRepo repository.OrderRepository,
	auditRepo repository.AuditRepository,
	avail AvailabilityService,
) PaymentService {
	return &paymentService{
		orderRepo: orderRepo,
		auditRepo: auditRepo,
		avail:     avail,
	}
}

// HandleOutcome maps a gateway callback onto the order lifecycle. Gateways
// retry webhooks, so every branch tolerates redelivery: a success for an
// already-confirmed order changes nothing.
func (s *paymentService) HandleOutcome(ctx context.Context, outcome domain.PaymentOutcome) error {
	order, err := s.orderRepo.GetByOrderNumber(ctx, outcome.OrderNumber)
	if err != nil {
		return err
	}

	txID := outcome.TransactionID
	if txID == "" {
		// Some gateway failure payloads omit the transaction id; keep the
		// audit trail addressable anyway.
		txID = "local-" + uuid.NewString()
	}

	switch outcome.Kind() {
	case domain.OutcomeSuccess:
		return s.handleSuccess(ctx, order, outcome, txID)
	case domain.OutcomePending:
		logger.Info("Payment still processing", "order_number", order.OrderNumber, "result_code", outcome.ResultCode)
		s.auditOutcome(ctx, order, outcome, "pending")
		return nil
	default:
		return s.handleFailure(ctx, order, outcome, txID)
	}
}

func (s *paymentService) handleSuccess(ctx context.Context, order *domain.Order, outcome domain.PaymentOutcome, txID string) error {
	status := domain.NormalizeOrderStatus(order.Status)
	if order.PaymentStatus == domain.PaymentStatusPaid || status != domain.OrderStatusPendingPayment {
		// Duplicate delivery of a success we already processed.
		logger.Info("Duplicate payment success ignored",
			"order_number", order.OrderNumber, "status", status, "payment_status", order.PaymentStatus)
		return nil
	}

	now := time.Now()
	order.PaymentStatus = domain.PaymentStatusPaid
	order.TransactionID = txID
	order.Status = domain.OrderStatusConfirmed
	order.ConfirmedAt = &now
	order.StatusHistory = append(order.StatusHistory, domain.StatusChange{
		Status:    domain.OrderStatusConfirmed,
		ChangedAt: now,
		ChangedBy: "payment-gateway",
		Notes:     fmt.Sprintf("payment received, transaction %s", txID),
	})
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}
	if err := s.avail.ConfirmByOrder(ctx, order.ID); err != nil {
		return err
	}

	s.auditOutcome(ctx, order, outcome, "success")
	logger.Info("Payment confirmed", "order_number", order.OrderNumber, "amount", outcome.Amount, "transaction_id", txID)
	return nil
}

func (s *paymentService) handleFailure(ctx context.Context, order *domain.Order, outcome domain.PaymentOutcome, txID string) error {
	if order.PaymentStatus == domain.PaymentStatusFailed {
		logger.Info("Duplicate payment failure ignored", "order_number", order.OrderNumber)
		return nil
	}
	if order.PaymentStatus == domain.PaymentStatusPaid {
		// A failure arriving after a success is a gateway anomaly; keep the
		// paid state and surface it for reconciliation.
		logger.Warn("Payment failure received for paid order, keeping paid state",
			"order_number", order.OrderNumber, "result_code", outcome.ResultCode)
		s.auditOutcome(ctx, order, outcome, "failure-after-success")
		return nil
	}

	order.PaymentStatus = domain.PaymentStatusFailed
	order.TransactionID = txID
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}
	// Free the held stock right away so other customers can book the dates.
	if err := s.avail.ReleaseByOrder(ctx, order.ID); err != nil {
		return err
	}

	s.auditOutcome(ctx, order, outcome, "failure")
	logger.Info("Payment failed, reservations released",
		"order_number", order.OrderNumber, "result_code", outcome.ResultCode)
	return nil
}

func (s *paymentService) auditOutcome(ctx context.Context, order *domain.Order, outcome domain.PaymentOutcome, disposition string) {
	entry := &domain.AuditEntry{
		OrderID: order.ID,
		Action:  domain.AuditActionPayment,
		Actor:   "payment-gateway",
		Detail: fmt.Sprintf("disposition=%s result_code=%d amount=%d transaction_id=%s payload=%s",
			disposition, outcome.ResultCode, outcome.Amount, outcome.TransactionID, outcome.RawPayload),
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		logger.Error("Failed to audit payment outcome", "order_id", order.ID, "error", err)
	}
}
