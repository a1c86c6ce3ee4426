package service

import (
	"context"
	"fmt"
	"time"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/logger"
	"dressrental-backend/internal/repository"
	"dressrental-backend/internal/utils"
)

type returnService struct {
	returnRepo     repository.ReturnRepository
	orderRepo      repository.OrderRepository
	inventoryRepo  repository.InventoryRepository
	userRepo       repository.UserRepository
	auditRepo      repository.AuditRepository
	noteRepo       repository.NotificationRepository
	orders         OrderService
	emailSvc       EmailService
	lateMultiplier float64
}

func NewReturnService(
	returnRepo repository.ReturnRepository,
	orderRepo repository.OrderRepository,
	inventoryRepo repository.InventoryRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	noteRepo repository.NotificationRepository,
	orders OrderService,
	emailSvc EmailService,
	lateMultiplier float64,
) ReturnService {
	return &returnService{
		returnRepo:     returnRepo,
		orderRepo:      orderRepo,
		inventoryRepo:  inventoryRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
		noteRepo:       noteRepo,
		orders:         orders,
		emailSvc:       emailSvc,
		lateMultiplier: lateMultiplier,
	}
}

// MarkReturned records that the garments came back, computing the late fee
// from time elapsed past each item's rental end.
func (s *returnService) MarkReturned(ctx context.Context, orderID int64, actor string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var lateFee int64
	var maxDaysLate int
	for _, it := range order.Items {
		daysLate := utils.DaysLate(it.RentalEnd, now)
		if daysLate == 0 {
			continue
		}
		lateFee += utils.LateFee(it.PricePerDay, daysLate, it.Quantity, s.lateMultiplier)
		if daysLate > maxDaysLate {
			maxDaysLate = daysLate
		}
	}
	note := "returned on time"
	if lateFee > 0 {
		note = fmt.Sprintf("returned %d day(s) late, late fee %d", maxDaysLate, lateFee)
	}
	order, err = s.orders.Transition(ctx, orderID, domain.OrderStatusReturned, actor, note)
	if err != nil {
		return nil, err
	}
	// Transition reloaded the order; persist the fee on the fresh copy.
	order.LateFee = lateFee
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	logger.Info("Order marked returned", "order_id", orderID, "late_fee", lateFee, "days_late", maxDaysLate)
	return order, nil
}

// StartInspection opens the inspection step. Creating the Return record is
// idempotent: restarting inspection reuses the existing record.
func (s *returnService) StartInspection(ctx context.Context, orderID int64, actor string) (*domain.Return, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Refuse before touching the returns table, so a bad call leaves no
	// orphan record behind.
	alreadyInspecting := domain.NormalizeOrderStatus(order.Status) == domain.OrderStatusInspecting
	if !alreadyInspecting && !domain.CanTransition(order.Status, domain.OrderStatusInspecting) {
		return nil, domain.NewError(domain.CodeInvalidTransition,
			"cannot move order %s from %s to %s", order.OrderNumber, order.Status, domain.OrderStatusInspecting)
	}

	ret, err := s.returnRepo.GetByOrder(ctx, orderID)
	if domain.IsCode(err, domain.CodeReturnNotFound) {
		ret = &domain.Return{
			OrderID: orderID,
			UserID:  order.UserID,
			LateFee: order.LateFee,
			Status:  domain.ReturnStatusPendingInspection,
		}
		for i, it := range order.Items {
			ret.Items = append(ret.Items, domain.ReturnItem{
				OrderItemIndex: i,
				ProductID:      it.ProductID,
				Variant:        it.Variant,
				Quantity:       it.Quantity,
			})
		}
		if err := s.returnRepo.Create(ctx, ret); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if !alreadyInspecting {
		if _, err := s.orders.Transition(ctx, orderID, domain.OrderStatusInspecting, actor, "inspection started"); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// CompleteInspection settles the rental: damage fees are recomputed
// server-side from the condition codes, netted with the late fee against the
// deposit, and the garments are dispositioned in inventory.
func (s *returnService) CompleteInspection(ctx context.Context, orderID int64, actor string, items []InspectionItem, notes string) (*domain.Return, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if domain.NormalizeOrderStatus(order.Status) != domain.OrderStatusInspecting {
		return nil, domain.NewError(domain.CodeInvalidStatus,
			"order %s is %s, inspection can only complete while inspecting", order.OrderNumber, order.Status)
	}
	ret, err := s.returnRepo.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var totalDamageFee int64
	for _, assessed := range items {
		if assessed.OrderItemIndex < 0 || assessed.OrderItemIndex >= len(order.Items) {
			return nil, domain.NewError(domain.CodeInvalidItem, "no order item at index %d", assessed.OrderItemIndex)
		}
		if !domain.ValidCondition(assessed.ConditionAfter) {
			return nil, domain.NewError(domain.CodeInvalidItem, "unknown condition %q", assessed.ConditionAfter)
		}
		orderItem := order.Items[assessed.OrderItemIndex]

		// The caller's fee is a display hint only; the deposit snapshot and
		// the condition table are authoritative.
		fee := domain.DamageFeeFor(orderItem.Deposit, orderItem.Quantity, assessed.ConditionAfter)
		if assessed.DamageFee != 0 && assessed.DamageFee != fee {
			logger.Warn("Client damage fee differs from computed fee, using computed",
				"order_id", orderID, "item_index", assessed.OrderItemIndex,
				"client_fee", assessed.DamageFee, "computed_fee", fee)
		}
		totalDamageFee += fee

		for i := range ret.Items {
			if ret.Items[i].OrderItemIndex == assessed.OrderItemIndex {
				ret.Items[i].ConditionAfter = assessed.ConditionAfter
				ret.Items[i].DamageNotes = assessed.DamageNotes
				ret.Items[i].DamageFee = fee
			}
		}

		// Disposition: destroyed stock is written off, damaged stock waits
		// for repair, clean stock frees up by itself once the reservation
		// stops blocking.
		switch assessed.ConditionAfter {
		case domain.ConditionDestroyed:
			if err := s.inventoryRepo.MoveToLost(ctx, orderItem.ProductID, orderItem.Variant, orderItem.Quantity); err != nil {
				return nil, err
			}
		case domain.ConditionDamage20, domain.ConditionDamage40, domain.ConditionDamage60, domain.ConditionDamage80:
			if err := s.inventoryRepo.MoveToRepair(ctx, orderItem.ProductID, orderItem.Variant, orderItem.Quantity); err != nil {
				return nil, err
			}
		}
	}

	now := time.Now()
	refund := utils.DepositRefund(order.TotalDeposit, order.LateFee, totalDamageFee)
	ret.TotalDamageFee = totalDamageFee
	ret.LateFee = order.LateFee
	ret.DepositRefundAmount = refund
	ret.Status = domain.ReturnStatusInspected
	ret.InspectedBy = actor
	ret.InspectedAt = &now
	if err := s.returnRepo.Update(ctx, ret); err != nil {
		return nil, err
	}

	settlement := fmt.Sprintf("deposit=%d late_fee=%d damage_fee=%d refund=%d",
		order.TotalDeposit, order.LateFee, totalDamageFee, refund)
	order, err = s.orders.Transition(ctx, orderID, domain.OrderStatusCompleted, actor,
		"inspection complete: "+settlement)
	if err != nil {
		return nil, err
	}
	order.DepositRefunded = refund
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	if err := s.auditRepo.Append(ctx, &domain.AuditEntry{
		OrderID: orderID,
		Action:  domain.AuditActionSettlement,
		Actor:   actor,
		Detail:  settlement,
	}); err != nil {
		logger.Error("Failed to audit settlement", "order_id", orderID, "error", err)
	}
	s.notifySettlement(ctx, order, totalDamageFee, refund)

	logger.Info("Inspection completed", "order_id", orderID,
		"damage_fee", totalDamageFee, "late_fee", order.LateFee, "refund", refund)
	return ret, nil
}

func (s *returnService) notifySettlement(ctx context.Context, order *domain.Order, damageFee, refund int64) {
	note := &domain.Notification{
		UserID: order.UserID,
		Title:  "Deposit settled",
		Message: fmt.Sprintf("Order %s inspected: late fee %d, damage fee %d, deposit refund %d",
			order.OrderNumber, order.LateFee, damageFee, refund),
		Attributes: map[string]string{
			"type":         domain.NotifyReturnApproved,
			"order_number": order.OrderNumber,
			"late_fee":     fmt.Sprintf("%d", order.LateFee),
			"damage_fee":   fmt.Sprintf("%d", damageFee),
			"refund":       fmt.Sprintf("%d", refund),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to record settlement notification", "order_id", order.ID, "error", err)
	}
	user, err := s.userRepo.GetByID(ctx, order.UserID)
	if err != nil || user == nil {
		return
	}
	_ = s.emailSvc.SendSettlementSummary(ctx, user.Email, user.Name, order.OrderNumber, order.LateFee, damageFee, refund)
}

func (s *returnService) GetReturnByOrder(ctx context.Context, userID, orderID int64) (*domain.Return, error) {
	// Ownership check goes through the order; outsiders get not-found.
	if _, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID); err != nil {
		return nil, err
	}
	return s.returnRepo.GetByOrder(ctx, orderID)
}
