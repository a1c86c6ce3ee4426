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

// OrderSettings carries the pricing and deadline knobs for order creation.
type OrderSettings struct {
	ServiceFeePercent float64
	ShippingFee       int64
	PickupDeadline    time.Duration
}

type orderService struct {
	orderRepo  repository.OrderRepository
	cartRepo   repository.CartRepository
	couponRepo repository.CouponRepository
	userRepo   repository.UserRepository
	auditRepo  repository.AuditRepository
	noteRepo   repository.NotificationRepository
	avail      AvailabilityService
	emailSvc   EmailService
	settings   OrderSettings
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	couponRepo repository.CouponRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	noteRepo repository.NotificationRepository,
	avail AvailabilityService,
	emailSvc EmailService,
	settings OrderSettings,
) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		cartRepo:   cartRepo,
		couponRepo: couponRepo,
		userRepo:   userRepo,
		auditRepo:  auditRepo,
		noteRepo:   noteRepo,
		avail:      avail,
		emailSvc:   emailSvc,
		settings:   settings,
	}
}

// CreateOrder turns the user's cart (or a selected subset of it) into a
// pending-payment order with one hold reservation per item. All-or-nothing:
// a single unavailable item aborts the whole order before anything persists.
func (s *orderService) CreateOrder(ctx context.Context, userID int64, input CreateOrderInput) (*domain.Order, error) {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.NewError(domain.CodeEmptyCart, "cart is empty")
	}

	selected := selectCartItems(cart.Items, input.ItemIDs)
	if len(selected) == 0 {
		return nil, domain.NewError(domain.CodeEmptySelection, "none of the selected items are in the cart")
	}

	if input.ShippingAddress == nil && input.PaymentMethod != domain.PaymentMethodStore {
		return nil, domain.NewError(domain.CodeMissingShippingAddress,
			"shipping address is required unless picking up in store")
	}

	// Validate every line and check availability before touching anything.
	items := make([]domain.OrderItem, 0, len(selected))
	for _, ci := range selected {
		if ci.Variant.Size == "" {
			return nil, domain.NewError(domain.CodeInvalidItem, "item %q has no size selected", ci.Name)
		}
		if ci.RentalStart == nil || ci.RentalEnd == nil {
			return nil, domain.NewError(domain.CodeMissingRentalDates, "item %q has no rental dates", ci.Name)
		}
		days, err := utils.RentalDays(*ci.RentalStart, *ci.RentalEnd)
		if err != nil {
			return nil, domain.NewError(domain.CodeMissingRentalDates, "item %q: %v", ci.Name, err)
		}

		result, err := s.avail.CheckAvailability(ctx, ci.ProductID, ci.Variant, *ci.RentalStart, *ci.RentalEnd, ci.Quantity)
		if err != nil {
			return nil, err
		}
		if !result.Available {
			return nil, domain.NewError(domain.CodeNotAvailable,
				"%q (%s/%s) is not available for %s to %s",
				ci.Name, ci.Variant.Size, ci.Variant.Color,
				ci.RentalStart.Format(utils.DateLayout), ci.RentalEnd.Format(utils.DateLayout))
		}

		// Line totals are fixed here from the snapshot price and never
		// recomputed against the live catalog.
		lineTotal := ci.PricePerDay * int64(days) * int64(ci.Quantity)
		items = append(items, domain.OrderItem{
			ProductID:   ci.ProductID,
			Name:        ci.Name,
			Image:       ci.Image,
			Variant:     ci.Variant,
			RentalStart: *ci.RentalStart,
			RentalEnd:   *ci.RentalEnd,
			RentalDays:  days,
			PricePerDay: ci.PricePerDay,
			Deposit:     ci.Deposit,
			Quantity:    ci.Quantity,
			LineTotal:   lineTotal,
		})
	}

	// Totals. Partial checkout recomputes from the selected lines; full
	// checkout trusts the cart's precomputed aggregates.
	var subtotal, discount, totalDeposit int64
	if len(input.ItemIDs) > 0 {
		for _, it := range items {
			subtotal += it.LineTotal
		}
	} else {
		subtotal = cart.Totals.Subtotal
		discount = cart.Totals.Discount
	}
	for _, it := range items {
		totalDeposit += it.Deposit * int64(it.Quantity)
	}

	var shippingFee int64
	if input.PaymentMethod != domain.PaymentMethodStore {
		shippingFee = s.settings.ShippingFee
	}
	serviceFee := utils.ServiceFee(subtotal, s.settings.ServiceFeePercent)

	var coupon *domain.Coupon
	var couponDiscount int64
	if input.CouponCode != "" {
		coupon, err = s.couponRepo.GetByCode(ctx, input.CouponCode)
		if err != nil {
			return nil, err
		}
		if !coupon.Usable(time.Now()) {
			return nil, domain.NewError(domain.CodeCouponInvalid, "coupon %q can no longer be used", input.CouponCode)
		}
		couponDiscount = coupon.Discount
	}

	now := time.Now()
	order := &domain.Order{
		OrderNumber:     utils.OrderNumber(now),
		UserID:          userID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		Subtotal:        subtotal,
		Discount:        discount,
		ShippingFee:     shippingFee,
		ServiceFee:      serviceFee,
		CouponCode:      input.CouponCode,
		CouponDiscount:  couponDiscount,
		TotalDeposit:    totalDeposit,
		Total:           utils.OrderTotal(subtotal, discount, couponDiscount, shippingFee, serviceFee),
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   domain.PaymentStatusPending,
		Status:          domain.OrderStatusPendingPayment,
		Notes:           input.Notes,
		StatusHistory: []domain.StatusChange{{
			Status:    domain.OrderStatusPendingPayment,
			ChangedAt: now,
			ChangedBy: fmt.Sprintf("user:%d", userID),
			Notes:     "order created",
		}},
	}
	if input.PaymentMethod.IsCashMethod() {
		deadline := now.Add(s.settings.PickupDeadline)
		order.PickupDeadline = &deadline
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	// One hold per item. Cash methods have no online payment step, so their
	// holds are confirmed immediately.
	for _, it := range order.Items {
		_, err := s.avail.CreateHold(ctx, HoldRequest{
			UserID:    userID,
			ProductID: it.ProductID,
			Variant:   it.Variant,
			StartDate: it.RentalStart,
			EndDate:   it.RentalEnd,
			Quantity:  it.Quantity,
			OrderID:   &order.ID,
		})
		if err != nil {
			// A competing checkout won the race after our advisory check.
			// Free whatever we already held and abort.
			_ = s.avail.ReleaseByOrder(ctx, order.ID)
			return nil, err
		}
	}
	if input.PaymentMethod.IsCashMethod() {
		if err := s.avail.ConfirmByOrder(ctx, order.ID); err != nil {
			return nil, err
		}
	}

	if coupon != nil {
		if err := s.couponRepo.IncrementUsage(ctx, coupon.ID); err != nil {
			logger.Warn("Failed to record coupon usage", "coupon", coupon.Code, "error", err)
		}
	}

	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		logger.Warn("Failed to clear cart after order creation", "user_id", userID, "error", err)
	}

	s.audit(ctx, &domain.AuditEntry{
		OrderID:  order.ID,
		Action:   domain.AuditActionCreate,
		ToStatus: order.Status,
		Actor:    fmt.Sprintf("user:%d", userID),
		Detail: fmt.Sprintf("subtotal=%d discount=%d coupon=%d shipping=%d service=%d total=%d deposit=%d",
			subtotal, discount, couponDiscount, shippingFee, serviceFee, order.Total, totalDeposit),
	})

	logger.Info("Order created", "order_id", order.ID, "order_number", order.OrderNumber,
		"user_id", userID, "items", len(order.Items), "total", order.Total)
	return order, nil
}

// selectCartItems returns the cart lines named by itemIDs, or all lines when
// itemIDs is empty.
func selectCartItems(items []domain.CartItem, itemIDs []int64) []domain.CartItem {
	if len(itemIDs) == 0 {
		return items
	}
	wanted := make(map[int64]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	var selected []domain.CartItem
	for _, it := range items {
		if wanted[it.ID] {
			selected = append(selected, it)
		}
	}
	return selected
}

// Transition moves an order to a new status if the state machine allows it,
// appending to the status history and the audit log. Invalid moves mutate
// nothing.
func (s *orderService) Transition(ctx context.Context, orderID int64, to domain.OrderStatus, actor, notes string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.applyTransition(ctx, order, to, actor, notes)
}

func (s *orderService) applyTransition(ctx context.Context, order *domain.Order, to domain.OrderStatus, actor, notes string) (*domain.Order, error) {
	from := domain.NormalizeOrderStatus(order.Status)
	to = domain.NormalizeOrderStatus(to)
	if !domain.CanTransition(from, to) {
		return nil, domain.NewError(domain.CodeInvalidTransition,
			"cannot move order %s from %s to %s", order.OrderNumber, from, to)
	}

	now := time.Now()
	order.Status = to
	order.StatusHistory = append(order.StatusHistory, domain.StatusChange{
		Status:    to,
		ChangedAt: now,
		ChangedBy: actor,
		Notes:     notes,
	})
	s.stampTransition(order, to, now)

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.audit(ctx, &domain.AuditEntry{
		OrderID:    order.ID,
		Action:     domain.AuditActionTransition,
		FromStatus: from,
		ToStatus:   to,
		Actor:      actor,
		Detail:     notes,
	})
	s.notifyTransition(ctx, order, to)

	logger.Info("Order status changed", "order_id", order.ID, "order_number", order.OrderNumber,
		"from", from, "to", to, "actor", actor)
	return order, nil
}

// stampTransition maintains the lifecycle timestamps alongside the history.
func (s *orderService) stampTransition(order *domain.Order, to domain.OrderStatus, now time.Time) {
	switch to {
	case domain.OrderStatusConfirmed:
		order.ConfirmedAt = &now
	case domain.OrderStatusShipping:
		order.ShippedAt = &now
	case domain.OrderStatusDelivered:
		order.DeliveredAt = &now
	case domain.OrderStatusReturned:
		order.ReturnedAt = &now
	case domain.OrderStatusInspecting:
		order.InspectedAt = &now
	}
}

// notifyTransition fans out fire-and-forget notifications for the externally
// interesting transitions.
func (s *orderService) notifyTransition(ctx context.Context, order *domain.Order, to domain.OrderStatus) {
	var kind, title, message string
	switch to {
	case domain.OrderStatusConfirmed:
		kind = domain.NotifyOrderConfirmed
		title = "Order confirmed"
		message = fmt.Sprintf("Order %s is confirmed and being prepared", order.OrderNumber)
	case domain.OrderStatusShipping:
		kind = domain.NotifyOrderShipped
		title = "Order shipped"
		message = fmt.Sprintf("Order %s is on its way", order.OrderNumber)
	case domain.OrderStatusOverdue:
		kind = domain.NotifyRentalOverdue
		title = "Rental overdue"
		message = fmt.Sprintf("Order %s is past its return date", order.OrderNumber)
	default:
		return
	}

	note := &domain.Notification{
		UserID:  order.UserID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"type":         kind,
			"order_id":     fmt.Sprintf("%d", order.ID),
			"order_number": order.OrderNumber,
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to record notification", "order_id", order.ID, "type", kind, "error", err)
	}

	user, err := s.userRepo.GetByID(ctx, order.UserID)
	if err != nil || user == nil {
		return
	}
	switch to {
	case domain.OrderStatusConfirmed:
		_ = s.emailSvc.SendOrderConfirmation(ctx, user.Email, user.Name, order.OrderNumber, order.Total)
	case domain.OrderStatusShipping:
		_ = s.emailSvc.SendOrderShipped(ctx, user.Email, user.Name, order.OrderNumber)
	case domain.OrderStatusOverdue:
		_ = s.emailSvc.SendOverdueReminder(ctx, user.Email, user.Name, order.OrderNumber,
			utils.DaysLate(order.LatestRentalEnd(), time.Now()))
	}
}

// ActivateCodRental collapses pending_payment directly into active_rental
// for in-store pickups: the customer is physically present, so shipping and
// delivery never happen. Payment is marked received in the same operation.
func (s *orderService) ActivateCodRental(ctx context.Context, orderID int64, actor string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.PaymentMethod.IsCashMethod() {
		return nil, domain.NewError(domain.CodeInvalidStatus,
			"order %s is not a cash/pickup order", order.OrderNumber)
	}
	if domain.NormalizeOrderStatus(order.Status) != domain.OrderStatusPendingPayment {
		return nil, domain.NewError(domain.CodeInvalidTransition,
			"order %s is %s, expected %s", order.OrderNumber, order.Status, domain.OrderStatusPendingPayment)
	}

	now := time.Now()
	order.Status = domain.OrderStatusActiveRental
	order.PaymentStatus = domain.PaymentStatusPaid
	order.ConfirmedAt = &now
	order.StatusHistory = append(order.StatusHistory, domain.StatusChange{
		Status:    domain.OrderStatusActiveRental,
		ChangedAt: now,
		ChangedBy: actor,
		Notes:     "picked up in store, rental activated",
	})
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	if err := s.avail.ConfirmByOrder(ctx, order.ID); err != nil {
		return nil, err
	}

	s.audit(ctx, &domain.AuditEntry{
		OrderID:    order.ID,
		Action:     domain.AuditActionTransition,
		FromStatus: domain.OrderStatusPendingPayment,
		ToStatus:   domain.OrderStatusActiveRental,
		Actor:      actor,
		Detail:     "in-store pickup fast path",
	})
	logger.Info("COD rental activated", "order_id", order.ID, "order_number", order.OrderNumber)
	return order, nil
}

// Cancel aborts an order and releases its reservations so the dates open up
// for other customers immediately.
func (s *orderService) Cancel(ctx context.Context, orderID int64, actor, reason string) (*domain.Order, error) {
	order, err := s.Transition(ctx, orderID, domain.OrderStatusCancelled, actor, reason)
	if err != nil {
		return nil, err
	}
	if err := s.avail.ReleaseByOrder(ctx, order.ID); err != nil {
		logger.Error("Failed to release reservations for cancelled order", "order_id", order.ID, "error", err)
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	return s.orderRepo.GetByIDForUser(ctx, orderID, userID)
}

func (s *orderService) ListOrders(ctx context.Context, userID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error) {
	return s.orderRepo.ListByUser(ctx, userID, domain.NormalizeOrderStatus(status), page, pageSize)
}

func (s *orderService) AuditTrail(ctx context.Context, orderID int64) ([]domain.AuditEntry, error) {
	if _, err := s.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.auditRepo.ListByOrder(ctx, orderID)
}

// audit appends to the audit log; failures are logged, never propagated, so
// auditing can't roll back a transition that already happened.
func (s *orderService) audit(ctx context.Context, entry *domain.AuditEntry) {
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		logger.Error("Failed to append audit entry", "order_id", entry.OrderID, "action", entry.Action, "error", err)
	}
}
