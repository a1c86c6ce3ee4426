package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"dressrental-backend/internal/domain"
)

func testOrderService(t *testing.T) (*orderService, *MockOrderRepo, *MockCartRepo, *MockCouponRepo, *MockAvailability, *MockAuditRepo, *MockNotificationRepo, *MockUserRepo, *MockEmailService) {
	t.Helper()
	orderRepo := new(MockOrderRepo)
	cartRepo := new(MockCartRepo)
	couponRepo := new(MockCouponRepo)
	userRepo := new(MockUserRepo)
	auditRepo := new(MockAuditRepo)
	noteRepo := new(MockNotificationRepo)
	avail := new(MockAvailability)
	emailSvc := new(MockEmailService)
	svc := NewOrderService(orderRepo, cartRepo, couponRepo, userRepo, auditRepo, noteRepo, avail, emailSvc, OrderSettings{
		ServiceFeePercent: 5,
		ShippingFee:       30000,
		PickupDeadline:    2 * time.Hour,
	}).(*orderService)
	return svc, orderRepo, cartRepo, couponRepo, avail, auditRepo, noteRepo, userRepo, emailSvc
}

func testCart() *domain.Cart {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 5)
	return &domain.Cart{
		UserID: 1,
		Items: []domain.CartItem{{
			ID:          7,
			ProductID:   10,
			Name:        "Silk Evening Gown",
			Variant:     testVariant,
			RentalStart: &start,
			RentalEnd:   &end,
			PricePerDay: 200000,
			Deposit:     500000,
			Quantity:    1,
		}},
		Totals: domain.CartTotals{Subtotal: 1000000},
	}
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("OnlinePaymentWithCoupon", func(t *testing.T) {
		svc, orderRepo, cartRepo, couponRepo, avail, auditRepo, _, _, _ := testOrderService(t)

		cartRepo.On("GetByUser", ctx, int64(1)).Return(testCart(), nil)
		avail.On("CheckAvailability", ctx, int64(10), testVariant, mock.Anything, mock.Anything, 1).
			Return(&AvailabilityResult{Available: true, TotalStock: 3, Reserved: 0}, nil)
		couponRepo.On("GetByCode", ctx, "SUMMER50").Return(&domain.Coupon{
			ID: 3, Code: "SUMMER50", Discount: 50000, Active: true,
		}, nil)
		orderRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Order).ID = 42
		}).Return(nil)
		avail.On("CreateHold", ctx, mock.MatchedBy(func(req HoldRequest) bool {
			return req.ProductID == 10 && req.Quantity == 1 && req.OrderID != nil && *req.OrderID == 42
		})).Return(&domain.Reservation{ID: 1}, nil)
		couponRepo.On("IncrementUsage", ctx, int64(3)).Return(nil)
		cartRepo.On("Clear", ctx, int64(1)).Return(nil)
		auditRepo.On("Append", ctx, mock.Anything).Return(nil)

		order, err := svc.CreateOrder(ctx, 1, CreateOrderInput{
			ShippingAddress: &domain.Address{Recipient: "Lan", Phone: "0901", Line1: "1 Main St", City: "HCMC"},
			PaymentMethod:   domain.PaymentMethodMomo,
			CouponCode:      "SUMMER50",
		})
		assert.NoError(t, err)

		assert.Equal(t, int64(1000000), order.Subtotal)
		assert.Equal(t, int64(50000), order.CouponDiscount)
		assert.Equal(t, int64(30000), order.ShippingFee)
		assert.Equal(t, int64(50000), order.ServiceFee)
		// 1,000,000 - 50,000 + 30,000 + 50,000
		assert.Equal(t, int64(1030000), order.Total)
		assert.Equal(t, int64(500000), order.TotalDeposit)
		assert.Equal(t, int64(1000000), order.Items[0].LineTotal)
		assert.Equal(t, 5, order.Items[0].RentalDays)

		assert.Equal(t, domain.OrderStatusPendingPayment, order.Status)
		assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
		assert.Nil(t, order.PickupDeadline, "online payment has no pickup deadline")
		assert.Len(t, order.StatusHistory, 1)

		// Online payment: reservations stay on hold until the gateway confirms.
		avail.AssertNotCalled(t, "ConfirmByOrder", ctx, mock.Anything)
		orderRepo.AssertExpectations(t)
		couponRepo.AssertExpectations(t)
	})

	t.Run("StorePickupSkipsShippingAndConfirmsHolds", func(t *testing.T) {
		svc, orderRepo, cartRepo, _, avail, auditRepo, _, _, _ := testOrderService(t)

		cartRepo.On("GetByUser", ctx, int64(1)).Return(testCart(), nil)
		avail.On("CheckAvailability", ctx, int64(10), testVariant, mock.Anything, mock.Anything, 1).
			Return(&AvailabilityResult{Available: true}, nil)
		orderRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Order).ID = 43
		}).Return(nil)
		avail.On("CreateHold", ctx, mock.Anything).Return(&domain.Reservation{ID: 2}, nil)
		avail.On("ConfirmByOrder", ctx, int64(43)).Return(nil).Once()
		cartRepo.On("Clear", ctx, int64(1)).Return(nil)
		auditRepo.On("Append", ctx, mock.Anything).Return(nil)

		// No shipping address needed for in-store pickup.
		order, err := svc.CreateOrder(ctx, 1, CreateOrderInput{PaymentMethod: domain.PaymentMethodStore})
		assert.NoError(t, err)
		assert.Equal(t, int64(0), order.ShippingFee)
		assert.NotNil(t, order.PickupDeadline)
		assert.WithinDuration(t, time.Now().Add(2*time.Hour), *order.PickupDeadline, time.Minute)
		avail.AssertExpectations(t)
	})

	t.Run("NumbersDifferAcrossSameInstantCheckouts", func(t *testing.T) {
		svc, orderRepo, cartRepo, _, avail, auditRepo, _, _, _ := testOrderService(t)

		cartRepo.On("GetByUser", ctx, int64(1)).Return(testCart(), nil)
		avail.On("CheckAvailability", ctx, int64(10), testVariant, mock.Anything, mock.Anything, 1).
			Return(&AvailabilityResult{Available: true}, nil)
		orderRepo.On("Create", ctx, mock.Anything).Return(nil)
		avail.On("CreateHold", ctx, mock.Anything).Return(&domain.Reservation{ID: 3}, nil)
		avail.On("ConfirmByOrder", ctx, mock.Anything).Return(nil)
		cartRepo.On("Clear", ctx, int64(1)).Return(nil)
		auditRepo.On("Append", ctx, mock.Anything).Return(nil)

		// Two checkouts created back to back must never share a number,
		// whatever else they have in common.
		first, err := svc.CreateOrder(ctx, 1, CreateOrderInput{PaymentMethod: domain.PaymentMethodStore})
		assert.NoError(t, err)
		second, err := svc.CreateOrder(ctx, 1, CreateOrderInput{PaymentMethod: domain.PaymentMethodStore})
		assert.NoError(t, err)
		assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		svc, _, cartRepo, _, _, _, _, _, _ := testOrderService(t)
		cartRepo.On("GetByUser", ctx, int64(1)).Return(&domain.Cart{UserID: 1}, nil)

		_, err := svc.CreateOrder(ctx, 1, CreateOrderInput{PaymentMethod: domain.PaymentMethodMomo})
		assert.True(t, domain.IsCode(err, domain.CodeEmptyCart))
	})

	t.Run("SelectionMatchesNothing", func(t *testing.T) {
		svc, _, cartRepo, _, _, _, _, _, _ := testOrderService(t)
		cartRepo.On("GetByUser", ctx, int64(1)).Return(testCart(), nil)

		_, err := svc.CreateOrder(ctx, 1, CreateOrderInput{
			PaymentMethod: domain.PaymentMethodStore,
			ItemIDs:       []int64{999},
		})
		assert.True(t, domain.IsCode(err, domain.CodeEmptySelection))
	})

	t.Run("MissingShippingAddress", func(t *testing.T) {
		svc, _, cartRepo, _, _, _, _, _, _ := testOrderService(t)
		cartRepo.On("GetByUser", ctx, int64(1)).Return(testCart(), nil)

		_, err := svc.CreateOrder(ctx, 1, CreateOrderInput{PaymentMethod: domain.PaymentMethodMomo})
		assert.True(t, domain.IsCode(err, domain.CodeMissingShippingAddress))
	})

	t.Run("MissingRentalDates", func(t *testing.T) {
		svc, _, cartRepo, _, _, _, _, _, _ := testOrderService(t)
		cart := testCart()
		cart.Items[0].RentalStart = nil
		cart.Items[0].RentalEnd = nil
		cartRepo.On("GetByUser", ctx, int64(1)).Return(cart, nil)

		_, err := svc.CreateOrder(ctx, 1, CreateOrderInput{PaymentMethod: domain.PaymentMethodStore})
		assert.True(t, domain.IsCode(err, domain.CodeMissingRentalDates))
	})

	t.Run("UnavailableItemAbortsBeforePersisting", func(t *testing.T) {
		svc, orderRepo, cartRepo, _, avail, _, _, _, _ := testOrderService(t)
		cartRepo.On("GetByUser", ctx, int64(1)).Return(testCart(), nil)
		avail.On("CheckAvailability", ctx, int64(10), testVariant, mock.Anything, mock.Anything, 1).
			Return(&AvailabilityResult{Available: false, TotalStock: 3, Reserved: 3}, nil)

		_, err := svc.CreateOrder(ctx, 1, CreateOrderInput{PaymentMethod: domain.PaymentMethodStore})
		assert.True(t, domain.IsCode(err, domain.CodeNotAvailable))
		orderRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("HoldRaceLostReleasesAndAborts", func(t *testing.T) {
		svc, orderRepo, cartRepo, _, avail, _, _, _, _ := testOrderService(t)
		cartRepo.On("GetByUser", ctx, int64(1)).Return(testCart(), nil)
		avail.On("CheckAvailability", ctx, int64(10), testVariant, mock.Anything, mock.Anything, 1).
			Return(&AvailabilityResult{Available: true}, nil)
		orderRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Order).ID = 44
		}).Return(nil)
		avail.On("CreateHold", ctx, mock.Anything).
			Return(nil, domain.NewError(domain.CodeNotAvailable, "race lost"))
		avail.On("ReleaseByOrder", ctx, int64(44)).Return(nil).Once()

		_, err := svc.CreateOrder(ctx, 1, CreateOrderInput{PaymentMethod: domain.PaymentMethodStore})
		assert.True(t, domain.IsCode(err, domain.CodeNotAvailable))
		avail.AssertExpectations(t)
	})

	t.Run("ExpiredCouponRejected", func(t *testing.T) {
		svc, _, cartRepo, couponRepo, avail, _, _, _, _ := testOrderService(t)
		cartRepo.On("GetByUser", ctx, int64(1)).Return(testCart(), nil)
		avail.On("CheckAvailability", ctx, int64(10), testVariant, mock.Anything, mock.Anything, 1).
			Return(&AvailabilityResult{Available: true}, nil)
		past := time.Now().AddDate(0, -1, 0)
		couponRepo.On("GetByCode", ctx, "OLD").Return(&domain.Coupon{
			ID: 9, Code: "OLD", Discount: 50000, Active: true, ValidUntil: &past,
		}, nil)

		_, err := svc.CreateOrder(ctx, 1, CreateOrderInput{
			PaymentMethod: domain.PaymentMethodStore,
			CouponCode:    "OLD",
		})
		assert.True(t, domain.IsCode(err, domain.CodeCouponInvalid))
	})
}

func TestTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidMoveAppendsHistoryAndNotifies", func(t *testing.T) {
		svc, orderRepo, _, _, _, auditRepo, noteRepo, userRepo, emailSvc := testOrderService(t)
		order := &domain.Order{
			ID: 42, OrderNumber: "ORD-20260601-0001", UserID: 1,
			Status: domain.OrderStatusPendingPayment, Total: 1030000,
			StatusHistory: []domain.StatusChange{{Status: domain.OrderStatusPendingPayment}},
		}
		orderRepo.On("GetByID", ctx, int64(42)).Return(order, nil)
		orderRepo.On("Update", ctx, mock.MatchedBy(func(o *domain.Order) bool {
			return o.Status == domain.OrderStatusConfirmed && len(o.StatusHistory) == 2 && o.ConfirmedAt != nil
		})).Return(nil)
		auditRepo.On("Append", ctx, mock.MatchedBy(func(e *domain.AuditEntry) bool {
			return e.FromStatus == domain.OrderStatusPendingPayment && e.ToStatus == domain.OrderStatusConfirmed
		})).Return(nil)
		noteRepo.On("Create", ctx, mock.Anything).Return(nil)
		userRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Name: "Lan", Email: "lan@test.com"}, nil)
		emailSvc.On("SendOrderConfirmation", ctx, "lan@test.com", "Lan", "ORD-20260601-0001", int64(1030000)).Return(nil)

		updated, err := svc.Transition(ctx, 42, domain.OrderStatusConfirmed, "admin:9", "paid offline")
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusConfirmed, updated.Status)
		orderRepo.AssertExpectations(t)
		emailSvc.AssertExpectations(t)
	})

	t.Run("InvalidMoveMutatesNothing", func(t *testing.T) {
		svc, orderRepo, _, _, _, _, _, _, _ := testOrderService(t)
		order := &domain.Order{ID: 42, Status: domain.OrderStatusPendingPayment}
		orderRepo.On("GetByID", ctx, int64(42)).Return(order, nil)

		_, err := svc.Transition(ctx, 42, domain.OrderStatusActiveRental, "admin:9", "")
		assert.True(t, domain.IsCode(err, domain.CodeInvalidTransition))
		orderRepo.AssertNotCalled(t, "Update", ctx, mock.Anything)
	})

	t.Run("LegacyStatusNormalizedBeforeCheck", func(t *testing.T) {
		svc, orderRepo, _, _, _, auditRepo, noteRepo, userRepo, emailSvc := testOrderService(t)
		order := &domain.Order{ID: 50, UserID: 1, Status: "renting"}
		orderRepo.On("GetByID", ctx, int64(50)).Return(order, nil)
		orderRepo.On("Update", ctx, mock.Anything).Return(nil)
		auditRepo.On("Append", ctx, mock.Anything).Return(nil)
		noteRepo.On("Create", ctx, mock.Anything).Return(nil)
		userRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Email: "lan@test.com"}, nil)
		emailSvc.On("SendOverdueReminder", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		updated, err := svc.Transition(ctx, 50, domain.OrderStatusOverdue, "system", "")
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusOverdue, updated.Status)
	})
}

func TestActivateCodRental(t *testing.T) {
	ctx := context.Background()

	t.Run("FastPath", func(t *testing.T) {
		svc, orderRepo, _, _, avail, auditRepo, _, _, _ := testOrderService(t)
		order := &domain.Order{
			ID: 42, OrderNumber: "ORD-20260601-0001",
			PaymentMethod: domain.PaymentMethodCOD,
			PaymentStatus: domain.PaymentStatusPending,
			Status:        domain.OrderStatusPendingPayment,
		}
		orderRepo.On("GetByID", ctx, int64(42)).Return(order, nil)
		orderRepo.On("Update", ctx, mock.MatchedBy(func(o *domain.Order) bool {
			return o.Status == domain.OrderStatusActiveRental &&
				o.PaymentStatus == domain.PaymentStatusPaid &&
				o.ConfirmedAt != nil
		})).Return(nil)
		avail.On("ConfirmByOrder", ctx, int64(42)).Return(nil)
		auditRepo.On("Append", ctx, mock.Anything).Return(nil)

		updated, err := svc.ActivateCodRental(ctx, 42, "staff:3")
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusActiveRental, updated.Status)
		orderRepo.AssertExpectations(t)
	})

	t.Run("RejectsOnlineOrders", func(t *testing.T) {
		svc, orderRepo, _, _, _, _, _, _, _ := testOrderService(t)
		orderRepo.On("GetByID", ctx, int64(42)).Return(&domain.Order{
			ID: 42, PaymentMethod: domain.PaymentMethodMomo, Status: domain.OrderStatusPendingPayment,
		}, nil)

		_, err := svc.ActivateCodRental(ctx, 42, "staff:3")
		assert.True(t, domain.IsCode(err, domain.CodeInvalidStatus))
	})

	t.Run("RejectsWrongState", func(t *testing.T) {
		svc, orderRepo, _, _, _, _, _, _, _ := testOrderService(t)
		orderRepo.On("GetByID", ctx, int64(42)).Return(&domain.Order{
			ID: 42, PaymentMethod: domain.PaymentMethodCOD, Status: domain.OrderStatusCancelled,
		}, nil)

		_, err := svc.ActivateCodRental(ctx, 42, "staff:3")
		assert.True(t, domain.IsCode(err, domain.CodeInvalidTransition))
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("ReleasesReservations", func(t *testing.T) {
		svc, orderRepo, _, _, avail, auditRepo, _, _, _ := testOrderService(t)
		order := &domain.Order{ID: 42, Status: domain.OrderStatusPendingPayment}
		orderRepo.On("GetByID", ctx, int64(42)).Return(order, nil)
		orderRepo.On("Update", ctx, mock.Anything).Return(nil)
		auditRepo.On("Append", ctx, mock.Anything).Return(nil)
		avail.On("ReleaseByOrder", ctx, int64(42)).Return(nil).Once()

		updated, err := svc.Cancel(ctx, 42, "user:1", "changed my mind")
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, updated.Status)
		avail.AssertExpectations(t)
	})

	t.Run("TerminalOrderCannotBeCancelled", func(t *testing.T) {
		svc, orderRepo, _, _, avail, _, _, _, _ := testOrderService(t)
		orderRepo.On("GetByID", ctx, int64(42)).Return(&domain.Order{
			ID: 42, Status: domain.OrderStatusCompleted,
		}, nil)

		_, err := svc.Cancel(ctx, 42, "user:1", "")
		assert.True(t, domain.IsCode(err, domain.CodeInvalidTransition))
		avail.AssertNotCalled(t, "ReleaseByOrder", ctx, mock.Anything)
	})
}

func TestAuditTrail(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsEntriesOldestFirst", func(t *testing.T) {
		svc, orderRepo, _, _, _, auditRepo, _, _, _ := testOrderService(t)
		orderRepo.On("GetByID", ctx, int64(42)).Return(&domain.Order{ID: 42}, nil)
		auditRepo.On("ListByOrder", ctx, int64(42)).Return([]domain.AuditEntry{
			{ID: 1, OrderID: 42, Action: domain.AuditActionCreate},
			{ID: 2, OrderID: 42, Action: domain.AuditActionTransition},
		}, nil)

		entries, err := svc.AuditTrail(ctx, 42)
		assert.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, domain.AuditActionCreate, entries[0].Action)
	})

	t.Run("UnknownOrder", func(t *testing.T) {
		svc, orderRepo, _, _, _, auditRepo, _, _, _ := testOrderService(t)
		orderRepo.On("GetByID", ctx, int64(99)).
			Return(nil, domain.NewError(domain.CodeOrderNotFound, "order 99 not found"))

		_, err := svc.AuditTrail(ctx, 99)
		assert.True(t, domain.IsCode(err, domain.CodeOrderNotFound))
		auditRepo.AssertNotCalled(t, "ListByOrder", ctx, mock.Anything)
	})
}
