package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"dressrental-backend/internal/domain"
)

// MockOrderRepo
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockOrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderRepo) GetByIDForUser(ctx context.Context, id, userID int64) (*domain.Order, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderRepo) Update(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockOrderRepo) ListByUser(ctx context.Context, userID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	return args.Get(0).([]domain.Order), args.Get(1).(int32), args.Error(2)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) SumBlockingOverlapping(ctx context.Context, productID int64, variant domain.VariantKey, start, end time.Time) (int, error) {
	args := m.Called(ctx, productID, variant, start, end)
	return args.Int(0), args.Error(1)
}
func (m *MockReservationRepo) CreateIfAvailable(ctx context.Context, res *domain.Reservation, totalStock int) error {
	args := m.Called(ctx, res, totalStock)
	return args.Error(0)
}
func (m *MockReservationRepo) ConfirmByOrder(ctx context.Context, orderID int64) (int64, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockReservationRepo) ReleaseByOrder(ctx context.Context, orderID int64) (int64, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockReservationRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockReservationRepo) ListByOrder(ctx context.Context, orderID int64) ([]domain.Reservation, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

// MockInventoryRepo
type MockInventoryRepo struct {
	mock.Mock
}

func (m *MockInventoryRepo) GetByVariant(ctx context.Context, productID int64, variant domain.VariantKey) (*domain.Inventory, error) {
	args := m.Called(ctx, productID, variant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}
func (m *MockInventoryRepo) MoveToLost(ctx context.Context, productID int64, variant domain.VariantKey, qty int) error {
	args := m.Called(ctx, productID, variant, qty)
	return args.Error(0)
}
func (m *MockInventoryRepo) MoveToRepair(ctx context.Context, productID int64, variant domain.VariantKey, qty int) error {
	args := m.Called(ctx, productID, variant, qty)
	return args.Error(0)
}
func (m *MockInventoryRepo) Adjust(ctx context.Context, productID int64, variant domain.VariantKey, deltaAvailable, deltaCleaning, deltaRepair, deltaLost int) error {
	args := m.Called(ctx, productID, variant, deltaAvailable, deltaCleaning, deltaRepair, deltaLost)
	return args.Error(0)
}

// MockReturnRepo
type MockReturnRepo struct {
	mock.Mock
}

func (m *MockReturnRepo) Create(ctx context.Context, ret *domain.Return) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}
func (m *MockReturnRepo) GetByOrder(ctx context.Context, orderID int64) (*domain.Return, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Return), args.Error(1)
}
func (m *MockReturnRepo) Update(ctx context.Context, ret *domain.Return) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}

// MockCartRepo
type MockCartRepo struct {
	mock.Mock
}

func (m *MockCartRepo) GetByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}
func (m *MockCartRepo) Clear(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockCouponRepo
type MockCouponRepo struct {
	mock.Mock
}

func (m *MockCouponRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}
func (m *MockCouponRepo) IncrementUsage(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockAuditRepo
type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Append(ctx context.Context, entry *domain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockAuditRepo) ListByOrder(ctx context.Context, orderID int64) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockAvailability
type MockAvailability struct {
	mock.Mock
}

func (m *MockAvailability) CheckAvailability(ctx context.Context, productID int64, variant domain.VariantKey, start, end time.Time, quantity int) (*AvailabilityResult, error) {
	args := m.Called(ctx, productID, variant, start, end, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AvailabilityResult), args.Error(1)
}
func (m *MockAvailability) CreateHold(ctx context.Context, req HoldRequest) (*domain.Reservation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockAvailability) ConfirmByOrder(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}
func (m *MockAvailability) ReleaseByOrder(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}
func (m *MockAvailability) MonthCalendar(ctx context.Context, productID int64, variant domain.VariantKey, year int, month time.Month) ([]CalendarDay, error) {
	args := m.Called(ctx, productID, variant, year, month)
	return args.Get(0).([]CalendarDay), args.Error(1)
}

// MockOrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, userID int64, input CreateOrderInput) (*domain.Order, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderService) Transition(ctx context.Context, orderID int64, to domain.OrderStatus, actor, notes string) (*domain.Order, error) {
	args := m.Called(ctx, orderID, to, actor, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderService) ActivateCodRental(ctx context.Context, orderID int64, actor string) (*domain.Order, error) {
	args := m.Called(ctx, orderID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderService) Cancel(ctx context.Context, orderID int64, actor, reason string) (*domain.Order, error) {
	args := m.Called(ctx, orderID, actor, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderService) GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderService) ListOrders(ctx context.Context, userID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	return args.Get(0).([]domain.Order), args.Get(1).(int32), args.Error(2)
}
func (m *MockOrderService) AuditTrail(ctx context.Context, orderID int64) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOrderConfirmation(ctx context.Context, email, name, orderNumber string, total int64) error {
	args := m.Called(ctx, email, name, orderNumber, total)
	return args.Error(0)
}
func (m *MockEmailService) SendOrderShipped(ctx context.Context, email, name, orderNumber string) error {
	args := m.Called(ctx, email, name, orderNumber)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueReminder(ctx context.Context, email, name, orderNumber string, daysLate int) error {
	args := m.Called(ctx, email, name, orderNumber, daysLate)
	return args.Error(0)
}
func (m *MockEmailService) SendSettlementSummary(ctx context.Context, email, name, orderNumber string, lateFee, damageFee, refund int64) error {
	args := m.Called(ctx, email, name, orderNumber, lateFee, damageFee, refund)
	return args.Error(0)
}
