package services

import (
	"context"
	"testing"
	"time"

	"github.com/costaendriw/delivery-system/models"
	repositories "github.com/costaendriw/delivery-system/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- Mocks for Dependencies ---

type MockCustomerRepository struct{ mock.Mock }

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}
func (m *MockCustomerRepository) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}
func (m *MockCustomerRepository) FindAll(ctx context.Context, skip, limit int) ([]models.Customer, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Customer), args.Error(1)
}
func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}
func (m *MockCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}
func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
func (m *MockProductRepository) FindAll(ctx context.Context, skip, limit int, filters repositories.ProductFilters) ([]models.Product, error) {
	args := m.Called(ctx, skip, limit, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}
func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}
func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}
func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) CreateWithItems(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *MockOrderRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}
func (m *MockOrderRepository) FindAll(ctx context.Context, skip, limit int, filters repositories.OrderFilters) ([]models.Order, error) {
	args := m.Called(ctx, skip, limit, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}
func (m *MockOrderRepository) LastDelivered(ctx context.Context, customerID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *MockOrderRepository) Update(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeWhatsApp records outbound messages without touching the network.
type fakeWhatsApp struct {
	succeed            bool
	orderConfirmations int
	deliveryConfirms   int
	reminders          int
	lastTotal          float64
	lastItems          []OrderItemLine
	lastDaysRemaining  int
}

func (f *fakeWhatsApp) result() SendResult {
	if f.succeed {
		return SendResult{Success: true}
	}
	return SendResult{Success: false, Error: "gateway unavailable"}
}

func (f *fakeWhatsApp) SendMessage(ctx context.Context, to, body string) SendResult {
	return f.result()
}
func (f *fakeWhatsApp) SendOrderConfirmation(ctx context.Context, customerName, customerPhone, orderID string, items []OrderItemLine, total float64) SendResult {
	f.orderConfirmations++
	f.lastItems = items
	f.lastTotal = total
	return f.result()
}
func (f *fakeWhatsApp) SendDeliveryConfirmation(ctx context.Context, customerName, customerPhone, orderID string) SendResult {
	f.deliveryConfirms++
	return f.result()
}
func (f *fakeWhatsApp) SendReminder(ctx context.Context, customerName, customerPhone string, daysUntilEstimated int) SendResult {
	f.reminders++
	f.lastDaysRemaining = daysUntilEstimated
	return f.result()
}

// --- Tests ---

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	customerID := uuid.New()
	customer := &models.Customer{
		ID:    customerID,
		Name:  "Maria Silva",
		Phone: "+55 27 99999-0001",
	}

	gasID := uuid.New()
	waterID := uuid.New()
	gas := &models.Product{ID: gasID, Name: "Botijão P13", Price: 110.0, IsActive: true, StockQuantity: 10}
	water := &models.Product{ID: waterID, Name: "Galão 20L", Price: 12.5, IsActive: true, StockQuantity: 40}

	t.Run("Success", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		productRepo := new(MockProductRepository)
		orderRepo := new(MockOrderRepository)
		whatsapp := &fakeWhatsApp{succeed: true}
		svc := NewOrderService(orderRepo, customerRepo, productRepo, whatsapp, zap.NewNop())

		customerRepo.On("FindByID", ctx, customerID).Return(customer, nil).Once()
		productRepo.On("FindByID", ctx, gasID).Return(gas, nil).Once()
		productRepo.On("FindByID", ctx, waterID).Return(water, nil).Once()
		orderRepo.On("CreateWithItems", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()

		order, svcErr := svc.CreateOrder(ctx, &CreateOrderRequest{
			CustomerID: customerID,
			Notes:      "entregar de manhã",
			Items: []CreateOrderItemRequest{
				{ProductID: gasID, Quantity: 2},
				{ProductID: waterID, Quantity: 3},
			},
		})

		assert.Nil(t, svcErr)
		assert.Equal(t, models.OrderStatusNew, order.Status)
		assert.Equal(t, 2*110.0+3*12.5, order.TotalAmount)
		assert.Len(t, order.Items, 2)
		assert.Equal(t, 110.0, order.Items[0].UnitPrice)
		assert.Equal(t, 220.0, order.Items[0].Subtotal)
		assert.Equal(t, 37.5, order.Items[1].Subtotal)
		assert.Equal(t, 1, whatsapp.orderConfirmations)
		assert.Equal(t, order.TotalAmount, whatsapp.lastTotal)
		orderRepo.AssertExpectations(t)
	})

	t.Run("Unknown Customer", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		productRepo := new(MockProductRepository)
		orderRepo := new(MockOrderRepository)
		whatsapp := &fakeWhatsApp{succeed: true}
		svc := NewOrderService(orderRepo, customerRepo, productRepo, whatsapp, zap.NewNop())

		customerRepo.On("FindByID", ctx, customerID).Return(nil, gorm.ErrRecordNotFound).Once()

		order, svcErr := svc.CreateOrder(ctx, &CreateOrderRequest{
			CustomerID: customerID,
			Items:      []CreateOrderItemRequest{{ProductID: gasID, Quantity: 1}},
		})

		assert.Nil(t, order)
		assert.Equal(t, 404, svcErr.StatusCode)
		// Nothing may be persisted before the failure.
		orderRepo.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything)
		assert.Equal(t, 0, whatsapp.orderConfirmations)
	})

	t.Run("Unknown Product", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		productRepo := new(MockProductRepository)
		orderRepo := new(MockOrderRepository)
		svc := NewOrderService(orderRepo, customerRepo, productRepo, &fakeWhatsApp{succeed: true}, zap.NewNop())

		customerRepo.On("FindByID", ctx, customerID).Return(customer, nil).Once()
		productRepo.On("FindByID", ctx, gasID).Return(nil, gorm.ErrRecordNotFound).Once()

		order, svcErr := svc.CreateOrder(ctx, &CreateOrderRequest{
			CustomerID: customerID,
			Items:      []CreateOrderItemRequest{{ProductID: gasID, Quantity: 1}},
		})

		assert.Nil(t, order)
		assert.Equal(t, 404, svcErr.StatusCode)
		orderRepo.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything)
	})

	t.Run("Inactive Product Fails Whole Order", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		productRepo := new(MockProductRepository)
		orderRepo := new(MockOrderRepository)
		svc := NewOrderService(orderRepo, customerRepo, productRepo, &fakeWhatsApp{succeed: true}, zap.NewNop())

		inactive := &models.Product{ID: waterID, Name: "Galão 20L", Price: 12.5, IsActive: false}
		customerRepo.On("FindByID", ctx, customerID).Return(customer, nil).Once()
		productRepo.On("FindByID", ctx, gasID).Return(gas, nil).Once()
		productRepo.On("FindByID", ctx, waterID).Return(inactive, nil).Once()

		order, svcErr := svc.CreateOrder(ctx, &CreateOrderRequest{
			CustomerID: customerID,
			Items: []CreateOrderItemRequest{
				{ProductID: gasID, Quantity: 1},
				{ProductID: waterID, Quantity: 1},
			},
		})

		assert.Nil(t, order)
		assert.Equal(t, 400, svcErr.StatusCode)
		orderRepo.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything)
	})

	t.Run("Notification Failure Does Not Fail Order", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		productRepo := new(MockProductRepository)
		orderRepo := new(MockOrderRepository)
		whatsapp := &fakeWhatsApp{succeed: false}
		svc := NewOrderService(orderRepo, customerRepo, productRepo, whatsapp, zap.NewNop())

		customerRepo.On("FindByID", ctx, customerID).Return(customer, nil).Once()
		productRepo.On("FindByID", ctx, gasID).Return(gas, nil).Once()
		orderRepo.On("CreateWithItems", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()

		order, svcErr := svc.CreateOrder(ctx, &CreateOrderRequest{
			CustomerID: customerID,
			Items:      []CreateOrderItemRequest{{ProductID: gasID, Quantity: 1}},
		})

		assert.Nil(t, svcErr)
		assert.NotNil(t, order)
		assert.Equal(t, 1, whatsapp.orderConfirmations)
	})
}

func TestCompleteOrder(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		orderRepo := new(MockOrderRepository)
		whatsapp := &fakeWhatsApp{succeed: true}
		svc := NewOrderService(orderRepo, customerRepo, new(MockProductRepository), whatsapp, zap.NewNop())

		existing := &models.Order{ID: orderID, CustomerID: customerID, Status: models.OrderStatusNew}
		orderRepo.On("FindByID", ctx, orderID).Return(existing, nil).Once()
		orderRepo.On("Update", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()
		customerRepo.On("FindByID", ctx, customerID).Return(&models.Customer{ID: customerID, Name: "Maria", Phone: "5527999990001"}, nil).Once()

		order, svcErr := svc.CompleteOrder(ctx, orderID)

		assert.Nil(t, svcErr)
		assert.Equal(t, models.OrderStatusCompleted, order.Status)
		assert.NotNil(t, order.DeliveredAt)
		assert.Equal(t, 1, whatsapp.deliveryConfirms)
	})

	t.Run("Repeated Completion Refreshes DeliveredAt", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		orderRepo := new(MockOrderRepository)
		svc := NewOrderService(orderRepo, customerRepo, new(MockProductRepository), &fakeWhatsApp{succeed: true}, zap.NewNop())

		first := time.Now().UTC().Add(-48 * time.Hour)
		existing := &models.Order{ID: orderID, CustomerID: customerID, Status: models.OrderStatusCompleted, DeliveredAt: &first}
		orderRepo.On("FindByID", ctx, orderID).Return(existing, nil).Once()
		orderRepo.On("Update", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()
		customerRepo.On("FindByID", ctx, customerID).Return(&models.Customer{ID: customerID}, nil).Once()

		order, svcErr := svc.CompleteOrder(ctx, orderID)

		assert.Nil(t, svcErr)
		assert.Equal(t, models.OrderStatusCompleted, order.Status)
		assert.True(t, order.DeliveredAt.After(first))
	})

	t.Run("Not Found", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		svc := NewOrderService(orderRepo, new(MockCustomerRepository), new(MockProductRepository), &fakeWhatsApp{succeed: true}, zap.NewNop())

		orderRepo.On("FindByID", ctx, orderID).Return(nil, gorm.ErrRecordNotFound).Once()

		order, svcErr := svc.CompleteOrder(ctx, orderID)

		assert.Nil(t, order)
		assert.Equal(t, 404, svcErr.StatusCode)
	})
}

func TestListCustomerOrders(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, new(MockCustomerRepository), new(MockProductRepository), &fakeWhatsApp{succeed: true}, zap.NewNop())

	// No existence check: an unknown customer yields an empty history.
	orderRepo.On("FindByCustomerID", ctx, customerID).Return([]models.Order{}, nil).Once()

	orders, svcErr := svc.ListCustomerOrders(ctx, customerID)

	assert.Nil(t, svcErr)
	assert.Empty(t, orders)
	orderRepo.AssertExpectations(t)
}
