package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/costaendriw/delivery-system/models"
	repositories "github.com/costaendriw/delivery-system/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ServiceError carries an HTTP status alongside the message so controllers
// can map workflow failures straight onto the response.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

type CreateOrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	CustomerID uuid.UUID                `json:"customer_id" binding:"required"`
	Notes      string                   `json:"notes"`
	Items      []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

type OrderService struct {
	orderRepo    repositories.OrderRepository
	customerRepo repositories.CustomerRepository
	productRepo  repositories.ProductRepository
	whatsapp     WhatsAppSender
	logger       *zap.Logger
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	customerRepo repositories.CustomerRepository,
	productRepo repositories.ProductRepository,
	whatsapp WhatsAppSender,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		whatsapp:     whatsapp,
		logger:       logger,
	}
}

// CreateOrder validates the customer and every requested product, snapshots
// prices, and persists order + items + stock decrements atomically. The
// WhatsApp confirmation afterwards is best-effort: its failure is logged but
// never rolls back the order.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, *ServiceError) {
	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "customer not found"}
		}
		s.logger.Error("failed to fetch customer", zap.String("customer_id", req.CustomerID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to create order"}
	}

	order := &models.Order{
		CustomerID: customer.ID,
		Status:     models.OrderStatusNew,
		Notes:      req.Notes,
	}

	var totalAmount float64
	itemLines := make([]OrderItemLine, 0, len(req.Items))

	for _, itemReq := range req.Items {
		product, err := s.productRepo.FindByID(ctx, itemReq.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ServiceError{
					StatusCode: 404,
					Message:    fmt.Sprintf("product %s not found", itemReq.ProductID),
				}
			}
			s.logger.Error("failed to fetch product", zap.String("product_id", itemReq.ProductID.String()), zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "failed to create order"}
		}

		if !product.IsActive {
			return nil, &ServiceError{
				StatusCode: 400,
				Message:    fmt.Sprintf("product %s is not available", product.Name),
			}
		}

		subtotal := product.Price * float64(itemReq.Quantity)
		totalAmount += subtotal

		order.Items = append(order.Items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  itemReq.Quantity,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
		})
		itemLines = append(itemLines, OrderItemLine{
			ProductName: product.Name,
			Quantity:    itemReq.Quantity,
		})
	}

	order.TotalAmount = totalAmount

	if err := s.orderRepo.CreateWithItems(ctx, order); err != nil {
		s.logger.Error("failed to persist order", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to create order"}
	}

	result := s.whatsapp.SendOrderConfirmation(ctx, customer.Name, customer.Phone, order.ID.String(), itemLines, totalAmount)
	if !result.Success {
		s.logger.Warn("order confirmation message failed",
			zap.String("order_id", order.ID.String()),
			zap.String("error", result.Error),
		)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.Float64("total_amount", totalAmount),
	)

	return order, nil
}

// CompleteOrder marks the order delivered. Calling it again refreshes
// delivered_at; status stays "completed".
func (s *OrderService) CompleteOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "order not found"}
		}
		s.logger.Error("failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to complete order"}
	}

	now := time.Now().UTC()
	order.Status = models.OrderStatusCompleted
	order.DeliveredAt = &now

	if err := s.orderRepo.Update(ctx, order); err != nil {
		s.logger.Error("failed to update order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to complete order"}
	}

	customer, err := s.customerRepo.FindByID(ctx, order.CustomerID)
	if err != nil {
		// Order is already completed; missing customer only costs the message.
		s.logger.Warn("customer lookup failed for delivery confirmation",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return order, nil
	}

	result := s.whatsapp.SendDeliveryConfirmation(ctx, customer.Name, customer.Phone, order.ID.String())
	if !result.Success {
		s.logger.Warn("delivery confirmation message failed",
			zap.String("order_id", order.ID.String()),
			zap.String("error", result.Error),
		)
	}

	return order, nil
}

// ListCustomerOrders returns the customer's order history, most recent first.
// An unknown customer simply yields an empty slice.
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]models.Order, *ServiceError) {
	orders, err := s.orderRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.Error("failed to fetch customer orders", zap.String("customer_id", customerID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to fetch orders"}
	}
	return orders, nil
}

func (s *OrderService) ListOrders(ctx context.Context, skip, limit int, filters repositories.OrderFilters) ([]models.Order, *ServiceError) {
	orders, err := s.orderRepo.FindAll(ctx, skip, limit, filters)
	if err != nil {
		s.logger.Error("failed to fetch orders", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to fetch orders"}
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "order not found"}
		}
		s.logger.Error("failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to fetch order"}
	}
	return order, nil
}

// UpdateOrder changes status and/or notes; it carries no side effects.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID uuid.UUID, req *UpdateOrderRequest) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "order not found"}
		}
		s.logger.Error("failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to update order"}
	}

	if req.Status != nil {
		switch *req.Status {
		case models.OrderStatusNew, models.OrderStatusInDelivery, models.OrderStatusCompleted, models.OrderStatusCancelled:
			order.Status = *req.Status
		default:
			return nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("invalid status %q", *req.Status)}
		}
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		s.logger.Error("failed to update order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to update order"}
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) *ServiceError {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "order not found"}
		}
		s.logger.Error("failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "failed to delete order"}
	}
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		s.logger.Error("failed to delete order", zap.String("order_id", orderID.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "failed to delete order"}
	}
	return nil
}
