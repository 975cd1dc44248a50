package services

import (
	"context"
	"errors"

	"github.com/costaendriw/delivery-system/models"
	repositories "github.com/costaendriw/delivery-system/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateCustomerRequest struct {
	Name                   string `json:"name" binding:"required"`
	Phone                  string `json:"phone" binding:"required"`
	Address                string `json:"address" binding:"required"`
	ConsumptionPatternDays int    `json:"consumption_pattern_days"`
}

type UpdateCustomerRequest struct {
	Name                   *string `json:"name"`
	Phone                  *string `json:"phone"`
	Address                *string `json:"address"`
	ConsumptionPatternDays *int    `json:"consumption_pattern_days"`
}

type CustomerService struct {
	customerRepo repositories.CustomerRepository
	logger       *zap.Logger
}

func NewCustomerService(customerRepo repositories.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, logger: logger}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*models.Customer, *ServiceError) {
	if _, err := s.customerRepo.FindByPhone(ctx, req.Phone); err == nil {
		return nil, &ServiceError{StatusCode: 400, Message: "phone already registered"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to check phone uniqueness", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to create customer"}
	}

	days := req.ConsumptionPatternDays
	if days <= 0 {
		days = 30
	}

	customer := &models.Customer{
		Name:                   req.Name,
		Phone:                  req.Phone,
		Address:                req.Address,
		ConsumptionPatternDays: days,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		s.logger.Error("failed to create customer", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to create customer"}
	}
	return customer, nil
}

func (s *CustomerService) ListCustomers(ctx context.Context, skip, limit int) ([]models.Customer, *ServiceError) {
	customers, err := s.customerRepo.FindAll(ctx, skip, limit)
	if err != nil {
		s.logger.Error("failed to list customers", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to fetch customers"}
	}
	return customers, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, *ServiceError) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "customer not found"}
		}
		s.logger.Error("failed to fetch customer", zap.String("customer_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to fetch customer"}
	}
	return customer, nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req *UpdateCustomerRequest) (*models.Customer, *ServiceError) {
	customer, svcErr := s.GetCustomer(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.Phone != nil && *req.Phone != customer.Phone {
		existing, err := s.customerRepo.FindByPhone(ctx, *req.Phone)
		if err == nil && existing.ID != id {
			return nil, &ServiceError{StatusCode: 400, Message: "phone already registered for another customer"}
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("failed to check phone uniqueness", zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "failed to update customer"}
		}
		customer.Phone = *req.Phone
	}
	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.ConsumptionPatternDays != nil && *req.ConsumptionPatternDays > 0 {
		customer.ConsumptionPatternDays = *req.ConsumptionPatternDays
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		s.logger.Error("failed to update customer", zap.String("customer_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to update customer"}
	}
	return customer, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) *ServiceError {
	if _, svcErr := s.GetCustomer(ctx, id); svcErr != nil {
		return svcErr
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete customer", zap.String("customer_id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "failed to delete customer"}
	}
	return nil
}
