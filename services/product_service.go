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

type CreateProductRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"min=0"`
	ProductType   string  `json:"product_type" binding:"required,oneof=gas water"`
	StockQuantity int     `json:"stock_quantity"`
	IsActive      *bool   `json:"is_active"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	ProductType   *string  `json:"product_type"`
	StockQuantity *int     `json:"stock_quantity"`
	IsActive      *bool    `json:"is_active"`
}

type ProductService struct {
	productRepo repositories.ProductRepository
	logger      *zap.Logger
}

func NewProductService(productRepo repositories.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, logger: logger}
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, *ServiceError) {
	if req.Price < 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "price must be non-negative"}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		ProductType:   req.ProductType,
		StockQuantity: req.StockQuantity,
		IsActive:      isActive,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error("failed to create product", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to create product"}
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, skip, limit int, filters repositories.ProductFilters) ([]models.Product, *ServiceError) {
	products, err := s.productRepo.FindAll(ctx, skip, limit, filters)
	if err != nil {
		s.logger.Error("failed to list products", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to fetch products"}
	}
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "product not found"}
		}
		s.logger.Error("failed to fetch product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to fetch product"}
	}
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, *ServiceError) {
	product, svcErr := s.GetProduct(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, &ServiceError{StatusCode: 400, Message: "price must be non-negative"}
		}
		product.Price = *req.Price
	}
	if req.ProductType != nil {
		if *req.ProductType != models.ProductTypeGas && *req.ProductType != models.ProductTypeWater {
			return nil, &ServiceError{StatusCode: 400, Message: "product_type must be gas or water"}
		}
		product.ProductType = *req.ProductType
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("failed to update product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "failed to update product"}
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError {
	if _, svcErr := s.GetProduct(ctx, id); svcErr != nil {
		return svcErr
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete product", zap.String("product_id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "failed to delete product"}
	}
	return nil
}
