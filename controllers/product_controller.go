package controllers

import (
	"net/http"
	"strconv"

	repositories "github.com/costaendriw/delivery-system/repository"
	"github.com/costaendriw/delivery-system/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductController struct {
	productService *services.ProductService
	cache          *CacheManager
}

func NewProductController(productService *services.ProductService, cache *CacheManager) *ProductController {
	return &ProductController{productService: productService, cache: cache}
}

func (pc *ProductController) CreateProduct(ctx *gin.Context) {
	var req services.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, svcErr := pc.productService.CreateProduct(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	pc.cache.Invalidate(ctx.Request.Context())
	ctx.JSON(http.StatusCreated, product)
}

func (pc *ProductController) ListProducts(ctx *gin.Context) {
	skip, limit := parseSkipLimit(ctx)

	filters := repositories.ProductFilters{
		ProductType: ctx.Query("product_type"),
	}
	if raw := ctx.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "is_active must be a boolean"})
			return
		}
		filters.IsActive = &active
	}

	if products, ok := pc.cache.GetProductList(ctx.Request.Context(), skip, limit, filters); ok {
		ctx.JSON(http.StatusOK, products)
		return
	}

	products, svcErr := pc.productService.ListProducts(ctx.Request.Context(), skip, limit, filters)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	pc.cache.SetProductListAsync(skip, limit, filters, products)
	ctx.JSON(http.StatusOK, products)
}

func (pc *ProductController) GetProduct(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	product, svcErr := pc.productService.GetProduct(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, product)
}

func (pc *ProductController) UpdateProduct(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	var req services.UpdateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, svcErr := pc.productService.UpdateProduct(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	pc.cache.Invalidate(ctx.Request.Context())
	ctx.JSON(http.StatusOK, product)
}

func (pc *ProductController) DeleteProduct(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	if svcErr := pc.productService.DeleteProduct(ctx.Request.Context(), id); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	pc.cache.Invalidate(ctx.Request.Context())
	ctx.Status(http.StatusNoContent)
}
