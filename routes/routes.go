package routes

import (
	"github.com/costaendriw/delivery-system/controllers"
	"github.com/costaendriw/delivery-system/middleware"
	"github.com/costaendriw/delivery-system/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.Engine,
	tokens *services.TokenService,
	authController *controllers.AuthController,
	customerController *controllers.CustomerController,
	productController *controllers.ProductController,
	orderController *controllers.OrderController,
	notificationController *controllers.NotificationController,
) {
	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))

	customers := protected.Group("/customers")
	customers.POST("", customerController.CreateCustomer)
	customers.GET("", customerController.ListCustomers)
	customers.GET("/:id", customerController.GetCustomer)
	customers.PUT("/:id", customerController.UpdateCustomer)
	customers.DELETE("/:id", customerController.DeleteCustomer)
	customers.GET("/:id/orders", orderController.GetCustomerOrderHistory)

	products := protected.Group("/products")
	products.POST("", productController.CreateProduct)
	products.GET("", productController.ListProducts)
	products.GET("/:id", productController.GetProduct)
	products.PUT("/:id", productController.UpdateProduct)
	products.DELETE("/:id", productController.DeleteProduct)

	orders := protected.Group("/orders")
	orders.POST("", orderController.CreateOrder)
	orders.GET("", orderController.ListOrders)
	orders.GET("/:id", orderController.GetOrder)
	orders.PUT("/:id", orderController.UpdateOrder)
	orders.POST("/:id/complete", orderController.CompleteOrder)
	orders.DELETE("/:id", orderController.DeleteOrder)

	notifications := protected.Group("/notifications")
	notifications.POST("/check-reminders", notificationController.CheckReminders)
}
