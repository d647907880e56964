package routes

import (
	"github.com/BekmurodFoziloff/e-commerce/controllers"
	"github.com/gin-gonic/gin"
)

// Register wires the HTTP surface. Every route requires an authenticated
// session; order and payment detail routes additionally require ownership.
func Register(
	r *gin.Engine,
	auth gin.HandlerFunc,
	isCustomerOrder gin.HandlerFunc,
	isCustomerPayment gin.HandlerFunc,
	carts *controllers.CartController,
	orders *controllers.OrderController,
	payments *controllers.PaymentController,
) {
	cart := r.Group("/cart", auth)
	{
		cart.GET("", carts.GetCart)
		cart.POST("/new", carts.AddItem)
		cart.PATCH("/:productId/update", carts.UpdateItem)
		cart.DELETE("/:productId/delete", carts.RemoveItem)
	}

	order := r.Group("/order", auth)
	{
		order.GET("", orders.FindAllOrders)
		order.POST("/new", orders.CreateOrder)
		order.GET("/:id", isCustomerOrder, orders.FindOrderByID)
		order.PATCH("/:id/update", isCustomerOrder, orders.UpdateOrder)
		order.PATCH("/:id/update/status", isCustomerOrder, orders.UpdateOrderStatus)
		order.DELETE("/:id/delete", isCustomerOrder, orders.DeleteOrder)
	}

	payment := r.Group("/payment", auth)
	{
		payment.GET("", payments.FindAllPayments)
		payment.POST("", payments.CreatePayment)
		payment.GET("/:id", isCustomerPayment, payments.FindPaymentByID)
	}
}
