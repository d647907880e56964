package middleware

import (
	"fmt"
	"net/http"

	"github.com/BekmurodFoziloff/e-commerce/services"
	"github.com/gin-gonic/gin"
)

// IsCustomerOrder verifies that the authenticated customer owns the order in
// the route. Orders owned by someone else are reported as not found rather
// than forbidden, so the check leaks nothing about other customers' orders.
func IsCustomerOrder(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		user := CurrentUser(c)

		order, err := orders.FindOrderByID(c.Request.Context(), id)
		if err != nil || user == nil || order.Customer != user.ID {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Order with id %s not found", id),
			})
			return
		}
		c.Next()
	}
}

// IsCustomerPayment verifies that the authenticated customer owns the payment
// in the route.
func IsCustomerPayment(payments *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		user := CurrentUser(c)

		payment, err := payments.FindPaymentByID(c.Request.Context(), id)
		if err != nil || user == nil || payment.Customer != user.ID {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Payment with id %s not found", id),
			})
			return
		}
		c.Next()
	}
}
