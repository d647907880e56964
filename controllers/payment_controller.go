package controllers

import (
	"net/http"
	"strconv"

	apperrors "github.com/BekmurodFoziloff/e-commerce/common/errors"
	"github.com/BekmurodFoziloff/e-commerce/middleware"
	"github.com/BekmurodFoziloff/e-commerce/services"
	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

// CreatePayment charges the gateway and records the payment
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	var req services.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	payment, err := pc.payments.CreatePayment(c.Request.Context(), req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// FindPaymentByID returns a payment owned by the authenticated customer
func (pc *PaymentController) FindPaymentByID(c *gin.Context) {
	payment, err := pc.payments.FindPaymentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// FindAllPayments lists the customer's payments with optional paging
func (pc *PaymentController) FindAllPayments(c *gin.Context) {
	user := middleware.CurrentUser(c)

	page := 0
	if p, err := strconv.Atoi(c.Query("page")); err == nil {
		page = p
	}

	payments, err := pc.payments.FindAllPayments(c.Request.Context(), user.ID, page)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
