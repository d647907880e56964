package controllers

import (
	"net/http"
	"strconv"

	apperrors "github.com/BekmurodFoziloff/e-commerce/common/errors"
	"github.com/BekmurodFoziloff/e-commerce/middleware"
	"github.com/BekmurodFoziloff/e-commerce/models"
	"github.com/BekmurodFoziloff/e-commerce/repository"
	"github.com/BekmurodFoziloff/e-commerce/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// FindOrderByID returns a single order owned by the authenticated customer
func (oc *OrderController) FindOrderByID(c *gin.Context) {
	order, err := oc.orders.FindOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// FindAllOrders lists the customer's orders with optional query filters
// (page, minPrice, maxPrice, status)
func (oc *OrderController) FindAllOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)

	filter := repository.OrderFilter{
		Status: c.Query("status"),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		filter.Page = page
	}
	if minPrice, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		filter.MinPrice = minPrice
	}
	if maxPrice, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		filter.MaxPrice = maxPrice
	}

	orders, err := oc.orders.FindAllOrders(c.Request.Context(), user.ID, filter)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// CreateOrder converts the customer's current cart into a new pending order
func (oc *OrderController) CreateOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)

	order, err := oc.orders.CreateOrder(c.Request.Context(), user, readCartCookie(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	clearCartCookie(c)
	c.JSON(http.StatusCreated, order)
}

type updateOrderRequest struct {
	Products []struct {
		Product  string `json:"product" binding:"required"`
		Quantity int    `json:"quantity" binding:"required,gt=0"`
	} `json:"products" binding:"required,dive"`
}

// UpdateOrder replaces the order's line items, re-pricing from the catalog
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	items := make([]models.OrderProduct, 0, len(req.Products))
	for _, p := range req.Products {
		oid, err := primitive.ObjectIDFromHex(p.Product)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		items = append(items, models.OrderProduct{Product: oid, Quantity: p.Quantity})
	}

	order, err := oc.orders.UpdateOrderItems(c.Request.Context(), c.Param("id"), items)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus sets the order status and notifies the customer
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	order, err := oc.orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder deletes the order and returns the deleted snapshot
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	order, err := oc.orders.DeleteOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
