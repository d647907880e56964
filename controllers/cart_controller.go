package controllers

import (
	"net/http"
	"time"

	apperrors "github.com/BekmurodFoziloff/e-commerce/common/errors"
	"github.com/BekmurodFoziloff/e-commerce/middleware"
	"github.com/BekmurodFoziloff/e-commerce/models"
	"github.com/BekmurodFoziloff/e-commerce/services"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	carts   *services.CartService
	cartTTL time.Duration
}

func NewCartController(carts *services.CartService, cartTTL time.Duration) *CartController {
	return &CartController{
		carts:   carts,
		cartTTL: cartTTL,
	}
}

// GetCart returns the current cart with each line priced via the catalog
func (cc *CartController) GetCart(c *gin.Context) {
	user := middleware.CurrentUser(c)

	items, err := cc.carts.GetCart(c.Request.Context(), user.ID.Hex(), readCartCookie(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// AddItem adds a product to the cart, merging quantities for existing lines
func (cc *CartController) AddItem(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	cart, err := cc.carts.AddItem(c.Request.Context(), user.ID.Hex(), readCartCookie(c), item.ProductID, item.Quantity)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	writeCartCookie(c, cart, int(cc.cartTTL.Seconds()))
	c.JSON(http.StatusCreated, "Item added to cart")
}

type updateCartRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// UpdateItem replaces the quantity of an existing cart line
func (cc *CartController) UpdateItem(c *gin.Context) {
	user := middleware.CurrentUser(c)
	productID := c.Param("productId")

	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	cart, err := cc.carts.UpdateItem(c.Request.Context(), user.ID.Hex(), readCartCookie(c), productID, req.Quantity)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	writeCartCookie(c, cart, int(cc.cartTTL.Seconds()))
	c.JSON(http.StatusOK, "Cart item quantity updated")
}

// RemoveItem removes a cart line; removing an absent line is a no-op
func (cc *CartController) RemoveItem(c *gin.Context) {
	user := middleware.CurrentUser(c)
	productID := c.Param("productId")

	cart, err := cc.carts.RemoveItem(c.Request.Context(), user.ID.Hex(), readCartCookie(c), productID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	writeCartCookie(c, cart, int(cc.cartTTL.Seconds()))
	c.JSON(http.StatusOK, "Item removed from cart")
}
