package controllers

import (
	"encoding/base64"
	"encoding/json"

	"github.com/BekmurodFoziloff/e-commerce/models"
	"github.com/gin-gonic/gin"
)

const cartCookieName = "cart"

// readCartCookie decodes the client-side cart copy. A missing or malformed
// cookie is treated as no cookie; the cache copy then takes over.
func readCartCookie(c *gin.Context) []models.CartItem {
	raw, err := c.Cookie(cartCookieName)
	if err != nil || raw == "" {
		return nil
	}

	data, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}

	var cart []models.CartItem
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil
	}
	return cart
}

// writeCartCookie re-issues the http-only cart cookie after a mutation so the
// client copy stays consistent with the cache copy.
func writeCartCookie(c *gin.Context, cart []models.CartItem, maxAgeSeconds int) {
	data, err := json.Marshal(cart)
	if err != nil {
		return
	}
	c.SetCookie(cartCookieName, base64.URLEncoding.EncodeToString(data), maxAgeSeconds, "/", "", true, true)
}

func clearCartCookie(c *gin.Context) {
	c.SetCookie(cartCookieName, "", -1, "/", "", true, true)
}
