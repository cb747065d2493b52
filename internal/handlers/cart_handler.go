package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go-pos-kasir/internal/cart"
	"go-pos-kasir/internal/database"

	"github.com/gin-gonic/gin"
)

// AddToCartRequest defines what the till sends when a product is scanned
// or picked.
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Qty       int  `json:"qty"`
}

// --- GET: The cashier's current cart plus its running total ---
func GetCart(c *gin.Context) {
	cashierID := c.MustGet("userID").(uint)
	carts := cart.NewRepository(database.DB)

	lines, err := carts.ListLines(cashierID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	total, err := carts.Total(cashierID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart total"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"carts":       lines,
		"carts_total": total,
	})
}

// --- POST: Add a product to the cart ---
func AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Qty < 1 {
		req.Qty = 1
	}

	cashierID := c.MustGet("userID").(uint)
	carts := cart.NewRepository(database.DB)

	line, err := carts.AddLine(cashierID, req.ProductID, req.Qty)
	switch {
	case errors.Is(err, cart.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	case errors.Is(err, cart.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Out of stock product!"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product to cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product added successfully!",
		"cart":    line,
	})
}

// --- DELETE: Remove one cart line ---
// The line must belong to the calling cashier.
func RemoveCartLine(c *gin.Context) {
	lineID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart line ID"})
		return
	}

	cashierID := c.MustGet("userID").(uint)
	carts := cart.NewRepository(database.DB)

	if err := carts.RemoveLine(cashierID, uint(lineID)); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart line not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart line"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart line removed"})
}
