package handlers

import (
	"net/http"

	"go-pos-kasir/internal/database"
	"go-pos-kasir/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: List all products ---
func GetProducts(c *gin.Context) {
	var products []models.Product

	result := database.DB.Find(&products)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// --- GET: Look up a product by barcode ---
// The scanner gun hits this on every beep, so the response mirrors the
// shape the till expects: success flag plus the product (or null).
func ScanProduct(c *gin.Context) {
	barcode := c.Param("barcode")

	var product models.Product
	if err := database.DB.Where("barcode = ?", barcode).First(&product).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// --- GET: List customers for the checkout screen ---
func GetCustomers(c *gin.Context) {
	var customers []models.Customer

	if err := database.DB.Order("created_at desc").Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}

	c.JSON(http.StatusOK, customers)
}
