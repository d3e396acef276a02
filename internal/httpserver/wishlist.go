package httpserver

import (
	"net/http"

	"storefront-api/internal/domain"
	"github.com/gin-gonic/gin"
)

type wishlistToggleRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// toggleWishlistHandler flips membership for one product and returns the
// full id list so clients can reconcile optimistic updates.
func toggleWishlistHandler(svc wishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		var req wishlistToggleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "productId required"})
			return
		}
		ids, err := svc.Toggle(c.Request.Context(), user.ID, req.ProductID)
		if err != nil {
			respondServiceError(c, err, http.StatusBadRequest)
			return
		}
		if ids == nil {
			ids = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"wishlist": ids})
	}
}

func listWishlistHandler(svc wishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		products, err := svc.List(c.Request.Context(), user.ID)
		if err != nil {
			respondServiceError(c, err, http.StatusInternalServerError)
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}
