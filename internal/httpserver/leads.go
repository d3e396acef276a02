package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"storefront-api/internal/domain"
	leadsvc "storefront-api/internal/service/lead"
	"github.com/gin-gonic/gin"
)

// createLeadHandler accepts the multipart customization request form with
// an optional customImage file attachment.
func createLeadHandler(svc leadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}

		quantity := 1
		if raw := c.PostForm("quantity"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "quantity must be a number"})
				return
			}
			quantity = parsed
		}

		in := leadsvc.CreateInput{
			ProductID:     c.PostForm("productId"),
			Quantity:      quantity,
			EngravingText: c.PostForm("engravingText"),
			Color:         c.PostForm("color"),
		}
		if fh, err := c.FormFile("customImage"); err == nil {
			in.CustomImage = fh
		}

		lead, err := svc.Create(c.Request.Context(), user.ID, in)
		if err != nil {
			respondServiceError(c, err, http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusCreated, lead)
	}
}

func recentLeadsHandler(svc leadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		leads, err := svc.Recent(c.Request.Context())
		if err != nil {
			respondServiceError(c, err, http.StatusInternalServerError)
			return
		}
		if leads == nil {
			leads = []domain.Lead{}
		}
		c.JSON(http.StatusOK, leads)
	}
}

func allLeadsHandler(svc leadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		leads, err := svc.All(c.Request.Context())
		if err != nil {
			respondServiceError(c, err, http.StatusInternalServerError)
			return
		}
		if leads == nil {
			leads = []domain.Lead{}
		}
		c.JSON(http.StatusOK, leads)
	}
}

func myRequestsHandler(svc leadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		leads, err := svc.ByUser(c.Request.Context(), user.ID)
		if err != nil {
			respondServiceError(c, err, http.StatusInternalServerError)
			return
		}
		if leads == nil {
			leads = []domain.Lead{}
		}
		c.JSON(http.StatusOK, leads)
	}
}

type leadStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// updateLeadStatusHandler moves a lead through its lifecycle and pushes a
// notification to the lead's owner.
func updateLeadStatusHandler(svc leadService, notif notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req leadStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "status required"})
			return
		}
		lead, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			respondServiceError(c, err, http.StatusBadRequest)
			return
		}
		if notif != nil {
			notif.Notify(lead.UserID, fmt.Sprintf("Your request for %s is now %s.", lead.ProductName, lead.Status))
		}
		c.JSON(http.StatusOK, lead)
	}
}
