package httpserver

import (
	"net/http"

	"storefront-api/internal/domain"
	"github.com/gin-gonic/gin"
)

func dashboardStatsHandler(svc dashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Stats(c.Request.Context())
		if err != nil {
			respondServiceError(c, err, http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

type queryRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func submitQueryHandler(svc queryCreator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req queryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "name, email and message required"})
			return
		}
		q, err := svc.Create(c.Request.Context(), domain.Query{
			Name:    req.Name,
			Email:   req.Email,
			Message: req.Message,
		})
		if err != nil {
			respondServiceError(c, err, http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusCreated, q)
	}
}

// notificationTicketHandler mints a short-lived credential for the websocket
// handshake, which cannot carry an Authorization header from browsers.
func notificationTicketHandler(svc ticketIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		ticket, err := svc.Issue(user.ID, user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ticket": ticket})
	}
}

func listNotificationsHandler(notif notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		history := notif.History(user.ID)
		if history == nil {
			history = []domain.Notification{}
		}
		c.JSON(http.StatusOK, history)
	}
}

func markNotificationsReadHandler(notif notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		notif.MarkAllRead(user.ID)
		c.JSON(http.StatusOK, gin.H{"message": "notifications marked read"})
	}
}
