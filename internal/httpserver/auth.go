package httpserver

import (
	"net/http"

	"storefront-api/internal/domain"
	authsvc "storefront-api/internal/service/auth"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func registerHandler(svc authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authsvc.RegisterInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		user, err := svc.Register(c.Request.Context(), req)
		if err != nil {
			respondServiceError(c, err, http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func loginHandler(svc authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "email and password required"})
			return
		}
		user, access, _, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondServiceError(c, err, http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user":      user,
			"token":     access,
			"expiresIn": svc.AccessTTLSeconds(),
		})
	}
}

// logoutHandler revokes the presented token. A missing or unknown token
// still yields 200; logout must be safe to repeat.
func logoutHandler(svc authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Logout(c.Request.Context(), bearerToken(c)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

func listUsersHandler(svc userLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svc.List(c.Request.Context())
		if err != nil {
			respondServiceError(c, err, http.StatusInternalServerError)
			return
		}
		if users == nil {
			users = []domain.User{}
		}
		c.JSON(http.StatusOK, users)
	}
}
