package httpserver

import (
	"context"
	"log"
	"net/http"
	"strings"

	"storefront-api/internal/domain"
	authsvc "storefront-api/internal/service/auth"
	leadsvc "storefront-api/internal/service/lead"
	productsvc "storefront-api/internal/service/product"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps groups the services the router needs, as narrow interfaces so tests
// can stub them.
type Deps struct {
	AuthSvc      authService
	ProductSvc   productService
	LeadSvc      leadService
	WishlistSvc  wishlistService
	DashboardSvc dashboardService
	UserSvc      userLister
	QuerySvc     queryCreator
	TicketSvc    ticketIssuer
	Notifier     notifier
	WSHandler    http.HandlerFunc
}

// Options carries router-level configuration.
type Options struct {
	CORSOrigins string
	UploadDir   string
}

type authService interface {
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	Logout(ctx context.Context, token string) error
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	AccessTTLSeconds() int
}

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	ListPublic(ctx context.Context, category string, inStock *bool) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in productsvc.UpsertInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in productsvc.UpsertInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type leadService interface {
	Create(ctx context.Context, userID string, in leadsvc.CreateInput) (*domain.Lead, error)
	All(ctx context.Context) ([]domain.Lead, error)
	Recent(ctx context.Context) ([]domain.Lead, error)
	ByUser(ctx context.Context, userID string) ([]domain.Lead, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Lead, error)
}

type wishlistService interface {
	Toggle(ctx context.Context, userID, productID string) ([]string, error)
	List(ctx context.Context, userID string) ([]domain.Product, error)
}

type dashboardService interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}

type userLister interface {
	List(ctx context.Context) ([]domain.User, error)
}

type queryCreator interface {
	Create(ctx context.Context, q domain.Query) (*domain.Query, error)
}

type ticketIssuer interface {
	Issue(userID, role string) (string, error)
}

type notifier interface {
	Notify(userID, message string) domain.Notification
	History(userID string) []domain.Notification
	MarkAllRead(userID string)
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if opts.CORSOrigins != "" {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = strings.Split(opts.CORSOrigins, ",")
		corsCfg.AllowCredentials = true
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	if opts.UploadDir != "" {
		router.Static("/uploads", opts.UploadDir)
	}
	if deps.WSHandler != nil {
		router.GET("/ws", gin.WrapF(deps.WSHandler))
	}

	requireAuth := authMiddleware(deps.AuthSvc)
	requireAdmin := adminMiddleware()

	api := router.Group("/api")
	{
		api.POST("/users/register", registerHandler(deps.AuthSvc))
		api.POST("/users/login", loginHandler(deps.AuthSvc))
		api.POST("/users/logout", logoutHandler(deps.AuthSvc))
		api.GET("/users", requireAuth, requireAdmin, listUsersHandler(deps.UserSvc))

		api.GET("/products", requireAuth, requireAdmin, listProductsHandler(deps.ProductSvc))
		api.POST("/products", requireAuth, requireAdmin, createProductHandler(deps.ProductSvc))
		api.GET("/products/public", publicProductsHandler(deps.ProductSvc))
		api.GET("/products/public/:id", publicProductHandler(deps.ProductSvc))
		api.GET("/products/:id", requireAuth, requireAdmin, getProductHandler(deps.ProductSvc))
		api.PUT("/products/:id", requireAuth, requireAdmin, updateProductHandler(deps.ProductSvc))
		api.DELETE("/products/:id", requireAuth, requireAdmin, deleteProductHandler(deps.ProductSvc))

		api.GET("/dashboard/stats", requireAuth, requireAdmin, dashboardStatsHandler(deps.DashboardSvc))

		api.POST("/leads", requireAuth, createLeadHandler(deps.LeadSvc))
		api.GET("/leads/recent", requireAuth, requireAdmin, recentLeadsHandler(deps.LeadSvc))
		api.GET("/leads/all", requireAuth, requireAdmin, allLeadsHandler(deps.LeadSvc))
		api.GET("/leads/my-requests", requireAuth, myRequestsHandler(deps.LeadSvc))
		api.PUT("/leads/:id/status", requireAuth, requireAdmin, updateLeadStatusHandler(deps.LeadSvc, deps.Notifier))

		api.POST("/wishlist/toggle", requireAuth, toggleWishlistHandler(deps.WishlistSvc))
		api.GET("/wishlist", requireAuth, listWishlistHandler(deps.WishlistSvc))

		api.POST("/query", submitQueryHandler(deps.QuerySvc))

		api.GET("/notifications/ticket", requireAuth, notificationTicketHandler(deps.TicketSvc))
		api.GET("/notifications", requireAuth, listNotificationsHandler(deps.Notifier))
		api.POST("/notifications/read", requireAuth, markNotificationsReadHandler(deps.Notifier))
	}

	return router, nil
}
