package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-api/internal/config"
	"storefront-api/internal/db"
	"storefront-api/internal/httpserver"
	"storefront-api/internal/notify"
	leadrepo "storefront-api/internal/repository/lead"
	productrepo "storefront-api/internal/repository/product"
	queryrepo "storefront-api/internal/repository/query"
	tokenrepo "storefront-api/internal/repository/token"
	userrepo "storefront-api/internal/repository/user"
	authsvc "storefront-api/internal/service/auth"
	dashboardsvc "storefront-api/internal/service/dashboard"
	leadsvc "storefront-api/internal/service/lead"
	productsvc "storefront-api/internal/service/product"
	ticketsvc "storefront-api/internal/service/ticket"
	wishlistsvc "storefront-api/internal/service/wishlist"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	userRepo := userrepo.NewPostgres(dbpool, logger)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	leadRepo := leadrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	queryRepo := queryrepo.NewPostgres(dbpool)

	authService := authsvc.New(userRepo, tokenRepo)
	productService := productsvc.New(productRepo, cfg.UploadDir, cfg.FileURLHost)
	leadService := leadsvc.New(leadRepo, productRepo, cfg.UploadDir, cfg.FileURLHost)
	wishlistService := wishlistsvc.New(userRepo, productRepo)
	dashboardService := dashboardsvc.New(productRepo, userRepo, leadRepo)
	ticketService := ticketsvc.New(cfg.JWTSecret, time.Minute)

	hub := notify.NewHub(logger)
	go hub.Run(ctx)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:      authService,
		ProductSvc:   productService,
		LeadSvc:      leadService,
		WishlistSvc:  wishlistService,
		DashboardSvc: dashboardService,
		UserSvc:      userRepo,
		QuerySvc:     queryRepo,
		TicketSvc:    ticketService,
		Notifier:     hub,
		WSHandler:    hub.ServeWS(ticketService),
	}, httpserver.Options{
		CORSOrigins: cfg.CORSOrigins,
		UploadDir:   cfg.UploadDir,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
