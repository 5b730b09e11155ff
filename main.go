package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devicedesk/config"
	"devicedesk/handlers"
	"devicedesk/routes"
	"devicedesk/services/catalog"
	"devicedesk/services/deviceinfo"
	"devicedesk/services/registry"
	"devicedesk/services/session"
	"devicedesk/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	if len(config.AppConfig.Devices) == 0 {
		logger.Sugar().Fatal("main: no devices configured, nothing to book")
	}

	sessions, err := session.NewRedisStore(context.Background())
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize session store: %v", err)
	}

	// Negotiate a FonoAPI token before taking traffic; listings cannot be
	// served without one.
	fonoClient := deviceinfo.NewFonoClient(
		config.AppConfig.FonoAPIURL,
		time.Duration(config.AppConfig.FonoAPITimeoutSeconds)*time.Second,
	)
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelConnect()
	if err := fonoClient.Connect(connectCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to acquire FonoApi token: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// services.
	bookingRegistry := registry.NewBookingRegistry(config.AppConfig.Devices)
	catalogService := &catalog.DefaultCatalogService{
		Registry:   bookingRegistry,
		DeviceInfo: fonoClient,
	}

	authHandler := handlers.NewAuthHandler(sessions)
	bookingHandler := handlers.NewBookingHandler(catalogService, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Sessions: sessions,

		LoginHandler:  authHandler.LoginHandler,
		LogoutHandler: authHandler.LogoutHandler,

		ListDevicesHandler:  bookingHandler.ListDevicesHandler,
		BookDeviceHandler:   bookingHandler.BookDeviceHandler,
		ReturnDeviceHandler: bookingHandler.ReturnDeviceHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
