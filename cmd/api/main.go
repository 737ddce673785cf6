package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/callpad/internal/app"
	"github.com/xpanvictor/callpad/internal/config"
	"github.com/xpanvictor/callpad/internal/server"
	"github.com/xpanvictor/callpad/pkg/Logger"
)

// @title Callpad API
// @version 1.0
// @description Start and stop a hosted voice-agent call from a web page.
// @BasePath /
func main() {
	// fetch cfg
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// load global logger
	logger, err := Logger.New(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("Logger initialized")

	a, err := app.NewApp(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to build app: %v", err)
	}

	// compose router
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	deps := a.GetServerDependencies()
	server.InitializeRoutes(router, deps)

	// listen with graceful exit
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router.Handler(),
	}
	go func() {
		logger.Infof("Listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server exiting: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()

	// end a call left running so the assistant isn't talking to nobody
	if _, err := a.View.Shutdown(ctx); err != nil {
		logger.Warnf("Stopping call on shutdown: %v", err)
	}
	if deps.StatusStream != nil {
		_ = deps.StatusStream.Close()
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Shutdown err %v", err)
	}
	logger.Info("Shutdown system")
}
