package app

import (
	"fmt"
	"net/http"

	"github.com/xpanvictor/callpad/internal/call"
	"github.com/xpanvictor/callpad/internal/config"
	"github.com/xpanvictor/callpad/internal/server"
	"github.com/xpanvictor/callpad/internal/tools/orders"
	"github.com/xpanvictor/callpad/pkg/Logger"
	"github.com/xpanvictor/callpad/pkg/voice"
	"github.com/xpanvictor/callpad/pkg/voice/vapi"
)

// App represents the application with all its dependencies
type App struct {
	Config      *config.Settings
	Logger      *Logger.Logger
	VoiceClient voice.Client
	View        *call.View
	Orders      *orders.Store
	ServerDeps  *server.Dependencies
}

// NewApp creates a new application instance with all dependencies properly
// wired. The voice client is built once here and handed to the view.
func NewApp(cfg *config.Settings, logger *Logger.Logger) (*App, error) {
	httpClient := &http.Client{Timeout: cfg.Voice.RequestTimeout()}
	client := vapi.NewClient(cfg.Voice.PublicKey, cfg.Voice.BaseURL, httpClient, logger.Named("vapi"))
	return NewAppWithClient(cfg, logger, client)
}

// NewAppWithClient wires the app around an existing voice client.
func NewAppWithClient(cfg *config.Settings, logger *Logger.Logger, client voice.Client) (*App, error) {
	if client == nil {
		return nil, fmt.Errorf("voice client is required")
	}
	app := &App{
		Config:      cfg,
		Logger:      logger,
		VoiceClient: client,
	}

	if err := app.setupDependencies(); err != nil {
		return nil, err
	}

	return app, nil
}

// setupDependencies initializes all application dependencies
func (a *App) setupDependencies() error {
	if a.Config.Voice.AssistantID == "" {
		return fmt.Errorf("assistant id is not configured")
	}

	// 1. the page view, bound to the assistant
	a.View = call.New(
		a.VoiceClient,
		a.Config.Voice.AssistantID,
		a.Logger.Named("call"),
		call.WithStopTimeout(a.Config.Voice.StopTimeout()),
	)

	// 2. order tool backing store
	a.Orders = orders.NewStore(orders.SampleOrder)

	// 3. server deps
	a.ServerDeps = server.NewServerDependencies(
		a.View,
		a.Orders,
		a.Logger,
		a.Config,
	)

	return nil
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() *server.Dependencies {
	return a.ServerDeps
}
