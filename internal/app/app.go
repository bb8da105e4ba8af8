// Package app wires configuration, provider clients and the quote service
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/stockdesk/internal/clients/alphavantage"
	"github.com/bobmcallan/stockdesk/internal/clients/eodhd"
	"github.com/bobmcallan/stockdesk/internal/common"
	"github.com/bobmcallan/stockdesk/internal/interfaces"
	"github.com/bobmcallan/stockdesk/internal/services/quote"
)

// App holds the initialized clients and services. It is built once at
// startup and handed to the HTTP server.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	QuoteClient   interfaces.QuoteProvider
	HistoryClient interfaces.HistoryProvider
	QuoteService  interfaces.QuoteService
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolveConfigPath picks the config file: explicit path, STOCKDESK_CONFIG,
// stockdesk.toml next to the binary, then config/stockdesk.toml.
func resolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("STOCKDESK_CONFIG"); env != "" {
		return env
	}
	path := filepath.Join(getBinaryDir(), "stockdesk.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return filepath.Join("config", "stockdesk.toml")
}

// NewApp loads configuration and builds the clients and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	common.LoadVersionFromFile()

	config, err := common.LoadConfig(resolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	a := NewAppWithConfig(config, logger)
	a.StartupTime = startupStart

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")
	return a, nil
}

// NewAppWithConfig builds the clients and services from an already loaded config.
func NewAppWithConfig(config *common.Config, logger *common.Logger) *App {
	for _, field := range config.ValidateRequired() {
		logger.Warn().Str("field", field).Msg("Required setting missing - provider calls will fail")
	}

	eodhdCfg := config.Clients.EODHD
	quoteClient := eodhd.NewClient(eodhdCfg.APIKey,
		eodhd.WithBaseURL(eodhdCfg.BaseURL),
		eodhd.WithLogger(logger),
		eodhd.WithRateLimit(eodhdCfg.RateLimit),
		eodhd.WithTimeout(eodhdCfg.GetTimeout()),
	)

	avCfg := config.Clients.AlphaVantage
	historyClient := alphavantage.NewClient(avCfg.APIKey,
		alphavantage.WithBaseURL(avCfg.BaseURL),
		alphavantage.WithLogger(logger),
		alphavantage.WithRateLimit(avCfg.RateLimit),
		alphavantage.WithTimeout(avCfg.GetTimeout()),
		alphavantage.WithOutputSize(avCfg.OutputSize),
	)

	return &App{
		Config:        config,
		Logger:        logger,
		QuoteClient:   quoteClient,
		HistoryClient: historyClient,
		QuoteService:  quote.NewService(quoteClient, historyClient, logger),
		StartupTime:   time.Now(),
	}
}

// Close releases resources held by the App.
func (a *App) Close() {
	a.Logger.Debug().Dur("uptime", time.Since(a.StartupTime)).Msg("App closed")
}
