package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iairbaron/plataforma-trading-frontend/api"
	"github.com/iairbaron/plataforma-trading-frontend/internal/config"
	"github.com/iairbaron/plataforma-trading-frontend/pkg/backend"
	"github.com/iairbaron/plataforma-trading-frontend/pkg/market"
	"github.com/iairbaron/plataforma-trading-frontend/pkg/wallet"
)

var (
	cfgFile string
	logger  *logrus.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tradingctl",
		Short: "Trading terminal for the plataforma-trading backend",
		Long:  `A terminal client for the trading platform: market monitor, order entry and wallet view, served to the browser through a local dashboard`,
		Run:   runWatch,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newOrderCmd())
	rootCmd.AddCommand(newBalanceCmd())
	rootCmd.AddCommand(newInstrumentsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// setup loads configuration and wires the backend client. Every subcommand
// starts here.
func setup() (*config.Config, *backend.HTTPClient, *backend.FileTokenStore, error) {
	logger = logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		logger.WithError(err).Error("Invalid log level, using INFO")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	}

	tokens := backend.NewFileTokenStore(cfg.Backend.TokenFile)
	client := backend.NewHTTPClient(backend.Options{
		BaseURL:      cfg.Backend.BaseURL,
		Tokens:       tokens,
		Timeout:      time.Duration(cfg.Backend.Timeout) * time.Second,
		RequestRate:  cfg.Backend.RequestRate,
		RequestBurst: cfg.Backend.RequestBurst,
		Logger:       logger,
	})

	return cfg, client, tokens, nil
}

// ensureAuthenticated reuses a stored, unexpired token when one exists and
// logs in with configured credentials otherwise.
func ensureAuthenticated(ctx context.Context, cfg *config.Config, client *backend.HTTPClient, tokens *backend.FileTokenStore) error {
	token, err := tokens.Token()
	if err != nil {
		return err
	}

	if token != "" && !backend.TokenExpired(token, time.Now()) {
		if err := client.ValidateToken(ctx); err == nil {
			return nil
		}
		logger.Info("Stored token rejected by backend, logging in again")
	}

	if cfg.Backend.Email == "" || cfg.Backend.Password == "" {
		return fmt.Errorf("no valid token and no credentials configured; run 'tradingctl login' first")
	}

	_, err = client.Login(ctx, cfg.Backend.Email, cfg.Backend.Password)
	return err
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg, client, tokens, err := setup()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ensureAuthenticated(ctx, cfg, client, tokens); err != nil {
		logger.WithError(err).Fatal("Failed to authenticate")
	}

	watcher := market.NewWatcher(client, time.Duration(cfg.Market.CatalogTTL)*time.Second, logger)
	balances := wallet.NewStore(client, time.Duration(cfg.Wallet.StaleAfter)*time.Second, logger)

	if _, err := watcher.Instruments(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to load instrument catalog")
	}
	go watcher.Run(ctx, time.Duration(cfg.Market.RefreshInterval)*time.Second)

	stream := market.NewStream(cfg.Backend.StreamURL, logger)
	stream.AttachWatcher(watcher)
	if err := stream.Connect(ctx); err != nil {
		// Polling alone still serves prices; the stream just makes them live.
		logger.WithError(err).Warn("Price stream unavailable, falling back to catalog prices")
	} else {
		defer stream.Close()
	}

	apiServer := api.NewServer(watcher, balances, client, logger, fmt.Sprintf("%d", cfg.Server.Port))
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.WithError(err).Fatal("Failed to start dashboard server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Trading terminal is running. Press Ctrl+C to stop.")

	<-sigChan
	logger.Info("Received shutdown signal")

	cancel()
	logger.Info("Trading terminal stopped")
}
