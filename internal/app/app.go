package app

import (
	"context"
	"fmt"
	"syscall"

	"github.com/ray/billdesk/internal/config"
	"github.com/ray/billdesk/internal/crypto"
	"github.com/ray/billdesk/internal/mail"
	"github.com/ray/billdesk/internal/payments"
	"github.com/ray/billdesk/internal/pdf"
	"github.com/ray/billdesk/internal/remote"
	"github.com/ray/billdesk/internal/service"
	"github.com/ray/billdesk/internal/store"
	"golang.org/x/term"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	Store  *store.Store

	// Services
	InvoiceService service.InvoiceService
	BuilderService service.BuilderService
	ReportService  service.ReportService
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config
// 2. Getting the remote API token from keyring
// 3. Creating the remote client and session cache
// 4. Creating services
func New(ctx context.Context) (*App, error) {
	// Load config from default path
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	// Ensure all necessary directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	// Get keyring for secure token storage
	keyring := crypto.NewKeyring()

	// Try to get an existing API token
	token, err := keyring.GetToken()
	if err != nil {
		// No token stored yet, prompt for one
		fmt.Println("Setting up remote store access for the first time...")
		token, err = promptForToken()
		if err != nil {
			return nil, fmt.Errorf("failed to set API token: %w", err)
		}

		// Store the token in keyring
		if err := keyring.SetToken(token); err != nil {
			return nil, fmt.Errorf("failed to store API token: %w", err)
		}
	}

	// Remote client and the session-scoped cache over it
	client := remote.NewClient(cfg.Remote.BaseURL, token, nil)
	st := store.New(client)

	// Renderer, mail transport, payment-link provider
	renderer := pdf.NewRenderer(pdf.SenderProfile{
		CompanyName:  cfg.Sender.CompanyName,
		ContactName:  cfg.Sender.ContactName,
		Email:        cfg.Sender.Email,
		Phone:        cfg.Sender.Phone,
		AddressLine1: cfg.Sender.AddressLine1,
		AddressLine2: cfg.Sender.AddressLine2,
		LogoPath:     cfg.Sender.LogoPath,
	})
	mailer := mail.New(cfg.Mail.Endpoint, cfg.Mail.From, token, nil)
	linker := payments.New(cfg.Payments.Endpoint, token, nil)

	// Create services with their dependencies
	invoiceService := service.NewInvoiceService(st, renderer, mailer, linker, cfg.Invoice.NumberPrefix)
	builderService := service.NewBuilderService(st)
	reportService := service.NewReportService(st)

	return &App{
		Config:         cfg,
		Store:          st,
		InvoiceService: invoiceService,
		BuilderService: builderService,
		ReportService:  reportService,
	}, nil
}

// Close cleanly shuts down the application, letting any in-flight background
// cache revalidation finish
func (a *App) Close() error {
	if a.Store != nil {
		a.Store.WaitBackground()
	}
	return nil
}

// promptForToken prompts for the remote API token (first run)
// This should be called when keyring has no stored token
func promptForToken() (string, error) {
	fmt.Println()
	fmt.Println("Billdesk talks to your remote store with an API token.")
	fmt.Println("The token will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter your API token: ")

	// Read token securely (no echo)
	token, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after input
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	if len(token) == 0 {
		return "", fmt.Errorf("token cannot be empty")
	}

	fmt.Println()
	fmt.Println("Remote store access configured successfully")
	fmt.Println()

	return string(token), nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
