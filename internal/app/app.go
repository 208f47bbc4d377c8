package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/andy/invoicebook/internal/config"
	"github.com/andy/invoicebook/internal/crypto"
	"github.com/andy/invoicebook/internal/db"
	"github.com/andy/invoicebook/internal/domain"
	"github.com/andy/invoicebook/internal/logger"
	"github.com/andy/invoicebook/internal/repository"
	"github.com/andy/invoicebook/internal/service"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	DB     *db.DB // nil for the memory backend
	KV     repository.KV

	// Repositories
	InvoiceRepo  repository.InvoiceRepository
	SettingsRepo repository.SettingsRepository

	// Services
	InvoiceService  service.InvoiceService
	SettingsService service.SettingsService
	ReportService   service.ReportService

	// Notices holds non-fatal start-up problems to show the user
	Notices []string

	log       zerolog.Logger
	logCloser io.Closer
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config
// 2. Setting up logging
// 3. Getting the encryption key from the keyring (sqlcipher backend)
// 4. Opening and migrating the database
// 5. Creating repositories and services
// 6. Loading stored invoices and settings
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure all necessary directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logCloser, err := logger.Setup(cfg.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	a := &App{
		Config:    cfg,
		log:       logger.WithComponent("app"),
		logCloser: logCloser,
	}

	if err := a.openStorage(); err != nil {
		a.Close()
		return nil, err
	}

	ids, err := domain.NewSnowflakeIDs(cfg.Storage.NodeID)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Create repositories
	a.InvoiceRepo = repository.NewInvoiceRepo(a.KV)
	a.SettingsRepo = repository.NewSettingsRepo(a.KV)

	// Create services with their dependencies
	a.InvoiceService = service.NewInvoiceService(a.InvoiceRepo, ids)
	a.SettingsService = service.NewSettingsService(a.SettingsRepo)
	a.ReportService = service.NewReportService(a.InvoiceService, a.SettingsService)

	// Storage problems at load time are reported, not fatal
	if err := a.InvoiceService.Load(ctx); err != nil {
		a.addNotice(err)
	}
	if err := a.SettingsService.Load(ctx); err != nil {
		a.addNotice(err)
	}

	a.log.Info().
		Str("backend", cfg.Storage.Backend).
		Int("invoices", len(a.InvoiceService.List())).
		Msg("invoicebook started")

	return a, nil
}

func (a *App) openStorage() error {
	cfg := a.Config.Storage

	switch cfg.Backend {
	case config.BackendMemory:
		a.KV = repository.NewMemoryKV(cfg.QuotaBytes)
		return nil

	case config.BackendSQLite:
		database, err := db.OpenPlain(cfg.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		a.DB = database

	case config.BackendSQLCipher:
		keyring := crypto.NewKeyring()
		password, fresh, err := encryptionKey(keyring)
		if err != nil {
			return err
		}
		database, err := db.OpenEncrypted(cfg.Path, password)
		if err != nil {
			// Forget a key that was just chosen so the next run prompts again
			if fresh {
				if derr := keyring.DeleteKey(); derr != nil {
					a.log.Warn().Err(derr).Msg("failed to remove rejected encryption key")
				}
			}
			return fmt.Errorf("failed to open encrypted database (wrong key?): %w", err)
		}
		a.DB = database

	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	a.KV = repository.NewSQLKV(a.DB, cfg.QuotaBytes)
	return nil
}

// encryptionKey returns the stored key, prompting for a new one on first run.
// fresh reports whether the key was created by this call.
func encryptionKey(keyring crypto.Keyring) (password string, fresh bool, err error) {
	password, err = keyring.GetKey()
	if err == nil {
		return password, false, nil
	}
	if !errors.Is(err, crypto.ErrKeyNotFound) {
		return "", false, err
	}
	if !keyring.IsAvailable() {
		return "", false, fmt.Errorf("no system keyring available: set %s to the database password", crypto.EnvKey)
	}

	// No key exists, prompt user to set one
	fmt.Println("Setting up database encryption for the first time...")
	password, err = promptForPassword()
	if err != nil {
		return "", false, fmt.Errorf("failed to set password: %w", err)
	}

	if err := keyring.SetKey(password); err != nil {
		return "", false, fmt.Errorf("failed to store encryption key: %w", err)
	}
	return password, true, nil
}

func (a *App) addNotice(err error) {
	var se *repository.StorageError
	if errors.As(err, &se) {
		a.Notices = append(a.Notices, se.UserMessage())
		return
	}
	a.Notices = append(a.Notices, err.Error())
}

// DefaultDueDate returns the due date suggested for an invoice issued on invoiceDate
func (a *App) DefaultDueDate(invoiceDate domain.Date) domain.Date {
	return invoiceDate.AddMonths(a.Config.Invoice.DefaultDueMonths)
}

// ServiceTypes returns the categories offered by pickers
func (a *App) ServiceTypes() []domain.ServiceType {
	if len(a.Config.Invoice.ServiceTypes) == 0 {
		return domain.DefaultServiceTypes
	}
	out := make([]domain.ServiceType, len(a.Config.Invoice.ServiceTypes))
	for i, st := range a.Config.Invoice.ServiceTypes {
		out[i] = domain.ServiceType(st)
	}
	return out
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.logCloser != nil {
		errs = append(errs, a.logCloser.Close())
	}
	return errors.Join(errs...)
}

// promptForPassword prompts user for a new database password (first run)
// This should be called when keyring has no stored key
func promptForPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal available: set %s to the database password", crypto.EnvKey)
	}

	fmt.Println()
	fmt.Println("Your invoice data will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	// Read password securely (no echo)
	password, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
