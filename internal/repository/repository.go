package repository

import (
	"context"
	"errors"

	"github.com/andy/invoicebook/internal/domain"
)

// Storage keys
const (
	KeyInvoices = "invoices"
	KeySettings = "settings"
)

var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// KV stores named blobs. Get returns ErrKeyNotFound for absent keys and
// Set returns ErrQuotaExceeded when the write would not fit.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// InvoiceRepository manages the persisted invoice list
type InvoiceRepository interface {
	Load(ctx context.Context) ([]domain.Invoice, error) // Missing key yields an empty list
	Save(ctx context.Context, invoices []domain.Invoice) error
	Clear(ctx context.Context) error
}

// SettingsRepository manages the persisted settings record
type SettingsRepository interface {
	Load(ctx context.Context) (domain.Settings, error) // Missing key yields defaults
	Save(ctx context.Context, settings domain.Settings) error
}
