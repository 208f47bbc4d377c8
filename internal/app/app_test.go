package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andy/invoicebook/internal/config"
	"github.com/andy/invoicebook/internal/crypto"
	"github.com/andy/invoicebook/internal/domain"
	"github.com/andy/invoicebook/internal/repository"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = backend
	cfg.Storage.Path = filepath.Join(t.TempDir(), "invoicebook.db")
	cfg.Log.Output = "discard"
	return cfg
}

func TestNewWithConfig_SQLitePersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendSQLite)

	first, err := NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	assert.Empty(t, first.Notices)

	invoiceDate := domain.NewDate(2024, 1, 15)
	_, err = first.InvoiceService.Create(ctx, domain.InvoiceInput{
		ClientName:  "Carla",
		ServiceType: first.ServiceTypes()[0],
		Amount:      decimal.NewFromInt(300),
		InvoiceDate: invoiceDate,
		DueDate:     first.DefaultDueDate(invoiceDate),
	})
	require.NoError(t, err)
	require.NoError(t, first.SettingsService.UpdateVATPercentage(ctx, 21))
	require.NoError(t, first.Close())

	second, err := NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	defer second.Close()

	list := second.InvoiceService.List()
	require.Len(t, list, 1)
	assert.Equal(t, "2024-02-15", list[0].DueDate.String())
	assert.Equal(t, 21.0, second.SettingsService.Get().VATPercentage)
}

func TestNewWithConfig_CorruptDataBecomesNotice(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendSQLite)

	a, err := NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, a.KV.Set(ctx, repository.KeyInvoices, []byte("{oops")))
	require.NoError(t, a.Close())

	b, err := NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, []string{"Error loading saved data. Starting fresh."}, b.Notices)
	assert.Empty(t, b.InvoiceService.List())
}

func TestNewWithConfig_Memory(t *testing.T) {
	a, err := NewWithConfig(context.Background(), testConfig(t, config.BackendMemory))
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.DB)
	assert.Equal(t, 23.0, a.SettingsService.Get().VATPercentage)
}

func TestNewWithConfig_InvalidConfig(t *testing.T) {
	_, err := NewWithConfig(context.Background(), testConfig(t, "floppy"))
	assert.Error(t, err)
}

type fakeKeyring struct {
	key       string
	available bool
}

func (k *fakeKeyring) GetKey() (string, error) {
	if k.key == "" {
		return "", crypto.ErrKeyNotFound
	}
	return k.key, nil
}

func (k *fakeKeyring) SetKey(password string) error {
	k.key = password
	return nil
}

func (k *fakeKeyring) DeleteKey() error {
	k.key = ""
	return nil
}

func (k *fakeKeyring) IsAvailable() bool { return k.available }

func TestEncryptionKey(t *testing.T) {
	password, fresh, err := encryptionKey(&fakeKeyring{key: "s3cret", available: true})
	require.NoError(t, err)
	assert.Equal(t, "s3cret", password)
	assert.False(t, fresh)

	_, _, err = encryptionKey(&fakeKeyring{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), crypto.EnvKey)
}

func TestNewWithConfig_SQLCipherUsesEnvKey(t *testing.T) {
	t.Setenv(crypto.EnvKey, "correct-horse")
	ctx := context.Background()
	cfg := testConfig(t, config.BackendSQLCipher)

	a, err := NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	assert.NotNil(t, a.DB)
	require.NoError(t, a.Close())
}
