package crypto

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

// Keyring provides secure key storage abstraction
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	IsAvailable() bool
}

const (
	ServiceName = "invoicebook"
	KeyName     = "db-encryption-key"

	// EnvKey overrides the system keyring, for headless machines and scripts
	EnvKey = "INVOICEBOOK_DB_KEY"
)

var ErrKeyNotFound = errors.New("encryption key not found")

// NewKeyring returns a keyring backed by the OS secret store (Keychain,
// Secret Service, Credential Manager), with $INVOICEBOOK_DB_KEY taking precedence
func NewKeyring() Keyring {
	return &systemKeyring{service: ServiceName, user: KeyName}
}

type systemKeyring struct {
	service string
	user    string
}

// GetKey retrieves the encryption key from the environment or the OS keyring
func (k *systemKeyring) GetKey() (string, error) {
	if key := os.Getenv(EnvKey); key != "" {
		return key, nil
	}

	key, err := keyring.Get(k.service, k.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to retrieve key from keyring: %w", err)
	}

	if key == "" {
		return "", ErrKeyNotFound
	}

	return key, nil
}

// SetKey stores the encryption key in the OS keyring
func (k *systemKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}

	if err := keyring.Set(k.service, k.user, password); err != nil {
		return fmt.Errorf("failed to store key in keyring (set %s instead): %w", EnvKey, err)
	}

	return nil
}

// DeleteKey removes the encryption key from the OS keyring; a missing key is not an error
func (k *systemKeyring) DeleteKey() error {
	err := keyring.Delete(k.service, k.user)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete key from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if a key source is usable
func (k *systemKeyring) IsAvailable() bool {
	if os.Getenv(EnvKey) != "" {
		return true
	}

	// Probe with a throwaway entry
	testKey := "__invoicebook_availability_test__"
	if err := keyring.Set(k.service, testKey, "test"); err != nil {
		return false
	}

	_ = keyring.Delete(k.service, testKey)
	return true
}
