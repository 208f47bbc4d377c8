package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/andy/invoicebook/internal/domain"
)

// SettingsRepo stores settings as a JSON object under KeySettings
type SettingsRepo struct {
	kv KV
}

// NewSettingsRepo creates a new SettingsRepo
func NewSettingsRepo(kv KV) *SettingsRepo {
	return &SettingsRepo{kv: kv}
}

// Load returns the stored settings. On any failure the defaults are returned
// alongside the error, so callers can carry on.
func (r *SettingsRepo) Load(ctx context.Context) (domain.Settings, error) {
	raw, err := r.kv.Get(ctx, KeySettings)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return domain.DefaultSettings(), nil
		}
		return domain.DefaultSettings(), &StorageError{Kind: KindReadFailed, Op: "load", Key: KeySettings, Err: err}
	}

	settings := domain.DefaultSettings()
	if err := json.Unmarshal(raw, &settings); err != nil {
		return domain.DefaultSettings(), &StorageError{Kind: KindCorruptData, Op: "load", Key: KeySettings, Err: err}
	}
	if err := settings.Validate(); err != nil {
		return domain.DefaultSettings(), &StorageError{Kind: KindCorruptData, Op: "load", Key: KeySettings, Err: err}
	}
	return settings, nil
}

// Save replaces the stored settings
func (r *SettingsRepo) Save(ctx context.Context, settings domain.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return &StorageError{Kind: KindWriteFailed, Op: "save", Key: KeySettings, Err: err}
	}
	if err := r.kv.Set(ctx, KeySettings, raw); err != nil {
		return writeError("save", KeySettings, err)
	}
	return nil
}
