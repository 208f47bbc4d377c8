package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/andy/invoicebook/internal/domain"
	"github.com/andy/invoicebook/internal/logger"
	"github.com/andy/invoicebook/internal/repository"
)

// SettingsService holds the current settings and persists changes
type SettingsService interface {
	// Load reads stored settings; on failure the defaults stay in effect and the error is returned
	Load(ctx context.Context) error
	Get() domain.Settings
	// UpdateVATPercentage keeps the prior value if v is out of range or cannot be saved
	UpdateVATPercentage(ctx context.Context, v float64) error
}

type settingsService struct {
	mu       sync.Mutex
	repo     repository.SettingsRepository
	settings domain.Settings
	log      zerolog.Logger
}

// NewSettingsService creates a new settings service holding the defaults
func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{
		repo:     repo,
		settings: domain.DefaultSettings(),
		log:      logger.WithComponent("settings"),
	}
}

func (s *settingsService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.repo.Load(ctx)
	s.settings = settings
	if err != nil {
		s.log.Warn().Err(err).Msg("using default settings")
		return err
	}
	return nil
}

func (s *settingsService) Get() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *settingsService) UpdateVATPercentage(ctx context.Context, v float64) error {
	if !domain.ValidateVATPercentage(v) {
		return domain.ErrInvalidVATPercentage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	next.VATPercentage = v
	if err := s.repo.Save(ctx, next); err != nil {
		s.log.Error().Err(err).Msg("failed to persist settings")
		return err
	}

	s.settings = next
	s.log.Info().Float64("vat_percentage", v).Msg("VAT percentage updated")
	return nil
}
