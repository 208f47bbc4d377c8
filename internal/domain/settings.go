package domain

import (
	"errors"
	"math"
)

const (
	DefaultVATPercentage = 23.0
	MaxVATPercentage     = 50.0
)

var ErrInvalidVATPercentage = errors.New("VAT percentage must be a number between 0 and 50")

type Settings struct {
	VATPercentage float64 `json:"vatPercentage"`
}

// DefaultSettings returns the settings used when nothing has been saved yet
func DefaultSettings() Settings {
	return Settings{VATPercentage: DefaultVATPercentage}
}

// ValidateVATPercentage reports whether v is a finite percentage in [0, 50]
func ValidateVATPercentage(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= 0 && v <= MaxVATPercentage
}

// Validate returns an error if the settings are out of range
func (s Settings) Validate() error {
	if !ValidateVATPercentage(s.VATPercentage) {
		return ErrInvalidVATPercentage
	}
	return nil
}
