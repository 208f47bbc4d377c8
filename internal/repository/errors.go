package repository

import (
	"errors"
	"fmt"
)

// StorageErrorKind classifies persistence failures
type StorageErrorKind int

const (
	KindQuotaExceeded StorageErrorKind = iota + 1
	KindWriteFailed
	KindReadFailed
	KindCorruptData
)

func (k StorageErrorKind) String() string {
	switch k {
	case KindQuotaExceeded:
		return "quota exceeded"
	case KindWriteFailed:
		return "unknown write failure"
	case KindReadFailed:
		return "read failure"
	case KindCorruptData:
		return "corrupt data"
	default:
		return "storage failure"
	}
}

// StorageError reports a failed read or write of a stored blob
type StorageError struct {
	Kind StorageErrorKind
	Op   string
	Key  string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s %q: %s: %v", e.Op, e.Key, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// UserMessage returns a short notice suitable for the CLI or TUI
func (e *StorageError) UserMessage() string {
	switch e.Kind {
	case KindQuotaExceeded:
		return "Storage quota exceeded. Please export your data and clear old invoices."
	case KindReadFailed, KindCorruptData:
		if e.Key == KeySettings {
			return "Error loading settings. Using defaults."
		}
		return "Error loading saved data. Starting fresh."
	default:
		if e.Key == KeySettings {
			return "Error saving settings. Please try again."
		}
		return "Error saving data. Please try again."
	}
}

// IsKind reports whether err is a StorageError of the given kind
func IsKind(err error, kind StorageErrorKind) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Kind == kind
}

func writeError(op, key string, err error) *StorageError {
	kind := KindWriteFailed
	if errors.Is(err, ErrQuotaExceeded) {
		kind = KindQuotaExceeded
	}
	return &StorageError{Kind: kind, Op: op, Key: key, Err: err}
}
