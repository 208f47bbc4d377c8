package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/andy/invoicebook/internal/domain"
	"github.com/andy/invoicebook/internal/logger"
	"github.com/andy/invoicebook/internal/repository"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

// FormatError means an import document was not a JSON array of records
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return "Invalid file format. Please select a valid JSON file."
	}
	return fmt.Sprintf("Invalid file format. Please select a valid JSON file: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ExportFileName returns the suggested file name for an export taken at t
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("invoice-data-%s.json", t.Format(domain.DateLayout))
}

// InvoiceService owns the in-memory invoice list and keeps it in step with storage.
// Every mutation is validated, persisted, and only then made visible.
type InvoiceService interface {
	// Load replaces the in-memory list with the stored one. On failure the list
	// is left empty and the StorageError is returned as a notice.
	Load(ctx context.Context) error

	// Create validates and appends a new invoice with a fresh ID
	Create(ctx context.Context, in domain.InvoiceInput) (domain.Invoice, error)

	// Update replaces the editable fields of the first invoice with the given ID
	Update(ctx context.Context, id domain.InvoiceID, in domain.InvoiceInput) (domain.Invoice, error)

	// SetStatus changes only the status of the first invoice with the given ID
	SetStatus(ctx context.Context, id domain.InvoiceID, status domain.InvoiceStatus) (domain.Invoice, error)

	// Delete removes every invoice with the given ID; an unknown ID is a no-op
	Delete(ctx context.Context, id domain.InvoiceID) error

	// List returns a copy of all invoices in insertion order
	List() []domain.Invoice

	// Get returns a copy of the first invoice with the given ID
	Get(id domain.InvoiceID) (domain.Invoice, error)

	// Clear removes every invoice from storage and memory
	Clear(ctx context.Context) error

	// MarkOverdue flags pending and sent invoices due before today
	MarkOverdue(ctx context.Context, today domain.Date) (int, error)

	// Export serializes all invoices as an indented JSON array
	Export() ([]byte, error)

	// Import appends the usable records of a JSON array and returns how many were added
	Import(ctx context.Context, document []byte) (int, error)
}

type invoiceService struct {
	mu       sync.Mutex
	repo     repository.InvoiceRepository
	ids      domain.IDGenerator
	invoices []domain.Invoice
	log      zerolog.Logger
}

// NewInvoiceService creates a new invoice service with an empty list; call Load to read storage
func NewInvoiceService(repo repository.InvoiceRepository, ids domain.IDGenerator) InvoiceService {
	return &invoiceService{
		repo:     repo,
		ids:      ids,
		invoices: []domain.Invoice{},
		log:      logger.WithComponent("invoices"),
	}
}

func (s *invoiceService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoices, err := s.repo.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("starting with an empty invoice list")
		s.invoices = []domain.Invoice{}
		return err
	}

	s.invoices = invoices
	s.log.Debug().Int("count", len(invoices)).Msg("invoices loaded")
	return nil
}

func (s *invoiceService) Create(ctx context.Context, in domain.InvoiceInput) (domain.Invoice, error) {
	in = in.Sanitized()
	if in.Status == "" {
		in.Status = domain.InvoiceStatusPending
	}
	if violations := domain.ValidateInvoice(in); len(violations) > 0 {
		return domain.Invoice{}, &domain.ValidationError{Violations: violations}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	invoice := domain.Invoice{ID: s.ids.NewID()}
	invoice.Apply(in)

	next := append(s.snapshot(), invoice)
	if err := s.commit(ctx, next); err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info().Str("invoice_id", string(invoice.ID)).Msg("invoice created")
	return invoice, nil
}

func (s *invoiceService) Update(ctx context.Context, id domain.InvoiceID, in domain.InvoiceInput) (domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Invoice{}, fmt.Errorf("%w: %s", ErrInvoiceNotFound, id)
	}

	in = in.Sanitized()
	if in.Status == "" {
		in.Status = s.invoices[idx].Status
	}
	if violations := domain.ValidateInvoice(in); len(violations) > 0 {
		return domain.Invoice{}, &domain.ValidationError{Violations: violations}
	}

	next := s.snapshot()
	next[idx].Apply(in)
	if err := s.commit(ctx, next); err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info().Str("invoice_id", string(id)).Msg("invoice updated")
	return next[idx], nil
}

func (s *invoiceService) SetStatus(ctx context.Context, id domain.InvoiceID, status domain.InvoiceStatus) (domain.Invoice, error) {
	if !status.IsValid() {
		return domain.Invoice{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Invoice{}, fmt.Errorf("%w: %s", ErrInvoiceNotFound, id)
	}

	next := s.snapshot()
	next[idx].Status = status
	if err := s.commit(ctx, next); err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info().Str("invoice_id", string(id)).Str("status", string(status)).Msg("invoice status changed")
	return next[idx], nil
}

func (s *invoiceService) Delete(ctx context.Context, id domain.InvoiceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		if inv.ID != id {
			next = append(next, inv)
		}
	}
	if len(next) == len(s.invoices) {
		return nil
	}

	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.log.Info().Str("invoice_id", string(id)).Msg("invoice deleted")
	return nil
}

func (s *invoiceService) List() []domain.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *invoiceService) Get(id domain.InvoiceID) (domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Invoice{}, fmt.Errorf("%w: %s", ErrInvoiceNotFound, id)
	}
	return s.invoices[idx], nil
}

func (s *invoiceService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to clear invoices")
		return err
	}

	s.log.Warn().Int("count", len(s.invoices)).Msg("all invoices cleared")
	s.invoices = []domain.Invoice{}
	return nil
}

func (s *invoiceService) MarkOverdue(ctx context.Context, today domain.Date) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	count := 0
	for i := range next {
		if next[i].IsPastDue(today) {
			next[i].Status = domain.InvoiceStatusOverdue
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}

	s.log.Info().Int("count", count).Str("as_of", today.String()).Msg("invoices marked overdue")
	return count, nil
}

func (s *invoiceService) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode invoices: %w", err)
	}
	return data, nil
}

func (s *invoiceService) Import(ctx context.Context, document []byte) (int, error) {
	trimmed := bytes.TrimSpace(document)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return 0, &FormatError{}
	}

	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return 0, &FormatError{Err: err}
	}

	accepted := make([]domain.Invoice, 0, len(records))
	for i, raw := range records {
		var inv domain.Invoice
		if err := json.Unmarshal(raw, &inv); err != nil {
			s.log.Debug().Err(err).Int("record", i).Msg("skipping undecodable import record")
			continue
		}
		if inv.ID.IsEmpty() || inv.ClientName == "" || inv.Amount.IsZero() {
			s.log.Debug().Int("record", i).Msg("skipping incomplete import record")
			continue
		}
		if inv.Status == "" {
			inv.Status = domain.InvoiceStatusPending
		}
		accepted = append(accepted, inv)
	}

	if len(accepted) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(s.snapshot(), accepted...)
	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}

	s.log.Info().Int("imported", len(accepted)).Int("skipped", len(records)-len(accepted)).Msg("invoices imported")
	return len(accepted), nil
}

// commit persists next and makes it the live list only if the write succeeded
func (s *invoiceService) commit(ctx context.Context, next []domain.Invoice) error {
	if err := s.repo.Save(ctx, next); err != nil {
		s.log.Error().Err(err).Msg("failed to persist invoices")
		return err
	}
	s.invoices = next
	return nil
}

// snapshot returns a copy of the live list; callers must hold mu
func (s *invoiceService) snapshot() []domain.Invoice {
	out := make([]domain.Invoice, len(s.invoices))
	copy(out, s.invoices)
	return out
}

// indexOf returns the position of the first invoice with id, or -1; callers must hold mu
func (s *invoiceService) indexOf(id domain.InvoiceID) int {
	for i, inv := range s.invoices {
		if inv.ID == id {
			return i
		}
	}
	return -1
}
