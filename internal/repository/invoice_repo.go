package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/andy/invoicebook/internal/domain"
)

// InvoiceRepo stores the invoice list as one JSON array under KeyInvoices
type InvoiceRepo struct {
	kv KV
}

// NewInvoiceRepo creates a new InvoiceRepo
func NewInvoiceRepo(kv KV) *InvoiceRepo {
	return &InvoiceRepo{kv: kv}
}

// Load returns the stored list in insertion order. A missing key is an empty list.
func (r *InvoiceRepo) Load(ctx context.Context) ([]domain.Invoice, error) {
	raw, err := r.kv.Get(ctx, KeyInvoices)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return []domain.Invoice{}, nil
		}
		return nil, &StorageError{Kind: KindReadFailed, Op: "load", Key: KeyInvoices, Err: err}
	}

	var invoices []domain.Invoice
	if err := json.Unmarshal(raw, &invoices); err != nil {
		return nil, &StorageError{Kind: KindCorruptData, Op: "load", Key: KeyInvoices, Err: err}
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return invoices, nil
}

// Save replaces the stored list
func (r *InvoiceRepo) Save(ctx context.Context, invoices []domain.Invoice) error {
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	raw, err := json.Marshal(invoices)
	if err != nil {
		return &StorageError{Kind: KindWriteFailed, Op: "save", Key: KeyInvoices, Err: err}
	}
	if err := r.kv.Set(ctx, KeyInvoices, raw); err != nil {
		return writeError("save", KeyInvoices, err)
	}
	return nil
}

// Clear removes the stored list entirely
func (r *InvoiceRepo) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, KeyInvoices); err != nil {
		return writeError("clear", KeyInvoices, err)
	}
	return nil
}
