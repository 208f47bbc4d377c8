package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as plain JSON numbers, matching the browser-era export files.
	decimal.MarshalJSONWithoutQuotes = true
}

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

var ErrInvalidStatus = errors.New("invalid invoice status")

// InvoiceStatuses lists every status in display order
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusPending,
	InvoiceStatusSent,
	InvoiceStatusPaid,
	InvoiceStatusOverdue,
}

// ParseInvoiceStatus converts user input into a status, case-insensitively
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	status := InvoiceStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// IsValid reports whether s is one of the four known statuses
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// IsRevenue reports whether the invoice counts as recognized revenue
func (s InvoiceStatus) IsRevenue() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusSent
}

// IsOutstanding reports whether the invoice is still awaiting payment
func (s InvoiceStatus) IsOutstanding() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusOverdue
}

// Next returns the following status in display order, wrapping around
func (s InvoiceStatus) Next() InvoiceStatus {
	for i, status := range InvoiceStatuses {
		if status == s {
			return InvoiceStatuses[(i+1)%len(InvoiceStatuses)]
		}
	}
	return InvoiceStatusPending
}

// Label returns the upper-case badge text for the status
func (s InvoiceStatus) Label() string {
	return strings.ToUpper(string(s))
}

// UnmarshalJSON rejects values outside the closed status set
func (s *InvoiceStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := jsonUnmarshalString(b, &raw); err != nil {
		return err
	}
	status, err := ParseInvoiceStatus(raw)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// ServiceType is an open category; any non-empty value is accepted
type ServiceType string

// DefaultServiceTypes are offered by pickers when the config does not override them
var DefaultServiceTypes = []ServiceType{
	"Bridal Makeup",
	"Evening Makeup",
	"Photoshoot Makeup",
	"Special Event",
	"Makeup Lesson",
	"Other",
}

// IsEmpty reports whether the category is blank
func (t ServiceType) IsEmpty() bool {
	return strings.TrimSpace(string(t)) == ""
}

type Invoice struct {
	ID          InvoiceID       `json:"id"`
	ClientName  string          `json:"clientName"`
	ServiceType ServiceType     `json:"serviceType"`
	Amount      decimal.Decimal `json:"amount"`
	InvoiceDate Date            `json:"invoiceDate"`
	DueDate     Date            `json:"dueDate"`
	Status      InvoiceStatus   `json:"status"`
	Notes       string          `json:"notes"`
}

// InvoiceInput carries the user-supplied fields for create and update
type InvoiceInput struct {
	ClientName  string
	ServiceType ServiceType
	Amount      decimal.Decimal
	InvoiceDate Date
	DueDate     Date
	Status      InvoiceStatus
	Notes       string
}

// Sanitized returns a copy with free-text fields stripped of markup characters
func (in InvoiceInput) Sanitized() InvoiceInput {
	in.ClientName = SanitizeText(in.ClientName)
	in.ServiceType = ServiceType(SanitizeText(string(in.ServiceType)))
	in.Notes = SanitizeText(in.Notes)
	return in
}

// Input returns the editable fields of the invoice
func (i Invoice) Input() InvoiceInput {
	return InvoiceInput{
		ClientName:  i.ClientName,
		ServiceType: i.ServiceType,
		Amount:      i.Amount,
		InvoiceDate: i.InvoiceDate,
		DueDate:     i.DueDate,
		Status:      i.Status,
		Notes:       i.Notes,
	}
}

// Apply overwrites the editable fields, keeping the ID
func (i *Invoice) Apply(in InvoiceInput) {
	i.ClientName = in.ClientName
	i.ServiceType = in.ServiceType
	i.Amount = in.Amount
	i.InvoiceDate = in.InvoiceDate
	i.DueDate = in.DueDate
	i.Status = in.Status
	i.Notes = in.Notes
}

// IsPastDue reports whether the invoice is unpaid and its due date is before today
func (i Invoice) IsPastDue(today Date) bool {
	if i.DueDate.IsZero() {
		return false
	}
	if i.Status != InvoiceStatusPending && i.Status != InvoiceStatusSent {
		return false
	}
	return i.DueDate.Before(today.Time)
}
