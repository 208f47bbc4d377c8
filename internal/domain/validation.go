package domain

import (
	"strings"
	"unicode/utf8"
)

// MinClientNameLength is the shortest accepted client name, counted in characters
const MinClientNameLength = 2

// Violation identifies one failed field rule
type Violation int

const (
	ViolationClientName Violation = iota + 1
	ViolationServiceType
	ViolationAmount
	ViolationInvoiceDate
	ViolationDueDate
	ViolationDateOrder
	ViolationStatus
)

// String returns the message shown to the user
func (v Violation) String() string {
	switch v {
	case ViolationClientName:
		return "Client name must be at least 2 characters long"
	case ViolationServiceType:
		return "Service type is required"
	case ViolationAmount:
		return "Amount must be greater than 0"
	case ViolationInvoiceDate:
		return "Invoice date is required"
	case ViolationDueDate:
		return "Due date is required"
	case ViolationDateOrder:
		return "Due date cannot be before invoice date"
	case ViolationStatus:
		return "Status must be one of pending, sent, paid, overdue"
	default:
		return "Unknown validation error"
	}
}

// ValidationError carries every violation found for one candidate invoice
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return "Please fix the following errors: " + strings.Join(msgs, ", ")
}

// Has reports whether v is among the violations
func (e *ValidationError) Has(v Violation) bool {
	for _, got := range e.Violations {
		if got == v {
			return true
		}
	}
	return false
}

// SanitizeText strips angle brackets and surrounding whitespace from free text
func SanitizeText(input string) string {
	return strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(input))
}

// ValidateInvoice checks the candidate against every field rule and returns all
// violations in a fixed order. An empty result means the candidate is valid.
func ValidateInvoice(in InvoiceInput) []Violation {
	var violations []Violation

	if utf8.RuneCountInString(in.ClientName) < MinClientNameLength {
		violations = append(violations, ViolationClientName)
	}
	if in.ServiceType.IsEmpty() {
		violations = append(violations, ViolationServiceType)
	}
	if !in.Amount.IsPositive() {
		violations = append(violations, ViolationAmount)
	}
	if in.InvoiceDate.IsZero() {
		violations = append(violations, ViolationInvoiceDate)
	}
	if in.DueDate.IsZero() {
		violations = append(violations, ViolationDueDate)
	}
	// Ordering only applies once both dates are known
	if !in.InvoiceDate.IsZero() && !in.DueDate.IsZero() && in.DueDate.Before(in.InvoiceDate.Time) {
		violations = append(violations, ViolationDateOrder)
	}
	if !in.Status.IsValid() {
		violations = append(violations, ViolationStatus)
	}

	return violations
}
