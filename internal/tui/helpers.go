package tui

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/andy/invoicebook/internal/repository"
)

// formatMoney formats money as "€X,XXX.XX" with comma separators
func formatMoney(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	s := amount.Abs().StringFixed(2)

	// Split at decimal point
	dotPos := len(s) - 3
	intPart := s[:dotPos]
	decPart := s[dotPos:]

	// Add commas to integer part
	result := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}

	prefix := "€"
	if negative {
		prefix = "-€"
	}
	return prefix + string(result) + decPart
}

// truncateStr truncates a string to the specified number of runes with ellipsis
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// errorText returns the user-facing text for a service error
func errorText(err error) string {
	var se *repository.StorageError
	if errors.As(err, &se) {
		return se.UserMessage()
	}
	return err.Error()
}
