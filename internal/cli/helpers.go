package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/andy/invoicebook/internal/domain"
	"github.com/andy/invoicebook/internal/repository"
	"github.com/andy/invoicebook/internal/service"
)

// ErrorMessage turns an error from a command into the text shown to the user
func ErrorMessage(err error) string {
	var (
		verr *domain.ValidationError
		serr *repository.StorageError
		ferr *service.FormatError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.As(err, &serr):
		return serr.UserMessage()
	case errors.As(err, &ferr):
		return ferr.Error()
	default:
		return err.Error()
	}
}

// confirmPrompt asks a yes/no question on the command's input; --yes skips it
func confirmPrompt(cmd *cobra.Command, message string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", message)
	reader := bufio.NewReader(cmd.InOrStdin())
	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

func money(d decimal.Decimal) string {
	return "€" + d.StringFixed(2)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
