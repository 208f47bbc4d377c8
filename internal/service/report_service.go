package service

import (
	"github.com/shopspring/decimal"

	"github.com/andy/invoicebook/internal/domain"
)

// Income tax applies at IncomeTaxRate to revenue above IncomeTaxThreshold
var (
	IncomeTaxThreshold = decimal.NewFromInt(4104)
	IncomeTaxRate      = decimal.RequireFromString("0.18")

	hundred = decimal.NewFromInt(100)
)

// StatusTotal is the count and sum of invoices in one status
type StatusTotal struct {
	Count  int
	Amount decimal.Decimal
}

// Dashboard holds the derived revenue and tax figures. Values are unrounded;
// round with StringFixed(2) when displaying.
type Dashboard struct {
	TotalInvoices   int
	TotalRevenue    decimal.Decimal // paid + sent
	PendingPayments decimal.Decimal // pending + overdue
	VATPercentage   float64
	VATAmount       decimal.Decimal
	IncomeTaxAmount decimal.Decimal
	TotalTaxAmount  decimal.Decimal
	ByStatus        map[domain.InvoiceStatus]StatusTotal
}

// ComputeDashboard derives the dashboard figures from a list of invoices and a VAT percentage
func ComputeDashboard(invoices []domain.Invoice, vatPercentage float64) Dashboard {
	d := Dashboard{
		TotalInvoices:   len(invoices),
		TotalRevenue:    decimal.Zero,
		PendingPayments: decimal.Zero,
		VATPercentage:   vatPercentage,
		ByStatus:        make(map[domain.InvoiceStatus]StatusTotal, len(domain.InvoiceStatuses)),
	}
	for _, status := range domain.InvoiceStatuses {
		d.ByStatus[status] = StatusTotal{Amount: decimal.Zero}
	}

	for _, inv := range invoices {
		switch {
		case inv.Status.IsRevenue():
			d.TotalRevenue = d.TotalRevenue.Add(inv.Amount)
		case inv.Status.IsOutstanding():
			d.PendingPayments = d.PendingPayments.Add(inv.Amount)
		}
		if total, ok := d.ByStatus[inv.Status]; ok {
			total.Count++
			total.Amount = total.Amount.Add(inv.Amount)
			d.ByStatus[inv.Status] = total
		}
	}

	d.VATAmount = d.TotalRevenue.Mul(decimal.NewFromFloat(vatPercentage)).Div(hundred)

	d.IncomeTaxAmount = decimal.Zero
	if taxable := d.TotalRevenue.Sub(IncomeTaxThreshold); taxable.IsPositive() {
		d.IncomeTaxAmount = taxable.Mul(IncomeTaxRate)
	}

	d.TotalTaxAmount = d.VATAmount.Add(d.IncomeTaxAmount)
	return d
}

// ReportService derives aggregates from the live invoice list and settings
type ReportService interface {
	Dashboard() Dashboard
}

type reportService struct {
	invoices InvoiceService
	settings SettingsService
}

// NewReportService creates a new report service
func NewReportService(invoices InvoiceService, settings SettingsService) ReportService {
	return &reportService{invoices: invoices, settings: settings}
}

func (s *reportService) Dashboard() Dashboard {
	return ComputeDashboard(s.invoices.List(), s.settings.Get().VATPercentage)
}
