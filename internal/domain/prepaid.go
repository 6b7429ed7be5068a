package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrepaidExpenseItem represents a prepaid expense contract (rent,
// insurance) amortized straight-line per month over its duration.
// Created at contract signing and read-only thereafter; logically closed
// once every month of the duration has been expensed.
type PrepaidExpenseItem struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	Name           string
	AmountNet      decimal.Decimal
	AmountBruto    decimal.Decimal // Gross-up applied once at creation, immutable
	TaxRate        decimal.Decimal
	StartDate      time.Time
	DurationMonths int
}

var oneHundred = decimal.NewFromInt(100)

// NewPrepaidExpenseItem builds a prepaid item, applying the gross-up when
// tax is withheld at source: bruto = net / (1 - taxRate/100).
// The gross-up happens exactly once, here; the stored bruto is authoritative.
func NewPrepaidExpenseItem(companyID uuid.UUID, name string, amountNet, taxRate decimal.Decimal, startDate time.Time, durationMonths int) (*PrepaidExpenseItem, error) {
	id := uuid.New()

	if amountNet.IsNegative() {
		return nil, &InvalidItemError{ItemID: id, Reason: "net amount must not be negative"}
	}
	if durationMonths <= 0 {
		return nil, &InvalidItemError{ItemID: id, Reason: "duration must be a positive number of months"}
	}

	// Guard the gross-up denominator before dividing: taxRate >= 100
	// would mean a zero or negative denominator
	denominator := decimal.NewFromInt(1).Sub(taxRate.Div(oneHundred))
	if denominator.LessThanOrEqual(decimal.Zero) {
		return nil, &InvalidItemError{ItemID: id, Reason: "tax rate must be below 100%"}
	}

	return &PrepaidExpenseItem{
		ID:             id,
		CompanyID:      companyID,
		Name:           name,
		AmountNet:      amountNet,
		AmountBruto:    amountNet.Div(denominator),
		TaxRate:        taxRate,
		StartDate:      startDate,
		DurationMonths: durationMonths,
	}, nil
}

// Validate ensures a loaded item is arithmetically safe to calculate with
func (p *PrepaidExpenseItem) Validate() error {
	if p.DurationMonths <= 0 {
		return &InvalidItemError{ItemID: p.ID, Reason: "duration must be a positive number of months"}
	}
	if p.AmountBruto.IsNegative() {
		return &InvalidItemError{ItemID: p.ID, Reason: "bruto amount must not be negative"}
	}
	if p.StartDate.IsZero() {
		return &InvalidItemError{ItemID: p.ID, Reason: "start date is required"}
	}
	return nil
}

// MonthlyExpense returns the straight-line monthly amortization amount
func (p *PrepaidExpenseItem) MonthlyExpense() decimal.Decimal {
	return p.AmountBruto.Div(decimal.NewFromInt(int64(p.DurationMonths)))
}

// EndDate returns the last day of the contract's final month
func (p *PrepaidExpenseItem) EndDate() time.Time {
	// First day of the month after the contract, minus one day
	firstAfter := time.Date(p.StartDate.Year(), p.StartDate.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, p.DurationMonths, 0)
	return firstAfter.AddDate(0, 0, -1)
}
