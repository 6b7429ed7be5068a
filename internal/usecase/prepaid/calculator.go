package prepaid

import (
	"time"

	"github.com/arkatama/pembukuan-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Status is the amortization position of a prepaid item at a point in time
type Status struct {
	MonthsActive   int
	Accumulated    decimal.Decimal
	BookValue      decimal.Decimal
	MonthlyExpense decimal.Decimal
	Closed         bool // True once every month of the duration has been expensed
}

// StatusAsOf computes the straight-line amortization position of a
// prepaid item as of a date.
//
// Whole-month convention: any day within the start month counts as a
// full month elapsed, so the start month itself is month 1. Months are
// clamped to [0, duration], which guarantees book value never goes
// negative and accumulated never exceeds bruto.
func StatusAsOf(item *domain.PrepaidExpenseItem, asOf time.Time) (Status, error) {
	if err := item.Validate(); err != nil {
		return Status{}, err
	}

	monthly := item.MonthlyExpense()

	monthsActive := 0
	if !asOf.Before(item.StartDate) {
		diffYears := asOf.Year() - item.StartDate.Year()
		diffMonths := int(asOf.Month()) - int(item.StartDate.Month())
		monthsActive = diffYears*12 + diffMonths + 1
		if monthsActive > item.DurationMonths {
			monthsActive = item.DurationMonths
		}
		if monthsActive < 0 {
			monthsActive = 0
		}
	}

	accumulated := monthly.Mul(decimal.NewFromInt(int64(monthsActive))).Round(2)
	bookValue := item.AmountBruto.Sub(accumulated).Round(2)

	return Status{
		MonthsActive:   monthsActive,
		Accumulated:    accumulated,
		BookValue:      bookValue,
		MonthlyExpense: monthly.Round(2),
		Closed:         monthsActive == item.DurationMonths,
	}, nil
}

// PeriodExpense computes the amortization expense a prepaid item
// contributes to a reporting period: the number of whole months in the
// overlap between the contract window and [periodStart, periodEnd],
// multiplied by the monthly expense.
func PeriodExpense(item *domain.PrepaidExpenseItem, periodStart, periodEnd time.Time) (decimal.Decimal, error) {
	if err := item.Validate(); err != nil {
		return decimal.Zero, err
	}

	overlapStart := item.StartDate
	if periodStart.After(overlapStart) {
		overlapStart = periodStart
	}
	overlapEnd := item.EndDate()
	if periodEnd.Before(overlapEnd) {
		overlapEnd = periodEnd
	}

	if overlapStart.After(overlapEnd) {
		return decimal.Zero, nil
	}

	diffYears := overlapEnd.Year() - overlapStart.Year()
	diffMonths := int(overlapEnd.Month()) - int(overlapStart.Month())
	months := diffYears*12 + diffMonths + 1

	return item.MonthlyExpense().Mul(decimal.NewFromInt(int64(months))).Round(2), nil
}
