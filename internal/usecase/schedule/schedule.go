package schedule

import (
	"github.com/arkatama/pembukuan-backend/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	twelve     = decimal.NewFromInt(12)
	oneHundred = decimal.NewFromInt(100)
	half       = decimal.RequireFromString("0.5")
)

// AllocateYear computes the amortization amount attributable to a single
// calendar year, before any cap at remaining book value.
// Logic:
//  1. annual_base = principal x (rate / 100), rate resolved via the
//     item's precedence chain
//  2. Acquisition year: prorate by months remaining (acquisition month
//     inclusive) when partial-year proration is on; otherwise apply the
//     half-rate rule when the item carries it; otherwise the full base
//  3. Every later year: the full annual base
//
// Capping is the accumulator's responsibility because it needs the
// running accumulated total. Rates outside [0, 100] are computed as-is;
// the aggregator flags them as data-quality warnings.
func AllocateYear(item *domain.AmortizableItem, year int, settings domain.Settings) (decimal.Decimal, error) {
	acquisitionYear := item.AcquisitionYear()
	if year < acquisitionYear {
		return decimal.Zero, &domain.InvalidPeriodError{Year: year, AcquisitionYear: acquisitionYear}
	}

	rate, err := item.EffectiveRate(settings)
	if err != nil {
		return decimal.Zero, err
	}

	annualBase := item.Principal.Mul(rate.Div(oneHundred))

	if year > acquisitionYear {
		return annualBase, nil
	}

	// Acquisition year
	if settings.AllowPartialYear {
		// Months remaining in the year, acquisition month inclusive
		monthsRemaining := int64(13 - int(item.AcquisitionDate.Month()))
		return annualBase.Mul(decimal.NewFromInt(monthsRemaining)).Div(twelve), nil
	}
	if item.HalfRate {
		return annualBase.Mul(half), nil
	}
	return annualBase, nil
}

// CurrentYearAmount replays AllocateYear chronologically from the item's
// acquisition year through reportYear, capping each year at the remaining
// book value, and returns the report year's amortization together with
// the accumulated amortization of all prior years.
//
// Chronological replay is mandatory: the cap depends on the running
// accumulated total, so years must be applied in ascending order.
//
// Invariant: accumulatedPrior + currentYear <= item.Principal for every
// reportYear; once the item is fully amortized, further years yield zero.
func CurrentYearAmount(item *domain.AmortizableItem, reportYear int, settings domain.Settings) (currentYear, accumulatedPrior decimal.Decimal, err error) {
	acquisitionYear := item.AcquisitionYear()

	// Not yet in service: the item contributes nothing
	if acquisitionYear > reportYear {
		return decimal.Zero, decimal.Zero, nil
	}

	accumulated := decimal.Zero
	current := decimal.Zero

	for y := acquisitionYear; y <= reportYear; y++ {
		raw, err := AllocateYear(item, y, settings)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}

		remaining := item.Principal.Sub(accumulated)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		capped := decimal.Min(raw, remaining)
		if capped.IsNegative() {
			capped = decimal.Zero
		}

		if y < reportYear {
			accumulated = accumulated.Add(capped)
		} else {
			current = capped
		}
	}

	return current, accumulated, nil
}
