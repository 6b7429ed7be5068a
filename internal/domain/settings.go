package domain

import "github.com/shopspring/decimal"

// Settings is the explicit configuration value passed into every report
// calculation. There is no process-wide configuration state; callers load
// settings once per request via a SettingsProvider and hand them down.
type Settings struct {
	// UseClassificationBasedSelection switches item selection between
	// mark/classification routing and the flat "is amortizable" flag
	UseClassificationBasedSelection bool
	ClassificationKeys              []string

	DefaultRate       decimal.Decimal // Annual rate applied when no tier of the precedence chain resolves
	DefaultUsefulLife int

	// AllowPartialYear enables month-based first-year proration. When
	// enabled it takes the place of the half-rate rule, never combined.
	AllowPartialYear bool

	// StrictRateResolution makes conflicting explicit rate overrides an
	// error instead of preferring the transaction-level value
	StrictRateResolution bool
}

// DefaultSettings returns the system defaults: 20% straight-line over
// 5 years with partial-year proration enabled
func DefaultSettings() Settings {
	return Settings{
		DefaultRate:       decimal.NewFromInt(20),
		DefaultUsefulLife: 5,
		AllowPartialYear:  true,
	}
}
