package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemSource identifies where an amortizable item was discovered
type ItemSource string

const (
	SourceTransaction      ItemSource = "TRANSACTION"
	SourceManual           ItemSource = "MANUAL"
	SourceAssetGroupMapped ItemSource = "ASSET_GROUP_MAPPED"
)

// AmortizableItem represents one depreciable asset or amortizable expense entry.
// It is an immutable snapshot for a single report run; recomputed, never mutated.
type AmortizableItem struct {
	ID              uuid.UUID
	CompanyID       uuid.UUID
	Name            string
	Principal       decimal.Decimal // Acquisition cost / amortizable base (>= 0)
	AcquisitionDate time.Time       // Start of amortization; may differ from transaction date
	HalfRate        bool            // 50% first-year rate when partial-year proration is off
	UsefulLifeYears int             // Informational; the rate is authoritative
	Source          ItemSource

	// OneTimeYear marks a flat single-year adjustment (no amortization
	// schedule): the item contributes Principal in exactly that year.
	OneTimeYear *int

	// Rate precedence chain, most specific first. A nil value falls
	// through to the next tier; the system default lives in Settings.
	OverrideRatePercent *decimal.Decimal // Transaction-level override
	MappedRatePercent   *decimal.Decimal // Mark-level mapping
	GroupRatePercent    *decimal.Decimal // Asset-group default

	// Same chain for useful life, used for report display only
	OverrideUsefulLife *int
	MappedUsefulLife   *int
	GroupUsefulLife    *int
}

// Validate ensures the item adheres to domain rules
// Returns an error if validation fails
func (i *AmortizableItem) Validate() error {
	if i.Principal.IsNegative() {
		return &InvalidItemError{ItemID: i.ID, Reason: "principal must not be negative"}
	}

	if i.OneTimeYear == nil && i.AcquisitionDate.IsZero() {
		return &InvalidItemError{ItemID: i.ID, Reason: "acquisition date is required for scheduled items"}
	}

	switch i.Source {
	case SourceTransaction, SourceManual, SourceAssetGroupMapped:
	default:
		return &InvalidItemError{ItemID: i.ID, Reason: "source must be TRANSACTION, MANUAL or ASSET_GROUP_MAPPED"}
	}

	return nil
}

// EffectiveRate resolves the annual rate through the precedence chain:
// transaction-level override > mark-level mapping > asset-group default > system default.
// In strict mode, conflicting non-nil values on the two explicit tiers
// are rejected with AmbiguousOverrideError instead of silently preferring
// the transaction override.
func (i *AmortizableItem) EffectiveRate(settings Settings) (decimal.Decimal, error) {
	if settings.StrictRateResolution &&
		i.OverrideRatePercent != nil && i.MappedRatePercent != nil &&
		!i.OverrideRatePercent.Equal(*i.MappedRatePercent) {
		return decimal.Zero, &AmbiguousOverrideError{
			ItemID:       i.ID,
			OverrideRate: *i.OverrideRatePercent,
			MappedRate:   *i.MappedRatePercent,
		}
	}

	if i.OverrideRatePercent != nil {
		return *i.OverrideRatePercent, nil
	}
	if i.MappedRatePercent != nil {
		return *i.MappedRatePercent, nil
	}
	if i.GroupRatePercent != nil {
		return *i.GroupRatePercent, nil
	}
	return settings.DefaultRate, nil
}

// EffectiveUsefulLife resolves the useful life through the same precedence
// chain as EffectiveRate. Display only; amount calculations use the rate.
func (i *AmortizableItem) EffectiveUsefulLife(settings Settings) int {
	if i.OverrideUsefulLife != nil {
		return *i.OverrideUsefulLife
	}
	if i.MappedUsefulLife != nil {
		return *i.MappedUsefulLife
	}
	if i.GroupUsefulLife != nil {
		return *i.GroupUsefulLife
	}
	return settings.DefaultUsefulLife
}

// AcquisitionYear returns the calendar year amortization starts
func (i *AmortizableItem) AcquisitionYear() int {
	return i.AcquisitionDate.Year()
}
