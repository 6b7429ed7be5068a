package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvalidPeriodError indicates a year-level calculation was requested for
// a year before the item's acquisition year
type InvalidPeriodError struct {
	Year            int
	AcquisitionYear int
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid period: year %d precedes acquisition year %d", e.Year, e.AcquisitionYear)
}

// InvalidItemError indicates an item that fails arithmetic-safety
// validation (negative principal, non-positive duration, gross-up
// denominator at or below zero)
type InvalidItemError struct {
	ItemID uuid.UUID
	Reason string
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("invalid item %s: %s", e.ItemID, e.Reason)
}

// AmbiguousOverrideError indicates two conflicting explicit rate sources
// for the same item while strict resolution is enabled
type AmbiguousOverrideError struct {
	ItemID       uuid.UUID
	OverrideRate decimal.Decimal
	MappedRate   decimal.Decimal
}

func (e *AmbiguousOverrideError) Error() string {
	return fmt.Sprintf("ambiguous rate for item %s: transaction override %s conflicts with mark mapping %s",
		e.ItemID, e.OverrideRate, e.MappedRate)
}
