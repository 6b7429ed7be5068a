package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemWarning records a per-item calculation failure or data-quality
// flag. One malformed asset must not blank out an entire year's report,
// so the aggregator collects warnings instead of aborting.
type ItemWarning struct {
	ItemID uuid.UUID
	Name   string
	Reason string
}

// AmortizationReportTotal is the aggregate amortization result for a
// (company, year) pair. Built fresh per request and returned to the
// caller; reports are derived views, never the system of record.
type AmortizationReportTotal struct {
	CompanyID  uuid.UUID
	ReportYear int
	PerSource  map[ItemSource]decimal.Decimal
	GrandTotal decimal.Decimal
	ItemCount  int
	Warnings   []ItemWarning
}

// NewAmortizationReportTotal initializes an empty report total with all
// source buckets present
func NewAmortizationReportTotal(companyID uuid.UUID, reportYear int) *AmortizationReportTotal {
	return &AmortizationReportTotal{
		CompanyID:  companyID,
		ReportYear: reportYear,
		PerSource: map[ItemSource]decimal.Decimal{
			SourceTransaction:      decimal.Zero,
			SourceManual:           decimal.Zero,
			SourceAssetGroupMapped: decimal.Zero,
		},
		GrandTotal: decimal.Zero,
	}
}

// Add records one item's current-year amortization under its source
func (t *AmortizationReportTotal) Add(source ItemSource, amount decimal.Decimal) {
	t.PerSource[source] = t.PerSource[source].Add(amount)
	t.GrandTotal = t.GrandTotal.Add(amount)
	t.ItemCount++
}

// Warn appends a per-item warning to the result set
func (t *AmortizationReportTotal) Warn(itemID uuid.UUID, name, reason string) {
	t.Warnings = append(t.Warnings, ItemWarning{ItemID: itemID, Name: name, Reason: reason})
}
