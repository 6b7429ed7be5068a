package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/arkatama/pembukuan-backend/internal/domain"
	"github.com/arkatama/pembukuan-backend/internal/usecase/schedule"
)

// ReportService aggregates amortization across the three item sources
// into a single report total. Pure read/compute; the result is a
// transient value returned to the caller, never persisted.
type ReportService struct {
	ItemRepo     domain.ItemSourceProvider
	SettingsRepo domain.SettingsProvider
	Log          zerolog.Logger
}

// NewReportService creates a new ReportService instance
func NewReportService(itemRepo domain.ItemSourceProvider, settingsRepo domain.SettingsProvider, log zerolog.Logger) *ReportService {
	return &ReportService{
		ItemRepo:     itemRepo,
		SettingsRepo: settingsRepo,
		Log:          log,
	}
}

// Aggregate computes the current-year amortization total for a company
// and report year.
// Logic:
//  1. Load settings (per-company overrides over global defaults)
//  2. Fetch items source by source, most explicit first: transaction-
//     derived, then registered assets, then manual items. The same
//     underlying item can be reachable through two join paths; the
//     first occurrence of an item ID wins, so an explicit transaction-
//     level row shadows a mark-mapped duplicate.
//  3. Run the accumulator for every qualifying item and sum per source
//
// Per-item failures become warnings in the result set; one malformed
// asset never aborts the whole report.
func (s *ReportService) Aggregate(ctx context.Context, companyID uuid.UUID, reportYear int) (*domain.AmortizationReportTotal, error) {
	settings, err := s.SettingsRepo.Load(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load amortization settings: %w", err)
	}

	return s.AggregateWithSettings(ctx, companyID, reportYear, settings)
}

// AggregateWithSettings is Aggregate with an explicit settings value,
// for callers that already hold one
func (s *ReportService) AggregateWithSettings(ctx context.Context, companyID uuid.UUID, reportYear int, settings domain.Settings) (*domain.AmortizationReportTotal, error) {
	var classificationKeys []string
	if settings.UseClassificationBasedSelection {
		classificationKeys = settings.ClassificationKeys
	}

	txnItems, err := s.ItemRepo.ListTransactionItems(ctx, companyID, reportYear, classificationKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction items: %w", err)
	}

	assetItems, err := s.ItemRepo.ListRegisteredAssets(ctx, companyID, reportYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered assets: %w", err)
	}

	manualItems, err := s.ItemRepo.ListManualItems(ctx, companyID, reportYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list manual items: %w", err)
	}

	total := domain.NewAmortizationReportTotal(companyID, reportYear)
	seen := make(map[uuid.UUID]bool)

	// Precedence order: explicit beats inherited
	for _, items := range [][]*domain.AmortizableItem{txnItems, assetItems, manualItems} {
		for _, item := range items {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true

			s.addItem(ctx, total, item, reportYear, settings)
		}
	}

	return total, nil
}

// addItem computes one item's contribution and records it, converting
// per-item errors into warnings
func (s *ReportService) addItem(ctx context.Context, total *domain.AmortizationReportTotal, item *domain.AmortizableItem, reportYear int, settings domain.Settings) {
	if err := item.Validate(); err != nil {
		s.warn(ctx, total, item, err.Error())
		return
	}

	// One-time adjustments contribute their full amount in exactly
	// their tagged year
	if item.OneTimeYear != nil {
		if *item.OneTimeYear == reportYear {
			total.Add(item.Source, item.Principal)
		}
		return
	}

	// Not yet in service: contributes nothing, not an error
	if item.AcquisitionYear() > reportYear {
		return
	}

	// Rates outside [0, 100] are arithmetically safe but flagged
	if rate, err := item.EffectiveRate(settings); err == nil {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			total.Warn(item.ID, item.Name, fmt.Sprintf("rate %s%% outside [0, 100]", rate))
		}
	}

	current, _, err := schedule.CurrentYearAmount(item, reportYear, settings)
	if err != nil {
		s.warn(ctx, total, item, err.Error())
		return
	}

	total.Add(item.Source, current)
}

func (s *ReportService) warn(ctx context.Context, total *domain.AmortizationReportTotal, item *domain.AmortizableItem, reason string) {
	s.Log.Warn().
		Str("item_id", item.ID.String()).
		Str("item_name", item.Name).
		Str("reason", reason).
		Msg("Skipping amortization item")
	total.Warn(item.ID, item.Name, reason)
}
