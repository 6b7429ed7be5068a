package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arkatama/pembukuan-backend/internal/domain"
)

// MockItemSourceProvider is a mock implementation of ItemSourceProvider for testing
type MockItemSourceProvider struct {
	mock.Mock
}

func (m *MockItemSourceProvider) ListTransactionItems(ctx context.Context, companyID uuid.UUID, asOfYear int, classificationKeys []string) ([]*domain.AmortizableItem, error) {
	args := m.Called(ctx, companyID, asOfYear, classificationKeys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AmortizableItem), args.Error(1)
}

func (m *MockItemSourceProvider) ListRegisteredAssets(ctx context.Context, companyID uuid.UUID, asOfYear int) ([]*domain.AmortizableItem, error) {
	args := m.Called(ctx, companyID, asOfYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AmortizableItem), args.Error(1)
}

func (m *MockItemSourceProvider) ListManualItems(ctx context.Context, companyID uuid.UUID, year int) ([]*domain.AmortizableItem, error) {
	args := m.Called(ctx, companyID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AmortizableItem), args.Error(1)
}

// MockSettingsProvider is a mock implementation of SettingsProvider for testing
type MockSettingsProvider struct {
	mock.Mock
}

func (m *MockSettingsProvider) Load(ctx context.Context, companyID uuid.UUID) (domain.Settings, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(domain.Settings), args.Error(1)
}

func scheduledItem(source domain.ItemSource, principal int64, acquisition time.Time, ratePercent int64) *domain.AmortizableItem {
	rate := decimal.NewFromInt(ratePercent)
	return &domain.AmortizableItem{
		ID:               uuid.New(),
		CompanyID:        uuid.New(),
		Name:             "Item",
		Principal:        decimal.NewFromInt(principal),
		AcquisitionDate:  acquisition,
		Source:           source,
		GroupRatePercent: &rate,
	}
}

func newService(itemRepo *MockItemSourceProvider, settingsRepo *MockSettingsProvider) *ReportService {
	return NewReportService(itemRepo, settingsRepo, zerolog.Nop())
}

func TestAggregate_SumsAcrossSources(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	itemRepo := new(MockItemSourceProvider)
	settingsRepo := new(MockSettingsProvider)
	service := newService(itemRepo, settingsRepo)

	jan2024 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	// 120,000,000 at 20% -> 24,000,000 per full year
	txnItem := scheduledItem(domain.SourceTransaction, 120_000_000, jan2024, 20)
	assetItem := scheduledItem(domain.SourceAssetGroupMapped, 60_000_000, jan2024, 20)
	manualItem := scheduledItem(domain.SourceManual, 30_000_000, jan2024, 20)

	settingsRepo.On("Load", ctx, companyID).Return(domain.DefaultSettings(), nil)
	itemRepo.On("ListTransactionItems", ctx, companyID, 2025, []string(nil)).Return([]*domain.AmortizableItem{txnItem}, nil)
	itemRepo.On("ListRegisteredAssets", ctx, companyID, 2025).Return([]*domain.AmortizableItem{assetItem}, nil)
	itemRepo.On("ListManualItems", ctx, companyID, 2025).Return([]*domain.AmortizableItem{manualItem}, nil)

	total, err := service.Aggregate(ctx, companyID, 2025)

	require.NoError(t, err)
	assert.Equal(t, 3, total.ItemCount)
	assert.True(t, total.PerSource[domain.SourceTransaction].Equal(decimal.NewFromInt(24_000_000)))
	assert.True(t, total.PerSource[domain.SourceAssetGroupMapped].Equal(decimal.NewFromInt(12_000_000)))
	assert.True(t, total.PerSource[domain.SourceManual].Equal(decimal.NewFromInt(6_000_000)))
	assert.True(t, total.GrandTotal.Equal(decimal.NewFromInt(42_000_000)))
	assert.Empty(t, total.Warnings)
}

func TestAggregate_DeduplicatesAcrossJoinPaths(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	itemRepo := new(MockItemSourceProvider)
	settingsRepo := new(MockSettingsProvider)
	service := newService(itemRepo, settingsRepo)

	jan2024 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	// The same underlying item reachable through both the transaction
	// join and the asset-register join. The transaction-level row
	// carries an explicit override and must win.
	sharedID := uuid.New()
	override := decimal.NewFromInt(10)

	txnItem := scheduledItem(domain.SourceTransaction, 100_000, jan2024, 20)
	txnItem.ID = sharedID
	txnItem.OverrideRatePercent = &override

	mappedItem := scheduledItem(domain.SourceAssetGroupMapped, 100_000, jan2024, 20)
	mappedItem.ID = sharedID

	settingsRepo.On("Load", ctx, companyID).Return(domain.DefaultSettings(), nil)
	itemRepo.On("ListTransactionItems", ctx, companyID, 2024, []string(nil)).Return([]*domain.AmortizableItem{txnItem}, nil)
	itemRepo.On("ListRegisteredAssets", ctx, companyID, 2024).Return([]*domain.AmortizableItem{mappedItem}, nil)
	itemRepo.On("ListManualItems", ctx, companyID, 2024).Return([]*domain.AmortizableItem{}, nil)

	total, err := service.Aggregate(ctx, companyID, 2024)

	require.NoError(t, err)
	assert.Equal(t, 1, total.ItemCount, "the same item must never be processed twice")
	// Override rate 10% of 100,000 = 10,000 (not the mapped 20%)
	assert.True(t, total.GrandTotal.Equal(decimal.NewFromInt(10_000)),
		"transaction-level override must take precedence, got %s", total.GrandTotal)
}

func TestAggregate_ExcludesNotYetAcquired(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	itemRepo := new(MockItemSourceProvider)
	settingsRepo := new(MockSettingsProvider)
	service := newService(itemRepo, settingsRepo)

	// Acquired in 2026, report year 2025: contributes 0, not an error
	futureItem := scheduledItem(domain.SourceTransaction, 100_000, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), 20)

	settingsRepo.On("Load", ctx, companyID).Return(domain.DefaultSettings(), nil)
	itemRepo.On("ListTransactionItems", ctx, companyID, 2025, []string(nil)).Return([]*domain.AmortizableItem{futureItem}, nil)
	itemRepo.On("ListRegisteredAssets", ctx, companyID, 2025).Return([]*domain.AmortizableItem{}, nil)
	itemRepo.On("ListManualItems", ctx, companyID, 2025).Return([]*domain.AmortizableItem{}, nil)

	total, err := service.Aggregate(ctx, companyID, 2025)

	require.NoError(t, err)
	assert.Equal(t, 0, total.ItemCount)
	assert.True(t, total.GrandTotal.IsZero())
	assert.Empty(t, total.Warnings)
}

func TestAggregate_OneTimeAdjustmentYearTag(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	itemRepo := new(MockItemSourceProvider)
	settingsRepo := new(MockSettingsProvider)
	service := newService(itemRepo, settingsRepo)

	year2025 := 2025
	year2024 := 2024

	matching := &domain.AmortizableItem{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Name:        "Adjustment 2025",
		Principal:   decimal.NewFromInt(5_000),
		Source:      domain.SourceManual,
		OneTimeYear: &year2025,
	}
	otherYear := &domain.AmortizableItem{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Name:        "Adjustment 2024",
		Principal:   decimal.NewFromInt(7_000),
		Source:      domain.SourceManual,
		OneTimeYear: &year2024,
	}

	settingsRepo.On("Load", ctx, companyID).Return(domain.DefaultSettings(), nil)
	itemRepo.On("ListTransactionItems", ctx, companyID, 2025, []string(nil)).Return([]*domain.AmortizableItem{}, nil)
	itemRepo.On("ListRegisteredAssets", ctx, companyID, 2025).Return([]*domain.AmortizableItem{}, nil)
	itemRepo.On("ListManualItems", ctx, companyID, 2025).Return([]*domain.AmortizableItem{matching, otherYear}, nil)

	total, err := service.Aggregate(ctx, companyID, 2025)

	require.NoError(t, err)
	assert.Equal(t, 1, total.ItemCount, "adjustments tagged for another year are skipped")
	assert.True(t, total.GrandTotal.Equal(decimal.NewFromInt(5_000)))
}

func TestAggregate_MalformedItemBecomesWarning(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	itemRepo := new(MockItemSourceProvider)
	settingsRepo := new(MockSettingsProvider)
	service := newService(itemRepo, settingsRepo)

	jan2024 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	bad := scheduledItem(domain.SourceManual, 0, jan2024, 20)
	bad.Principal = decimal.NewFromInt(-500)
	good := scheduledItem(domain.SourceManual, 120_000_000, jan2024, 20)

	settingsRepo.On("Load", ctx, companyID).Return(domain.DefaultSettings(), nil)
	itemRepo.On("ListTransactionItems", ctx, companyID, 2025, []string(nil)).Return([]*domain.AmortizableItem{}, nil)
	itemRepo.On("ListRegisteredAssets", ctx, companyID, 2025).Return([]*domain.AmortizableItem{}, nil)
	itemRepo.On("ListManualItems", ctx, companyID, 2025).Return([]*domain.AmortizableItem{bad, good}, nil)

	total, err := service.Aggregate(ctx, companyID, 2025)

	require.NoError(t, err, "one malformed asset must not abort the report")
	assert.Equal(t, 1, total.ItemCount)
	assert.True(t, total.GrandTotal.Equal(decimal.NewFromInt(24_000_000)))
	require.Len(t, total.Warnings, 1)
	assert.Equal(t, bad.ID, total.Warnings[0].ItemID)
}

func TestAggregate_OutOfRangeRateFlagged(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	itemRepo := new(MockItemSourceProvider)
	settingsRepo := new(MockSettingsProvider)
	service := newService(itemRepo, settingsRepo)

	item := scheduledItem(domain.SourceManual, 100, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), 150)

	settingsRepo.On("Load", ctx, companyID).Return(domain.DefaultSettings(), nil)
	itemRepo.On("ListTransactionItems", ctx, companyID, 2024, []string(nil)).Return([]*domain.AmortizableItem{}, nil)
	itemRepo.On("ListRegisteredAssets", ctx, companyID, 2024).Return([]*domain.AmortizableItem{}, nil)
	itemRepo.On("ListManualItems", ctx, companyID, 2024).Return([]*domain.AmortizableItem{item}, nil)

	total, err := service.Aggregate(ctx, companyID, 2024)

	require.NoError(t, err)
	// Still computed (capped at principal), but flagged as data quality
	assert.Equal(t, 1, total.ItemCount)
	assert.True(t, total.GrandTotal.Equal(decimal.NewFromInt(100)))
	require.Len(t, total.Warnings, 1)
}

func TestAggregate_ClassificationKeysPassedThrough(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	itemRepo := new(MockItemSourceProvider)
	settingsRepo := new(MockSettingsProvider)
	service := newService(itemRepo, settingsRepo)

	settings := domain.DefaultSettings()
	settings.UseClassificationBasedSelection = true
	settings.ClassificationKeys = []string{"5314", "asset-purchase"}

	settingsRepo.On("Load", ctx, companyID).Return(settings, nil)
	itemRepo.On("ListTransactionItems", ctx, companyID, 2025, []string{"5314", "asset-purchase"}).Return([]*domain.AmortizableItem{}, nil)
	itemRepo.On("ListRegisteredAssets", ctx, companyID, 2025).Return([]*domain.AmortizableItem{}, nil)
	itemRepo.On("ListManualItems", ctx, companyID, 2025).Return([]*domain.AmortizableItem{}, nil)

	_, err := service.Aggregate(ctx, companyID, 2025)

	require.NoError(t, err)
	itemRepo.AssertExpectations(t)
}
