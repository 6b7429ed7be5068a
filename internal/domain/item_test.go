package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItem() *AmortizableItem {
	rate := decimal.NewFromInt(20)
	return &AmortizableItem{
		ID:               uuid.New(),
		CompanyID:        uuid.New(),
		Name:             "Delivery Van",
		Principal:        decimal.NewFromInt(240_000_000),
		AcquisitionDate:  time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC),
		Source:           SourceTransaction,
		GroupRatePercent: &rate,
	}
}

func TestAmortizableItem_Validate(t *testing.T) {
	item := validItem()
	assert.NoError(t, item.Validate())
}

func TestAmortizableItem_Validate_NegativePrincipal(t *testing.T) {
	item := validItem()
	item.Principal = decimal.NewFromInt(-1)

	err := item.Validate()

	require.Error(t, err)
	var itemErr *InvalidItemError
	assert.ErrorAs(t, err, &itemErr)
	assert.Equal(t, item.ID, itemErr.ItemID)
}

func TestAmortizableItem_Validate_MissingAcquisitionDate(t *testing.T) {
	item := validItem()
	item.AcquisitionDate = time.Time{}

	assert.Error(t, item.Validate())

	// One-time adjustments don't carry a schedule, so no date is needed
	year := 2025
	item.OneTimeYear = &year
	assert.NoError(t, item.Validate())
}

func TestAmortizableItem_Validate_UnknownSource(t *testing.T) {
	item := validItem()
	item.Source = ItemSource("LEDGER")

	assert.Error(t, item.Validate())
}

func TestEffectiveRate_PrecedenceChain(t *testing.T) {
	settings := DefaultSettings()

	override := decimal.NewFromInt(50)
	mapped := decimal.NewFromInt(25)
	group := decimal.NewFromInt(10)

	item := validItem()
	item.GroupRatePercent = nil

	// No tier set: system default
	rate, err := item.EffectiveRate(settings)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(20)))

	// Group default
	item.GroupRatePercent = &group
	rate, err = item.EffectiveRate(settings)
	require.NoError(t, err)
	assert.True(t, rate.Equal(group))

	// Mark mapping beats group default
	item.MappedRatePercent = &mapped
	rate, err = item.EffectiveRate(settings)
	require.NoError(t, err)
	assert.True(t, rate.Equal(mapped))

	// Transaction override beats everything
	item.OverrideRatePercent = &override
	rate, err = item.EffectiveRate(settings)
	require.NoError(t, err)
	assert.True(t, rate.Equal(override))
}

func TestEffectiveRate_StrictMode(t *testing.T) {
	settings := DefaultSettings()
	settings.StrictRateResolution = true

	override := decimal.NewFromInt(50)
	mapped := decimal.NewFromInt(25)

	item := validItem()
	item.OverrideRatePercent = &override
	item.MappedRatePercent = &mapped

	_, err := item.EffectiveRate(settings)
	require.Error(t, err)
	var ambiguous *AmbiguousOverrideError
	assert.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, item.ID, ambiguous.ItemID)

	// Agreeing values are not ambiguous
	same := decimal.NewFromInt(50)
	item.MappedRatePercent = &same
	rate, err := item.EffectiveRate(settings)
	require.NoError(t, err)
	assert.True(t, rate.Equal(override))
}

func TestEffectiveUsefulLife_PrecedenceChain(t *testing.T) {
	settings := DefaultSettings()
	item := validItem()

	assert.Equal(t, 5, item.EffectiveUsefulLife(settings), "system default is 5 years")

	group := 8
	item.GroupUsefulLife = &group
	assert.Equal(t, 8, item.EffectiveUsefulLife(settings))

	override := 4
	item.OverrideUsefulLife = &override
	assert.Equal(t, 4, item.EffectiveUsefulLife(settings))
}

func TestPrepaidExpenseItem_EndDate(t *testing.T) {
	item, err := NewPrepaidExpenseItem(
		uuid.New(), "Rent",
		decimal.NewFromInt(24_000), decimal.Zero,
		time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC), 24,
	)
	require.NoError(t, err)

	// 24 months starting Aug 2025 runs through Jul 2027
	assert.Equal(t, time.Date(2027, time.July, 31, 0, 0, 0, 0, time.UTC), item.EndDate())
}

func TestPrepaidExpenseItem_GrossUpSkippedWithoutTax(t *testing.T) {
	item, err := NewPrepaidExpenseItem(
		uuid.New(), "Rent",
		decimal.NewFromInt(24_000), decimal.Zero,
		time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC), 24,
	)
	require.NoError(t, err)

	assert.True(t, item.AmountBruto.Equal(item.AmountNet), "no withholding means bruto equals net")
}
