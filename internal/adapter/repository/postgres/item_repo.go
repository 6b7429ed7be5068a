package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/arkatama/pembukuan-backend/internal/domain"
)

// itemRepository implements domain.ItemSourceProvider
type itemRepository struct {
	db *DB
}

// NewItemRepository creates a new amortizable item repository
func NewItemRepository(db *DB) domain.ItemSourceProvider {
	return &itemRepository{db: db}
}

// ListTransactionItems retrieves amortizable items derived from ledger
// transactions. With classification keys the selection routes through the
// mark -> chart-of-accounts mapping; without keys it falls back to the
// flat amortizable flag on the transaction.
func (r *itemRepository) ListTransactionItems(ctx context.Context, companyID uuid.UUID, asOfYear int, classificationKeys []string) ([]*domain.AmortizableItem, error) {
	query := `
		SELECT DISTINCT
			t.id, t.company_id, t.description, t.amount,
			COALESCE(t.amortization_start_date, t.txn_date) AS start_date,
			t.use_half_rate,
			t.override_rate_percent, t.override_useful_life,
			mcm.rate_percent AS mapped_rate, mcm.useful_life_years AS mapped_life,
			ag.tarif_rate AS group_rate, ag.useful_life_years AS group_life
		FROM transactions t
		LEFT JOIN mark_coa_mapping mcm ON t.mark_id = mcm.mark_id
		LEFT JOIN chart_of_accounts coa ON mcm.coa_id = coa.id
		LEFT JOIN amortization_asset_groups ag ON t.amortization_asset_group_id = ag.id
		WHERE t.company_id = $1
		AND EXTRACT(YEAR FROM COALESCE(t.amortization_start_date, t.txn_date)) <= $2
		AND (
			(cardinality($3::text[]) > 0 AND coa.code = ANY($3))
			OR (cardinality($3::text[]) = 0 AND t.is_amortizable = TRUE)
		)
		ORDER BY start_date
	`

	rows, err := r.db.QueryContext(ctx, query, companyID, asOfYear, pq.Array(classificationKeys))
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction items: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.AmortizableItem, 0)
	for rows.Next() {
		var (
			item         domain.AmortizableItem
			amountStr    string
			startDate    time.Time
			overrideRate sql.NullString
			overrideLife sql.NullInt64
			mappedRate   sql.NullString
			mappedLife   sql.NullInt64
			groupRate    sql.NullString
			groupLife    sql.NullInt64
		)

		if err := rows.Scan(
			&item.ID,
			&item.CompanyID,
			&item.Name,
			&amountStr,
			&startDate,
			&item.HalfRate,
			&overrideRate,
			&overrideLife,
			&mappedRate,
			&mappedLife,
			&groupRate,
			&groupLife,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction item: %w", err)
		}

		principal, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction amount: %w", err)
		}
		item.Principal = principal
		item.AcquisitionDate = startDate
		item.Source = domain.SourceTransaction

		if item.OverrideRatePercent, err = nullableDecimal(overrideRate); err != nil {
			return nil, fmt.Errorf("failed to parse override rate: %w", err)
		}
		if item.MappedRatePercent, err = nullableDecimal(mappedRate); err != nil {
			return nil, fmt.Errorf("failed to parse mapped rate: %w", err)
		}
		if item.GroupRatePercent, err = nullableDecimal(groupRate); err != nil {
			return nil, fmt.Errorf("failed to parse group rate: %w", err)
		}
		item.OverrideUsefulLife = nullableInt(overrideLife)
		item.MappedUsefulLife = nullableInt(mappedLife)
		item.GroupUsefulLife = nullableInt(groupLife)

		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction items: %w", err)
	}

	return items, nil
}

// ListRegisteredAssets retrieves items from the asset register, joined
// to their asset group for rate and useful life
func (r *itemRepository) ListRegisteredAssets(ctx context.Context, companyID uuid.UUID, asOfYear int) ([]*domain.AmortizableItem, error) {
	query := `
		SELECT
			a.id, a.company_id, a.asset_name, a.acquisition_cost,
			COALESCE(a.amortization_start_date, a.acquisition_date) AS start_date,
			a.use_half_rate, a.useful_life_years,
			ag.tarif_rate AS group_rate, ag.useful_life_years AS group_life
		FROM amortization_assets a
		LEFT JOIN amortization_asset_groups ag ON a.asset_group_id = ag.id
		WHERE a.company_id = $1
		AND a.is_active = TRUE
		AND EXTRACT(YEAR FROM COALESCE(a.amortization_start_date, a.acquisition_date)) <= $2
		ORDER BY start_date
	`

	rows, err := r.db.QueryContext(ctx, query, companyID, asOfYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered assets: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.AmortizableItem, 0)
	for rows.Next() {
		var (
			item       domain.AmortizableItem
			costStr    string
			startDate  time.Time
			usefulLife sql.NullInt64
			groupRate  sql.NullString
			groupLife  sql.NullInt64
		)

		if err := rows.Scan(
			&item.ID,
			&item.CompanyID,
			&item.Name,
			&costStr,
			&startDate,
			&item.HalfRate,
			&usefulLife,
			&groupRate,
			&groupLife,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registered asset: %w", err)
		}

		principal, err := decimal.NewFromString(costStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse acquisition cost: %w", err)
		}
		item.Principal = principal
		item.AcquisitionDate = startDate
		item.Source = domain.SourceAssetGroupMapped

		if item.GroupRatePercent, err = nullableDecimal(groupRate); err != nil {
			return nil, fmt.Errorf("failed to parse group rate: %w", err)
		}
		item.GroupUsefulLife = nullableInt(groupLife)
		if usefulLife.Valid {
			item.UsefulLifeYears = int(usefulLife.Int64)
		}

		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate registered assets: %w", err)
	}

	return items, nil
}

// ListManualItems retrieves manually entered items. Rows without an
// asset group are one-time adjustments for their tagged year.
func (r *itemRepository) ListManualItems(ctx context.Context, companyID uuid.UUID, year int) ([]*domain.AmortizableItem, error) {
	query := `
		SELECT
			ai.id, ai.company_id, ai.description, ai.amount,
			ai.amortization_date, ai.year, ai.use_half_rate,
			ai.asset_group_id,
			ag.tarif_rate AS group_rate, ag.useful_life_years AS group_life
		FROM amortization_items ai
		LEFT JOIN amortization_asset_groups ag ON ai.asset_group_id = ag.id
		WHERE ai.company_id = $1
		AND (ai.asset_group_id IS NOT NULL OR ai.year = $2)
		ORDER BY ai.amortization_date
	`

	rows, err := r.db.QueryContext(ctx, query, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list manual items: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.AmortizableItem, 0)
	for rows.Next() {
		var (
			item      domain.AmortizableItem
			amountStr string
			itemDate  sql.NullTime
			itemYear  sql.NullInt64
			groupID   sql.NullString
			groupRate sql.NullString
			groupLife sql.NullInt64
		)

		if err := rows.Scan(
			&item.ID,
			&item.CompanyID,
			&item.Name,
			&amountStr,
			&itemDate,
			&itemYear,
			&item.HalfRate,
			&groupID,
			&groupRate,
			&groupLife,
		); err != nil {
			return nil, fmt.Errorf("failed to scan manual item: %w", err)
		}

		principal, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse manual item amount: %w", err)
		}
		item.Principal = principal
		item.Source = domain.SourceManual

		if itemDate.Valid {
			item.AcquisitionDate = itemDate.Time
		}

		// No asset group means a flat single-year adjustment
		if !groupID.Valid {
			item.OneTimeYear = nullableInt(itemYear)
		}

		if item.GroupRatePercent, err = nullableDecimal(groupRate); err != nil {
			return nil, fmt.Errorf("failed to parse group rate: %w", err)
		}
		item.GroupUsefulLife = nullableInt(groupLife)

		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate manual items: %w", err)
	}

	return items, nil
}

// nullableDecimal parses a nullable DECIMAL column into an optional decimal
func nullableDecimal(v sql.NullString) (*decimal.Decimal, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// nullableInt converts a nullable INTEGER column into an optional int
func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
