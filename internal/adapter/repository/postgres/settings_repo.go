package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arkatama/pembukuan-backend/internal/domain"
)

// Setting names as stored in the amortization_settings table
const (
	settingUseClassification = "use_mark_based_amortization"
	settingClassificationKey = "amortization_asset_marks"
	settingDefaultRate       = "default_amortization_rate"
	settingDefaultLife       = "default_asset_useful_life"
	settingAllowPartialYear  = "allow_partial_year"
	settingStrictResolution  = "strict_rate_resolution"
)

// SettingsRepository implements domain.SettingsProvider and
// domain.SettingsWriter over the amortization_settings table
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Load reads the settings rows for a company. Global rows (NULL
// company_id) are read first, then company rows overwrite them, so a
// per-company value always wins over the global default.
func (r *SettingsRepository) Load(ctx context.Context, companyID uuid.UUID) (domain.Settings, error) {
	query := `
		SELECT setting_name, setting_value
		FROM amortization_settings
		WHERE company_id = $1 OR company_id IS NULL
		ORDER BY company_id NULLS FIRST
	`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to load amortization settings: %w", err)
	}
	defer rows.Close()

	settings := domain.DefaultSettings()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return domain.Settings{}, fmt.Errorf("failed to scan setting row: %w", err)
		}

		if err := applySetting(&settings, name, value); err != nil {
			return domain.Settings{}, fmt.Errorf("failed to apply setting %q: %w", name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to iterate setting rows: %w", err)
	}

	return settings, nil
}

// applySetting maps one settings row onto the Settings value object
func applySetting(settings *domain.Settings, name, value string) error {
	switch name {
	case settingUseClassification:
		settings.UseClassificationBasedSelection = strings.EqualFold(value, "true")
	case settingClassificationKey:
		var keys []string
		if err := json.Unmarshal([]byte(value), &keys); err != nil {
			return err
		}
		settings.ClassificationKeys = keys
	case settingDefaultRate:
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return err
		}
		settings.DefaultRate = rate
	case settingDefaultLife:
		life, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		settings.DefaultUsefulLife = life
	case settingAllowPartialYear:
		settings.AllowPartialYear = strings.EqualFold(value, "true")
	case settingStrictResolution:
		settings.StrictRateResolution = strings.EqualFold(value, "true")
	}
	// Unknown names are ignored; the table is shared with other features

	return nil
}

// EnsureDefaults inserts the global default rows when no global row
// exists for the given setting name. Idempotent.
func (r *SettingsRepository) EnsureDefaults(ctx context.Context, defaults domain.Settings) error {
	query := `
		INSERT INTO amortization_settings (id, company_id, setting_name, setting_value)
		SELECT gen_random_uuid(), NULL, $1, $2
		WHERE NOT EXISTS (
			SELECT 1 FROM amortization_settings
			WHERE company_id IS NULL AND setting_name = $1
		)
	`

	rows := []struct {
		name  string
		value string
	}{
		{settingDefaultRate, defaults.DefaultRate.String()},
		{settingDefaultLife, strconv.Itoa(defaults.DefaultUsefulLife)},
		{settingAllowPartialYear, strconv.FormatBool(defaults.AllowPartialYear)},
	}

	for _, row := range rows {
		if _, err := r.db.ExecContext(ctx, query, row.name, row.value); err != nil {
			return fmt.Errorf("failed to seed setting %q: %w", row.name, err)
		}
	}

	return nil
}

var (
	_ domain.SettingsProvider = (*SettingsRepository)(nil)
	_ domain.SettingsWriter   = (*SettingsRepository)(nil)
)
