package seeder

import (
	"context"

	"github.com/arkatama/pembukuan-backend/internal/domain"
)

// SettingsSeeder ensures the global default amortization settings exist
// at startup: 20% straight-line rate, 5-year useful life, partial-year
// proration enabled. Per-company rows override these at load time; the
// seeder never touches company rows.
type SettingsSeeder struct {
	writer domain.SettingsWriter
}

// NewSettingsSeeder creates a new SettingsSeeder instance
func NewSettingsSeeder(writer domain.SettingsWriter) *SettingsSeeder {
	return &SettingsSeeder{
		writer: writer,
	}
}

// Seed inserts the global defaults when missing. Idempotent: existing
// rows are left untouched.
func (s *SettingsSeeder) Seed(ctx context.Context) error {
	return s.writer.EnsureDefaults(ctx, domain.DefaultSettings())
}
