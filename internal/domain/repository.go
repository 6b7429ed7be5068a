package domain

import (
	"context"

	"github.com/google/uuid"
)

// ItemSourceProvider yields amortizable items for a company, per source.
// The engine never writes items back; each report run works on the
// snapshot these methods return.
type ItemSourceProvider interface {
	// ListTransactionItems retrieves items derived from ledger
	// transactions acquired in or before asOfYear. When
	// classificationKeys is non-empty, transactions are selected by
	// mark/classification routing; otherwise by the flat amortizable flag.
	ListTransactionItems(ctx context.Context, companyID uuid.UUID, asOfYear int, classificationKeys []string) ([]*AmortizableItem, error)

	// ListRegisteredAssets retrieves items from the asset register,
	// joined to their asset group for rate and useful life
	ListRegisteredAssets(ctx context.Context, companyID uuid.UUID, asOfYear int) ([]*AmortizableItem, error)

	// ListManualItems retrieves manually entered items, including
	// one-time adjustments tagged to a single year
	ListManualItems(ctx context.Context, companyID uuid.UUID, year int) ([]*AmortizableItem, error)
}

// SettingsProvider loads the amortization settings for a company,
// with per-company rows overriding global defaults
type SettingsProvider interface {
	Load(ctx context.Context, companyID uuid.UUID) (Settings, error)
}

// PrepaidContractProvider yields prepaid expense contracts
type PrepaidContractProvider interface {
	// GetByID retrieves a single prepaid item by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*PrepaidExpenseItem, error)

	// ListActive retrieves all active prepaid items for a company
	ListActive(ctx context.Context, companyID uuid.UUID) ([]*PrepaidExpenseItem, error)

	// Create persists a new prepaid item (used when a rental contract
	// is registered)
	Create(ctx context.Context, item *PrepaidExpenseItem) error
}

// SettingsWriter persists amortization settings rows. Used by the
// startup seeder to ensure the global defaults exist.
type SettingsWriter interface {
	// EnsureDefaults inserts the global default settings rows when no
	// global row exists yet. Idempotent.
	EnsureDefaults(ctx context.Context, defaults Settings) error
}
