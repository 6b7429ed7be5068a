package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arkatama/pembukuan-backend/internal/domain"
)

// prepaidRepository implements domain.PrepaidContractProvider
type prepaidRepository struct {
	db *DB
}

// NewPrepaidRepository creates a new prepaid contract repository
func NewPrepaidRepository(db *DB) domain.PrepaidContractProvider {
	return &prepaidRepository{db: db}
}

// GetByID retrieves a prepaid item by its ID
func (r *prepaidRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PrepaidExpenseItem, error) {
	query := `
		SELECT id, company_id, description, amount_net, amount_bruto,
		       tax_rate, start_date, duration_months
		FROM prepaid_expenses
		WHERE id = $1
	`

	item, err := scanPrepaid(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("prepaid item not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get prepaid item by ID: %w", err)
	}

	return item, nil
}

// ListActive retrieves all active prepaid items for a company
func (r *prepaidRepository) ListActive(ctx context.Context, companyID uuid.UUID) ([]*domain.PrepaidExpenseItem, error) {
	query := `
		SELECT id, company_id, description, amount_net, amount_bruto,
		       tax_rate, start_date, duration_months
		FROM prepaid_expenses
		WHERE company_id = $1
		AND is_active = TRUE
		ORDER BY start_date
	`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prepaid items: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.PrepaidExpenseItem, 0)
	for rows.Next() {
		item, err := scanPrepaid(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prepaid item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prepaid items: %w", err)
	}

	return items, nil
}

// Create persists a new prepaid item. The gross-up has already been
// applied by the domain constructor; both net and bruto are stored.
func (r *prepaidRepository) Create(ctx context.Context, item *domain.PrepaidExpenseItem) error {
	query := `
		INSERT INTO prepaid_expenses
			(id, company_id, description, amount_net, amount_bruto,
			 tax_rate, start_date, duration_months, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
	`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.CompanyID,
		item.Name,
		item.AmountNet.String(),
		item.AmountBruto.String(),
		item.TaxRate.String(),
		item.StartDate,
		item.DurationMonths,
	)
	if err != nil {
		return fmt.Errorf("failed to create prepaid item: %w", err)
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPrepaid reads one prepaid_expenses row into a domain item
func scanPrepaid(row rowScanner) (*domain.PrepaidExpenseItem, error) {
	var (
		item      domain.PrepaidExpenseItem
		netStr    string
		brutoStr  string
		taxStr    string
		startDate time.Time
	)

	if err := row.Scan(
		&item.ID,
		&item.CompanyID,
		&item.Name,
		&netStr,
		&brutoStr,
		&taxStr,
		&startDate,
		&item.DurationMonths,
	); err != nil {
		return nil, err
	}

	net, err := decimal.NewFromString(netStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount_net: %w", err)
	}
	bruto, err := decimal.NewFromString(brutoStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount_bruto: %w", err)
	}
	taxRate, err := decimal.NewFromString(taxStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tax_rate: %w", err)
	}

	item.AmountNet = net
	item.AmountBruto = bruto
	item.TaxRate = taxRate
	item.StartDate = startDate

	return &item, nil
}
