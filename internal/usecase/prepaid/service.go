package prepaid

import (
	"context"
	"time"

	"github.com/arkatama/pembukuan-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrepaidService exposes prepaid-expense calculations over the contract
// provider. All methods are pure reads; nothing is written back.
type PrepaidService struct {
	ContractRepo domain.PrepaidContractProvider
}

// NewPrepaidService creates a new PrepaidService instance
func NewPrepaidService(contractRepo domain.PrepaidContractProvider) *PrepaidService {
	return &PrepaidService{ContractRepo: contractRepo}
}

// StatusAsOf computes the amortization position of a single contract
func (s *PrepaidService) StatusAsOf(ctx context.Context, itemID uuid.UUID, asOf time.Time) (*domain.PrepaidExpenseItem, Status, error) {
	item, err := s.ContractRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, Status{}, err
	}

	status, err := StatusAsOf(item, asOf)
	if err != nil {
		return nil, Status{}, err
	}

	return item, status, nil
}

// PeriodTotal sums the period expense of every active contract of a
// company over [periodStart, periodEnd]. A malformed contract is
// reported standalone: its error is returned rather than folded into
// the amortization warning set, since prepaid totals are a separate
// report line.
func (s *PrepaidService) PeriodTotal(ctx context.Context, companyID uuid.UUID, periodStart, periodEnd time.Time) (decimal.Decimal, error) {
	items, err := s.ContractRepo.ListActive(ctx, companyID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		expense, err := PeriodExpense(item, periodStart, periodEnd)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(expense)
	}

	return total, nil
}

// RegisterContract applies the gross-up and persists a new prepaid item.
// Called when a rental or lease contract is registered.
func (s *PrepaidService) RegisterContract(ctx context.Context, companyID uuid.UUID, name string, amountNet, taxRate decimal.Decimal, startDate time.Time, durationMonths int) (*domain.PrepaidExpenseItem, error) {
	item, err := domain.NewPrepaidExpenseItem(companyID, name, amountNet, taxRate, startDate, durationMonths)
	if err != nil {
		return nil, err
	}

	if err := s.ContractRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}
