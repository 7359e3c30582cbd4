package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adisurya/circulation-engine/internal/domain"
	"github.com/adisurya/circulation-engine/internal/repository"
	customError "github.com/adisurya/circulation-engine/pkg/errors"
	"github.com/adisurya/circulation-engine/pkg/utils"
)

// FineService computes overdue fines and tracks payment
type FineService struct {
	fineRepo   repository.FineRepository
	ratePerDay decimal.Decimal
	now        func() time.Time
}

func NewFineService(
	fineRepo repository.FineRepository,
	ratePerDay decimal.Decimal,
) *FineService {
	return &FineService{
		fineRepo:   fineRepo,
		ratePerDay: ratePerDay,
		now:        time.Now,
	}
}

// Assess builds the overdue fine for a returned loan, charging for the days
// past its effective due date. Returns nil when the loan came back on time.
// The caller persists the fine together with the rest of the return, so a
// returned loan can never be observed without its fine.
func (s *FineService) Assess(loan *domain.Loan) *domain.Fine {
	returnDate := utils.TruncateToDay(s.now())
	if loan.ReturnDate != nil {
		returnDate = *loan.ReturnDate
	}

	daysOverdue := utils.DaysBetween(loan.EffectiveDueDate(), returnDate)
	if daysOverdue <= 0 {
		return nil
	}

	now := s.now()
	return &domain.Fine{
		ID:         uuid.New(),
		LoanID:     loan.ID,
		Amount:     utils.CalculateFineAmount(s.ratePerDay, daysOverdue),
		Reason:     fmt.Sprintf("Overdue item - %d days late", daysOverdue),
		DateIssued: utils.TruncateToDay(now),
		CreatedAt:  now,
	}
}

// Pay settles a fine. Paying an already-paid fine is an error, not a no-op.
func (s *FineService) Pay(ctx context.Context, fineID uuid.UUID) (*domain.Fine, error) {
	fine, err := s.fineRepo.GetByID(ctx, fineID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapFineNotFound(fineID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if fine.IsPaid() {
		return nil, customError.WrapFineAlreadyPaid(fineID.String())
	}

	paid := utils.TruncateToDay(s.now())
	fine.DatePaid = &paid

	if err := s.fineRepo.Update(ctx, fine); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return fine, nil
}

// GetByLoan returns the fines attached to a loan
func (s *FineService) GetByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Fine, error) {
	fines, err := s.fineRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return fines, nil
}
