package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/adisurya/circulation-engine/internal/domain"
	"github.com/adisurya/circulation-engine/internal/repository"
	customError "github.com/adisurya/circulation-engine/pkg/errors"
	"github.com/adisurya/circulation-engine/pkg/utils"
)

// CirculationService orchestrates the lending lifecycle: checkout, return
// and renewal. It is the only writer of loan and inventory state, and every
// mutation of an item's copy counts happens under that item's lock together
// with the loan or reservation change that caused it.
type CirculationService struct {
	itemRepo     repository.ItemRepository
	userRepo     repository.UserRepository
	loanRepo     repository.LoanRepository
	policies     *PolicyCatalog
	reservations *ReservationService
	fines        *FineService
	locks        *ItemLockTable
	now          func() time.Time
}

func NewCirculationService(
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	loanRepo repository.LoanRepository,
	policies *PolicyCatalog,
	reservations *ReservationService,
	fines *FineService,
	locks *ItemLockTable,
) *CirculationService {
	return &CirculationService{
		itemRepo:     itemRepo,
		userRepo:     userRepo,
		loanRepo:     loanRepo,
		policies:     policies,
		reservations: reservations,
		fines:        fines,
		locks:        locks,
		now:          time.Now,
	}
}

// Checkout lends one copy of an item to a user. When no copy is free the
// caller is expected to reserve instead.
func (s *CirculationService) Checkout(ctx context.Context, itemID string, userID int64) (*domain.Loan, error) {
	unlock := s.locks.Lock(itemID)
	defer unlock()

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapItemNotFound(itemID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapUserNotFound(userID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	policy, err := s.policies.Lookup(ctx, item.PolicyType)
	if err != nil {
		return nil, err
	}

	if item.CopiesAvailable <= 0 {
		return nil, customError.WrapNoCopiesAvailable(itemID)
	}

	now := s.now()
	today := utils.TruncateToDay(now)

	loan := &domain.Loan{
		ID:           uuid.New(),
		ItemID:       item.ID,
		UserID:       user.ID,
		PolicyID:     policy.ID,
		LoanDate:     today,
		DueDate:      utils.AddDays(today, policy.LoanPeriodDays),
		RenewalCount: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if err := s.recomputeAvailable(ctx, item); err != nil {
		return nil, err
	}

	return loan, nil
}

// Return closes a loan and puts the copy back into circulation. The closed
// loan, the freed copy, the overdue fine if one is due, and the queue
// advancement commit as one transaction; the hold notification fires only
// after the commit.
func (s *CirculationService) Return(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	unlock := s.locks.Lock(loan.ItemID)
	defer unlock()

	// Re-read under the lock; a concurrent return may have won
	loan, err = s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if loan.IsReturned() {
		return nil, customError.WrapAlreadyReturned(loanID.String())
	}

	item, err := s.itemRepo.GetByID(ctx, loan.ItemID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	today := utils.TruncateToDay(s.now())
	loan.ReturnDate = &today

	fine := s.fines.Assess(loan)

	// The return frees a copy, so the head of the queue can always take it
	next, err := s.reservations.NextInLine(ctx, loan.ItemID)
	if err != nil {
		return nil, err
	}
	if next != nil {
		next.Status = domain.ReservationStatusFulfilled
	}

	if err := s.loanRepo.CompleteReturn(ctx, loan, item, fine, next); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if next != nil {
		s.reservations.NotifyHold(ctx, item, next)
	}

	return loan, nil
}

// Renew pushes the due date of an open loan to today plus the policy's loan
// period. Validation order is fixed: renewal cap, grace window, overdue,
// pending reservations, borrower standing; the first failure wins.
func (s *CirculationService) Renew(ctx context.Context, loanID uuid.UUID, reason string) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	unlock := s.locks.Lock(loan.ItemID)
	defer unlock()

	loan, err = s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	item, err := s.itemRepo.GetByID(ctx, loan.ItemID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	policy, err := s.policies.Lookup(ctx, item.PolicyType)
	if err != nil {
		return nil, err
	}

	now := s.now()

	if loan.IsReturned() {
		return nil, customError.WrapAlreadyReturned(loanID.String())
	}

	if loan.RenewalCount >= policy.MaxRenewals {
		return nil, customError.WrapMaxRenewalsReached(loanID.String(), policy.MaxRenewals)
	}

	if !now.Before(utils.AddDays(loan.EffectiveDueDate(), policy.GracePeriodDays)) {
		return nil, customError.WrapRenewalWindowExpired(loanID.String())
	}

	if loan.IsOverdue(now) {
		return nil, customError.WrapLoanOverdue(loanID.String())
	}

	hasActive, err := s.reservations.HasActive(ctx, loan.ItemID)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, customError.WrapActiveReservationExists(loan.ItemID)
	}

	user, err := s.userRepo.GetByID(ctx, loan.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapUserNotFound(loan.UserID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	if !user.IsActive() {
		return nil, customError.WrapUserNotActive(user.ID)
	}

	previousDueDate := loan.EffectiveDueDate()
	newDueDate := utils.AddDays(utils.TruncateToDay(now), policy.LoanPeriodDays)

	loan.RenewalCount++
	loan.RenewalDueDate = &newDueDate
	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	loan.RenewalReason = reasonPtr

	renewal := &domain.LoanRenewal{
		ID:              uuid.New(),
		LoanID:          loan.ID,
		RenewalDate:     now,
		PreviousDueDate: previousDueDate,
		NewDueDate:      newDueDate,
		Reason:          reasonPtr,
		CreatedBy:       user.ID,
		CreatedAt:       now,
	}

	if err := s.loanRepo.ApplyRenewal(ctx, loan, renewal); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return loan, nil
}

// RenewalHistory returns a loan's renewal audit records, newest first
func (s *CirculationService) RenewalHistory(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanRenewal, error) {
	if _, err := s.loanRepo.GetByID(ctx, loanID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	renewals, err := s.loanRepo.GetRenewalsByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return renewals, nil
}

// GetByUser returns a user's loans, newest first
func (s *CirculationService) GetByUser(ctx context.Context, userID int64) ([]*domain.Loan, error) {
	loans, err := s.loanRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loans, nil
}

// recomputeAvailable derives copies_available from copies_owned minus open
// loans and persists it. Runs with the item lock held.
func (s *CirculationService) recomputeAvailable(ctx context.Context, item *domain.Item) error {
	activeLoans, err := s.loanRepo.CountActiveByItemID(ctx, item.ID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	item.CopiesAvailable = item.CopiesOwned - activeLoans
	if err := s.itemRepo.UpdateCopies(ctx, item.ID, item.CopiesOwned, item.CopiesAvailable); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}
