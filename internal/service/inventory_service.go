package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adisurya/circulation-engine/internal/domain"
	"github.com/adisurya/circulation-engine/internal/repository"
	customError "github.com/adisurya/circulation-engine/pkg/errors"
)

// InventoryService administers owned-copy counts. Copies in circulation put
// a floor under copies_owned: the count can never drop below the number of
// open loans.
type InventoryService struct {
	itemRepo        repository.ItemRepository
	loanRepo        repository.LoanRepository
	reservationRepo repository.ReservationRepository
	locks           *ItemLockTable
}

func NewInventoryService(
	itemRepo repository.ItemRepository,
	loanRepo repository.LoanRepository,
	reservationRepo repository.ReservationRepository,
	locks *ItemLockTable,
) *InventoryService {
	return &InventoryService{
		itemRepo:        itemRepo,
		loanRepo:        loanRepo,
		reservationRepo: reservationRepo,
		locks:           locks,
	}
}

// UpdateInventory sets a new owned-copy count and recomputes availability
func (s *InventoryService) UpdateInventory(ctx context.Context, itemID string, newCopiesOwned int) (*domain.InventoryStatus, error) {
	unlock := s.locks.Lock(itemID)
	defer unlock()

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapItemNotFound(itemID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	onLoan, err := s.loanRepo.CountActiveByItemID(ctx, itemID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if newCopiesOwned < onLoan {
		return nil, customError.WrapInvalidInventoryLevel(itemID, onLoan)
	}

	newCopiesAvailable := newCopiesOwned - onLoan

	if err := s.itemRepo.UpdateCopies(ctx, itemID, newCopiesOwned, newCopiesAvailable); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	item.CopiesOwned = newCopiesOwned
	item.CopiesAvailable = newCopiesAvailable

	return s.statusFor(ctx, item, onLoan)
}

// Status reports the current copy accounting for an item
func (s *InventoryService) Status(ctx context.Context, itemID string) (*domain.InventoryStatus, error) {
	unlock := s.locks.Lock(itemID)
	defer unlock()

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapItemNotFound(itemID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	onLoan, err := s.loanRepo.CountActiveByItemID(ctx, itemID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return s.statusFor(ctx, item, onLoan)
}

// Recompute repairs copies_available from copies_owned minus open loans
func (s *InventoryService) Recompute(ctx context.Context, itemID string) (*domain.InventoryStatus, error) {
	unlock := s.locks.Lock(itemID)
	defer unlock()

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapItemNotFound(itemID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	onLoan, err := s.loanRepo.CountActiveByItemID(ctx, itemID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	item.CopiesAvailable = item.CopiesOwned - onLoan
	if err := s.itemRepo.UpdateCopies(ctx, itemID, item.CopiesOwned, item.CopiesAvailable); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return s.statusFor(ctx, item, onLoan)
}

func (s *InventoryService) statusFor(ctx context.Context, item *domain.Item, onLoan int) (*domain.InventoryStatus, error) {
	activeReservations, err := s.reservationRepo.CountActiveByItemID(ctx, item.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.InventoryStatus{
		ItemID:             item.ID,
		CopiesOwned:        item.CopiesOwned,
		CopiesAvailable:    item.CopiesAvailable,
		CopiesOnLoan:       onLoan,
		ActiveReservations: activeReservations,
	}, nil
}
