package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/adisurya/circulation-engine/internal/domain"
	customError "github.com/adisurya/circulation-engine/pkg/errors"
	"github.com/adisurya/circulation-engine/tests/mocks"
)

type inventoryFixture struct {
	svc             *InventoryService
	itemRepo        *mocks.MockItemRepository
	loanRepo        *mocks.MockLoanRepository
	reservationRepo *mocks.MockReservationRepository
}

func newInventoryFixture() *inventoryFixture {
	f := &inventoryFixture{
		itemRepo:        &mocks.MockItemRepository{},
		loanRepo:        &mocks.MockLoanRepository{},
		reservationRepo: &mocks.MockReservationRepository{},
	}

	f.svc = NewInventoryService(f.itemRepo, f.loanRepo, f.reservationRepo, NewItemLockTable())

	return f
}

func TestUpdateInventory_Success(t *testing.T) {
	f := newInventoryFixture()

	item := &domain.Item{ID: "item-1", CopiesOwned: 2, CopiesAvailable: 0}

	f.itemRepo.On("GetByID", mock.Anything, "item-1").Return(item, nil)
	f.loanRepo.On("CountActiveByItemID", mock.Anything, "item-1").Return(2, nil)
	f.itemRepo.On("UpdateCopies", mock.Anything, "item-1", 5, 3).Return(nil)
	f.reservationRepo.On("CountActiveByItemID", mock.Anything, "item-1").Return(1, nil)

	status, err := f.svc.UpdateInventory(context.Background(), "item-1", 5)

	assert.NoError(t, err)
	assert.Equal(t, 5, status.CopiesOwned)
	assert.Equal(t, 3, status.CopiesAvailable)
	assert.Equal(t, 2, status.CopiesOnLoan)
	assert.Equal(t, 1, status.ActiveReservations)
}

func TestUpdateInventory_BelowCopiesOnLoan(t *testing.T) {
	f := newInventoryFixture()

	item := &domain.Item{ID: "item-1", CopiesOwned: 5, CopiesAvailable: 3}

	f.itemRepo.On("GetByID", mock.Anything, "item-1").Return(item, nil)
	f.loanRepo.On("CountActiveByItemID", mock.Anything, "item-1").Return(2, nil)

	_, err := f.svc.UpdateInventory(context.Background(), "item-1", 1)

	assert.ErrorIs(t, err, customError.ErrInvalidInventoryLevel)
	f.itemRepo.AssertNotCalled(t, "UpdateCopies", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateInventory_ItemNotFound(t *testing.T) {
	f := newInventoryFixture()

	f.itemRepo.On("GetByID", mock.Anything, "missing").Return(nil, sql.ErrNoRows)

	_, err := f.svc.UpdateInventory(context.Background(), "missing", 5)

	assert.ErrorIs(t, err, customError.ErrItemNotFound)
}

func TestRecompute_RepairsAvailability(t *testing.T) {
	f := newInventoryFixture()

	// Stored availability drifted from the derived value
	item := &domain.Item{ID: "item-1", CopiesOwned: 4, CopiesAvailable: 4}

	f.itemRepo.On("GetByID", mock.Anything, "item-1").Return(item, nil)
	f.loanRepo.On("CountActiveByItemID", mock.Anything, "item-1").Return(3, nil)
	f.itemRepo.On("UpdateCopies", mock.Anything, "item-1", 4, 1).Return(nil)
	f.reservationRepo.On("CountActiveByItemID", mock.Anything, "item-1").Return(0, nil)

	status, err := f.svc.Recompute(context.Background(), "item-1")

	assert.NoError(t, err)
	assert.Equal(t, 1, status.CopiesAvailable)
	assert.Equal(t, status.CopiesOwned-status.CopiesOnLoan, status.CopiesAvailable)
}
