package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/adisurya/circulation-engine/internal/domain"
	customError "github.com/adisurya/circulation-engine/pkg/errors"
	"github.com/adisurya/circulation-engine/tests/mocks"
)

type fineFixture struct {
	svc      *FineService
	fineRepo *mocks.MockFineRepository
}

func newFineFixture() *fineFixture {
	f := &fineFixture{
		fineRepo: &mocks.MockFineRepository{},
	}

	f.svc = NewFineService(f.fineRepo, decimal.RequireFromString("0.50"))
	f.svc.now = func() time.Time { return testNow }

	return f
}

func TestAssess_TenDaysLate(t *testing.T) {
	f := newFineFixture()

	returnDate := testToday()
	dueDate := returnDate.AddDate(0, 0, -10)
	loan := &domain.Loan{ID: uuid.New(), ItemID: "item-1", UserID: 42, DueDate: dueDate, ReturnDate: &returnDate}

	fine := f.svc.Assess(loan)

	assert.NotNil(t, fine)
	assert.Equal(t, loan.ID, fine.LoanID)
	// 10 days at 0.50/day, exact decimal arithmetic
	assert.True(t, fine.Amount.Equal(decimal.RequireFromString("5.00")), "expected 5.00, got %s", fine.Amount)
	assert.Contains(t, fine.Reason, "10 days late")
	assert.Nil(t, fine.DatePaid)
}

func TestAssess_OnTimeReturnsNoFine(t *testing.T) {
	f := newFineFixture()

	returnDate := testToday()
	loan := &domain.Loan{ID: uuid.New(), ItemID: "item-1", UserID: 42, DueDate: returnDate, ReturnDate: &returnDate}

	assert.Nil(t, f.svc.Assess(loan))
}

func TestAssess_UsesRenewalDueDate(t *testing.T) {
	f := newFineFixture()

	returnDate := testToday()
	originalDue := returnDate.AddDate(0, 0, -20)
	renewedDue := returnDate.AddDate(0, 0, -4)
	loan := &domain.Loan{
		ID:             uuid.New(),
		ItemID:         "item-1",
		UserID:         42,
		DueDate:        originalDue,
		RenewalDueDate: &renewedDue,
		RenewalCount:   1,
		ReturnDate:     &returnDate,
	}

	fine := f.svc.Assess(loan)

	assert.NotNil(t, fine)
	// 4 days past the renewal due date, not 20 past the original
	assert.True(t, fine.Amount.Equal(decimal.RequireFromString("2.00")), "expected 2.00, got %s", fine.Amount)
}

func TestPay_Success(t *testing.T) {
	f := newFineFixture()

	fine := &domain.Fine{ID: uuid.New(), LoanID: uuid.New(), Amount: decimal.RequireFromString("5.00")}

	f.fineRepo.On("GetByID", mock.Anything, fine.ID).Return(fine, nil)
	f.fineRepo.On("Update", mock.Anything, mock.MatchedBy(func(updated *domain.Fine) bool {
		return updated.ID == fine.ID && updated.DatePaid != nil
	})).Return(nil)

	paid, err := f.svc.Pay(context.Background(), fine.ID)

	assert.NoError(t, err)
	assert.NotNil(t, paid.DatePaid)
	assert.Equal(t, testToday(), *paid.DatePaid)
}

func TestPay_AlreadyPaid(t *testing.T) {
	f := newFineFixture()

	paidAt := testToday().AddDate(0, 0, -1)
	fine := &domain.Fine{ID: uuid.New(), LoanID: uuid.New(), Amount: decimal.RequireFromString("5.00"), DatePaid: &paidAt}

	f.fineRepo.On("GetByID", mock.Anything, fine.ID).Return(fine, nil)

	_, err := f.svc.Pay(context.Background(), fine.ID)

	assert.ErrorIs(t, err, customError.ErrFineAlreadyPaid)
	f.fineRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPay_NotFound(t *testing.T) {
	f := newFineFixture()

	id := uuid.New()
	f.fineRepo.On("GetByID", mock.Anything, id).Return(nil, sql.ErrNoRows)

	_, err := f.svc.Pay(context.Background(), id)

	assert.ErrorIs(t, err, customError.ErrFineNotFound)
}
