package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/adisurya/circulation-engine/internal/domain"
	"github.com/adisurya/circulation-engine/tests/mocks"
)

type reminderFixture struct {
	svc        *ReminderService
	loanRepo   *mocks.MockLoanRepository
	itemRepo   *mocks.MockItemRepository
	userRepo   *mocks.MockUserRepository
	policyRepo *mocks.MockPolicyRepository
}

func newReminderFixture() *reminderFixture {
	f := &reminderFixture{
		loanRepo:   &mocks.MockLoanRepository{},
		itemRepo:   &mocks.MockItemRepository{},
		userRepo:   &mocks.MockUserRepository{},
		policyRepo: &mocks.MockPolicyRepository{},
	}

	catalog := NewPolicyCatalog(f.policyRepo, nil, time.Hour)
	f.svc = NewReminderService(f.loanRepo, f.itemRepo, f.userRepo, catalog)
	f.svc.now = func() time.Time { return testNow }

	return f
}

func reminderPolicy() *domain.LoanPolicy {
	p := bookPolicy()
	p.ReminderDays = pq.Int64Array{3, 1}
	return p
}

func TestSendDueDateReminders_MatchesReminderOffset(t *testing.T) {
	f := newReminderFixture()

	dueInThree := &domain.Loan{ID: uuid.New(), ItemID: "item-1", UserID: 42, DueDate: testToday().AddDate(0, 0, 3)}
	dueInFive := &domain.Loan{ID: uuid.New(), ItemID: "item-1", UserID: 42, DueDate: testToday().AddDate(0, 0, 5)}

	f.loanRepo.On("GetActive", mock.Anything).Return([]*domain.Loan{dueInThree, dueInFive}, nil)
	f.itemRepo.On("GetByID", mock.Anything, "item-1").Return(&domain.Item{ID: "item-1", Title: "Dune", PolicyType: "BOOK"}, nil)
	f.policyRepo.On("GetByItemType", mock.Anything, "BOOK").Return(reminderPolicy(), nil)
	f.userRepo.On("GetByID", mock.Anything, int64(42)).Return(activeUser(), nil)
	f.loanRepo.On("UpdateLastReminderSent", mock.Anything, dueInThree.ID, testNow).Return(nil)

	sent, err := f.svc.SendDueDateReminders(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	f.loanRepo.AssertNotCalled(t, "UpdateLastReminderSent", mock.Anything, dueInFive.ID, mock.Anything)
}

func TestSendDueDateReminders_UsesRenewalDueDate(t *testing.T) {
	f := newReminderFixture()

	renewedDue := testToday().AddDate(0, 0, 1)
	loan := &domain.Loan{
		ID:             uuid.New(),
		ItemID:         "item-1",
		UserID:         42,
		DueDate:        testToday().AddDate(0, 0, -10),
		RenewalDueDate: &renewedDue,
		RenewalCount:   1,
	}

	f.loanRepo.On("GetActive", mock.Anything).Return([]*domain.Loan{loan}, nil)
	f.itemRepo.On("GetByID", mock.Anything, "item-1").Return(&domain.Item{ID: "item-1", Title: "Dune", PolicyType: "BOOK"}, nil)
	f.policyRepo.On("GetByItemType", mock.Anything, "BOOK").Return(reminderPolicy(), nil)
	f.userRepo.On("GetByID", mock.Anything, int64(42)).Return(activeUser(), nil)
	f.loanRepo.On("UpdateLastReminderSent", mock.Anything, loan.ID, testNow).Return(nil)

	sent, err := f.svc.SendDueDateReminders(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestSendDueDateReminders_OncePerDay(t *testing.T) {
	f := newReminderFixture()

	alreadySent := testNow.Add(-2 * time.Hour)
	loan := &domain.Loan{
		ID:               uuid.New(),
		ItemID:           "item-1",
		UserID:           42,
		DueDate:          testToday().AddDate(0, 0, 3),
		LastReminderSent: &alreadySent,
	}

	f.loanRepo.On("GetActive", mock.Anything).Return([]*domain.Loan{loan}, nil)
	f.itemRepo.On("GetByID", mock.Anything, "item-1").Return(&domain.Item{ID: "item-1", PolicyType: "BOOK"}, nil)
	f.policyRepo.On("GetByItemType", mock.Anything, "BOOK").Return(reminderPolicy(), nil)

	sent, err := f.svc.SendDueDateReminders(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, sent)
	f.loanRepo.AssertNotCalled(t, "UpdateLastReminderSent", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendDueDateReminders_YesterdaysReminderDoesNotBlock(t *testing.T) {
	f := newReminderFixture()

	yesterday := testNow.AddDate(0, 0, -1)
	loan := &domain.Loan{
		ID:               uuid.New(),
		ItemID:           "item-1",
		UserID:           42,
		DueDate:          testToday().AddDate(0, 0, 1),
		LastReminderSent: &yesterday,
	}

	f.loanRepo.On("GetActive", mock.Anything).Return([]*domain.Loan{loan}, nil)
	f.itemRepo.On("GetByID", mock.Anything, "item-1").Return(&domain.Item{ID: "item-1", Title: "Dune", PolicyType: "BOOK"}, nil)
	f.policyRepo.On("GetByItemType", mock.Anything, "BOOK").Return(reminderPolicy(), nil)
	f.userRepo.On("GetByID", mock.Anything, int64(42)).Return(activeUser(), nil)
	f.loanRepo.On("UpdateLastReminderSent", mock.Anything, loan.ID, testNow).Return(nil)

	sent, err := f.svc.SendDueDateReminders(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
}
