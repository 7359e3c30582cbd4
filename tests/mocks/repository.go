package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/adisurya/circulation-engine/internal/domain"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemRepository) UpdateCopies(ctx context.Context, id string, copiesOwned, copiesAvailable int) error {
	args := m.Called(ctx, id, copiesOwned, copiesAvailable)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockPolicyRepository struct {
	mock.Mock
}

func (m *MockPolicyRepository) GetByItemType(ctx context.Context, itemType string) (*domain.LoanPolicy, error) {
	args := m.Called(ctx, itemType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanPolicy), args.Error(1)
}

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) CountActiveByItemID(ctx context.Context, itemID string) (int, error) {
	args := m.Called(ctx, itemID)
	return args.Int(0), args.Error(1)
}

func (m *MockLoanRepository) GetByUserID(ctx context.Context, userID int64) ([]*domain.Loan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetActive(ctx context.Context) ([]*domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) UpdateLastReminderSent(ctx context.Context, loanID uuid.UUID, sentAt time.Time) error {
	args := m.Called(ctx, loanID, sentAt)
	return args.Error(0)
}

func (m *MockLoanRepository) ApplyRenewal(ctx context.Context, loan *domain.Loan, renewal *domain.LoanRenewal) error {
	args := m.Called(ctx, loan, renewal)
	return args.Error(0)
}

func (m *MockLoanRepository) CompleteReturn(ctx context.Context, loan *domain.Loan, item *domain.Item, fine *domain.Fine, fulfilled *domain.Reservation) error {
	args := m.Called(ctx, loan, item, fine, fulfilled)
	return args.Error(0)
}

func (m *MockLoanRepository) GetRenewalsByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanRenewal, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanRenewal), args.Error(1)
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) GetActiveByItemID(ctx context.Context, itemID string) ([]*domain.Reservation, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindActiveByItemAndUser(ctx context.Context, itemID string, userID int64) (*domain.Reservation, error) {
	args := m.Called(ctx, itemID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) CountActiveByItemID(ctx context.Context, itemID string) (int, error) {
	args := m.Called(ctx, itemID)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepository) GetByUserID(ctx context.Context, userID int64) ([]*domain.Reservation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

type MockFineRepository struct {
	mock.Mock
}

func (m *MockFineRepository) Create(ctx context.Context, fine *domain.Fine) error {
	args := m.Called(ctx, fine)
	return args.Error(0)
}

func (m *MockFineRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Fine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}

func (m *MockFineRepository) Update(ctx context.Context, fine *domain.Fine) error {
	args := m.Called(ctx, fine)
	return args.Error(0)
}

func (m *MockFineRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Fine, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Fine), args.Error(1)
}
