package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adisurya/circulation-engine/internal/domain"
)

// ItemRepository defines the interface for item data operations
type ItemRepository interface {
	// GetByID retrieves an item by its ID
	GetByID(ctx context.Context, id string) (*domain.Item, error)

	// UpdateCopies persists new owned/available counts for an item
	UpdateCopies(ctx context.Context, id string, copiesOwned, copiesAvailable int) error
}

// UserRepository defines the interface for borrower account lookups
type UserRepository interface {
	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// PolicyRepository defines the interface for loan policy lookups
type PolicyRepository interface {
	// GetByItemType retrieves the policy for an item type
	GetByItemType(ctx context.Context, itemType string) (*domain.LoanPolicy, error)
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// Update updates a loan
	Update(ctx context.Context, loan *domain.Loan) error

	// CountActiveByItemID counts open loans for an item
	CountActiveByItemID(ctx context.Context, itemID string) (int, error)

	// GetByUserID retrieves all loans for a user
	GetByUserID(ctx context.Context, userID int64) ([]*domain.Loan, error)

	// GetActive retrieves all open loans
	GetActive(ctx context.Context) ([]*domain.Loan, error)

	// UpdateLastReminderSent records when a due-date reminder was emitted
	UpdateLastReminderSent(ctx context.Context, loanID uuid.UUID, sentAt time.Time) error

	// ApplyRenewal persists a renewal audit record and the updated loan in
	// one transaction
	ApplyRenewal(ctx context.Context, loan *domain.Loan, renewal *domain.LoanRenewal) error

	// CompleteReturn persists every consequence of a return in one
	// transaction: the closed loan, the recomputed item availability, the
	// overdue fine if one was assessed, and the fulfilled reservation if the
	// queue advanced. Pass nil for fine or fulfilled when not applicable.
	CompleteReturn(ctx context.Context, loan *domain.Loan, item *domain.Item, fine *domain.Fine, fulfilled *domain.Reservation) error

	// GetRenewalsByLoanID retrieves renewal history, newest first
	GetRenewalsByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanRenewal, error)
}

// ReservationRepository defines the interface for reservation data operations
type ReservationRepository interface {
	// Create creates a new reservation
	Create(ctx context.Context, reservation *domain.Reservation) error

	// GetByID retrieves a reservation by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)

	// Update updates a reservation
	Update(ctx context.Context, reservation *domain.Reservation) error

	// GetActiveByItemID retrieves ACTIVE reservations for an item ordered by
	// reservation date ascending, ties broken by ID
	GetActiveByItemID(ctx context.Context, itemID string) ([]*domain.Reservation, error)

	// FindActiveByItemAndUser finds a user's ACTIVE reservation for an item,
	// if any
	FindActiveByItemAndUser(ctx context.Context, itemID string, userID int64) (*domain.Reservation, error)

	// CountActiveByItemID counts ACTIVE reservations for an item
	CountActiveByItemID(ctx context.Context, itemID string) (int, error)

	// GetByUserID retrieves all reservations for a user
	GetByUserID(ctx context.Context, userID int64) ([]*domain.Reservation, error)
}

// FineRepository defines the interface for fine data operations
type FineRepository interface {
	// Create creates a new fine record
	Create(ctx context.Context, fine *domain.Fine) error

	// GetByID retrieves a fine by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Fine, error)

	// Update updates a fine
	Update(ctx context.Context, fine *domain.Fine) error

	// GetByLoanID retrieves all fines attached to a loan
	GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Fine, error)
}
