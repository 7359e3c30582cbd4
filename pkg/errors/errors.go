package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrItemNotFound            = errors.New("item not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrLoanNotFound            = errors.New("loan not found")
	ErrFineNotFound            = errors.New("fine not found")
	ErrReservationNotFound     = errors.New("reservation not found")
	ErrPolicyNotFound          = errors.New("no loan policy found for item type")
	ErrNoCopiesAvailable       = errors.New("no copies available for checkout")
	ErrItemAvailable           = errors.New("item is available for immediate checkout")
	ErrAlreadyReserved         = errors.New("borrower already has an active reservation for this item")
	ErrAlreadyReturned         = errors.New("loan has already been returned")
	ErrMaxRenewalsReached      = errors.New("maximum renewal limit reached")
	ErrRenewalWindowExpired    = errors.New("renewal window has expired")
	ErrLoanOverdue             = errors.New("overdue loans cannot be renewed")
	ErrActiveReservationExists = errors.New("item has active reservations")
	ErrUserNotActive           = errors.New("user account is not active")
	ErrFineAlreadyPaid         = errors.New("fine has already been paid")
	ErrInvalidInventoryLevel   = errors.New("copies owned cannot drop below copies on loan")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeItemNotFound            = "ITEM_NOT_FOUND"
	ErrCodeUserNotFound            = "USER_NOT_FOUND"
	ErrCodeLoanNotFound            = "LOAN_NOT_FOUND"
	ErrCodeFineNotFound            = "FINE_NOT_FOUND"
	ErrCodeReservationNotFound     = "RESERVATION_NOT_FOUND"
	ErrCodePolicyNotFound          = "POLICY_NOT_FOUND"
	ErrCodeNoCopiesAvailable       = "NO_COPIES_AVAILABLE"
	ErrCodeItemAvailable           = "ITEM_AVAILABLE"
	ErrCodeAlreadyReserved         = "ALREADY_RESERVED"
	ErrCodeAlreadyReturned         = "ALREADY_RETURNED"
	ErrCodeMaxRenewalsReached      = "MAX_RENEWALS_REACHED"
	ErrCodeRenewalWindowExpired    = "RENEWAL_WINDOW_EXPIRED"
	ErrCodeLoanOverdue             = "LOAN_OVERDUE"
	ErrCodeActiveReservationExists = "ACTIVE_RESERVATION_EXISTS"
	ErrCodeUserNotActive           = "USER_NOT_ACTIVE"
	ErrCodeFineAlreadyPaid         = "FINE_ALREADY_PAID"
	ErrCodeInvalidInventoryLevel   = "INVALID_INVENTORY_LEVEL"
	ErrCodeDatabaseError           = "DATABASE_ERROR"
	ErrCodeCacheError              = "CACHE_ERROR"
)

// Wrap common errors with business context

func WrapItemNotFound(itemID string) *BusinessError {
	return NewBusinessError(
		ErrCodeItemNotFound,
		fmt.Sprintf("Item with ID %s not found", itemID),
		ErrItemNotFound,
	)
}

func WrapUserNotFound(userID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeUserNotFound,
		fmt.Sprintf("User with ID %d not found", userID),
		ErrUserNotFound,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapFineNotFound(fineID string) *BusinessError {
	return NewBusinessError(
		ErrCodeFineNotFound,
		fmt.Sprintf("Fine with ID %s not found", fineID),
		ErrFineNotFound,
	)
}

func WrapReservationNotFound(reservationID string) *BusinessError {
	return NewBusinessError(
		ErrCodeReservationNotFound,
		fmt.Sprintf("Reservation with ID %s not found", reservationID),
		ErrReservationNotFound,
	)
}

func WrapPolicyNotFound(itemType string) *BusinessError {
	return NewBusinessError(
		ErrCodePolicyNotFound,
		fmt.Sprintf("No loan policy found for item type %s", itemType),
		ErrPolicyNotFound,
	)
}

func WrapNoCopiesAvailable(itemID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNoCopiesAvailable,
		fmt.Sprintf("No copies of item %s are available for checkout", itemID),
		ErrNoCopiesAvailable,
	)
}

func WrapItemAvailable(itemID string) *BusinessError {
	return NewBusinessError(
		ErrCodeItemAvailable,
		fmt.Sprintf("Item %s is available for immediate checkout, no need for reservation", itemID),
		ErrItemAvailable,
	)
}

func WrapAlreadyReserved(itemID string, userID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeAlreadyReserved,
		fmt.Sprintf("User %d already has an active reservation for item %s", userID, itemID),
		ErrAlreadyReserved,
	)
}

func WrapAlreadyReturned(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAlreadyReturned,
		fmt.Sprintf("Loan %s has already been returned", loanID),
		ErrAlreadyReturned,
	)
}

func WrapMaxRenewalsReached(loanID string, maxRenewals int) *BusinessError {
	return NewBusinessError(
		ErrCodeMaxRenewalsReached,
		fmt.Sprintf("Loan %s has reached the maximum of %d renewals", loanID, maxRenewals),
		ErrMaxRenewalsReached,
	)
}

func WrapRenewalWindowExpired(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeRenewalWindowExpired,
		fmt.Sprintf("The renewal window for loan %s has expired", loanID),
		ErrRenewalWindowExpired,
	)
}

func WrapLoanOverdue(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanOverdue,
		fmt.Sprintf("Loan %s is overdue and cannot be renewed", loanID),
		ErrLoanOverdue,
	)
}

func WrapActiveReservationExists(itemID string) *BusinessError {
	return NewBusinessError(
		ErrCodeActiveReservationExists,
		fmt.Sprintf("Item %s has active reservations", itemID),
		ErrActiveReservationExists,
	)
}

func WrapUserNotActive(userID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeUserNotActive,
		fmt.Sprintf("User %d account is not active", userID),
		ErrUserNotActive,
	)
}

func WrapFineAlreadyPaid(fineID string) *BusinessError {
	return NewBusinessError(
		ErrCodeFineAlreadyPaid,
		fmt.Sprintf("Fine %s has already been paid", fineID),
		ErrFineAlreadyPaid,
	)
}

func WrapInvalidInventoryLevel(itemID string, onLoan int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidInventoryLevel,
		fmt.Sprintf("Cannot reduce copies owned of item %s below number of copies currently on loan (%d)", itemID, onLoan),
		ErrInvalidInventoryLevel,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
