package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/adisurya/circulation-engine/internal/domain"
	"github.com/adisurya/circulation-engine/internal/repository"
	customError "github.com/adisurya/circulation-engine/pkg/errors"
	"github.com/adisurya/circulation-engine/pkg/utils"
)

// ReservationService manages the per-item FIFO of pending holds
type ReservationService struct {
	reservationRepo repository.ReservationRepository
	itemRepo        repository.ItemRepository
	userRepo        repository.UserRepository
	locks           *ItemLockTable
	now             func() time.Time
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	locks *ItemLockTable,
) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		itemRepo:        itemRepo,
		userRepo:        userRepo,
		locks:           locks,
		now:             time.Now,
	}
}

// Reserve places a hold on a fully-loaned item. Items with free copies must
// be checked out instead, never queued behind availability.
func (s *ReservationService) Reserve(ctx context.Context, itemID string, userID int64) (*domain.Reservation, error) {
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

	if item.CopiesAvailable > 0 {
		return nil, customError.WrapItemAvailable(itemID)
	}

	_, err = s.reservationRepo.FindActiveByItemAndUser(ctx, itemID, userID)
	if err == nil {
		return nil, customError.WrapAlreadyReserved(itemID, userID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	now := s.now()
	reservation := &domain.Reservation{
		ID:              uuid.New(),
		ItemID:          item.ID,
		UserID:          user.ID,
		ReservationDate: now,
		ExpirationDate:  utils.AddDays(now, domain.ReservationHoldDays),
		Status:          domain.ReservationStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.reservationRepo.Create(ctx, reservation); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return reservation, nil
}

// QueuePosition returns the 1-based rank of a reservation within the ACTIVE
// set for its item. Non-active reservations have no position.
func (s *ReservationService) QueuePosition(ctx context.Context, reservationID uuid.UUID) (*int, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapReservationNotFound(reservationID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if reservation.Status != domain.ReservationStatusActive {
		return nil, nil
	}

	active, err := s.reservationRepo.GetActiveByItemID(ctx, reservation.ItemID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	for i, r := range active {
		if r.ID == reservation.ID {
			position := i + 1
			return &position, nil
		}
	}

	return nil, nil
}

// HasActive reports whether any ACTIVE reservation exists for an item
func (s *ReservationService) HasActive(ctx context.Context, itemID string) (bool, error) {
	count, err := s.reservationRepo.CountActiveByItemID(ctx, itemID)
	if err != nil {
		return false, customError.WrapDatabaseError(err)
	}
	return count > 0, nil
}

// GetByUser returns a user's reservations, newest first
func (s *ReservationService) GetByUser(ctx context.Context, userID int64) ([]*domain.Reservation, error) {
	reservations, err := s.reservationRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return reservations, nil
}

// NextInLine returns the earliest ACTIVE reservation for an item, or nil
// when the queue is empty. The return path fulfills it inside the same
// transaction that frees the copy; the caller must hold the item lock.
// Nothing reclaims a fulfilled hold after its expiration date.
func (s *ReservationService) NextInLine(ctx context.Context, itemID string) (*domain.Reservation, error) {
	active, err := s.reservationRepo.GetActiveByItemID(ctx, itemID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if len(active) == 0 {
		return nil, nil
	}
	return active[0], nil
}

// NotifyHold logs the hold notification for a freshly fulfilled reservation
func (s *ReservationService) NotifyHold(ctx context.Context, item *domain.Item, reservation *domain.Reservation) {
	username := ""
	if user, err := s.userRepo.GetByID(ctx, reservation.UserID); err == nil {
		username = user.Username
	}

	// In a real system this would send an email/SMS
	log.Printf("NOTIFICATION: Item '%s' is now available for user '%s'. Reservation ID: %s. The item will be held for 48 hours.",
		item.Title, username, reservation.ID)
}
