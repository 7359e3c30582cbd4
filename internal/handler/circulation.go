package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/adisurya/circulation-engine/internal/domain"
	"github.com/adisurya/circulation-engine/internal/service"
	customError "github.com/adisurya/circulation-engine/pkg/errors"
	"github.com/adisurya/circulation-engine/pkg/response"
)

type CirculationHandler struct {
	circulation  *service.CirculationService
	reservations *service.ReservationService
	fines        *service.FineService
	inventory    *service.InventoryService
	validator    *validator.Validate
}

func NewCirculationHandler(
	circulation *service.CirculationService,
	reservations *service.ReservationService,
	fines *service.FineService,
	inventory *service.InventoryService,
) *CirculationHandler {
	return &CirculationHandler{
		circulation:  circulation,
		reservations: reservations,
		fines:        fines,
		inventory:    inventory,
		validator:    validator.New(),
	}
}

// Checkout handles POST /loans/checkout
func (h *CirculationHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	loan, err := h.circulation.Checkout(r.Context(), req.ItemID, req.UserID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, loan)
}

// Return handles POST /loans/{loanId}/return
func (h *CirculationHandler) Return(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	loan, err := h.circulation.Return(r.Context(), loanID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, loan)
}

// Renew handles POST /loans/{loanId}/renew
func (h *CirculationHandler) Renew(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	// The reason is optional; an empty body is fine
	var req domain.RenewRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	loan, err := h.circulation.Renew(r.Context(), loanID, req.Reason)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, loan)
}

// RenewalHistory handles GET /loans/{loanId}/renewals
func (h *CirculationHandler) RenewalHistory(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	renewals, err := h.circulation.RenewalHistory(r.Context(), loanID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, renewals)
}

// Reserve handles POST /reservations
func (h *CirculationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req domain.ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	reservation, err := h.reservations.Reserve(r.Context(), req.ItemID, req.UserID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, reservation)
}

// QueuePosition handles GET /reservations/{reservationId}/position
func (h *CirculationHandler) QueuePosition(w http.ResponseWriter, r *http.Request) {
	reservationID, ok := pathUUID(w, r, "reservationId")
	if !ok {
		return
	}

	position, err := h.reservations.QueuePosition(r.Context(), reservationID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, domain.QueuePositionResponse{
		ReservationID: reservationID,
		Position:      position,
	})
}

// PayFine handles POST /fines/{fineId}/pay
func (h *CirculationHandler) PayFine(w http.ResponseWriter, r *http.Request) {
	fineID, ok := pathUUID(w, r, "fineId")
	if !ok {
		return
	}

	fine, err := h.fines.Pay(r.Context(), fineID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, fine)
}

// FinesByLoan handles GET /loans/{loanId}/fines
func (h *CirculationHandler) FinesByLoan(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathUUID(w, r, "loanId")
	if !ok {
		return
	}

	fines, err := h.fines.GetByLoan(r.Context(), loanID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, fines)
}

// LoansByUser handles GET /users/{userId}/loans
func (h *CirculationHandler) LoansByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt64(w, r, "userId")
	if !ok {
		return
	}

	loans, err := h.circulation.GetByUser(r.Context(), userID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, loans)
}

// ReservationsByUser handles GET /users/{userId}/reservations
func (h *CirculationHandler) ReservationsByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt64(w, r, "userId")
	if !ok {
		return
	}

	reservations, err := h.reservations.GetByUser(r.Context(), userID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, reservations)
}

// UpdateInventory handles PUT /items/{itemId}/inventory
func (h *CirculationHandler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]

	var req domain.UpdateInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	status, err := h.inventory.UpdateInventory(r.Context(), itemID, req.CopiesOwned)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, status)
}

// InventoryStatus handles GET /items/{itemId}/inventory
func (h *CirculationHandler) InventoryStatus(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]

	status, err := h.inventory.Status(r.Context(), itemID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, status)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

func pathInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid "+name, err)
		return 0, false
	}
	return id, true
}

// writeBusinessError maps the domain error taxonomy to HTTP statuses.
// Infrastructure failures stay 500; everything else is the caller's problem.
func writeBusinessError(w http.ResponseWriter, err error) {
	var bizErr *customError.BusinessError
	if !errors.As(err, &bizErr) {
		response.InternalServerError(w, "unexpected error", err)
		return
	}

	var status int
	switch bizErr.Code {
	case customError.ErrCodeItemNotFound,
		customError.ErrCodeUserNotFound,
		customError.ErrCodeLoanNotFound,
		customError.ErrCodeFineNotFound,
		customError.ErrCodeReservationNotFound,
		customError.ErrCodePolicyNotFound:
		status = http.StatusNotFound
	case customError.ErrCodeAlreadyReserved,
		customError.ErrCodeAlreadyReturned,
		customError.ErrCodeFineAlreadyPaid,
		customError.ErrCodeActiveReservationExists:
		status = http.StatusConflict
	case customError.ErrCodeNoCopiesAvailable,
		customError.ErrCodeItemAvailable,
		customError.ErrCodeMaxRenewalsReached,
		customError.ErrCodeRenewalWindowExpired,
		customError.ErrCodeLoanOverdue,
		customError.ErrCodeUserNotActive,
		customError.ErrCodeInvalidInventoryLevel:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
	}

	response.ErrorWithCode(w, status, bizErr.Code, bizErr.Message, bizErr.Err)
}
