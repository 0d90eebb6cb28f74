package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-purchase-service/internal/model"
	"github.com/iliyamo/ticket-purchase-service/internal/reservation"
	"github.com/iliyamo/ticket-purchase-service/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var purchaseErrors = []struct {
	err    error
	status int
	code   string
}{
	{reservation.ErrInvalidAccount, http.StatusBadRequest, "invalid_account"},
	{reservation.ErrEmptyRequest, http.StatusBadRequest, "empty_request"},
	{model.ErrUnknownCategory, http.StatusBadRequest, "unknown_ticket_type"},
	{reservation.ErrInvalidTicketCount, http.StatusBadRequest, "invalid_ticket_count"},
	{reservation.ErrTicketLimitExceeded, http.StatusUnprocessableEntity, "ticket_limit_exceeded"},
	{reservation.ErrAdultRequired, http.StatusUnprocessableEntity, "adult_required"},
	{reservation.ErrTooManyInfants, http.StatusUnprocessableEntity, "too_many_infants"},
	{service.ErrPaymentFailed, http.StatusBadGateway, "payment_failed"},
	{service.ErrSeatReservationFailed, http.StatusBadGateway, "seat_reservation_failed"},
}

// writePurchaseError maps a purchase error onto a status and a stable code.
// Only the sentinel's message is exposed to the client.
func writePurchaseError(c echo.Context, err error) error {
	for _, pe := range purchaseErrors {
		if errors.Is(err, pe.err) {
			return c.JSON(pe.status, errorResponse{Error: pe.err.Error(), Code: pe.code})
		}
	}
	c.Logger().Errorf("purchase: %v", err)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "internal_error"})
}
