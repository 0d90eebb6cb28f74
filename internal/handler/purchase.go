package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-purchase-service/internal/middleware"
	"github.com/iliyamo/ticket-purchase-service/internal/model"
	"github.com/iliyamo/ticket-purchase-service/internal/repository"
	"github.com/iliyamo/ticket-purchase-service/internal/reservation"
)

// Purchaser is the purchase entry point, implemented by
// service.TicketService.
type Purchaser interface {
	PurchaseTickets(ctx context.Context, accountID int64, requests ...model.TicketRequest) (*reservation.Reservation, error)
}

// PaymentLister reads an account's payment history.
type PaymentLister interface {
	ListByAccount(ctx context.Context, accountID int64) ([]model.Payment, error)
}

// AccountReader loads the account behind a token.
type AccountReader interface {
	GetByID(ctx context.Context, id int64) (model.Account, error)
}

// PurchaseHandler serves the authenticated purchase endpoints.
type PurchaseHandler struct {
	Tickets  Purchaser
	Payments PaymentLister
	Accounts AccountReader
}

func NewPurchaseHandler(tickets Purchaser, payments PaymentLister, accounts AccountReader) *PurchaseHandler {
	if tickets == nil || payments == nil || accounts == nil {
		panic("nil dependency passed to NewPurchaseHandler")
	}
	return &PurchaseHandler{Tickets: tickets, Payments: payments, Accounts: accounts}
}

type ticketReq struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// account_id is kept raw so that a missing or non-integer value is
// reported as an invalid account rather than a malformed body.
type purchaseReq struct {
	AccountID json.RawMessage `json:"account_id"`
	Tickets   []ticketReq     `json:"tickets"`
}

type purchaseResp struct {
	AccountID  int64            `json:"account_id"`
	Counts     map[string]int64 `json:"counts"`
	TotalPrice int64            `json:"total_price"`
	TotalSeats int64            `json:"total_seats"`
}

type paymentResp struct {
	ID        int64     `json:"id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func parseAccountID(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	return id, err == nil
}

// Purchase handles POST /v1/purchases.  The body names the account and a
// list of ticket requests; the account must match the bearer token and
// still be active.
func (h *PurchaseHandler) Purchase(c echo.Context) error {
	caller, ok := middleware.AccountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "invalid_request_body"})
	}
	accountID, ok := parseAccountID(req.AccountID)
	if !ok || accountID < 1 {
		return writePurchaseError(c, reservation.ErrInvalidAccount)
	}
	if accountID != caller {
		return c.JSON(http.StatusForbidden, errorResponse{Error: "forbidden", Code: "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acc, err := h.Accounts.GetByID(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !acc.IsActive) {
		return c.JSON(http.StatusForbidden, errorResponse{Error: "account inactive", Code: "account_inactive"})
	}
	if err != nil {
		c.Logger().Errorf("lookup account %d: %v", accountID, err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "internal_error"})
	}

	// Categories are validated together with counts, request by request.
	requests := make([]model.TicketRequest, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		requests = append(requests, model.NewTicketRequest(model.NormalizeTicketCategory(t.Type), t.Count))
	}

	res, err := h.Tickets.PurchaseTickets(ctx, accountID, requests...)
	if err != nil {
		return writePurchaseError(c, err)
	}

	counts := make(map[string]int64, len(model.Categories()))
	for cat, n := range res.Counts() {
		counts[string(cat)] = n
	}
	return c.JSON(http.StatusCreated, purchaseResp{
		AccountID:  res.AccountID(),
		Counts:     counts,
		TotalPrice: res.TotalPrice(),
		TotalSeats: res.TotalSeats(),
	})
}

// ListPayments handles GET /v1/payments for the authenticated account.
func (h *PurchaseHandler) ListPayments(c echo.Context) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	payments, err := h.Payments.ListByAccount(ctx, accountID)
	if err != nil {
		c.Logger().Errorf("list payments: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]paymentResp, 0, len(payments))
	for _, p := range payments {
		out = append(out, paymentResp{ID: p.ID, Amount: p.Amount, CreatedAt: p.CreatedAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": out})
}
