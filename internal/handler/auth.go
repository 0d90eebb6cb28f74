package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticket-purchase-service/internal/model"
	"github.com/iliyamo/ticket-purchase-service/internal/repository"
	"github.com/iliyamo/ticket-purchase-service/internal/utils"
)

// AccountStore is the account lookup used for registration and login.
type AccountStore interface {
	Create(ctx context.Context, email, password string, cost int) (int64, error)
	GetByEmail(ctx context.Context, email string) (model.Account, error)
}

// AuthHandler issues access tokens to accounts.
type AuthHandler struct {
	Accounts     AccountStore
	JWTSecret    string
	AccessTTLMin int
	BcryptCost   int
}

func NewAuthHandler(accounts AccountStore, jwtSecret string, accessTTLMin, bcryptCost int) *AuthHandler {
	if accounts == nil {
		panic("nil account store passed to NewAuthHandler")
	}
	return &AuthHandler{Accounts: accounts, JWTSecret: jwtSecret, AccessTTLMin: accessTTLMin, BcryptCost: bcryptCost}
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	AccountID int64     `json:"account_id"`
	Token     string    `json:"token"`
	Expires   time.Time `json:"expires"`
}

func (req *credentialsReq) normalize() bool {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return req.Email != "" && req.Password != ""
}

// Register creates an account and returns a token for it.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !req.normalize() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Accounts.Create(ctx, req.Email, req.Password, h.BcryptCost)
	if errors.Is(err, repository.ErrEmailExists) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	}
	if err != nil {
		c.Logger().Errorf("create account: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}
	return h.issue(c, http.StatusCreated, id)
}

// Login verifies the credentials and returns a fresh access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !req.normalize() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acc, err := h.Accounts.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		c.Logger().Errorf("lookup account: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !acc.IsActive || !utils.VerifyPassword(acc.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	return h.issue(c, http.StatusOK, acc.ID)
}

func (h *AuthHandler) issue(c echo.Context, status int, accountID int64) error {
	access, err := utils.NewAccessToken(h.JWTSecret, accountID, h.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(status, tokenResp{AccountID: accountID, Token: access.Token, Expires: access.Exp})
}
