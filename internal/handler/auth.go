package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
	"github.com/iliyamo/cinema-ticket-booking/internal/service"
	"github.com/iliyamo/cinema-ticket-booking/internal/utils"
)

// AuthHandler serves signup, login and the caller's profile.
type AuthHandler struct {
	Accounts  *service.Accounts
	JWTSecret string
	AccessTTL int // minutes
	Log       *zap.Logger
}

func NewAuthHandler(accounts *service.Accounts, secret string, ttlMin int, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Accounts: accounts, JWTSecret: secret, AccessTTL: ttlMin, Log: log}
}

// ----- DTOs -----

type signupReq struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,strongpassword"`
	Email    string `json:"email" validate:"required"`
	Mobile   string `json:"mobile" validate:"required,mobile10"`
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type loginResp struct {
	Username string    `json:"username"`
	IsAdmin  bool      `json:"is_admin"`
	Access   tokenPart `json:"access"`
}

type profileResp struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	Role     string `json:"role"`
	Email    string `json:"email,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
}

// Signup creates a customer account.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if msg, ok := decode(c, &req); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	acc, err := h.Accounts.Create(ctx, req.Username, req.Password, req.Email, req.Mobile)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"username": acc.Username})
}

// Login verifies credentials and issues an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if msg, ok := decode(c, &req); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Accounts.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	at, err := utils.NewAccessToken(h.JWTSecret, id.Username, id.Role(), h.AccessTTL)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, loginResp{
		Username: id.Username,
		IsAdmin:  id.IsAdmin,
		Access:   tokenPart{Token: at.Token, Expires: at.Exp},
	})
}

// Me returns the authenticated caller.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	acc, err := h.Accounts.Profile(ctx, id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, profileResp{
		Username: id.Username,
		IsAdmin:  id.IsAdmin,
		Role:     id.Role(),
		Email:    acc.Email,
		Mobile:   acc.Mobile,
	})
}
