package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agrifin-backend/internal/domain/passwordreset"
	"agrifin-backend/internal/usecase/auth"
	resetUC "agrifin-backend/internal/usecase/passwordreset"
)

const (
	MsgEmailRequired     = "Email is required."
	MsgResetLinkSent     = "If an account exists with this email, a reset link has been sent."
	MsgTokenRequired     = "Token is required."
	MsgInvalidResetToken = "Invalid or expired reset link. Please request a new one."
	MsgPasswordReset     = "Password has been reset. You can now sign in."
)

type AuthHandler struct {
	auth  *auth.Usecase
	reset *resetUC.Usecase
	debug bool
	log   *zap.Logger
}

// NewAuthHandler: in debug mode forgot-password also returns the reset URL.
func NewAuthHandler(a *auth.Usecase, r *resetUC.Usecase, debug bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: a, reset: r, debug: debug, log: log}
}

type registerReq struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.auth.Register(c.Request().Context(), auth.RegisterInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, MsgInvalidBody)
	}
	dto, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, auth.ToUserDTO(principal(c)))
}

type forgotReq struct {
	Email string `json:"email"`
}

// ForgotPassword answers the same way whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, MsgInvalidBody)
	}
	res, err := h.reset.RequestPasswordReset(c.Request().Context(), req.Email)
	if errors.Is(err, resetUC.ErrEmailRequired) {
		return errJSON(c, http.StatusBadRequest, MsgEmailRequired)
	}
	if err != nil {
		return writeError(c, h.log, err)
	}
	body := map[string]any{"message": MsgResetLinkSent}
	if h.debug && res.TokenIssued {
		body["reset_url"] = res.ResetURL
	}
	return c.JSON(http.StatusOK, body)
}

// resetReq: "password" is accepted as an alias of "new_password".
type resetReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
	Password    string `json:"password"`
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, MsgInvalidBody)
	}
	password := req.NewPassword
	if password == "" {
		password = req.Password
	}
	err := h.reset.ResetPassword(c.Request().Context(), req.Token, password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]string{"message": MsgPasswordReset})
	case errors.Is(err, resetUC.ErrTokenRequired):
		return errJSON(c, http.StatusBadRequest, MsgTokenRequired)
	case errors.Is(err, passwordreset.ErrInvalidToken):
		return errJSON(c, http.StatusBadRequest, MsgInvalidResetToken)
	}
	return writeError(c, h.log, err)
}
