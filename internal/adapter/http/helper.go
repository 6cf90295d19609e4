package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agrifin-backend/internal/domain/activity"
	"agrifin-backend/internal/domain/application"
	"agrifin-backend/internal/domain/user"
	"agrifin-backend/internal/logging"
	"agrifin-backend/internal/ml"
	adminUC "agrifin-backend/internal/usecase/admin"
	appUC "agrifin-backend/internal/usecase/application"
	authUC "agrifin-backend/internal/usecase/auth"
	farmerUC "agrifin-backend/internal/usecase/farmer"
)

const (
	MsgInternal            = "internal server error"
	MsgInvalidBody         = "invalid body"
	MsgApplicationNotFound = "Application not found or already reviewed"
	MsgInvalidStatus       = "status must be pending, approved or rejected"
	MsgEmailTaken          = "A user with this email already exists."
	MsgInvalidCredentials  = "Invalid email or password."
	MsgPasswordTooShort    = "Password must be at least 8 characters."
	MsgPasswordTooLong     = "Password must be at most 72 characters."
	MsgInvalidEventType    = "Invalid event_type"
)

func errJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, ErrorResponse{Error: msg})
}

// bindAndValidate answers 400 itself and returns false when the body is
// unusable.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, errJSON(c, http.StatusBadRequest, MsgInvalidBody)
	}
	if err := c.Validate(req); err != nil {
		fe := ToFieldErrors(err)
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed: " + validationSummary(fe), Details: fe})
	}
	return true, nil
}

// writeError maps usecase and domain errors to HTTP responses. Anything
// unrecognised is logged and becomes a 500.
func writeError(c echo.Context, log *zap.Logger, err error) error {
	var pe *ml.PredictionError
	switch {
	case errors.Is(err, ml.ErrModelUnavailable):
		return errJSON(c, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &pe):
		// scoring failures are reported to the caller verbatim
		return errJSON(c, http.StatusBadRequest, pe.Error())
	case errors.Is(err, application.ErrNotFound):
		return errJSON(c, http.StatusNotFound, MsgApplicationNotFound)
	case errors.Is(err, application.ErrInvalidStatus):
		return errJSON(c, http.StatusBadRequest, MsgInvalidStatus)
	case errors.Is(err, activity.ErrInvalidEventType):
		return errJSON(c, http.StatusBadRequest, MsgInvalidEventType)
	case errors.Is(err, user.ErrEmailTaken):
		return errJSON(c, http.StatusBadRequest, MsgEmailTaken)
	case errors.Is(err, authUC.ErrPasswordTooShort):
		return errJSON(c, http.StatusBadRequest, MsgPasswordTooShort)
	case errors.Is(err, authUC.ErrPasswordTooLong):
		return errJSON(c, http.StatusBadRequest, MsgPasswordTooLong)
	case errors.Is(err, authUC.ErrInvalidCredentials):
		return errJSON(c, http.StatusUnauthorized, MsgInvalidCredentials)
	case errors.Is(err, appUC.ErrInvalidAction),
		errors.Is(err, appUC.ErrInvalidDuration),
		errors.Is(err, authUC.ErrInvalidRole),
		errors.Is(err, adminUC.ErrInvalidRole),
		errors.Is(err, farmerUC.ErrCropTypeRequired):
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	logging.FromContext(c.Request().Context(), log).Error("request failed",
		zap.String("route", c.Path()), zap.Error(err))
	return errJSON(c, http.StatusInternalServerError, MsgInternal)
}

// principal is only called behind Authenticate.
func principal(c echo.Context) user.Principal {
	p, _ := user.PrincipalFrom(c.Request().Context())
	return p
}

func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

func list[T any](key string, items []T) map[string]any {
	if items == nil {
		items = []T{}
	}
	return map[string]any{key: items, "count": len(items)}
}
