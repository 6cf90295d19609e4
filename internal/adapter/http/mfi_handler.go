package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	appUC "agrifin-backend/internal/usecase/application"
	loanUC "agrifin-backend/internal/usecase/loan"
)

type MFIHandler struct {
	apps  *appUC.Usecase
	loans *loanUC.Usecase
	log   *zap.Logger
}

func NewMFIHandler(a *appUC.Usecase, l *loanUC.Usecase, log *zap.Logger) *MFIHandler {
	return &MFIHandler{apps: a, loans: l, log: log}
}

// ListApplications: ?status= defaults to pending.
func (h *MFIHandler) ListApplications(c echo.Context) error {
	out, err := h.apps.ListForReview(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list("applications", out))
}

type reviewReq struct {
	Action          string     `json:"action"`
	RejectionReason string     `json:"rejection_reason"`
	Amount          NumberFlex `json:"amount"          validate:"omitempty,gt=0,dec2"`
	InterestRate    NumberFlex `json:"interest_rate"   validate:"omitempty,gte=0,lte=1"`
	DurationMonths  NumberFlex `json:"duration_months" validate:"omitempty,gte=0,lte=600,intlike"`
}

func (h *MFIHandler) Review(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return errJSON(c, http.StatusNotFound, MsgApplicationNotFound)
	}
	var req reviewReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.apps.Review(c.Request().Context(), principal(c).UserID, id, appUC.ReviewInput{
		Action:          req.Action,
		RejectionReason: req.RejectionReason,
		Amount:          req.Amount.Decimal(),
		InterestRate:    req.InterestRate.Float(),
		DurationMonths:  req.DurationMonths.Int(),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *MFIHandler) Portfolio(c echo.Context) error {
	out, err := h.loans.Portfolio(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
