package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	appUC "agrifin-backend/internal/usecase/application"
	farmerUC "agrifin-backend/internal/usecase/farmer"
	loanUC "agrifin-backend/internal/usecase/loan"
)

type FarmerHandler struct {
	farmer *farmerUC.Usecase
	apps   *appUC.Usecase
	loans  *loanUC.Usecase
	log    *zap.Logger
}

func NewFarmerHandler(f *farmerUC.Usecase, a *appUC.Usecase, l *loanUC.Usecase, log *zap.Logger) *FarmerHandler {
	return &FarmerHandler{farmer: f, apps: a, loans: l, log: log}
}

func (h *FarmerHandler) GetProfile(c echo.Context) error {
	p, err := h.farmer.GetProfile(c.Request().Context(), principal(c).UserID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

type profilePatchReq struct {
	Location        *string `json:"location"`
	Phone           *string `json:"phone"`
	CooperativeName *string `json:"cooperative_name"`
}

func (h *FarmerHandler) UpdateProfile(c echo.Context) error {
	var req profilePatchReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, MsgInvalidBody)
	}
	p, err := h.farmer.UpdateProfile(c.Request().Context(), principal(c).UserID, farmerUC.ProfilePatch(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

type recordReq struct {
	CropType         string     `json:"crop_type"`
	LandSizeHectares NumberFlex `json:"land_size_hectares" validate:"omitempty,gte=0,dec2"`
	EstimatedYieldKg NumberFlex `json:"estimated_yield_kg" validate:"omitempty,gte=0,dec2"`
	Season           string     `json:"season"`
}

func (h *FarmerHandler) ListRecords(c echo.Context) error {
	out, err := h.farmer.ListRecords(c.Request().Context(), principal(c).UserID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list("records", out))
}

func (h *FarmerHandler) CreateRecord(c echo.Context) error {
	var req recordReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.farmer.CreateRecord(c.Request().Context(), principal(c).UserID, farmerUC.RecordInput{
		CropType:         req.CropType,
		LandSizeHectares: req.LandSizeHectares.Value,
		EstimatedYieldKg: req.EstimatedYieldKg.Value,
		Season:           req.Season,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type submitApplicationReq struct {
	Age                 NumberFlex `json:"age"                   validate:"omitempty,gte=0,intlike"`
	AnnualIncome        NumberFlex `json:"annual_income"         validate:"omitempty,gte=0"`
	CreditScore         NumberFlex `json:"credit_score"          validate:"omitempty,gte=0,intlike"`
	LoanAmountRequested NumberFlex `json:"loan_amount_requested" validate:"omitempty,gte=0,dec2"`
	LoanDurationMonths  NumberFlex `json:"loan_duration_months"  validate:"omitempty,gte=0,lte=600,intlike"`
	EmploymentStatus    string     `json:"employment_status"`
	EducationLevel      string     `json:"education_level"`
	MaritalStatus       string     `json:"marital_status"`
	LoanPurpose         string     `json:"loan_purpose"`
}

func (h *FarmerHandler) ListApplications(c echo.Context) error {
	out, err := h.apps.ListMine(c.Request().Context(), principal(c).UserID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list("applications", out))
}

// SubmitApplication scores and stores the application. Nothing is stored
// when scoring fails.
func (h *FarmerHandler) SubmitApplication(c echo.Context) error {
	var req submitApplicationReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.apps.Submit(c.Request().Context(), principal(c).UserID, appUC.SubmitInput{
		Age:                 req.Age.Int(),
		AnnualIncome:        req.AnnualIncome.Decimal(),
		CreditScore:         req.CreditScore.Int(),
		LoanAmountRequested: req.LoanAmountRequested.Decimal(),
		LoanDurationMonths:  req.LoanDurationMonths.Int(),
		EmploymentStatus:    req.EmploymentStatus,
		EducationLevel:      req.EducationLevel,
		MaritalStatus:       req.MaritalStatus,
		LoanPurpose:         req.LoanPurpose,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *FarmerHandler) ListLoans(c echo.Context) error {
	out, err := h.loans.ListLoans(c.Request().Context(), principal(c).UserID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list("loans", out))
}

func (h *FarmerHandler) ListRepayments(c echo.Context) error {
	out, err := h.loans.ListRepayments(c.Request().Context(), principal(c).UserID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list("repayments", out))
}
