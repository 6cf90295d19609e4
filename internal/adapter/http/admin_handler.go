package http

import (
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	activityUC "agrifin-backend/internal/usecase/activity"
	adminUC "agrifin-backend/internal/usecase/admin"
)

type AdminHandler struct {
	activity *activityUC.Usecase
	admin    *adminUC.Usecase
	log      *zap.Logger
}

func NewAdminHandler(act *activityUC.Usecase, adm *adminUC.Usecase, log *zap.Logger) *AdminHandler {
	return &AdminHandler{activity: act, admin: adm, log: log}
}

type activityReq struct {
	EventType string `json:"event_type"`
	Role      string `json:"role"`
}

// clientIP is the first X-Forwarded-For hop, else the peer address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get(echo.HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LogActivity is public: the landing page reports "get started" clicks.
func (h *AdminHandler) LogActivity(c echo.Context) error {
	var req activityReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, MsgInvalidBody)
	}
	r := c.Request()
	err := h.activity.Log(r.Context(), activityUC.LogInput{
		EventType: req.EventType,
		Role:      req.Role,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, map[string]bool{"ok": true})
}

func (h *AdminHandler) ListActivity(c echo.Context) error {
	out, err := h.activity.List(c.Request().Context(), queryInt(c, "limit"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list("events", out))
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	out, err := h.admin.ListUsers(c.Request().Context(), c.QueryParam("role"), queryInt(c, "limit"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list("users", out))
}

func (h *AdminHandler) Stats(c echo.Context) error {
	out, err := h.admin.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
