package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agrifin-backend/internal/domain/user"
	chatUC "agrifin-backend/internal/usecase/chat"
	"agrifin-backend/internal/usecase/scoring"
)

type ScoringHandler struct {
	scoring *scoring.Usecase
	chat    *chatUC.Usecase
	log     *zap.Logger
}

func NewScoringHandler(s *scoring.Usecase, ch *chatUC.Usecase, log *zap.Logger) *ScoringHandler {
	return &ScoringHandler{scoring: s, chat: ch, log: log}
}

func bindPayload(c echo.Context) (map[string]any, bool) {
	payload := map[string]any{}
	if c.Request().ContentLength == 0 {
		return payload, true
	}
	if err := c.Bind(&payload); err != nil {
		return nil, false
	}
	return payload, true
}

func (h *ScoringHandler) Eligibility(c echo.Context) error {
	payload, ok := bindPayload(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, MsgInvalidBody)
	}
	out, err := h.scoring.Eligibility(c.Request().Context(), payload)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ScoringHandler) Risk(c echo.Context) error {
	payload, ok := bindPayload(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, MsgInvalidBody)
	}
	out, err := h.scoring.Risk(c.Request().Context(), payload)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ScoringHandler) RecommendAmount(c echo.Context) error {
	payload, ok := bindPayload(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, MsgInvalidBody)
	}
	out, err := h.scoring.RecommendAmount(c.Request().Context(), payload)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

type chatReq struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

// Chat always answers 200; an unavailable model yields the fallback text.
func (h *ScoringHandler) Chat(c echo.Context) error {
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, MsgInvalidBody)
	}
	var uid uint64
	if p, ok := user.PrincipalFrom(c.Request().Context()); ok {
		uid = p.UserID
	}
	return c.JSON(http.StatusOK, h.chat.Reply(c.Request().Context(), uid, chatUC.Input(req)))
}
