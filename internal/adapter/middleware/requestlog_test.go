package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agrifin-backend/internal/logging"
	"agrifin-backend/internal/metrics"
)

func TestRequestLogger(t *testing.T) {
	log, logs := logging.NewTest()
	e := echo.New()
	e.Use(echomw.RequestID(), RequestLogger(log))
	e.GET("/ping/:id", func(c echo.Context) error {
		logging.FromContext(c.Request().Context(), nil).Info("inside")
		return c.String(http.StatusOK, "pong")
	})
	e.GET("/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/ping/:id", http.MethodGet, "200"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping/3", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	after := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/ping/:id", http.MethodGet, "200"))
	assert.Equal(t, before+1, after)

	inside := logs.FilterMessage("inside").All()
	require.Len(t, inside, 1)
	assert.NotEmpty(t, inside[0].ContextMap()["request_id"])

	reqs := logs.FilterMessage("request").All()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/ping/3", reqs[0].ContextMap()["uri"])
	assert.EqualValues(t, 200, reqs[0].ContextMap()["status"])

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	last := logs.FilterMessage("request").All()
	require.Len(t, last, 2)
	assert.Equal(t, zap.WarnLevel, last[1].Level)
}
