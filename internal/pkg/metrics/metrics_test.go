package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStat struct{}

func (fakeStat) AcquiredConns() int32     { return 2 }
func (fakeStat) IdleConns() int32         { return 3 }
func (fakeStat) TotalConns() int32        { return 5 }
func (fakeStat) EmptyAcquireCount() int64 { return 7 }

func TestUpdateDBPoolMetrics(t *testing.T) {
	UpdateDBPoolMetrics(fakeStat{})

	assert.Equal(t, 5.0, testutil.ToFloat64(DBPoolConnsOpen))
	assert.Equal(t, 2.0, testutil.ToFloat64(DBPoolConnsAcquired))
	assert.Equal(t, 3.0, testutil.ToFloat64(DBPoolConnsIdle))
	assert.Equal(t, 7.0, testutil.ToFloat64(DBPoolEmptyAcquires))
}

func TestMiddlewareAndHandler(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/metrics", Handler())
	app.Get("/v1/artists", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/artists", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), `bloomix_http_requests_total{method="GET",path="/v1/artists",status="200"}`))
}
