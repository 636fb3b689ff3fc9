package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/validade-api/internal/application/importer"
)

func TestObserveImport(t *testing.T) {
	m := New("validade")

	m.ObserveImport("counts", &importer.Result{Success: true, Processed: 3, Warnings: []string{"w"}}, time.Second)
	m.ObserveImport("counts", &importer.Result{Success: false, Error: "x"}, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.imports.WithLabelValues("counts", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.imports.WithLabelValues("counts", "failure")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.importRows.WithLabelValues("counts", "processed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.importRows.WithLabelValues("counts", "warning")))
}

func TestMiddlewareYHandler(t *testing.T) {
	m := New("validade")
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/units/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/units/123", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/units/:id", "204")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "validade_http_requests_total"))
}
