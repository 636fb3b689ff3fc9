package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/domain"
)

func TestFail_MapeaErroresDeDominio(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("buscar: %w", domain.ErrUnitNotFound), http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrDuplicate, http.StatusConflict},
		{domain.ErrConflict, http.StatusConflict},
		{domain.ErrInvalidThresholds, http.StatusBadRequest},
		{domain.ErrPasswordMismatch, http.StatusBadRequest},
		{fmt.Errorf("pgx: conexión cerrada"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error { return fail(c, tc.err) })

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())
	}
}

func TestBindJSON_ValidaTags(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var in dto.CreateUnitRequest
		if !bindJSON(c, &in) {
			return nil
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Unidad"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFormBool(t *testing.T) {
	assert.True(t, formBool("true"))
	assert.True(t, formBool(" 1 "))
	assert.False(t, formBool(""))
	assert.False(t, formBool("no"))
}
