package triphdl

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"explorerhub/internal/common"
	"explorerhub/internal/global"
	"explorerhub/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = logger.Init(&logger.LogConfig{Level: "error", Format: "text", Output: "stdout", FilterModules: "*"})
	code := m.Run()
	logger.Shutdown()
	os.Exit(code)
}

func TestHandlers_RejectBadInput(t *testing.T) {
	h := &TripHandler{}
	app := fiber.New()
	app.Get("/anon/:id", h.HandleGet)
	user := app.Group("/trips")
	user.Use(func(c fiber.Ctx) error {
		c.Locals(global.LocalsUserID, int64(3))
		return c.Next()
	})
	user.Post("", h.HandleCreate)
	user.Post("/:id/activities", h.HandleAddActivity)
	user.Delete("/:id/activities/:businessId", h.HandleRemoveActivity)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"no user", http.MethodGet, "/anon/1", ``, http.StatusUnauthorized, common.ErrCodeAuthToken.Code},
		{"missing name", http.MethodPost, "/trips", `{"destination":"Lima","start_date":"2026-01-01","end_date":"2026-01-02"}`, http.StatusBadRequest, common.ErrCodeValidationInput.Code},
		{"bad date", http.MethodPost, "/trips", `{"name":"a","destination":"Lima","start_date":"01/02/2026","end_date":"2026-01-02"}`, http.StatusBadRequest, common.ErrCodeValidationInput.Code},
		{"bad trip id", http.MethodPost, "/trips/x/activities", `{"business_id":1,"business_name":"a"}`, http.StatusBadRequest, common.ErrCodeValidationFormat.Code},
		{"activity without business", http.MethodPost, "/trips/1/activities", `{"business_name":"a"}`, http.StatusBadRequest, common.ErrCodeValidationInput.Code},
		{"bad business id", http.MethodDelete, "/trips/1/activities/0", ``, http.StatusBadRequest, common.ErrCodeValidationFormat.Code},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}
