package reviewhdl

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"explorerhub/internal/global"
	"explorerhub/internal/common"
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

// Requests rejected before the service is reached need no database.
func TestHandlers_RejectBadInput(t *testing.T) {
	h := &ReviewHandler{}
	app := fiber.New()
	app.Post("/anon", h.HandleCreate)
	app.Get("/public/business/:businessId", h.HandleListByBusiness)
	signedIn := app.Group("/reviews")
	signedIn.Use(func(c fiber.Ctx) error {
		c.Locals(global.LocalsUserID, int64(1))
		return c.Next()
	})
	signedIn.Post("", h.HandleCreate)
	signedIn.Put("/:id", h.HandleUpdate)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"no user", http.MethodPost, "/anon", `{}`, http.StatusUnauthorized, common.ErrCodeAuthToken.Code},
		{"malformed json", http.MethodPost, "/reviews", `{"rating":`, http.StatusBadRequest, common.ErrCodeValidationFormat.Code},
		{"missing business", http.MethodPost, "/reviews", `{"rating":4,"title":"t","text":"x"}`, http.StatusBadRequest, common.ErrCodeValidationInput.Code},
		{"rating too high", http.MethodPost, "/reviews", `{"business_id":1,"rating":6,"title":"t","text":"x"}`, http.StatusBadRequest, common.ErrCodeValidationInput.Code},
		{"rating zero", http.MethodPost, "/reviews", `{"business_id":1,"rating":0,"title":"t","text":"x"}`, http.StatusBadRequest, common.ErrCodeValidationInput.Code},
		{"bad id", http.MethodPut, "/reviews/abc", `{"rating":4,"title":"t","text":"x"}`, http.StatusBadRequest, common.ErrCodeValidationFormat.Code},
		{"bad paging", http.MethodGet, "/public/business/3?limit=1000", ``, http.StatusBadRequest, common.ErrCodeValidationInput.Code},
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
			assert.Equal(t, "error", body["status"])
		})
	}
}
