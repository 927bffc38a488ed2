package respx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

var reg = errx.NewRegistry("THING")

var codeGone = reg.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Thing not found")

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/ok", func(c *fiber.Ctx) error { return OK(c, fiber.Map{"n": 1}) })
	app.Get("/nil", func(c *fiber.Ctx) error { return OK(c, nil) })
	app.Post("/created", func(c *fiber.Ctx) error { return Created(c, "x") })
	app.Get("/domain", func(c *fiber.Ctx) error { return reg.New(codeGone) })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("pq: connection refused") })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusUnauthorized, "Missing token") })
	return app
}

func TestErrorHandler_Shapes(t *testing.T) {
	logx.SetOutput(io.Discard)
	app := newApp()

	tests := []struct {
		method, path string
		wantStatus   int
		wantSuccess  bool
		wantCode     string
		wantError    string
	}{
		{http.MethodGet, "/ok", 200, true, "", ""},
		{http.MethodPost, "/created", 201, true, "", ""},
		{http.MethodGet, "/domain", 404, false, "THING_NOT_FOUND", "Thing not found"},
		{http.MethodGet, "/plain", 500, false, "INTERNAL_ERROR", "An unexpected error occurred"},
		{http.MethodGet, "/fiber", 401, false, "HTTP_401", "Missing token"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var body map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body["success"] != tt.wantSuccess {
				t.Errorf("success = %v", body["success"])
			}
			if tt.wantCode != "" && body["code"] != tt.wantCode {
				t.Errorf("code = %v, want %s", body["code"], tt.wantCode)
			}
			if tt.wantError != "" && body["error"] != tt.wantError {
				t.Errorf("error = %v, want %s", body["error"], tt.wantError)
			}
		})
	}
}

func TestOK_NilDataIsRendered(t *testing.T) {
	resp, err := newApp().Test(httptest.NewRequest(http.MethodGet, "/nil", nil))
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	if string(raw) != `{"success":true,"data":null}` {
		t.Errorf("body = %s", raw)
	}
}
