package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"peer-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

func TestErrorMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Get("/conflict", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusConflict, "Connection already exists", map[string]string{"k": "v"}, nil)
	})
	app.Get("/internal", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "db exploded", nil, errors.New("secret detail"))
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("boom")
	})

	cases := []struct {
		path    string
		status  int
		message string
	}{
		{"/conflict", http.StatusConflict, "Connection already exists"},
		{"/internal", http.StatusInternalServerError, response.MessageInternalServerError},
		{"/panic", http.StatusInternalServerError, response.MessageInternalServerError},
		{"/missing", http.StatusNotFound, ""},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil))
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		var env response.Raw
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("%s: decode: %v", tc.path, err)
		}
		_ = resp.Body.Close()

		if resp.StatusCode != tc.status || env.Status != tc.status {
			t.Fatalf("%s: expected %d, got %d/%d", tc.path, tc.status, resp.StatusCode, env.Status)
		}
		if tc.message != "" && env.Message != tc.message {
			t.Fatalf("%s: expected message %q, got %q", tc.path, tc.message, env.Message)
		}
	}
}

func TestBearerTokenFromHeader(t *testing.T) {
	cases := map[string]bool{
		"Bearer abc": true,
		"bearer abc": true,
		"Bearer ":    false,
		"Basic abc":  false,
		"":           false,
		"Bearerabc":  false,
	}
	for in, want := range cases {
		if _, ok := bearerTokenFromHeader(in); ok != want {
			t.Fatalf("%q: expected %v", in, want)
		}
	}
}
