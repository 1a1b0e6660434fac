package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"ngo-filer/internal/models"
	"ngo-filer/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func newTestApp(m *auth.JWTManager) *fiber.App {
	app := fiber.New()
	app.Get("/read", AuthMiddleware(m, zap.NewNop()), RequirePermission(models.PermRead, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("username").(string))
	})
	app.Get("/export", AuthMiddleware(m, zap.NewNop()), RequirePermission(models.PermExport, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Hour, time.Hour)
	app := newTestApp(m)

	viewer, _ := m.GenerateToken("u1", "vera", "vera@ngo.org", string(models.RoleViewer))
	admin, _ := m.GenerateToken("u2", "ada", "ada@ngo.org", string(models.RoleAdmin))
	refresh, _ := m.GenerateRefreshToken("u1")

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"missing token", "/read", "", fiber.StatusUnauthorized},
		{"garbage token", "/read", "Bearer nope", fiber.StatusUnauthorized},
		{"refresh token rejected", "/read", "Bearer " + refresh, fiber.StatusUnauthorized},
		{"viewer can read", "/read", "Bearer " + viewer, fiber.StatusOK},
		{"viewer cannot export", "/export", "Bearer " + viewer, fiber.StatusForbidden},
		{"admin can export", "/export", "Bearer " + admin, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", tt.token)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}
