package api

import (
	"time"

	"ngo-filer/docs"
	"ngo-filer/internal/api/handlers"
	"ngo-filer/internal/models"
	"ngo-filer/pkg/auth"
	"ngo-filer/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type RouterConfig struct {
	BodyLimitMB  int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// DisableRequestLog turns off the per-request access log.
	DisableRequestLog bool
}

func SetupRouter(
	authHandler *handlers.AuthHandler,
	docHandler *handlers.DocumentHandler,
	reportHandler *handlers.ReportHandler,
	jwtManager *auth.JWTManager,
	cfg RouterConfig,
	appLogger *zap.Logger,
) *fiber.App {
	bodyLimit := fiber.DefaultBodyLimit
	if cfg.BodyLimitMB > 0 {
		bodyLimit = cfg.BodyLimitMB * 1024 * 1024
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	if !cfg.DisableRequestLog {
		app.Use(logger.New())
	}

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshToken)

	protected := v1.Group("", middleware.AuthMiddleware(jwtManager, appLogger))
	can := func(p models.Permission) fiber.Handler {
		return middleware.RequirePermission(p, appLogger)
	}

	protected.Get("/auth/me", authHandler.Me)

	documents := protected.Group("/documents")
	documents.Post("", can(models.PermCreate), docHandler.UploadDocument)
	documents.Get("", can(models.PermRead), docHandler.ListDocuments)
	documents.Get("/:id", can(models.PermRead), docHandler.GetDocument)
	documents.Put("/:id", can(models.PermUpdate), docHandler.ResubmitDocument)
	documents.Get("/:id/file", can(models.PermRead), docHandler.DownloadDocument)
	documents.Get("/:id/transitions", can(models.PermRead), docHandler.GetTransitions)
	documents.Post("/:id/transition", can(models.PermUpdate), docHandler.TransitionDocument)
	documents.Get("/:id/audit", can(models.PermRead), docHandler.GetDocumentAudit)

	protected.Get("/stats", can(models.PermRead), reportHandler.GetStats)
	protected.Get("/reports/fiscal-year/:fy", can(models.PermRead), reportHandler.GetFiscalYearReport)
	protected.Get("/reports/projects/:code", can(models.PermRead), reportHandler.GetProjectReport)
	protected.Get("/export", can(models.PermExport), reportHandler.ExportLedger)
	protected.Get("/audit/recent", can(models.PermRead), reportHandler.GetRecentAudit)

	return app
}
