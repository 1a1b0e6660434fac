package handlers

import (
	"errors"

	"ngo-filer/internal/dto"
	"ngo-filer/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler issues tokens for the filing API. Every response carries the
// account's role and the ledger permissions it grants.
type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary Create a viewer account
// @Description Self-registered accounts can only read the ledger. Contributor, approver and admin roles are granted by the seeder.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account details; role is ignored"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	req.Role = ""
	resp, err := h.authService.Register(c.Context(), &req)
	if err != nil {
		return h.authError(c, "register", err)
	}

	h.logger.Info("Viewer account created", zap.String("user_id", resp.User.ID))
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login godoc
// @Summary Sign in to the filing API
// @Description Returns an access token and the role that decides which ledger operations it may call
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.Login(c.Context(), &req)
	if err != nil {
		return h.authError(c, "login", err)
	}
	return c.JSON(resp)
}

// RefreshToken godoc
// @Summary Renew an access token
// @Description The role is read again from the account, so promotions and demotions apply on refresh
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.RefreshToken(c.Context(), req.RefreshToken)
	if err != nil {
		return h.authError(c, "refresh", err)
	}
	return c.JSON(resp)
}

// Me godoc
// @Summary Current account and its ledger permissions
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	resp, err := h.authService.Me(c.Context(), userID)
	if err != nil {
		return h.authError(c, "me", err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) authError(c *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, service.ErrUserExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "An account with this email already exists"})
	case errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrInvalidUser):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	h.logger.Error("Auth request failed", zap.String("op", op), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Authentication failed"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
}
