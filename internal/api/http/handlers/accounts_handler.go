package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-report-service/internal/api/dto"
	"github.com/spec-kit/incident-report-service/internal/domain"
	"github.com/spec-kit/incident-report-service/internal/service"
	apperrors "github.com/spec-kit/incident-report-service/pkg/util/errorutil"
)

// AccountsHandler exposes registration and login endpoints.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accountService}
}

// Register handles POST /auth/register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, exp, err := h.accounts.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, exp, err := h.accounts.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		IsAdmin:       user.IsAdmin,
		DateOfJoining: user.DateOfJoining,
	}
}
