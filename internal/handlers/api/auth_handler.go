package api

import (
	"errors"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/auth"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/users"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler issues bearer tokens for non-browser clients.
type AuthHandler struct {
	userService *users.UserService
	tokenIssuer *auth.TokenIssuer
}

func NewAuthHandler(userService *users.UserService, tokenIssuer *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokenIssuer: tokenIssuer,
	}
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) PostToken(ctx *fiber.Ctx) error {
	var req tokenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return respondError(ctx, fiber.StatusBadRequest, "リクエスト形式が正しくありません。")
	}

	user, err := h.userService.Authenticate(ctx.Context(), req.Email, req.Password)
	if errors.Is(err, users.ErrWrongCredentials) || errors.Is(err, users.ErrUserDisabled) {
		return respondError(ctx, fiber.StatusUnauthorized, "メールアドレスまたはパスワードが正しくありません。")
	}
	if err != nil {
		return err
	}

	token, err := h.tokenIssuer.Issue(user)
	if err != nil {
		return err
	}
	return respondData(ctx, fiber.Map{
		"token": token,
		"role":  user.Role,
	})
}
