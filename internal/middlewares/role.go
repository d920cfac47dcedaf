package middlewares

import (
	"errors"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares/sessions"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/users"
	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"github.com/gofiber/fiber/v2"
)

// RequireRole gates a route group on the caller's role. With no roles it only
// requires authentication. Disabled accounts are logged out on the spot.
func RequireRole(userService *users.UserService, roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sess := sessions.Get(ctx)
		if !sess.IsAuthenticated() {
			return ctx.Redirect("/login")
		}

		user, err := userService.GetUserByID(ctx.Context(), sess.UserID)
		if err != nil {
			if errors.Is(err, users.ErrUserNotFound) {
				return forceLogout(ctx, "account_not_found")
			}
			return err
		}
		if user.Disabled {
			return forceLogout(ctx, "account_disabled")
		}

		if len(roles) == 0 {
			return withUser(ctx, user)
		}
		if !user.HasRole(roles...) {
			return fiber.ErrForbidden
		}
		return withUser(ctx, user)
	}
}

const userContextKey = "auth_user"

func withUser(ctx *fiber.Ctx, user *model.User) error {
	ctx.Locals(userContextKey, user)
	return ctx.Next()
}

// CurrentUser returns the user loaded by RequireRole.
func CurrentUser(ctx *fiber.Ctx) *model.User {
	user, _ := ctx.Locals(userContextKey).(*model.User)
	return user
}

func forceLogout(ctx *fiber.Ctx, reason string) error {
	if err := sessions.Destroy(ctx); err != nil {
		return err
	}
	return ctx.Redirect("/login?error=" + reason)
}
