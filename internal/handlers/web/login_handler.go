package web

import (
	"errors"
	"time"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares/csrf"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares/sessions"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/users"
	"github.com/gofiber/fiber/v2"
)

const (
	MsgWrongCredentials = "メールアドレスまたはパスワードが正しくありません。"
	MsgAccountDisabled  = "このアカウントは無効化されています。管理者にお問い合わせください。"
)

func mapLoginError(errorCode string) string {
	switch errorCode {
	case "account_disabled":
		return MsgAccountDisabled
	case "account_not_found":
		return MsgWrongCredentials
	default:
		return ""
	}
}

type LoginHandler struct {
	userService *users.UserService
}

func NewLoginHandler(userService *users.UserService) *LoginHandler {
	return &LoginHandler{userService: userService}
}

func (h *LoginHandler) GetHome(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if session.IsAuthenticated() {
		return ctx.Redirect("/facilities")
	}
	return ctx.Redirect("/login")
}

func (h *LoginHandler) GetLogin(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if session.IsAuthenticated() {
		return ctx.Redirect("/facilities")
	}
	return ctx.Render("login", fiber.Map{
		"csrfToken": csrf.Get(session).Token,
		"errorMsg":  mapLoginError(ctx.Query("error")),
	})
}

func (h *LoginHandler) PostLogin(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if session.IsAuthenticated() {
		return ctx.Redirect("/facilities")
	}

	if !csrf.Verify(ctx) {
		return fiber.NewError(fiber.StatusForbidden, "セッションの有効期限が切れました。")
	}

	email := ctx.FormValue("email")
	password := ctx.FormValue("password")
	user, err := h.userService.Authenticate(ctx.Context(), email, password)
	if err != nil {
		errorMsg := MsgWrongCredentials
		if errors.Is(err, users.ErrUserDisabled) {
			errorMsg = MsgAccountDisabled
		} else if !errors.Is(err, users.ErrWrongCredentials) {
			return err
		}
		return ctx.Render("login", fiber.Map{
			"csrfToken": csrf.Get(session).Token,
			"errorMsg":  errorMsg,
			"email":     email,
		})
	}

	session.Save(sessions.SessionData{
		IP:        ctx.IP(),
		UserID:    user.ID,
		Role:      user.Role,
		LoginTime: time.Now(),
	})
	return ctx.Redirect("/facilities")
}

func (h *LoginHandler) PostLogout(ctx *fiber.Ctx) error {
	if err := sessions.Destroy(ctx); err != nil {
		return err
	}
	return ctx.Redirect("/login")
}
