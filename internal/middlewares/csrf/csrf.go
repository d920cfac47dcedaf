package csrf

import (
	"crypto/rand"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"path"
	"time"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares/sessions"
	"github.com/Izumi-Yuya/shicecal-sub015/params"
	"github.com/gofiber/fiber/v2"
)

const (
	CSRFTokenSessionKey = "_csrf"
	HeaderName          = "X-CSRF-TOKEN"
	FormFieldName       = "_token"
)

var (
	ErrInvalidToken = errors.New("invalid CSRF token")
)

type CSRF struct {
	Token     string
	ExpiresAt time.Time
}

func init() {
	gob.Register(CSRF{})
}

// Get returns the session CSRF token, generating one if missing or expired.
func Get(session *sessions.Session) CSRF {
	csrf, ok := session.Get(CSRFTokenSessionKey).(CSRF)
	if !ok || time.Now().After(csrf.ExpiresAt) {
		csrf = generateCSRF()
		session.Set(CSRFTokenSessionKey, csrf)
	}
	return csrf
}

// TokenFromRequest extracts the submitted token: the X-CSRF-TOKEN header for
// AJAX clients, the _token form field otherwise.
func TokenFromRequest(ctx *fiber.Ctx) string {
	if token := ctx.Get(HeaderName); token != "" {
		return token
	}
	return ctx.FormValue(FormFieldName)
}

// Verify checks the submitted token against the session token.
func Verify(ctx *fiber.Ctx) bool {
	token := TokenFromRequest(ctx)
	if token == "" {
		return false
	}
	csrf := Get(sessions.Get(ctx))
	return time.Now().Before(csrf.ExpiresAt) && csrf.Token == token
}

func randomToken() string {
	const tokenLength = 32
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate CSRF token: " + err.Error())
	}
	return hex.EncodeToString(b)
}

func generateCSRF() CSRF {
	return CSRF{
		Token:     randomToken(),
		ExpiresAt: time.Now().Add(params.CSRFTokenExpiration),
	}
}

type Config struct {
	ExcludePaths []string
}

// New seeds a token into every session so forms can render it.
func New(config Config) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		for _, p := range config.ExcludePaths {
			if ok, _ := path.Match(p, ctx.Path()); ok {
				return ctx.Next()
			}
		}
		Get(sessions.Get(ctx))
		return ctx.Next()
	}
}
