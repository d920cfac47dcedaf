package sessions

import (
	"crypto/rand"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	sessionContextKey = "session"
	sessionDataKey    = "data"
)

func init() {
	gob.Register(SessionData{})
}

type SessionData struct {
	IP        string    // client ip address at login
	UserID    uint      // user id, zero when anonymous
	Role      string    // role snapshot taken at login
	LoginTime time.Time // last login time
	LastSeen  time.Time // last request time
}

func (s *SessionData) IsAuthenticated() bool {
	return s.UserID != 0
}

type Session struct {
	*session.Session
	SessionData
}

func (s *Session) Save(data ...SessionData) {
	if len(data) > 0 {
		s.SessionData = data[0]
	}
	s.Set(sessionDataKey, s.SessionData)
}

func (s *Session) Destroy() error {
	s.SessionData = SessionData{}
	return s.Session.Destroy()
}

func newSession(sess *session.Session) *Session {
	data, _ := sess.Get(sessionDataKey).(SessionData)
	return &Session{
		Session:     sess,
		SessionData: data,
	}
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Could not generate session id", "error", err)
		return ""
	}
	return hex.EncodeToString(b)
}

// Get returns the request session. The sessions middleware must run first.
func Get(ctx *fiber.Ctx) *Session {
	return ctx.Locals(sessionContextKey).(*Session)
}

// Peek returns the request session without requiring the middleware to have
// run, for callers that may sit outside the session scope.
func Peek(ctx *fiber.Ctx) (*Session, bool) {
	sess, ok := ctx.Locals(sessionContextKey).(*Session)
	return sess, ok
}

// Destroy deletes the current session and clears its cookie.
func Destroy(ctx *fiber.Ctx) error {
	sess := ctx.Locals(sessionContextKey).(*Session)
	return sess.Destroy()
}

type Config struct {
	Storage        fiber.Storage
	SessionMaxAge  time.Duration
	CookieSecure   bool
	CookieHttpOnly bool
	CookieName     string
}

func New(config Config) fiber.Handler {
	store := session.New(session.Config{
		Storage:        config.Storage,
		Expiration:     config.SessionMaxAge,
		CookieSecure:   config.CookieSecure,
		CookieHTTPOnly: config.CookieHttpOnly,
		KeyLookup:      fmt.Sprintf("cookie:%s", config.CookieName),
		KeyGenerator:   generateSessionID,
	})

	return func(ctx *fiber.Ctx) error {
		sess, err := store.Get(ctx)
		if err != nil {
			return err
		}

		session := newSession(sess)
		ctx.Locals(sessionContextKey, session)
		if err := ctx.Next(); err != nil {
			return err
		}

		if len(session.Keys()) > 0 {
			if data := session.SessionData; data != (SessionData{}) {
				data.LastSeen = time.Now()
				sess.Set(sessionDataKey, data)
			}
			return sess.Save()
		}
		return nil
	}
}
