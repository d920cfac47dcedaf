package security

import (
	"strings"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares/csrf"
	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares/sessions"
	"github.com/Izumi-Yuya/shicecal-sub015/params"
	"github.com/gofiber/fiber/v2"
)

const StatusCSRFTokenMismatch = 419

func expectsJSON(ctx *fiber.Ctx) bool {
	return strings.Contains(ctx.Get(fiber.HeaderAccept), "application/json") || ctx.XHR()
}

type Config struct {
	Events    *EventLogger
	Limiter   *Limiter
	Detector  *SuspiciousDetector
	LoginPath string
}

func applyDefaults(config Config) Config {
	if config.LoginPath == "" {
		config.LoginPath = "/login"
	}
	return config
}

// New builds the document security middleware. The pipeline order is fixed
// and short-circuits on the first hard failure: authentication, rate limit,
// path traversal, csrf token presence, suspicious-activity scoring (advisory),
// upload checks.
func New(config Config) fiber.Handler {
	config = applyDefaults(config)
	return func(ctx *fiber.Ctx) error {
		// 1. Authentication. Rejected requests never touch a rate counter.
		sess := sessions.Get(ctx)
		if !sess.IsAuthenticated() {
			if expectsJSON(ctx) {
				return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"success": false,
					"message": "ログインが必要です。",
				})
			}
			return ctx.Redirect(config.LoginPath)
		}

		// 2. Rate limit per user and operation type.
		operationType := OperationType(ctx.Path(), ctx.Method())
		key := OperationKey(sess.UserID, operationType)
		count, err := config.Limiter.Hit(ctx.Context(), key, params.RateLimitWindow)
		if err != nil {
			return err
		}
		if count > Budget(operationType) {
			retryAfter := config.Limiter.AvailableIn(ctx.Context(), key)
			config.Events.Log(ctx, EventRateLimitExceeded,
				"operation_type", operationType, "attempts", count)
			if expectsJSON(ctx) {
				return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"success":     false,
					"message":     "リクエストが多すぎます。しばらくしてから再度お試しください。",
					"retry_after": retryAfter,
				})
			}
			return fiber.NewError(fiber.StatusTooManyRequests, "リクエストが多すぎます。")
		}

		// 3. Path traversal scan over every input and the raw url.
		if offending := DetectTraversal(ctx); len(offending) > 0 {
			config.Events.Log(ctx, EventPathTraversalAttempt,
				"input_keys", strings.Join(offending, ","))
			return fiber.NewError(fiber.StatusBadRequest, "不正なリクエストです。")
		}

		// 4. CSRF token presence for state-changing verbs. The value itself is
		// verified by the csrf middleware; missing outright is rejected here.
		switch ctx.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
			if csrf.TokenFromRequest(ctx) == "" {
				config.Events.Log(ctx, EventCSRFTokenMissing)
				if expectsJSON(ctx) {
					return ctx.Status(StatusCSRFTokenMismatch).JSON(fiber.Map{
						"success": false,
						"message": "セッションの有効期限が切れました。ページを再読み込みしてください。",
					})
				}
				return fiber.NewError(StatusCSRFTokenMismatch, "セッションの有効期限が切れました。")
			}
		}

		// 5. Suspicious-activity scoring. Advisory only.
		if score, signals := config.Detector.Score(ctx); IsSuspicious(score) {
			config.Events.Log(ctx, EventSuspiciousActivity,
				"score", score, "signals", strings.Join(signals, ","))
		}

		// 6. Upload checks, only on file and folder routes.
		path := strings.ToLower(ctx.Path())
		if strings.Contains(path, "/files") || strings.Contains(path, "/folders") {
			if filename, found := CheckUploads(ctx); found {
				config.Events.Log(ctx, EventExecutableUploadAttempt, "filename", filename)
				return fiber.NewError(fiber.StatusBadRequest, "このファイル形式はアップロードできません。")
			}
			if offending := SuspiciousParamNames(ctx); len(offending) > 0 {
				config.Events.Log(ctx, EventSuspiciousFilename,
					"input_keys", strings.Join(offending, ","))
			}
		}

		return ctx.Next()
	}
}
