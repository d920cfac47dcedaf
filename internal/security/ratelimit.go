package security

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/store"
	"github.com/Izumi-Yuya/shicecal-sub015/params"
	"github.com/gofiber/fiber/v2"
)

const (
	OperationUpload   = "upload"
	OperationDownload = "download"
	OperationFolder   = "folder_operations"
	OperationDefault  = "default"
)

// OperationType classifies a document request into its rate budget bucket.
func OperationType(path string, method string) string {
	p := strings.ToLower(path)
	switch {
	case strings.Contains(p, "/files") && method == fiber.MethodPost:
		return OperationUpload
	case strings.Contains(p, "/download"):
		return OperationDownload
	case strings.Contains(p, "/folders"):
		return OperationFolder
	default:
		return OperationDefault
	}
}

// Budget returns the per-window attempt limit for an operation type.
func Budget(operationType string) int64 {
	switch operationType {
	case OperationUpload:
		return params.UploadRateLimit
	case OperationDownload:
		return params.DownloadRateLimit
	case OperationFolder:
		return params.FolderOperationRateLimit
	default:
		return params.DefaultRateLimit
	}
}

// Limiter is a fixed-window counter over the shared storage. The window starts
// on the first hit of a key and attempts inside it share one counter.
type Limiter struct {
	storage store.Storage
}

func NewLimiter(storage store.Storage) *Limiter {
	return &Limiter{storage: storage}
}

// Hit increments the counter for key and returns the attempt number within the
// current window.
func (l *Limiter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	return l.storage.Incr(ctx, key, window)
}

// AvailableIn returns the seconds remaining until the window for key resets.
func (l *Limiter) AvailableIn(ctx context.Context, key string) int {
	ttl, err := l.storage.TTL(ctx, key)
	if err != nil || ttl <= 0 {
		return 1
	}
	seconds := int(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

// OperationKey builds the counter key for one user and operation type.
func OperationKey(userID uint, operationType string) string {
	return fmt.Sprintf("%s%d:%s", params.RateLimitKeyPrefix, userID, operationType)
}
