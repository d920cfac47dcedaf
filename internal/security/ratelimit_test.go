package security

import (
	"context"
	"testing"
	"time"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationType(t *testing.T) {
	tests := []struct {
		path   string
		method string
		want   string
	}{
		{"/facilities/1/documents/files", fiber.MethodPost, OperationUpload},
		{"/facilities/1/documents/files/3/download", fiber.MethodGet, OperationDownload},
		{"/facilities/1/documents/files", fiber.MethodGet, OperationDefault},
		{"/facilities/1/documents/folders", fiber.MethodPost, OperationFolder},
		{"/facilities/1/documents/folders/3", fiber.MethodDelete, OperationFolder},
		{"/facilities/1/documents", fiber.MethodGet, OperationDefault},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OperationType(tt.path, tt.method), "%s %s", tt.method, tt.path)
	}
}

func TestBudget(t *testing.T) {
	assert.Equal(t, int64(20), Budget(OperationUpload))
	assert.Equal(t, int64(100), Budget(OperationDownload))
	assert.Equal(t, int64(30), Budget(OperationFolder))
	assert.Equal(t, int64(50), Budget(OperationDefault))
	assert.Equal(t, int64(50), Budget("unknown"))
}

func TestOperationKey(t *testing.T) {
	assert.Equal(t, "document_operations:10:upload", OperationKey(10, OperationUpload))
}

func TestLimiterHit(t *testing.T) {
	limiter := NewLimiter(store.NewMemoryStorage())
	ctx := context.Background()
	key := OperationKey(10, OperationUpload)

	for want := int64(1); want <= 3; want++ {
		count, err := limiter.Hit(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	// other users and operations count separately
	count, err := limiter.Hit(ctx, OperationKey(11, OperationUpload), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	count, err = limiter.Hit(ctx, OperationKey(10, OperationDownload), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLimiterAvailableIn(t *testing.T) {
	limiter := NewLimiter(store.NewMemoryStorage())
	ctx := context.Background()
	key := OperationKey(10, OperationUpload)

	// unknown key still reports a positive wait
	assert.Equal(t, 1, limiter.AvailableIn(ctx, key))

	_, err := limiter.Hit(ctx, key, time.Minute)
	require.NoError(t, err)
	got := limiter.AvailableIn(ctx, key)
	assert.GreaterOrEqual(t, got, 1)
	assert.LessOrEqual(t, got, 60)
}
