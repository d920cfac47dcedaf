package activity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func newRequest(method string, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	return db
}

func TestServiceLogAndList(t *testing.T) {
	service := NewService(NewRepository(setupTestDB(t)))
	ctx := context.Background()

	require.NoError(t, service.Log(ctx, Entry{
		UserID:     10,
		Action:     ActionDownload,
		TargetType: "file",
		TargetID:   3,
		IP:         "192.168.1.5",
		UserAgent:  "test-agent",
		Method:     "GET",
		URL:        "/facilities/5/documents/files/3/download",
	}))
	require.NoError(t, service.Log(ctx, Entry{
		UserID:     11,
		Action:     ActionUpdate,
		TargetType: "facility",
		TargetID:   5,
		IP:         "192.168.1.6",
		Method:     "PUT",
		URL:        "/facilities/5/contracts/9",
	}))

	entries, err := service.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = service.List(ctx, Filter{UserID: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionDownload, entries[0].Action)
	assert.Equal(t, "ファイルをダウンロードしました", entries[0].Description)

	entries, err = service.List(ctx, Filter{Action: ActionUpdate})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint(11), entries[0].UserID)
}

func TestFindLimitClamped(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Record(ctx, &model.ActivityLog{
			UserID: 1, Action: ActionView, TargetType: "facility",
			Description: "x", IP: "127.0.0.1", Method: "GET", URL: "/",
		}))
	}

	entries, err := repo.Find(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = repo.Find(ctx, Filter{Limit: -1})
	require.NoError(t, err)
	assert.Len(t, entries, 5, "non-positive limit falls back to the default")
}
