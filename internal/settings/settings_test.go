package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	return NewService(NewRepository(db)), db
}

func TestPutAndGetRoundTrip(t *testing.T) {
	service, _ := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, service.PutJSON(ctx, "site_notice", "メンテナンスのお知らせ", 1))
	got, err := service.GetString(ctx, "site_notice")
	require.NoError(t, err)
	assert.Equal(t, "メンテナンスのお知らせ", got)

	// overwrite keeps one row per key
	require.NoError(t, service.PutJSON(ctx, "site_notice", "更新済み", 2))
	got, err = service.GetString(ctx, "site_notice")
	require.NoError(t, err)
	assert.Equal(t, "更新済み", got)
}

func TestGetStringSlice(t *testing.T) {
	service, _ := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, service.PutJSON(ctx, model.SettingAllowedIPs,
		[]string{"192.168.1.0/24", "10.0.0.1"}, 1))
	patterns, err := service.GetStringSlice(ctx, model.SettingAllowedIPs)
	require.NoError(t, err)
	assert.Equal(t, []string{"192.168.1.0/24", "10.0.0.1"}, patterns)

	_, err = service.GetStringSlice(ctx, "missing")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestAllowedIPsFailOpen(t *testing.T) {
	service, db := setupTestService(t)
	ctx := context.Background()

	// unset: no restriction
	assert.Empty(t, service.AllowedIPs(ctx))

	// configured: patterns returned
	require.NoError(t, service.PutJSON(ctx, model.SettingAllowedIPs, []string{"192.168.1.*"}, 1))
	assert.Equal(t, []string{"192.168.1.*"}, service.AllowedIPs(ctx))

	// corrupt value: degrade to no restriction rather than lock operators out
	require.NoError(t, db.Model(&model.Setting{}).
		Where("`key` = ?", model.SettingAllowedIPs).
		Update("value", "{not json").Error)
	assert.Empty(t, service.AllowedIPs(ctx))
}
