package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"testing"
	"time"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	return db
}

func TestWriteMaintenanceCSV(t *testing.T) {
	db := setupTestDB(t)
	performedAt := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&model.MaintenanceHistory{
		FacilityID:     1,
		Title:          "エレベーター定期点検",
		Detail:         "年次法定点検",
		Cost:           120000,
		PerformedAt:    &performedAt,
		ApprovalStatus: model.ApprovalStatusApproved,
	}).Error)
	// another facility's row must not leak into the export
	require.NoError(t, db.Create(&model.MaintenanceHistory{
		FacilityID: 2,
		Title:      "外壁補修",
	}).Error)

	var buf bytes.Buffer
	require.NoError(t, NewService(db).WriteMaintenanceCSV(context.Background(), &buf, 1))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"ID", "タイトル", "内容", "費用", "実施日", "ステータス"}, records[0])
	assert.Equal(t, "エレベーター定期点検", records[1][1])
	assert.Equal(t, "120000", records[1][3])
	assert.Equal(t, "2026-04-15", records[1][4])
	assert.Equal(t, model.ApprovalStatusApproved, records[1][5])
}

func TestWriteMaintenanceCSVEmptyFacility(t *testing.T) {
	db := setupTestDB(t)

	var buf bytes.Buffer
	require.NoError(t, NewService(db).WriteMaintenanceCSV(context.Background(), &buf, 99))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1, "header only")
}
