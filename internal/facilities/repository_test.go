package facilities

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

func setupTestDB(t *testing.T, tablePrefix string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   tablePrefix,
			SingularTable: true,
		},
	})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	return db
}

func seedFacilities(t *testing.T, db *gorm.DB) {
	repo := NewFacilityRepository(db)
	grants := NewAccessRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Facility{ID: 1, Name: "さくら苑", Code: "F002"}))
	require.NoError(t, repo.Create(ctx, &model.Facility{ID: 2, Name: "ひまわりの家", Code: "F001"}))
	require.NoError(t, repo.Create(ctx, &model.Facility{ID: 3, Name: "すみれ荘", Code: "F003"}))
	require.NoError(t, grants.Grant(ctx, &model.FacilityAccess{UserID: 10, FacilityID: 1}))
	require.NoError(t, grants.Grant(ctx, &model.FacilityAccess{UserID: 10, FacilityID: 2, CanEdit: true}))
	require.NoError(t, grants.Grant(ctx, &model.FacilityAccess{UserID: 11, FacilityID: 3}))
}

func TestListForUser(t *testing.T) {
	db := setupTestDB(t, "")
	seedFacilities(t, db)

	facilities, err := NewFacilityRepository(db).ListForUser(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, facilities, 2)
	assert.Equal(t, "F001", facilities[0].Code)
	assert.Equal(t, "F002", facilities[1].Code)
}

func TestListForUserWithTablePrefix(t *testing.T) {
	// the naming strategy must resolve every table name in the query,
	// prefixed deployments included
	db := setupTestDB(t, "app_")
	seedFacilities(t, db)

	facilities, err := NewFacilityRepository(db).ListForUser(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, facilities, 2)
	assert.Equal(t, "F001", facilities[0].Code)

	facilities, err = NewFacilityRepository(db).ListForUser(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, facilities)
}
