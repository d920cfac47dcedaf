package activity

import (
	"context"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"gorm.io/gorm"
)

type Repository interface {
	Record(ctx context.Context, entry *model.ActivityLog) error
	Find(ctx context.Context, filter Filter) ([]*model.ActivityLog, error)
}

// Filter narrows audit listings. Zero values mean "any".
type Filter struct {
	UserID     uint
	Action     string
	TargetType string
	Limit      int
	Offset     int
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Record(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) Find(ctx context.Context, filter Filter) ([]*model.ActivityLog, error) {
	query := r.db.WithContext(ctx).Model(&model.ActivityLog{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.TargetType != "" {
		query = query.Where("target_type = ?", filter.TargetType)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []*model.ActivityLog
	err := query.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&entries).Error
	return entries, err
}
