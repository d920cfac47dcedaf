package settings

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

var ErrSettingNotFound = errors.New("setting not found")

type Repository interface {
	Get(ctx context.Context, key string) (*model.Setting, error)
	Put(ctx context.Context, key string, value string, updatedBy uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, key string) (*model.Setting, error) {
	var setting model.Setting
	err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *repository) Put(ctx context.Context, key string, value string, updatedBy uint) error {
	setting, err := r.Get(ctx, key)
	if errors.Is(err, ErrSettingNotFound) {
		return r.db.WithContext(ctx).Create(&model.Setting{
			Key:       key,
			Value:     value,
			UpdatedBy: updatedBy,
		}).Error
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(setting).
		Updates(map[string]interface{}{"value": value, "updated_by": updatedBy}).Error
}

// Service reads and writes the JSON-valued system settings store.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetString(ctx context.Context, key string) (string, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	var val any
	if err := json.Unmarshal([]byte(setting.Value), &val); err != nil {
		return "", err
	}
	return cast.ToString(val), nil
}

// GetStringSlice decodes a JSON array setting. Non-string elements are
// coerced; a missing or undecodable value yields an empty slice.
func (s *Service) GetStringSlice(ctx context.Context, key string) ([]string, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var raw []any
	if err := json.Unmarshal([]byte(setting.Value), &raw); err != nil {
		return nil, err
	}
	values := make([]string, 0, len(raw))
	for _, item := range raw {
		if str := cast.ToString(item); str != "" {
			values = append(values, str)
		}
	}
	return values, nil
}

func (s *Service) PutJSON(ctx context.Context, key string, value any, updatedBy uint) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.repo.Put(ctx, key, string(data), updatedBy)
}

// AllowedIPs implements the ip restriction provider. Any read or decode
// failure degrades to "no restriction"; locking every operator out over a
// corrupt setting row is worse than a window of open access.
func (s *Service) AllowedIPs(ctx context.Context) []string {
	patterns, err := s.GetStringSlice(ctx, model.SettingAllowedIPs)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			slog.Warn("Could not read allowed_ips setting, allowing all", "error", err)
		}
		return nil
	}
	return patterns
}
