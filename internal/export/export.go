package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"gorm.io/gorm"
)

// Service renders facility records as CSV. Access-scope filtering happens
// before calling in; the exporter writes whatever it is given.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) maintenanceRows(ctx context.Context, facilityID uint) ([]*model.MaintenanceHistory, error) {
	var rows []*model.MaintenanceHistory
	err := s.db.WithContext(ctx).
		Where("facility_id = ?", facilityID).
		Order("performed_at DESC").
		Find(&rows).Error
	return rows, err
}

// WriteMaintenanceCSV streams one facility's maintenance history. Headers are
// localized to match the application screens.
func (s *Service) WriteMaintenanceCSV(ctx context.Context, w io.Writer, facilityID uint) error {
	rows, err := s.maintenanceRows(ctx, facilityID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"ID", "タイトル", "内容", "費用", "実施日", "ステータス"}); err != nil {
		return err
	}
	for _, row := range rows {
		performedAt := ""
		if row.PerformedAt != nil {
			performedAt = row.PerformedAt.Format("2006-01-02")
		}
		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.Title,
			row.Detail,
			strconv.FormatInt(row.Cost, 10),
			performedAt,
			row.ApprovalStatus,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
