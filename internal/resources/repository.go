package resources

import (
	"context"
	"errors"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("record not found")

// Repository is the shared storage access for facility-scoped records. Every
// record type carries FacilityID and ApprovalStatus columns, which is all the
// approval workflow needs.
type Repository[T any] struct {
	db *gorm.DB
}

func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

func (r *Repository[T]) Get(ctx context.Context, id uint) (*T, error) {
	var record T
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Repository[T]) ListByFacility(ctx context.Context, facilityID uint) ([]*T, error) {
	var records []*T
	err := r.db.WithContext(ctx).
		Where("facility_id = ?", facilityID).
		Order("updated_at DESC").
		Find(&records).Error
	return records, err
}

func (r *Repository[T]) Create(ctx context.Context, record *T) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *Repository[T]) Updates(ctx context.Context, id uint, columns map[string]interface{}) error {
	var record T
	return r.db.WithContext(ctx).Model(&record).Where("id = ?", id).Updates(columns).Error
}

// SetApprovalStatus drives the approve/reject workflow transitions.
func (r *Repository[T]) SetApprovalStatus(ctx context.Context, id uint, status string, updatedBy uint) error {
	return r.Updates(ctx, id, map[string]interface{}{
		"approval_status": status,
		"updated_by":      updatedBy,
	})
}

// Repositories bundles one repository per guarded record type.
type Repositories struct {
	LandInfo    *Repository[model.LandInfo]
	Lifeline    *Repository[model.LifelineEquipment]
	Maintenance *Repository[model.MaintenanceHistory]
	Contract    *Repository[model.Contract]
	Drawing     *Repository[model.Drawing]
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		LandInfo:    NewRepository[model.LandInfo](db),
		Lifeline:    NewRepository[model.LifelineEquipment](db),
		Maintenance: NewRepository[model.MaintenanceHistory](db),
		Contract:    NewRepository[model.Contract](db),
		Drawing:     NewRepository[model.Drawing](db),
	}
}
