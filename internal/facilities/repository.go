package facilities

import (
	"context"
	"errors"

	"github.com/Izumi-Yuya/shicecal-sub015/model"
	"gorm.io/gorm"
)

var ErrFacilityNotFound = errors.New("facility not found")

type FacilityRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Facility, error)
	List(ctx context.Context) ([]*model.Facility, error)
	ListForUser(ctx context.Context, userID uint) ([]*model.Facility, error)
	Create(ctx context.Context, facility *model.Facility) error
}

type facilityRepository struct {
	db *gorm.DB
}

func NewFacilityRepository(db *gorm.DB) FacilityRepository {
	return &facilityRepository{db: db}
}

func (r *facilityRepository) GetByID(ctx context.Context, id uint) (*model.Facility, error) {
	var facility model.Facility
	err := r.db.WithContext(ctx).First(&facility, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFacilityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &facility, nil
}

func (r *facilityRepository) List(ctx context.Context) ([]*model.Facility, error) {
	var facilities []*model.Facility
	err := r.db.WithContext(ctx).Order("code").Find(&facilities).Error
	return facilities, err
}

func (r *facilityRepository) ListForUser(ctx context.Context, userID uint) ([]*model.Facility, error) {
	var facilities []*model.Facility
	// subquery through the model so the naming strategy resolves both table
	// names, table prefix included
	grants := r.db.Model(&model.FacilityAccess{}).
		Select("facility_id").
		Where("user_id = ?", userID)
	err := r.db.WithContext(ctx).
		Where("id IN (?)", grants).
		Order("code").
		Find(&facilities).Error
	return facilities, err
}

func (r *facilityRepository) Create(ctx context.Context, facility *model.Facility) error {
	return r.db.WithContext(ctx).Create(facility).Error
}

// AccessRepository manages the user-facility grants the access control layer
// reads. It satisfies access.GrantReader.
type AccessRepository struct {
	db *gorm.DB
}

func NewAccessRepository(db *gorm.DB) *AccessRepository {
	return &AccessRepository{db: db}
}

func (r *AccessRepository) FindGrant(ctx context.Context, userID uint, facilityID uint) (*model.FacilityAccess, error) {
	var grant model.FacilityAccess
	err := r.db.WithContext(ctx).
		First(&grant, "user_id = ? AND facility_id = ?", userID, facilityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

func (r *AccessRepository) Grant(ctx context.Context, grant *model.FacilityAccess) error {
	return r.db.WithContext(ctx).Create(grant).Error
}
