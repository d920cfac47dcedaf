package model

import (
	"time"

	"gorm.io/gorm"
)

// Facility is the root entity every record in the application belongs to.
type Facility struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"size:128;not null"`
	Code      string `gorm:"uniqueIndex;size:32;not null"`
	Address   string `gorm:"size:256"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (f *Facility) BeforeCreate(tx *gorm.DB) error {
	if f.ID == 0 {
		f.ID = GenerateID()
	}
	return nil
}

// FacilityAccess grants a user visibility of one facility. CanEdit widens the
// grant to write operations for roles that allow editing.
type FacilityAccess struct {
	ID         uint `gorm:"primarykey"`
	UserID     uint `gorm:"index:idx_facility_access,unique;not null"`
	FacilityID uint `gorm:"index:idx_facility_access,unique;not null"`
	CanEdit    bool `gorm:"default:false;not null"`
	CreatedAt  time.Time
}

func (a *FacilityAccess) BeforeCreate(tx *gorm.DB) error {
	if a.ID == 0 {
		a.ID = GenerateID()
	}
	return nil
}
