package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	ApprovalStatusDraft    = "draft"
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// LandInfo records land and building master data for one facility.
type LandInfo struct {
	ID             uint   `gorm:"primarykey"`
	FacilityID     uint   `gorm:"index;not null"`
	ParcelNumber   string `gorm:"size:64"`
	SiteArea       float64
	BuildingArea   float64
	Ownership      string `gorm:"size:32"`
	ApprovalStatus string `gorm:"size:16;not null;default:draft"`
	UpdatedBy      uint
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (l *LandInfo) BeforeCreate(tx *gorm.DB) error {
	if l.ID == 0 {
		l.ID = GenerateID()
	}
	return nil
}

// LifelineEquipment records utility equipment (electric, gas, water, elevator).
type LifelineEquipment struct {
	ID             uint   `gorm:"primarykey"`
	FacilityID     uint   `gorm:"index;not null"`
	Category       string `gorm:"size:32;not null"`
	Vendor         string `gorm:"size:128"`
	ModelNumber    string `gorm:"size:64"`
	InstalledAt    *time.Time
	ApprovalStatus string `gorm:"size:16;not null;default:draft"`
	UpdatedBy      uint
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (l *LifelineEquipment) BeforeCreate(tx *gorm.DB) error {
	if l.ID == 0 {
		l.ID = GenerateID()
	}
	return nil
}

// MaintenanceHistory records one maintenance or repair event.
type MaintenanceHistory struct {
	ID             uint   `gorm:"primarykey"`
	FacilityID     uint   `gorm:"index;not null"`
	Title          string `gorm:"size:128;not null"`
	Detail         string `gorm:"type:text"`
	Cost           int64
	PerformedAt    *time.Time
	ApprovalStatus string `gorm:"size:16;not null;default:draft"`
	UpdatedBy      uint
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (m *MaintenanceHistory) BeforeCreate(tx *gorm.DB) error {
	if m.ID == 0 {
		m.ID = GenerateID()
	}
	return nil
}

// Contract records a vendor contract attached to a facility.
type Contract struct {
	ID             uint   `gorm:"primarykey"`
	FacilityID     uint   `gorm:"index;not null"`
	Title          string `gorm:"size:128;not null"`
	Vendor         string `gorm:"size:128"`
	StartsOn       *time.Time
	EndsOn         *time.Time
	AutoRenew      bool   `gorm:"default:false;not null"`
	ApprovalStatus string `gorm:"size:16;not null;default:draft"`
	UpdatedBy      uint
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == 0 {
		c.ID = GenerateID()
	}
	return nil
}

// Drawing records an architectural drawing reference for a facility.
type Drawing struct {
	ID             uint   `gorm:"primarykey"`
	FacilityID     uint   `gorm:"index;not null"`
	Title          string `gorm:"size:128;not null"`
	DrawingNumber  string `gorm:"size:64"`
	FileID         *uint  `gorm:"index"`
	ApprovalStatus string `gorm:"size:16;not null;default:draft"`
	UpdatedBy      uint
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (d *Drawing) BeforeCreate(tx *gorm.DB) error {
	if d.ID == 0 {
		d.ID = GenerateID()
	}
	return nil
}
