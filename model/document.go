package model

import (
	"time"

	"gorm.io/gorm"
)

// DocumentFolder nests under an optional parent folder within one facility.
type DocumentFolder struct {
	ID         uint   `gorm:"primarykey"`
	FacilityID uint   `gorm:"index;not null"`
	ParentID   *uint  `gorm:"index"`
	Name       string `gorm:"size:128;not null"`
	CreatedBy  uint   `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (f *DocumentFolder) BeforeCreate(tx *gorm.DB) error {
	if f.ID == 0 {
		f.ID = GenerateID()
	}
	return nil
}

// DocumentFile keeps the uploaded name for display and a generated stored name
// so nothing user-controlled ever reaches the filesystem.
type DocumentFile struct {
	ID           uint   `gorm:"primarykey"`
	FacilityID   uint   `gorm:"index;not null"`
	FolderID     *uint  `gorm:"index"`
	OriginalName string `gorm:"size:256;not null"`
	StoredName   string `gorm:"uniqueIndex;size:64;not null"`
	Size         int64  `gorm:"not null"`
	ContentType  string `gorm:"size:128"`
	UploadedBy   uint   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (f *DocumentFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == 0 {
		f.ID = GenerateID()
	}
	return nil
}
