package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin            = "admin"
	RoleEditor           = "editor"
	RolePrimaryResponder = "primary_responder"
	RoleApprover         = "approver"
	RoleViewer           = "viewer"
)

// Roles lists every role the application recognizes.
var Roles = []string{RoleAdmin, RoleEditor, RolePrimaryResponder, RoleApprover, RoleViewer}

// User stores an operator account. Facility visibility is granted through
// FacilityAccess rows; admins implicitly see every facility.
type User struct {
	ID         uint             `gorm:"primarykey"`
	Name       string           `gorm:"size:64;not null"`
	Email      string           `gorm:"uniqueIndex;size:256;not null"`
	Password   string           `gorm:"size:64;not null"`
	Role       string           `gorm:"size:32;not null;default:viewer"`
	Disabled   bool             `gorm:"default:false;not null"`
	Facilities []FacilityAccess `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == 0 {
		u.ID = GenerateID()
	}
	return nil
}

func (u *User) HasRole(roles ...string) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasKnownRole reports whether the account carries one of the recognized roles.
func (u *User) HasKnownRole() bool {
	return u.HasRole(Roles...)
}
