package model

import "time"

// ActivityLog is the audit row recorded once per loggable request. Rows are
// write-once and never updated.
type ActivityLog struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	UserID      uint      `gorm:"index;not null"`
	Action      string    `gorm:"size:32;not null;index"`  // create, update, delete, download, export_csv...
	TargetType  string    `gorm:"size:32;not null;index"`  // facility, user, file, maintenance...
	TargetID    uint      `gorm:"index"`                   // zero when the request has no numeric target
	Description string    `gorm:"size:256;not null"`       // localized summary shown on the audit screen
	IP          string    `gorm:"size:45;not null"`        // IPv4/IPv6
	UserAgent   string    `gorm:"size:512"`                // user agent string
	Method      string    `gorm:"size:8;not null"`
	URL         string    `gorm:"size:512;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (ActivityLog) TableName() string {
	return "activity_log"
}
