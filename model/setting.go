package model

import "time"

// Setting is one row of the system key-value settings store. Values are stored
// as JSON so a key can hold a string, a number or a list.
type Setting struct {
	ID        uint   `gorm:"primarykey"`
	Key       string `gorm:"uniqueIndex;size:64;not null"`
	Value     string `gorm:"type:text;not null"`
	UpdatedBy uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SettingAllowedIPs holds the JSON array of ip patterns consulted by the ip
// restriction middleware. An empty or missing list allows every address.
const SettingAllowedIPs = "allowed_ips"
