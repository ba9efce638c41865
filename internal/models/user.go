package models

import (
	"time"
)

// User represents the users table. Identity comes from the external auth
// provider; Subject is the opaque subject id it issues.
// DB: users
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Subject   string     `gorm:"column:subject;size:255;not null;uniqueIndex:users_subject_key" json:"-"`
	Phone     *string    `gorm:"column:phone;size:32" json:"phone,omitempty"`
	Coins     int        `gorm:"column:coins;not null;default:0" json:"coins"`
	LastSeen  *time.Time `gorm:"column:last_seen" json:"last_seen,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`

	// Relations
	Memories   []Memory       `gorm:"foreignKey:UserID" json:"memories,omitempty"`
	Unlocks    []UnlockRecord `gorm:"foreignKey:UserID" json:"unlocks,omitempty"`
	FCMDevices []FCMDevice    `gorm:"foreignKey:UserID" json:"fcm_devices,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FCMDevice represents FCM device tokens for region watch pushes
// DB: fcm_devices
type FCMDevice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	Token     string    `gorm:"column:token;size:500;not null;uniqueIndex" json:"token"`
	Platform  string    `gorm:"column:platform;size:20;not null" json:"platform"`
	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (FCMDevice) TableName() string {
	return "fcm_devices"
}
