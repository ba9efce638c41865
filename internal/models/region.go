package models

import (
	"time"
)

// Region groups memories by geohash cell. Created on the first memory placed
// in a previously-unseen cell and never deleted; PostCount is the running
// total of memories attached to it.
// DB: regions
type Region struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Geohash    string    `gorm:"column:geohash;size:12;not null;uniqueIndex:regions_geohash_key" json:"hash"`
	LegacyHash *string   `gorm:"column:legacy_hash;size:64" json:"-"`
	PostCount  int       `gorm:"column:post_count;not null;default:0" json:"post_count"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`

	// Relations
	Memories []Memory `gorm:"foreignKey:RegionID" json:"memories,omitempty"`
}

func (Region) TableName() string {
	return "regions"
}

// UnlockRecord tracks how many of a region's posts a user may view in full.
// UnlockedCount only grows and is capped at the region's PostCount.
// DB: unlock_records
type UnlockRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"column:user_id;not null;uniqueIndex:unlock_records_user_region_key,priority:1" json:"user_id"`
	RegionID      uint      `gorm:"column:region_id;not null;uniqueIndex:unlock_records_user_region_key,priority:2" json:"region_id"`
	UnlockedCount int       `gorm:"column:unlocked_count;not null;default:0" json:"unlocked_count"`
	CreatedAt     time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`

	// Relations
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Region Region `gorm:"foreignKey:RegionID" json:"region,omitempty"`
}

func (UnlockRecord) TableName() string {
	return "unlock_records"
}

// RegionWatch subscribes a user to push notifications for new memories in a
// region.
// DB: region_watches
type RegionWatch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:region_watches_user_region_key,priority:1" json:"user_id"`
	RegionID  uint      `gorm:"column:region_id;not null;uniqueIndex:region_watches_user_region_key,priority:2" json:"region_id"`
	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relations
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Region Region `gorm:"foreignKey:RegionID" json:"region,omitempty"`
}

func (RegionWatch) TableName() string {
	return "region_watches"
}
