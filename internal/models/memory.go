package models

import (
	"time"
)

// Memory represents a photo memory pinned to a coordinate. The owning region
// is always derived from (Lat, Lng) via the geohasher; editing coordinates
// re-derives it with matching post-count bookkeeping.
// DB: memories
type Memory struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"column:user_id;not null;index:idx_mem_user" json:"user_id"`
	RegionID    uint       `gorm:"column:region_id;not null;index:idx_mem_region" json:"region_id"`
	Title       string     `gorm:"column:title;size:255;not null" json:"title"`
	Description string     `gorm:"column:description;type:text;not null" json:"description"`
	ImageURL    string     `gorm:"column:image_url;type:text;not null" json:"image_url"`
	ImageKey    *string    `gorm:"column:image_key;size:255" json:"image_key,omitempty"`
	Lat         float64    `gorm:"column:lat;type:double precision;not null" json:"lat"`
	Lng         float64    `gorm:"column:lng;type:double precision;not null" json:"lng"`
	Address     *string    `gorm:"column:address;type:text" json:"address,omitempty"`
	MemoryDate  *time.Time `gorm:"column:memory_date" json:"memory_date,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null;autoCreateTime;index:idx_mem_created,sort:desc" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`

	// Relations
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Region Region `gorm:"foreignKey:RegionID" json:"region,omitempty"`
}

func (Memory) TableName() string {
	return "memories"
}
