package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mojtabasji/HistoryBox-sub000/internal/database"
	"github.com/mojtabasji/HistoryBox-sub000/internal/geo"
	"github.com/mojtabasji/HistoryBox-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Teaser constants for locked posts.
const (
	lockedCaption   = "Locked"
	teaserWordCount = 5
	teaserPageSize  = 10
	lockedSuffix    = " …"
)

type RegionService struct {
	db *database.DB
}

func NewRegionService(db *database.DB) *RegionService {
	return &RegionService{db: db}
}

// Resolve returns the region owning (lat, lng), creating it on first use.
// Concurrent first-time creation of the same cell is collapsed by the unique
// index on geohash.
func (s *RegionService) Resolve(lat, lng float64) (*models.Region, error) {
	if err := geo.Validate(lat, lng); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return resolveRegionTx(s.db.DB, geo.Encode(lat, lng))
}

// GetByHash looks up a region by its geohash.
func (s *RegionService) GetByHash(hash string) (*models.Region, error) {
	var region models.Region
	err := s.db.Where("geohash = ?", hash).First(&region).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &region, nil
}

// resolveRegionTx get-or-creates a region row inside a transaction handle.
func resolveRegionTx(tx *gorm.DB, hash string) (*models.Region, error) {
	region := models.Region{Geohash: hash}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "geohash"}},
		DoNothing: true,
	}).Create(&region).Error
	if err != nil {
		return nil, err
	}

	var out models.Region
	if err := tx.Where("geohash = ?", hash).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// adjustPostCountTx atomically shifts a region's post count, never below
// zero. A decrement that would underflow a drifted count clamps to zero
// instead of failing the caller's write.
func adjustPostCountTx(tx *gorm.DB, regionID uint, delta int) error {
	result := tx.Model(&models.Region{}).
		Where("id = ? AND post_count + ? >= 0", regionID, delta).
		UpdateColumn("post_count", gorm.Expr("post_count + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Region{}).Where("id = ?", regionID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: region %d", ErrNotFound, regionID)
		}
		return tx.Model(&models.Region{}).Where("id = ?", regionID).
			UpdateColumn("post_count", 0).Error
	}
	return nil
}

// RegionSummary is the region header of a view response.
type RegionSummary struct {
	ID        uint   `json:"id"`
	Hash      string `json:"hash"`
	PostCount int    `json:"post_count"`
}

// PostView is one post as exposed to a viewer. Locked posts keep the image
// URL but carry a masked caption, a truncated description and Blurred=true.
type PostView struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Address     *string    `json:"address,omitempty"`
	MemoryDate  *time.Time `json:"memory_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Blurred     bool       `json:"blurred"`
}

// RegionViewResponse is the content-gated view of one region.
type RegionViewResponse struct {
	Region    RegionSummary `json:"region"`
	Unlocked  bool          `json:"unlocked"`
	CanUnlock bool          `json:"can_unlock"`
	Posts     []PostView    `json:"posts"`
}

// View resolves a region by hash and applies the content gate for the viewer.
// viewerID is nil for anonymous requests; any unlock progress at all switches
// the viewer to the full view of their unlocked window.
func (s *RegionService) View(hash string, viewerID *uint) (*RegionViewResponse, error) {
	region, err := s.GetByHash(hash)
	if err != nil {
		return nil, err
	}

	unlockedCount := 0
	if viewerID != nil {
		var record models.UnlockRecord
		err := s.db.Where("user_id = ? AND region_id = ?", *viewerID, region.ID).First(&record).Error
		if err == nil {
			unlockedCount = record.UnlockedCount
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	limit := teaserPageSize
	if unlockedCount > limit {
		limit = unlockedCount
	}

	var memories []models.Memory
	if err := s.db.Where("region_id = ?", region.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&memories).Error; err != nil {
		return nil, err
	}

	unlocked := unlockedCount >= 1
	posts := make([]PostView, 0, len(memories))
	for _, m := range memories {
		if unlocked {
			posts = append(posts, fullPostView(&m))
		} else {
			posts = append(posts, teaserPostView(&m))
		}
	}

	return &RegionViewResponse{
		Region: RegionSummary{
			ID:        region.ID,
			Hash:      region.Geohash,
			PostCount: region.PostCount,
		},
		Unlocked:  unlocked,
		CanUnlock: viewerID != nil,
		Posts:     posts,
	}, nil
}

func fullPostView(m *models.Memory) PostView {
	return PostView{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		Address:     m.Address,
		MemoryDate:  m.MemoryDate,
		CreatedAt:   m.CreatedAt,
	}
}

func teaserPostView(m *models.Memory) PostView {
	return PostView{
		ID:          m.ID,
		Title:       lockedCaption,
		Description: teaserDescription(m.Description),
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt,
		Blurred:     true,
	}
}

// teaserDescription keeps only the first few words of the real description so
// locked posts reveal a hook but not the content.
func teaserDescription(full string) string {
	words := strings.Fields(full)
	if len(words) == 0 {
		return lockedSuffix
	}
	if len(words) > teaserWordCount {
		words = words[:teaserWordCount]
	}
	return strings.Join(words, " ") + lockedSuffix
}
