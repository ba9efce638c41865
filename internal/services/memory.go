package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/mojtabasji/HistoryBox-sub000/internal/database"
	"github.com/mojtabasji/HistoryBox-sub000/internal/geo"
	"github.com/mojtabasji/HistoryBox-sub000/internal/models"
	"gorm.io/gorm"
)

type MemoryService struct {
	db *database.DB
}

func NewMemoryService(db *database.DB) *MemoryService {
	return &MemoryService{db: db}
}

type CreateMemoryRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	ImageKey    *string `json:"image_key,omitempty"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Address     *string `json:"address,omitempty"`
	MemoryDate  *string `json:"memory_date,omitempty"`
}

type UpdateMemoryRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	Address     *string  `json:"address,omitempty"`
}

// Create stores a memory, resolving its region from the coordinate and
// bumping that region's post count in the same transaction.
func (s *MemoryService) Create(userID uint, req *CreateMemoryRequest) (*models.Memory, error) {
	if req.Title == "" || req.ImageURL == "" {
		return nil, fmt.Errorf("%w: title and image_url are required", ErrInvalidInput)
	}
	if err := geo.Validate(req.Lat, req.Lng); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var memoryDate *time.Time
	if req.MemoryDate != nil && *req.MemoryDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.MemoryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: memory_date must be YYYY-MM-DD", ErrInvalidInput)
		}
		memoryDate = &parsed
	}

	var memory models.Memory

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		region, err := resolveRegionTx(tx, geo.Encode(req.Lat, req.Lng))
		if err != nil {
			return err
		}

		memory = models.Memory{
			UserID:      userID,
			RegionID:    region.ID,
			Title:       req.Title,
			Description: req.Description,
			ImageURL:    req.ImageURL,
			ImageKey:    req.ImageKey,
			Lat:         req.Lat,
			Lng:         req.Lng,
			Address:     req.Address,
			MemoryDate:  memoryDate,
		}
		if err := tx.Create(&memory).Error; err != nil {
			return err
		}

		return adjustPostCountTx(tx, region.ID, 1)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &memory, nil
}

// ListMine returns a user's own memories, newest first.
func (s *MemoryService) ListMine(userID uint, page, limit int) ([]models.Memory, int64, error) {
	var memories []models.Memory
	var total int64

	query := s.db.Model(&models.Memory{}).Where("user_id = ?", userID)
	query.Count(&total)

	offset := (page - 1) * limit
	err := query.Preload("Region").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&memories).Error
	if err != nil {
		return nil, 0, err
	}
	return memories, total, nil
}

// Update edits a memory owned by userID. A coordinate change re-derives the
// region; the post count moves from the old region to the new one in the
// same transaction so neither count is ever half-adjusted.
func (s *MemoryService) Update(userID, memoryID uint, req *UpdateMemoryRequest) (*models.Memory, error) {
	var memory models.Memory

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", memoryID).First(&memory).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if memory.UserID != userID {
			return ErrForbidden
		}

		if req.Title != nil {
			memory.Title = *req.Title
		}
		if req.Description != nil {
			memory.Description = *req.Description
		}
		if req.ImageURL != nil {
			memory.ImageURL = *req.ImageURL
		}
		if req.Address != nil {
			memory.Address = req.Address
		}

		if req.Lat != nil || req.Lng != nil {
			lat, lng := memory.Lat, memory.Lng
			if req.Lat != nil {
				lat = *req.Lat
			}
			if req.Lng != nil {
				lng = *req.Lng
			}
			if err := geo.Validate(lat, lng); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}

			oldRegionID := memory.RegionID
			region, err := resolveRegionTx(tx, geo.Encode(lat, lng))
			if err != nil {
				return err
			}

			memory.Lat = lat
			memory.Lng = lng
			memory.RegionID = region.ID

			if region.ID != oldRegionID {
				if err := adjustPostCountTx(tx, oldRegionID, -1); err != nil {
					return err
				}
				if err := adjustPostCountTx(tx, region.ID, 1); err != nil {
					return err
				}
			}
		}

		return tx.Save(&memory).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	return &memory, nil
}

// Delete removes a memory owned by userID and decrements its region's post
// count atomically.
func (s *MemoryService) Delete(userID, memoryID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var memory models.Memory
		err := tx.Where("id = ?", memoryID).First(&memory).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if memory.UserID != userID {
			return ErrForbidden
		}

		if err := tx.Delete(&memory).Error; err != nil {
			return err
		}

		return adjustPostCountTx(tx, memory.RegionID, -1)
	})
}
