package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mojtabasji/HistoryBox-sub000/internal/database"
	"github.com/mojtabasji/HistoryBox-sub000/internal/logger"
	"github.com/mojtabasji/HistoryBox-sub000/internal/models"
	"github.com/mojtabasji/HistoryBox-sub000/pkg/firebase"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// watchLimit caps how many regions one user can watch.
const watchLimit = 20

// WatchService lets users follow regions and pushes an FCM notification when
// a new memory lands in a watched region.
type WatchService struct {
	db  *database.DB
	fcm *firebase.FCMService
	log *zap.SugaredLogger
}

func NewWatchService(db *database.DB, fcm *firebase.FCMService) *WatchService {
	return &WatchService{db: db, fcm: fcm, log: logger.GetLogger("watch")}
}

type CreateWatchRequest struct {
	RegionHash string `json:"regionHash"`
}

type FCMRegisterRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type FCMUnregisterRequest struct {
	Token string `json:"token"`
}

// CreateWatch subscribes a user to a region.
func (s *WatchService) CreateWatch(userID uint, regionHash string) (*models.RegionWatch, error) {
	var region models.Region
	err := s.db.Where("geohash = ?", regionHash).First(&region).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var count int64
	s.db.Model(&models.RegionWatch{}).Where("user_id = ?", userID).Count(&count)
	if int(count) >= watchLimit {
		return nil, fmt.Errorf("%w: watch limit reached", ErrInvalidInput)
	}

	watch := models.RegionWatch{
		UserID:   userID,
		RegionID: region.ID,
		IsActive: true,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "region_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_active": true}),
	}).Create(&watch).Error
	if err != nil {
		return nil, err
	}

	return &watch, nil
}

// ListWatches retrieves all watches for a user.
func (s *WatchService) ListWatches(userID uint) ([]models.RegionWatch, error) {
	var watches []models.RegionWatch
	err := s.db.Preload("Region").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&watches).Error
	return watches, err
}

// DeleteWatch removes a watch owned by the user.
func (s *WatchService) DeleteWatch(userID, watchID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", watchID, userID).Delete(&models.RegionWatch{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RegisterDevice upserts an FCM token for a user.
func (s *WatchService) RegisterDevice(userID uint, req *FCMRegisterRequest) (*models.FCMDevice, error) {
	var device models.FCMDevice
	err := s.db.Where("token = ?", req.Token).First(&device).Error

	if err != nil {
		device = models.FCMDevice{
			UserID:   userID,
			Token:    req.Token,
			Platform: req.Platform,
			IsActive: true,
		}
		if err := s.db.Create(&device).Error; err != nil {
			return nil, err
		}
	} else {
		device.UserID = userID
		device.Platform = req.Platform
		device.IsActive = true
		if err := s.db.Save(&device).Error; err != nil {
			return nil, err
		}
	}

	return &device, nil
}

// UnregisterDevice removes an FCM token.
func (s *WatchService) UnregisterDevice(userID uint, token string) error {
	result := s.db.Where("user_id = ? AND token = ?", userID, token).Delete(&models.FCMDevice{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NotifyNewMemory pushes to everyone watching the memory's region, except the
// author. Called after the memory commit, off the request path.
func (s *WatchService) NotifyNewMemory(ctx context.Context, memory *models.Memory) {
	var watches []models.RegionWatch
	err := s.db.Preload("Region").
		Where("region_id = ? AND is_active = ? AND user_id <> ?", memory.RegionID, true, memory.UserID).
		Find(&watches).Error
	if err != nil {
		s.log.Errorw("failed to load watches", "region_id", memory.RegionID, "error", err)
		return
	}
	if len(watches) == 0 {
		return
	}

	userIDs := make([]uint, 0, len(watches))
	for _, w := range watches {
		userIDs = append(userIDs, w.UserID)
	}

	var tokens []string
	err = s.db.Model(&models.FCMDevice{}).
		Where("user_id IN ? AND is_active = ?", userIDs, true).
		Pluck("token", &tokens).Error
	if err != nil {
		s.log.Errorw("failed to load device tokens", "error", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	hash := watches[0].Region.Geohash
	result := s.fcm.SendPushMultiple(ctx, tokens,
		"New memory in a place you follow",
		fmt.Sprintf("Someone shared %q in region %s", memory.Title, hash),
		map[string]string{
			"type":        "region_memory",
			"region_hash": hash,
			"memory_id":   fmt.Sprintf("%d", memory.ID),
		},
	)

	// Only tokens FCM individually rejected as unregistered get deactivated.
	// A transport failure or an uninitialized client must leave healthy
	// devices alone.
	if len(result.UnregisteredTokens) > 0 {
		if err := s.db.Model(&models.FCMDevice{}).
			Where("token IN ?", result.UnregisteredTokens).
			Update("is_active", false).Error; err != nil {
			s.log.Warnw("failed to deactivate stale tokens", "error", err)
		}
	}

	s.log.Infow("watch notifications sent",
		"region_hash", hash,
		"success", result.SuccessCount,
		"failure", result.FailureCount,
	)
}
