package services

import (
	"errors"

	"github.com/mojtabasji/HistoryBox-sub000/internal/database"
	"github.com/mojtabasji/HistoryBox-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Economic constants of the unlock ledger.
const (
	// UnlockCost is the coin price of one unlock action.
	UnlockCost = 2
	// UnlockStep is how many additional posts one unlock reveals.
	UnlockStep = 10
)

type UnlockService struct {
	db *database.DB
}

func NewUnlockService(db *database.DB) *UnlockService {
	return &UnlockService{db: db}
}

// UnlockResult is what a successful unlock returns.
type UnlockResult struct {
	UnlockedCount int `json:"unlocked_count"`
	Coins         int `json:"coins"`
}

// Unlock spends UnlockCost coins to reveal the next UnlockStep posts of a
// region to a user. The debit and the unlock-record update commit together
// or not at all; the region and unlock rows are locked so concurrent unlocks
// from the same user serialize and the count stays monotonic.
func (s *UnlockService) Unlock(userID uint, regionHash string) (*UnlockResult, error) {
	var result UnlockResult

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		var region models.Region
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("geohash = ?", regionHash).
			First(&region).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := debitTx(tx, userID, UnlockCost); err != nil {
			return err
		}

		var record models.UnlockRecord
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND region_id = ?", userID, region.ID).
			First(&record).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			record = models.UnlockRecord{
				UserID:        userID,
				RegionID:      region.ID,
				UnlockedCount: nextUnlockedCount(0, region.PostCount),
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			record.UnlockedCount = nextUnlockedCount(record.UnlockedCount, region.PostCount)
			if err := tx.Model(&record).
				UpdateColumn("unlocked_count", record.UnlockedCount).Error; err != nil {
				return err
			}
		}

		var user models.User
		if err := tx.Select("coins").First(&user, userID).Error; err != nil {
			return err
		}

		result = UnlockResult{
			UnlockedCount: record.UnlockedCount,
			Coins:         user.Coins,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &result, nil
}

// nextUnlockedCount advances an unlock window by one step, capped at the
// region's post count. A region already fully unlocked stays where it is
// (the spend is still allowed).
func nextUnlockedCount(current, postCount int) int {
	next := current + UnlockStep
	if next > postCount {
		next = postCount
	}
	// A fresh unlock of an empty or tiny region never goes below the current
	// progress.
	if next < current {
		next = current
	}
	return next
}
