package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/mojtabasji/HistoryBox-sub000/internal/database"
	"github.com/mojtabasji/HistoryBox-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserService owns the user rows and the coin ledger. All balance mutations
// go through Credit/Debit; nothing else reads-then-writes coins.
type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

// GetBySubject finds the user for an external identity without creating one.
func (s *UserService) GetBySubject(subject string) (*models.User, error) {
	var user models.User
	err := s.db.Where("subject = ?", subject).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreateBySubject resolves the internal user for an external identity,
// creating the row on first authenticated interaction. Safe under concurrent
// first contact via the unique index on subject.
func (s *UserService) GetOrCreateBySubject(subject string, phone *string) (*models.User, error) {
	user := models.User{Subject: subject, Phone: phone}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subject"}},
		DoNothing: true,
	}).Create(&user).Error
	if err != nil {
		return nil, err
	}

	// On conflict the insert is a no-op and leaves ID unset; re-read either way
	// so the caller always sees the persisted row.
	var out models.User
	if err := s.db.Where("subject = ?", subject).First(&out).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	s.db.Model(&out).UpdateColumn("last_seen", now)
	out.LastSeen = &now

	return &out, nil
}

// Balance returns the user's current coin balance.
func (s *UserService) Balance(userID uint) (int, error) {
	var user models.User
	err := s.db.Select("coins").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return user.Coins, nil
}

// Credit adds coins to a user's balance.
func (s *UserService) Credit(userID uint, amount int) error {
	return creditTx(s.db.DB, userID, amount)
}

// Debit removes coins from a user's balance, rejecting the debit when the
// balance would go negative.
func (s *UserService) Debit(userID uint, amount int) error {
	return debitTx(s.db.DB, userID, amount)
}

// creditTx applies a credit inside an arbitrary transaction handle.
func creditTx(tx *gorm.DB, userID uint, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: credit amount must be positive", ErrInvalidInput)
	}

	result := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("coins", gorm.Expr("coins + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// debitTx applies a debit inside an arbitrary transaction handle. The balance
// check and the decrement are one conditional UPDATE, so concurrent debits on
// the same user cannot both spend the same coins.
func debitTx(tx *gorm.DB, userID uint, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: debit amount must be positive", ErrInvalidInput)
	}

	result := tx.Model(&models.User{}).
		Where("id = ? AND coins >= ?", userID, amount).
		UpdateColumn("coins", gorm.Expr("coins - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing user from an underfunded one.
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrInsufficientCoins
	}
	return nil
}
