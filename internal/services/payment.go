package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mojtabasji/HistoryBox-sub000/internal/database"
	"github.com/mojtabasji/HistoryBox-sub000/internal/logger"
	"github.com/mojtabasji/HistoryBox-sub000/internal/models"
	"github.com/mojtabasji/HistoryBox-sub000/internal/plans"
	"github.com/mojtabasji/HistoryBox-sub000/pkg/payment"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentService drives checkout and reconciles provider confirmations into
// coin credits. The provider client is injected at construction.
type PaymentService struct {
	db          *database.DB
	provider    *payment.Client
	callbackURL string
	log         *zap.SugaredLogger
}

func NewPaymentService(db *database.DB, provider *payment.Client, callbackURL string) *PaymentService {
	return &PaymentService{
		db:          db,
		provider:    provider,
		callbackURL: callbackURL,
		log:         logger.GetLogger("payment"),
	}
}

// CheckoutResult is returned to the client so it can redirect to the gateway.
type CheckoutResult struct {
	URL     string `json:"url"`
	OrderID string `json:"order_id"`
}

// Checkout starts a purchase of the given plan for a user and records the
// pending transaction when the provider hands one back.
func (s *PaymentService) Checkout(ctx context.Context, userID uint, planID string) (*CheckoutResult, error) {
	plan, ok := plans.Get(planID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown plan %q", ErrInvalidInput, planID)
	}

	orderID := plans.EncodeOrderID(plan.ID)
	resp, err := s.provider.CreatePayment(ctx, &payment.CreatePaymentRequest{
		OrderID:     orderID,
		Amount:      plan.Price,
		Currency:    "IRR",
		Description: fmt.Sprintf("HistoryBox %s coin bundle (%d coins)", plan.ID, plan.Coins),
		CallbackURL: s.callbackURL,
	})
	if err != nil {
		s.log.Errorw("create-payment failed", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	// The provider may only assign a transaction id later; record what we have
	// so verification can correlate by order id too.
	if resp.TransactionID != "" {
		pid := plan.ID
		tx := models.PaymentTransaction{
			TransactionID: resp.TransactionID,
			OrderID:       orderID,
			PlanID:        &pid,
			UserID:        &userID,
			Amount:        plan.Price,
			Currency:      "IRR",
			Status:        models.PaymentStatusPending,
		}
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tx).Error; err != nil {
			s.log.Warnw("failed to record pending transaction", "transaction_id", resp.TransactionID, "error", err)
		}
	}

	s.log.Infow("checkout created", "user_id", userID, "plan", plan.ID, "order_id", orderID)

	return &CheckoutResult{URL: resp.URL, OrderID: orderID}, nil
}

// VerificationResult reports the outcome of reconciling one transaction.
type VerificationResult struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	OrderID       string `json:"order_id,omitempty"`
	Amount        int64  `json:"amount,omitempty"`
	Currency      string `json:"currency,omitempty"`
	PlanID        string `json:"planId,omitempty"`
	Credited      bool   `json:"credited"`
	CoinsAdded    int    `json:"coinsAdded,omitempty"`
	NewBalance    *int   `json:"newBalance,omitempty"`
	// Raw provider payload for diagnostics
	Verify interface{} `json:"verify,omitempty"`
}

// VerifyAndCredit confirms a transaction with the provider and credits the
// session user's balance exactly once. Re-verifying an already-credited
// transaction is a no-op that returns the recorded outcome.
func (s *PaymentService) VerifyAndCredit(ctx context.Context, transactionID, subject string) (*VerificationResult, error) {
	verify, err := s.provider.Verify(ctx, transactionID)
	if err != nil {
		s.log.Errorw("provider verify failed", "transaction_id", transactionID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	s.log.Infow("provider verify response",
		"transaction_id", transactionID,
		"status", verify.Status,
		"payload", string(verify.Raw),
	)

	result := &VerificationResult{
		Status:        verify.Status,
		TransactionID: verify.TransactionID,
		OrderID:       verify.OrderID,
		Amount:        verify.Amount,
		Currency:      verify.Currency,
		Verify:        verify.Raw,
	}

	if !verify.Success() {
		// A failed payment is a valid terminal outcome, not an error.
		s.recordOutcome(verify, nil, "", 0)
		return result, nil
	}

	planID := plans.DecodePlanID(verify.OrderID)
	if planID == "" {
		planID = plans.DecodePlanIDLoose(verify.Description)
	}
	result.PlanID = planID

	if planID == "" {
		// Payment went through but we cannot tell which bundle it was for.
		// Recoverable anomaly: report success without crediting.
		s.log.Warnw("could not decode plan from provider payload",
			"transaction_id", transactionID, "order_id", verify.OrderID)
		s.recordOutcome(verify, nil, "", 0)
		return result, nil
	}

	if subject == "" {
		s.recordOutcome(verify, nil, planID, 0)
		return result, nil
	}

	var user models.User
	err = s.db.Where("subject = ?", subject).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	plan, _ := plans.Get(planID)

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		// Claim the transaction id first; the unique index makes this the
		// idempotence gate.
		record := models.PaymentTransaction{
			TransactionID: verify.TransactionID,
			OrderID:       verify.OrderID,
			PlanID:        &planID,
			UserID:        &user.ID,
			Amount:        verify.Amount,
			Currency:      verify.Currency,
			Status:        models.PaymentStatusSuccess,
			Credited:      true,
			CoinsAdded:    plan.Coins,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).Create(&record)
		if res.Error != nil {
			return res.Error
		}

		var existing models.PaymentTransaction
		inserted := res.RowsAffected > 0
		if !inserted {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("transaction_id = ?", verify.TransactionID).
				First(&existing).Error; err != nil {
				return err
			}
		}

		switch resolveClaim(inserted, &existing) {
		case claimRepeat:
			return ErrAlreadyProcessed
		case claimPending:
			if err := tx.Model(&existing).Updates(map[string]interface{}{
				"status":      models.PaymentStatusSuccess,
				"credited":    true,
				"coins_added": plan.Coins,
				"user_id":     user.ID,
				"plan_id":     planID,
			}).Error; err != nil {
				return err
			}
		}

		return creditTx(tx, user.ID, plan.Coins)
	})

	if errors.Is(txErr, ErrAlreadyProcessed) {
		// Return the recorded outcome instead of a fresh credit.
		balance := 0
		if err := s.db.Model(&models.User{}).Select("coins").
			Where("id = ?", user.ID).Scan(&balance).Error; err == nil {
			result.NewBalance = &balance
		}
		result.Credited = false
		result.AlreadyProcessed()
		return result, nil
	}
	if txErr != nil {
		return nil, txErr
	}

	balance, err := balanceOf(s.db.DB, user.ID)
	if err != nil {
		return nil, err
	}

	result.Credited = true
	result.CoinsAdded = plan.Coins
	result.NewBalance = &balance

	s.log.Infow("transaction credited",
		"transaction_id", verify.TransactionID,
		"user_id", user.ID,
		"plan", planID,
		"coins_added", plan.Coins,
		"new_balance", balance,
	)

	return result, nil
}

// AlreadyProcessed marks the result as a repeat of an earlier credit.
func (r *VerificationResult) AlreadyProcessed() {
	r.Status = "already_processed"
}

// claimAction is the outcome of claiming a transaction row.
type claimAction int

const (
	// claimNew means this call created the row and owns the credit.
	claimNew claimAction = iota
	// claimPending means a pending checkout row exists; this call takes it
	// over and credits.
	claimPending
	// claimRepeat means the transaction was already credited; no coins move.
	claimRepeat
)

// resolveClaim decides how a verification attempt proceeds given the state
// of the payment_transactions row after the conditional insert. The unique
// index on transaction_id guarantees exactly one caller sees claimNew or
// claimPending for a given transaction; every later caller sees claimRepeat.
func resolveClaim(inserted bool, existing *models.PaymentTransaction) claimAction {
	switch {
	case inserted:
		return claimNew
	case existing.Credited:
		return claimRepeat
	default:
		return claimPending
	}
}

// recordOutcome persists a non-crediting verification outcome so operators
// can audit provider responses. Best effort; failures only log.
func (s *PaymentService) recordOutcome(verify *payment.VerifyResponse, userID *uint, planID string, coins int) {
	status := models.PaymentStatusFailed
	if verify.Success() {
		status = models.PaymentStatusSuccess
	}

	var pid *string
	if planID != "" {
		pid = &planID
	}

	record := models.PaymentTransaction{
		TransactionID: verify.TransactionID,
		OrderID:       verify.OrderID,
		PlanID:        pid,
		UserID:        userID,
		Amount:        verify.Amount,
		Currency:      verify.Currency,
		Status:        status,
		CoinsAdded:    coins,
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}},
		DoNothing: true,
	}).Create(&record).Error; err != nil {
		s.log.Warnw("failed to record verification outcome",
			"transaction_id", verify.TransactionID, "error", err)
	}
}

// balanceOf reads a user's coin balance through a transaction handle.
func balanceOf(tx *gorm.DB, userID uint) (int, error) {
	var user models.User
	if err := tx.Select("coins").First(&user, userID).Error; err != nil {
		return 0, err
	}
	return user.Coins, nil
}
