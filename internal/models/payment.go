package models

import (
	"time"
)

// Payment transaction statuses as stored in payment_transactions.status.
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// PaymentTransaction records one provider-issued transaction. The unique
// index on TransactionID plus the Credited flag is the idempotence guard:
// a transaction is credited to a user's balance at most once no matter how
// many times verification runs.
// DB: payment_transactions
type PaymentTransaction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TransactionID string    `gorm:"column:transaction_id;size:128;not null;uniqueIndex:payment_tx_transaction_id_key" json:"transaction_id"`
	OrderID       string    `gorm:"column:order_id;size:128;not null" json:"order_id"`
	PlanID        *string   `gorm:"column:plan_id;size:32" json:"plan_id,omitempty"`
	UserID        *uint     `gorm:"column:user_id;index" json:"user_id,omitempty"`
	Amount        int64     `gorm:"column:amount;not null;default:0" json:"amount"`
	Currency      string    `gorm:"column:currency;size:8;not null;default:'IRR'" json:"currency"`
	Status        string    `gorm:"column:status;size:16;not null;default:'pending'" json:"status"`
	Credited      bool      `gorm:"column:credited;not null;default:false" json:"credited"`
	CoinsAdded    int       `gorm:"column:coins_added;not null;default:0" json:"coins_added"`
	CreatedAt     time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
