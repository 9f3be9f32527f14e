package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int       `db:"id"`
	UID          string    `db:"uid"`
	Name         string    `db:"name"`
	Phone        string    `db:"phone"`
	Email        string    `db:"email"`
	Country      string    `db:"country"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
}

// Transaction direction: who acquires the stable asset.
const (
	DirectionBuy  string = "buy"
	DirectionSell string = "sell"
)

// Transaction lifecycle. Only pending -> complete and pending -> rejected
// are legal; terminal states are final.
const (
	StatusPending  string = "pending"
	StatusComplete string = "complete"
	StatusRejected string = "rejected"
)

// Transaction is immutable after creation except for the single state
// transition and its outcome fields. AppliedRate is a snapshot taken at
// creation time and is never recomputed.
type Transaction struct {
	ID             int             `db:"id"`
	TxID           string          `db:"tx_id"`
	UserID         int             `db:"user_id"`
	Direction      string          `db:"direction"`
	FiatAmount     decimal.Decimal `db:"fiat_amount"`
	StableAmount   decimal.Decimal `db:"stable_amount"`
	AppliedRate    decimal.Decimal `db:"applied_rate"`
	Network        string          `db:"network"`
	Operator       string          `db:"operator"`
	WalletAddress  string          `db:"wallet_address"`
	MerchantNumber string          `db:"merchant_number"`
	Status         string          `db:"status"`
	RejectReason   string          `db:"reject_reason"`
	CreatedAt      time.Time       `db:"created_at"`
	DecidedAt      *time.Time      `db:"decided_at"`
}

// DailyRate holds the official pair for one calendar date. SellRate must
// always exceed BuyRate.
type DailyRate struct {
	ID        int             `db:"id"`
	RateDate  time.Time       `db:"rate_date"`
	BuyRate   decimal.Decimal `db:"buy_rate"`
	SellRate  decimal.Decimal `db:"sell_rate"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// Notification type tags are part of the wire contract with the mobile
// clients and must not be renamed.
const (
	NotifTxCreated   string = "transaction_created"
	NotifTxApproved  string = "transaction_validee"
	NotifTxRejected  string = "transaction_rejetee"
	NotifRateUpdated string = "rate_updated"
)

// Notification is addressed to exactly one of UserID or AdminID.
type Notification struct {
	ID        int       `db:"id"`
	UserID    *int      `db:"user_id"`
	AdminID   *int      `db:"admin_id"`
	Type      string    `db:"type"`
	Message   string    `db:"message"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

type PushToken struct {
	ID        int       `db:"id"`
	UserID    int       `db:"user_id"`
	Token     string    `db:"token"`
	Platform  string    `db:"platform"`
	IsActive  bool      `db:"is_active"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Admin wallet inventory: mobile-money merchant numbers keyed by operator
// and crypto payout addresses keyed by network.
const (
	WalletTypeMobileMoney string = "mobile_money"
	WalletTypeCrypto      string = "crypto"
)

type AdminWallet struct {
	ID         int       `db:"id"`
	Network    string    `db:"network"`
	Address    string    `db:"address"`
	Country    string    `db:"country"`
	WalletType string    `db:"wallet_type"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
}
