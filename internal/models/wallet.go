package models

import "time"

type Wallet struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex" json:"user_id"`

	Balance float64 `json:"balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WalletTransaction is an append-only ledger entry. BalanceAfter carries
// the wallet balance resulting from this entry, so the history is
// auditable without replaying it.
type WalletTransaction struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	WalletID uint `gorm:"index" json:"wallet_id"`

	Amount       float64 `json:"amount"`
	Direction    string  `gorm:"size:10" json:"direction"`
	BalanceAfter float64 `json:"balance_after"`

	Reason    string `gorm:"size:100" json:"reason"`
	Reference string `gorm:"size:64" json:"reference"`

	CreatedAt time.Time `json:"created_at"`
}
