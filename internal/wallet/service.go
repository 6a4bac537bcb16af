package wallet

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/harmoniawellness/wellness-scheduler/internal/models"
)

const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// Service owns the stored-value balance and its append-only ledger. Every
// balance mutation and its transaction record commit together; the ledger
// entry carries the resulting balance.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Credit adds amount to the user's wallet, creating the wallet with a zero
// starting balance when absent, and appends the ledger entry in the same
// storage transaction.
func (s *Service) Credit(
	ctx context.Context,
	userID uint,
	amount float64,
	reason string,
	reference string,
) (*models.WalletTransaction, error) {

	var txn models.WalletTransaction

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := getOrCreateWallet(tx, userID)
		if err != nil {
			return err
		}

		w.Balance += amount
		if err := tx.Save(w).Error; err != nil {
			return err
		}

		txn = models.WalletTransaction{
			WalletID:     w.ID,
			Amount:       amount,
			Direction:    DirectionCredit,
			BalanceAfter: w.Balance,
			Reason:       reason,
			Reference:    reference,
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, err
	}

	return &txn, nil
}

// Debit removes amount from the wallet, used when a booking is paid with
// stored value.
func (s *Service) Debit(
	ctx context.Context,
	userID uint,
	amount float64,
	reason string,
	reference string,
) (*models.WalletTransaction, error) {

	var txn models.WalletTransaction

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := getOrCreateWallet(tx, userID)
		if err != nil {
			return err
		}

		if w.Balance < amount {
			return ErrInsufficientBalance
		}

		w.Balance -= amount
		if err := tx.Save(w).Error; err != nil {
			return err
		}

		txn = models.WalletTransaction{
			WalletID:     w.ID,
			Amount:       amount,
			Direction:    DirectionDebit,
			BalanceAfter: w.Balance,
			Reason:       reason,
			Reference:    reference,
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, err
	}

	return &txn, nil
}

// GetStatement returns the wallet (zero-balance placeholder when absent)
// with its transaction history, newest first.
func (s *Service) GetStatement(
	ctx context.Context,
	userID uint,
) (*models.Wallet, []models.WalletTransaction, error) {

	var w models.Wallet
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.Wallet{UserID: userID}, []models.WalletTransaction{}, nil
		}
		return nil, nil, err
	}

	var txns []models.WalletTransaction
	if err := s.db.WithContext(ctx).
		Where("wallet_id = ?", w.ID).
		Order("id DESC").
		Find(&txns).Error; err != nil {
		return nil, nil, err
	}

	return &w, txns, nil
}

func getOrCreateWallet(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := tx.Where("user_id = ?", userID).First(&w).Error
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	w = models.Wallet{UserID: userID, Balance: 0}
	if err := tx.Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}
