package economy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/narrative"
)

// BesitosLedger implements the grant/deduct contract over the users table,
// with an append-only audit row per movement. Deduct is conditional at the
// SQL level; a refused deduction leaves no trace and fails with the
// narrative.InsufficientFundsError the Ledger interface promises.
type BesitosLedger struct {
	users repositories.UserRepository
}

func NewBesitosLedger(users repositories.UserRepository) *BesitosLedger {
	return &BesitosLedger{users: users}
}

func (l *BesitosLedger) Balance(ctx context.Context, userID int64) (int64, error) {
	return l.users.Balance(ctx, userID)
}

func (l *BesitosLedger) Grant(ctx context.Context, userID int64, amount int64, reason string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("grant amount must be positive, got %d", amount)
	}

	balance, err := l.users.AddBesitos(ctx, userID, amount)
	if err != nil {
		return 0, err
	}
	if err := l.users.LogTransaction(ctx, &models.BesitosTransaction{
		UserID:       userID,
		Amount:       amount,
		Reason:       reason,
		BalanceAfter: balance,
	}); err != nil {
		return 0, err
	}

	slog.Debug("Besitos granted",
		slog.Int64("user_id", userID),
		slog.Int64("amount", amount),
		slog.String("reason", reason),
		slog.Int64("balance", balance),
	)
	return balance, nil
}

func (l *BesitosLedger) Deduct(ctx context.Context, userID int64, amount int64, reason string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("deduct amount must be positive, got %d", amount)
	}

	balance, ok, err := l.users.DeductBesitos(ctx, userID, amount)
	if err != nil {
		return 0, err
	}
	if !ok {
		return balance, &narrative.InsufficientFundsError{UserID: userID, Required: amount, Balance: balance}
	}
	if err := l.users.LogTransaction(ctx, &models.BesitosTransaction{
		UserID:       userID,
		Amount:       -amount,
		Reason:       reason,
		BalanceAfter: balance,
	}); err != nil {
		return 0, err
	}

	slog.Debug("Besitos deducted",
		slog.Int64("user_id", userID),
		slog.Int64("amount", amount),
		slog.String("reason", reason),
		slog.Int64("balance", balance),
	)
	return balance, nil
}
