package economy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/narrative"
)

type fakeUserRepository struct {
	balances map[int64]int64
	logged   []*models.BesitosTransaction
}

func (r *fakeUserRepository) GetOrCreate(context.Context, int64, string, string) (*models.User, error) {
	return nil, nil
}

func (r *fakeUserRepository) ByTelegramID(context.Context, int64) (*models.User, error) {
	return nil, nil
}

func (r *fakeUserRepository) Balance(_ context.Context, telegramID int64) (int64, error) {
	return r.balances[telegramID], nil
}

func (r *fakeUserRepository) AddBesitos(_ context.Context, telegramID int64, amount int64) (int64, error) {
	r.balances[telegramID] += amount
	return r.balances[telegramID], nil
}

func (r *fakeUserRepository) DeductBesitos(_ context.Context, telegramID int64, amount int64) (int64, bool, error) {
	if r.balances[telegramID] < amount {
		return r.balances[telegramID], false, nil
	}
	r.balances[telegramID] -= amount
	return r.balances[telegramID], true, nil
}

func (r *fakeUserRepository) LogTransaction(_ context.Context, tx *models.BesitosTransaction) error {
	r.logged = append(r.logged, tx)
	return nil
}

func (r *fakeUserRepository) SetVIP(context.Context, int64, time.Time) error {
	return nil
}

func Test_BesitosLedger_Deduct(t *testing.T) {
	ctx := context.Background()
	userID := int64(42)

	t.Run("covered deduction updates balance and logs an audit row", func(t *testing.T) {
		users := &fakeUserRepository{balances: map[int64]int64{userID: 50}}
		ledger := NewBesitosLedger(users)

		balance, err := ledger.Deduct(ctx, userID, 10, "decision:7")
		if err != nil {
			t.Fatalf("BesitosLedger.Deduct() error = %v", err)
		}
		if balance != 40 {
			t.Errorf("balance = %d, want 40", balance)
		}
		if len(users.logged) != 1 {
			t.Fatalf("audit rows = %d, want 1", len(users.logged))
		}
		if tx := users.logged[0]; tx.Amount != -10 || tx.BalanceAfter != 40 || tx.Reason != "decision:7" {
			t.Errorf("audit row = %+v, want amount -10 at balance 40", tx)
		}
	})

	t.Run("refused deduction fails with insufficient funds and no mutation", func(t *testing.T) {
		users := &fakeUserRepository{balances: map[int64]int64{userID: 3}}
		ledger := NewBesitosLedger(users)

		balance, err := ledger.Deduct(ctx, userID, 10, "decision:7")
		if !narrative.IsInsufficientFunds(err) {
			t.Fatalf("BesitosLedger.Deduct() error = %v, want InsufficientFundsError", err)
		}
		var funds *narrative.InsufficientFundsError
		if !errors.As(err, &funds) || funds.Required != 10 || funds.Balance != 3 {
			t.Errorf("error detail = %+v, want required 10 at balance 3", funds)
		}
		if balance != 3 || users.balances[userID] != 3 {
			t.Errorf("balance after refusal = %d, want untouched 3", users.balances[userID])
		}
		if len(users.logged) != 0 {
			t.Errorf("audit rows = %d, want none for a refused deduction", len(users.logged))
		}
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		users := &fakeUserRepository{balances: map[int64]int64{userID: 50}}
		ledger := NewBesitosLedger(users)

		if _, err := ledger.Deduct(ctx, userID, 0, "decision:7"); err == nil {
			t.Error("BesitosLedger.Deduct() error = nil for a zero amount")
		}
		if users.balances[userID] != 50 {
			t.Errorf("balance = %d, want untouched 50", users.balances[userID])
		}
	})
}

func Test_BesitosLedger_Grant(t *testing.T) {
	ctx := context.Background()
	userID := int64(42)

	users := &fakeUserRepository{balances: map[int64]int64{userID: 5}}
	ledger := NewBesitosLedger(users)

	balance, err := ledger.Grant(ctx, userID, 7, "decision:8")
	if err != nil {
		t.Fatalf("BesitosLedger.Grant() error = %v", err)
	}
	if balance != 12 {
		t.Errorf("balance = %d, want 12", balance)
	}
	if len(users.logged) != 1 || users.logged[0].Amount != 7 {
		t.Errorf("audit rows = %+v, want one grant of 7", users.logged)
	}
}
