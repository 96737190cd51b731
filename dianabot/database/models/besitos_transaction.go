package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BesitosTransaction is the audit log of the ledger. Amount is positive for
// grants and negative for deductions.
type BesitosTransaction struct {
	bun.BaseModel `bun:"table:besitos_transactions,alias:bt"`

	ID           int64     `bun:"id,pk,autoincrement"`
	UserID       int64     `bun:"user_id,notnull"`
	Amount       int64     `bun:"amount,notnull"`
	Reason       string    `bun:"reason,notnull"`
	BalanceAfter int64     `bun:"balance_after,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}
