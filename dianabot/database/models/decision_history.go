package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DecisionHistory is the append-only log of taken decisions. FragmentKey is
// the key of the fragment the decision was taken FROM, which is what the
// DECISION_TAKEN requirement kind matches against. Rows are never deleted,
// not even when their fragment is soft-deleted.
type DecisionHistory struct {
	bun.BaseModel `bun:"table:decision_history,alias:dh"`

	ID                  int64     `bun:"id,pk,autoincrement"`
	UserID              int64     `bun:"user_id,notnull"`
	FragmentKey         string    `bun:"fragment_key,notnull"`
	DecisionID          int64     `bun:"decision_id,notnull"`
	DecidedAt           time.Time `bun:"decided_at,notnull"`
	ResponseTimeSeconds *float64  `bun:"response_time_seconds"`
}
