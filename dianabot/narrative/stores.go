package narrative

import (
	"context"

	"github.com/dianabot/dianabot/dianabot/database/models"
)

//go:generate mockgen -source=stores.go -destination=mock/stores.go -package=mock

// GraphStore is the read surface of the fragment graph the engine runs on.
// Lookups return (nil, nil) when no active row matches; the engine maps that
// to its own error taxonomy.
type GraphStore interface {
	// FragmentByKey returns the active fragment with the given key, with its
	// active decisions and requirements eager-loaded in display order. A
	// fragment whose chapter has been retired does not resolve.
	FragmentByKey(ctx context.Context, key string) (*models.Fragment, error)
	// DecisionByID returns the decision with its owning fragment loaded.
	// Soft-deleted decisions are returned with Active=false so the caller can
	// distinguish "inactive" from "never existed".
	DecisionByID(ctx context.Context, id int64) (*models.Decision, error)
	// EntryFragment returns the chapter's active entry-point fragment with the
	// lowest display order, or (nil, nil) if the chapter has none.
	EntryFragment(ctx context.Context, chapterID int64) (*models.Fragment, error)
	ActiveChapters(ctx context.Context) ([]*models.Chapter, error)
	// FragmentsByChapter returns all fragments of a chapter, active or not,
	// with decisions and requirements loaded. The validator needs the full
	// picture; runtime callers filter on Active themselves.
	FragmentsByChapter(ctx context.Context, chapterID int64) ([]*models.Fragment, error)
}

// ProgressStore owns per-user narrative state and the decision log.
type ProgressStore interface {
	// Progress returns (nil, nil) when the user has no progress row yet.
	Progress(ctx context.Context, userID int64) (*models.UserProgress, error)
	SaveProgress(ctx context.Context, progress *models.UserProgress) error
	AppendHistory(ctx context.Context, entry *models.DecisionHistory) error
	// HasDecisionAt reports whether the user ever took a decision from the
	// fragment with the given key.
	HasDecisionAt(ctx context.Context, userID int64, fragmentKey string) (bool, error)
	// ResponseTimes returns all recorded response times for the user, oldest
	// first. Entries without a measured time are skipped.
	ResponseTimes(ctx context.Context, userID int64) ([]float64, error)
}

// Ledger is the besitos contract consumed by the engine. Deduct fails with
// an InsufficientFundsError and no mutation when the balance is too low.
type Ledger interface {
	Balance(ctx context.Context, userID int64) (int64, error)
	Grant(ctx context.Context, userID int64, amount int64, reason string) (int64, error)
	Deduct(ctx context.Context, userID int64, amount int64, reason string) (int64, error)
}

// SubscriptionService reports VIP status.
type SubscriptionService interface {
	IsActiveSubscriber(ctx context.Context, userID int64) (bool, error)
}

// TxRunner wraps a unit of work in a single database transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TxRunnerFunc adapts a function to the TxRunner interface.
type TxRunnerFunc func(ctx context.Context, fn func(ctx context.Context) error) error

func (f TxRunnerFunc) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}
