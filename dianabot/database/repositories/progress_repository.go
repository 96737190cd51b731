package repositories

import (
	"context"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

// ProgressRepository owns per-user narrative state and the append-only
// decision log.
type ProgressRepository interface {
	Progress(ctx context.Context, userID int64) (*models.UserProgress, error)
	SaveProgress(ctx context.Context, progress *models.UserProgress) error
	AppendHistory(ctx context.Context, entry *models.DecisionHistory) error
	HistoryByUser(ctx context.Context, userID int64, limit int) ([]*models.DecisionHistory, error)
	HasDecisionAt(ctx context.Context, userID int64, fragmentKey string) (bool, error)
	ResponseTimes(ctx context.Context, userID int64) ([]float64, error)
}

type progressRepository struct {
	baseRepository
}

func NewProgressRepository(db *bun.DB) ProgressRepository {
	return &progressRepository{baseRepository{db: db}}
}

func (r *progressRepository) Progress(ctx context.Context, userID int64) (*models.UserProgress, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	progress := new(models.UserProgress)
	err := r.conn(ctx).NewSelect().
		Model(progress).
		Where("user_id = ?", userID).
		Scan(ctx)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get", "user_progress", err)
	}
	return progress, nil
}

// SaveProgress inserts or updates the single progress row of the user.
func (r *progressRepository) SaveProgress(ctx context.Context, progress *models.UserProgress) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if progress.ID == 0 {
		_, err := r.conn(ctx).NewInsert().
			Model(progress).
			On("CONFLICT (user_id) DO UPDATE").
			Set("current_chapter_id = EXCLUDED.current_chapter_id").
			Set("current_fragment_key = EXCLUDED.current_fragment_key").
			Set("detected_archetype = EXCLUDED.detected_archetype").
			Set("archetype_confidence = EXCLUDED.archetype_confidence").
			Set("total_decisions = EXCLUDED.total_decisions").
			Set("chapters_completed = EXCLUDED.chapters_completed").
			Set("last_interaction = EXCLUDED.last_interaction").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return wrapErr("save", "user_progress", err)
	}

	_, err := r.conn(ctx).NewUpdate().
		Model(progress).
		WherePK().
		Exec(ctx)
	return wrapErr("save", "user_progress", err)
}

func (r *progressRepository) AppendHistory(ctx context.Context, entry *models.DecisionHistory) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if entry.DecidedAt.IsZero() {
		entry.DecidedAt = time.Now()
	}
	_, err := r.conn(ctx).NewInsert().Model(entry).Exec(ctx)
	return wrapErr("append", "decision_history", err)
}

func (r *progressRepository) HistoryByUser(ctx context.Context, userID int64, limit int) ([]*models.DecisionHistory, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var entries []*models.DecisionHistory
	q := r.conn(ctx).NewSelect().
		Model(&entries).
		Where("user_id = ?", userID).
		Order("decided_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(ctx)
	return entries, wrapErr("list", "decision_history", err)
}

func (r *progressRepository) HasDecisionAt(ctx context.Context, userID int64, fragmentKey string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	exists, err := r.conn(ctx).NewSelect().
		Model((*models.DecisionHistory)(nil)).
		Where("user_id = ?", userID).
		Where("fragment_key = ?", fragmentKey).
		Exists(ctx)
	return exists, wrapErr("exists", "decision_history", err)
}

func (r *progressRepository) ResponseTimes(ctx context.Context, userID int64) ([]float64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var times []float64
	err := r.conn(ctx).NewSelect().
		Model((*models.DecisionHistory)(nil)).
		Column("response_time_seconds").
		Where("user_id = ?", userID).
		Where("response_time_seconds IS NOT NULL").
		Order("decided_at ASC", "id ASC").
		Scan(ctx, &times)
	return times, wrapErr("response_times", "decision_history", err)
}
