package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/dianabot/dianabot/dianabot/database"
	"github.com/dianabot/dianabot/dianabot/database/models"
	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"
)

const fragmentCacheSize = 2048

// GraphRepository owns the narrative graph entities: chapters, fragments,
// decisions and requirements. All deletes are soft; decision history is never
// touched from here.
type GraphRepository interface {
	// Chapters
	CreateChapter(ctx context.Context, chapter *models.Chapter) error
	UpdateChapter(ctx context.Context, chapter *models.Chapter) error
	SoftDeleteChapter(ctx context.Context, chapterID int64) error
	ChapterBySlug(ctx context.Context, slug string) (*models.Chapter, error)
	ChapterByID(ctx context.Context, chapterID int64) (*models.Chapter, error)
	ActiveChapters(ctx context.Context) ([]*models.Chapter, error)

	// Fragments
	FragmentByKey(ctx context.Context, key string) (*models.Fragment, error)
	FragmentKeyExists(ctx context.Context, key string) (bool, error)
	EntryFragment(ctx context.Context, chapterID int64) (*models.Fragment, error)
	FragmentsByChapter(ctx context.Context, chapterID int64) ([]*models.Fragment, error)
	UpsertFragment(ctx context.Context, fragment *models.Fragment) error
	SoftDeleteFragment(ctx context.Context, key string) error

	// Decisions
	DecisionByID(ctx context.Context, id int64) (*models.Decision, error)
}

type graphRepository struct {
	baseRepository
	fragmentCache *lru.Cache
}

func NewGraphRepository(db *bun.DB) GraphRepository {
	cache, _ := lru.New(fragmentCacheSize)
	return &graphRepository{
		baseRepository: baseRepository{db: db},
		fragmentCache:  cache,
	}
}

// Chapters

func (r *graphRepository) CreateChapter(ctx context.Context, chapter *models.Chapter) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	exists, err := r.conn(ctx).NewSelect().
		Model((*models.Chapter)(nil)).
		Where("slug = ?", chapter.Slug).
		Exists(ctx)
	if err != nil {
		return wrapErr("create", "chapter", err)
	}
	if exists {
		return &ConflictError{Entity: "chapter", Field: "slug", Value: chapter.Slug}
	}

	now := time.Now()
	chapter.CreatedAt = now
	chapter.UpdatedAt = now
	_, err = r.conn(ctx).NewInsert().Model(chapter).Exec(ctx)
	return wrapErr("create", "chapter", err)
}

func (r *graphRepository) UpdateChapter(ctx context.Context, chapter *models.Chapter) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	chapter.UpdatedAt = time.Now()
	_, err := r.conn(ctx).NewUpdate().Model(chapter).WherePK().Exec(ctx)
	return wrapErr("update", "chapter", err)
}

func (r *graphRepository) SoftDeleteChapter(ctx context.Context, chapterID int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.conn(ctx).NewUpdate().
		Model((*models.Chapter)(nil)).
		Set("active = ?", false).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", chapterID).
		Exec(ctx)
	if err == nil {
		// Fragments of the chapter may be cached with stale chapter state.
		r.fragmentCache.Purge()
	}
	return wrapErr("soft_delete", "chapter", err)
}

func (r *graphRepository) ChapterBySlug(ctx context.Context, slug string) (*models.Chapter, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	chapter := new(models.Chapter)
	err := r.conn(ctx).NewSelect().
		Model(chapter).
		Where("slug = ?", slug).
		Scan(ctx)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get_by_slug", "chapter", err)
	}
	return chapter, nil
}

func (r *graphRepository) ChapterByID(ctx context.Context, chapterID int64) (*models.Chapter, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	chapter := new(models.Chapter)
	err := r.conn(ctx).NewSelect().
		Model(chapter).
		Where("id = ?", chapterID).
		Scan(ctx)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get_by_id", "chapter", err)
	}
	return chapter, nil
}

func (r *graphRepository) ActiveChapters(ctx context.Context) ([]*models.Chapter, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var chapters []*models.Chapter
	err := r.conn(ctx).NewSelect().
		Model(&chapters).
		Where("active = ?", true).
		Order("display_order ASC", "id ASC").
		Scan(ctx)
	return chapters, wrapErr("list_active", "chapter", err)
}

// Fragments

// FragmentByKey resolves only content that is actually live: the fragment and
// its owning chapter must both be active. The validator treats fragments of
// retired chapters as missing, and runtime traversal has to agree.
func (r *graphRepository) FragmentByKey(ctx context.Context, key string) (*models.Fragment, error) {
	// Inside a transaction the cache could serve state the tx has already
	// changed, so it is bypassed there.
	if !database.InTx(ctx) {
		if cached, ok := r.fragmentCache.Get(key); ok {
			return cached.(*models.Fragment), nil
		}
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	fragment := new(models.Fragment)
	err := r.conn(ctx).NewSelect().
		Model(fragment).
		Relation("Decisions", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("active = ?", true).Order("display_order ASC", "id ASC")
		}).
		Relation("Requirements", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("active = ?", true).Order("id ASC")
		}).
		Join("JOIN chapters AS ch ON ch.id = f.chapter_id").
		Where("f.fragment_key = ?", key).
		Where("f.active = ?", true).
		Where("ch.active = ?", true).
		Scan(ctx)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get_by_key", "fragment", err)
	}

	if !database.InTx(ctx) {
		r.fragmentCache.Add(key, fragment)
	}
	return fragment, nil
}

func (r *graphRepository) FragmentKeyExists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	exists, err := r.conn(ctx).NewSelect().
		Model((*models.Fragment)(nil)).
		Where("fragment_key = ?", key).
		Exists(ctx)
	return exists, wrapErr("key_exists", "fragment", err)
}

func (r *graphRepository) EntryFragment(ctx context.Context, chapterID int64) (*models.Fragment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	// Lowest display order wins when a chapter has several entry points. The
	// validator flags that separately as MULTIPLE_ENTRY.
	fragment := new(models.Fragment)
	err := r.conn(ctx).NewSelect().
		Model(fragment).
		Relation("Decisions", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("active = ?", true).Order("display_order ASC", "id ASC")
		}).
		Relation("Requirements", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("active = ?", true).Order("id ASC")
		}).
		Join("JOIN chapters AS ch ON ch.id = f.chapter_id").
		Where("f.chapter_id = ?", chapterID).
		Where("f.is_entry_point = ?", true).
		Where("f.active = ?", true).
		Where("ch.active = ?", true).
		Order("display_order ASC", "id ASC").
		Limit(1).
		Scan(ctx)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get_entry", "fragment", err)
	}
	return fragment, nil
}

func (r *graphRepository) FragmentsByChapter(ctx context.Context, chapterID int64) ([]*models.Fragment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var fragments []*models.Fragment
	err := r.conn(ctx).NewSelect().
		Model(&fragments).
		Relation("Decisions", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("display_order ASC", "id ASC")
		}).
		Relation("Requirements").
		Where("f.chapter_id = ?", chapterID).
		Order("display_order ASC", "id ASC").
		Scan(ctx)
	return fragments, wrapErr("list_by_chapter", "fragment", err)
}

// UpsertFragment inserts the fragment or, when its key already exists,
// updates the row in place and replaces its decisions and requirements: the
// old rows are deactivated and the new set inserted. History rows referencing
// the old decisions stay untouched.
func (r *graphRepository) UpsertFragment(ctx context.Context, fragment *models.Fragment) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now()
	existing := new(models.Fragment)
	err := r.conn(ctx).NewSelect().
		Model(existing).
		Where("fragment_key = ?", fragment.FragmentKey).
		Scan(ctx)
	switch {
	case isNoRows(err):
		fragment.CreatedAt = now
		fragment.UpdatedAt = now
		if _, err := r.conn(ctx).NewInsert().Model(fragment).Exec(ctx); err != nil {
			return wrapErr("upsert", "fragment", err)
		}
	case err != nil:
		return wrapErr("upsert", "fragment", err)
	default:
		fragment.ID = existing.ID
		fragment.CreatedAt = existing.CreatedAt
		fragment.UpdatedAt = now
		if _, err := r.conn(ctx).NewUpdate().Model(fragment).WherePK().Exec(ctx); err != nil {
			return wrapErr("upsert", "fragment", err)
		}
		if _, err := r.conn(ctx).NewUpdate().
			Model((*models.Decision)(nil)).
			Set("active = ?", false).
			Set("updated_at = ?", now).
			Where("fragment_id = ?", fragment.ID).
			Exec(ctx); err != nil {
			return wrapErr("upsert", "decision", err)
		}
		if _, err := r.conn(ctx).NewUpdate().
			Model((*models.Requirement)(nil)).
			Set("active = ?", false).
			Set("updated_at = ?", now).
			Where("fragment_id = ?", fragment.ID).
			Exec(ctx); err != nil {
			return wrapErr("upsert", "requirement", err)
		}
	}

	for _, d := range fragment.Decisions {
		d.ID = 0
		d.FragmentID = fragment.ID
		d.Active = true
		d.CreatedAt = now
		d.UpdatedAt = now
		if _, err := r.conn(ctx).NewInsert().Model(d).Exec(ctx); err != nil {
			return wrapErr("upsert", "decision", err)
		}
	}
	for _, req := range fragment.Requirements {
		req.ID = 0
		req.FragmentID = fragment.ID
		req.Active = true
		req.CreatedAt = now
		req.UpdatedAt = now
		if _, err := r.conn(ctx).NewInsert().Model(req).Exec(ctx); err != nil {
			return wrapErr("upsert", "requirement", err)
		}
	}

	r.fragmentCache.Remove(fragment.FragmentKey)
	return nil
}

func (r *graphRepository) SoftDeleteFragment(ctx context.Context, key string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.conn(ctx).NewUpdate().
		Model((*models.Fragment)(nil)).
		Set("active = ?", false).
		Set("updated_at = ?", time.Now()).
		Where("fragment_key = ?", key).
		Exec(ctx)
	if err != nil {
		return wrapErr("soft_delete", "fragment", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		slog.Warn("Soft delete matched no fragment",
			slog.String("type", "db"),
			slog.String("fragment_key", key))
	}
	r.fragmentCache.Remove(key)
	return nil
}

// Decisions

func (r *graphRepository) DecisionByID(ctx context.Context, id int64) (*models.Decision, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	decision := new(models.Decision)
	err := r.conn(ctx).NewSelect().
		Model(decision).
		Relation("Fragment").
		Where("d.id = ?", id).
		Scan(ctx)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get_by_id", "decision", err)
	}
	return decision, nil
}
