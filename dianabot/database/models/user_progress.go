package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserProgress is one row per user. CurrentFragmentKey is nil until the user
// starts a story. TotalDecisions only ever grows, exactly one per processed
// decision.
type UserProgress struct {
	bun.BaseModel `bun:"table:user_progress,alias:up"`

	ID                  int64     `bun:"id,pk,autoincrement"`
	UserID              int64     `bun:"user_id,notnull,unique"`
	CurrentChapterID    *int64    `bun:"current_chapter_id"`
	CurrentFragmentKey  *string   `bun:"current_fragment_key"`
	DetectedArchetype   string    `bun:"detected_archetype,notnull,default:'unknown'"`
	ArchetypeConfidence float64   `bun:"archetype_confidence,notnull,default:0"`
	TotalDecisions      int64     `bun:"total_decisions,notnull,default:0"`
	ChaptersCompleted   int       `bun:"chapters_completed,notnull,default:0"`
	StartedAt           time.Time `bun:"started_at,notnull"`
	LastInteraction     time.Time `bun:"last_interaction,notnull"`
	CreatedAt           time.Time `bun:"created_at,notnull"`
	UpdatedAt           time.Time `bun:"updated_at,notnull"`
}

// Archetype constants
const (
	ArchetypeUnknown       = "unknown"
	ArchetypeImpulsive     = "impulsive"
	ArchetypeContemplative = "contemplative"
	ArchetypeSilent        = "silent"
)

// HasStarted reports whether the user has ever been positioned at a fragment.
func (p *UserProgress) HasStarted() bool {
	return p != nil && p.CurrentFragmentKey != nil
}
