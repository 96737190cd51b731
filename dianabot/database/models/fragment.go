package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Fragment is a single narrative content node. fragment_key is unique across
// the whole graph, not per chapter: decisions reference their target by key,
// so keys live in one flat namespace.
type Fragment struct {
	bun.BaseModel `bun:"table:fragments,alias:f"`

	ID           int64     `bun:"id,pk,autoincrement"`
	ChapterID    int64     `bun:"chapter_id,notnull"`
	FragmentKey  string    `bun:"fragment_key,notnull,unique"`
	Title        string    `bun:"title,notnull"`
	Speaker      string    `bun:"speaker"`
	Content      string    `bun:"content,notnull"`
	VisualHint   string    `bun:"visual_hint"`
	Order        int       `bun:"display_order,notnull,default:0"`
	IsEntryPoint bool      `bun:"is_entry_point,notnull,default:false"`
	IsEnding     bool      `bun:"is_ending,notnull,default:false"`
	Active       bool      `bun:"active,notnull,default:true"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`

	// Relations
	Chapter      *Chapter       `bun:"rel:belongs-to,join:chapter_id=id"`
	Decisions    []*Decision    `bun:"rel:has-many,join:id=fragment_id"`
	Requirements []*Requirement `bun:"rel:has-many,join:id=fragment_id"`
}

// ActiveDecisions returns the fragment's active decisions ordered for display.
// Decisions are expected to be eager-loaded already sorted by display_order;
// this only filters out soft-deleted rows.
func (f *Fragment) ActiveDecisions() []*Decision {
	var out []*Decision
	for _, d := range f.Decisions {
		if d.Active {
			out = append(out, d)
		}
	}
	return out
}

// ActiveRequirements filters out soft-deleted requirement rows.
func (f *Fragment) ActiveRequirements() []*Requirement {
	var out []*Requirement
	for _, r := range f.Requirements {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}
