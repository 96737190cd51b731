package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Decision is a user-selectable edge between fragments. TargetFragmentKey is
// a soft reference: nothing at write time guarantees the target exists, the
// integrity validator is the only place that checks it.
type Decision struct {
	bun.BaseModel `bun:"table:decisions,alias:d"`

	ID                int64     `bun:"id,pk,autoincrement"`
	FragmentID        int64     `bun:"fragment_id,notnull"`
	Label             string    `bun:"label,notnull"`
	TargetFragmentKey string    `bun:"target_fragment_key,notnull"`
	BesitosCost       int64     `bun:"besitos_cost,notnull,default:0"`
	GrantsBesitos     int64     `bun:"grants_besitos,notnull,default:0"`
	ArchetypeTag      string    `bun:"archetype_tag"`
	Order             int       `bun:"display_order,notnull,default:0"`
	Active            bool      `bun:"active,notnull,default:true"`
	CreatedAt         time.Time `bun:"created_at,notnull"`
	UpdatedAt         time.Time `bun:"updated_at,notnull"`

	// Relations
	Fragment *Fragment `bun:"rel:belongs-to,join:fragment_id=id"`
}
