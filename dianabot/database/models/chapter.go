package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Chapter struct {
	bun.BaseModel `bun:"table:chapters,alias:ch"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Name        string    `bun:"name,notnull"`
	Slug        string    `bun:"slug,notnull,unique"`
	Kind        string    `bun:"kind,notnull,default:'free'"` // free, vip
	Description string    `bun:"description"`
	Order       int       `bun:"display_order,notnull,default:0"`
	Active      bool      `bun:"active,notnull,default:true"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`

	// Relations
	Fragments []*Fragment `bun:"rel:has-many,join:id=chapter_id"`
}

// Chapter kind constants
const (
	ChapterKindFree = "free"
	ChapterKindVIP  = "vip"
)

// IsVIP reports whether the chapter is gated behind an active subscription.
func (c *Chapter) IsVIP() bool {
	return c.Kind == ChapterKindVIP
}
