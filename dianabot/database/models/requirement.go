package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Requirement gates entry into a fragment. All active requirements on a
// fragment must pass. Value is interpreted per kind: an integer for
// MIN_BESITOS, an archetype name for ARCHETYPE, a fragment key for
// DECISION_TAKEN, unused for VIP_STATUS and NONE.
type Requirement struct {
	bun.BaseModel `bun:"table:requirements,alias:req"`

	ID               int64     `bun:"id,pk,autoincrement"`
	FragmentID       int64     `bun:"fragment_id,notnull"`
	Kind             string    `bun:"kind,notnull"`
	Value            string    `bun:"value"`
	RejectionMessage string    `bun:"rejection_message"`
	Active           bool      `bun:"active,notnull,default:true"`
	CreatedAt        time.Time `bun:"created_at,notnull"`
	UpdatedAt        time.Time `bun:"updated_at,notnull"`

	// Relations
	Fragment *Fragment `bun:"rel:belongs-to,join:fragment_id=id"`
}

// Requirement kind constants
const (
	RequirementKindNone          = "none"
	RequirementKindVIPStatus     = "vip_status"
	RequirementKindMinBesitos    = "min_besitos"
	RequirementKindArchetype     = "archetype"
	RequirementKindDecisionTaken = "decision_taken"
)

// KnownRequirementKind reports whether kind is one of the supported kinds.
func KnownRequirementKind(kind string) bool {
	switch kind {
	case RequirementKindNone, RequirementKindVIPStatus, RequirementKindMinBesitos,
		RequirementKindArchetype, RequirementKindDecisionTaken:
		return true
	}
	return false
}
