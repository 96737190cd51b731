package narrative

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dianabot/dianabot/dianabot/database/models"
)

// Evaluator decides whether a user may enter a fragment. All active
// requirements on the fragment must pass; evaluation short-circuits on the
// first failure and returns that requirement's rejection message.
type Evaluator struct {
	graph    GraphStore
	progress ProgressStore
	ledger   Ledger
	subs     SubscriptionService
}

func NewEvaluator(graph GraphStore, progress ProgressStore, ledger Ledger, subs SubscriptionService) *Evaluator {
	return &Evaluator{
		graph:    graph,
		progress: progress,
		ledger:   ledger,
		subs:     subs,
	}
}

// CanAccess evaluates all active requirements of the fragment for the user.
// A fragment without requirements is implicitly accessible. The returned
// message is only meaningful when allowed is false.
func (e *Evaluator) CanAccess(ctx context.Context, userID int64, fragmentKey string) (bool, string, error) {
	fragment, err := e.graph.FragmentByKey(ctx, fragmentKey)
	if err != nil {
		return false, "", err
	}
	if fragment == nil {
		return false, "", &NotFoundError{Entity: "fragment", Ref: fragmentKey}
	}

	for _, req := range fragment.ActiveRequirements() {
		ok, err := e.evaluate(ctx, userID, req)
		if err != nil {
			return false, "", err
		}
		if !ok {
			return false, rejectionMessage(req), nil
		}
	}
	return true, "", nil
}

func (e *Evaluator) evaluate(ctx context.Context, userID int64, req *models.Requirement) (bool, error) {
	switch req.Kind {
	case models.RequirementKindNone:
		return true, nil

	case models.RequirementKindVIPStatus:
		return e.subs.IsActiveSubscriber(ctx, userID)

	case models.RequirementKindMinBesitos:
		min, err := strconv.ParseInt(req.Value, 10, 64)
		if err != nil {
			return false, fmt.Errorf("requirement %d has malformed min_besitos value %q: %w", req.ID, req.Value, err)
		}
		balance, err := e.ledger.Balance(ctx, userID)
		if err != nil {
			return false, err
		}
		return balance >= min, nil

	case models.RequirementKindArchetype:
		progress, err := e.progress.Progress(ctx, userID)
		if err != nil {
			return false, err
		}
		current := models.ArchetypeUnknown
		if progress != nil {
			current = progress.DetectedArchetype
		}
		return current == req.Value, nil

	case models.RequirementKindDecisionTaken:
		return e.progress.HasDecisionAt(ctx, userID, req.Value)

	default:
		return false, fmt.Errorf("requirement %d has unknown kind %q", req.ID, req.Kind)
	}
}

// rejectionMessage prefers the authored message and falls back to a per-kind
// default in the bot's voice.
func rejectionMessage(req *models.Requirement) string {
	if req.RejectionMessage != "" {
		return req.RejectionMessage
	}

	switch req.Kind {
	case models.RequirementKindVIPStatus:
		return "Este contenido es solo para VIP 💋"
	case models.RequirementKindMinBesitos:
		return fmt.Sprintf("Necesitas al menos %s besitos para continuar", req.Value)
	case models.RequirementKindArchetype:
		return "Este camino no es para ti... todavía"
	case models.RequirementKindDecisionTaken:
		return "Hay una decisión que aún no has tomado"
	default:
		return "No puedes acceder a este fragmento todavía"
	}
}
