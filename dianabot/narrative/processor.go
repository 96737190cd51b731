package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
)

// Processor is the transition engine: it validates a chosen decision, applies
// its economic side effects, records history, advances progress and returns
// the next fragment. Everything that mutates user state runs inside a single
// transaction, so a failure mid-way never leaves a user charged but not
// advanced.
type Processor struct {
	graph      GraphStore
	progress   ProgressStore
	ledger     Ledger
	evaluator  *Evaluator
	classifier *Classifier
	tx         TxRunner
}

func NewProcessor(graph GraphStore, progress ProgressStore, ledger Ledger, evaluator *Evaluator, classifier *Classifier, tx TxRunner) *Processor {
	return &Processor{
		graph:      graph,
		progress:   progress,
		ledger:     ledger,
		evaluator:  evaluator,
		classifier: classifier,
		tx:         tx,
	}
}

// Result is what the rendering layer needs to show the next step of the
// story: the fragment plus its selectable decisions in display order.
type Result struct {
	Fragment         *models.Fragment
	Decisions        []*models.Decision
	GrantedBesitos   int64
	ChapterCompleted bool
}

// TakeDecision processes one decision taken by the user. responseTime is the
// measured latency between showing the fragment and the user answering, if
// the caller has one.
//
// The target fragment is resolved and its requirements evaluated BEFORE any
// side effect: a broken target or a failed gate must never charge the user.
func (p *Processor) TakeDecision(ctx context.Context, userID int64, decisionID int64, responseTime *float64) (*Result, error) {
	decision, err := p.graph.DecisionByID(ctx, decisionID)
	if err != nil {
		return nil, err
	}
	if decision == nil || !decision.Active {
		return nil, &NotFoundError{Entity: "decision", Ref: decisionID}
	}
	source := decision.Fragment
	if source == nil || !source.Active {
		return nil, &NotFoundError{Entity: "fragment", Ref: decision.FragmentID}
	}

	target, err := p.graph.FragmentByKey(ctx, decision.TargetFragmentKey)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, &BrokenGraphError{DecisionID: decision.ID, TargetKey: decision.TargetFragmentKey}
	}

	allowed, rejection, err := p.evaluator.CanAccess(ctx, userID, target.FragmentKey)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, &AccessDeniedError{FragmentKey: target.FragmentKey, Message: rejection}
	}

	var granted int64
	var completed bool
	err = p.tx.RunInTx(ctx, func(ctx context.Context) error {
		if decision.BesitosCost > 0 {
			balance, err := p.ledger.Balance(ctx, userID)
			if err != nil {
				return err
			}
			if balance < decision.BesitosCost {
				return &InsufficientFundsError{UserID: userID, Required: decision.BesitosCost, Balance: balance}
			}
			if _, err := p.ledger.Deduct(ctx, userID, decision.BesitosCost, decisionReason(decision.ID)); err != nil {
				return err
			}
		}
		if decision.GrantsBesitos > 0 {
			if _, err := p.ledger.Grant(ctx, userID, decision.GrantsBesitos, decisionReason(decision.ID)); err != nil {
				return err
			}
			granted = decision.GrantsBesitos
		}

		now := time.Now()
		if err := p.progress.AppendHistory(ctx, &models.DecisionHistory{
			UserID:              userID,
			FragmentKey:         source.FragmentKey,
			DecisionID:          decision.ID,
			DecidedAt:           now,
			ResponseTimeSeconds: responseTime,
		}); err != nil {
			return err
		}

		progress, err := p.loadOrInitProgress(ctx, userID, now)
		if err != nil {
			return err
		}
		progress.TotalDecisions++
		progress.LastInteraction = now
		progress.UpdatedAt = now
		progress.CurrentFragmentKey = &target.FragmentKey
		progress.CurrentChapterID = &target.ChapterID
		if target.IsEnding {
			progress.ChaptersCompleted++
			completed = true
		}
		return p.progress.SaveProgress(ctx, progress)
	})
	if err != nil {
		return nil, err
	}

	// Behavioral profiling is best effort: a failure here must not undo an
	// already-committed transition.
	if responseTime != nil {
		if err := p.classifier.AnalyzeAndUpdate(ctx, userID); err != nil {
			slog.Warn("Archetype analysis failed",
				slog.Int64("user_id", userID),
				slog.Any("error", err))
		}
	}

	slog.Info("Decision processed",
		slog.Int64("user_id", userID),
		slog.Int64("decision_id", decision.ID),
		slog.String("from", source.FragmentKey),
		slog.String("to", target.FragmentKey),
		slog.Int64("cost", decision.BesitosCost),
		slog.Int64("granted", granted),
	)

	return &Result{
		Fragment:         target,
		Decisions:        target.ActiveDecisions(),
		GrantedBesitos:   granted,
		ChapterCompleted: completed,
	}, nil
}

// StartChapter positions the user at the chapter's entry fragment, evaluating
// its access gates first. With multiple entry points the lowest display order
// wins; the validator warns about that authoring ambiguity separately.
func (p *Processor) StartChapter(ctx context.Context, userID int64, chapterID int64) (*Result, error) {
	entry, err := p.graph.EntryFragment(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, &NotFoundError{Entity: "chapter entry point", Ref: chapterID}
	}

	allowed, rejection, err := p.evaluator.CanAccess(ctx, userID, entry.FragmentKey)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, &AccessDeniedError{FragmentKey: entry.FragmentKey, Message: rejection}
	}

	err = p.tx.RunInTx(ctx, func(ctx context.Context) error {
		now := time.Now()
		progress, err := p.loadOrInitProgress(ctx, userID, now)
		if err != nil {
			return err
		}
		progress.CurrentFragmentKey = &entry.FragmentKey
		progress.CurrentChapterID = &entry.ChapterID
		progress.LastInteraction = now
		progress.UpdatedAt = now
		return p.progress.SaveProgress(ctx, progress)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Chapter started",
		slog.Int64("user_id", userID),
		slog.Int64("chapter_id", chapterID),
		slog.String("entry", entry.FragmentKey),
	)

	return &Result{Fragment: entry, Decisions: entry.ActiveDecisions()}, nil
}

// CurrentFragment returns the fragment the user is positioned at, or
// (nil, nil) when they have not started a story yet.
func (p *Processor) CurrentFragment(ctx context.Context, userID int64) (*Result, error) {
	progress, err := p.progress.Progress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !progress.HasStarted() {
		return nil, nil
	}

	fragment, err := p.graph.FragmentByKey(ctx, *progress.CurrentFragmentKey)
	if err != nil {
		return nil, err
	}
	if fragment == nil {
		return nil, &NotFoundError{Entity: "fragment", Ref: *progress.CurrentFragmentKey}
	}
	return &Result{Fragment: fragment, Decisions: fragment.ActiveDecisions()}, nil
}

func (p *Processor) loadOrInitProgress(ctx context.Context, userID int64, now time.Time) (*models.UserProgress, error) {
	progress, err := p.progress.Progress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = &models.UserProgress{
			UserID:            userID,
			DetectedArchetype: models.ArchetypeUnknown,
			StartedAt:         now,
			LastInteraction:   now,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
	}
	return progress, nil
}

func decisionReason(decisionID int64) string {
	return fmt.Sprintf("decision:%d", decisionID)
}
