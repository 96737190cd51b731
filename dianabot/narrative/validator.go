package narrative

import (
	"context"
	"fmt"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const maxConcurrentChapterScans = 4

type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

type IssueCode string

const (
	IssueDeadEnd         IssueCode = "DEAD_END"
	IssueBrokenReference IssueCode = "BROKEN_REFERENCE"
	IssueUnreachable     IssueCode = "UNREACHABLE"
	IssueMissingEntry    IssueCode = "MISSING_ENTRY"
	IssueMultipleEntry   IssueCode = "MULTIPLE_ENTRY"
)

// Issue is one authoring defect found by the validator.
type Issue struct {
	Code        IssueCode
	Severity    Severity
	ChapterID   int64
	FragmentKey string
	DecisionID  int64
	Detail      string
}

// Report aggregates a whole-graph scan. The graph is publishable when no
// ERROR-severity issue was found; warnings are advisory.
type Report struct {
	Issues           []Issue
	Errors           int
	Warnings         int
	ScannedChapters  int
	ScannedFragments int
	Took             time.Duration
}

func (r *Report) IsValid() bool {
	return r.Errors == 0
}

// Validator performs offline batch analysis over the entire fragment graph.
// It is read-only and never auto-corrects: content problems are reported, not
// raised as errors.
type Validator struct {
	graph GraphStore
}

func NewValidator(graph GraphStore) *Validator {
	return &Validator{graph: graph}
}

// ValidateGraph scans every active chapter.
func (v *Validator) ValidateGraph(ctx context.Context) (*Report, error) {
	return v.validate(ctx, 0)
}

// ValidateChapter runs the same global scan and keeps only issues belonging
// to the given chapter. The scan has to stay global: broken references and
// reachability cross chapter boundaries.
func (v *Validator) ValidateChapter(ctx context.Context, chapterID int64) (*Report, error) {
	return v.validate(ctx, chapterID)
}

func (v *Validator) validate(ctx context.Context, onlyChapterID int64) (*Report, error) {
	start := time.Now()

	chapters, err := v.graph.ActiveChapters(ctx)
	if err != nil {
		return nil, err
	}

	// Fetch per-chapter fragment sets with bounded concurrency. Analysis
	// itself runs single-threaded over the combined snapshot.
	fragmentsByChapter := make([][]*models.Fragment, len(chapters))
	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(maxConcurrentChapterScans)
	for i, chapter := range chapters {
		i, chapter := i, chapter
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			fragments, err := v.graph.FragmentsByChapter(gctx, chapter.ID)
			if err != nil {
				return fmt.Errorf("scanning chapter %d: %w", chapter.ID, err)
			}
			fragmentsByChapter[i] = fragments
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Global indexes: active fragments by key, and the set of keys targeted
	// by traversable (active fragment, active decision) edges.
	activeByKey := make(map[string]*models.Fragment)
	targeted := make(map[string]bool)
	var scannedFragments int
	for _, fragments := range fragmentsByChapter {
		for _, f := range fragments {
			scannedFragments++
			if !f.Active {
				continue
			}
			activeByKey[f.FragmentKey] = f
			for _, d := range f.ActiveDecisions() {
				targeted[d.TargetFragmentKey] = true
			}
		}
	}

	var issues []Issue
	for i, chapter := range chapters {
		var activeCount, entryCount int
		for _, f := range fragmentsByChapter[i] {
			if !f.Active {
				continue
			}
			activeCount++
			if f.IsEntryPoint {
				entryCount++
			}

			if !f.IsEnding && len(f.ActiveDecisions()) == 0 {
				issues = append(issues, Issue{
					Code:        IssueDeadEnd,
					Severity:    SeverityError,
					ChapterID:   chapter.ID,
					FragmentKey: f.FragmentKey,
					Detail:      "active non-ending fragment has no active decisions",
				})
			}

			for _, d := range f.ActiveDecisions() {
				if _, ok := activeByKey[d.TargetFragmentKey]; !ok {
					issues = append(issues, Issue{
						Code:        IssueBrokenReference,
						Severity:    SeverityError,
						ChapterID:   chapter.ID,
						FragmentKey: f.FragmentKey,
						DecisionID:  d.ID,
						Detail:      fmt.Sprintf("decision targets missing fragment %q", d.TargetFragmentKey),
					})
				}
			}

			if !f.IsEntryPoint && !targeted[f.FragmentKey] {
				issues = append(issues, Issue{
					Code:        IssueUnreachable,
					Severity:    SeverityWarning,
					ChapterID:   chapter.ID,
					FragmentKey: f.FragmentKey,
					Detail:      "fragment is not the target of any active decision",
				})
			}
		}

		if activeCount > 0 && entryCount == 0 {
			issues = append(issues, Issue{
				Code:      IssueMissingEntry,
				Severity:  SeverityWarning,
				ChapterID: chapter.ID,
				Detail:    fmt.Sprintf("chapter %q has %d active fragments but no entry point", chapter.Slug, activeCount),
			})
		}
		if entryCount > 1 {
			issues = append(issues, Issue{
				Code:      IssueMultipleEntry,
				Severity:  SeverityWarning,
				ChapterID: chapter.ID,
				Detail:    fmt.Sprintf("chapter %q has %d entry points; traversal picks the lowest order", chapter.Slug, entryCount),
			})
		}
	}

	report := &Report{
		ScannedChapters:  len(chapters),
		ScannedFragments: scannedFragments,
		Took:             time.Since(start),
	}
	for _, issue := range issues {
		if onlyChapterID != 0 && issue.ChapterID != onlyChapterID {
			continue
		}
		report.Issues = append(report.Issues, issue)
		switch issue.Severity {
		case SeverityError:
			report.Errors++
		case SeverityWarning:
			report.Warnings++
		}
	}
	return report, nil
}
