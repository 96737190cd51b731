package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/narrative"
)

// Payload types of the authoring/import schema.
const (
	PayloadTypeChapter   = "chapter"
	PayloadTypeFragments = "fragments"
)

// Resolution is the per-key answer for a conflicting fragment_key.
type Resolution string

const (
	ResolutionUpdate Resolution = "update"
	ResolutionSkip   Resolution = "skip"
)

// ErrUnresolvedConflicts is returned when the payload carries fragment keys
// that already exist and the caller has not decided update-or-skip for all of
// them. Nothing has been written when it is returned.
var ErrUnresolvedConflicts = errors.New("import has unresolved fragment_key conflicts")

// StoryPayload is the top-level authoring document.
type StoryPayload struct {
	Type        string            `json:"type"`
	Chapter     *ChapterPayload   `json:"chapter,omitempty"`
	ChapterSlug string            `json:"chapter_slug,omitempty"`
	Fragments   []FragmentPayload `json:"fragments"`
}

type ChapterPayload struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	ChapterType string `json:"chapter_type"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order,omitempty"`
}

type FragmentPayload struct {
	FragmentKey  string               `json:"fragment_key"`
	Title        string               `json:"title"`
	Speaker      string               `json:"speaker"`
	Content      string               `json:"content"`
	Order        int                  `json:"order,omitempty"`
	IsEntryPoint bool                 `json:"is_entry_point,omitempty"`
	IsEnding     bool                 `json:"is_ending,omitempty"`
	VisualHint   string               `json:"visual_hint,omitempty"`
	Decisions    []DecisionPayload    `json:"decisions,omitempty"`
	Requirements []RequirementPayload `json:"requirements,omitempty"`
}

type DecisionPayload struct {
	ButtonText        string `json:"button_text"`
	TargetFragmentKey string `json:"target_fragment_key"`
	BesitosCost       int64  `json:"besitos_cost,omitempty"`
	GrantsBesitos     int64  `json:"grants_besitos,omitempty"`
	AffectsArchetype  string `json:"affects_archetype,omitempty"`
}

type RequirementPayload struct {
	RequirementType  string `json:"requirement_type"`
	Value            string `json:"value"`
	RejectionMessage string `json:"rejection_message,omitempty"`
}

// ImportReport summarizes what an import did (or why it stopped).
type ImportReport struct {
	ChapterSlug       string
	CreatedFragments  int
	UpdatedFragments  int
	SkippedFragments  int
	Conflicts         []string
}

// txRunner is the slice of *database.DB the importer needs.
type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// StoryImporter bulk-upserts authored chapters and fragments. Decode and
// validation are separate from persistence, and persistence runs in a single
// transaction: a bad payload writes nothing.
type StoryImporter struct {
	db    txRunner
	graph repositories.GraphRepository
}

func NewStoryImporter(db txRunner, graph repositories.GraphRepository) *StoryImporter {
	return &StoryImporter{db: db, graph: graph}
}

// Decode parses and validates an authoring document.
func (s *StoryImporter) Decode(data []byte) (*StoryPayload, error) {
	var payload StoryPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &narrative.ValidationError{Field: "payload", Reason: err.Error()}
	}
	if err := validatePayload(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Import persists a decoded payload. resolutions answers update-or-skip for
// every fragment_key that already exists; with unresolved conflicts the
// import stops before writing and reports them.
func (s *StoryImporter) Import(ctx context.Context, payload *StoryPayload, resolutions map[string]Resolution) (*ImportReport, error) {
	report := &ImportReport{}

	// Detect conflicts up front, outside the transaction.
	for _, f := range payload.Fragments {
		exists, err := s.graph.FragmentKeyExists(ctx, f.FragmentKey)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}
		switch resolutions[f.FragmentKey] {
		case ResolutionUpdate, ResolutionSkip:
		default:
			report.Conflicts = append(report.Conflicts, f.FragmentKey)
		}
	}
	if len(report.Conflicts) > 0 {
		return report, ErrUnresolvedConflicts
	}

	err := s.db.RunInTx(ctx, func(ctx context.Context) error {
		chapter, err := s.resolveChapter(ctx, payload)
		if err != nil {
			return err
		}
		report.ChapterSlug = chapter.Slug

		for i := range payload.Fragments {
			f := &payload.Fragments[i]
			exists, err := s.graph.FragmentKeyExists(ctx, f.FragmentKey)
			if err != nil {
				return err
			}
			if exists && resolutions[f.FragmentKey] == ResolutionSkip {
				report.SkippedFragments++
				continue
			}

			if err := s.graph.UpsertFragment(ctx, fragmentFromPayload(f, chapter.ID)); err != nil {
				return err
			}
			if exists {
				report.UpdatedFragments++
			} else {
				report.CreatedFragments++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Story import finished",
		slog.String("chapter", report.ChapterSlug),
		slog.Int("created", report.CreatedFragments),
		slog.Int("updated", report.UpdatedFragments),
		slog.Int("skipped", report.SkippedFragments),
	)
	return report, nil
}

func (s *StoryImporter) resolveChapter(ctx context.Context, payload *StoryPayload) (*models.Chapter, error) {
	if payload.Type == PayloadTypeFragments {
		chapter, err := s.graph.ChapterBySlug(ctx, payload.ChapterSlug)
		if err != nil {
			return nil, err
		}
		if chapter == nil {
			return nil, &narrative.NotFoundError{Entity: "chapter", Ref: payload.ChapterSlug}
		}
		return chapter, nil
	}

	existing, err := s.graph.ChapterBySlug(ctx, payload.Chapter.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Name = payload.Chapter.Name
		existing.Kind = payload.Chapter.ChapterType
		existing.Description = payload.Chapter.Description
		existing.Order = payload.Chapter.Order
		existing.Active = true
		if err := s.graph.UpdateChapter(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	chapter := &models.Chapter{
		Name:        payload.Chapter.Name,
		Slug:        payload.Chapter.Slug,
		Kind:        payload.Chapter.ChapterType,
		Description: payload.Chapter.Description,
		Order:       payload.Chapter.Order,
		Active:      true,
	}
	if err := s.graph.CreateChapter(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func fragmentFromPayload(f *FragmentPayload, chapterID int64) *models.Fragment {
	fragment := &models.Fragment{
		ChapterID:    chapterID,
		FragmentKey:  f.FragmentKey,
		Title:        f.Title,
		Speaker:      f.Speaker,
		Content:      f.Content,
		VisualHint:   f.VisualHint,
		Order:        f.Order,
		IsEntryPoint: f.IsEntryPoint,
		IsEnding:     f.IsEnding,
		Active:       true,
	}
	for i, d := range f.Decisions {
		fragment.Decisions = append(fragment.Decisions, &models.Decision{
			Label:             d.ButtonText,
			TargetFragmentKey: d.TargetFragmentKey,
			BesitosCost:       d.BesitosCost,
			GrantsBesitos:     d.GrantsBesitos,
			ArchetypeTag:      d.AffectsArchetype,
			Order:             i,
		})
	}
	for _, r := range f.Requirements {
		fragment.Requirements = append(fragment.Requirements, &models.Requirement{
			Kind:             r.RequirementType,
			Value:            r.Value,
			RejectionMessage: r.RejectionMessage,
		})
	}
	return fragment
}

func validatePayload(p *StoryPayload) error {
	switch p.Type {
	case PayloadTypeChapter:
		if p.Chapter == nil {
			return &narrative.ValidationError{Field: "chapter", Reason: "required for type \"chapter\""}
		}
		if p.Chapter.Name == "" {
			return &narrative.ValidationError{Field: "chapter.name", Reason: "must not be empty"}
		}
		if p.Chapter.Slug == "" {
			return &narrative.ValidationError{Field: "chapter.slug", Reason: "must not be empty"}
		}
		if p.Chapter.ChapterType != models.ChapterKindFree && p.Chapter.ChapterType != models.ChapterKindVIP {
			return &narrative.ValidationError{
				Field:  "chapter.chapter_type",
				Reason: fmt.Sprintf("must be %q or %q", models.ChapterKindFree, models.ChapterKindVIP),
			}
		}
	case PayloadTypeFragments:
		if p.ChapterSlug == "" {
			return &narrative.ValidationError{Field: "chapter_slug", Reason: "required for type \"fragments\""}
		}
	default:
		return &narrative.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown payload type %q", p.Type)}
	}

	seen := make(map[string]bool)
	for i, f := range p.Fragments {
		path := fmt.Sprintf("fragments[%d]", i)
		if f.FragmentKey == "" {
			return &narrative.ValidationError{Field: path + ".fragment_key", Reason: "must not be empty"}
		}
		if seen[f.FragmentKey] {
			return &narrative.ValidationError{Field: path + ".fragment_key", Reason: fmt.Sprintf("duplicate key %q in payload", f.FragmentKey)}
		}
		seen[f.FragmentKey] = true
		if f.Title == "" {
			return &narrative.ValidationError{Field: path + ".title", Reason: "must not be empty"}
		}
		if f.Content == "" {
			return &narrative.ValidationError{Field: path + ".content", Reason: "must not be empty"}
		}

		for j, d := range f.Decisions {
			dpath := fmt.Sprintf("%s.decisions[%d]", path, j)
			if d.ButtonText == "" {
				return &narrative.ValidationError{Field: dpath + ".button_text", Reason: "must not be empty"}
			}
			if d.TargetFragmentKey == "" {
				return &narrative.ValidationError{Field: dpath + ".target_fragment_key", Reason: "must not be empty"}
			}
			if d.BesitosCost < 0 {
				return &narrative.ValidationError{Field: dpath + ".besitos_cost", Reason: "must not be negative"}
			}
			if d.GrantsBesitos < 0 {
				return &narrative.ValidationError{Field: dpath + ".grants_besitos", Reason: "must not be negative"}
			}
		}

		for j, r := range f.Requirements {
			rpath := fmt.Sprintf("%s.requirements[%d]", path, j)
			if !models.KnownRequirementKind(r.RequirementType) {
				return &narrative.ValidationError{Field: rpath + ".requirement_type", Reason: fmt.Sprintf("unknown kind %q", r.RequirementType)}
			}
			if r.RequirementType == models.RequirementKindMinBesitos {
				if _, err := strconv.ParseInt(r.Value, 10, 64); err != nil {
					return &narrative.ValidationError{Field: rpath + ".value", Reason: fmt.Sprintf("min_besitos value %q is not an integer", r.Value)}
				}
			}
		}
	}
	return nil
}
