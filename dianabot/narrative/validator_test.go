package narrative

import (
	"context"
	"reflect"
	"sort"
	"testing"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/narrative/mock"
	"go.uber.org/mock/gomock"
)

func node(chapterID int64, key string, entry, ending bool, targets ...string) *models.Fragment {
	f := &models.Fragment{
		ChapterID:    chapterID,
		FragmentKey:  key,
		Title:        key,
		Content:      "...",
		IsEntryPoint: entry,
		IsEnding:     ending,
		Active:       true,
	}
	for i, target := range targets {
		f.Decisions = append(f.Decisions, &models.Decision{
			ID:                int64(i + 1),
			Label:             target,
			TargetFragmentKey: target,
			Active:            true,
		})
	}
	return f
}

func issueCodes(report *Report) []IssueCode {
	var codes []IssueCode
	for _, issue := range report.Issues {
		codes = append(codes, issue.Code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

func Test_Validator_ValidateGraph(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		fragments []*models.Fragment
		wantCodes []IssueCode
		wantValid bool
	}{
		{
			name: "clean linear chapter",
			fragments: []*models.Fragment{
				node(1, "intro", true, false, "middle"),
				node(1, "middle", false, false, "end"),
				node(1, "end", false, true),
			},
			wantValid: true,
		},
		{
			name: "non-ending fragment without decisions",
			fragments: []*models.Fragment{
				node(1, "stuck", true, false),
			},
			wantCodes: []IssueCode{IssueDeadEnd},
		},
		{
			name: "decision targeting a missing fragment",
			fragments: []*models.Fragment{
				node(1, "intro", true, false, "nowhere"),
			},
			wantCodes: []IssueCode{IssueBrokenReference},
		},
		{
			name: "decision targeting an inactive fragment",
			fragments: []*models.Fragment{
				node(1, "intro", true, false, "retired"),
				func() *models.Fragment {
					f := node(1, "retired", false, true)
					f.Active = false
					return f
				}(),
			},
			wantCodes: []IssueCode{IssueBrokenReference},
		},
		{
			name: "orphan fragment nothing points at",
			fragments: []*models.Fragment{
				node(1, "intro", true, false, "end"),
				node(1, "end", false, true),
				node(1, "lost", false, true),
			},
			wantCodes: []IssueCode{IssueUnreachable},
			wantValid: true,
		},
		{
			name: "chapter without an entry point",
			fragments: []*models.Fragment{
				node(1, "floating", false, true),
			},
			wantCodes: []IssueCode{IssueMissingEntry, IssueUnreachable},
			wantValid: true,
		},
		{
			name: "chapter with two entry points",
			fragments: []*models.Fragment{
				node(1, "door_a", true, false, "end"),
				node(1, "door_b", true, false, "end"),
				node(1, "end", false, true),
			},
			wantCodes: []IssueCode{IssueMultipleEntry},
			wantValid: true,
		},
		{
			name: "inactive fragments are skipped entirely",
			fragments: []*models.Fragment{
				node(1, "intro", true, false, "end"),
				node(1, "end", false, true),
				func() *models.Fragment {
					f := node(1, "draft", false, false)
					f.Active = false
					return f
				}(),
			},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graph := mock.NewMockGraphStore(gomock.NewController(t))
			graph.EXPECT().ActiveChapters(gomock.Any()).Return([]*models.Chapter{
				{ID: 1, Name: "Test", Slug: "test", Active: true},
			}, nil)
			graph.EXPECT().FragmentsByChapter(gomock.Any(), int64(1)).Return(tt.fragments, nil)

			report, err := NewValidator(graph).ValidateGraph(ctx)
			if err != nil {
				t.Fatalf("Validator.ValidateGraph() error = %v", err)
			}
			if got := issueCodes(report); !reflect.DeepEqual(got, tt.wantCodes) {
				t.Errorf("issue codes = %v, want %v", got, tt.wantCodes)
			}
			if report.IsValid() != tt.wantValid {
				t.Errorf("IsValid() = %v, want %v", report.IsValid(), tt.wantValid)
			}
			if report.ScannedChapters != 1 {
				t.Errorf("ScannedChapters = %d, want 1", report.ScannedChapters)
			}
			if report.ScannedFragments != len(tt.fragments) {
				t.Errorf("ScannedFragments = %d, want %d", report.ScannedFragments, len(tt.fragments))
			}
		})
	}
}

func Test_Validator_retiredChapterBreaksReferencesIntoIt(t *testing.T) {
	// Chapter 2 was soft deleted, so it is absent from the active scan and a
	// decision pointing into it is a broken reference. Runtime agrees: the
	// graph store no longer resolves fragments of retired chapters.
	graph := mock.NewMockGraphStore(gomock.NewController(t))
	graph.EXPECT().ActiveChapters(gomock.Any()).Return([]*models.Chapter{
		{ID: 1, Slug: "uno", Active: true},
	}, nil)
	graph.EXPECT().FragmentsByChapter(gomock.Any(), int64(1)).Return([]*models.Fragment{
		node(1, "uno_intro", true, false, "dos_intro"),
	}, nil)

	report, err := NewValidator(graph).ValidateGraph(context.Background())
	if err != nil {
		t.Fatalf("Validator.ValidateGraph() error = %v", err)
	}
	if got := issueCodes(report); !reflect.DeepEqual(got, []IssueCode{IssueBrokenReference}) {
		t.Errorf("issue codes = %v, want [BROKEN_REFERENCE]", got)
	}
	if report.IsValid() {
		t.Error("IsValid() = true with a reference into a retired chapter")
	}
}

func Test_Validator_severityCounts(t *testing.T) {
	graph := mock.NewMockGraphStore(gomock.NewController(t))
	graph.EXPECT().ActiveChapters(gomock.Any()).Return([]*models.Chapter{
		{ID: 1, Slug: "test", Active: true},
	}, nil)
	graph.EXPECT().FragmentsByChapter(gomock.Any(), int64(1)).Return([]*models.Fragment{
		node(1, "stuck", true, false),   // DEAD_END, error
		node(1, "floating", false, true), // UNREACHABLE, warning
	}, nil)

	report, err := NewValidator(graph).ValidateGraph(context.Background())
	if err != nil {
		t.Fatalf("Validator.ValidateGraph() error = %v", err)
	}
	if report.Errors != 1 || report.Warnings != 1 {
		t.Errorf("counts = %d errors / %d warnings, want 1 / 1", report.Errors, report.Warnings)
	}
	if report.IsValid() {
		t.Error("IsValid() = true with an ERROR issue present")
	}
}

func Test_Validator_ValidateChapter(t *testing.T) {
	// Issues in other chapters are scanned but filtered out of the report;
	// cross-chapter references still resolve.
	graph := mock.NewMockGraphStore(gomock.NewController(t))
	graph.EXPECT().ActiveChapters(gomock.Any()).Return([]*models.Chapter{
		{ID: 1, Slug: "uno", Active: true},
		{ID: 2, Slug: "dos", Active: true},
	}, nil)
	graph.EXPECT().FragmentsByChapter(gomock.Any(), int64(1)).Return([]*models.Fragment{
		node(1, "uno_intro", true, false, "dos_intro"),
	}, nil)
	graph.EXPECT().FragmentsByChapter(gomock.Any(), int64(2)).Return([]*models.Fragment{
		node(2, "dos_intro", true, false), // dead end, but in chapter 2
	}, nil)

	report, err := NewValidator(graph).ValidateChapter(context.Background(), 1)
	if err != nil {
		t.Fatalf("Validator.ValidateChapter() error = %v", err)
	}
	if len(report.Issues) != 0 {
		t.Errorf("issues for chapter 1 = %v, want none", report.Issues)
	}
	if report.ScannedChapters != 2 {
		t.Errorf("ScannedChapters = %d, want 2 (the scan stays global)", report.ScannedChapters)
	}
}
