package services

import (
	"context"
	"testing"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/narrative"
	"github.com/dianabot/dianabot/dianabot/narrative/mock"
	"go.uber.org/mock/gomock"
)

// The demo chapter is the reference authoring document: decoded, mapped the
// way an import persists it and fed to the graph validator, it must come out
// with zero issues.
func Test_demoStoryValidatesClean(t *testing.T) {
	importer := NewStoryImporter(nil, nil)
	payload, err := importer.Decode([]byte(DemoStoryJSON))
	if err != nil {
		t.Fatalf("StoryImporter.Decode() error = %v", err)
	}

	chapter := &models.Chapter{
		ID:     1,
		Name:   payload.Chapter.Name,
		Slug:   payload.Chapter.Slug,
		Active: true,
	}
	fragments := make([]*models.Fragment, 0, len(payload.Fragments))
	for i := range payload.Fragments {
		fragment := fragmentFromPayload(&payload.Fragments[i], chapter.ID)
		// persistence activates decisions and requirements on insert
		for _, d := range fragment.Decisions {
			d.Active = true
		}
		for _, r := range fragment.Requirements {
			r.Active = true
		}
		fragments = append(fragments, fragment)
	}

	graph := mock.NewMockGraphStore(gomock.NewController(t))
	graph.EXPECT().ActiveChapters(gomock.Any()).Return([]*models.Chapter{chapter}, nil)
	graph.EXPECT().FragmentsByChapter(gomock.Any(), int64(1)).Return(fragments, nil)

	report, err := narrative.NewValidator(graph).ValidateGraph(context.Background())
	if err != nil {
		t.Fatalf("Validator.ValidateGraph() error = %v", err)
	}
	if len(report.Issues) != 0 {
		t.Errorf("demo story issues = %v, want none", report.Issues)
	}
	if !report.IsValid() {
		t.Error("IsValid() = false for the demo story")
	}
	if report.ScannedFragments != 4 {
		t.Errorf("ScannedFragments = %d, want 4", report.ScannedFragments)
	}
}
