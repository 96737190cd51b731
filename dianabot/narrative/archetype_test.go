package narrative

import (
	"context"
	"math"
	"testing"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/narrative/mock"
	"go.uber.org/mock/gomock"
)

func Test_Classifier_Classify(t *testing.T) {
	c := NewClassifier(nil, nil)

	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{name: "instant answer", seconds: 2, want: models.ArchetypeImpulsive},
		{name: "just under impulsive cap", seconds: 4.9, want: models.ArchetypeImpulsive},
		{name: "low intermediate band", seconds: 10, want: models.ArchetypeImpulsive},
		{name: "at the split", seconds: 15, want: models.ArchetypeImpulsive},
		{name: "above the split", seconds: 15.1, want: models.ArchetypeContemplative},
		{name: "high intermediate band", seconds: 29, want: models.ArchetypeContemplative},
		{name: "contemplative floor", seconds: 30, want: models.ArchetypeContemplative},
		{name: "silent floor", seconds: 120, want: models.ArchetypeSilent},
		{name: "very slow", seconds: 600, want: models.ArchetypeSilent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.seconds); got != tt.want {
				t.Errorf("Classifier.Classify(%v) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func Test_Classifier_Confidence(t *testing.T) {
	c := NewClassifier(nil, nil)

	tests := []struct {
		name          string
		decisionCount int
		avgSeconds    float64
		want          float64
	}{
		// count factor saturated, avg 5s from the nearest threshold
		{name: "saturated count", decisionCount: 10, avgSeconds: 0, want: 0.8},
		// half the count, avg between split and contemplative floor
		{name: "ambiguous latency", decisionCount: 5, avgSeconds: 20, want: 0.45},
		// sitting exactly on a threshold carries no clarity
		{name: "on a threshold", decisionCount: 10, avgSeconds: 30, want: 0.7},
		{name: "no decisions", decisionCount: 0, avgSeconds: 0, want: 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Confidence(tt.decisionCount, tt.avgSeconds)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Classifier.Confidence(%d, %v) = %v, want %v", tt.decisionCount, tt.avgSeconds, got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("Classifier.Confidence(%d, %v) = %v, outside [0,1]", tt.decisionCount, tt.avgSeconds, got)
			}
		})
	}
}

func Test_Classifier_AnalyzeAndUpdate(t *testing.T) {
	ctx := context.Background()
	userID := int64(42)

	t.Run("no history is a no-op", func(t *testing.T) {
		progress := mock.NewMockProgressStore(gomock.NewController(t))
		progress.EXPECT().ResponseTimes(gomock.Any(), userID).Return(nil, nil)

		c := NewClassifier(nil, progress)
		if err := c.AnalyzeAndUpdate(ctx, userID); err != nil {
			t.Errorf("Classifier.AnalyzeAndUpdate() error = %v", err)
		}
	})

	t.Run("unknown archetype gets overwritten", func(t *testing.T) {
		progress := mock.NewMockProgressStore(gomock.NewController(t))
		progress.EXPECT().ResponseTimes(gomock.Any(), userID).Return([]float64{2, 4}, nil)
		progress.EXPECT().Progress(gomock.Any(), userID).Return(&models.UserProgress{
			UserID:            userID,
			DetectedArchetype: models.ArchetypeUnknown,
		}, nil)

		var saved *models.UserProgress
		progress.EXPECT().SaveProgress(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *models.UserProgress) error {
				saved = p
				return nil
			})

		c := NewClassifier(nil, progress)
		if err := c.AnalyzeAndUpdate(ctx, userID); err != nil {
			t.Fatalf("Classifier.AnalyzeAndUpdate() error = %v", err)
		}
		if saved.DetectedArchetype != models.ArchetypeImpulsive {
			t.Errorf("saved archetype = %v, want %v", saved.DetectedArchetype, models.ArchetypeImpulsive)
		}
		if saved.ArchetypeConfidence <= 0 {
			t.Errorf("saved confidence = %v, want > 0", saved.ArchetypeConfidence)
		}
	})

	t.Run("same label with no confidence gain is kept", func(t *testing.T) {
		progress := mock.NewMockProgressStore(gomock.NewController(t))
		progress.EXPECT().ResponseTimes(gomock.Any(), userID).Return([]float64{2, 4}, nil)
		progress.EXPECT().Progress(gomock.Any(), userID).Return(&models.UserProgress{
			UserID:              userID,
			DetectedArchetype:   models.ArchetypeImpulsive,
			ArchetypeConfidence: 0.9,
		}, nil)
		// no SaveProgress expected

		c := NewClassifier(nil, progress)
		if err := c.AnalyzeAndUpdate(ctx, userID); err != nil {
			t.Errorf("Classifier.AnalyzeAndUpdate() error = %v", err)
		}
	})

	t.Run("label change always overwrites", func(t *testing.T) {
		progress := mock.NewMockProgressStore(gomock.NewController(t))
		progress.EXPECT().ResponseTimes(gomock.Any(), userID).Return([]float64{40, 40}, nil)
		progress.EXPECT().Progress(gomock.Any(), userID).Return(&models.UserProgress{
			UserID:              userID,
			DetectedArchetype:   models.ArchetypeImpulsive,
			ArchetypeConfidence: 0.9,
		}, nil)

		var saved *models.UserProgress
		progress.EXPECT().SaveProgress(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *models.UserProgress) error {
				saved = p
				return nil
			})

		c := NewClassifier(nil, progress)
		if err := c.AnalyzeAndUpdate(ctx, userID); err != nil {
			t.Fatalf("Classifier.AnalyzeAndUpdate() error = %v", err)
		}
		if saved.DetectedArchetype != models.ArchetypeContemplative {
			t.Errorf("saved archetype = %v, want %v", saved.DetectedArchetype, models.ArchetypeContemplative)
		}
	})

	t.Run("history without progress row is a no-op", func(t *testing.T) {
		progress := mock.NewMockProgressStore(gomock.NewController(t))
		progress.EXPECT().ResponseTimes(gomock.Any(), userID).Return([]float64{3}, nil)
		progress.EXPECT().Progress(gomock.Any(), userID).Return(nil, nil)

		c := NewClassifier(nil, progress)
		if err := c.AnalyzeAndUpdate(ctx, userID); err != nil {
			t.Errorf("Classifier.AnalyzeAndUpdate() error = %v", err)
		}
	})
}
