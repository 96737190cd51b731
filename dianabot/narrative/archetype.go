package narrative

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
)

// ClassifierConfig holds the latency thresholds and confidence weights of the
// behavioral classifier. The thresholds are heuristics tuned against real
// conversation logs, so they live in config instead of inline literals.
type ClassifierConfig struct {
	// Classification thresholds, in seconds of response latency
	ImpulsiveMaxSeconds      float64 // answers faster than this are impulsive
	IntermediateSplitSeconds float64 // tie-break inside the impulsive/contemplative band
	ContemplativeMinSeconds  float64
	SilentMinSeconds         float64

	// Confidence scoring
	DecisionCountSaturation float64 // decision count at which the count factor tops out
	CountWeight             float64
	ClarityWeight           float64
	ClarityScaleSeconds     float64 // distance from a threshold that counts as fully clear

	// Hysteresis: a same-archetype result only overwrites the stored
	// confidence when it improves by more than this
	OverwriteConfidenceDelta float64
}

func DefaultClassifierConfig() *ClassifierConfig {
	return &ClassifierConfig{
		ImpulsiveMaxSeconds:      5,
		IntermediateSplitSeconds: 15,
		ContemplativeMinSeconds:  30,
		SilentMinSeconds:         120,
		DecisionCountSaturation:  10,
		CountWeight:              0.7,
		ClarityWeight:            0.3,
		ClarityScaleSeconds:      15,
		OverwriteConfidenceDelta: 0.1,
	}
}

// Classifier infers a behavioral archetype from decision response latencies.
type Classifier struct {
	config   *ClassifierConfig
	progress ProgressStore
}

func NewClassifier(config *ClassifierConfig, progress ProgressStore) *Classifier {
	if config == nil {
		config = DefaultClassifierConfig()
	}
	return &Classifier{config: config, progress: progress}
}

// Classify maps a response latency to an archetype. The 5-30s band splits at
// IntermediateSplitSeconds: above it counts as contemplative, at or below as
// impulsive.
func (c *Classifier) Classify(seconds float64) string {
	switch {
	case seconds >= c.config.SilentMinSeconds:
		return models.ArchetypeSilent
	case seconds >= c.config.ContemplativeMinSeconds:
		return models.ArchetypeContemplative
	case seconds < c.config.ImpulsiveMaxSeconds:
		return models.ArchetypeImpulsive
	case seconds > c.config.IntermediateSplitSeconds:
		return models.ArchetypeContemplative
	default:
		return models.ArchetypeImpulsive
	}
}

// Confidence scores how much to trust a classification: mostly how many
// decisions back it, partly how far the mean latency sits from the nearest
// classification threshold. Always in [0,1].
func (c *Classifier) Confidence(decisionCount int, avgSeconds float64) float64 {
	countFactor := math.Min(1, float64(decisionCount)/c.config.DecisionCountSaturation)

	thresholds := []float64{
		c.config.ImpulsiveMaxSeconds,
		c.config.IntermediateSplitSeconds,
		c.config.ContemplativeMinSeconds,
		c.config.SilentMinSeconds,
	}
	nearest := math.Inf(1)
	for _, t := range thresholds {
		if d := math.Abs(avgSeconds - t); d < nearest {
			nearest = d
		}
	}
	clarityFactor := math.Min(1, nearest/c.config.ClarityScaleSeconds)

	confidence := c.config.CountWeight*countFactor + c.config.ClarityWeight*clarityFactor
	return math.Max(0, math.Min(1, confidence))
}

// AnalyzeAndUpdate recomputes the user's archetype from their full response
// history and stores it, subject to the hysteresis rule: the stored label is
// only overwritten when it was unknown, when the label changed, or when the
// confidence improved by more than OverwriteConfidenceDelta. This keeps a
// noisy single sample from flapping an established label.
func (c *Classifier) AnalyzeAndUpdate(ctx context.Context, userID int64) error {
	times, err := c.progress.ResponseTimes(ctx, userID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return nil
	}

	var sum float64
	for _, t := range times {
		sum += t
	}
	avg := sum / float64(len(times))

	archetype := c.Classify(avg)
	confidence := c.Confidence(len(times), avg)

	progress, err := c.progress.Progress(ctx, userID)
	if err != nil {
		return err
	}
	if progress == nil {
		// History without a progress row should not happen; nothing to update.
		return nil
	}

	overwrite := progress.DetectedArchetype == models.ArchetypeUnknown ||
		progress.DetectedArchetype != archetype ||
		confidence > progress.ArchetypeConfidence+c.config.OverwriteConfidenceDelta
	if !overwrite {
		return nil
	}

	slog.Debug("Archetype updated",
		slog.Int64("user_id", userID),
		slog.String("archetype", archetype),
		slog.Float64("confidence", confidence),
		slog.Float64("avg_response_seconds", avg),
		slog.Int("decisions", len(times)),
	)

	progress.DetectedArchetype = archetype
	progress.ArchetypeConfidence = confidence
	progress.UpdatedAt = time.Now()
	return c.progress.SaveProgress(ctx, progress)
}
