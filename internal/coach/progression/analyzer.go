package progression

import (
	"context"
	"fmt"
	"sort"

	"github.com/2beens/fitcoach/internal/coach/aggregator"
	"github.com/2beens/fitcoach/internal/coach/history"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// RecentWorkoutsScanned bounds the exercise names looked at by FindReadyToProgress.
	RecentWorkoutsScanned = 10

	minWorkingReps = 5
	maxWorkingReps = 15

	highRepsThreshold        = 12.0
	consistentRepsThreshold  = 10.0
	maxConsistencyVariance   = 2.0
	plateauRepsThreshold     = 6.0
	plateauSessionRepsCap    = 7.0
	plateauSessionsRequired  = 3
	regressionSessions       = 4
	regressionRatioThreshold = 0.95

	heavyWeightThreshold = 200.0
	lightIncrement       = 5.0
	heavyIncrement       = 10.0
	weightReduction      = 0.9
)

type Action string

const (
	ActionAddWeight Action = "ADD_WEIGHT"
	ActionAddVolume Action = "ADD_VOLUME"
	ActionDeload    Action = "DELOAD"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
)

type Recommendation struct {
	ExerciseName    string     `json:"exerciseName"`
	Action          Action     `json:"action"`
	Confidence      Confidence `json:"confidence"`
	CurrentWeight   float64    `json:"currentWeight"`
	SuggestedWeight float64    `json:"suggestedWeight"`
	CurrentSets     int        `json:"currentSets"`
	SuggestedSets   int        `json:"suggestedSets,omitempty"`
	AverageReps     float64    `json:"averageReps"`
	TargetReps      string     `json:"targetReps,omitempty"`
	Reason          string     `json:"reason"`
}

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=progression_test

type sessionSource interface {
	ExerciseHistory(ctx context.Context, userID, exerciseName string, limit int) []aggregator.ExerciseSession
	ExerciseNames(ctx context.Context, userID string, limit int) []string
}

type Analyzer struct {
	sessions sessionSource
}

func NewAnalyzer(sessions sessionSource) *Analyzer {
	return &Analyzer{
		sessions: sessions,
	}
}

// FindReadyToProgress runs Analyze over every exercise seen in the latest
// workouts and keeps the ADD_WEIGHT recommendations, HIGH confidence first.
func (a *Analyzer) FindReadyToProgress(ctx context.Context, userID string) []Recommendation {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progression.find-ready")
	defer span.End()

	ready := make([]Recommendation, 0)
	for _, name := range a.sessions.ExerciseNames(ctx, userID, RecentWorkoutsScanned) {
		rec := Analyze(name, a.sessions.ExerciseHistory(ctx, userID, name, plateauSessionsRequired))
		if rec == nil || rec.Action != ActionAddWeight {
			continue
		}
		ready = append(ready, *rec)
	}

	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].Confidence == ConfidenceHigh && ready[j].Confidence != ConfidenceHigh
	})

	span.SetAttributes(attribute.Int("ready", len(ready)))
	return ready
}

// Advise returns the recommendation for one exercise, regression check included.
func (a *Analyzer) Advise(ctx context.Context, userID, exerciseName string) *Recommendation {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progression.advise")
	defer span.End()
	span.SetAttributes(attribute.String("exercise", exerciseName))

	return AnalyzeProgression(exerciseName, a.sessions.ExerciseHistory(ctx, userID, exerciseName, regressionSessions))
}

// AnalyzeProgression checks for a weight regression before anything else:
// a regressing user gets a deload recommendation even if the latest session
// would otherwise qualify for a progression. Sessions are most recent first.
func AnalyzeProgression(exerciseName string, sessions []aggregator.ExerciseSession) *Recommendation {
	if rec := regression(exerciseName, sessions); rec != nil {
		return rec
	}
	if len(sessions) > plateauSessionsRequired {
		sessions = sessions[:plateauSessionsRequired]
	}
	return Analyze(exerciseName, sessions)
}

func regression(exerciseName string, sessions []aggregator.ExerciseSession) *Recommendation {
	if len(sessions) < regressionSessions {
		return nil
	}
	recent := (averageWeight(sessions[0]) + averageWeight(sessions[1])) / 2
	prior := (averageWeight(sessions[2]) + averageWeight(sessions[3])) / 2
	if prior <= 0 || recent >= prior*regressionRatioThreshold {
		return nil
	}

	latest := sessions[0]
	return &Recommendation{
		ExerciseName:    exerciseName,
		Action:          ActionDeload,
		Confidence:      ConfidenceHigh,
		CurrentWeight:   recent,
		SuggestedWeight: recent * weightReduction,
		CurrentSets:     len(latest.Sets),
		AverageReps:     averageReps(latest.Sets),
		Reason: fmt.Sprintf(
			"Your last 2 sessions averaged %.0f lbs, down %.0f%% from %.0f lbs before. Take a lighter week to recover before pushing again.",
			recent, (1-recent/prior)*100, prior,
		),
	}
}

// Analyze decides whether load should go up for an exercise, given its
// latest sessions (most recent first). Returns nil when there is not enough
// data or no rule applies.
func Analyze(exerciseName string, sessions []aggregator.ExerciseSession) *Recommendation {
	if len(sessions) < 2 {
		return nil
	}

	latest := sessions[0]
	working := workingSets(latest)
	if len(working) == 0 {
		return nil
	}

	avgReps := averageReps(working)
	currentWeight := averageWeight(aggregator.ExerciseSession{Sets: working})
	rec := &Recommendation{
		ExerciseName:  exerciseName,
		CurrentWeight: currentWeight,
		CurrentSets:   len(latest.Sets),
		AverageReps:   avgReps,
	}

	switch {
	case avgReps >= highRepsThreshold:
		rec.Action = ActionAddWeight
		rec.Confidence = ConfidenceHigh
		rec.SuggestedWeight = currentWeight + increment(currentWeight)
		rec.Reason = fmt.Sprintf(
			"You're averaging %.1f reps per working set. Time to go heavier.", avgReps,
		)
	case avgReps >= consistentRepsThreshold && consistent(sessions):
		rec.Action = ActionAddWeight
		rec.Confidence = ConfidenceMedium
		rec.SuggestedWeight = currentWeight + increment(currentWeight)
		rec.Reason = fmt.Sprintf(
			"You've hit around %.0f reps consistently over your last sessions. Try a small jump in weight.", avgReps,
		)
	case avgReps <= plateauRepsThreshold && plateaued(sessions):
		rec.Action = ActionAddVolume
		rec.Confidence = ConfidenceMedium
		rec.SuggestedSets = len(latest.Sets) + 1
		rec.SuggestedWeight = currentWeight * weightReduction
		rec.TargetReps = "8-10"
		rec.Reason = fmt.Sprintf(
			"Reps have stayed low for %d sessions. Add a set at %.0f lbs, or drop to %.0f lbs and aim for 8-10 reps.",
			plateauSessionsRequired, currentWeight, rec.SuggestedWeight,
		)
	default:
		return nil
	}

	return rec
}

// increment is a coarse two-tier schedule, independent of the exercise.
func increment(weight float64) float64 {
	if weight < heavyWeightThreshold {
		return lightIncrement
	}
	return heavyIncrement
}

func workingSets(session aggregator.ExerciseSession) []history.SetEntry {
	working := make([]history.SetEntry, 0, len(session.Sets))
	for _, s := range session.Sets {
		if s.Reps >= minWorkingReps && s.Reps <= maxWorkingReps {
			working = append(working, s)
		}
	}
	return working
}

func averageReps(sets []history.SetEntry) float64 {
	if len(sets) == 0 {
		return 0
	}
	total := 0
	for _, s := range sets {
		total += s.Reps
	}
	return float64(total) / float64(len(sets))
}

func averageWeight(session aggregator.ExerciseSession) float64 {
	if len(session.Sets) == 0 {
		return 0
	}
	var total float64
	for _, s := range session.Sets {
		total += s.Weight
	}
	return total / float64(len(session.Sets))
}

// consistent reports whether the per-session working-set rep averages of
// the latest 2-3 sessions vary by at most maxConsistencyVariance.
func consistent(sessions []aggregator.ExerciseSession) bool {
	var averages []float64
	for _, s := range sessions {
		if len(averages) == plateauSessionsRequired {
			break
		}
		if working := workingSets(s); len(working) > 0 {
			averages = append(averages, averageReps(working))
		}
	}
	if len(averages) < 2 {
		return false
	}
	return variance(averages) <= maxConsistencyVariance
}

// plateaued reports whether each of the latest sessions stayed at or under
// the rep cap. A session made only of heavy low-rep sets is averaged over
// all of its sets and still counts; a session with no sets breaks the run.
func plateaued(sessions []aggregator.ExerciseSession) bool {
	if len(sessions) < plateauSessionsRequired {
		return false
	}
	for _, s := range sessions[:plateauSessionsRequired] {
		sets := workingSets(s)
		if len(sets) == 0 {
			sets = s.Sets
		}
		if len(sets) == 0 || averageReps(sets) > plateauSessionRepsCap {
			return false
		}
	}
	return true
}

func variance(values []float64) float64 {
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sum float64
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return sum / float64(len(values))
}
