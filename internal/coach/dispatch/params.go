package dispatch

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/2beens/fitcoach/internal/coach/aggregator"
	"github.com/2beens/fitcoach/internal/coach/history"
	"github.com/2beens/fitcoach/internal/coach/intent"
	"github.com/2beens/fitcoach/internal/coach/meals"
	"github.com/2beens/fitcoach/internal/coach/progression"
)

func stringParam(params map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := params[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// intParam reads a positive integer; JSON numbers arrive as float64.
func intParam(params map[string]any, key string, fallback int) int {
	var n int
	switch v := params[key].(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fallback
		}
		n = parsed
	default:
		return fallback
	}
	if n <= 0 {
		return fallback
	}
	return n
}

// resolveExercise picks the exercise a request is about: explicit
// parameters first, then the screen context. The label is resolved against
// the exercises the user actually logged; an unknown label is kept as is.
func (d *Dispatcher) resolveExercise(ctx context.Context, userID string, req Request) (string, error) {
	label := stringParam(req.Parameters, intent.ParamExerciseName, "exercise")
	if label == "" {
		label = strings.TrimSpace(req.Context.ExerciseSpecific)
	}
	if label == "" {
		label = stringParam(req.Context.ScreenData, intent.ParamExerciseName, "exercise")
	}
	if label == "" {
		return "", ErrNoExerciseName
	}

	if resolved, ok := history.Resolve(label, d.context.ExerciseNames(ctx, userID, 0)); ok {
		return resolved, nil
	}
	return label, nil
}

func round(v float64) float64 {
	return math.Round(v)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundRecommendation(r progression.Recommendation) progression.Recommendation {
	r.CurrentWeight = round(r.CurrentWeight)
	r.SuggestedWeight = round(r.SuggestedWeight)
	r.AverageReps = round1(r.AverageReps)
	return r
}

func roundPR(pr *aggregator.PersonalRecord) *aggregator.PersonalRecord {
	if pr == nil {
		return nil
	}
	rounded := *pr
	rounded.Value = round(pr.Value)
	rounded.Weight = round(pr.Weight)
	rounded.Volume = round(pr.Volume)
	return &rounded
}

func roundSessions(sessions []aggregator.ExerciseSession) []aggregator.ExerciseSession {
	rounded := make([]aggregator.ExerciseSession, 0, len(sessions))
	for _, s := range sessions {
		s.MaxWeight = round(s.MaxWeight)
		s.TotalVolume = round(s.TotalVolume)
		rounded = append(rounded, s)
	}
	return rounded
}

func roundProgression(p *aggregator.Progression) *aggregator.Progression {
	rounded := *p
	rounded.WeightChange = round(p.WeightChange)
	rounded.VolumeChange = round1(p.VolumeChange)
	rounded.Progression = make([]aggregator.ProgressionPoint, 0, len(p.Progression))
	for _, point := range p.Progression {
		point.MaxWeight = round(point.MaxWeight)
		point.TotalVolume = round(point.TotalVolume)
		rounded.Progression = append(rounded.Progression, point)
	}
	return &rounded
}

func roundWorkouts(workouts []aggregator.WorkoutSummary) []aggregator.WorkoutSummary {
	rounded := make([]aggregator.WorkoutSummary, 0, len(workouts))
	for _, w := range workouts {
		w.TotalVolume = round(w.TotalVolume)
		exercises := make([]aggregator.ExerciseSummary, 0, len(w.Exercises))
		for _, e := range w.Exercises {
			e.MaxWeight = round(e.MaxWeight)
			e.TotalVolume = round(e.TotalVolume)
			exercises = append(exercises, e)
		}
		w.Exercises = exercises
		rounded = append(rounded, w)
	}
	return rounded
}

func roundTopExercises(top []aggregator.TopExercise) []aggregator.TopExercise {
	rounded := make([]aggregator.TopExercise, 0, len(top))
	for _, t := range top {
		t.TotalVolume = round(t.TotalVolume)
		t.WeightPR = roundPR(t.WeightPR)
		rounded = append(rounded, t)
	}
	return rounded
}

func roundNutrition(nc aggregator.NutritionContext) aggregator.NutritionContext {
	nc.CaloriesConsumed = round(nc.CaloriesConsumed)
	nc.CaloriesTarget = round(nc.CaloriesTarget)
	nc.CaloriesRemaining = round(nc.CaloriesRemaining)
	nc.ProteinConsumed = round(nc.ProteinConsumed)
	nc.ProteinTarget = round(nc.ProteinTarget)
	nc.ProteinRemaining = round(nc.ProteinRemaining)
	nc.CarbsConsumed = round(nc.CarbsConsumed)
	nc.CarbsTarget = round(nc.CarbsTarget)
	nc.CarbsRemaining = round(nc.CarbsRemaining)
	nc.FatConsumed = round(nc.FatConsumed)
	nc.FatTarget = round(nc.FatTarget)
	nc.FatRemaining = round(nc.FatRemaining)
	return nc
}

func roundMacros(m meals.Macros) meals.Macros {
	return meals.Macros{
		Calories: round(m.Calories),
		Protein:  round(m.Protein),
		Carbs:    round(m.Carbs),
		Fat:      round(m.Fat),
	}
}

func roundMeal(rec meals.Recommendation) meals.Recommendation {
	rec.Recommended = roundMacros(rec.Recommended)
	rec.DayRemaining = roundMacros(rec.DayRemaining)
	return rec
}

func roundGoals(g history.Goals) history.Goals {
	return history.Goals{
		Calories: round(g.Calories),
		Protein:  round(g.Protein),
		Carbs:    round(g.Carbs),
		Fat:      round(g.Fat),
	}
}

func roundExerciseProgress(progress []aggregator.ExerciseProgress) []aggregator.ExerciseProgress {
	rounded := make([]aggregator.ExerciseProgress, 0, len(progress))
	for _, p := range progress {
		p.MaxWeight = round(p.MaxWeight)
		p.TotalVolume = round(p.TotalVolume)
		records := make([]aggregator.SetRecord, 0, len(p.Records))
		for _, r := range p.Records {
			r.Weight = round(r.Weight)
			r.Volume = round(r.Volume)
			records = append(records, r)
		}
		p.Records = records
		rounded = append(rounded, p)
	}
	return rounded
}
