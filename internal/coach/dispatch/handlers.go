package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/2beens/fitcoach/internal/coach/aggregator"
	"github.com/2beens/fitcoach/internal/coach/intent"
	"github.com/2beens/fitcoach/internal/coach/progression"
	"github.com/2beens/fitcoach/internal/coach/volume"
)

type ProgressionAdviceData struct {
	ExerciseName   string                      `json:"exerciseName"`
	Recommendation *progression.Recommendation `json:"recommendation"`
}

type ExercisePRData struct {
	ExerciseName string                     `json:"exerciseName"`
	Metric       aggregator.PRMetric        `json:"metric"`
	Record       *aggregator.PersonalRecord `json:"record"`
}

type ExerciseHistoryData struct {
	ExerciseName string                       `json:"exerciseName"`
	Sessions     []aggregator.ExerciseSession `json:"sessions"`
}

func (d *Dispatcher) handleProgressionAdvice(ctx context.Context, userID string, req Request) (Envelope, error) {
	name, err := d.resolveExercise(ctx, userID, req)
	if err != nil {
		return Envelope{}, err
	}

	data := ProgressionAdviceData{ExerciseName: name}
	rec := d.progression.Advise(ctx, userID, name)
	if rec == nil {
		return Envelope{
			Data: data,
			Message: fmt.Sprintf(
				"Keep going with %s as you are. There isn't enough recent data for a change yet.", name,
			),
		}, nil
	}

	rounded := roundRecommendation(*rec)
	data.Recommendation = &rounded
	return Envelope{
		Data:    data,
		Message: rounded.Reason,
	}, nil
}

func (d *Dispatcher) handleFindReadyToProgress(ctx context.Context, userID string, _ Request) (Envelope, error) {
	ready := d.progression.FindReadyToProgress(ctx, userID)
	rounded := make([]progression.Recommendation, 0, len(ready))
	names := make([]string, 0, len(ready))
	for _, r := range ready {
		rounded = append(rounded, roundRecommendation(r))
		names = append(names, r.ExerciseName)
	}

	message := "Nothing is ready for a weight increase yet. Keep building reps."
	if len(ready) > 0 {
		message = fmt.Sprintf("Ready for more weight: %s.", strings.Join(names, ", "))
	}
	return Envelope{
		Data:    rounded,
		Message: message,
	}, nil
}

func (d *Dispatcher) handleExercisePR(ctx context.Context, userID string, req Request) (Envelope, error) {
	name, err := d.resolveExercise(ctx, userID, req)
	if err != nil {
		return Envelope{}, err
	}

	metric := aggregator.PRMetric(strings.ToLower(stringParam(req.Parameters, intent.ParamMetric)))
	if metric == "" {
		metric = aggregator.PRMetricWeight
	}
	if !metric.IsValid() {
		return Envelope{}, fmt.Errorf("%w: unknown PR metric %q, use weight, volume, reps or 1rm", ErrInvalidParameter, metric)
	}

	pr := roundPR(d.context.ExercisePR(ctx, userID, name, metric))
	data := ExercisePRData{ExerciseName: name, Metric: metric, Record: pr}
	if pr == nil {
		return Envelope{
			Data:    data,
			Message: fmt.Sprintf("No %s sets logged yet.", name),
		}, nil
	}

	var message string
	switch metric {
	case aggregator.PRMetricVolume:
		message = fmt.Sprintf("Your best %s set by volume is %.0f lbs (%.0f x %d) on %s.", name, pr.Value, pr.Weight, pr.Reps, pr.Date.Format("Jan 2"))
	case aggregator.PRMetricReps:
		message = fmt.Sprintf("Your %s rep record is %d reps at %.0f lbs on %s.", name, pr.Reps, pr.Weight, pr.Date.Format("Jan 2"))
	case aggregator.PRMetric1RM:
		message = fmt.Sprintf("Your estimated %s 1RM is %.0f lbs, from %.0f x %d on %s.", name, pr.Value, pr.Weight, pr.Reps, pr.Date.Format("Jan 2"))
	default:
		message = fmt.Sprintf("Your %s PR is %.0f lbs x %d on %s.", name, pr.Weight, pr.Reps, pr.Date.Format("Jan 2"))
	}
	return Envelope{
		Data:    data,
		Message: message,
	}, nil
}

func (d *Dispatcher) handleExerciseHistory(ctx context.Context, userID string, req Request) (Envelope, error) {
	name, err := d.resolveExercise(ctx, userID, req)
	if err != nil {
		return Envelope{}, err
	}

	limit := intParam(req.Parameters, intent.ParamLimit, aggregator.DefaultHistoryLimit)
	sessions := roundSessions(d.context.ExerciseHistory(ctx, userID, name, limit))
	message := fmt.Sprintf("No %s sessions logged yet.", name)
	if len(sessions) > 0 {
		message = fmt.Sprintf("Your last %d %s sessions.", len(sessions), name)
	}
	return Envelope{
		Data:    ExerciseHistoryData{ExerciseName: name, Sessions: sessions},
		Message: message,
	}, nil
}

func (d *Dispatcher) handleExerciseProgression(ctx context.Context, userID string, req Request) (Envelope, error) {
	name, err := d.resolveExercise(ctx, userID, req)
	if err != nil {
		return Envelope{}, err
	}

	windowDays := intParam(req.Parameters, intent.ParamWindowDays, aggregator.DefaultWindowDays)
	p := roundProgression(d.context.ExerciseProgression(ctx, userID, name, windowDays))
	p.ExerciseName = name

	var message string
	switch p.Trend {
	case aggregator.TrendNoData:
		message = fmt.Sprintf("You haven't logged %s yet.", name)
	case aggregator.TrendNoRecentData:
		message = fmt.Sprintf("No %s sessions in the last %d days.", name, windowDays)
	case aggregator.TrendImproving:
		message = fmt.Sprintf("%s is improving: %+.0f lbs and %+.1f%% volume over %d days.", name, p.WeightChange, p.VolumeChange, windowDays)
	case aggregator.TrendDeclining:
		message = fmt.Sprintf("%s is trending down: %+.0f lbs and %+.1f%% volume over %d days.", name, p.WeightChange, p.VolumeChange, windowDays)
	default:
		message = fmt.Sprintf("%s has been stable over the last %d days.", name, windowDays)
	}
	return Envelope{
		Data:    p,
		Message: message,
	}, nil
}

func (d *Dispatcher) handleVolumeBalance(ctx context.Context, userID string, _ Request) (Envelope, error) {
	imbalances := d.volume.Imbalances(ctx, userID)
	message := "Your training volume looks balanced this week."
	if len(imbalances) > 0 {
		message = imbalances[0].Message + " " + imbalances[0].Recommendation
	}
	return Envelope{
		Data:    imbalances,
		Message: message,
	}, nil
}

func (d *Dispatcher) handleWeeklyVolume(ctx context.Context, userID string, _ Request) (Envelope, error) {
	report := d.volume.WeeklyVolume(ctx, userID)
	message := fmt.Sprintf("%d sets across %d workouts in the last %d days.", report.TotalSets, report.WorkoutCount, volume.WindowDays)
	if report.WorkoutCount == 0 {
		message = fmt.Sprintf("No workouts in the last %d days.", volume.WindowDays)
	}
	return Envelope{
		Data:    report,
		Message: message,
	}, nil
}

func (d *Dispatcher) handleMealMacros(ctx context.Context, userID string, req Request) (Envelope, error) {
	mealType := stringParam(req.Parameters, intent.ParamMealType)
	if mealType == "" {
		mealType = stringParam(req.Context.ScreenData, intent.ParamMealType)
	}

	rec, err := d.meals.Recommend(ctx, userID, mealType)
	if err != nil {
		return Envelope{}, err
	}
	rec = roundMeal(rec)

	return Envelope{
		Data: rec,
		Message: fmt.Sprintf(
			"For %s aim for about %.0f kcal, %.0fg protein, %.0fg carbs and %.0fg fat (%d %s left today).",
			strings.ReplaceAll(rec.MealType, "_", " "),
			rec.Recommended.Calories, rec.Recommended.Protein, rec.Recommended.Carbs, rec.Recommended.Fat,
			rec.MealsRemaining, plural(rec.MealsRemaining, "meal", "meals"),
		),
	}, nil
}

func (d *Dispatcher) handleNutritionStatus(ctx context.Context, userID string, _ Request) (Envelope, error) {
	nc := roundNutrition(d.context.NutritionContext(ctx, userID, d.context.Today()))

	var message string
	switch {
	case nc.CaloriesTarget <= 0:
		message = fmt.Sprintf("%.0f kcal and %.0fg protein logged today. Set goals in your profile to track what's left.", nc.CaloriesConsumed, nc.ProteinConsumed)
	case nc.CaloriesRemaining < 0:
		message = fmt.Sprintf("%.0f of %.0f kcal so far, %.0f over target. %.0fg protein to go.", nc.CaloriesConsumed, nc.CaloriesTarget, -nc.CaloriesRemaining, nc.ProteinRemaining)
	default:
		message = fmt.Sprintf("%.0f of %.0f kcal so far, %.0f left. %.0fg protein to go.", nc.CaloriesConsumed, nc.CaloriesTarget, nc.CaloriesRemaining, nc.ProteinRemaining)
	}
	return Envelope{
		Data:    nc,
		Message: message,
	}, nil
}

func (d *Dispatcher) handleWorkoutHistory(ctx context.Context, userID string, req Request) (Envelope, error) {
	limit := intParam(req.Parameters, intent.ParamLimit, aggregator.DefaultHistoryLimit)
	workouts := roundWorkouts(d.context.AllWorkoutHistory(ctx, userID, limit))
	message := "No workouts logged yet."
	if len(workouts) > 0 {
		message = fmt.Sprintf("Your last %d %s.", len(workouts), plural(len(workouts), "workout", "workouts"))
	}
	return Envelope{
		Data:    workouts,
		Message: message,
	}, nil
}

func (d *Dispatcher) handleTopPRs(ctx context.Context, userID string, req Request) (Envelope, error) {
	limit := intParam(req.Parameters, intent.ParamLimit, aggregator.DefaultTopPRsLimit)
	top := roundTopExercises(d.context.TopExercisePRs(ctx, userID, limit))
	message := "No lifts logged yet."
	if len(top) > 0 {
		names := make([]string, 0, len(top))
		for _, t := range top {
			names = append(names, t.ExerciseName)
		}
		message = fmt.Sprintf("Your top lifts by total volume: %s.", strings.Join(names, ", "))
	}
	return Envelope{
		Data:    top,
		Message: message,
	}, nil
}

// handleAnswerQuestion has no analysis of its own; it hands the consolidated
// snapshot to whoever answers the free-form question.
func (d *Dispatcher) handleAnswerQuestion(ctx context.Context, userID string, _ Request) (Envelope, error) {
	snapshot := d.context.Snapshot(ctx, userID)
	snapshot.RecentWorkouts = roundWorkouts(snapshot.RecentWorkouts)
	snapshot.ExerciseProgress = roundExerciseProgress(snapshot.ExerciseProgress)
	snapshot.Goals = roundGoals(snapshot.Goals)
	snapshot.TopPRs = roundTopExercises(snapshot.TopPRs)
	snapshot.Nutrition = roundNutrition(snapshot.Nutrition)
	return Envelope{
		Data:    snapshot,
		Message: "Here's your current training and nutrition context.",
	}, nil
}

func (d *Dispatcher) handleNotHandled(_ context.Context, _ string, req Request) (Envelope, error) {
	return Envelope{}, fmt.Errorf("%w: %s", ErrNotHandled, strings.ToUpper(req.Intent))
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
