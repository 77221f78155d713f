package dispatch_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/2beens/fitcoach/internal/coach/aggregator"
	"github.com/2beens/fitcoach/internal/coach/dispatch"
	"github.com/2beens/fitcoach/internal/coach/history"
	"github.com/2beens/fitcoach/internal/coach/history/memstore"
	"github.com/2beens/fitcoach/internal/coach/intent"
	"github.com/2beens/fitcoach/internal/coach/meals"
	"github.com/2beens/fitcoach/internal/coach/progression"
	"github.com/2beens/fitcoach/internal/coach/volume"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const (
	userID        = "user-1"
	noProfileUser = "user-2"
)

var dateNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func daysAgo(days int) time.Time {
	return history.Date(dateNow).AddDate(0, 0, -days)
}

func benchSession(id string, days int, extra ...history.ExerciseEntry) history.WorkoutRecord {
	exercises := []history.ExerciseEntry{{
		Name: "Bench Press",
		Sets: []history.SetEntry{{Weight: 185, Reps: 12}, {Weight: 185, Reps: 12}, {Weight: 185, Reps: 12}},
	}}
	return history.WorkoutRecord{
		ID:        id,
		Date:      daysAgo(days),
		Title:     "Push " + id,
		Exercises: append(exercises, extra...),
	}
}

func newStore() *memstore.Store {
	store := memstore.New()
	store.AddWorkout(userID, benchSession("w1", 5))
	store.AddWorkout(userID, benchSession("w2", 3))
	store.AddWorkout(userID, benchSession("w3", 1, history.ExerciseEntry{
		Name: "Squat",
		Sets: []history.SetEntry{{Weight: 225, Reps: 5}, {Weight: 225, Reps: 5}, {Weight: 225, Reps: 5}},
	}))
	store.SetProfile(history.UserProfile{
		UserID:      userID,
		Goals:       history.Goals{Calories: 2000, Protein: 150, Carbs: 200, Fat: 70},
		MealsPerDay: 3,
	})
	store.AddMeal(userID, history.MealRecord{
		ID:       "m1",
		Date:     daysAgo(0),
		MealType: "breakfast",
		Name:     "Eggs and toast",
		Calories: 500,
		Protein:  40,
		Carbs:    50,
		Fat:      20.4,
	})
	return store
}

func newDispatcher(t *testing.T, opts ...dispatch.Option) *dispatch.Dispatcher {
	t.Helper()
	agg := aggregator.New(newStore(), aggregator.WithClock(func() time.Time { return dateNow }))
	return dispatch.NewDispatcher(
		agg,
		progression.NewAnalyzer(agg),
		volume.NewAnalyzer(agg),
		meals.NewAllocator(agg),
		opts...,
	)
}

func request(in intent.Intent, params map[string]any) dispatch.Request {
	return dispatch.Request{Intent: string(in), Parameters: params}
}

func TestDispatch_ProgressionAdvice(t *testing.T) {
	d := newDispatcher(t)

	env := d.Dispatch(context.Background(), userID, request(intent.GetProgressionAdvice, map[string]any{
		"exerciseName": "bench",
	}))
	require.True(t, env.Success, env.Error)
	assert.Equal(t, string(intent.GetProgressionAdvice), env.Action)

	data, ok := env.Data.(dispatch.ProgressionAdviceData)
	require.True(t, ok)
	assert.Equal(t, "Bench Press", data.ExerciseName)
	require.NotNil(t, data.Recommendation)
	assert.Equal(t, progression.ActionAddWeight, data.Recommendation.Action)
	assert.Equal(t, progression.ConfidenceHigh, data.Recommendation.Confidence)
	assert.Equal(t, 185.0, data.Recommendation.CurrentWeight)
	assert.Equal(t, 190.0, data.Recommendation.SuggestedWeight)
	assert.Equal(t, data.Recommendation.Reason, env.Message)
}

func TestDispatch_ProgressionAdvice_NotEnoughData(t *testing.T) {
	d := newDispatcher(t)

	env := d.Dispatch(context.Background(), userID, dispatch.Request{
		Intent:  string(intent.GetProgressionAdvice),
		Context: dispatch.Context{Screen: intent.ScreenWorkout, ExerciseSpecific: "squat"},
	})
	require.True(t, env.Success, env.Error)

	data, ok := env.Data.(dispatch.ProgressionAdviceData)
	require.True(t, ok)
	assert.Equal(t, "Squat", data.ExerciseName)
	assert.Nil(t, data.Recommendation)
	assert.Contains(t, env.Message, "Keep going with Squat")
}

func TestDispatch_FindReadyToProgress(t *testing.T) {
	d := newDispatcher(t)

	env := d.Dispatch(context.Background(), userID, request(intent.FindReadyToProgress, nil))
	require.True(t, env.Success, env.Error)

	ready, ok := env.Data.([]progression.Recommendation)
	require.True(t, ok)
	require.Len(t, ready, 1)
	assert.Equal(t, "Bench Press", ready[0].ExerciseName)
	assert.Equal(t, "Ready for more weight: Bench Press.", env.Message)
}

func TestDispatch_ExercisePR(t *testing.T) {
	d := newDispatcher(t)

	env := d.Dispatch(context.Background(), userID, request(intent.GetExercisePR, map[string]any{
		"exerciseName": "Bench Press",
		"metric":       "1RM",
	}))
	require.True(t, env.Success, env.Error)

	data, ok := env.Data.(dispatch.ExercisePRData)
	require.True(t, ok)
	assert.Equal(t, aggregator.PRMetric1RM, data.Metric)
	require.NotNil(t, data.Record)
	// 185 * 36 / (37 - 12) = 266.4
	assert.Equal(t, 266.0, data.Record.Value)
	assert.Equal(t, 185.0, data.Record.Weight)
	assert.Equal(t, 12, data.Record.Reps)
	assert.Contains(t, env.Message, "1RM is 266 lbs")
}

func TestDispatch_ExercisePR_InvalidMetric(t *testing.T) {
	d := newDispatcher(t)

	env := d.Dispatch(context.Background(), userID, request(intent.GetExercisePR, map[string]any{
		"exerciseName": "bench",
		"metric":       "speed",
	}))
	assert.False(t, env.Success)
	assert.Equal(t, string(intent.GetExercisePR), env.Action)
	assert.Contains(t, env.Error, dispatch.ErrInvalidParameter.Error())
	assert.Contains(t, env.Message, `unknown PR metric "speed"`)
	assert.Nil(t, env.Data)
}

func TestDispatch_ExercisePR_NoRecords(t *testing.T) {
	d := newDispatcher(t)

	env := d.Dispatch(context.Background(), userID, request(intent.GetExercisePR, map[string]any{
		"exerciseName": "Deadlift",
	}))
	require.True(t, env.Success, env.Error)

	data, ok := env.Data.(dispatch.ExercisePRData)
	require.True(t, ok)
	assert.Equal(t, "Deadlift", data.ExerciseName)
	assert.Nil(t, data.Record)
	assert.Equal(t, "No Deadlift sets logged yet.", env.Message)
}

func TestDispatch_NoExerciseName(t *testing.T) {
	d := newDispatcher(t)

	for _, in := range []intent.Intent{
		intent.GetProgressionAdvice,
		intent.GetExercisePR,
		intent.GetExerciseHistory,
		intent.GetExerciseProgression,
	} {
		t.Run(string(in), func(t *testing.T) {
			env := d.Dispatch(context.Background(), userID, request(in, nil))
			assert.False(t, env.Success)
			assert.Equal(t, dispatch.ErrNoExerciseName.Error(), env.Error)
			assert.Contains(t, env.Message, "Which exercise")
		})
	}
}

func TestDispatch_ExerciseHistory_FromScreenData(t *testing.T) {
	d := newDispatcher(t)

	env := d.Dispatch(context.Background(), userID, dispatch.Request{
		Intent:     string(intent.GetExerciseHistory),
		Parameters: map[string]any{"limit": float64(2)},
		Context: dispatch.Context{
			Screen:     intent.ScreenWorkout,
			ScreenData: map[string]any{"exerciseName": "BENCH PRESS"},
		},
	})
	require.True(t, env.Success, env.Error)

	data, ok := env.Data.(dispatch.ExerciseHistoryData)
	require.True(t, ok)
	assert.Equal(t, "Bench Press", data.ExerciseName)
	require.Len(t, data.Sessions, 2)
	assert.Equal(t, daysAgo(1), data.Sessions[0].Date)
	assert.Equal(t, daysAgo(3), data.Sessions[1].Date)
}

func TestDispatch_ExerciseProgression(t *testing.T) {
	d := newDispatcher(t)

	env := d.Dispatch(context.Background(), userID, request(intent.GetExerciseProgression, map[string]any{
		"exerciseName": "bench press",
		"windowDays":   "14",
	}))
	require.True(t, env.Success, env.Error)

	p, ok := env.Data.(*aggregator.Progression)
	require.True(t, ok)
	assert.Equal(t, "Bench Press", p.ExerciseName)
	assert.Equal(t, aggregator.TrendStable, p.Trend)
	assert.Len(t, p.Progression, 3)
	assert.Equal(t, "Bench Press has been stable over the last 14 days.", env.Message)
}

func TestDispatch_WeeklyVolume(t *testing.T) {
	d := newDispatcher(t)

	// intent names are case-insensitive
	env := d.Dispatch(context.Background(), userID, dispatch.Request{Intent: " get_weekly_volume "})
	require.True(t, env.Success, env.Error)
	assert.Equal(t, string(intent.GetWeeklyVolume), env.Action)

	report, ok := env.Data.(volume.Report)
	require.True(t, ok)
	assert.Equal(t, 3, report.WorkoutCount)
	assert.Equal(t, 12, report.TotalSets)
	assert.Equal(t, 9, report.Sets(volume.BucketChest))
	assert.Equal(t, 3, report.Sets(volume.BucketLegs))
	assert.Equal(t, "12 sets across 3 workouts in the last 7 days.", env.Message)
}

func TestDispatch_VolumeBalance(t *testing.T) {
	d := newDispatcher(t)

	env := d.Dispatch(context.Background(), userID, request(intent.CheckVolumeBalance, nil))
	require.True(t, env.Success, env.Error)

	imbalances, ok := env.Data.([]volume.Imbalance)
	require.True(t, ok)
	require.NotEmpty(t, imbalances)
	assert.Contains(t, env.Message, imbalances[0].Message)
}

func TestDispatch_MealMacros(t *testing.T) {
	d := newDispatcher(t)

	env := d.Dispatch(context.Background(), userID, request(intent.RecommendMealMacros, map[string]any{
		"mealType": "Lunch",
	}))
	require.True(t, env.Success, env.Error)

	rec, ok := env.Data.(meals.Recommendation)
	require.True(t, ok)
	assert.Equal(t, "lunch", rec.MealType)
	// 12:00 with 3 meals a day: lunch and dinner are left
	assert.Equal(t, 2, rec.MealsRemaining)
	// 1500 kcal left, 15% held back, split over 2 meals
	assert.Equal(t, 638.0, rec.Recommended.Calories)
	assert.Equal(t, 55.0, rec.Recommended.Protein)
	assert.Contains(t, env.Message, "For lunch aim for about 638 kcal")
}

func TestDispatch_MealMacros_NoProfileGoals(t *testing.T) {
	d := newDispatcher(t)

	env := d.Dispatch(context.Background(), noProfileUser, request(intent.RecommendMealMacros, nil))
	assert.False(t, env.Success)
	assert.Equal(t, meals.ErrNoProfileGoals.Error(), env.Error)
	assert.Contains(t, env.Message, "Set your daily calorie and macro goals")
}

func TestDispatch_NutritionStatus(t *testing.T) {
	d := newDispatcher(t)

	env := d.Dispatch(context.Background(), userID, request(intent.GetNutritionStatus, nil))
	require.True(t, env.Success, env.Error)

	nc, ok := env.Data.(aggregator.NutritionContext)
	require.True(t, ok)
	assert.Equal(t, 1500.0, nc.CaloriesRemaining)
	assert.Equal(t, 20.0, nc.FatConsumed)
	assert.Equal(t, 50.0, nc.FatRemaining)
	assert.Equal(t, "500 of 2000 kcal so far, 1500 left. 110g protein to go.", env.Message)
}

func TestDispatch_WorkoutHistoryAndTopPRs(t *testing.T) {
	d := newDispatcher(t)

	env := d.Dispatch(context.Background(), userID, request(intent.GetWorkoutHistory, map[string]any{"limit": 2}))
	require.True(t, env.Success, env.Error)
	workouts, ok := env.Data.([]aggregator.WorkoutSummary)
	require.True(t, ok)
	require.Len(t, workouts, 2)
	assert.Equal(t, "w3", workouts[0].ID)
	assert.Equal(t, "Your last 2 workouts.", env.Message)

	env = d.Dispatch(context.Background(), userID, request(intent.GetTopPRs, nil))
	require.True(t, env.Success, env.Error)
	top, ok := env.Data.([]aggregator.TopExercise)
	require.True(t, ok)
	require.Len(t, top, 2)
	assert.Equal(t, "Bench Press", top[0].ExerciseName)
	assert.Equal(t, 3, top[0].Sessions)
	assert.Equal(t, "Your top lifts by total volume: Bench Press, Squat.", env.Message)
}

func TestDispatch_AnswerQuestion(t *testing.T) {
	d := newDispatcher(t)

	env := d.Dispatch(context.Background(), userID, request(intent.AnswerQuestion, map[string]any{
		"question": "how am I doing?",
	}))
	require.True(t, env.Success, env.Error)

	snapshot, ok := env.Data.(*aggregator.Snapshot)
	require.True(t, ok)
	assert.Equal(t, userID, snapshot.UserID)
	assert.Len(t, snapshot.RecentWorkouts, 3)
	assert.Equal(t, 3, snapshot.TotalWorkouts)
}

func TestDispatch_RoundsCaloriesAndWeights(t *testing.T) {
	store := memstore.New()
	store.AddWorkout(userID, history.WorkoutRecord{
		ID:   "w1",
		Date: daysAgo(1),
		Exercises: []history.ExerciseEntry{{
			Name: "Dumbbell Press",
			Sets: []history.SetEntry{{Weight: 102.3, Reps: 7}},
		}},
	})
	store.SetProfile(history.UserProfile{
		UserID:      userID,
		Goals:       history.Goals{Calories: 2500.4, Protein: 150.6, Carbs: 260.5, Fat: 70.3},
		MealsPerDay: 3,
	})
	store.AddMeal(userID, history.MealRecord{
		ID:       "m1",
		Date:     daysAgo(0),
		MealType: "breakfast",
		Calories: 512.37,
		Protein:  1.6,
		Carbs:    50.25,
		Fat:      12.9,
	})
	agg := aggregator.New(store, aggregator.WithClock(func() time.Time { return dateNow }))
	d := dispatch.NewDispatcher(agg, progression.NewAnalyzer(agg), volume.NewAnalyzer(agg), meals.NewAllocator(agg))
	ctx := context.Background()

	env := d.Dispatch(ctx, userID, request(intent.RecommendMealMacros, map[string]any{"mealType": "lunch"}))
	require.True(t, env.Success, env.Error)
	rec, ok := env.Data.(meals.Recommendation)
	require.True(t, ok)
	assert.Equal(t, meals.Macros{Calories: 1988, Protein: 149, Carbs: 210, Fat: 57}, rec.DayRemaining)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"dayRemaining":{"calories":1988,"protein":149,"carbs":210,"fat":57}`)

	env = d.Dispatch(ctx, userID, request(intent.AnswerQuestion, nil))
	require.True(t, env.Success, env.Error)
	snapshot, ok := env.Data.(*aggregator.Snapshot)
	require.True(t, ok)
	assert.Equal(t, history.Goals{Calories: 2500, Protein: 151, Carbs: 261, Fat: 70}, snapshot.Goals)
	require.Len(t, snapshot.ExerciseProgress, 1)
	progress := snapshot.ExerciseProgress[0]
	assert.Equal(t, 102.0, progress.MaxWeight)
	assert.Equal(t, 716.0, progress.TotalVolume)
	require.Len(t, progress.Records, 1)
	assert.Equal(t, 102.0, progress.Records[0].Weight)
	assert.Equal(t, 716.0, progress.Records[0].Volume)
}

func TestDispatch_LogIntentsNotHandled(t *testing.T) {
	d := newDispatcher(t)

	for _, in := range []intent.Intent{intent.LogWorkout, intent.LogMeal} {
		env := d.Dispatch(context.Background(), userID, request(in, nil))
		assert.False(t, env.Success)
		assert.Equal(t, string(in), env.Action)
		assert.Contains(t, env.Error, dispatch.ErrNotHandled.Error())
		assert.NotEmpty(t, env.Message)
	}
}

func TestDispatch_UnknownIntent(t *testing.T) {
	m := metrics.NewTestManager()
	d := newDispatcher(t, dispatch.WithMetrics(m))

	env := d.Dispatch(context.Background(), userID, dispatch.Request{Intent: "DANCE"})
	assert.False(t, env.Success)
	assert.Equal(t, "DANCE", env.Action)
	assert.Contains(t, env.Error, dispatch.ErrUnknownIntent.Error())
	assert.Equal(t, `I don't know how to handle "DANCE" yet.`, env.Message)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterDispatch.WithLabelValues("unknown", "failure")))
}

type panickingAdvisor struct{}

func (panickingAdvisor) Advise(context.Context, string, string) *progression.Recommendation {
	panic("boom")
}

func (panickingAdvisor) FindReadyToProgress(context.Context, string) []progression.Recommendation {
	panic("boom")
}

func TestDispatch_RecoversFromPanic(t *testing.T) {
	m := metrics.NewTestManager()
	agg := aggregator.New(newStore(), aggregator.WithClock(func() time.Time { return dateNow }))
	d := dispatch.NewDispatcher(
		agg,
		panickingAdvisor{},
		volume.NewAnalyzer(agg),
		meals.NewAllocator(agg),
		dispatch.WithMetrics(m),
	)

	var env dispatch.Envelope
	require.NotPanics(t, func() {
		env = d.Dispatch(context.Background(), userID, request(intent.FindReadyToProgress, nil))
	})
	assert.False(t, env.Success)
	assert.Equal(t, string(intent.FindReadyToProgress), env.Action)
	assert.Equal(t, "panic: boom", env.Error)
	assert.NotEmpty(t, env.Message)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterDispatch.WithLabelValues(string(intent.FindReadyToProgress), "failure")))

	// the dispatcher keeps serving other intents
	env = d.Dispatch(context.Background(), userID, request(intent.GetWeeklyVolume, nil))
	assert.True(t, env.Success)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterDispatch.WithLabelValues(string(intent.GetWeeklyVolume), "success")))
}

func TestEnvelope_JSON(t *testing.T) {
	d := newDispatcher(t)

	okEnv := d.Dispatch(context.Background(), userID, request(intent.GetWeeklyVolume, nil))
	raw, err := json.Marshal(okEnv)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "GET_WEEKLY_VOLUME", decoded["action"])
	assert.Contains(t, decoded, "data")
	assert.Contains(t, decoded, "message")
	assert.NotContains(t, decoded, "error")

	failed := d.Dispatch(context.Background(), userID, request(intent.GetExercisePR, nil))
	raw, err = json.Marshal(failed)
	require.NoError(t, err)
	decoded = map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")
	assert.NotEmpty(t, decoded["message"])
	assert.NotEmpty(t, decoded["error"])
}
