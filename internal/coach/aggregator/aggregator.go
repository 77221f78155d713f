package aggregator

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/2beens/fitcoach/internal/coach/history"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultReadTimeout = 3 * time.Second

	DefaultHistoryLimit  = 10
	DefaultProgressLimit = 50
	DefaultTopPRsLimit   = 5
	DefaultWindowDays    = 30
	DefaultMealsPerDay   = 3
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=aggregator_test

type historyStore interface {
	GetWorkoutHistory(ctx context.Context, userID string) ([]history.WorkoutRecord, error)
	GetMealsByDate(ctx context.Context, userID string, date time.Time) ([]history.MealRecord, error)
	GetUserProfile(ctx context.Context, userID string) (*history.UserProfile, error)
}

// Aggregator builds views of a user's history on demand. Nothing is cached:
// every call reads the store again. Storage failures are logged and turned
// into empty results, they never reach the caller.
type Aggregator struct {
	store       historyStore
	readTimeout time.Duration
	now         func() time.Time
	location    *time.Location
}

type Option func(a *Aggregator)

func WithReadTimeout(timeout time.Duration) Option {
	return func(a *Aggregator) {
		if timeout > 0 {
			a.readTimeout = timeout
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// WithLocation sets the user's local time zone, used to decide "today".
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		if loc != nil {
			a.location = loc
		}
	}
}

func New(store historyStore, opts ...Option) *Aggregator {
	a := &Aggregator{
		store:       store,
		readTimeout: DefaultReadTimeout,
		now:         time.Now,
		location:    time.UTC,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Now returns the current time in the configured location.
func (a *Aggregator) Now() time.Time {
	return a.now().In(a.location)
}

// Today is the current calendar date in the configured location.
func (a *Aggregator) Today() time.Time {
	return history.Date(a.Now())
}

func (a *Aggregator) readWorkouts(ctx context.Context, userID string) ([]history.WorkoutRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, a.readTimeout)
	defer cancel()

	workouts, err := a.store.GetWorkoutHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].Date.After(workouts[j].Date)
	})
	return workouts, nil
}

func (a *Aggregator) readProfile(ctx context.Context, userID string) (*history.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, a.readTimeout)
	defer cancel()
	return a.store.GetUserProfile(ctx, userID)
}

func (a *Aggregator) readMeals(ctx context.Context, userID string, date time.Time) ([]history.MealRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, a.readTimeout)
	defer cancel()
	return a.store.GetMealsByDate(ctx, userID, date)
}

func (a *Aggregator) workouts(ctx context.Context, userID string) []history.WorkoutRecord {
	workouts, err := a.readWorkouts(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("aggregator: get workout history")
		return nil
	}
	return workouts
}

// ExerciseHistory returns the workouts containing a matching exercise, most
// recent first. Per workout only the best scoring exercise entry is used.
func (a *Aggregator) ExerciseHistory(ctx context.Context, userID, exerciseName string, limit int) []ExerciseSession {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aggregator.exercise-history")
	defer span.End()
	span.SetAttributes(attribute.String("exercise", exerciseName))
	span.SetAttributes(attribute.Int("limit", limit))

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return exerciseSessions(a.workouts(ctx, userID), exerciseName, limit)
}

func exerciseSessions(workouts []history.WorkoutRecord, exerciseName string, limit int) []ExerciseSession {
	sessions := make([]ExerciseSession, 0)
	for _, w := range workouts {
		if len(sessions) >= limit {
			break
		}
		e, ok := history.BestExercise(exerciseName, w.Exercises)
		if !ok {
			continue
		}
		sessions = append(sessions, ExerciseSession{
			WorkoutID:    w.ID,
			Date:         w.Date,
			Title:        w.Title,
			ExerciseName: e.Name,
			Equipment:    e.Equipment,
			Sets:         append([]history.SetEntry(nil), e.Sets...),
			MaxWeight:    e.MaxWeight(),
			TotalVolume:  e.TotalVolume(),
		})
	}
	return sessions
}

// setRecords returns every set of each workout's best matching exercise entry,
// oldest first, plus the stored name of the most recent match.
func setRecords(workouts []history.WorkoutRecord, exerciseName string) ([]SetRecord, string) {
	var records []SetRecord
	var name string
	for i := len(workouts) - 1; i >= 0; i-- {
		w := workouts[i]
		e, ok := history.BestExercise(exerciseName, w.Exercises)
		if !ok {
			continue
		}
		name = e.Name
		for _, s := range e.Sets {
			records = append(records, SetRecord{
				Date:   w.Date,
				Weight: s.Weight,
				Reps:   s.Reps,
				Volume: s.Volume(),
			})
		}
	}
	return records, name
}

// EstimateOneRepMax applies the Brzycki formula; a single rep (or none) is
// taken verbatim. The denominator is kept >= 1 for very high rep counts.
func EstimateOneRepMax(weight float64, reps int) float64 {
	if reps <= 1 {
		return weight
	}
	denominator := 37 - float64(reps)
	if denominator < 1 {
		denominator = 1
	}
	return weight * 36 / denominator
}

func metricValue(r SetRecord, metric PRMetric) float64 {
	switch metric {
	case PRMetricVolume:
		return r.Volume
	case PRMetricReps:
		return float64(r.Reps)
	case PRMetric1RM:
		return EstimateOneRepMax(r.Weight, r.Reps)
	default:
		return r.Weight
	}
}

// bestRecord picks the record with the highest metric value; ties keep the
// first one encountered.
func bestRecord(records []SetRecord, exerciseName string, metric PRMetric) *PersonalRecord {
	if !metric.IsValid() {
		metric = PRMetricWeight
	}
	bestIdx := -1
	var bestValue float64
	for i, r := range records {
		v := metricValue(r, metric)
		if bestIdx < 0 || v > bestValue {
			bestIdx, bestValue = i, v
		}
	}
	if bestIdx < 0 {
		return nil
	}
	r := records[bestIdx]
	return &PersonalRecord{
		ExerciseName: exerciseName,
		Metric:       metric,
		Value:        bestValue,
		Date:         r.Date,
		Weight:       r.Weight,
		Reps:         r.Reps,
		Volume:       r.Volume,
	}
}

// ExercisePR returns the personal record for the metric, nil if the exercise
// was never logged.
func (a *Aggregator) ExercisePR(ctx context.Context, userID, exerciseName string, metric PRMetric) *PersonalRecord {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aggregator.exercise-pr")
	defer span.End()
	span.SetAttributes(attribute.String("exercise", exerciseName))
	span.SetAttributes(attribute.String("metric", string(metric)))

	records, name := setRecords(a.workouts(ctx, userID), exerciseName)
	return bestRecord(records, name, metric)
}

// ExerciseProgression classifies the trend of an exercise over the last
// windowDays, comparing the first and the last session in the window.
func (a *Aggregator) ExerciseProgression(ctx context.Context, userID, exerciseName string, windowDays int) *Progression {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aggregator.exercise-progression")
	defer span.End()
	span.SetAttributes(attribute.String("exercise", exerciseName))

	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	workouts := a.workouts(ctx, userID)
	p := progression(exerciseSessions(workouts, exerciseName, len(workouts)), a.Today(), windowDays)
	p.ExerciseName = exerciseName
	span.SetAttributes(attribute.String("trend", string(p.Trend)))
	return p
}

func progression(sessions []ExerciseSession, today time.Time, windowDays int) *Progression {
	p := &Progression{
		WindowDays:  windowDays,
		Progression: make([]ProgressionPoint, 0),
	}
	if len(sessions) == 0 {
		p.Trend = TrendNoData
		return p
	}

	cutoff := today.AddDate(0, 0, -windowDays)
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		if s.Date.Before(cutoff) {
			continue
		}
		p.Progression = append(p.Progression, ProgressionPoint{
			Date:        s.Date,
			MaxWeight:   s.MaxWeight,
			TotalVolume: s.TotalVolume,
			Sets:        len(s.Sets),
		})
	}
	if len(p.Progression) == 0 {
		p.Trend = TrendNoRecentData
		return p
	}

	first, last := p.Progression[0], p.Progression[len(p.Progression)-1]
	p.WeightChange = last.MaxWeight - first.MaxWeight
	p.VolumeChange = percentChange(first.TotalVolume, last.TotalVolume)
	p.Trend = classifyTrend(p.WeightChange, p.VolumeChange)
	return p
}

func classifyTrend(weightChange, volumeChange float64) Trend {
	switch {
	case weightChange > 0 || volumeChange > 5:
		return TrendImproving
	case weightChange < 0 && volumeChange < -5:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func percentChange(from, to float64) float64 {
	if from == 0 {
		if to > 0 {
			return 100
		}
		return 0
	}
	return (to - from) / from * 100
}

// AllWorkoutHistory returns summaries of the latest workouts, most recent first.
func (a *Aggregator) AllWorkoutHistory(ctx context.Context, userID string, limit int) []WorkoutSummary {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aggregator.all-workout-history")
	defer span.End()

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return workoutSummaries(a.workouts(ctx, userID), limit)
}

func workoutSummaries(workouts []history.WorkoutRecord, limit int) []WorkoutSummary {
	summaries := make([]WorkoutSummary, 0, min(limit, len(workouts)))
	for _, w := range workouts {
		if len(summaries) >= limit {
			break
		}
		s := WorkoutSummary{
			ID:              w.ID,
			Date:            w.Date,
			Title:           w.Title,
			DurationMinutes: w.DurationMinutes,
			Exercises:       make([]ExerciseSummary, 0, len(w.Exercises)),
		}
		for _, e := range w.Exercises {
			es := ExerciseSummary{
				Name:        e.Name,
				Equipment:   e.Equipment,
				Sets:        len(e.Sets),
				MaxWeight:   e.MaxWeight(),
				TotalVolume: e.TotalVolume(),
			}
			s.TotalSets += es.Sets
			s.TotalVolume += es.TotalVolume
			s.Exercises = append(s.Exercises, es)
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// AllExerciseProgress rebuilds per-exercise progress from the latest limit
// workouts. Exercises are grouped by normalized name and listed in order of
// their most recent appearance.
func (a *Aggregator) AllExerciseProgress(ctx context.Context, userID string, limit int) []ExerciseProgress {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aggregator.all-exercise-progress")
	defer span.End()

	if limit <= 0 {
		limit = DefaultProgressLimit
	}
	workouts := a.workouts(ctx, userID)
	if len(workouts) > limit {
		workouts = workouts[:limit]
	}
	return exerciseProgress(workouts)
}

func exerciseProgress(workouts []history.WorkoutRecord) []ExerciseProgress {
	index := make(map[string]int)
	progress := make([]ExerciseProgress, 0)
	for _, w := range workouts {
		for _, e := range w.Exercises {
			key := history.NormalizeName(e.Name)
			if _, ok := index[key]; ok {
				continue
			}
			index[key] = len(progress)
			progress = append(progress, ExerciseProgress{
				ExerciseName: e.Name,
				Equipment:    e.Equipment,
				Records:      make([]SetRecord, 0),
			})
		}
	}

	for i := len(workouts) - 1; i >= 0; i-- {
		w := workouts[i]
		for _, e := range w.Exercises {
			p := &progress[index[history.NormalizeName(e.Name)]]
			for _, s := range e.Sets {
				p.Records = append(p.Records, SetRecord{
					Date:   w.Date,
					Weight: s.Weight,
					Reps:   s.Reps,
					Volume: s.Volume(),
				})
				p.MaxWeight = math.Max(p.MaxWeight, s.Weight)
				p.MaxReps = max(p.MaxReps, s.Reps)
				p.TotalVolume += s.Volume()
			}
		}
	}
	return progress
}

// ExerciseNames lists the distinct exercise names of the latest limit
// workouts, most recently done first.
func (a *Aggregator) ExerciseNames(ctx context.Context, userID string, limit int) []string {
	if limit <= 0 {
		limit = DefaultProgressLimit
	}
	workouts := a.workouts(ctx, userID)
	if len(workouts) > limit {
		workouts = workouts[:limit]
	}
	return exerciseNames(workouts)
}

func exerciseNames(workouts []history.WorkoutRecord) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, w := range workouts {
		for _, e := range w.Exercises {
			key := history.NormalizeName(e.Name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			names = append(names, e.Name)
		}
	}
	return names
}

// TopExercisePRs ranks exercises by all-time total volume and attaches each
// one's weight PR.
func (a *Aggregator) TopExercisePRs(ctx context.Context, userID string, limit int) []TopExercise {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aggregator.top-exercise-prs")
	defer span.End()

	if limit <= 0 {
		limit = DefaultTopPRsLimit
	}
	return topExercises(a.workouts(ctx, userID), limit)
}

func topExercises(workouts []history.WorkoutRecord, limit int) []TopExercise {
	progress := exerciseProgress(workouts)
	sessions := make(map[string]int)
	for _, w := range workouts {
		seen := make(map[string]bool)
		for _, e := range w.Exercises {
			key := history.NormalizeName(e.Name)
			if !seen[key] {
				seen[key] = true
				sessions[key]++
			}
		}
	}

	sort.SliceStable(progress, func(i, j int) bool {
		return progress[i].TotalVolume > progress[j].TotalVolume
	})
	if len(progress) > limit {
		progress = progress[:limit]
	}

	top := make([]TopExercise, 0, len(progress))
	for _, p := range progress {
		top = append(top, TopExercise{
			ExerciseName: p.ExerciseName,
			TotalVolume:  p.TotalVolume,
			Sessions:     sessions[history.NormalizeName(p.ExerciseName)],
			WeightPR:     bestRecord(p.Records, p.ExerciseName, PRMetricWeight),
		})
	}
	return top
}

// NutritionContext sums the meals logged on date against the profile goals.
func (a *Aggregator) NutritionContext(ctx context.Context, userID string, date time.Time) NutritionContext {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aggregator.nutrition-context")
	defer span.End()

	profile, err := a.readProfile(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("aggregator: get user profile")
		profile = nil
	}
	meals, err := a.readMeals(ctx, userID, date)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("aggregator: get meals by date")
		meals = nil
	}
	return nutritionContext(history.Date(date), profile, meals)
}

func nutritionContext(date time.Time, profile *history.UserProfile, meals []history.MealRecord) NutritionContext {
	nc := NutritionContext{
		Date:            date,
		MealsPerDay:     DefaultMealsPerDay,
		MealTypesLogged: make([]string, 0, len(meals)),
	}
	if profile != nil {
		nc.CaloriesTarget = profile.Goals.Calories
		nc.ProteinTarget = profile.Goals.Protein
		nc.CarbsTarget = profile.Goals.Carbs
		nc.FatTarget = profile.Goals.Fat
		if profile.MealsPerDay > 0 {
			nc.MealsPerDay = profile.MealsPerDay
		}
	}
	for _, m := range meals {
		nc.CaloriesConsumed += m.Calories
		nc.ProteinConsumed += m.Protein
		nc.CarbsConsumed += m.Carbs
		nc.FatConsumed += m.Fat
		if m.MealType != "" {
			nc.MealTypesLogged = append(nc.MealTypesLogged, m.MealType)
		}
	}
	nc.MealsLoggedToday = len(meals)
	nc.CaloriesRemaining = nc.CaloriesTarget - nc.CaloriesConsumed
	nc.ProteinRemaining = nc.ProteinTarget - nc.ProteinConsumed
	nc.CarbsRemaining = nc.CarbsTarget - nc.CarbsConsumed
	nc.FatRemaining = nc.FatTarget - nc.FatConsumed
	return nc
}

// Snapshot reads workouts, profile and today's meals in parallel and builds
// the consolidated view. Failed reads degrade to empty sections.
func (a *Aggregator) Snapshot(ctx context.Context, userID string) *Snapshot {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aggregator.snapshot")
	defer span.End()

	today := a.Today()
	var workouts []history.WorkoutRecord
	var profile *history.UserProfile
	var meals []history.MealRecord
	var workoutsErr, profileErr, mealsErr error

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		workouts, workoutsErr = a.readWorkouts(gCtx, userID)
		return nil
	})
	g.Go(func() error {
		profile, profileErr = a.readProfile(gCtx, userID)
		return nil
	})
	g.Go(func() error {
		meals, mealsErr = a.readMeals(gCtx, userID, today)
		return nil
	})
	_ = g.Wait()

	if err := multierr.Combine(workoutsErr, profileErr, mealsErr); err != nil {
		span.RecordError(err)
		log.WithError(err).WithField("user_id", userID).Error("aggregator: snapshot reads")
	}
	if profileErr != nil {
		profile = nil
	}

	progressWorkouts := workouts
	if len(progressWorkouts) > DefaultProgressLimit {
		progressWorkouts = progressWorkouts[:DefaultProgressLimit]
	}

	s := &Snapshot{
		UserID:           userID,
		GeneratedAt:      a.Now(),
		RecentWorkouts:   workoutSummaries(workouts, DefaultHistoryLimit),
		ExerciseProgress: exerciseProgress(progressWorkouts),
		TopPRs:           topExercises(workouts, DefaultTopPRsLimit),
		Nutrition:        nutritionContext(today, profile, meals),
		TotalWorkouts:    len(workouts),
	}
	if profile != nil {
		s.Goals = profile.Goals
	}
	return s
}
