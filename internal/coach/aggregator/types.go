package aggregator

import (
	"time"

	"github.com/2beens/fitcoach/internal/coach/history"
)

// ExerciseSession is one workout's worth of a matched exercise.
// MaxWeight and TotalVolume cover only the matched exercise's sets.
type ExerciseSession struct {
	WorkoutID    string             `json:"workoutId"`
	Date         time.Time          `json:"date"`
	Title        string             `json:"title"`
	ExerciseName string             `json:"exerciseName"`
	Equipment    string             `json:"equipment,omitempty"`
	Sets         []history.SetEntry `json:"sets"`
	MaxWeight    float64            `json:"maxWeight"`
	TotalVolume  float64            `json:"totalVolume"`
}

type PRMetric string

const (
	PRMetricWeight PRMetric = "weight"
	PRMetricVolume PRMetric = "volume"
	PRMetricReps   PRMetric = "reps"
	PRMetric1RM    PRMetric = "1rm"
)

func (m PRMetric) IsValid() bool {
	switch m {
	case PRMetricWeight, PRMetricVolume, PRMetricReps, PRMetric1RM:
		return true
	default:
		return false
	}
}

// SetRecord is a single set of an exercise, dated.
type SetRecord struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
	Reps   int       `json:"reps"`
	Volume float64   `json:"volume"`
}

type PersonalRecord struct {
	ExerciseName string    `json:"exerciseName"`
	Metric       PRMetric  `json:"metric"`
	Value        float64   `json:"value"`
	Date         time.Time `json:"date"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	Volume       float64   `json:"volume"`
}

type Trend string

const (
	TrendImproving    Trend = "improving"
	TrendStable       Trend = "stable"
	TrendDeclining    Trend = "declining"
	TrendNoRecentData Trend = "no_recent_data"
	TrendNoData       Trend = "no_data"
)

type ProgressionPoint struct {
	Date        time.Time `json:"date"`
	MaxWeight   float64   `json:"maxWeight"`
	TotalVolume float64   `json:"totalVolume"`
	Sets        int       `json:"sets"`
}

type Progression struct {
	ExerciseName string             `json:"exerciseName"`
	WindowDays   int                `json:"windowDays"`
	Trend        Trend              `json:"trend"`
	WeightChange float64            `json:"weightChange"`
	VolumeChange float64            `json:"volumeChange"` // percent
	Progression  []ProgressionPoint `json:"progression"`
}

type ExerciseSummary struct {
	Name        string  `json:"name"`
	Equipment   string  `json:"equipment,omitempty"`
	Sets        int     `json:"sets"`
	MaxWeight   float64 `json:"maxWeight"`
	TotalVolume float64 `json:"totalVolume"`
}

type WorkoutSummary struct {
	ID              string            `json:"id"`
	Date            time.Time         `json:"date"`
	Title           string            `json:"title"`
	DurationMinutes *int              `json:"durationMinutes,omitempty"`
	TotalSets       int               `json:"totalSets"`
	TotalVolume     float64           `json:"totalVolume"`
	Exercises       []ExerciseSummary `json:"exercises"`
}

// ExerciseProgress is the per-exercise record rebuilt from workouts on every
// query; records are ordered by date, oldest first.
type ExerciseProgress struct {
	ExerciseName string      `json:"exerciseName"`
	Equipment    string      `json:"equipment,omitempty"`
	Records      []SetRecord `json:"records"`
	MaxWeight    float64     `json:"maxWeight"`
	MaxReps      int         `json:"maxReps"`
	TotalVolume  float64     `json:"totalVolume"`
}

type TopExercise struct {
	ExerciseName string          `json:"exerciseName"`
	TotalVolume  float64         `json:"totalVolume"`
	Sessions     int             `json:"sessions"`
	WeightPR     *PersonalRecord `json:"weightPR"`
}

// NutritionContext holds the day's intake against the profile targets.
// Remaining values are target - consumed and go negative on overconsumption.
type NutritionContext struct {
	Date              time.Time `json:"date"`
	CaloriesConsumed  float64   `json:"caloriesConsumed"`
	CaloriesTarget    float64   `json:"caloriesTarget"`
	CaloriesRemaining float64   `json:"caloriesRemaining"`
	ProteinConsumed   float64   `json:"proteinConsumed"`
	ProteinTarget     float64   `json:"proteinTarget"`
	ProteinRemaining  float64   `json:"proteinRemaining"`
	CarbsConsumed     float64   `json:"carbsConsumed"`
	CarbsTarget       float64   `json:"carbsTarget"`
	CarbsRemaining    float64   `json:"carbsRemaining"`
	FatConsumed       float64   `json:"fatConsumed"`
	FatTarget         float64   `json:"fatTarget"`
	FatRemaining      float64   `json:"fatRemaining"`
	MealsLoggedToday  int       `json:"mealsLoggedToday"`
	MealTypesLogged   []string  `json:"mealTypesLogged"`
	MealsPerDay       int       `json:"mealsPerDay"`
}

// Snapshot is the consolidated view of a user's activity handed to
// downstream consumers (chat, poller, dashboard).
type Snapshot struct {
	UserID           string             `json:"userId"`
	GeneratedAt      time.Time          `json:"generatedAt"`
	RecentWorkouts   []WorkoutSummary   `json:"recentWorkouts"`
	ExerciseProgress []ExerciseProgress `json:"exerciseProgress"`
	TopPRs           []TopExercise      `json:"topPRs"`
	Nutrition        NutritionContext   `json:"nutrition"`
	Goals            history.Goals      `json:"goals"`
	TotalWorkouts    int                `json:"totalWorkouts"`
}
