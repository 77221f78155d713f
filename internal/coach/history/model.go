package history

import "time"

const DateLayout = "2006-01-02"

// SetEntry is a single logged set. Weight is in pounds.
type SetEntry struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// Volume is weight x reps; derived, never stored.
func (s SetEntry) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// ExerciseEntry is one exercise within a workout. Name is free text and is
// the exercise identity (see MatchesExercise).
type ExerciseEntry struct {
	Name      string     `json:"name"`
	Equipment string     `json:"equipment,omitempty"`
	Sets      []SetEntry `json:"sets"`
}

func (e ExerciseEntry) MaxWeight() float64 {
	var maxWeight float64
	for _, s := range e.Sets {
		if s.Weight > maxWeight {
			maxWeight = s.Weight
		}
	}
	return maxWeight
}

func (e ExerciseEntry) TotalVolume() float64 {
	var total float64
	for _, s := range e.Sets {
		total += s.Volume()
	}
	return total
}

// WorkoutRecord is a logged workout. Date is a calendar date, kept at
// midnight UTC to avoid time zone ambiguity.
type WorkoutRecord struct {
	ID              string          `json:"id"`
	Date            time.Time       `json:"date"`
	Title           string          `json:"title"`
	DurationMinutes *int            `json:"durationMinutes,omitempty"`
	Exercises       []ExerciseEntry `json:"exercises"`
}

type MealRecord struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	MealType string    `json:"mealType"`
	Name     string    `json:"name"`
	Calories float64   `json:"calories"`
	Protein  float64   `json:"protein"`
	Carbs    float64   `json:"carbs"`
	Fat      float64   `json:"fat"`
	LoggedAt time.Time `json:"loggedAt"`
}

// Goals are the daily nutrition targets (kcal and grams).
type Goals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type UserProfile struct {
	UserID      string `json:"userId"`
	Goals       Goals  `json:"goals"`
	MealsPerDay int    `json:"mealsPerDay"`
}

// Date truncates t to its calendar date at midnight UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
