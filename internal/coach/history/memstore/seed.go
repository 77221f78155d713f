package memstore

import (
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/coach/history"

	"github.com/brianvoe/gofakeit/v6"
)

type seedLift struct {
	name      string
	equipment string
	start     float64
	step      float64
}

var seedDays = [][]seedLift{
	{
		{name: "Bench Press", equipment: "barbell", start: 135, step: 5},
		{name: "Incline Dumbbell Press", equipment: "dumbbell", start: 45, step: 2.5},
		{name: "Tricep Pushdown", equipment: "cable", start: 40, step: 2.5},
	},
	{
		{name: "Barbell Row", equipment: "barbell", start: 115, step: 5},
		{name: "Lat Pulldown", equipment: "cable", start: 100, step: 5},
		{name: "Bicep Curl", equipment: "dumbbell", start: 25, step: 2.5},
	},
	{
		{name: "Squat", equipment: "barbell", start: 185, step: 5},
		{name: "Romanian Deadlift", equipment: "barbell", start: 135, step: 5},
		{name: "Plank", equipment: "bodyweight", start: 0, step: 0},
	},
}

// Seed fills the store with a plausible training and nutrition history for
// userID: a push/pull/legs split every other day over the given number of
// weeks, ending today, plus today's breakfast. The same seed yields the same
// history.
func Seed(s *Store, userID string, today time.Time, weeks int, seed int64) {
	faker := gofakeit.New(seed)
	today = history.Date(today)

	s.SetProfile(history.UserProfile{
		UserID: userID,
		Goals: history.Goals{
			Calories: 2400,
			Protein:  170,
			Carbs:    260,
			Fat:      75,
		},
		MealsPerDay: 4,
	})

	sessions := weeks * 7 / 2
	for i := sessions - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -2*i)
		day := seedDays[(sessions-1-i)%len(seedDays)]
		// weight goes up roughly every third session of the same day
		progress := float64((sessions - 1 - i) / len(seedDays) / 3)

		var exercises []history.ExerciseEntry
		for _, lift := range day {
			weight := lift.start + progress*lift.step
			setCount := faker.IntRange(3, 4)
			sets := make([]history.SetEntry, 0, setCount)
			for k := 0; k < setCount; k++ {
				sets = append(sets, history.SetEntry{
					Weight: weight,
					Reps:   faker.IntRange(6, 12),
				})
			}
			exercises = append(exercises, history.ExerciseEntry{
				Name:      lift.name,
				Equipment: lift.equipment,
				Sets:      sets,
			})
		}

		duration := faker.IntRange(45, 80)
		s.AddWorkout(userID, history.WorkoutRecord{
			ID:              fmt.Sprintf("seed-w-%d", sessions-i),
			Date:            date,
			Title:           faker.RandomString([]string{"Push", "Pull", "Legs"}),
			DurationMinutes: &duration,
			Exercises:       exercises,
		})
	}

	s.AddMeal(userID, history.MealRecord{
		ID:       "seed-m-1",
		Date:     today,
		MealType: "breakfast",
		Name:     "Oats with whey",
		Calories: float64(faker.IntRange(450, 650)),
		Protein:  float64(faker.IntRange(30, 45)),
		Carbs:    float64(faker.IntRange(50, 80)),
		Fat:      float64(faker.IntRange(10, 20)),
		LoggedAt: today.Add(8 * time.Hour),
	})
}
