package history

import (
	"context"
	"time"
)

// Store is the read side of the persisted workout, meal and profile records.
// Writes belong to the logging surfaces and are not part of this contract.
type Store interface {
	// GetWorkoutHistory returns all workouts of the user, most recent first.
	GetWorkoutHistory(ctx context.Context, userID string) ([]WorkoutRecord, error)
	// GetMealsByDate returns the meals logged on the given calendar date.
	GetMealsByDate(ctx context.Context, userID string, date time.Time) ([]MealRecord, error)
	GetUserProfile(ctx context.Context, userID string) (*UserProfile, error)
}
