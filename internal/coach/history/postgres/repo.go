package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/coach/history"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

//go:embed schema.sql
var Schema string

var _ history.Store = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// GetWorkoutHistory loads every workout with its exercises and sets in one
// query, most recent first. Exercises and sets keep their logged order.
func (r *Repo) GetWorkoutHistory(ctx context.Context, userID string) (_ []history.WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.workouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				w.id, w.workout_date, w.title, w.duration_minutes,
				e.id, e.name, e.equipment,
				s.weight, s.reps
			FROM workout w
			LEFT JOIN workout_exercise e ON e.workout_id = w.id
			LEFT JOIN workout_set s ON s.exercise_id = e.id
			WHERE w.user_id = $1
			ORDER BY w.workout_date DESC, w.created_at DESC, w.id, e.position, s.position;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2workouts: %w", err)
	}

	span.SetAttributes(attribute.Int("workouts", len(workouts)))
	return workouts, nil
}

func rows2workouts(rows pgx.Rows) ([]history.WorkoutRecord, error) {
	workouts := make([]history.WorkoutRecord, 0)
	lastExerciseID := -1
	for rows.Next() {
		var (
			workoutID       string
			workoutDate     time.Time
			title           string
			durationMinutes *int
			exerciseID      *int
			exerciseName    *string
			equipment       *string
			weight          *float64
			reps            *int
		)
		if err := rows.Scan(
			&workoutID, &workoutDate, &title, &durationMinutes,
			&exerciseID, &exerciseName, &equipment,
			&weight, &reps,
		); err != nil {
			return nil, err
		}

		if len(workouts) == 0 || workouts[len(workouts)-1].ID != workoutID {
			workouts = append(workouts, history.WorkoutRecord{
				ID:              workoutID,
				Date:            history.Date(workoutDate),
				Title:           title,
				DurationMinutes: durationMinutes,
				Exercises:       []history.ExerciseEntry{},
			})
			lastExerciseID = -1
		}
		w := &workouts[len(workouts)-1]

		if exerciseID == nil {
			continue
		}
		if *exerciseID != lastExerciseID {
			entry := history.ExerciseEntry{Name: *exerciseName, Sets: []history.SetEntry{}}
			if equipment != nil {
				entry.Equipment = *equipment
			}
			w.Exercises = append(w.Exercises, entry)
			lastExerciseID = *exerciseID
		}

		if weight == nil || reps == nil {
			continue
		}
		e := &w.Exercises[len(w.Exercises)-1]
		e.Sets = append(e.Sets, history.SetEntry{Weight: *weight, Reps: *reps})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workouts, nil
}

func (r *Repo) GetMealsByDate(ctx context.Context, userID string, date time.Time) (_ []history.MealRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.meals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	day := history.Date(date)
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.String("date", day.Format(history.DateLayout)))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, meal_date, meal_type, name, calories, protein, carbs, fat, logged_at
			FROM meal
			WHERE user_id = $1 AND meal_date = $2
			ORDER BY logged_at;`,
		userID, day,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	meals := make([]history.MealRecord, 0)
	for rows.Next() {
		var m history.MealRecord
		if err := rows.Scan(
			&m.ID, &m.Date, &m.MealType, &m.Name,
			&m.Calories, &m.Protein, &m.Carbs, &m.Fat,
			&m.LoggedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		m.Date = history.Date(m.Date)
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return meals, nil
}

// GetUserProfile returns a profile with zero goals when the user has none,
// missing profile data is not a storage failure.
func (r *Repo) GetUserProfile(ctx context.Context, userID string) (_ *history.UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	p := &history.UserProfile{UserID: userID}
	err = r.db.QueryRow(
		ctx,
		`
			SELECT calories_goal, protein_goal, carbs_goal, fat_goal, meals_per_day
			FROM user_profile
			WHERE user_id = $1;`,
		userID,
	).Scan(&p.Goals.Calories, &p.Goals.Protein, &p.Goals.Carbs, &p.Goals.Fat, &p.MealsPerDay)
	if errors.Is(err, pgx.ErrNoRows) {
		return &history.UserProfile{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query row: %w", err)
	}

	return p, nil
}
