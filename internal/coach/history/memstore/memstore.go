// Package memstore keeps workout, meal and profile records in process memory.
// Used in dev mode and by package tests in place of the Postgres store.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/coach/history"
)

var _ history.Store = (*Store)(nil)

type Store struct {
	mu       sync.RWMutex
	workouts map[string][]history.WorkoutRecord
	meals    map[string][]history.MealRecord
	profiles map[string]history.UserProfile
}

func New() *Store {
	return &Store{
		workouts: make(map[string][]history.WorkoutRecord),
		meals:    make(map[string][]history.MealRecord),
		profiles: make(map[string]history.UserProfile),
	}
}

func (s *Store) AddWorkout(userID string, w history.WorkoutRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Date = history.Date(w.Date)
	s.workouts[userID] = append(s.workouts[userID], copyWorkout(w))
}

func (s *Store) AddMeal(userID string, m history.MealRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.Date = history.Date(m.Date)
	s.meals[userID] = append(s.meals[userID], m)
}

func (s *Store) SetProfile(p history.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
}

func (s *Store) DeleteWorkout(userID, workoutID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.workouts[userID]
	for i, w := range list {
		if w.ID == workoutID {
			s.workouts[userID] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// GetWorkoutHistory returns copies, most recent first; same-day workouts keep
// insertion order reversed (latest logged first).
func (s *Store) GetWorkoutHistory(_ context.Context, userID string) ([]history.WorkoutRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.workouts[userID]
	out := make([]history.WorkoutRecord, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, copyWorkout(list[i]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *Store) GetMealsByDate(_ context.Context, userID string, date time.Time) ([]history.MealRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := history.Date(date)
	var out []history.MealRecord
	for _, m := range s.meals[userID] {
		if m.Date.Equal(day) {
			out = append(out, m)
		}
	}
	return out, nil
}

// GetUserProfile returns a default profile when none was set.
func (s *Store) GetUserProfile(_ context.Context, userID string) (*history.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return &history.UserProfile{UserID: userID}, nil
	}
	return &p, nil
}

func copyWorkout(w history.WorkoutRecord) history.WorkoutRecord {
	exercises := make([]history.ExerciseEntry, len(w.Exercises))
	for i, e := range w.Exercises {
		e.Sets = append([]history.SetEntry(nil), e.Sets...)
		exercises[i] = e
	}
	w.Exercises = exercises
	if w.DurationMinutes != nil {
		d := *w.DurationMinutes
		w.DurationMinutes = &d
	}
	return w
}
