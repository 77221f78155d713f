package meals

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/coach/aggregator"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

var ErrNoProfileGoals = errors.New("no nutrition goals set")

const (
	calorieBuffer = 0.15
	lateHour      = 20
)

type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Recommendation is the macro target for one meal. DayRemaining is
// target - consumed for the whole day and goes negative when over target.
type Recommendation struct {
	MealType       string `json:"mealType"`
	Recommended    Macros `json:"recommended"`
	MealsRemaining int    `json:"mealsRemaining"`
	DayRemaining   Macros `json:"dayRemaining"`
	BufferNote     string `json:"bufferNote"`
	Guidance       string `json:"guidance"`
}

// Allocate splits the day's remaining macros over the meals left. 15% of the
// remaining calories is held back before dividing; protein, carbs and fat are
// divided as is. Per-meal values are rounded and never negative.
func Allocate(nc aggregator.NutritionContext, mealType string, hour int) Recommendation {
	schedule := Schedule(nc.MealsPerDay)
	mealType = NormalizeMealType(mealType)
	if mealType == "" {
		mealType = NextMeal(schedule, hour)
	}
	mealsRemaining := MealsRemaining(schedule, mealType, hour)

	buffered := nc.CaloriesRemaining * (1 - calorieBuffer)
	perMeal := func(v float64) float64 {
		return math.Max(0, math.Round(v/float64(mealsRemaining)))
	}

	rec := Recommendation{
		MealType: mealType,
		Recommended: Macros{
			Calories: perMeal(buffered),
			Protein:  perMeal(nc.ProteinRemaining),
			Carbs:    perMeal(nc.CarbsRemaining),
			Fat:      perMeal(nc.FatRemaining),
		},
		MealsRemaining: mealsRemaining,
		DayRemaining: Macros{
			Calories: nc.CaloriesRemaining,
			Protein:  nc.ProteinRemaining,
			Carbs:    nc.CarbsRemaining,
			Fat:      nc.FatRemaining,
		},
		Guidance: guidance(mealType, hour),
	}

	if nc.CaloriesRemaining > 0 {
		rec.BufferNote = fmt.Sprintf(
			"%.0f kcal (15%%) of your remaining calories is held back for snacks and tracking slack.",
			nc.CaloriesRemaining*calorieBuffer,
		)
	} else {
		rec.BufferNote = fmt.Sprintf(
			"You're %.0f kcal over today's target, so no calorie buffer is reserved.",
			-nc.CaloriesRemaining,
		)
	}

	return rec
}

func guidance(mealType string, hour int) string {
	var text string
	switch {
	case strings.Contains(mealType, "breakfast"):
		text = "Lead with protein to stay full through the morning."
	case strings.Contains(mealType, "lunch"):
		text = "Pair protein with complex carbs to fuel the afternoon."
	case strings.Contains(mealType, "dinner"):
		text = "Build the plate around protein and vegetables."
		if hour >= lateHour {
			text += " It's late, so keep it lighter and easy to digest."
		}
	case strings.Contains(mealType, "snack"):
		text = "Keep it simple: a protein source plus fruit or nuts."
	default:
		text = "Aim for a balanced plate with a solid protein source."
	}
	return text
}

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=meals_test

type nutritionSource interface {
	NutritionContext(ctx context.Context, userID string, date time.Time) aggregator.NutritionContext
	Now() time.Time
}

type Allocator struct {
	nutrition nutritionSource
}

func NewAllocator(nutrition nutritionSource) *Allocator {
	return &Allocator{
		nutrition: nutrition,
	}
}

// Recommend allocates macros for mealType using today's intake and the
// current local hour. ErrNoProfileGoals is returned along with the
// recommendation when the profile has no calorie target.
func (a *Allocator) Recommend(ctx context.Context, userID, mealType string) (Recommendation, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "meals.recommend")
	defer span.End()
	span.SetAttributes(attribute.String("meal_type", mealType))

	now := a.nutrition.Now()
	nc := a.nutrition.NutritionContext(ctx, userID, now)
	rec := Allocate(nc, mealType, now.Hour())
	span.SetAttributes(attribute.Int("meals_remaining", rec.MealsRemaining))

	if nc.CaloriesTarget <= 0 {
		return rec, ErrNoProfileGoals
	}
	return rec, nil
}
