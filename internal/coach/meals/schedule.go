package meals

import "strings"

// Slot is a canonical meal time; Hour is the local hour of day.
type Slot struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
}

const (
	DefaultMealsPerDay = 3
	minMealsPerDay     = 2
	maxMealsPerDay     = 6
)

var schedules = map[int][]Slot{
	2: {
		{10, "breakfast"},
		{18, "dinner"},
	},
	3: {
		{8, "breakfast"},
		{13, "lunch"},
		{19, "dinner"},
	},
	4: {
		{8, "breakfast"},
		{12, "lunch"},
		{16, "snack"},
		{19, "dinner"},
	},
	5: {
		{7, "breakfast"},
		{10, "morning_snack"},
		{13, "lunch"},
		{16, "afternoon_snack"},
		{19, "dinner"},
	},
	6: {
		{7, "breakfast"},
		{10, "morning_snack"},
		{13, "lunch"},
		{16, "afternoon_snack"},
		{19, "dinner"},
		{21, "evening_snack"},
	},
}

// Schedule returns the canonical meal times for mealsPerDay, clamped to 2..6
// (unset means 3).
func Schedule(mealsPerDay int) []Slot {
	switch {
	case mealsPerDay <= 0:
		mealsPerDay = DefaultMealsPerDay
	case mealsPerDay < minMealsPerDay:
		mealsPerDay = minMealsPerDay
	case mealsPerDay > maxMealsPerDay:
		mealsPerDay = maxMealsPerDay
	}
	return schedules[mealsPerDay]
}

// NormalizeMealType lowercases and joins words with underscores, so
// "Morning Snack" and "morning_snack" compare equal.
func NormalizeMealType(mealType string) string {
	fields := strings.FieldsFunc(strings.ToLower(mealType), func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	})
	return strings.Join(fields, "_")
}

func slotMatches(slot Slot, mealType string) bool {
	if mealType == "" {
		return false
	}
	return slot.Label == mealType || strings.Contains(slot.Label, mealType) || strings.Contains(mealType, slot.Label)
}

// Upcoming returns the slots whose hour is strictly after hour.
func Upcoming(schedule []Slot, hour int) []Slot {
	upcoming := make([]Slot, 0, len(schedule))
	for _, s := range schedule {
		if s.Hour > hour {
			upcoming = append(upcoming, s)
		}
	}
	return upcoming
}

// MealsRemaining counts the upcoming slots, plus the requested meal when its
// slot has already passed. Never less than 1.
func MealsRemaining(schedule []Slot, mealType string, hour int) int {
	upcoming := Upcoming(schedule, hour)
	count := len(upcoming)

	mealType = NormalizeMealType(mealType)
	if mealType != "" {
		found := false
		for _, s := range upcoming {
			if slotMatches(s, mealType) {
				found = true
				break
			}
		}
		if !found {
			count++
		}
	}
	return max(1, count)
}

// NextMeal is the label of the first upcoming slot, or the last slot of the
// day when everything has passed.
func NextMeal(schedule []Slot, hour int) string {
	if upcoming := Upcoming(schedule, hour); len(upcoming) > 0 {
		return upcoming[0].Label
	}
	if len(schedule) == 0 {
		return ""
	}
	return schedule[len(schedule)-1].Label
}
