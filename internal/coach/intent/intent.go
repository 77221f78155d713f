// Package intent maps free-text chat messages to engine intents with an
// ordered rule table. Rules scoped to the current screen are tried first,
// then the global ones; the first matching rule wins.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

type Intent string

const (
	GetProgressionAdvice   Intent = "GET_PROGRESSION_ADVICE"
	FindReadyToProgress    Intent = "FIND_READY_TO_PROGRESS"
	GetExercisePR          Intent = "GET_EXERCISE_PR"
	GetExerciseHistory     Intent = "GET_EXERCISE_HISTORY"
	GetExerciseProgression Intent = "GET_EXERCISE_PROGRESSION"
	CheckVolumeBalance     Intent = "CHECK_VOLUME_BALANCE"
	GetWeeklyVolume        Intent = "GET_WEEKLY_VOLUME"
	RecommendMealMacros    Intent = "RECOMMEND_MEAL_MACROS"
	GetNutritionStatus     Intent = "GET_NUTRITION_STATUS"
	GetWorkoutHistory      Intent = "GET_WORKOUT_HISTORY"
	GetTopPRs              Intent = "GET_TOP_PRS"
	LogWorkout             Intent = "LOG_WORKOUT"
	LogMeal                Intent = "LOG_MEAL"
	AnswerQuestion         Intent = "ANSWER_QUESTION"
)

const (
	ScreenWorkout   = "workout"
	ScreenNutrition = "nutrition"
	ScreenDashboard = "dashboard"
)

// Parameter keys produced by the extractors.
const (
	ParamExerciseName = "exerciseName"
	ParamMetric       = "metric"
	ParamMealType     = "mealType"
	ParamLimit        = "limit"
	ParamWindowDays   = "windowDays"
)

const (
	screenConfidence  = 0.9
	globalConfidence  = 0.8
	defaultConfidence = 0.3
)

// Extractor pulls parameters out of a message; matches holds the rule
// pattern's submatches.
type Extractor func(message string, matches []string) map[string]any

type Rule struct {
	// Screen limits the rule to one screen; empty means global.
	Screen     string
	Pattern    *regexp.Regexp
	Intent     Intent
	Confidence float64
	Extract    Extractor
}

type Classification struct {
	Intent     Intent         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Parameters map[string]any `json:"parameters"`
}

type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{
		rules: rules,
	}
}

var whitespace = regexp.MustCompile(`\s+`)

func normalize(message string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(message)), " ")
}

// Classify returns the intent of message as seen from screen. Unmatched
// messages fall back to ANSWER_QUESTION with low confidence.
func (c *Classifier) Classify(message, screen string) Classification {
	msg := normalize(message)
	screen = strings.ToLower(strings.TrimSpace(screen))

	if screen != "" {
		if cl, ok := c.match(msg, screen); ok {
			return cl
		}
	}
	if cl, ok := c.match(msg, ""); ok {
		return cl
	}

	return Classification{
		Intent:     AnswerQuestion,
		Confidence: defaultConfidence,
		Parameters: map[string]any{"question": strings.TrimSpace(message)},
	}
}

func (c *Classifier) match(msg, screen string) (Classification, bool) {
	for _, r := range c.rules {
		if r.Screen != screen {
			continue
		}
		matches := r.Pattern.FindStringSubmatch(msg)
		if matches == nil {
			continue
		}
		params := map[string]any{}
		if r.Extract != nil {
			if extracted := r.Extract(msg, matches); extracted != nil {
				params = extracted
			}
		}
		return Classification{
			Intent:     r.Intent,
			Confidence: r.Confidence,
			Parameters: params,
		}, true
	}
	return Classification{}, false
}

var trailingClause = regexp.MustCompile(`\s+(?:over|during|since|from|in the|for the|last|past|this|these|today|lately|recently|now|please)\b.*$`)

// exerciseFromGroup uses the first submatch as the exercise name.
func exerciseFromGroup(_ string, matches []string) map[string]any {
	if len(matches) < 2 {
		return nil
	}
	name := strings.TrimSpace(strings.TrimRight(matches[1], "?!.,"))
	name = strings.TrimSpace(trailingClause.ReplaceAllString(name, ""))
	if name == "" {
		return nil
	}
	return map[string]any{ParamExerciseName: name}
}

var (
	oneRepMaxPattern = regexp.MustCompile(`\b(?:1rm|one rep max|1 rep max)\b`)
	volumePattern    = regexp.MustCompile(`\bvolume\b`)
	repsPattern      = regexp.MustCompile(`\b(?:reps|repetitions)\b`)
)

func prParams(message string, matches []string) map[string]any {
	params := exerciseFromGroup(message, matches)
	if params == nil {
		params = map[string]any{}
	}
	switch {
	case oneRepMaxPattern.MatchString(message):
		params[ParamMetric] = "1rm"
	case volumePattern.MatchString(message):
		params[ParamMetric] = "volume"
	case repsPattern.MatchString(message):
		params[ParamMetric] = "reps"
	default:
		params[ParamMetric] = "weight"
	}
	return params
}

var mealTypePattern = regexp.MustCompile(`\b(morning snack|afternoon snack|evening snack|breakfast|lunch|dinner|snack)\b`)

func mealTypeParams(message string, _ []string) map[string]any {
	m := mealTypePattern.FindStringSubmatch(message)
	if m == nil {
		return nil
	}
	return map[string]any{ParamMealType: strings.ReplaceAll(m[1], " ", "_")}
}

var numberPattern = regexp.MustCompile(`\b(\d{1,3})\b`)

func limitParams(message string, _ []string) map[string]any {
	m := numberPattern.FindStringSubmatch(message)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return nil
	}
	return map[string]any{ParamLimit: n}
}

var windowPattern = regexp.MustCompile(`\b(?:last|past)\s+(\d{1,3})\s+days?\b|\b(?:last|past)\s+(week|month)\b`)

func progressionParams(message string, matches []string) map[string]any {
	params := exerciseFromGroup(message, matches)
	if params == nil {
		params = map[string]any{}
	}
	if m := windowPattern.FindStringSubmatch(message); m != nil {
		switch {
		case m[1] != "":
			if days, err := strconv.Atoi(m[1]); err == nil && days > 0 {
				params[ParamWindowDays] = days
			}
		case m[2] == "week":
			params[ParamWindowDays] = 7
		case m[2] == "month":
			params[ParamWindowDays] = 30
		}
	}
	return params
}

const exerciseTail = `(?:on|for|in|with|of)\s+(?:my\s+|the\s+)?([a-z][a-z0-9 \-]*)`

// DefaultRules is the built-in rule table, most specific rules first.
func DefaultRules() []Rule {
	return []Rule{
		// workout screen: the exercise comes from the screen context
		{
			Screen:     ScreenWorkout,
			Pattern:    regexp.MustCompile(`\b(?:should|can|ready to)\s+(?:i\s+)?(?:increase|add weight|go up|go heavier|progress)\b`),
			Intent:     GetProgressionAdvice,
			Confidence: screenConfidence,
		},
		{
			Screen:     ScreenWorkout,
			Pattern:    regexp.MustCompile(`\b(?:pr|personal (?:best|record)|1rm|one rep max|max)\b`),
			Intent:     GetExercisePR,
			Confidence: screenConfidence,
			Extract:    prParams,
		},
		{
			Screen:     ScreenWorkout,
			Pattern:    regexp.MustCompile(`\b(?:history|last time|last session|previous)\b`),
			Intent:     GetExerciseHistory,
			Confidence: screenConfidence,
		},
		{
			Screen:     ScreenWorkout,
			Pattern:    regexp.MustCompile(`\b(?:progress|progression|trend|improving)\b`),
			Intent:     GetExerciseProgression,
			Confidence: screenConfidence,
			Extract:    progressionParams,
		},

		{
			Screen:     ScreenNutrition,
			Pattern:    regexp.MustCompile(`\b(?:what|how much) should i (?:eat|have)\b|\bmacros for\b|\b(?:breakfast|lunch|dinner|snack)\b`),
			Intent:     RecommendMealMacros,
			Confidence: screenConfidence,
			Extract:    mealTypeParams,
		},
		{
			Screen:     ScreenNutrition,
			Pattern:    regexp.MustCompile(`\b(?:how am i doing|remaining|left|today|status)\b`),
			Intent:     GetNutritionStatus,
			Confidence: screenConfidence,
		},

		{
			Screen:     ScreenDashboard,
			Pattern:    regexp.MustCompile(`\b(?:balance|balanced|imbalance|neglect(?:ing)?)\b`),
			Intent:     CheckVolumeBalance,
			Confidence: screenConfidence,
		},
		{
			Screen:     ScreenDashboard,
			Pattern:    regexp.MustCompile(`\b(?:this week|weekly|volume)\b`),
			Intent:     GetWeeklyVolume,
			Confidence: screenConfidence,
		},

		// global
		{
			Pattern:    regexp.MustCompile(`^(?:log|record|add|save)\b.*\b(?:meal|breakfast|lunch|dinner|snack|calories)\b`),
			Intent:     LogMeal,
			Confidence: globalConfidence,
		},
		{
			Pattern:    regexp.MustCompile(`^(?:log|record|add|save)\b.*\b(?:workout|sets?|reps?)\b`),
			Intent:     LogWorkout,
			Confidence: globalConfidence,
		},
		{
			Pattern:    regexp.MustCompile(`\bready to progress\b|\bwhat can i increase\b|\bwhich (?:lifts|exercises) (?:can|should) i (?:increase|progress)\b`),
			Intent:     FindReadyToProgress,
			Confidence: globalConfidence,
		},
		{
			Pattern:    regexp.MustCompile(`\b(?:pr|personal (?:best|record)|1rm|one rep max|max)\b.*?\b` + exerciseTail),
			Intent:     GetExercisePR,
			Confidence: globalConfidence,
			Extract:    prParams,
		},
		{
			Pattern:    regexp.MustCompile(`\b(?:increase|add weight|go up|go heavier)\b.*?\b` + exerciseTail),
			Intent:     GetProgressionAdvice,
			Confidence: globalConfidence,
			Extract:    exerciseFromGroup,
		},
		{
			Pattern:    regexp.MustCompile(`\b(?:progress|progression|trend|improving)\b.*?\b` + exerciseTail),
			Intent:     GetExerciseProgression,
			Confidence: globalConfidence,
			Extract:    progressionParams,
		},
		{
			Pattern:    regexp.MustCompile(`\b(?:history|last time|last session)\b.*?\b` + exerciseTail),
			Intent:     GetExerciseHistory,
			Confidence: globalConfidence,
			Extract:    exerciseFromGroup,
		},
		{
			Pattern:    regexp.MustCompile(`\b(?:imbalance|imbalanced|balanced|neglect(?:ing)?|push.?pull)\b`),
			Intent:     CheckVolumeBalance,
			Confidence: globalConfidence,
		},
		{
			Pattern:    regexp.MustCompile(`\b(?:weekly volume|volume this week|sets this week|how many sets)\b`),
			Intent:     GetWeeklyVolume,
			Confidence: globalConfidence,
		},
		{
			Pattern:    regexp.MustCompile(`\b(?:what|how much) should i (?:eat|have)\b|\bmacros\b.*\b(?:breakfast|lunch|dinner|snack|meal)\b`),
			Intent:     RecommendMealMacros,
			Confidence: globalConfidence,
			Extract:    mealTypeParams,
		},
		{
			Pattern:    regexp.MustCompile(`\b(?:calories|protein|carbs|fat|macros)\b.*\b(?:left|remaining|today)\b|\bnutrition status\b`),
			Intent:     GetNutritionStatus,
			Confidence: globalConfidence,
		},
		{
			Pattern:    regexp.MustCompile(`\b(?:top|best) (?:lifts|exercises|prs)\b|\bmy prs\b`),
			Intent:     GetTopPRs,
			Confidence: globalConfidence,
			Extract:    limitParams,
		},
		{
			Pattern:    regexp.MustCompile(`\b(?:recent|last|past) (?:\d+ )?workouts?\b|\bworkout history\b`),
			Intent:     GetWorkoutHistory,
			Confidence: globalConfidence,
			Extract:    limitParams,
		},
	}
}
