package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/coach/aggregator"
	"github.com/2beens/fitcoach/internal/coach/intent"
	"github.com/2beens/fitcoach/internal/coach/meals"
	"github.com/2beens/fitcoach/internal/coach/progression"
	"github.com/2beens/fitcoach/internal/coach/volume"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrNoExerciseName   = errors.New("no exercise name in parameters or screen context")
	ErrUnknownIntent    = errors.New("unknown intent")
	ErrNotHandled       = errors.New("intent not handled by the analytics engine")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Context describes where the request comes from: the screen the user is on
// and whatever that screen shows.
type Context struct {
	Screen           string         `json:"screen"`
	ScreenData       map[string]any `json:"screenData,omitempty"`
	ExerciseSpecific string         `json:"exerciseSpecific,omitempty"`
}

type Request struct {
	Intent     string         `json:"intent"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Context    Context        `json:"context"`
}

// Envelope is the only shape handed back to callers. A failed envelope
// always carries a human readable Message.
type Envelope struct {
	Success bool   `json:"success"`
	Action  string `json:"action,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type contextSource interface {
	ExerciseHistory(ctx context.Context, userID, exerciseName string, limit int) []aggregator.ExerciseSession
	ExercisePR(ctx context.Context, userID, exerciseName string, metric aggregator.PRMetric) *aggregator.PersonalRecord
	ExerciseProgression(ctx context.Context, userID, exerciseName string, windowDays int) *aggregator.Progression
	AllWorkoutHistory(ctx context.Context, userID string, limit int) []aggregator.WorkoutSummary
	TopExercisePRs(ctx context.Context, userID string, limit int) []aggregator.TopExercise
	NutritionContext(ctx context.Context, userID string, date time.Time) aggregator.NutritionContext
	ExerciseNames(ctx context.Context, userID string, limit int) []string
	Snapshot(ctx context.Context, userID string) *aggregator.Snapshot
	Today() time.Time
}

type progressionAdvisor interface {
	Advise(ctx context.Context, userID, exerciseName string) *progression.Recommendation
	FindReadyToProgress(ctx context.Context, userID string) []progression.Recommendation
}

type volumeReporter interface {
	WeeklyVolume(ctx context.Context, userID string) volume.Report
	Imbalances(ctx context.Context, userID string) []volume.Imbalance
}

type mealRecommender interface {
	Recommend(ctx context.Context, userID, mealType string) (meals.Recommendation, error)
}

type handlerFunc func(ctx context.Context, userID string, req Request) (Envelope, error)

type Dispatcher struct {
	context     contextSource
	progression progressionAdvisor
	volume      volumeReporter
	meals       mealRecommender
	metrics     *metrics.Manager

	handlers map[intent.Intent]handlerFunc
}

type Option func(d *Dispatcher)

func WithMetrics(m *metrics.Manager) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func NewDispatcher(
	source contextSource,
	advisor progressionAdvisor,
	reporter volumeReporter,
	recommender mealRecommender,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		context:     source,
		progression: advisor,
		volume:      reporter,
		meals:       recommender,
	}
	d.handlers = map[intent.Intent]handlerFunc{
		intent.GetProgressionAdvice:   d.handleProgressionAdvice,
		intent.FindReadyToProgress:    d.handleFindReadyToProgress,
		intent.GetExercisePR:          d.handleExercisePR,
		intent.GetExerciseHistory:     d.handleExerciseHistory,
		intent.GetExerciseProgression: d.handleExerciseProgression,
		intent.CheckVolumeBalance:     d.handleVolumeBalance,
		intent.GetWeeklyVolume:        d.handleWeeklyVolume,
		intent.RecommendMealMacros:    d.handleMealMacros,
		intent.GetNutritionStatus:     d.handleNutritionStatus,
		intent.GetWorkoutHistory:      d.handleWorkoutHistory,
		intent.GetTopPRs:              d.handleTopPRs,
		intent.AnswerQuestion:         d.handleAnswerQuestion,
		intent.LogWorkout:             d.handleNotHandled,
		intent.LogMeal:                d.handleNotHandled,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs the handler of the requested intent. It never panics and
// never returns an error: every failure, including a panic in an analyzer,
// is turned into a success=false envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, req Request) (env Envelope) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dispatch")
	defer span.End()

	name := intent.Intent(strings.ToUpper(strings.TrimSpace(req.Intent)))
	span.SetAttributes(attribute.String("intent", string(name)))
	span.SetAttributes(attribute.String("screen", req.Context.Screen))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"user_id": userID,
				"intent":  name,
			}).Errorf("dispatch: recovered from panic: %v\n%s", r, debug.Stack())
			env = failure(name, "Something went wrong while analyzing your data. Please try again.", fmt.Errorf("panic: %v", r))
		}
		if !env.Success {
			span.SetStatus(codes.Error, env.Error)
		}
		d.observe(name, env.Success, time.Since(start))
	}()

	handler, ok := d.handlers[name]
	if !ok {
		return failure(
			name,
			fmt.Sprintf("I don't know how to handle %q yet.", req.Intent),
			fmt.Errorf("%w: %q", ErrUnknownIntent, req.Intent),
		)
	}

	env, err := handler(ctx, userID, req)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user_id": userID,
			"intent":  name,
		}).Warn("dispatch: handler failed")
		return failure(name, failureMessage(err), err)
	}

	env.Success = true
	env.Action = string(name)
	return env
}

func (d *Dispatcher) observe(name intent.Intent, success bool, took time.Duration) {
	if d.metrics == nil {
		return
	}
	label := string(name)
	if _, ok := d.handlers[name]; !ok {
		label = "unknown"
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	d.metrics.CounterDispatch.WithLabelValues(label, outcome).Inc()
	d.metrics.HistogramDispatchDuration.WithLabelValues(label).Observe(took.Seconds())
}

func failure(name intent.Intent, message string, err error) Envelope {
	env := Envelope{
		Success: false,
		Action:  string(name),
		Message: message,
	}
	if err != nil {
		env.Error = err.Error()
	}
	return env
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoExerciseName):
		return "Which exercise do you mean? Open the exercise or mention it by name."
	case errors.Is(err, meals.ErrNoProfileGoals):
		return "Set your daily calorie and macro goals in your profile to get meal recommendations."
	case errors.Is(err, ErrNotHandled):
		return "Workouts and meals are logged from the log screens. The coach can analyze them once they're saved."
	case errors.Is(err, ErrInvalidParameter):
		return fmt.Sprintf("I couldn't use that request: %s.", strings.TrimPrefix(err.Error(), ErrInvalidParameter.Error()+": "))
	default:
		return "I couldn't complete that request. Please try again."
	}
}
