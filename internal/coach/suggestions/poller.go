package suggestions

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/fitcoach/internal/coach/history"
	"github.com/2beens/fitcoach/internal/coach/intent"
	"github.com/2beens/fitcoach/internal/coach/progression"
	"github.com/2beens/fitcoach/internal/coach/volume"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// MaxSuggestions caps a single poll.
const MaxSuggestions = 5

type Kind string

const (
	KindProgression Kind = "progression"
	KindImbalance   Kind = "imbalance"
)

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
)

// Suggestion is a proactive nudge. ID is stable across polls so a dismissal
// sticks until the daily reset. Action and Parameters form the request to
// dispatch when the user opens it.
type Suggestion struct {
	ID         string         `json:"id"`
	Kind       Kind           `json:"kind"`
	Priority   Priority       `json:"priority"`
	Title      string         `json:"title"`
	Message    string         `json:"message"`
	Action     intent.Intent  `json:"action"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=suggestions_test

type readyFinder interface {
	FindReadyToProgress(ctx context.Context, userID string) []progression.Recommendation
}

type imbalanceFinder interface {
	Imbalances(ctx context.Context, userID string) []volume.Imbalance
}

type Poller struct {
	progression readyFinder
	volume      imbalanceFinder
	dismissed   *Dismissed
	metrics     *metrics.Manager
}

func NewPoller(
	ready readyFinder,
	imbalances imbalanceFinder,
	dismissed *Dismissed,
	metricsManager *metrics.Manager,
) *Poller {
	return &Poller{
		progression: ready,
		volume:      imbalances,
		dismissed:   dismissed,
		metrics:     metricsManager,
	}
}

// Poll runs the progression and imbalance checks in parallel and returns
// the suggestions the user has not dismissed, HIGH priority first.
func (p *Poller) Poll(ctx context.Context, userID string) []Suggestion {
	ctx, span := tracing.GlobalTracer.Start(ctx, "suggestions.poll")
	defer span.End()

	var (
		ready      []progression.Recommendation
		imbalances []volume.Imbalance
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ready = p.progression.FindReadyToProgress(gCtx, userID)
		return nil
	})
	g.Go(func() error {
		imbalances = p.volume.Imbalances(gCtx, userID)
		return nil
	})
	_ = g.Wait()

	candidates := make([]Suggestion, 0, len(ready)+len(imbalances))
	for _, rec := range ready {
		candidates = append(candidates, fromRecommendation(rec))
	}
	for _, imb := range imbalances {
		if s, ok := fromImbalance(imb); ok {
			candidates = append(candidates, s)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority == PriorityHigh && candidates[j].Priority != PriorityHigh
	})

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, s := range candidates {
		if p.dismissed.Contains(userID, s.ID) {
			continue
		}
		suggestions = append(suggestions, s)
		if len(suggestions) == MaxSuggestions {
			break
		}
	}

	if p.metrics != nil {
		for _, s := range suggestions {
			p.metrics.CounterSuggestions.WithLabelValues(string(s.Kind)).Inc()
		}
	}
	span.SetAttributes(
		attribute.Int("candidates", len(candidates)),
		attribute.Int("suggestions", len(suggestions)),
	)
	return suggestions
}

func (p *Poller) Dismiss(userID, suggestionID string) {
	p.dismissed.Add(userID, suggestionID)
}

func suggestionID(kind Kind, parts ...string) string {
	id := string(kind)
	for _, part := range parts {
		if part == "" {
			continue
		}
		id += ":" + strings.ReplaceAll(history.NormalizeName(part), " ", "_")
	}
	return id
}

func fromRecommendation(rec progression.Recommendation) Suggestion {
	priority := PriorityMedium
	if rec.Confidence == progression.ConfidenceHigh {
		priority = PriorityHigh
	}
	return Suggestion{
		ID:       suggestionID(KindProgression, rec.ExerciseName),
		Kind:     KindProgression,
		Priority: priority,
		Title:    "Ready to progress: " + rec.ExerciseName,
		Message: fmt.Sprintf(
			"%s Try %.0f lbs next session.", rec.Reason, rec.SuggestedWeight,
		),
		Action:     intent.GetProgressionAdvice,
		Parameters: map[string]any{intent.ParamExerciseName: rec.ExerciseName},
	}
}

// fromImbalance keeps HIGH and MEDIUM imbalances only; low volume in a
// single bucket is not worth an unprompted nudge.
func fromImbalance(imb volume.Imbalance) (Suggestion, bool) {
	var priority Priority
	switch imb.Severity {
	case volume.SeverityHigh:
		priority = PriorityHigh
	case volume.SeverityMedium:
		priority = PriorityMedium
	default:
		return Suggestion{}, false
	}

	var title string
	switch imb.Type {
	case volume.ImbalancePushPull:
		title = "Push/pull imbalance"
	case volume.ImbalanceLegNeglect:
		title = "Legs are falling behind"
	default:
		title = "Training imbalance"
	}

	return Suggestion{
		ID:       suggestionID(KindImbalance, string(imb.Type), string(imb.Bucket)),
		Kind:     KindImbalance,
		Priority: priority,
		Title:    title,
		Message:  imb.Message + " " + imb.Recommendation,
		Action:   intent.CheckVolumeBalance,
	}, true
}
