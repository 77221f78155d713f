package volume

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/2beens/fitcoach/internal/coach/aggregator"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const (
	WindowDays = 7

	// workoutsFetched caps the workouts read per report; far more than a
	// week of training ever holds.
	workoutsFetched = 100
)

type BucketVolume struct {
	Bucket         Bucket   `json:"bucket"`
	Sets           int      `json:"sets"`
	Exercises      []string `json:"exercises"`
	Status         Status   `json:"status"`
	Recommendation string   `json:"recommendation"`
}

type Report struct {
	From         time.Time      `json:"from"`
	To           time.Time      `json:"to"`
	Buckets      []BucketVolume `json:"buckets"`
	TotalSets    int            `json:"totalSets"`
	WorkoutCount int            `json:"workoutCount"`
	Imbalances   []Imbalance    `json:"imbalances"`
}

// Sets returns the weekly set count of a bucket.
func (r Report) Sets(bucket Bucket) int {
	for _, b := range r.Buckets {
		if b.Bucket == bucket {
			return b.Sets
		}
	}
	return 0
}

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=volume_test

type workoutSource interface {
	AllWorkoutHistory(ctx context.Context, userID string, limit int) []aggregator.WorkoutSummary
	Today() time.Time
}

type Analyzer struct {
	workouts workoutSource
}

func NewAnalyzer(workouts workoutSource) *Analyzer {
	return &Analyzer{
		workouts: workouts,
	}
}

// WeeklyVolume reports per-bucket set volume over the trailing 7 days
// ending today, with the imbalances it implies.
func (a *Analyzer) WeeklyVolume(ctx context.Context, userID string) Report {
	ctx, span := tracing.GlobalTracer.Start(ctx, "volume.weekly")
	defer span.End()

	report := Compute(a.workouts.AllWorkoutHistory(ctx, userID, workoutsFetched), a.workouts.Today())
	span.SetAttributes(attribute.Int("total_sets", report.TotalSets))
	span.SetAttributes(attribute.Int("imbalances", len(report.Imbalances)))
	return report
}

// Imbalances is WeeklyVolume reduced to its warnings.
func (a *Analyzer) Imbalances(ctx context.Context, userID string) []Imbalance {
	return a.WeeklyVolume(ctx, userID).Imbalances
}

// Compute builds the weekly report from workout summaries. A week without
// workouts yields zero volume in every bucket.
func Compute(workouts []aggregator.WorkoutSummary, today time.Time) Report {
	from := today.AddDate(0, 0, -(WindowDays - 1))
	report := Report{
		From:    from,
		To:      today,
		Buckets: make([]BucketVolume, 0, len(Buckets)),
	}

	sets := make(map[Bucket]int, len(Buckets))
	exercises := make(map[Bucket][]string, len(Buckets))
	seen := make(map[Bucket]map[string]bool, len(Buckets))
	for _, b := range Buckets {
		seen[b] = make(map[string]bool)
	}

	for _, w := range workouts {
		if w.Date.Before(from) || w.Date.After(today) {
			continue
		}
		report.WorkoutCount++
		for _, e := range w.Exercises {
			report.TotalSets += e.Sets
			for _, b := range BucketsFor(e.Name) {
				sets[b] += e.Sets
				if !seen[b][e.Name] {
					seen[b][e.Name] = true
					exercises[b] = append(exercises[b], e.Name)
				}
			}
		}
	}

	for _, b := range Buckets {
		status := ClassifySets(sets[b])
		bv := BucketVolume{
			Bucket:         b,
			Sets:           sets[b],
			Exercises:      exercises[b],
			Status:         status,
			Recommendation: bucketRecommendation(b, sets[b], status),
		}
		if bv.Exercises == nil {
			bv.Exercises = []string{}
		}
		report.Buckets = append(report.Buckets, bv)
	}

	report.Imbalances = DetectImbalances(report)
	return report
}

func bucketRecommendation(b Bucket, sets int, status Status) string {
	switch status {
	case StatusLow:
		if sets == 0 {
			return fmt.Sprintf("No %s work this week. Aim for %d-%d sets.", b, optimalMinSets, optimalMaxSets)
		}
		return fmt.Sprintf("Add %d more %s sets to reach the %d set minimum.", optimalMinSets-sets, b, optimalMinSets)
	case StatusHigh:
		return fmt.Sprintf("%d %s sets is a lot. Watch recovery or trim a few sets.", sets, b)
	default:
		return fmt.Sprintf("%s volume is in the optimal range.", b)
	}
}

type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

type ImbalanceType string

const (
	ImbalancePushPull   ImbalanceType = "PUSH_PULL_IMBALANCE"
	ImbalanceLegNeglect ImbalanceType = "LEG_NEGLECT"
	ImbalanceLowVolume  ImbalanceType = "LOW_VOLUME"
)

type Imbalance struct {
	Type           ImbalanceType `json:"type"`
	Severity       Severity      `json:"severity"`
	Bucket         Bucket        `json:"bucket,omitempty"`
	SetsNeeded     int           `json:"setsNeeded,omitempty"`
	Message        string        `json:"message"`
	Recommendation string        `json:"recommendation"`
}

const (
	pushPullRatio      = 1.5
	pushPullMinChest   = 10
	legNeglectRatio    = 2.0
	legNeglectMinUpper = 20
	underMinimumSets   = 5
)

// DetectImbalances evaluates every rule independently and sorts the result
// by severity, HIGH first.
func DetectImbalances(report Report) []Imbalance {
	imbalances := make([]Imbalance, 0)

	chest, back := report.Sets(BucketChest), report.Sets(BucketBack)
	if float64(chest) > pushPullRatio*float64(back) && chest >= pushPullMinChest {
		imbalances = append(imbalances, Imbalance{
			Type:           ImbalancePushPull,
			Severity:       SeverityHigh,
			Message:        fmt.Sprintf("%d chest sets vs %d back sets this week.", chest, back),
			Recommendation: "Add rows or pull-ups to balance your pushing volume.",
		})
	}

	upper := chest + back + report.Sets(BucketShoulders)
	legs := report.Sets(BucketLegs)
	if float64(upper) > legNeglectRatio*float64(legs) && upper >= legNeglectMinUpper {
		imbalances = append(imbalances, Imbalance{
			Type:           ImbalanceLegNeglect,
			Severity:       SeverityMedium,
			Message:        fmt.Sprintf("%d upper body sets vs %d leg sets this week.", upper, legs),
			Recommendation: "Schedule a leg day: squats, lunges or deadlifts.",
		})
	}

	for _, b := range report.Buckets {
		if b.Sets <= 0 || b.Sets >= underMinimumSets {
			continue
		}
		imbalances = append(imbalances, Imbalance{
			Type:           ImbalanceLowVolume,
			Severity:       SeverityLow,
			Bucket:         b.Bucket,
			SetsNeeded:     targetSets - b.Sets,
			Message:        fmt.Sprintf("Only %d %s sets this week.", b.Sets, b.Bucket),
			Recommendation: fmt.Sprintf("Add %d %s sets to reach %d.", targetSets-b.Sets, b.Bucket, targetSets),
		})
	}

	sort.SliceStable(imbalances, func(i, j int) bool {
		return imbalances[i].Severity.rank() < imbalances[j].Severity.rank()
	})
	return imbalances
}
