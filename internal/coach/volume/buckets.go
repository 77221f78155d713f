package volume

import (
	"regexp"
	"strings"
)

type Bucket string

const (
	BucketChest     Bucket = "chest"
	BucketBack      Bucket = "back"
	BucketLegs      Bucket = "legs"
	BucketShoulders Bucket = "shoulders"
	BucketArms      Bucket = "arms"
	BucketCore      Bucket = "core"
)

// Buckets lists every muscle group in reporting order.
var Buckets = []Bucket{
	BucketChest,
	BucketBack,
	BucketLegs,
	BucketShoulders,
	BucketArms,
	BucketCore,
}

type bucketPattern struct {
	bucket  Bucket
	pattern *regexp.Regexp
}

// An exercise may match several buckets (a deadlift trains back and legs);
// its sets then count towards each of them.
var bucketPatterns = []bucketPattern{
	{BucketChest, regexp.MustCompile(`bench|chest|pec|fly|flye|push ?-?up|\bdips?\b`)},
	{BucketBack, regexp.MustCompile(`row|pull|\blats?\b|deadlift|chin ?-?up|back extension|hyperextension|shrug`)},
	{BucketLegs, regexp.MustCompile(`squat|leg|lunge|deadlift|calf|glute|hamstring|quad`)},
	{BucketShoulders, regexp.MustCompile(`shoulder|overhead|military|lateral|delt|arnold|upright|\bohp\b`)},
	{BucketArms, regexp.MustCompile(`curl|bicep|tricep|skull|hammer|pushdown|kickback|\bdips?\b`)},
	{BucketCore, regexp.MustCompile(`\babs?\b|core|plank|crunch|sit ?-?up|oblique|twist|hanging knee`)},
}

// BucketsFor maps an exercise name to the muscle groups it trains.
func BucketsFor(exerciseName string) []Bucket {
	name := strings.ToLower(exerciseName)
	var buckets []Bucket
	for _, bp := range bucketPatterns {
		if bp.pattern.MatchString(name) {
			buckets = append(buckets, bp.bucket)
		}
	}
	return buckets
}

type Status string

const (
	StatusLow     Status = "LOW"
	StatusOptimal Status = "OPTIMAL"
	StatusHigh    Status = "HIGH"
)

const (
	optimalMinSets = 8
	optimalMaxSets = 22
	targetSets     = 10
)

// ClassifySets rates a weekly set count: below 8 is LOW, above 22 is HIGH.
func ClassifySets(sets int) Status {
	switch {
	case sets < optimalMinSets:
		return StatusLow
	case sets > optimalMaxSets:
		return StatusHigh
	default:
		return StatusOptimal
	}
}
