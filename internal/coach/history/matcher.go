package history

import "strings"

// Match scores, highest wins.
const (
	scoreNone        = 0
	scoreSubstring   = 1 // candidate is contained in the query
	scoreSuperstring = 2 // candidate contains the query
	scoreExact       = 3
)

// NormalizeName lowercases and trims an exercise label.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MatchesExercise reports whether a stored exercise name matches the query:
// exact, substring or superstring, case-insensitive.
// Identity is name based, so "Bench Press" and "Incline Bench Press" collide.
func MatchesExercise(query, name string) bool {
	return matchScore(NormalizeName(query), NormalizeName(name)) > scoreNone
}

func matchScore(query, candidate string) int {
	if query == "" || candidate == "" {
		return scoreNone
	}
	switch {
	case query == candidate:
		return scoreExact
	case strings.Contains(candidate, query):
		return scoreSuperstring
	case strings.Contains(query, candidate):
		return scoreSubstring
	default:
		return scoreNone
	}
}

// Resolve maps a free-text label to the best matching candidate.
// Higher score wins; on equal score the candidate whose length is closest to
// the query wins, then the first one in candidates order.
func Resolve(query string, candidates []string) (string, bool) {
	idx := ResolveIndex(query, candidates)
	if idx < 0 {
		return "", false
	}
	return candidates[idx], true
}

// ResolveIndex is Resolve returning the position of the winner, -1 if no
// candidate matches.
func ResolveIndex(query string, candidates []string) int {
	q := NormalizeName(query)
	bestIdx, bestScore, bestDiff := -1, scoreNone, 0
	for i, c := range candidates {
		score := matchScore(q, NormalizeName(c))
		if score == scoreNone {
			continue
		}
		diff := len(NormalizeName(c)) - len(q)
		if diff < 0 {
			diff = -diff
		}
		if score > bestScore || (score == bestScore && diff < bestDiff) {
			bestIdx, bestScore, bestDiff = i, score, diff
		}
	}
	return bestIdx
}

// BestExercise picks the entry of a workout that best matches the query, so an
// exact "Bench Press" wins over an "Incline Bench Press" logged before it.
func BestExercise(query string, exercises []ExerciseEntry) (ExerciseEntry, bool) {
	names := make([]string, len(exercises))
	for i, e := range exercises {
		names[i] = e.Name
	}
	idx := ResolveIndex(query, names)
	if idx < 0 {
		return ExerciseEntry{}, false
	}
	return exercises[idx], true
}
