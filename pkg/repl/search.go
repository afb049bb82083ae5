package repl

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
)

// MatchResult represents a single column-name match.
type MatchResult struct {
	Name  string
	Score float64
}

// FindColumnsBySimilarity ranks column names against a user query so that
// `stats <column>` tolerates typos and partial names. It combines exact and
// substring matches with normalized Levenshtein distance over whole names
// and individual tokens.
func FindColumnsBySimilarity(query string, names []string) []string {
	if query == "" || len(names) == 0 {
		return nil
	}

	queryLower := strings.ToLower(query)
	queryTokens := tokenize(queryLower)

	var results []MatchResult
	for _, name := range names {
		if name == "" {
			continue
		}
		score := calculateScore(queryLower, queryTokens, name)
		if score > 0.3 { // Threshold to filter out irrelevant results
			results = append(results, MatchResult{Name: name, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	limit := 5
	if len(results) < limit {
		limit = len(results)
	}
	top := make([]string, limit)
	for i := 0; i < limit; i++ {
		top[i] = results[i].Name
	}
	return top
}

// calculateScore returns a similarity score between 0 and 1.
func calculateScore(queryLower string, queryTokens map[string]bool, name string) float64 {
	nameLower := strings.ToLower(name)

	if queryLower == nameLower {
		return 1.0
	}
	if strings.Contains(nameLower, queryLower) {
		return 0.95 // Substring match is very strong
	}

	// Whole-name Levenshtein, normalized by the longer length.
	levDist := levenshtein.Distance(queryLower, nameLower, nil)
	maxLen := float64(len(queryLower))
	if len(nameLower) > int(maxLen) {
		maxLen = float64(len(nameLower))
	}
	globalScore := 1.0 - float64(levDist)/maxLen
	if globalScore < 0 {
		globalScore = 0
	}

	// Token-wise best match handles "body weight" vs "body_weight_kg" and
	// single-token typos.
	nameTokens := tokenize(nameLower)
	totalTokenScore := 0.0
	for qToken := range queryTokens {
		best := 0.0
		if nameTokens[qToken] {
			best = 1.0
		} else {
			for nToken := range nameTokens {
				dist := levenshtein.Distance(qToken, nToken, nil)
				tMax := float64(len(qToken))
				if len(nToken) > int(tMax) {
					tMax = float64(len(nToken))
				}
				if s := 1.0 - float64(dist)/tMax; s > best {
					best = s
				}
			}
		}
		totalTokenScore += best
	}

	tokenScore := 0.0
	if len(queryTokens) > 0 {
		tokenScore = totalTokenScore / float64(len(queryTokens))
	}

	if tokenScore > globalScore {
		return tokenScore
	}
	return globalScore
}

// tokenize splits a string into unique tokens, handling camelCase,
// snake_case, and standard separators.
func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens[strings.ToLower(current.String())] = true
			current.Reset()
		}
	}

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && current.Len() > 0 {
			flush()
		}
		current.WriteRune(r)
	}
	flush()
	return tokens
}
