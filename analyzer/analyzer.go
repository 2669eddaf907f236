// Package analyzer finds words that repeat across translated headlines.
//
// The analysis is deliberately simple: lowercase, strip everything outside
// basic Latin letters and whitespace, drop stop words and single-character
// tokens, count what is left, keep counts above the threshold.
package analyzer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/umbral-dev/gaceta/models"
)

// repeatThreshold is the exclusive lower bound: a word is reported only when
// it occurs more than this many times across all headlines.
const repeatThreshold = 2

var nonLetters = regexp.MustCompile(`[^a-zA-Z\s]`)

// stopWords are common English function words excluded from the count
// (articles, prepositions, pronouns, auxiliaries).
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"the a an and or but in on at to for of with by from is it its as are was " +
			"were be been has have had do does did will would could should may might " +
			"shall can this that these those not no nor so if than too very just about " +
			"up out into over after before between under above such each which who " +
			"whom what when where why how all both few more most other some any he " +
			"she they we you i me him her us them my your his our their") {
		stopWords[w] = struct{}{}
	}
}

// FindRepeatedWords counts meaningful words across the given headlines and
// returns those occurring more than twice. The result is independent of
// headline order and never nil.
func FindRepeatedWords(headlines []string) map[string]int {
	all := strings.ToLower(strings.Join(headlines, " "))
	words := strings.Fields(nonLetters.ReplaceAllString(all, ""))

	counts := make(map[string]int)
	for _, w := range words {
		if len(w) <= 1 {
			continue
		}
		if _, skip := stopWords[w]; skip {
			continue
		}
		counts[w]++
	}

	repeated := make(map[string]int)
	for w, n := range counts {
		if n > repeatThreshold {
			repeated[w] = n
		}
	}
	return repeated
}

// Sorted returns the frequency map as a slice ordered by descending count.
// Ties keep whatever relative order the map iteration produced.
func Sorted(freq map[string]int) []models.WordCount {
	out := make([]models.WordCount, 0, len(freq))
	for w, n := range freq {
		out = append(out, models.WordCount{Word: w, Count: n})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
