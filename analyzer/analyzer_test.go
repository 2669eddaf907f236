package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRepeatedWords_ThresholdIsExclusive(t *testing.T) {
	// Translations of three Spanish headlines: "cat" and "runs" each appear
	// exactly twice, which sits on the threshold and must be excluded.
	headlines := []string{
		"The cat runs",
		"The cat eats",
		"The dog runs",
	}

	repeated := FindRepeatedWords(headlines)
	assert.Empty(t, repeated)
}

func TestFindRepeatedWords_CountsAboveThreshold(t *testing.T) {
	headlines := []string{
		"Election day arrives",
		"The election nobody wanted",
		"An election without winners",
		"Election fatigue sets in",
	}

	repeated := FindRepeatedWords(headlines)
	require.Contains(t, repeated, "election")
	assert.Equal(t, 4, repeated["election"])
}

func TestFindRepeatedWords_StopWordsAndShortTokens(t *testing.T) {
	headlines := []string{
		"The the the a a a",
		"I I I of of of",
	}

	// Every token is either a stop word or a single character.
	assert.Empty(t, FindRepeatedWords(headlines))
}

func TestFindRepeatedWords_NormalizesCaseAndPunctuation(t *testing.T) {
	headlines := []string{
		"Europe, Europe!",
		"EUROPE in focus",
		"¿Europe?",
	}

	repeated := FindRepeatedWords(headlines)
	require.Contains(t, repeated, "europe")
	assert.Equal(t, 4, repeated["europe"])
}

func TestFindRepeatedWords_ApostropheJoinsLetters(t *testing.T) {
	// Punctuation is stripped before tokenizing, so "Europe's" becomes the
	// distinct token "europes" and never counts toward "europe".
	headlines := []string{
		"Europe, Europe, Europe",
		"Europe's moment",
	}

	repeated := FindRepeatedWords(headlines)
	assert.Equal(t, 3, repeated["europe"])
	assert.NotContains(t, repeated, "europes")
}

func TestFindRepeatedWords_OrderInsensitive(t *testing.T) {
	a := []string{"war and peace", "war again", "the long war", "peace talks"}
	b := []string{"peace talks", "the long war", "war again", "war and peace"}

	assert.Equal(t, FindRepeatedWords(a), FindRepeatedWords(b))
}

func TestFindRepeatedWords_EmptyInput(t *testing.T) {
	repeated := FindRepeatedWords(nil)
	require.NotNil(t, repeated)
	assert.Empty(t, repeated)
}

func TestSorted_DescendingCounts(t *testing.T) {
	freq := map[string]int{"crisis": 3, "government": 5, "reform": 4}

	out := Sorted(freq)
	require.Len(t, out, 3)
	assert.Equal(t, "government", out[0].Word)
	assert.Equal(t, 5, out[0].Count)
	assert.Equal(t, "reform", out[1].Word)
	assert.Equal(t, "crisis", out[2].Word)
}
