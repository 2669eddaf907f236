package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umbral-dev/gaceta/models"
)

func sampleRecords() []models.ArticleRecord {
	return []models.ArticleRecord{
		{
			URL:         "https://elpais.com/opinion/uno.html",
			Title:       "La deriva institucional",
			Content:     "Primer párrafo.\nSegundo párrafo.",
			ContentHTML: `<div class="a_c"><p>Primer párrafo.</p><p>Segundo párrafo.</p></div>`,
		},
		{
			URL:     "https://elpais.com/opinion/dos.html",
			Title:   "Una tregua frágil",
			Content: "Cuerpo del segundo.",
		},
	}
}

func samplePairs() []models.TranslationPair {
	return []models.TranslationPair{
		{Original: "La deriva institucional", Translated: "The institutional drift"},
		{Original: "Una tregua frágil", Translated: "A fragile truce"},
	}
}

func TestWriteAll_ProducesArtifacts(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	words := []models.WordCount{{Word: "government", Count: 4}}
	require.NoError(t, w.WriteAll(sampleRecords(), samplePairs(), words))

	var articles []models.ArticleRecord
	raw, err := os.ReadFile(filepath.Join(dir, ArticlesFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &articles))
	require.Len(t, articles, 2)
	assert.Equal(t, "La deriva institucional", articles[0].Title)

	// The first record carries a content region, so it gets a Markdown file.
	md, err := os.ReadFile(filepath.Join(dir, "article_1.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "# La deriva institucional")
	assert.Contains(t, string(md), "Primer párrafo.")

	// The second has no captured region and is skipped.
	_, err = os.Stat(filepath.Join(dir, "article_2.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteAnalysis_NilBecomesEmptyList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewWriter(dir).WriteAnalysis(nil))

	raw, err := os.ReadFile(filepath.Join(dir, AnalysisFile))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestValidate_CompleteRun(t *testing.T) {
	outDir := t.TempDir()
	imgDir := t.TempDir()
	w := NewWriter(outDir)

	require.NoError(t, w.WriteAll(sampleRecords(), samplePairs(),
		[]models.WordCount{{Word: "drift", Count: 3}}))
	require.NoError(t, os.WriteFile(filepath.Join(imgDir, "article_1_cover.jpg"),
		make([]byte, 2048), 0o644))

	r := Validate(outDir, imgDir, 2)
	assert.True(t, r.Ok(), "unexpected failures: %+v", r.Checks)
	assert.Zero(t, r.Failed)
	assert.Positive(t, r.Passed)
}

func TestValidate_FlagsSentinelsAndMissingFiles(t *testing.T) {
	outDir := t.TempDir()
	w := NewWriter(outDir)

	records := []models.ArticleRecord{{
		URL:     "https://elpais.com/opinion/roto.html",
		Title:   models.TitleSentinel,
		Content: "",
	}}
	pairs := []models.TranslationPair{{Original: "igual", Translated: "igual"}}
	require.NoError(t, w.WriteArticles(records))
	require.NoError(t, w.WriteTranslations(pairs))
	// no analysis file at all

	r := Validate(outDir, filepath.Join(outDir, "no-images"), 1)
	assert.False(t, r.Ok())

	failedNames := map[string]bool{}
	for _, c := range r.Checks {
		if !c.Passed {
			failedNames[c.Name] = true
		}
	}
	assert.True(t, failedNames["article 1 has title"], "sentinel title must fail")
	assert.True(t, failedNames["article 1 has content"], "empty content must fail")
	assert.True(t, failedNames["translation 1 completed"], "unchanged translation must fail")
	assert.True(t, failedNames[AnalysisFile+" exists"], "missing analysis must fail")
}

func TestValidate_TooFewArticles(t *testing.T) {
	outDir := t.TempDir()
	require.NoError(t, NewWriter(outDir).WriteAll(sampleRecords(), samplePairs(), nil))

	r := Validate(outDir, outDir, 5)
	assert.False(t, r.Ok())
}
