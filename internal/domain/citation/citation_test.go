package citation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "annexiiipoint1a", Normalize("Annex III, point 1(a)"))
	assert.Equal(t, "article51", Normalize("Article 5(1)"))
	assert.Equal(t, "article50", Normalize(" ARTICLE\t50. "))
	assert.Equal(t, "annex3", Normalize("Annex: 3"))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		citation string
		wantKey  string
	}{
		{"Article 5(1)", "Article 5"},
		{"Article 5(2)", "Article 5"},
		{"Article 1(1)", ""},
		{"Article 10(2)", "Article 10"},
		{"Annex II, point 3", "Annex II"},
		{"Article 5", "Article 5"},
		{"article 6(2)", "Article 6"},
		{"Article 10", "Article 10"},
		{"Article 11", "Article 11"},
		{"Article 50", "Article 50"},
		{"Article 52", "Article 50"},
		{"Annex III, point 1(a)", "Annex III"},
		{"Annex III", "Annex III"},
		{"Annex 3", "Annex III"},
		{"Annex II", "Annex II"},
		{"annex 2", "Annex II"},
		{"Article 999", ""},
		{"Article 1", ""},
		{"Article 51", ""},
		{"Annex IV", ""},
		{"Annex I", ""},
		{"", ""},
		{"nothing to see", ""},
	}
	for _, tt := range tests {
		t.Run(tt.citation, func(t *testing.T) {
			got := Resolve(tt.citation)
			if tt.wantKey == "" {
				assert.Equal(t, NotFound, got)
				return
			}
			assert.Equal(t, tt.wantKey, got.Key)
			assert.NotEmpty(t, got.Title)
			assert.NotEmpty(t, got.Text)
		})
	}
}

func TestResolve_LongestPrefixWins(t *testing.T) {
	r := NewResolver(
		map[string]string{
			"annex":    "Annex (generic)",
			"annexii":  "Annex II",
			"annexiii": "Annex III",
			"annex3":   "Annex III",
		},
		map[string]Entry{
			"Annex (generic)": {Title: "generic"},
			"Annex II":        {Title: "two"},
			"Annex III":       {Title: "three"},
		},
	)

	// Both "annexii" and "annexiii" are prefixes of the normalized text.
	for i := 0; i < 50; i++ {
		assert.Equal(t, "Annex III", r.Resolve("Annex III, point 1(a)").Key)
	}
	assert.Equal(t, "Annex III", r.Resolve("Annex 3").Key)
	assert.Equal(t, "Annex II", r.Resolve("Annex II").Key)
}

func TestResolve_PrefixMustNotExtendIdentifier(t *testing.T) {
	r := NewResolver(
		map[string]string{
			"article5":       "Article 5",
			"article52":      "Article 52",
			"annexiiipoint4": "Annex III, point 4",
		},
		map[string]Entry{
			"Article 5":          {Title: "five"},
			"Article 52":         {Title: "fifty-two"},
			"Annex III, point 4": {Title: "employment"},
		},
	)

	assert.Equal(t, "Article 5", r.Resolve("Article 5(2)").Key)
	assert.Equal(t, "Article 52", r.Resolve("Article 52").Key)
	// A prefix may run into the sub-point once the identifier has ended.
	assert.Equal(t, "Annex III, point 4", r.Resolve("Annex III, point 4(a)").Key)
	assert.Equal(t, NotFound, r.Resolve("Annex IIII"))
}

func TestResolve_PrefixToMissingEntry(t *testing.T) {
	r := NewResolver(map[string]string{"article5": "Article 5"}, nil)
	assert.Equal(t, NotFound, r.Resolve("Article 5"))
}

func TestResolver_LookupAndKeys(t *testing.T) {
	e, ok := Default().Lookup("Annex III")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(e.Title, "Annex III"))

	_, ok = Default().Lookup("Annex IX")
	assert.False(t, ok)

	keys := Default().Keys()
	assert.Contains(t, keys, "Article 5")
	assert.IsNonDecreasing(t, keys)
}

func TestFind(t *testing.T) {
	text := "Under Article 5(1)(c) and annex iii, point 4(a) this is banned; see also Article 50."
	assert.Equal(t, []string{"Article 5(1)", "annex iii, point 4(a)", "Article 50"}, Find(text))
	assert.Empty(t, Find("no references"))
}

func TestHighlight(t *testing.T) {
	text := "See Article 5(1) and Annex III, point 1(a).\n\nNothing here."
	paras := Highlight(text)
	require.Len(t, paras, 2)

	first := paras[0]
	require.Len(t, first, 5)
	assert.Equal(t, "See ", first[0].Text)
	assert.Nil(t, first[0].Citation)
	assert.Equal(t, "Article 5(1)", first[1].Text)
	require.NotNil(t, first[1].Citation)
	assert.Equal(t, "Article 5", first[1].Citation.Key)
	assert.Equal(t, "Annex III, point 1(a)", first[3].Text)
	assert.Equal(t, "Annex III", first[3].Citation.Key)
	assert.Equal(t, ".", first[4].Text)

	require.Len(t, paras[1], 1)
	assert.Equal(t, "Nothing here.", paras[1][0].Text)
}

func TestHighlight_PreservesText(t *testing.T) {
	text := "Article 6 applies.\n\nAnnex 3 lists it, unlike Article 999."
	var rebuilt []string
	for _, p := range Highlight(text) {
		var b strings.Builder
		for _, s := range p {
			b.WriteString(s.Text)
		}
		rebuilt = append(rebuilt, b.String())
	}
	assert.Equal(t, text, strings.Join(rebuilt, "\n\n"))
}

func TestHighlight_UnknownCitationGetsPlaceholder(t *testing.T) {
	paras := Highlight("Article 999")
	require.Len(t, paras, 1)
	require.Len(t, paras[0], 1)
	require.NotNil(t, paras[0][0].Citation)
	assert.Equal(t, NotFound.Title, paras[0][0].Citation.Title)
}

func TestHighlight_Empty(t *testing.T) {
	assert.Nil(t, Highlight(""))
}
