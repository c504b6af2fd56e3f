package crawler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidQuery(t *testing.T, languages []string) {
	t.Helper()
	require.Len(t, languages, QueryLanguages)
	seen := map[string]bool{}
	for _, lang := range languages {
		assert.Equal(t, strings.ToLower(lang), lang)
		assert.False(t, seen[lang], "duplicate %s in %v", lang, languages)
		seen[lang] = true
	}
}

func TestLanguageSelector_Select(t *testing.T) {
	inputs := [][]string{
		nil,
		{},
		{"Go"},
		{"go", "rust"},
		{"go", "rust", "zig"},
		{"Go", "Rust", "Zig", "Haskell", "OCaml"},
		{"GO", "go", " Go "},
		{"", "  "},
		{"rust", "python", "java", "javascript", "php", "html", "css", "c++", "c#", "go"},
	}

	for seed := int64(1); seed <= 20; seed++ {
		selector := NewLanguageSelector(seed)
		for _, input := range inputs {
			languages, err := selector.Select(input)
			require.NoError(t, err)
			assertValidQuery(t, languages)
		}
	}
}

func TestLanguageSelector_EmptyDrawsFromDefaults(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		languages, err := NewLanguageSelector(seed).Select(nil)
		require.NoError(t, err)
		assertValidQuery(t, languages)
		for _, lang := range languages {
			assert.Contains(t, DefaultLanguages, lang)
		}
	}
}

func TestLanguageSelector_FillsShortLists(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		languages, err := NewLanguageSelector(seed).Select([]string{"go", "rust"})
		require.NoError(t, err)
		assertValidQuery(t, languages)
		assert.Equal(t, []string{"go", "rust"}, languages[:2])
		assert.Contains(t, DefaultLanguages, languages[2])
	}

	// "rust" is already given so it can never be the filler
	for seed := int64(1); seed <= 50; seed++ {
		languages, err := NewLanguageSelector(seed).Select([]string{"rust", "go"})
		require.NoError(t, err)
		assert.NotEqual(t, "rust", languages[2])
	}
}

func TestLanguageSelector_ExactlyThreeUnchanged(t *testing.T) {
	languages, err := NewLanguageSelector(7).Select([]string{"Go", "zig", "Elixir"})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "zig", "elixir"}, languages)
}

func TestLanguageSelector_LongListSamplesFromInput(t *testing.T) {
	input := []string{"go", "zig", "elixir", "haskell", "ocaml"}
	languages, err := NewLanguageSelector(3).Select(input)
	require.NoError(t, err)
	assertValidQuery(t, languages)
	for _, lang := range languages {
		assert.Contains(t, input, lang)
	}
}

func TestLanguageSelector_Deterministic(t *testing.T) {
	inputs := [][]string{nil, {"go"}, {"a", "b", "c", "d", "e", "f"}}
	first := NewLanguageSelector(42)
	second := NewLanguageSelector(42)
	for _, input := range inputs {
		a, err := first.Select(input)
		require.NoError(t, err)
		b, err := second.Select(input)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestLanguageSelector_InsufficientVocabulary(t *testing.T) {
	selector := NewLanguageSelectorWithVocabulary(1, []string{"go", "rust"})

	_, err := selector.Select(nil)
	assert.ErrorIs(t, err, ErrInsufficientVocabulary)

	_, err = selector.Select([]string{"go"})
	assert.ErrorIs(t, err, ErrInsufficientVocabulary)

	languages, err := selector.Select([]string{"zig"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"zig", "go", "rust"}, languages)
}
