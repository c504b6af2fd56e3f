package crawler

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"
)

// DefaultLanguages is the fallback vocabulary for users without a profile.
var DefaultLanguages = []string{"rust", "python", "java", "javascript", "php", "html", "css", "c++", "c#"}

// LanguageSelector picks the topic languages of one discovery session.
type LanguageSelector struct {
	vocabulary []string
	mu         sync.Mutex
	rnd        *rand.Rand
}

// NewLanguageSelector seeds the selector; seed 0 uses the clock.
func NewLanguageSelector(seed int64) *LanguageSelector {
	return NewLanguageSelectorWithVocabulary(seed, DefaultLanguages)
}

func NewLanguageSelectorWithVocabulary(seed int64, vocabulary []string) *LanguageSelector {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &LanguageSelector{
		vocabulary: normalizeLanguages(vocabulary),
		rnd:        rand.New(rand.NewSource(seed)),
	}
}

// Select returns exactly QueryLanguages lowercase, distinct tokens.
func (s *LanguageSelector) Select(userLanguages []string) ([]string, error) {
	languages := normalizeLanguages(userLanguages)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case len(languages) == 0:
		return s.draw(s.vocabulary, QueryLanguages)
	case len(languages) > QueryLanguages:
		return s.draw(languages, QueryLanguages)
	case len(languages) < QueryLanguages:
		remaining := make([]string, 0, len(s.vocabulary))
		for _, lang := range s.vocabulary {
			if !slices.Contains(languages, lang) {
				remaining = append(remaining, lang)
			}
		}
		fillers, err := s.draw(remaining, QueryLanguages-len(languages))
		if err != nil {
			return nil, err
		}
		return append(languages, fillers...), nil
	default:
		return languages, nil
	}
}

// draw takes n distinct items with a partial Fisher-Yates shuffle of a copy.
func (s *LanguageSelector) draw(pool []string, n int) ([]string, error) {
	if len(pool) < n {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientVocabulary, n, len(pool))
	}
	items := append([]string(nil), pool...)
	for i := 0; i < n; i++ {
		j := i + s.rnd.Intn(len(items)-i)
		items[i], items[j] = items[j], items[i]
	}
	return items[:n], nil
}

func normalizeLanguages(languages []string) []string {
	out := make([]string, 0, len(languages))
	for _, lang := range languages {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == "" || slices.Contains(out, lang) {
			continue
		}
		out = append(out, lang)
	}
	return out
}
