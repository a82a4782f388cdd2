// Package grouping assigns short category labels to free-text activity
// descriptions.
//
// Labels come from keyword rules first and, failing those, from words an
// activity shares with the other activities in the same batch. The second
// step makes a label depend on the whole batch: the same text can be labelled
// differently for a different date range or user scope. Callers build one
// Index per query and resolve every entry of that query against it.
//
// Building the index is linear in the total number of tokens and each lookup
// is linear in the tokens of one text, so large windows stay cheap.
package grouping

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Tiliavir/activity-log/internal/rules"
)

// Fixed labels produced by the keyword rules.
const (
	Eating   = "Eating"
	Sleep    = "Sleep"
	School   = "School"
	Homework = "Homework"
)

var wordRE = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokens returns the distinct lowercase word tokens of text, sorted.
func Tokens(text string) []string {
	seen := map[string]struct{}{}
	for _, w := range wordRE.FindAllString(strings.ToLower(text), -1) {
		seen[w] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Index is the token index of one batch of activity texts.
type Index struct {
	rules     rules.Table
	stopwords map[string]struct{}
	school    map[string]struct{}
	homework  map[string]struct{}

	// docs maps every distinct raw text of the batch to its
	// stopword-filtered tokens.
	docs map[string][]string
	// df counts, per filtered token, the distinct raw texts containing it.
	df map[string]int
}

// NewIndex builds the index for the given batch. Duplicate texts count once.
func NewIndex(t rules.Table, batch []string) *Index {
	idx := &Index{
		rules:     t,
		stopwords: t.StopwordSet(),
		school:    lowerSet(t.SchoolKeywords),
		homework:  lowerSet(t.HomeworkTokens),
		docs:      make(map[string][]string, len(batch)),
		df:        map[string]int{},
	}
	for _, text := range batch {
		if _, ok := idx.docs[text]; ok {
			continue
		}
		words := idx.filter(Tokens(text))
		idx.docs[text] = words
		for _, w := range words {
			idx.df[w]++
		}
	}
	return idx
}

// Len returns the number of distinct texts in the batch.
func (idx *Index) Len() int {
	return len(idx.docs)
}

// Group returns the label for text. The text does not need to be part of
// the batch; when it is, it is never compared with itself.
func (idx *Index) Group(text string) string {
	lower := strings.ToLower(text)
	if idx.rules.EatingMarker != "" && strings.Contains(lower, idx.rules.EatingMarker) {
		return Eating
	}
	if idx.rules.IsEating(lower) {
		return Eating
	}
	if idx.rules.IsSleep(lower) {
		return Sleep
	}

	all := Tokens(text)
	if intersects(all, idx.school) {
		return School
	}
	if intersects(all, idx.homework) {
		return Homework
	}

	words := idx.filter(all)
	if len(words) > 0 {
		if shared, ok := idx.smallestShared(text, words); ok {
			return capitalize(shared)
		}
	} else {
		words = all
	}

	if len(words) > 0 {
		label := capitalize(words[0])
		if strings.EqualFold(label, idx.rules.EatingMarker) {
			return Eating
		}
		return label
	}
	return capitalize(strings.TrimSpace(text))
}

// smallestShared returns the smallest of words that appears in at least one
// other text of the batch. words is sorted, so the first hit wins.
func (idx *Index) smallestShared(text string, words []string) (string, bool) {
	_, self := idx.docs[text]
	for _, w := range words {
		n := idx.df[w]
		if self {
			// text's own filtered tokens are exactly words.
			n--
		}
		if n > 0 {
			return w, true
		}
	}
	return "", false
}

func (idx *Index) filter(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, w := range tokens {
		if _, stop := idx.stopwords[w]; !stop {
			out = append(out, w)
		}
	}
	return out
}

// GroupAll labels every text of batch against an index of that same batch.
// The result is keyed by raw text.
func GroupAll(t rules.Table, batch []string) map[string]string {
	idx := NewIndex(t, batch)
	out := make(map[string]string, idx.Len())
	for text := range idx.docs {
		out[text] = idx.Group(text)
	}
	return out
}

func intersects(tokens []string, set map[string]struct{}) bool {
	for _, w := range tokens {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}

func lowerSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
