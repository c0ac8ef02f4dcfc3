package service

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/reshetovitsme/autopost/internal/modules/keyword/domain"
)

const minTokenLength = 3

// tokenPattern matches runs of letters and digits joined by internal hyphens or apostrophes.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’-][\p{L}\p{N}]+)*`)

// Extract returns at most maxKeywords search terms from text, most frequent first.
// An empty result means there is nothing worth searching for.
func Extract(text string, maxKeywords int) []string {
	if maxKeywords <= 0 {
		return []string{}
	}
	ranked := Rank(text)
	if len(ranked) > maxKeywords {
		ranked = ranked[:maxKeywords]
	}
	return domain.Terms(ranked)
}

// Rank counts every eligible token in text and orders them by frequency,
// breaking ties by first occurrence.
func Rank(text string) []domain.Keyword {
	type entry struct {
		keyword domain.Keyword
		first   int
	}

	entries := make(map[string]*entry)
	for pos, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		token = strings.ReplaceAll(token, "’", "'")
		if utf8.RuneCountInString(token) < minTokenLength {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if e, ok := entries[token]; ok {
			e.keyword.Frequency++
			continue
		}
		entries[token] = &entry{keyword: domain.Keyword{Term: token, Frequency: 1}, first: pos}
	}

	ordered := make([]*entry, 0, len(entries))
	for _, e := range entries {
		ordered = append(ordered, e)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].keyword.Frequency != ordered[j].keyword.Frequency {
			return ordered[i].keyword.Frequency > ordered[j].keyword.Frequency
		}
		return ordered[i].first < ordered[j].first
	})

	keywords := make([]domain.Keyword, len(ordered))
	for i, e := range ordered {
		keywords[i] = e.keyword
	}
	return keywords
}
