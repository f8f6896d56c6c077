package graph

import "strings"

// allowedTags is the closed tag vocabulary. Unknown tags are dropped during
// sanitation, never rejected.
var allowedTags = map[string]bool{
	"design_recipe":  true,
	"contract":       true,
	"purpose":        true,
	"tests":          true,
	"stub":           true,
	"implementation": true,
	"refactor":       true,
}

// NormalizeText collapses all whitespace runs to single spaces and
// lowercases the result. This is the dedup key for node text.
func NormalizeText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// CleanText collapses whitespace like NormalizeText but preserves case.
// This is the canonical stored form of a node's text.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// IsSingleSentence reports whether the cleaned text is exactly one sentence:
// non-empty, terminated by '.', '!' or '?', and containing exactly one such
// terminator in total.
func IsSingleSentence(text string) bool {
	t := CleanText(text)
	if t == "" {
		return false
	}
	last := t[len(t)-1]
	if last != '.' && last != '!' && last != '?' {
		return false
	}
	terminators := 0
	for i := 0; i < len(t); i++ {
		switch t[i] {
		case '.', '!', '?':
			terminators++
		}
	}
	return terminators == 1
}

// TruncateSentence cuts s to at most max runes, appending "..." when
// anything was removed. Rendering labels use max = 80.
func TruncateSentence(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// SanitizeTags trims and lowercases each tag, keeps only the allowed
// vocabulary, drops duplicates preserving first occurrence, and caps the
// result at MaxTagsPerNode. Invalid tags are dropped silently.
func SanitizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, MaxTagsPerNode)
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" || !allowedTags[t] || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if len(out) >= MaxTagsPerNode {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
