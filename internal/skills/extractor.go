// Package skills implements the heuristic skill-keyword extractor and the
// set operations used by scoring and gap analysis.
package skills

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fairyhunter13/career-compass/pkg/textx"
)

// vocabulary is the fixed reference list of skill tokens. Matching is by
// substring, so short entries like "c" will false-positive inside unrelated
// words (e.g. "vacation"). That imprecision is accepted, documented behavior
// of the heuristic; do not "fix" it by switching to word-boundary matching.
var vocabulary = []string{
	"python", "java", "c++", "c", "javascript", "react", "node", "express", "django",
	"flask", "fastapi", "sql", "mysql", "postgres", "mongodb", "aws", "docker", "kubernetes",
	"git", "html", "css", "tensorflow", "pytorch", "nlp", "machine learning", "data science",
	"linux", "azure", "gcp", "rest api", "api", "redux", "typescript",
}

// sectionHead caps how far into the text the "skills:" section scan looks.
const sectionHead = 4000

var (
	sectionRe = regexp.MustCompile(`skills[:\-\n]+(.+)`)
	tokenRe   = regexp.MustCompile(`[a-zA-Z+#]{2,}`)
)

// Extract returns the sorted, deduplicated, lowercase skill set found in text.
// It unions two passes: substring presence of each vocabulary entry, and
// tokens pulled from a "skills:" line near the top of the document.
func Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	lower := strings.ToLower(text)
	found := make(map[string]struct{})
	for _, s := range vocabulary {
		if strings.Contains(lower, s) {
			found[s] = struct{}{}
		}
	}
	if m := sectionRe.FindStringSubmatch(textx.Truncate(lower, sectionHead)); m != nil {
		for _, tok := range tokenRe.FindAllString(m[1], -1) {
			found[tok] = struct{}{}
		}
	}
	return sortedKeys(found)
}

// Normalize lowercases and trims entries, drops empties and duplicates, and
// returns the result sorted.
func Normalize(list []string) []string {
	set := make(map[string]struct{}, len(list))
	for _, s := range list {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	return sortedKeys(set)
}

// Intersect returns the sorted intersection of two normalized skill sets.
func Intersect(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, s := range b {
		in[s] = struct{}{}
	}
	out := make(map[string]struct{})
	for _, s := range a {
		if _, ok := in[s]; ok {
			out[s] = struct{}{}
		}
	}
	return sortedKeys(out)
}

// Diff returns the sorted elements of a that are not in b.
func Diff(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, s := range b {
		in[s] = struct{}{}
	}
	out := make(map[string]struct{})
	for _, s := range a {
		if _, ok := in[s]; !ok {
			out[s] = struct{}{}
		}
	}
	return sortedKeys(out)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
