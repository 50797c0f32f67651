// Package classify decides whether a message is job-related using a
// case-insensitive keyword substring heuristic.
package classify

import "strings"

// Classifier matches message text against a fixed keyword set. The keyword
// set is immutable after construction.
type Classifier struct {
	keywords []string
}

// New creates a Classifier. Keywords are lowercased once up front; duplicates
// and ordering are harmless.
func New(keywords []string) *Classifier {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			lowered = append(lowered, k)
		}
	}
	return &Classifier{keywords: lowered}
}

// Relevant reports whether text contains any configured keyword as a
// contiguous substring, case-insensitively. Matching is deliberately not
// word-bounded: "interviewing" matches the keyword "interview". Empty text
// is never relevant.
func (c *Classifier) Relevant(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, k := range c.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Keywords returns a copy of the configured keyword set.
func (c *Classifier) Keywords() []string {
	out := make([]string, len(c.keywords))
	copy(out, c.keywords)
	return out
}

// DefaultKeywords is the built-in job-related keyword set used when the
// config provides none.
func DefaultKeywords() []string {
	return []string{
		"job", "hiring", "opening", "shortlist", "shortlisted",
		"interview", "vacancy", "walk-in", "requirement",
	}
}
