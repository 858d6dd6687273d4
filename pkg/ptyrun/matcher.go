package ptyrun

import (
	"strings"

	"github.com/dotrig/dotrig/pkg/termtext"
)

// Prompt pairs a substring to watch for with the response to inject once it
// appears.
type Prompt struct {
	Match    string
	Response string
}

// promptMatcher accumulates process output and decides when responses are
// due. It keeps two views: the raw text exactly as received (the eventual
// return value of a run) and a visible view with control sequences stripped,
// so color codes and cursor movement never break a match.
//
// Prompts match strictly in list order; a later prompt is never checked
// before all earlier ones have matched, and a matched prompt is never
// rematched even if its text reappears.
type promptMatcher struct {
	prompts []Prompt
	next    int

	raw strings.Builder

	// searchFrom is the offset into the visible view where matching for
	// the pending prompt resumes. Everything before it belongs to prompts
	// already matched.
	searchFrom int
}

func newPromptMatcher(prompts []Prompt) *promptMatcher {
	return &promptMatcher{prompts: prompts}
}

// feed appends a chunk of process output and returns the responses that are
// now due, in prompt order. A single chunk can complete several prompts.
func (m *promptMatcher) feed(chunk string) []string {
	m.raw.WriteString(chunk)
	if m.next >= len(m.prompts) {
		return nil
	}

	// Re-strip the whole raw buffer: control sequences may span chunk
	// boundaries, and the stripped view only ever grows.
	visible := termtext.Strip(m.raw.String())

	var due []string
	for m.next < len(m.prompts) {
		prompt := m.prompts[m.next]
		idx := strings.Index(visible[m.searchFrom:], prompt.Match)
		if idx < 0 {
			break
		}
		m.searchFrom += idx + len(prompt.Match)
		due = append(due, prompt.Response)
		m.next++
	}
	return due
}

// Raw returns everything received so far, unmodified
func (m *promptMatcher) Raw() string {
	return m.raw.String()
}
