package file

import (
	"strings"
)

// markerCutset is the trailing whitespace ignored around the completion marker.
const markerCutset = " \t\r\n"

// MarkerGate classifies content as complete or potentially truncated by
// looking for a trailing sentinel literal, and strips the sentinel before
// anything is written. The marker concept is text-only; binary payloads are
// always complete.
type MarkerGate struct {
	literal string
}

// NewMarkerGate creates a gate for the given sentinel literal.
func NewMarkerGate(literal string) *MarkerGate {
	if literal == "" {
		panic("completion marker literal is required")
	}
	return &MarkerGate{literal: literal}
}

// IsComplete reports whether the trailing-whitespace-trimmed content ends
// with the sentinel literal.
func (g *MarkerGate) IsComplete(content string) bool {
	return strings.HasSuffix(strings.TrimRight(content, markerCutset), g.literal)
}

// Strip removes exactly one trailing occurrence of the sentinel, plus any
// trailing whitespace around it. Content without a marker is returned
// unchanged, which makes Strip idempotent.
func (g *MarkerGate) Strip(content string) string {
	trimmed := strings.TrimRight(content, markerCutset)
	if !strings.HasSuffix(trimmed, g.literal) {
		return content
	}
	body := trimmed[:len(trimmed)-len(g.literal)]
	return strings.TrimRight(body, markerCutset)
}
