// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package flashcard

import (
	"strings"

	"github.com/pdiddy/slidenotes/pkg/types"
)

const separator = ":::"

// Parse accepts the "Term:::Definition" lines of raw generator output.
// Lines without the separator, code fences, headings and lines with an
// empty side are dropped. Only the first separator splits a line.
func Parse(raw string) []types.Flashcard {
	var cards []types.Flashcard
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, separator) {
			continue
		}
		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "#") {
			continue
		}
		term, definition, _ := strings.Cut(line, separator)
		term = strings.TrimSpace(term)
		definition = strings.TrimSpace(definition)
		if term == "" || definition == "" {
			continue
		}
		cards = append(cards, types.Flashcard{Term: term, Definition: definition})
	}
	return cards
}
