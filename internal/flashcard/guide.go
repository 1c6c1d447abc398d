// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package flashcard

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/slidenotes/pkg/types"
)

// GuideHeader opens every study guide.
const GuideHeader = "DIGITAL MEDIA STUDY GUIDE\n" +
	"================================\n\n" +
	"Format: Term:::Definition\n" +
	"Ready for Quizlet Import\n\n" +
	"--------------------------------\n\n"

// Placeholder replaces the study guide when no generator produced cards.
const Placeholder = "Error generating study guide. Please check the log file for details."

// RenderGuide returns the study guide text for cards.
func RenderGuide(cards []types.Flashcard) string {
	lines := make([]string, len(cards))
	for i, c := range cards {
		lines[i] = c.String()
	}
	return GuideHeader + strings.Join(lines, "\n")
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing study guide %s: %w", path, err)
	}
	return nil
}
