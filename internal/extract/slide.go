// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/slidenotes/internal/logging"
	"github.com/pdiddy/slidenotes/pkg/types"
)

var banner = strings.Repeat("=", 50)

// notesDivider separates the body blocks from the notes blocks in the noted
// variant.
const notesDivider = "\n\nSLIDE NOTES\n==========\n"

// SlideText renders slide n as a body block and a notes block. The body
// block always carries the slide banner; shapes with blank text are
// skipped. The notes block is "" when the slide has no notes.
func SlideText(slide types.Slide, n int) (body, notes string) {
	return slideText(logging.Discard(), slide, n)
}

func slideText(log logrus.FieldLogger, slide types.Slide, n int) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\nSlide %d\n%s\n\n", banner, n, banner)
	for _, shape := range slide.Shapes {
		text := strings.TrimSpace(shapeText(log, shape))
		if text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	return b.String(), notesText(log, slide, n)
}

func notesText(log logrus.FieldLogger, slide types.Slide, n int) (notes string) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("slide", n).Debugf("error extracting notes: %v", r)
			notes = ""
		}
	}()

	if slide.Notes == nil {
		return ""
	}
	text := strings.TrimSpace(*slide.Notes)
	if text == "" {
		return ""
	}
	return fmt.Sprintf("\nNotes for Slide %d:\n%s\n", n, text)
}
