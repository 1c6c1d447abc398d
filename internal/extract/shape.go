// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/slidenotes/internal/logging"
	"github.com/pdiddy/slidenotes/pkg/types"
)

const untitledChart = "Untitled"

// ShapeText returns the raw text of one shape. Callers trim the result
// before inclusion. It never fails: a panic while reading the shape is
// logged at debug level and yields "".
func ShapeText(shape types.Shape) string {
	return shapeText(logging.Discard(), shape)
}

func shapeText(log logrus.FieldLogger, shape types.Shape) (text string) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("kind", shape.Kind).Debugf("error extracting shape text: %v", r)
			text = ""
		}
	}()

	switch shape.Kind {
	case types.ShapePlainText:
		return shape.Text
	case types.ShapeTable:
		return tableText(shape.Rows)
	case types.ShapeChart:
		title := untitledChart
		if shape.ChartTitle != nil {
			title = *shape.ChartTitle
		}
		return fmt.Sprintf("[Chart: %s]\n", title)
	default:
		return ""
	}
}

// tableText renders rows as "c1 | c2 | c3" lines, each cell trimmed, each
// line newline-terminated.
func tableText(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString("\n")
	}
	return b.String()
}
