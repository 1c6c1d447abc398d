// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ShapeKind discriminates the Shape variants. The declaration order is the
// dispatch priority used by text extraction: plain text wins over table,
// table over chart.
type ShapeKind int

const (
	ShapeOther ShapeKind = iota
	ShapePlainText
	ShapeTable
	ShapeChart
)

// String returns a lowercase name for the kind, used in log fields.
func (k ShapeKind) String() string {
	switch k {
	case ShapePlainText:
		return "text"
	case ShapeTable:
		return "table"
	case ShapeChart:
		return "chart"
	default:
		return "other"
	}
}

// Shape is one element of a slide's shape tree. Only the fields that belong
// to Kind are meaningful.
type Shape struct {
	Kind ShapeKind

	// Text is the text body of a PlainText shape, paragraphs joined by "\n".
	Text string

	// Rows holds the cell text of a Table shape, row-major.
	Rows [][]string

	// ChartTitle is the title of a Chart shape; nil when the chart has none.
	ChartTitle *string
}

// TextShape returns a PlainText shape.
func TextShape(text string) Shape {
	return Shape{Kind: ShapePlainText, Text: text}
}

// TableShape returns a Table shape over the given rows.
func TableShape(rows [][]string) Shape {
	return Shape{Kind: ShapeTable, Rows: rows}
}

// ChartShape returns a Chart shape. A nil title means "untitled".
func ChartShape(title *string) Shape {
	return Shape{Kind: ShapeChart, ChartTitle: title}
}

// Slide is a read-only view of one slide.
type Slide struct {
	// Number is the 1-based position of the slide in presentation order.
	Number int

	// Shapes lists the slide's shapes in z-order.
	Shapes []Shape

	// Notes is the speaker-notes text; nil when the slide has no notes
	// stream or the notes are blank.
	Notes *string
}

// Presentation is a read-only view over one container file.
type Presentation struct {
	// Stem is the file name without extension; it is the chapter key.
	Stem string

	// Slides lists the slides in presentation order.
	Slides []Slide
}

// HasNotes reports whether any slide carries speaker notes.
func (p *Presentation) HasNotes() bool {
	for _, s := range p.Slides {
		if s.Notes != nil {
			return true
		}
	}
	return false
}

// ExtractedDocument holds the two text renderings of one presentation.
type ExtractedDocument struct {
	Stem string

	// Default is the body-only rendering.
	Default string

	// Noted is the body rendering followed by the notes appendix; nil when
	// no slide has notes.
	Noted *string

	// Slides is the number of slides rendered.
	Slides int
}
