// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pptx reads the Office Open XML container (.pptx) into the
// read-only presentation view used by text extraction. It resolves slide
// order from the presentation part, classifies each shape in a slide's
// shape tree, resolves chart titles from chart parts and reads speaker
// notes from the notes slide's body placeholder.
package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/slidenotes/internal/logging"
	"github.com/pdiddy/slidenotes/pkg/types"
)

// Relationship type suffixes used when walking part relationships.
const (
	relSlide      = "/slide"
	relNotesSlide = "/notesSlide"

	presentationPart = "ppt/presentation.xml"

	graphicTable = "http://schemas.openxmlformats.org/drawingml/2006/table"
	graphicChart = "http://schemas.openxmlformats.org/drawingml/2006/chart"
)

// Reader opens presentation containers. The zero value is usable and logs
// nothing.
type Reader struct {
	Log logrus.FieldLogger
}

// Open reads the container at path with a silent Reader.
func Open(path string) (*types.Presentation, error) {
	return (&Reader{}).Open(path)
}

// Open reads the container at p. Damage to the archive or the presentation
// part is an error; damage confined to one slide's notes or one chart part
// is logged at debug level and treated as absent.
func (r *Reader) Open(p string) (*types.Presentation, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", p, err)
	}
	defer zr.Close()

	pkg := &container{files: make(map[string]*zip.File, len(zr.File)), log: r.logger()}
	for _, f := range zr.File {
		pkg.files[f.Name] = f
	}

	slideParts, err := pkg.slideOrder()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}

	pres := &types.Presentation{Stem: stem(p)}
	for i, part := range slideParts {
		slide, err := pkg.readSlide(part)
		if err != nil {
			return nil, fmt.Errorf("reading %s in %s: %w", part, p, err)
		}
		slide.Number = i + 1
		pres.Slides = append(pres.Slides, slide)
	}
	return pres, nil
}

func (r *Reader) logger() logrus.FieldLogger {
	if r.Log != nil {
		return r.Log
	}
	return logging.Discard()
}

// stem returns the file name without its extension.
func stem(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// container indexes the parts of one open archive.
type container struct {
	files map[string]*zip.File
	log   logrus.FieldLogger
}

// tree parses the named part.
func (c *container) tree(part string) (*node, error) {
	f, ok := c.files[part]
	if !ok {
		return nil, fmt.Errorf("part %s not found", part)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening part %s: %w", part, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading part %s: %w", part, err)
	}
	root, err := parseTree(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing part %s: %w", part, err)
	}
	return root, nil
}

type relationship struct {
	typ    string
	target string
}

// rels returns the relationships of part keyed by id, with targets
// resolved to archive paths. A part without a relationships part has none.
func (c *container) rels(part string) (map[string]relationship, error) {
	relsPart := path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
	out := make(map[string]relationship)
	if _, ok := c.files[relsPart]; !ok {
		return out, nil
	}
	root, err := c.tree(relsPart)
	if err != nil {
		return nil, err
	}
	for _, rel := range root.children {
		if rel.local != "Relationship" || rel.attr("TargetMode") == "External" {
			continue
		}
		out[rel.attr("Id")] = relationship{
			typ:    rel.attr("Type"),
			target: resolveTarget(part, rel.attr("Target")),
		}
	}
	return out, nil
}

// resolveTarget turns a relationship target into an archive path relative
// to the source part's directory.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(path.Dir(source), target))
}

// slideOrder lists slide parts in presentation order. When the presentation
// part carries no slide list, slide parts are ordered by their number.
func (c *container) slideOrder() ([]string, error) {
	root, err := c.tree(presentationPart)
	if err != nil {
		return nil, err
	}
	rels, err := c.rels(presentationPart)
	if err != nil {
		return nil, err
	}

	var parts []string
	if list := root.child("sldIdLst"); list != nil {
		for _, id := range list.children {
			if id.local != "sldId" {
				continue
			}
			rel, ok := rels[id.relID()]
			if !ok || !strings.HasSuffix(rel.typ, relSlide) {
				return nil, fmt.Errorf("slide id %s has no slide relationship", id.attr("id"))
			}
			parts = append(parts, rel.target)
		}
		return parts, nil
	}

	for name := range c.files {
		if slideNumber(name) > 0 {
			parts = append(parts, name)
		}
	}
	sort.Slice(parts, func(i, j int) bool {
		return slideNumber(parts[i]) < slideNumber(parts[j])
	})
	return parts, nil
}

// slideNumber returns n for "ppt/slides/slide<n>.xml" and 0 otherwise.
func slideNumber(name string) int {
	if path.Dir(name) != "ppt/slides" {
		return 0
	}
	base := path.Base(name)
	if !strings.HasPrefix(base, "slide") || !strings.HasSuffix(base, ".xml") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(base, "slide"), ".xml"))
	if err != nil {
		return 0
	}
	return n
}

// readSlide classifies the shapes of one slide part and attaches its notes.
func (c *container) readSlide(part string) (types.Slide, error) {
	var slide types.Slide

	root, err := c.tree(part)
	if err != nil {
		return slide, err
	}
	rels, err := c.rels(part)
	if err != nil {
		return slide, err
	}

	if tree := root.path("cSld", "spTree"); tree != nil {
		slide.Shapes = c.shapes(tree, rels)
	}
	slide.Notes = c.notes(part, rels)
	return slide, nil
}

// shapes classifies the children of a shape tree in z-order. Group shapes
// are flattened into their members.
func (c *container) shapes(tree *node, rels map[string]relationship) []types.Shape {
	var out []types.Shape
	for _, el := range tree.children {
		switch el.local {
		case "sp":
			if body := el.child("txBody"); body != nil {
				out = append(out, types.TextShape(bodyText(body)))
			} else {
				out = append(out, types.Shape{Kind: types.ShapeOther})
			}
		case "grpSp":
			out = append(out, c.shapes(el, rels)...)
		case "graphicFrame":
			out = append(out, c.graphicFrame(el, rels))
		case "pic", "cxnSp", "contentPart":
			out = append(out, types.Shape{Kind: types.ShapeOther})
		}
	}
	return out
}

// graphicFrame classifies a graphic frame by its graphic data URI.
func (c *container) graphicFrame(el *node, rels map[string]relationship) types.Shape {
	data := el.path("graphic", "graphicData")
	if data == nil {
		return types.Shape{Kind: types.ShapeOther}
	}

	switch data.attr("uri") {
	case graphicTable:
		tbl := data.child("tbl")
		if tbl == nil {
			return types.Shape{Kind: types.ShapeOther}
		}
		return types.TableShape(tableRows(tbl))
	case graphicChart:
		ref := data.child("chart")
		if ref == nil {
			return types.ChartShape(nil)
		}
		rel, ok := rels[ref.relID()]
		if !ok {
			c.log.WithField("rel", ref.relID()).Debug("chart relationship missing")
			return types.ChartShape(nil)
		}
		return types.ChartShape(c.chartTitle(rel.target))
	default:
		return types.Shape{Kind: types.ShapeOther}
	}
}

// tableRows collects cell text row by row. Each cell's paragraphs are
// joined by newlines.
func tableRows(tbl *node) [][]string {
	var rows [][]string
	for _, tr := range tbl.children {
		if tr.local != "tr" {
			continue
		}
		var cells []string
		for _, tc := range tr.children {
			if tc.local != "tc" {
				continue
			}
			text := ""
			if body := tc.child("txBody"); body != nil {
				text = bodyText(body)
			}
			cells = append(cells, text)
		}
		rows = append(rows, cells)
	}
	return rows
}

// chartTitle reads the rich-text title of a chart part. It returns nil when
// the title is deleted, has no explicit text, or the part cannot be read.
func (c *container) chartTitle(part string) *string {
	root, err := c.tree(part)
	if err != nil {
		c.log.WithError(err).WithField("part", part).Debug("chart part unreadable")
		return nil
	}
	if del := root.path("chart", "autoTitleDeleted"); del != nil {
		if v := del.attr("val"); v == "1" || v == "true" {
			return nil
		}
	}
	rich := root.path("chart", "title", "tx", "rich")
	if rich == nil {
		return nil
	}
	title := strings.TrimSpace(bodyText(rich))
	if title == "" {
		return nil
	}
	return &title
}

// notes returns the trimmed text of the notes slide's body placeholder, or
// nil when the slide has no notes part or the notes are blank.
func (c *container) notes(slidePart string, rels map[string]relationship) *string {
	var notesPart string
	for _, rel := range rels {
		if strings.HasSuffix(rel.typ, relNotesSlide) {
			notesPart = rel.target
			break
		}
	}
	if notesPart == "" {
		return nil
	}

	root, err := c.tree(notesPart)
	if err != nil {
		c.log.WithError(err).WithField("slide", slidePart).Debug("notes unreadable")
		return nil
	}
	tree := root.path("cSld", "spTree")
	if tree == nil {
		return nil
	}

	for _, sp := range tree.children {
		if sp.local != "sp" {
			continue
		}
		ph := sp.path("nvSpPr", "nvPr", "ph")
		if ph == nil || ph.attr("type") != "body" {
			continue
		}
		body := sp.child("txBody")
		if body == nil {
			return nil
		}
		text := strings.TrimSpace(bodyText(body))
		if text == "" {
			return nil
		}
		return &text
	}
	return nil
}
