// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pptxtest writes minimal but well-formed .pptx containers for
// tests. Write renders a list of slides through the same shape variants the
// reader produces, so a fixture and its expected view share one literal.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/pdiddy/slidenotes/pkg/types"
)

const (
	nsDecl = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" ` +
		`xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart"`

	relBase = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"

	header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// Write creates a .pptx at path holding slides in order. Slide numbers in
// the input are ignored. A non-nil Notes pointer produces a notes slide
// even when the text is blank.
func Write(t testing.TB, path string, slides []types.Slide) {
	t.Helper()
	WriteParts(t, path, Parts(slides))
}

// Parts renders slides into archive parts keyed by name.
func Parts(slides []types.Slide) map[string]string {
	parts := map[string]string{
		"[Content_Types].xml": header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/></Types>`,
	}

	var ids, presRels strings.Builder
	chartN := 0
	for i, s := range slides {
		n := i + 1
		fmt.Fprintf(&ids, `<p:sldId id="%d" r:id="rId%d"/>`, 255+n, n)
		fmt.Fprintf(&presRels, `<Relationship Id="rId%d" Type="%sslide" Target="slides/slide%d.xml"/>`, n, relBase, n)

		var shapes, slideRels strings.Builder
		for j, sh := range s.Shapes {
			id := j + 2
			switch sh.Kind {
			case types.ShapePlainText:
				fmt.Fprintf(&shapes, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/>%s</p:sp>`,
					id, id, txBody("p", sh.Text))
			case types.ShapeTable:
				fmt.Fprintf(&shapes, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Table %d"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`+
					`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl>%s</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`,
					id, id, tableXML(sh.Rows))
			case types.ShapeChart:
				chartN++
				rid := fmt.Sprintf("rIdC%d", chartN)
				fmt.Fprintf(&shapes, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Chart %d"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`+
					`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/chart"><c:chart r:id="%s"/></a:graphicData></a:graphic></p:graphicFrame>`,
					id, id, rid)
				fmt.Fprintf(&slideRels, `<Relationship Id="%s" Type="%schart" Target="../charts/chart%d.xml"/>`, rid, relBase, chartN)
				parts[fmt.Sprintf("ppt/charts/chart%d.xml", chartN)] = chartXML(sh.ChartTitle)
			default:
				fmt.Fprintf(&shapes, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr><p:spPr/></p:pic>`, id, id)
			}
		}

		if s.Notes != nil {
			fmt.Fprintf(&slideRels, `<Relationship Id="rIdN" Type="%snotesSlide" Target="../notesSlides/notesSlide%d.xml"/>`, relBase, n)
			parts[fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n)] = notesXML(*s.Notes)
		}

		parts[fmt.Sprintf("ppt/slides/slide%d.xml", n)] = header + `<p:sld ` + nsDecl + `><p:cSld><p:spTree>` +
			`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
			shapes.String() + `</p:spTree></p:cSld></p:sld>`
		if slideRels.Len() > 0 {
			parts[fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n)] = relsXML(slideRels.String())
		}
	}

	parts["ppt/presentation.xml"] = header + `<p:presentation ` + nsDecl + `><p:sldIdLst>` + ids.String() + `</p:sldIdLst></p:presentation>`
	parts["ppt/_rels/presentation.xml.rels"] = relsXML(presRels.String())
	return parts
}

// WriteParts zips the given parts into a file at path, in name order.
func WriteParts(t testing.TB, path string, parts map[string]string) {
	t.Helper()

	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating part %s: %v", name, err)
		}
		if _, err := w.Write([]byte(parts[name])); err != nil {
			t.Fatalf("writing part %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// Str returns a pointer to s, for Notes and chart titles in fixtures.
func Str(s string) *string { return &s }

func relsXML(body string) string {
	return header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + body + `</Relationships>`
}

// txBody renders text as one paragraph per line under the given namespace
// prefix.
func txBody(prefix, text string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<%s:txBody><a:bodyPr/><a:lstStyle/>`, prefix)
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(paragraph(line))
	}
	fmt.Fprintf(&b, `</%s:txBody>`, prefix)
	return b.String()
}

func paragraph(line string) string {
	if line == "" {
		return `<a:p/>`
	}
	return `<a:p><a:r><a:rPr lang="en-US"/><a:t>` + escape(line) + `</a:t></a:r></a:p>`
}

func tableXML(rows [][]string) string {
	var b strings.Builder
	b.WriteString(`<a:tblPr/><a:tblGrid/>`)
	for _, row := range rows {
		b.WriteString(`<a:tr h="370840">`)
		for _, cell := range row {
			b.WriteString(`<a:tc>` + txBody("a", cell) + `<a:tcPr/></a:tc>`)
		}
		b.WriteString(`</a:tr>`)
	}
	return b.String()
}

func chartXML(title *string) string {
	var b strings.Builder
	b.WriteString(header + `<c:chartSpace ` + nsDecl + `><c:chart>`)
	if title != nil {
		b.WriteString(`<c:title><c:tx><c:rich><a:bodyPr/>` + paragraph(*title) + `</c:rich></c:tx><c:overlay val="0"/></c:title>`)
		b.WriteString(`<c:autoTitleDeleted val="0"/>`)
	} else {
		b.WriteString(`<c:autoTitleDeleted val="1"/>`)
	}
	b.WriteString(`<c:plotArea><c:layout/></c:plotArea></c:chart></c:chartSpace>`)
	return b.String()
}

func notesXML(text string) string {
	return header + `<p:notes ` + nsDecl + `><p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Slide Image Placeholder 1"/><p:cNvSpPr/><p:nvPr><p:ph type="sldImg"/></p:nvPr></p:nvSpPr><p:spPr/></p:sp>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Notes Placeholder 2"/><p:cNvSpPr/><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		txBody("p", text) + `</p:sp></p:spTree></p:cSld></p:notes>`
}

func escape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
