// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// node is a minimal element tree. Shape trees mix element types whose
// relative order matters, which struct unmarshalling would lose.
type node struct {
	local    string
	attrs    []xml.Attr
	children []*node
	text     strings.Builder
}

// parseTree decodes one XML part into a node tree and returns the root
// element.
func parseTree(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var root *node
	var stack []*node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			n := &node{local: el.Name.Local, attrs: el.Attr}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(el)
			}
		}
	}
	if root == nil {
		return nil, io.ErrUnexpectedEOF
	}
	return root, nil
}

// attr returns the value of the unprefixed attribute with the given name.
func (n *node) attr(local string) string {
	for _, a := range n.attrs {
		if a.Name.Local == local && a.Name.Space == "" {
			return a.Value
		}
	}
	return ""
}

// relsNS is the namespace of relationship references (r:id, r:embed).
const relsNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

// relID returns the r:id attribute. Elements such as p:sldId also carry an
// unprefixed id, so the namespace decides.
func (n *node) relID() string {
	for _, a := range n.attrs {
		if a.Name.Local == "id" && (a.Name.Space == relsNS || a.Name.Space == "r") {
			return a.Value
		}
	}
	return ""
}

// child returns the first direct child with the given local name.
func (n *node) child(local string) *node {
	for _, c := range n.children {
		if c.local == local {
			return c
		}
	}
	return nil
}

// find returns the first descendant (depth-first, document order) with the
// given local name.
func (n *node) find(local string) *node {
	for _, c := range n.children {
		if c.local == local {
			return c
		}
		if found := c.find(local); found != nil {
			return found
		}
	}
	return nil
}

// path follows a chain of direct children.
func (n *node) path(locals ...string) *node {
	cur := n
	for _, l := range locals {
		if cur == nil {
			return nil
		}
		cur = cur.child(l)
	}
	return cur
}

// paragraphText renders one a:p element: runs and fields concatenated,
// line breaks as newlines.
func paragraphText(p *node) string {
	var b strings.Builder
	for _, c := range p.children {
		switch c.local {
		case "r", "fld":
			if t := c.child("t"); t != nil {
				b.WriteString(t.text.String())
			}
		case "br":
			b.WriteString("\n")
		}
	}
	return b.String()
}

// bodyText renders a text body (p:txBody, a:txBody or c:rich): paragraphs
// joined by newlines.
func bodyText(body *node) string {
	var paras []string
	for _, c := range body.children {
		if c.local == "p" {
			paras = append(paras, paragraphText(c))
		}
	}
	return strings.Join(paras, "\n")
}
