// Package xmltree materializes an XML document into a navigable element tree
// with namespace-qualified names, attributes and source line numbers. The
// Atom and RSS parsers walk these trees instead of consuming a token stream.
package xmltree

import (
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// Name is a namespace-qualified element or attribute name. Space holds the
// namespace URI and is empty for unqualified names.
type Name struct {
	Space string
	Local string
}

type Attr struct {
	Name  Name
	Value string
}

// Element is a single node of the parsed document.
type Element struct {
	Name     Name
	Attrs    []Attr
	Text     string // character data up to the first child element
	Children []*Element
	Line     int // source line of the start tag, 0 when unknown
}

// Tree is a parsed document. Source names where the document came from (URL
// or file path) and may be empty; it is carried into errors and log events.
type Tree struct {
	Source string
	Root   *Element
}

// Parse reads an XML document from r into a Tree. The decoder is tolerant of
// real-world feeds: non-strict parsing, HTML entities and charset conversion
// based on the declared document encoding.
func Parse(r io.Reader, source string) (*Tree, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", source, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			line, _ := dec.InputPos()
			el := &Element{
				Name: Name{Space: t.Name.Space, Local: t.Name.Local},
				Line: line,
			}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{
					Name:  Name{Space: a.Name.Space, Local: a.Name.Local},
					Value: a.Value,
				})
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				el := stack[len(stack)-1]
				if len(el.Children) == 0 {
					el.Text += string(t)
				}
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("failed to parse %s: document has no root element", source)
	}

	return &Tree{Source: source, Root: root}, nil
}

// Find returns the first direct child with the given name, or nil.
func (e *Element) Find(name Name) *Element {
	for _, child := range e.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// FindAll returns all direct children with the given name in document order.
func (e *Element) FindAll(name Name) []*Element {
	var found []*Element
	for _, child := range e.Children {
		if child.Name == name {
			found = append(found, child)
		}
	}
	return found
}

// Attr returns the value of the named unqualified attribute.
func (e *Element) Attr(local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Namespaces returns the prefix to namespace URI declarations made on the
// element itself. The default namespace is keyed by the empty prefix.
func (e *Element) Namespaces() map[string]string {
	ns := make(map[string]string)
	for _, a := range e.Attrs {
		switch {
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			ns[""] = a.Value
		case a.Name.Space == "xmlns":
			ns[a.Name.Local] = a.Value
		}
	}
	return ns
}
