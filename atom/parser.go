// Package atom implements an Atom feed parser producing the typed model in
// types.go. Mandatory feed-level fields fail the whole parse; malformed
// entries, links and persons are dropped and reported through the injected
// logger so a single broken entry never takes down the feed.
package atom

import (
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/lysyi3m/atomrss/xmltree"
)

// Parse reads an Atom document from r. The source name is carried into
// errors and log events. A nil logger discards recovered-condition events.
func Parse(r io.Reader, source string, logger *slog.Logger) (*Feed, error) {
	tree, err := xmltree.Parse(r, source)
	if err != nil {
		return nil, err
	}
	return ParseTree(tree, logger)
}

// ParseTree parses an already materialized element tree.
func ParseTree(tree *xmltree.Tree, logger *slog.Logger) (*Feed, error) {
	return newParser(tree, logger).parseFeed()
}

type parser struct {
	tree      *xmltree.Tree
	logger    *slog.Logger
	namespace string
}

func newParser(tree *xmltree.Tree, logger *slog.Logger) *parser {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p := &parser{
		tree:      tree,
		logger:    logger.With("source", tree.Source),
		namespace: Namespace,
	}

	// Adopt the namespace URI in the casing the document declares it, so
	// lookups keep working for producers that mis-case it.
	for _, uri := range tree.Root.Namespaces() {
		if strings.EqualFold(uri, Namespace) {
			p.namespace = uri
			break
		}
	}

	return p
}

func (p *parser) name(local string) xmltree.Name {
	return xmltree.Name{Space: p.namespace, Local: local}
}

func (p *parser) parseFeed() (*Feed, error) {
	root := p.tree.Root
	if root.Name != p.name("feed") {
		return nil, &ParseError{Kind: ErrInvalidRoot, Element: formatTag(root.Name), Line: root.Line}
	}

	id, err := p.parseID(root)
	if err != nil {
		return nil, err
	}
	title, err := p.parseTitle(root)
	if err != nil {
		return nil, err
	}
	updated, err := p.parseUpdated(root)
	if err != nil {
		return nil, err
	}
	subtitle, err := p.parseSubtitle(root)
	if err != nil {
		return nil, err
	}

	return &Feed{
		ID:           id,
		Title:        title,
		Updated:      updated,
		Entries:      p.parseEntries(root),
		Authors:      p.parsePersons(root, "author"),
		Contributors: p.parsePersons(root, "contributor"),
		Subtitle:     subtitle,
		Links:        p.parseLinks(root),
	}, nil
}

func (p *parser) parseEntries(root *xmltree.Element) []*Entry {
	elements := root.FindAll(p.name("entry"))
	entries := make([]*Entry, 0, len(elements))
	for _, el := range elements {
		if entry := p.parseEntry(el); entry != nil {
			entries = append(entries, entry)
		}
	}
	return entries
}

// parseEntry returns nil for entries whose mandatory fields are missing or
// malformed; the failure is logged as invalid-entry with the underlying
// event as its cause.
func (p *parser) parseEntry(el *xmltree.Element) *Entry {
	id, err := p.parseID(el)
	var title Text
	if err == nil {
		title, err = p.parseTitle(el)
	}
	var updated time.Time
	if err == nil {
		updated, err = p.parseUpdated(el)
	}
	if err != nil {
		p.logger.Error("invalid-entry", asParseError(err).causeAttrs()...)
		return nil
	}

	return &Entry{
		ID:           id,
		Title:        title,
		Updated:      updated,
		Authors:      p.parsePersons(el, "author"),
		Contributors: p.parsePersons(el, "contributor"),
		Published:    p.parsePublished(el),
		Summary:      p.parseSummary(el),
		Links:        p.parseLinks(el),
		Content:      p.parseContent(el),
	}
}

func (p *parser) parseID(el *xmltree.Element) (string, error) {
	return p.elementText(el, "id")
}

func (p *parser) parseTitle(el *xmltree.Element) (Text, error) {
	child := el.Find(p.name("title"))
	if child == nil {
		return Text{}, p.missingElement("title", el)
	}
	return p.parseTextConstruct(child)
}

func (p *parser) parseUpdated(el *xmltree.Element) (time.Time, error) {
	child := el.Find(p.name("updated"))
	if child == nil {
		return time.Time{}, p.missingElement("updated", el)
	}
	return p.parseDateConstruct(child)
}

func (p *parser) parseSubtitle(el *xmltree.Element) (*Text, error) {
	child := el.Find(p.name("subtitle"))
	if child == nil {
		return nil, nil
	}
	text, err := p.parseTextConstruct(child)
	if err != nil {
		return nil, err
	}
	return &text, nil
}

// parsePublished treats an unparseable date as absent, reporting it as
// invalid-published.
func (p *parser) parsePublished(el *xmltree.Element) *time.Time {
	child := el.Find(p.name("published"))
	if child == nil {
		return nil
	}
	t, err := p.parseDateConstruct(child)
	if err != nil {
		p.logger.Error("invalid-published", asParseError(err).causeAttrs()...)
		return nil
	}
	return &t
}

// parseSummary treats an unsupported xhtml summary as absent, reporting the
// failure under its own event.
func (p *parser) parseSummary(el *xmltree.Element) *Text {
	child := el.Find(p.name("summary"))
	if child == nil {
		return nil
	}
	text, err := p.parseTextConstruct(child)
	if err != nil {
		perr := asParseError(err)
		p.logger.Error(string(perr.Kind), perr.logAttrs()...)
		return nil
	}
	return &text
}

func (p *parser) parsePersons(el *xmltree.Element, local string) []Person {
	elements := el.FindAll(p.name(local))
	persons := make([]Person, 0, len(elements))
	for _, child := range elements {
		person, err := p.parsePersonConstruct(child)
		if err != nil {
			p.logger.Error("invalid-person", asParseError(err).causeAttrs()...)
			continue
		}
		persons = append(persons, person)
	}
	return persons
}

func (p *parser) parsePersonConstruct(el *xmltree.Element) (Person, error) {
	name, err := p.elementText(el, "name")
	if err != nil {
		return Person{}, err
	}

	person := Person{Name: name}
	if child := el.Find(p.name("uri")); child != nil {
		person.URI = child.Text
	}
	if child := el.Find(p.name("email")); child != nil {
		person.Email = child.Text
	}
	return person, nil
}

func (p *parser) parseLinks(el *xmltree.Element) []Link {
	elements := el.FindAll(p.name("link"))
	links := make([]Link, 0, len(elements))
	for _, child := range elements {
		href, ok := child.Attr("href")
		if !ok {
			p.logger.Error("invalid-link",
				"cause", "missing-attribute",
				"attribute", "href",
				"lineno", child.Line)
			continue
		}

		link := Link{Href: href, Rel: "alternate"}
		if rel, ok := child.Attr("rel"); ok {
			link.Rel = rel
		}
		link.Type, _ = child.Attr("type")
		link.Hreflang, _ = child.Attr("hreflang")
		link.Title, _ = child.Attr("title")
		link.Length, _ = child.Attr("length")
		links = append(links, link)
	}
	return links
}

func (p *parser) parseContent(el *xmltree.Element) *Content {
	child := el.Find(p.name("content"))
	if child == nil {
		return nil
	}

	src, _ := child.Attr("src")
	kind, ok := child.Attr("type")
	if !ok {
		kind = "text"
	}

	content := &Content{Type: kind, Src: src}
	switch kind {
	case "text", "html", "xhtml":
		text, err := p.parseTextConstruct(child)
		if err != nil {
			perr := asParseError(err)
			p.logger.Error(string(perr.Kind), perr.logAttrs()...)
			return nil
		}
		content.Value = text.Value
	}
	return content
}

func (p *parser) parseTextConstruct(el *xmltree.Element) (Text, error) {
	kind, ok := el.Attr("type")
	if !ok {
		kind = "text"
	}
	switch kind {
	case "xhtml":
		return Text{}, &ParseError{Kind: ErrNotImplemented, Feature: "xhtml text construct", Line: el.Line}
	case "html":
		return Text{Type: kind, Value: html.UnescapeString(el.Text)}, nil
	default:
		return Text{Type: kind, Value: el.Text}, nil
	}
}

func (p *parser) parseDateConstruct(el *xmltree.Element) (time.Time, error) {
	t, err := dateparse.ParseAny(strings.TrimSpace(el.Text))
	if err != nil {
		return time.Time{}, &ParseError{Kind: ErrInvalidDate, Date: el.Text, Line: el.Line}
	}
	return t, nil
}

// elementText returns the text content of the named child. The missing
// element error carries the parent's line, since the child has none to point
// at.
func (p *parser) elementText(el *xmltree.Element, local string) (string, error) {
	child := el.Find(p.name(local))
	if child == nil {
		return "", p.missingElement(local, el)
	}
	return child.Text, nil
}

func (p *parser) missingElement(local string, parent *xmltree.Element) *ParseError {
	return &ParseError{
		Kind:    ErrMissingElement,
		Element: fmt.Sprintf("<atom:%s>", local),
		Line:    parent.Line,
	}
}

func asParseError(err error) *ParseError {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr
	}
	return &ParseError{}
}

func formatTag(name xmltree.Name) string {
	if name.Space == "" {
		return fmt.Sprintf("<%s>", name.Local)
	}
	return fmt.Sprintf("<{%s}%s>", name.Space, name.Local)
}
