// Package rss implements an RSS 2.0 parser, based on version 2.0.11 of the
// RSS 2.0 specification (http://www.rssboard.org/rss-2-0-11), which also
// accepts the 0.92 and 0.91 revisions. The channel's title, link and
// description are mandatory; items degrade gracefully, with malformed ones
// dropped and reported through the injected logger.
package rss

import (
	"html"
	"io"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/lysyi3m/atomrss/xmltree"
)

var supportedVersions = map[string]bool{
	"2.0":  true,
	"0.92": true,
	"0.91": true,
}

// Parse reads an RSS document from r. The source name is carried into
// errors and log events. A nil logger discards recovered-condition events.
func Parse(r io.Reader, source string, logger *slog.Logger) (*RSS, error) {
	tree, err := xmltree.Parse(r, source)
	if err != nil {
		return nil, err
	}
	return ParseTree(tree, logger)
}

// ParseTree parses an already materialized element tree.
func ParseTree(tree *xmltree.Tree, logger *slog.Logger) (*RSS, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p := &parser{
		tree:   tree,
		logger: logger.With("source", tree.Source),
	}
	return p.parseRSS()
}

type parser struct {
	tree   *xmltree.Tree
	logger *slog.Logger
}

func (p *parser) parseRSS() (*RSS, error) {
	root := p.tree.Root
	if (root.Name != xmltree.Name{Local: "rss"}) {
		return nil, &ParseError{Kind: ErrInvalidRoot, Element: formatTag(root.Name), Line: root.Line}
	}

	version, ok := root.Attr("version")
	if !ok {
		return nil, &ParseError{Kind: ErrMissingAttribute, Attribute: "version", Line: root.Line}
	}
	if !supportedVersions[version] {
		return nil, &ParseError{Kind: ErrVersionUnsupported, Version: version, Line: root.Line}
	}
	p.logger = p.logger.With("rss_version", version)

	channel, err := p.parseChannel()
	if err != nil {
		return nil, err
	}
	return &RSS{Version: version, Channel: channel}, nil
}

func (p *parser) parseChannel() (*Channel, error) {
	el := p.tree.Root.Find(xmltree.Name{Local: "channel"})
	if el == nil {
		return nil, &ParseError{Kind: ErrMissingElement, Element: "<channel>", Line: p.tree.Root.Line}
	}

	title, err := p.elementText(el, "title")
	if err != nil {
		return nil, err
	}
	link, err := p.elementText(el, "link")
	if err != nil {
		return nil, err
	}
	description, err := p.elementText(el, "description")
	if err != nil {
		return nil, err
	}

	elements := el.FindAll(xmltree.Name{Local: "item"})
	items := make([]*Item, 0, len(elements))
	for _, child := range elements {
		if item := p.parseItem(child); item != nil {
			items = append(items, item)
		}
	}

	return &Channel{
		Title:         title,
		Link:          link,
		Description:   description,
		LastBuildDate: p.parseLastBuildDate(el),
		Items:         items,
	}, nil
}

func (p *parser) parseLastBuildDate(el *xmltree.Element) *time.Time {
	child := el.Find(xmltree.Name{Local: "lastBuildDate"})
	if child == nil {
		return nil
	}
	t, err := dateparse.ParseAny(strings.TrimSpace(child.Text))
	if err != nil {
		p.logger.Error("invalid-last-build-date",
			"date", child.Text,
			"lineno", child.Line)
		return nil
	}
	return &t
}

// parseItem returns nil for items carrying neither a title nor a
// description; everything else about an item is optional.
func (p *parser) parseItem(el *xmltree.Element) *Item {
	title := optionalText(el, "title")
	link := optionalText(el, "link")
	description := optionalText(el, "description")
	if description != nil {
		unescaped := html.UnescapeString(*description)
		description = &unescaped
	}

	if title == nil && description == nil {
		p.logger.Error("invalid-item",
			"cause", "missing-element",
			"element", "<title> or <description>",
			"lineno", el.Line)
		return nil
	}

	return &Item{
		Title:       title,
		Link:        link,
		Description: description,
		Author:      p.parseItemAuthor(el),
		PubDate:     p.parseItemPubDate(el),
		Enclosure:   p.parseItemEnclosure(el),
	}
}

func (p *parser) parseItemAuthor(el *xmltree.Element) *Person {
	child := el.Find(xmltree.Name{Local: "author"})
	if child == nil {
		return nil
	}
	text := strings.TrimSpace(child.Text)
	addr, err := mail.ParseAddress(text)
	if err != nil {
		// Not a well-formed mailbox; keep the raw text as the address,
		// the way a lenient address split degrades.
		return &Person{Email: text}
	}
	return &Person{Name: addr.Name, Email: addr.Address}
}

func (p *parser) parseItemPubDate(el *xmltree.Element) *time.Time {
	child := el.Find(xmltree.Name{Local: "pubDate"})
	if child == nil {
		return nil
	}
	t, err := dateparse.ParseAny(strings.TrimSpace(child.Text))
	if err != nil {
		p.logger.Error("invalid-pub-date",
			"date", child.Text,
			"lineno", child.Line)
		return nil
	}
	return &t
}

// parseItemEnclosure requires all of url, length and type; a missing
// attribute or a length that is not a non-negative integer drops the
// enclosure but never the item.
func (p *parser) parseItemEnclosure(el *xmltree.Element) *Enclosure {
	child := el.Find(xmltree.Name{Local: "enclosure"})
	if child == nil {
		return nil
	}

	var values [3]string
	for i, name := range [3]string{"url", "length", "type"} {
		value, ok := child.Attr(name)
		if !ok {
			p.logger.Error("invalid-enclosure",
				"cause", "missing-attribute",
				"attribute", name,
				"lineno", child.Line)
			return nil
		}
		values[i] = value
	}
	url, rawLength, mimeType := values[0], values[1], values[2]

	length, err := strconv.ParseInt(rawLength, 10, 64)
	if err != nil || length < 0 {
		p.logger.Error("invalid-enclosure",
			"cause", "invalid-length",
			"length", rawLength,
			"lineno", child.Line)
		return nil
	}

	return &Enclosure{URL: url, Length: length, Type: mimeType}
}

func (p *parser) elementText(el *xmltree.Element, name string) (string, error) {
	child := el.Find(xmltree.Name{Local: name})
	if child == nil {
		return "", &ParseError{
			Kind:    ErrMissingElement,
			Element: "<" + name + ">",
			Line:    el.Line,
		}
	}
	return child.Text, nil
}

func optionalText(el *xmltree.Element, name string) *string {
	child := el.Find(xmltree.Name{Local: name})
	if child == nil {
		return nil
	}
	text := child.Text
	return &text
}

func formatTag(name xmltree.Name) string {
	if name.Space == "" {
		return "<" + name.Local + ">"
	}
	return "<{" + name.Space + "}" + name.Local + ">"
}
