package feed

import (
	"github.com/lysyi3m/atomrss/rss"
)

// RSSFeed adapts a parsed RSS document to the unified Feed interface. The
// channel link is exposed as a single synthesized alternate link.
type RSSFeed struct {
	RSS *rss.RSS
}

func (f *RSSFeed) Title() Text {
	return Text{Format: "text", Value: f.RSS.Channel.Title}
}

func (f *RSSFeed) Links() []Link {
	return []Link{{
		Href:   f.RSS.Channel.Link,
		Rel:    "alternate",
		Type:   "text/html",
		Length: -1,
	}}
}

func (f *RSSFeed) Website() *Link {
	return alternateLink(f.Links())
}

func (f *RSSFeed) Entries() []Entry {
	entries := make([]Entry, 0, len(f.RSS.Channel.Items))
	for _, item := range f.RSS.Channel.Items {
		entries = append(entries, &RSSEntry{Item: item})
	}
	return entries
}

// RSSEntry adapts a parsed RSS item to the unified Entry interface.
type RSSEntry struct {
	Item *rss.Item
}

func (e *RSSEntry) Title() *Text {
	if e.Item.Title == nil {
		return nil
	}
	return &Text{Format: "text", Value: *e.Item.Title}
}

// Links lists the item link first, as an alternate link, followed by the
// enclosure when the item has one.
func (e *RSSEntry) Links() []Link {
	var links []Link
	if e.Item.Link != nil {
		links = append(links, Link{
			Href:   *e.Item.Link,
			Rel:    "alternate",
			Type:   "text/html",
			Length: -1,
		})
	}
	if enc := e.Item.Enclosure; enc != nil {
		links = append(links, Link{
			Href:   enc.URL,
			Rel:    "enclosure",
			Type:   enc.Type,
			Length: enc.Length,
		})
	}
	return links
}

func (e *RSSEntry) Website() *Link {
	return alternateLink(e.Links())
}

// Content is always html-formatted, holding the item description. Unlike
// Atom entries it is never nil; an item without a description yields content
// with an empty value, matching RSS's description-centric semantics.
func (e *RSSEntry) Content() *Content {
	content := &Content{Format: "html"}
	if e.Item.Description != nil {
		content.Value = *e.Item.Description
	}
	return content
}
