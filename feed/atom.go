package feed

import (
	"strconv"

	"github.com/lysyi3m/atomrss/atom"
)

// AtomFeed adapts a parsed Atom feed to the unified Feed interface. It wraps
// the parsed feed without copying it; views are computed on access.
type AtomFeed struct {
	Feed *atom.Feed
}

func (f *AtomFeed) Title() Text {
	return Text{Format: f.Feed.Title.Type, Value: f.Feed.Title.Value}
}

func (f *AtomFeed) Links() []Link {
	return atomLinks(f.Feed.Links)
}

func (f *AtomFeed) Website() *Link {
	return alternateLink(f.Links())
}

func (f *AtomFeed) Entries() []Entry {
	entries := make([]Entry, 0, len(f.Feed.Entries))
	for _, entry := range f.Feed.Entries {
		entries = append(entries, &AtomEntry{Entry: entry})
	}
	return entries
}

// AtomEntry adapts a parsed Atom entry to the unified Entry interface.
type AtomEntry struct {
	Entry *atom.Entry
}

func (e *AtomEntry) Title() *Text {
	return &Text{Format: e.Entry.Title.Type, Value: e.Entry.Title.Value}
}

func (e *AtomEntry) Links() []Link {
	return atomLinks(e.Entry.Links)
}

func (e *AtomEntry) Website() *Link {
	return alternateLink(e.Links())
}

// Content falls back to the entry summary when the entry carries no content
// element. Content is never synthesized from nothing: entries with neither
// yield nil.
func (e *AtomEntry) Content() *Content {
	if c := e.Entry.Content; c != nil {
		return &Content{Format: c.Type, Value: c.Value, Source: c.Src}
	}
	if s := e.Entry.Summary; s != nil {
		return &Content{Format: s.Type, Value: s.Value}
	}
	return nil
}

func atomLinks(links []atom.Link) []Link {
	unified := make([]Link, 0, len(links))
	for _, link := range links {
		unified = append(unified, Link{
			Href:     link.Href,
			Rel:      link.Rel,
			Type:     link.Type,
			Hreflang: link.Hreflang,
			Title:    link.Title,
			Length:   parseLinkLength(link.Length),
		})
	}
	return unified
}

// parseLinkLength converts the raw Atom length attribute; the attribute is
// advisory, so anything but a non-negative integer counts as unknown.
func parseLinkLength(raw string) int64 {
	if raw == "" {
		return -1
	}
	length, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || length < 0 {
		return -1
	}
	return length
}
