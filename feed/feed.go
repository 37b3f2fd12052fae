// Package feed abstracts over the atom and rss packages, providing a common
// read-only interface for parsing and extracting information from any kind
// of feed.
package feed

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lysyi3m/atomrss/atom"
	"github.com/lysyi3m/atomrss/rss"
	"github.com/lysyi3m/atomrss/xmltree"
)

// Feed is the unified read-only view over a parsed Atom feed or RSS channel.
type Feed interface {
	Title() Text
	Links() []Link

	// Website returns the link to the human-readable website this feed
	// corresponds to, or nil if the feed carries none.
	Website() *Link

	Entries() []Entry
}

// Entry is the unified read-only view over an Atom entry or RSS item.
type Entry interface {
	// Title returns the entry title, or nil for RSS items that carry only
	// a description.
	Title() *Text

	Links() []Link

	// Website returns the link to the website corresponding to this entry,
	// or nil.
	Website() *Link

	// Content returns the entry content: the full content, a reference to
	// it, or merely a summary. Nil for Atom entries with neither content
	// nor summary.
	Content() *Content
}

// NotAFeedError means the document is neither an Atom feed nor an RSS
// channel.
type NotAFeedError struct {
	Source string
}

func (e *NotAFeedError) Error() string {
	return fmt.Sprintf("not a feed: %s", e.Source)
}

// Parse reads a feed document of either format from r.
func Parse(r io.Reader, source string, logger *slog.Logger) (Feed, error) {
	tree, err := xmltree.Parse(r, source)
	if err != nil {
		return nil, err
	}
	return ParseTree(tree, logger)
}

// ParseTree dispatches an element tree to the Atom parser first, falling
// back to RSS when the root element is not a <feed>. Failures other than an
// unrecognized root propagate unmodified: a malformed document of a
// recognized format is never retried as the other format.
func ParseTree(tree *xmltree.Tree, logger *slog.Logger) (Feed, error) {
	atomFeed, err := atom.ParseTree(tree, logger)
	if err == nil {
		return &AtomFeed{Feed: atomFeed}, nil
	}
	var atomErr *atom.ParseError
	if !errors.As(err, &atomErr) || atomErr.Kind != atom.ErrInvalidRoot {
		return nil, err
	}

	rssFeed, err := rss.ParseTree(tree, logger)
	if err == nil {
		return &RSSFeed{RSS: rssFeed}, nil
	}
	var rssErr *rss.ParseError
	if errors.As(err, &rssErr) {
		switch rssErr.Kind {
		case rss.ErrInvalidRoot, rss.ErrMissingAttribute:
			// An <rss> without a version attribute is not a
			// recognizable feed either.
			return nil, &NotAFeedError{Source: tree.Source}
		}
	}
	return nil, err
}

// alternateLink picks the canonical website link from a link list: links
// with rel "alternate" and type "text/html", preferring the one without an
// hreflang (the untranslated original) over translated variants.
func alternateLink(links []Link) *Link {
	var alternates []Link
	for _, link := range links {
		if link.Rel == "alternate" && link.Type == "text/html" {
			alternates = append(alternates, link)
		}
	}
	if len(alternates) == 0 {
		return nil
	}
	for _, link := range alternates {
		if link.Hreflang == "" {
			return &link
		}
	}
	return &alternates[0]
}
