package rss

import "time"

type RSS struct {
	// Version is the validated RSS version: "2.0", "0.92" or "0.91".
	Version string

	Channel *Channel
}

type Channel struct {
	Title       string
	Link        string
	Description string

	// LastBuildDate is the optional time the channel content last changed.
	LastBuildDate *time.Time

	Items []*Item
}

// Item is a single channel item. Optional text fields are pointers so an
// absent element stays distinguishable from a present-but-empty one; at
// least one of Title and Description is always set.
type Item struct {
	Title       *string
	Link        *string
	Description *string
	Author      *Person
	PubDate     *time.Time
	Enclosure   *Enclosure
}

// Person is the author of an item, split from the RFC 5322 mailbox form
// used by RSS ("address (display name)" or "display name <address>").
type Person struct {
	Name  string
	Email string
}

// Enclosure attaches a file, such as podcast audio, to an item. All three
// fields are mandatory in the document; Length is non-negative.
type Enclosure struct {
	URL    string
	Length int64
	Type   string
}
