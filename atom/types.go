package atom

import "time"

// Namespace is the Atom namespace URI in its lowercased canonical form. The
// parser adopts the casing the document itself declares, so feeds using the
// officially cased URI (or any other variant) resolve against it.
const Namespace = "http://www.w3.org/2005/atom"

type Feed struct {
	ID      string
	Title   Text
	Updated time.Time
	Entries []*Entry

	Authors      []Person
	Contributors []Person
	Subtitle     *Text
	Links        []Link
}

type Entry struct {
	ID      string
	Title   Text
	Updated time.Time

	Authors      []Person
	Contributors []Person
	Published    *time.Time
	Summary      *Text
	Links        []Link
	Content      *Content
}

// Text is an Atom text construct. Type is "text" or "html"; entity decoding
// has already been applied to "html" values.
type Text struct {
	Type  string
	Value string
}

// Person is an Atom person construct. Only Name is guaranteed to be present.
type Person struct {
	Name  string
	URI   string
	Email string
}

type Link struct {
	// Href is an IRI reference.
	Href string

	// Rel indicates how the linked resource relates to the feed or entry
	// containing the link. Defaults to "alternate".
	Rel string

	// Type is a hint indicating the media type of the linked resource.
	Type string

	// Hreflang indicates the linked content's language. Combined with
	// Rel "alternate" it marks a translation.
	Hreflang string

	// Title is optional human-readable information about the link.
	Title string

	// Length is the raw value of the length attribute, an advisory size of
	// the linked content in bytes.
	Length string
}

// Content carries an entry's content. For the "text", "html" and "xhtml"
// types Value holds the inline content; any other Type is a MIME type and the
// content itself lives behind Src.
type Content struct {
	Type  string
	Src   string
	Value string
}
