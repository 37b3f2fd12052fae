package feed

// Unified vocabulary shared by the Atom and RSS views.

// Text is a feed or entry title. Format is "text" or "html"; "html" values
// are entity-decoded.
type Text struct {
	Format string
	Value  string
}

// Content is an entry's content. Format is "text", "html" or, when Source
// is set, a MIME type. Value holds inline content and is empty when the
// content lives behind Source instead.
type Content struct {
	Format string
	Value  string
	Source string
}

// Link is a unified link. Equality is plain struct equality over all fields.
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

	// Length is the linked content's size in bytes, -1 when unknown.
	Length int64
}
