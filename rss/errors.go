package rss

import "fmt"

// ErrorKind tags the failure classes of the RSS parser.
type ErrorKind string

const (
	// ErrInvalidRoot means the document's root element is not <rss>. The
	// feed dispatcher matches on this kind to conclude the document is not
	// a feed at all.
	ErrInvalidRoot ErrorKind = "invalid-root"

	// ErrMissingElement means a mandatory element (<channel>, or the
	// channel's title, link or description) is absent.
	ErrMissingElement ErrorKind = "missing-element"

	// ErrMissingAttribute means <rss> carries no version attribute.
	ErrMissingAttribute ErrorKind = "missing-attribute"

	// ErrVersionUnsupported means the declared RSS version is not one of
	// the revisions this parser accepts.
	ErrVersionUnsupported ErrorKind = "version-not-supported"
)

// ParseError is a fatal document-level parsing failure. Item-level problems
// are never surfaced this way; they drop the item and go to the log
// collaborator instead.
type ParseError struct {
	Kind ErrorKind

	// Element names the missing or offending element for ErrInvalidRoot
	// and ErrMissingElement.
	Element string

	// Attribute names the missing attribute for ErrMissingAttribute.
	Attribute string

	// Version is the unsupported declared version for ErrVersionUnsupported.
	Version string

	// Line is the source line of the failure, 0 when unknown.
	Line int
}

func (e *ParseError) Error() string {
	var msg string
	switch e.Kind {
	case ErrInvalidRoot:
		msg = fmt.Sprintf("invalid root %s", e.Element)
	case ErrMissingElement:
		msg = fmt.Sprintf("missing element %s", e.Element)
	case ErrMissingAttribute:
		msg = fmt.Sprintf("<rss> is missing a %s attribute", e.Attribute)
	case ErrVersionUnsupported:
		msg = fmt.Sprintf("unsupported RSS version %q", e.Version)
	default:
		msg = string(e.Kind)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s (line: %d)", msg, e.Line)
	}
	return msg
}
