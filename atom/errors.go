package atom

import "fmt"

// ErrorKind tags the failure classes of the Atom parser. The values double
// as structured log event identifiers when a recovered failure is reported
// as the cause of a dropped entry or field.
type ErrorKind string

const (
	// ErrInvalidRoot means the document's root element is not an Atom
	// <feed>. The feed dispatcher matches on this kind to fall through to
	// the RSS parser.
	ErrInvalidRoot ErrorKind = "invalid-root"

	// ErrMissingElement means a mandatory element (id, title, updated,
	// or a person's name) is absent.
	ErrMissingElement ErrorKind = "missing-element"

	// ErrInvalidDate means a date construct's text could not be parsed.
	ErrInvalidDate ErrorKind = "invalid-date"

	// ErrNotImplemented means the document uses a recognized but
	// unsupported feature, i.e. an xhtml text construct.
	ErrNotImplemented ErrorKind = "not-implemented-error"
)

// ParseError is a parsing failure. When returned from ParseTree it is fatal
// for the whole feed; internally the parser also recovers from these at the
// entry and field level, reporting them through the log collaborator instead.
type ParseError struct {
	Kind ErrorKind

	// Element names the missing or offending element for ErrMissingElement
	// and ErrInvalidRoot.
	Element string

	// Date is the raw unparseable date text for ErrInvalidDate.
	Date string

	// Feature names the unsupported feature for ErrNotImplemented.
	Feature string

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
	case ErrInvalidDate:
		msg = fmt.Sprintf("invalid date %q", e.Date)
	case ErrNotImplemented:
		msg = fmt.Sprintf("not implemented: %s", e.Feature)
	default:
		msg = string(e.Kind)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s (line: %d)", msg, e.Line)
	}
	return msg
}

// logAttrs returns the error's structured log payload, mirroring the fields
// set for its kind plus the source line.
func (e *ParseError) logAttrs() []any {
	var attrs []any
	switch e.Kind {
	case ErrInvalidRoot, ErrMissingElement:
		attrs = append(attrs, "element", e.Element)
	case ErrInvalidDate:
		attrs = append(attrs, "date", e.Date)
	case ErrNotImplemented:
		attrs = append(attrs, "feature", e.Feature)
	}
	return append(attrs, "lineno", e.Line)
}

// causeAttrs is logAttrs with the error's own event identifier demoted to a
// "cause" key, for events that report a dropped entry or field wrapping this
// failure.
func (e *ParseError) causeAttrs() []any {
	return append([]any{"cause", string(e.Kind)}, e.logAttrs()...)
}
