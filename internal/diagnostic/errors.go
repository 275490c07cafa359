package diagnostic

import (
	"errors"
	"strings"
)

// Sentinel errors for fatal conditions. Use errors.Is to check them.
var (
	// ErrMissingSection indicates a referenced document section does not exist.
	ErrMissingSection = errors.New("missing section")

	// ErrUnknownProvider indicates no raw-format parser is registered for a provider.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNoMappingTable indicates no mapping table is available for a provider.
	ErrNoMappingTable = errors.New("no mapping table")

	// ErrMalformedDocument indicates a structured document could not be decoded.
	ErrMalformedDocument = errors.New("malformed document")
)

// Error is a fatal error that identifies where in a provider load it happened.
//
// Error supports errors.Is and errors.As through Unwrap:
//
//	var perr *diagnostic.Error
//	if errors.As(err, &perr) && errors.Is(err, diagnostic.ErrMissingSection) {
//		fmt.Println(perr.Node, perr.Section)
//	}
type Error struct {
	// Provider is the provider identifier being loaded.
	Provider string

	// Node is the node name, when the failure concerns one node.
	Node string

	// Field is the field implicated, if any.
	Field string

	// Section is the document section implicated, if any.
	Section string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	if e.Provider != "" {
		b.WriteString("provider " + quote(e.Provider) + ": ")
	}

	if e.Node != "" {
		b.WriteString("node " + quote(e.Node) + ": ")
	}

	if e.Field != "" {
		b.WriteString("field " + quote(e.Field) + ": ")
	}

	if e.Section != "" {
		b.WriteString("section " + quote(e.Section) + ": ")
	}

	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString("unknown error")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithProvider returns err with its Provider set when err is an *Error
// without one; other errors are wrapped in a new *Error.
func WithProvider(err error, provider string) error {
	if err == nil {
		return nil
	}

	var perr *Error
	if errors.As(err, &perr) {
		if perr.Provider == "" {
			cp := *perr
			cp.Provider = provider

			return &cp
		}

		return err
	}

	return &Error{Provider: provider, Err: err}
}

func quote(s string) string {
	return `"` + s + `"`
}
