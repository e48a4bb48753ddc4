package tlr

import (
	"fmt"
	"strings"
)

// Parse error codes (T100-T199)
const (
	ErrBadHeader       = "T100" // malformed PART/VOICE/MEASURE header
	ErrHeaderOrder     = "T101" // header outside the expected nesting order
	ErrEventOutside    = "T102" // event line outside any open measure
	ErrUnknownEvent    = "T103" // unknown event type tag
	ErrBadAttribute    = "T104" // malformed or unknown key=value attribute
	ErrBadRational     = "T105" // non-rational onset or duration
	ErrNegativeOnset   = "T106" // onset below zero
	ErrBadDuration     = "T107" // duration not positive
	ErrBadPitch        = "T108" // malformed SPN pitch
	ErrOverlap         = "T109" // duplicate or overlapping onset in a measure
	ErrEmptyScope      = "T110" // part or voice closed with no children
	ErrDuplicateScope  = "T111" // duplicate voice index or measure number
	ErrUnparsableLine  = "T112" // line is neither header nor event
	ErrEmptyInput      = "T113" // no parts in input
)

// ParseError is a line-addressed TLR syntax error.
type ParseError struct {
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("[%s] line %d: %s", e.Code, e.Line, e.Message)
}

// ParseErrors is the full set of errors found in one decode pass.
// The decoder collects everything it can rather than failing fast,
// so a rejection can be fed back into a retry prompt with complete
// diagnostics.
type ParseErrors []ParseError

// Error implements the error interface.
func (e ParseErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, pe := range e {
		msgs[i] = pe.Error()
	}
	return fmt.Sprintf("%d parse errors: %s", len(e), strings.Join(msgs, "; "))
}

// First returns the first error in line order.
func (e ParseErrors) First() ParseError {
	return e[0]
}
