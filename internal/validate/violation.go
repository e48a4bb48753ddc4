package validate

import (
	"fmt"

	"github.com/aldhelm/cantus/internal/indexer"
)

// Violation codes.
//
// V1xx - structural preservation (fatal regardless of flags)
// V2xx - event integrity in the candidate
// V3xx - flag compliance
const (
	ErrPartCount     = "V100" // part count differs
	ErrPartName      = "V101" // part header identifier differs
	ErrVoiceCount    = "V102" // voice count differs within a part
	ErrVoiceIndex    = "V103" // voice header identifier differs
	ErrMeasureCount  = "V104" // measure count differs within a voice
	ErrMeasureNumber = "V105" // measure header identifier differs
	ErrAttrsChanged  = "V106" // score-global attributes differ

	ErrIntegrity = "V200" // overlap, ordering, or duration invariant broken

	ErrPitchChanged       = "V300" // pitch changed while transpose unset
	ErrIntervalMismatch   = "V301" // transposition interval not globally uniform
	ErrTimingChanged      = "V302" // onset/duration changed while rhythm_simplify unset
	ErrDurationSum        = "V303" // measure duration sum changed under rhythm_simplify
	ErrHarmonyChanged     = "V304" // harmony changed while harmonic_reharm unset
	ErrImplicitHarmony    = "V305" // pitch change with no covering Harmony event
	ErrContentChanged     = "V306" // event added/removed/retyped while style_change unset
	ErrNoteCountChanged   = "V307" // note count changed without a permitting flag
)

// Kind is the violation category from the error-handling design.
type Kind string

const (
	KindStructural Kind = "StructuralViolation"
	KindIntegrity  Kind = "EventIntegrityError"
	KindFlag       Kind = "FlagViolation"
)

// Violation is one structured reason a candidate was rejected.
type Violation struct {
	Code     string      `json:"code"`
	Kind     Kind        `json:"kind"`
	Flag     Flag        `json:"flag,omitempty"` // set for flag violations
	Location indexer.Ref `json:"location"`
	Message  string      `json:"message"`
}

// Error implements the error interface.
func (v Violation) Error() string {
	if v.Kind == KindFlag {
		return fmt.Sprintf("[%s] %s(%s, %s): %s", v.Code, v.Kind, v.Flag, v.Location, v.Message)
	}
	return fmt.Sprintf("[%s] %s(%s): %s", v.Code, v.Kind, v.Location, v.Message)
}

// Result is the outcome of one validation pass.
type Result struct {
	Pass       bool        `json:"pass"`
	Violations []Violation `json:"violations,omitempty"`
}

func structural(code string, loc indexer.Ref, format string, args ...any) Violation {
	return Violation{Code: code, Kind: KindStructural, Location: loc, Message: fmt.Sprintf(format, args...)}
}

func integrity(loc indexer.Ref, format string, args ...any) Violation {
	return Violation{Code: ErrIntegrity, Kind: KindIntegrity, Location: loc, Message: fmt.Sprintf(format, args...)}
}

func flagViolation(code string, flag Flag, loc indexer.Ref, format string, args ...any) Violation {
	return Violation{Code: code, Kind: KindFlag, Flag: flag, Location: loc, Message: fmt.Sprintf(format, args...)}
}
