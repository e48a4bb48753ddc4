package diff

import "errors"

// Level is the structural level a diff entry describes. Levels double
// as renderer-agnostic formatting hints: a terminal or HTML renderer
// can indent or group by level without re-deriving semantics.
type Level string

const (
	LevelScore   Level = "score"
	LevelPart    Level = "part"
	LevelVoice   Level = "voice"
	LevelMeasure Level = "measure"
	LevelEvent   Level = "event"
)

// Change classifies the musical change category of an entry.
type Change string

const (
	ChangeAttrs         Change = "attrs"
	ChangeTransposition Change = "transposition"
	ChangePitch         Change = "pitch"
	ChangeRhythm        Change = "rhythm"
	ChangeHarmony       Change = "harmony"
	ChangeLyric         Change = "lyric"
	ChangeContent       Change = "content"
)

// Entry is one semantic difference.
type Entry struct {
	Level       Level    `json:"level"`
	Change      Change   `json:"change"`
	Description string   `json:"description"`
	Refs        []string `json:"refs,omitempty"`
}

// ErrShapeMismatch signals an attempted diff of two trees with
// differing shape. That is a precondition violation - the validator
// should have rejected such a candidate - and must be treated as
// fatal to the surrounding request, never silently ignored.
var ErrShapeMismatch = errors.New("diff: score shapes differ; candidate was not validated")
