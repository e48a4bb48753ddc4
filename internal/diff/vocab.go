package diff

import (
	"fmt"
	"strings"

	"github.com/aldhelm/cantus/internal/ikr"
)

// durationNames maps common note values to their spoken names.
var durationNames = map[ikr.Rational]string{
	ikr.NewRational(2, 1):  "breve",
	ikr.NewRational(1, 1):  "whole",
	ikr.NewRational(1, 2):  "half",
	ikr.NewRational(1, 4):  "quarter",
	ikr.NewRational(1, 8):  "eighth",
	ikr.NewRational(1, 16): "sixteenth",
	ikr.NewRational(1, 32): "thirty-second",
	ikr.NewRational(3, 2):  "dotted whole",
	ikr.NewRational(3, 4):  "dotted half",
	ikr.NewRational(3, 8):  "dotted quarter",
	ikr.NewRational(3, 16): "dotted eighth",
	ikr.NewRational(3, 32): "dotted sixteenth",
	ikr.NewRational(1, 6):  "quarter triplet",
	ikr.NewRational(1, 12): "eighth triplet",
}

// DurationName renders a duration as a note-value name, falling back
// to the fraction of a whole note for uncommon values.
func DurationName(d ikr.Rational) string {
	if name, ok := durationNames[d]; ok {
		return name
	}
	return fmt.Sprintf("%s of a whole note", d)
}

// rhythmPattern renders a measure's timed durations as a pattern,
// e.g. "quarter + quarter + half".
func rhythmPattern(m ikr.Measure) string {
	var names []string
	for _, e := range m.Events {
		if ikr.HasDuration(e) {
			names = append(names, DurationName(ikr.Duration(e)))
		}
	}
	if len(names) == 0 {
		return "empty"
	}
	return strings.Join(names, " + ")
}

// intervalNames maps absolute semitone counts within an octave.
var intervalNames = [...]string{
	"unison",
	"minor second",
	"major second",
	"minor third",
	"major third",
	"perfect fourth",
	"tritone",
	"perfect fifth",
	"minor sixth",
	"major sixth",
	"minor seventh",
	"major seventh",
	"octave",
}

// IntervalName names a signed semitone distance, e.g. "up a major
// second" or "down a perfect fifth".
func IntervalName(semitones int) string {
	if semitones == 0 {
		return "unison"
	}
	direction := "up"
	abs := semitones
	if abs < 0 {
		direction = "down"
		abs = -abs
	}
	if abs < len(intervalNames) {
		article := "a"
		if strings.HasPrefix(intervalNames[abs], "octave") {
			article = "an"
		}
		return fmt.Sprintf("%s %s %s", direction, article, intervalNames[abs])
	}
	return fmt.Sprintf("%s %d semitones", direction, abs)
}
