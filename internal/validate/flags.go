package validate

import (
	"fmt"
	"sort"
	"strings"
)

// Flag names one transformation permission.
type Flag string

const (
	// FlagTranspose permits a single global semitone shift across
	// every note in the score.
	FlagTranspose Flag = "transpose"

	// FlagRhythmSimplify permits onset/duration changes as long as
	// each measure's total duration and relative order are preserved.
	FlagRhythmSimplify Flag = "rhythm_simplify"

	// FlagStyleChange permits event additions and lyric edits beyond
	// strict content edits.
	FlagStyleChange Flag = "style_change"

	// FlagHarmonicReharm permits harmonic changes, expressed purely
	// via Harmony events.
	FlagHarmonicReharm Flag = "harmonic_reharm"
)

// AllFlags lists every known flag in canonical order.
var AllFlags = []Flag{FlagTranspose, FlagRhythmSimplify, FlagStyleChange, FlagHarmonicReharm}

// FlagSet is the set of active transformation permissions.
type FlagSet map[Flag]bool

// NewFlagSet builds a set from flags.
func NewFlagSet(flags ...Flag) FlagSet {
	fs := make(FlagSet, len(flags))
	for _, f := range flags {
		fs[f] = true
	}
	return fs
}

// ParseFlags parses comma- or list-form flag names, rejecting unknown
// names.
func ParseFlags(names []string) (FlagSet, error) {
	fs := make(FlagSet)
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			f := Flag(name)
			if !isKnownFlag(f) {
				return nil, fmt.Errorf("unknown transformation flag %q, want one of %s", name, flagNames())
			}
			fs[f] = true
		}
	}
	return fs, nil
}

func isKnownFlag(f Flag) bool {
	for _, known := range AllFlags {
		if f == known {
			return true
		}
	}
	return false
}

func flagNames() string {
	names := make([]string, len(AllFlags))
	for i, f := range AllFlags {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Has reports whether the flag is set.
func (fs FlagSet) Has(f Flag) bool {
	return fs[f]
}

// String renders the set in sorted form: "rhythm_simplify,transpose".
func (fs FlagSet) String() string {
	names := make([]string, 0, len(fs))
	for f, on := range fs {
		if on {
			names = append(names, string(f))
		}
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// Slice returns the active flags in sorted order.
func (fs FlagSet) Slice() []Flag {
	var out []Flag
	for _, f := range AllFlags {
		if fs[f] {
			out = append(out, f)
		}
	}
	return out
}
