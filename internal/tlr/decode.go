package tlr

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/aldhelm/cantus/internal/ikr"
)

// Decode parses TLR text into a score. The input is untrusted model
// output: parsing is strictly line-oriented, header scopes must nest
// in PART > VOICE > MEASURE order, and every event line must belong
// to the innermost open measure. Nothing is coerced; all errors are
// collected and returned together.
//
// The returned score carries zero-valued global attributes - the TLR
// grammar has no score header, so the caller re-attaches the
// original's attrs before validation.
func Decode(text string) (*ikr.Score, ParseErrors) {
	d := &decoder{}
	d.run(text)
	if len(d.errs) > 0 {
		return nil, d.errs
	}
	return &ikr.Score{Parts: d.parts}, nil
}

type decoder struct {
	errs  ParseErrors
	parts []ikr.Part

	part    *ikr.Part
	voice   *ikr.Voice
	measure *ikr.Measure

	voiceIndexes   map[int]bool
	measureNumbers map[int]bool

	// Incremental overlap tracking for the open measure.
	lastOnset ikr.Rational
	timedEnd  ikr.Rational
	haveEvent bool
	haveTimed bool
}

func (d *decoder) addError(line int, code, format string, args ...any) {
	d.errs = append(d.errs, ParseError{Line: line, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (d *decoder) run(text string) {
	lines := strings.Split(text, "\n")
	lastLine := 0
	for i, raw := range lines {
		lineNum := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lastLine = lineNum

		switch {
		case line == "PART" || strings.HasPrefix(line, "PART "):
			d.openPart(line, lineNum)
		case line == "VOICE" || strings.HasPrefix(line, "VOICE "):
			d.openVoice(line, lineNum)
		case line == "MEASURE" || strings.HasPrefix(line, "MEASURE "):
			d.openMeasure(line, lineNum)
		default:
			d.eventLine(line, lineNum)
		}
	}
	d.closePart(lastLine)
	if len(d.parts) == 0 && len(d.errs) == 0 {
		d.addError(lastLine, ErrEmptyInput, "no parts in input")
	}
}

func (d *decoder) openPart(line string, lineNum int) {
	d.closePart(lineNum)
	name := norm.NFC.String(strings.TrimSpace(strings.TrimPrefix(line, "PART")))
	if name == "" {
		d.addError(lineNum, ErrBadHeader, "PART requires a name")
		return
	}
	d.part = &ikr.Part{Name: name}
	d.voiceIndexes = make(map[int]bool)
}

func (d *decoder) openVoice(line string, lineNum int) {
	if d.part == nil {
		d.addError(lineNum, ErrHeaderOrder, "VOICE without an open PART")
		return
	}
	d.closeVoice(lineNum)
	fields := strings.Fields(line)
	if len(fields) != 2 {
		d.addError(lineNum, ErrBadHeader, "VOICE requires exactly one index")
		return
	}
	index, err := strconv.Atoi(fields[1])
	if err != nil || index < 0 {
		d.addError(lineNum, ErrBadHeader, "invalid voice index %q", fields[1])
		return
	}
	if d.voiceIndexes[index] {
		d.addError(lineNum, ErrDuplicateScope, "duplicate voice index %d", index)
		return
	}
	d.voiceIndexes[index] = true
	d.voice = &ikr.Voice{Index: index}
	d.measureNumbers = make(map[int]bool)
}

func (d *decoder) openMeasure(line string, lineNum int) {
	if d.voice == nil {
		d.addError(lineNum, ErrHeaderOrder, "MEASURE without an open VOICE")
		return
	}
	d.closeMeasure()
	fields := strings.Fields(line)
	if len(fields) != 2 {
		d.addError(lineNum, ErrBadHeader, "MEASURE requires exactly one number")
		return
	}
	number, err := strconv.Atoi(fields[1])
	if err != nil || number < 1 {
		d.addError(lineNum, ErrBadHeader, "invalid measure number %q, want a 1-based index", fields[1])
		return
	}
	if d.measureNumbers[number] {
		d.addError(lineNum, ErrDuplicateScope, "duplicate measure number %d", number)
		return
	}
	d.measureNumbers[number] = true
	d.measure = &ikr.Measure{Number: number}
	d.lastOnset = ikr.Zero
	d.timedEnd = ikr.Zero
	d.haveEvent = false
	d.haveTimed = false
}

func (d *decoder) closeMeasure() {
	if d.measure == nil {
		return
	}
	d.voice.Measures = append(d.voice.Measures, *d.measure)
	d.measure = nil
}

func (d *decoder) closeVoice(lineNum int) {
	if d.voice == nil {
		return
	}
	d.closeMeasure()
	if len(d.voice.Measures) == 0 {
		d.addError(lineNum, ErrEmptyScope, "VOICE %d has no measures", d.voice.Index)
	}
	d.part.Voices = append(d.part.Voices, *d.voice)
	d.voice = nil
}

func (d *decoder) closePart(lineNum int) {
	if d.part == nil {
		return
	}
	d.closeVoice(lineNum)
	if len(d.part.Voices) == 0 {
		d.addError(lineNum, ErrEmptyScope, "PART %q has no voices", d.part.Name)
	}
	d.parts = append(d.parts, *d.part)
	d.part = nil
}

func (d *decoder) eventLine(line string, lineNum int) {
	fields := strings.Fields(line)
	tag := fields[0]
	switch tag {
	case "NOTE", "REST", "HARMONY", "LYRIC":
	default:
		if d.measure == nil {
			d.addError(lineNum, ErrUnparsableLine, "invalid line: %q", line)
			return
		}
		d.addError(lineNum, ErrUnknownEvent, "unknown event type %q", tag)
		return
	}
	if d.measure == nil {
		d.addError(lineNum, ErrEventOutside, "%s outside any open MEASURE", tag)
		return
	}

	onset, ok := d.parseOnset(fields, lineNum)
	if !ok {
		return
	}

	var event ikr.Event
	switch tag {
	case "NOTE":
		event, ok = d.parseNote(fields, lineNum, onset)
	case "REST":
		event, ok = d.parseRest(fields, lineNum, onset)
	case "HARMONY":
		event, ok = d.parseHarmony(fields, line, lineNum, onset)
	case "LYRIC":
		event, ok = d.parseLyric(line, lineNum, onset)
	}
	if !ok {
		return
	}
	d.appendEvent(event, lineNum)
}

// appendEvent enforces onset ordering and Note/Rest non-overlap
// incrementally, so malformed measures are reported at the offending
// line rather than after the fact.
func (d *decoder) appendEvent(e ikr.Event, lineNum int) {
	onset := e.Onset()
	if d.haveEvent && onset.Cmp(d.lastOnset) < 0 {
		d.addError(lineNum, ErrOverlap, "onset %s is before preceding onset %s", onset, d.lastOnset)
		return
	}
	if ikr.HasDuration(e) {
		if d.haveTimed && onset.Cmp(d.timedEnd) < 0 {
			d.addError(lineNum, ErrOverlap, "event at %s overlaps previous event ending at %s", onset, d.timedEnd)
			return
		}
		d.timedEnd = onset.Add(ikr.Duration(e))
		d.haveTimed = true
	}
	d.lastOnset = onset
	d.haveEvent = true
	d.measure.Events = append(d.measure.Events, e)
}

func (d *decoder) parseOnset(fields []string, lineNum int) (ikr.Rational, bool) {
	if len(fields) < 2 || !strings.HasPrefix(fields[1], "t=") {
		d.addError(lineNum, ErrBadAttribute, "expected t=<onset> as first attribute")
		return ikr.Zero, false
	}
	onset, err := ikr.ParseRational(fields[1][len("t="):])
	if err != nil {
		d.addError(lineNum, ErrBadRational, "invalid onset: %v", err)
		return ikr.Zero, false
	}
	if onset.Sign() < 0 {
		d.addError(lineNum, ErrNegativeOnset, "onset must be non-negative, got %s", onset)
		return ikr.Zero, false
	}
	return onset, true
}

func (d *decoder) parseDuration(field string, lineNum int) (ikr.Rational, bool) {
	if !strings.HasPrefix(field, "dur=") {
		d.addError(lineNum, ErrBadAttribute, "expected dur=<duration>")
		return ikr.Zero, false
	}
	dur, err := ikr.ParseRational(field[len("dur="):])
	if err != nil {
		d.addError(lineNum, ErrBadRational, "invalid duration: %v", err)
		return ikr.Zero, false
	}
	if dur.Sign() <= 0 {
		d.addError(lineNum, ErrBadDuration, "duration must be positive, got %s", dur)
		return ikr.Zero, false
	}
	return dur, true
}

func (d *decoder) parseNote(fields []string, lineNum int, onset ikr.Rational) (ikr.Event, bool) {
	if len(fields) < 4 {
		d.addError(lineNum, ErrBadAttribute, "NOTE requires t=, dur=, and pitch=")
		return nil, false
	}
	dur, ok := d.parseDuration(fields[2], lineNum)
	if !ok {
		return nil, false
	}
	if !strings.HasPrefix(fields[3], "pitch=") {
		d.addError(lineNum, ErrBadAttribute, "expected pitch=<SPN>")
		return nil, false
	}
	pitch, err := ikr.ParsePitch(fields[3][len("pitch="):])
	if err != nil {
		d.addError(lineNum, ErrBadPitch, "%v", err)
		return nil, false
	}

	tie := ""
	for _, f := range fields[4:] {
		if !strings.HasPrefix(f, "tie=") {
			d.addError(lineNum, ErrBadAttribute, "unknown NOTE attribute %q", f)
			return nil, false
		}
		v := f[len("tie="):]
		if v != "start" && v != "stop" {
			d.addError(lineNum, ErrBadAttribute, "invalid tie value %q, want start or stop", v)
			return nil, false
		}
		tie = v
	}
	return ikr.NoteEvent{T: onset, Dur: dur, Pitch: pitch, Tie: tie}, true
}

func (d *decoder) parseRest(fields []string, lineNum int, onset ikr.Rational) (ikr.Event, bool) {
	if len(fields) != 3 {
		d.addError(lineNum, ErrBadAttribute, "REST requires exactly t= and dur=")
		return nil, false
	}
	dur, ok := d.parseDuration(fields[2], lineNum)
	if !ok {
		return nil, false
	}
	return ikr.RestEvent{T: onset, Dur: dur}, true
}

func (d *decoder) parseHarmony(fields []string, line string, lineNum int, onset ikr.Rational) (ikr.Event, bool) {
	if len(fields) < 3 || !strings.HasPrefix(fields[2], "symbol=") {
		d.addError(lineNum, ErrBadAttribute, "expected symbol=<chord-symbol>")
		return nil, false
	}
	symbol := norm.NFC.String(fields[2][len("symbol="):])
	if symbol == "" {
		d.addError(lineNum, ErrBadAttribute, "harmony symbol cannot be empty")
		return nil, false
	}
	// Optional key context; spans to end of line so "key=E minor" works.
	key := ""
	if len(fields) > 3 {
		idx := strings.Index(line, " key=")
		if idx < 0 {
			d.addError(lineNum, ErrBadAttribute, "unknown HARMONY attribute %q", fields[3])
			return nil, false
		}
		key = norm.NFC.String(strings.TrimSpace(line[idx+len(" key="):]))
	}
	return ikr.HarmonyEvent{T: onset, Symbol: symbol, Key: key}, true
}

func (d *decoder) parseLyric(line string, lineNum int, onset ikr.Rational) (ikr.Event, bool) {
	// Text spans to end of line so multi-word syllabification survives.
	idx := strings.Index(line, " text=")
	if idx < 0 {
		d.addError(lineNum, ErrBadAttribute, "expected text=<text>")
		return nil, false
	}
	text := norm.NFC.String(strings.TrimSpace(line[idx+len(" text="):]))
	if text == "" {
		d.addError(lineNum, ErrBadAttribute, "lyric text cannot be empty")
		return nil, false
	}
	return ikr.LyricEvent{T: onset, Text: text}, true
}
