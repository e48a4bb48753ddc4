package ikr

import "fmt"

// IntegrityError describes one violated measure invariant.
type IntegrityError struct {
	MeasureNumber int
	EventIndex    int
	Message       string
}

// Error implements the error interface.
func (e IntegrityError) Error() string {
	return fmt.Sprintf("measure %d event %d: %s", e.MeasureNumber, e.EventIndex, e.Message)
}

// CheckMeasure verifies the measure invariants against a capacity:
//   - onsets are non-negative, strictly below capacity, and ordered
//   - Note/Rest durations are strictly positive
//   - Note/Rest events do not overlap
//   - total Note/Rest duration does not exceed capacity
//
// Returns all violations found (does not fail-fast).
func CheckMeasure(m Measure, capacity Rational) []IntegrityError {
	var errs []IntegrityError

	prevOnset := Rational{Num: -1, Den: 1}
	timedEnd := Zero  // end of the last timed (Note/Rest) event
	total := Zero     // accumulated Note/Rest duration
	haveTimed := false

	for i, e := range m.Events {
		onset := e.Onset()
		if onset.Sign() < 0 {
			errs = append(errs, IntegrityError{m.Number, i, "onset must be non-negative"})
			continue
		}
		if onset.Cmp(capacity) >= 0 {
			errs = append(errs, IntegrityError{m.Number, i,
				fmt.Sprintf("onset %s is outside measure capacity %s", onset, capacity)})
		}
		if onset.Cmp(prevOnset) < 0 {
			errs = append(errs, IntegrityError{m.Number, i, "events must be ordered by onset"})
		}
		prevOnset = onset

		if !HasDuration(e) {
			continue
		}
		dur := Duration(e)
		if dur.Sign() <= 0 {
			errs = append(errs, IntegrityError{m.Number, i, "duration must be positive"})
			continue
		}
		if haveTimed && onset.Cmp(timedEnd) < 0 {
			errs = append(errs, IntegrityError{m.Number, i,
				fmt.Sprintf("event at %s overlaps previous event ending at %s", onset, timedEnd)})
		}
		timedEnd = onset.Add(dur)
		haveTimed = true
		total = total.Add(dur)
	}

	if total.Cmp(capacity) > 0 {
		errs = append(errs, IntegrityError{m.Number, len(m.Events) - 1,
			fmt.Sprintf("total duration %s exceeds measure capacity %s", total, capacity)})
	}

	return errs
}

// CheckScore runs CheckMeasure over every measure in the score and
// verifies the at-least-one-part invariant.
func CheckScore(s *Score) []IntegrityError {
	var errs []IntegrityError
	if len(s.Parts) == 0 {
		return []IntegrityError{{0, 0, "score must have at least one part"}}
	}
	capacity, err := s.Capacity()
	if err != nil {
		return []IntegrityError{{0, 0, err.Error()}}
	}
	for _, part := range s.Parts {
		for _, voice := range part.Voices {
			for _, measure := range voice.Measures {
				errs = append(errs, CheckMeasure(measure, capacity)...)
			}
		}
	}
	return errs
}
