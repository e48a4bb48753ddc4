package testutil

import "github.com/aldhelm/cantus/internal/ikr"

// Quarters returns a minimal single-part score: one voice, one
// measure of four quarter notes C4 D4 E4 F4 in 4/4.
func Quarters() *ikr.Score {
	return NewScore().
		Part("Soprano").
		Voice(0).
		Measure(1).
		Note("0", "1/4", "C4").
		Note("1/4", "1/4", "D4").
		Note("2/4", "1/4", "E4").
		Note("3/4", "1/4", "F4").
		Build()
}

// Chorale returns a two-part fixture with harmony and a lyric,
// exercising every event variant across two measures.
func Chorale() *ikr.Score {
	return NewScore().
		Attrs(ikr.Attrs{
			Key:   "C",
			Time:  "4/4",
			Tempo: 90,
		}).
		Part("Soprano").
		Voice(0).
		Measure(1).
		Harmony("0", "C").
		Lyric("0", "Lau-").
		Note("0", "1/2", "E4").
		Note("1/2", "1/4", "F4").
		Note("3/4", "1/4", "G4").
		Measure(2).
		Harmony("0", "G7").
		Lyric("0", "da-").
		Note("0", "1/2", "F4").
		Rest("1/2", "1/4").
		Note("3/4", "1/4", "D4").
		Part("Bass").
		Voice(0).
		Measure(1).
		Note("0", "1/2", "C3").
		Note("1/2", "1/2", "A2").
		Measure(2).
		Note("0", "1", "G2").
		Build()
}
