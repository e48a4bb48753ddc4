// Package ikr provides the canonical in-memory representation of a
// choral score: a Score tree of Parts, Voices, Measures, and Events.
//
// This package contains type definitions and pure value operations
// only. All other internal packages import ikr; ikr imports nothing
// internal. This keeps the model the foundational layer with no
// circular dependencies.
//
// Key design constraints:
//   - NO float types anywhere - onsets and durations are exact Rationals
//   - Events form a closed, sealed variant (Note/Rest/Harmony/Lyric)
//   - Trees are never mutated in place; edits produce new trees via Clone
//   - All JSON tags use snake_case
package ikr
