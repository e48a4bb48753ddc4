// Package diff computes semantic, musically-phrased differences
// between two accepted score snapshots.
//
// The analyzer walks two same-shaped trees in a fixed order and emits
// a deterministic entry sequence: score-level facts first, then
// measure-level rhythm notes, then per-event changes in onset order.
// Descriptions use musical vocabulary only - note values, interval
// names, chord symbols - never raw durations or internal IDs; event
// IDs appear solely in the Refs field for programmatic
// cross-reference.
package diff
