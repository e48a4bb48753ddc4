// Package validate implements the transformation validator: the hard
// barrier between a decoded model response and the caller's score.
//
// Check compares an original snapshot against a candidate under a set
// of transformation flags and either accepts the candidate or rejects
// it with itemized, coded violations. Acceptance is all-or-nothing at
// whole-score granularity: a failed check means the caller keeps the
// original, untouched.
package validate
