// Package pipeline orchestrates one transformation request:
// encode → model call → decode → validate → accept or reject → diff.
//
// The pipeline is synchronous and single-threaded per request. Score
// trees are immutable values, so concurrent pipelines over different
// snapshots need no coordination, and a rejected candidate leaves the
// caller's original bit-for-bit intact. The external model call is an
// opaque function with a caller-imposed context; on timeout or a
// malformed response the decoder/validator reject naturally and the
// original is retained.
package pipeline
