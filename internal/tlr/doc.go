// Package tlr implements the Textual LLM Representation: the fixed
// line-oriented grammar that is the only surface a language model
// ever sees or edits.
//
// The grammar is strict by design. The encoder is a pure function
// from an ikr.Score to text; the decoder treats its input as fully
// untrusted and rejects anything that does not parse bit-exactly,
// carrying line-addressed errors back to the caller. Semantic
// (flag-compliance) checking is not done here - that is the
// validate package's job.
package tlr
