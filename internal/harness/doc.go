// Package harness provides a conformance testing framework for the
// transformation pipeline.
//
// A scenario is a YAML file holding an original score in TLR, a
// pre-recorded model response, the permission flags for the request,
// and expectations about the outcome. The harness feeds the response
// through the real pipeline (decode, validate, diff) rather than a
// mock, so scenarios exercise the same path production requests take.
// No model is invoked; the response text stands in for one, which
// keeps scenario runs deterministic and offline.
//
// Each scenario runs against a fresh in-memory snapshot store. When a
// candidate is accepted, the original and the candidate are appended
// to the log and the head is checked, so store round-tripping is
// covered by every accepting scenario.
//
// Golden files capture the rendered outcome (acceptance, violation
// codes, diff text) under testdata/golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
