// Package profile loads transformation profiles from CUE files.
//
// A profile bundles a named, reusable transformation policy: the
// permission flags to grant, an optional target style, a prompt
// preamble prepended to the instruction, and a retry budget. Profiles
// are declared in CUE under a top-level "profile" struct:
//
//	profile: jazz: {
//		flags:           ["harmonic_reharm", "rhythm_simplify"]
//		style:           "jazz"
//		prompt_preamble: "Favor extended chords."
//		max_retries:     2
//	}
//
// Loading uses the CUE Go API directly, not a CLI subprocess.
package profile
