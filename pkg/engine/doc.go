// Package engine evaluates a form's rule set against the respondent's
// current values.
//
// Everything here is a pure function of (fields, data, rules): there is no
// package state and no I/O, so hosts call Evaluate every time a value changes
// and replace their previous Result wholesale. Malformed rules never cause an
// error; an unknown field reads as empty, an unknown target is ignored and an
// unknown condition or action simply does not fire.
//
// Visibility is resolved in two phases. All matching hide_field rules are
// applied first, in rule order, then all matching show_field rules, in rule
// order. A show rule therefore always beats a hide rule for the same target
// within one evaluation. Targets re-shown this way are appended after the
// fields that stayed visible rather than returning to their schema position.
//
// The base visible set is rebuilt from the full schema on every call, so a
// field hidden by a rule becomes visible again as soon as that rule stops
// matching.
package engine
