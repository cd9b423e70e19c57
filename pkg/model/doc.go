// Package model defines the field schema and respondent values the rule
// engine works on. A Field carries the identifier, kind and required flag the
// engine needs plus presentation extras (label, placeholder, helpText,
// options) that hosts use when prompting or rendering. FormData maps field ids
// to the respondent's current values; values are strings, string lists for
// multi-value kinds, or absent. Helpers in this package (IsEmpty, Text,
// Selections) centralise the coercion rules so every consumer agrees on what
// "empty" and "textual value" mean.
package model
