// Package prefs resolves, validates and derives defaults for reader
// preferences whose option sets may be chosen by other preferences' values.
//
// A preference's options source is either a literal catalog key such as
// "color_options" or a template such as "<FINISH>_<COLOR>_paint_options".
// BuildGraph parses every source once, links placeholders to the preferences
// they name and computes a topological order. Validate walks that order and
// proves that every reachable combination of selections resolves to a key in
// the option catalog. DeriveDefaults walks the same order and computes the
// initially selected option of every preference.
//
// Nothing in this package performs I/O or holds mutable shared state; one
// catalog may serve many concurrent evaluations.
package prefs
