// Package naming generates unique repository names for a provisioning run.
//
// Names follow the pattern {prefix}-{NN} with a zero-padded two-digit index.
// The AutoGenerate strategy cycles through a curated word list to produce
// human-readable names; collisions within a run are disambiguated with a
// numeric suffix.
package naming
