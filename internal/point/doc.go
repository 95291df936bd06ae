// Package point provides the Point record type and the record utilities the
// runtime uses around it.
//
// A Point is an ordered mapping from field name to value. Field order is the
// order fields were first set, and it survives decoding, cloning, Pick and
// Omit; procs that fan a point out into several (split, for one) rely on it.
//
// Points are value objects by convention. A proc that needs a changed point
// clones it first. NormalizeTime is the one deliberate exception: it converts
// the time field in place and hands back the same slice, and callers rely on
// that aliasing to skip points that were already converted.
package point
