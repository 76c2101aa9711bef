// Package suggest finds the known name closest to a misspelled one, for
// "did you mean" hints in error messages.
//
// Names are compared after normalization (lower case, separators removed),
// so "Address_Increment" and "addressincrement" are the same name, and
// then by edit distance. A candidate is only suggested when it is close
// enough to plausibly be a typo.
package suggest
