// Package diagnostic provides structured errors, warnings and notes
// produced by whole-map validation of a register map.
//
// Key capabilities:
//   - Orphaned or malformed complementary register reports
//   - Write-lock and bus-width violations
//   - Location of each finding (register and bit field)
package diagnostic
