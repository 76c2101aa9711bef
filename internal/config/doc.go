// Package config holds the global and map-scoped options of the register
// map compiler.
//
// Options live in named groups. Every option has a default and either an
// enumerated set of legal values or a non-negative integer constraint;
// setting an illegal value fails immediately and leaves the option as it
// was.
//
// # Options
//
//	data_width: 32                      # 8, 16, 32 or 64
//	regmap:
//	  address_alignment_mode: data_width # none, data_width, custom
//	  address_alignment_value: 4
//	  address_increment_mode: none       # none, data_width, custom
//	  address_increment_value: 4
//
// A register map never reads a Configuration directly. It captures a
// Settings snapshot when it is created, so later changes to the
// Configuration do not affect maps that already exist.
package config
