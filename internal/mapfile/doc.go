// Package mapfile reads and writes register map description files.
//
// The file is YAML with an optional config section (same shape as a
// config file) and an ordered list of registers:
//
//	config:
//	  data_width: 32
//	  regmap:
//	    address_increment_mode: data_width
//	registers:
//	  - name: CTRL
//	    description: Control register
//	    address: 0x0            # integer, or a "0x" prefixed string
//	    write_lock: true
//	    bitfields:
//	      - name: EN
//	        lsb: 0
//	        width: 1
//	        access: rw
//	        modifiers: [sc]
//	  - name: STATUS            # no address: derived by the increment policy
//	    bitfields:
//	      - {name: BUSY, access: ro}
//
// # Typing
//
// Scalars are typed strictly: lsb, width and initial must be YAML
// integers, flags must be YAML booleans and modifiers must be a sequence.
// A quoted number, a float, "yes" or a bare modifier string is rejected
// with the line it appears on, even when its value would make sense.
//
// Unknown keys are rejected so that a typo never silently falls back to a
// default.
//
// Building a file into a regmap.RegisterMap goes through the model's
// constructors and AddRegisters, so every model rule applies. Build does
// not run the deferred whole-map validation; call Validate on the result.
package mapfile
