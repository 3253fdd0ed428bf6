// Package script interprets the line-oriented beaconnet command language.
//
// Each line holds one command followed by its arguments. Lines are split with
// shell quoting rules, so names containing spaces are written in quotes.
// Blank lines and lines starting with '#' are ignored.
//
//	add_beacon A "Alpha Centauri" (0,0) (255,0,0)
//	add_fibre (0,0) (1,1) 5
//	route_fastest (0,0) (1,1)
//
// Coordinates are written (x,y) and colors (r,g,b), without spaces.
//
// # Output
//
// Every command writes plain text lines to the interpreter's writer. Queries
// that look up a missing beacon print the not-found sentinel, and the three
// beam queries get_lightsources, path_outbeam and path_inbeam_longest print a
// single sentinel line for a missing id, as scripts written for the first
// command set expect. The underlying library calls return an empty result in
// the same situation.
//
// # Errors
//
// Unknown commands and wrong argument counts return an error with code
// INVALID_COMMAND; arguments that fail to parse or validate return
// INVALID_INPUT. [Interpreter.Run] stops at the first error while
// [Interpreter.RunAll] reports it and carries on.
package script
