// Package scenario reads and writes TOML descriptions of beacons, lightbeams
// and fibres, and loads them into an engine.
//
// A scenario file looks like:
//
//	name = "demo"
//
//	[[beacon]]
//	id = "A"
//	name = "Alpha"
//	coord = [0, 0]
//	color = [255, 0, 0]
//
//	[[beam]]
//	from = "A"
//	to = "B"
//
//	[[fibre]]
//	a = [0, 0]
//	b = [1, 1]
//	cost = 5
//
// A beacon without an id gets a UUID derived from the scenario name, its
// position in the file and its name, so loading the same file twice yields
// the same ids and the same [Scenario.Hash].
package scenario
