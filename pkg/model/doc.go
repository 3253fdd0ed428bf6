// Package model defines the value types shared by the beacon registry and the
// fibre network: coordinates, colors, costs, and the reserved sentinel values
// returned by queries when nothing is found.
//
// # Sentinels
//
// Queries in [beacon] and [fibre] never return errors for missing data. They
// return one of the reserved values below instead, each of which is outside
// the range a legitimate entity can hold:
//
//	model.NoID     // "----------"
//	model.NoName   // "-- unknown --"
//	model.NoValue  // math.MinInt
//	model.NoCoord  // {NoValue, NoValue}
//	model.NoColor  // {NoValue, NoValue, NoValue}
//	model.NoCost   // NoValue
//
// # Ordering
//
// Coordinates are ordered by Y first, then X. The same order is used for
// listing cross-points, sorting fibres, and normalizing fibre endpoints.
//
// [beacon]: github.com/matzehuels/beaconnet/pkg/beacon
// [fibre]: github.com/matzehuels/beaconnet/pkg/fibre
package model
