package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cost is the weight of a fibre and the unit of accumulated route cost.
type Cost = int

const (
	// NoValue is returned for integer values that were not found.
	NoValue = math.MinInt

	// NoCost is returned when a cost is unknown.
	NoCost Cost = NoValue

	// NoID is returned when a beacon was not found.
	NoID = "----------"

	// NoName is returned when a beacon name was not found.
	NoName = "-- unknown --"
)

var (
	// NoCoord is returned when coordinates were not found.
	NoCoord = Coord{X: NoValue, Y: NoValue}

	// NoColor is returned when a color was not found.
	NoColor = Color{R: NoValue, G: NoValue, B: NoValue}
)

// Coord is an integer position on the plane. It doubles as the identity of a
// cross-point in the fibre network.
type Coord struct {
	X int
	Y int
}

// Less reports whether c sorts before o (by Y, then by X).
func (c Coord) Less(o Coord) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// Compare returns -1, 0 or +1 following the ordering of Less.
func (c Coord) Compare(o Coord) int {
	switch {
	case c.Less(o):
		return -1
	case o.Less(c):
		return 1
	default:
		return 0
	}
}

// String formats the coordinate as "(x,y)".
func (c Coord) String() string {
	if c == NoCoord {
		return "(--,--)"
	}
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Color is an RGB triple. Channels are not clamped.
type Color struct {
	R int
	G int
	B int
}

// Brightness returns the weighted channel sum 3R + 6G + B used as the
// secondary ordering of beacons.
func (c Color) Brightness() int {
	return 3*c.R + 6*c.G + c.B
}

// String formats the color as "(r,g,b)".
func (c Color) String() string {
	if c == NoColor {
		return "(--,--,--)"
	}
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

// ParseCoord parses "(x,y)", "x,y" or "x y" into a Coord.
func ParseCoord(s string) (Coord, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return NoCoord, fmt.Errorf("coordinate %q: %w", s, err)
	}
	return Coord{X: v[0], Y: v[1]}, nil
}

// ParseColor parses "(r,g,b)", "r,g,b" or "r g b" into a Color.
func ParseColor(s string) (Color, error) {
	v, err := parseInts(s, 3)
	if err != nil {
		return NoColor, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{R: v[0], G: v[1], B: v[2]}, nil
}

func parseInts(s string, n int) ([]int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) != n {
		return nil, fmt.Errorf("want %d components, got %d", n, len(fields))
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
