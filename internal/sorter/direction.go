package sorter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDirection is returned by ParseDirection for unsupported names.
var ErrUnknownDirection = errors.New("unknown sort direction")

// Direction is the four-valued external vocabulary. It fixes both the scan
// axis and the sort order; there is no separate ascending/descending setting.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

var directionNames = [...]string{"left", "right", "up", "down"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection maps "left", "right", "up" or "down" (any case) to a Direction.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("sorter: %q: %w", s, ErrUnknownDirection)
}

// Axis selects whether scan lines are rows or columns.
type Axis int

const (
	Rows Axis = iota
	Columns
)

func (a Axis) String() string {
	if a == Columns {
		return "columns"
	}
	return "rows"
}

// Order is the key order inside a span.
type Order int

const (
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "descending"
	}
	return "ascending"
}

// Axis returns Rows for left/right and Columns for up/down.
func (d Direction) Axis() Axis {
	if d == Up || d == Down {
		return Columns
	}
	return Rows
}

// Order returns Descending for left/up and Ascending for right/down.
func (d Direction) Order() Order {
	if d == Left || d == Up {
		return Descending
	}
	return Ascending
}
