package maze

import "fmt"

// Point is a grid coordinate. X grows to the east (columns), Y to the south (rows).
type Point struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// Add returns the point one step away in direction d.
func (p Point) Add(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is one of the four grid moves, or None for "stay".
type Direction int

const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

// Directions lists the four real moves in a fixed order.
var Directions = [4]Direction{Up, Down, Left, Right}

// Delta decomposes the direction into a (dx, dy) step.
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse move. None is its own opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return None
	}
}

// Rotate turns the direction 90 degrees clockwise.
func (d Direction) Rotate() Direction {
	switch d {
	case Up:
		return Right
	case Right:
		return Down
	case Down:
		return Left
	case Left:
		return Up
	default:
		return None
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	default:
		return "NONE"
	}
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DirectionBetween returns the move leading from a to b, or None when the
// points are not 4-adjacent.
func DirectionBetween(a, b Point) Direction {
	for _, d := range Directions {
		if a.Add(d) == b {
			return d
		}
	}
	return None
}

// Vision is what an agent sees when looking one step in some direction.
type Vision int

const (
	Empty Vision = iota
	Wall
	OffLimits
	Occupied
)

func (v Vision) String() string {
	switch v {
	case Empty:
		return "EMPTY"
	case Wall:
		return "WALL"
	case OffLimits:
		return "OFF_LIMITS"
	case Occupied:
		return "OCCUPIED"
	default:
		return fmt.Sprintf("Vision(%d)", int(v))
	}
}

// Oracle answers visibility questions for an agent standing at a point.
type Oracle interface {
	Look(from Point, d Direction) Vision
	MovementAllowed(from Point, d Direction) bool
}
