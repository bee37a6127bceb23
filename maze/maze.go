/*
Package maze provides the rectangular grid world shared by every navigation agent.

A Maze is a matrix of Cells, each tracking its four walls independently, plus an
exit point. The exit normally lies one step outside the boundary, behind an
opening in the boundary wall; stepping through that opening is how an agent
escapes.

The package includes random maze generation with Wilson's algorithm, an ASCII
rendering and its parser, and the visibility queries (Look, MovementAllowed)
agents use to sense their surroundings.
*/
package maze

import (
	"errors"
	"fmt"
	"strings"
)

const (
	minMazeDimension = 1
	maxMazeDimension = 256
)

var (
	ErrInvalidDimension = errors.New("invalid maze dimensions")
	ErrInvalidExit      = errors.New("exit must be inside the grid or one step outside its boundary")
)

// Maze represents a rectangular maze consisting of cells with walls.
type Maze struct {
	width  int       // Width of the maze (number of columns)
	height int       // Height of the maze (number of rows)
	grid   [][]*Cell // 2D grid of cells, indexed [row][col]
	exit   Point
}

// NewEmpty creates a maze without a single wall, not even on its boundary.
func NewEmpty(width, height int, exit Point) (*Maze, error) {
	return newMaze(width, height, exit, false)
}

// NewBounded creates a maze walled on its boundary only, with an opening
// towards the exit when the exit lies outside the grid.
func NewBounded(width, height int, exit Point) (*Maze, error) {
	m, err := newMaze(width, height, exit, false)
	if err != nil {
		return nil, err
	}
	m.closeBoundary()
	return m, nil
}

// newWalled creates a maze with every wall closed except the exit opening.
func newWalled(width, height int, exit Point) (*Maze, error) {
	m, err := newMaze(width, height, exit, true)
	if err != nil {
		return nil, err
	}
	m.closeBoundary()
	return m, nil
}

func newMaze(width, height int, exit Point, walled bool) (*Maze, error) {
	if min(width, height) < minMazeDimension || max(width, height) > maxMazeDimension {
		return nil, ErrInvalidDimension
	}

	grid := make([][]*Cell, height)
	for i := range grid {
		grid[i] = make([]*Cell, width)
		for j := range grid[i] {
			grid[i][j] = &Cell{
				NorthWall: walled,
				SouthWall: walled,
				EastWall:  walled,
				WestWall:  walled,
			}
		}
	}

	m := &Maze{
		width:  width,
		height: height,
		grid:   grid,
		exit:   exit,
	}
	if !m.validExit(exit) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExit, exit)
	}
	return m, nil
}

// validExit accepts points inside the grid and points one orthogonal step
// outside a boundary cell.
func (m *Maze) validExit(p Point) bool {
	if m.Contains(p) {
		return true
	}
	for _, d := range Directions {
		if m.Contains(p.Add(d)) {
			return true
		}
	}
	return false
}

// closeBoundary walls the outer edges and opens the edge facing the exit.
func (m *Maze) closeBoundary() {
	for col := 0; col < m.width; col++ {
		m.grid[0][col].NorthWall = true
		m.grid[m.height-1][col].SouthWall = true
	}
	for row := 0; row < m.height; row++ {
		m.grid[row][0].WestWall = true
		m.grid[row][m.width-1].EastWall = true
	}
	if !m.Contains(m.exit) {
		cell := m.ExitCell()
		m.Cell(cell).SetWall(DirectionBetween(cell, m.exit), false)
	}
}

// Width returns the number of columns.
func (m *Maze) Width() int {
	return m.width
}

// Height returns the number of rows.
func (m *Maze) Height() int {
	return m.height
}

// Exit returns the exit point, possibly just outside the grid.
func (m *Maze) Exit() Point {
	return m.exit
}

// ExitCell returns the in-grid cell through which the exit is reached.
func (m *Maze) ExitCell() Point {
	if m.Contains(m.exit) {
		return m.exit
	}
	for _, d := range Directions {
		if p := m.exit.Add(d); m.Contains(p) {
			return p
		}
	}
	panic(fmt.Sprintf("maze: exit %s is not adjacent to the grid", m.exit))
}

// Contains reports whether p lies within [0,width)x[0,height).
func (m *Maze) Contains(p Point) bool {
	return p.X >= 0 && p.X < m.width && p.Y >= 0 && p.Y < m.height
}

// Cell returns the cell at p. It panics when p is outside the grid.
func (m *Maze) Cell(p Point) *Cell {
	if !m.Contains(p) {
		panic(fmt.Sprintf("maze: point %s outside %dx%d grid", p, m.width, m.height))
	}
	return m.grid[p.Y][p.X]
}

// HasWall reports whether the cell at p is walled towards d.
func (m *Maze) HasWall(p Point, d Direction) bool {
	return m.Cell(p).HasWall(d)
}

// ToggleWall flips exactly the one edge named. Mirroring the change on the
// neighbouring cell is up to the caller.
func (m *Maze) ToggleWall(p Point, d Direction) {
	m.Cell(p).ToggleWall(d)
}

// Clear removes every wall, the boundary included.
func (m *Maze) Clear() {
	for _, row := range m.grid {
		for _, cell := range row {
			*cell = Cell{}
		}
	}
}

// openWall removes the wall between p and its neighbour in direction d.
func (m *Maze) openWall(p Point, d Direction) {
	m.Cell(p).SetWall(d, false)
	if to := p.Add(d); m.Contains(to) {
		m.Cell(to).SetWall(d.Opposite(), false)
	}
}

// Look reports what lies one step from `from` in direction d, ignoring other agents.
func (m *Maze) Look(from Point, d Direction) Vision {
	if d == None {
		return Empty
	}
	if m.HasWall(from, d) {
		return Wall
	}
	if !m.Contains(from.Add(d)) {
		return OffLimits
	}
	return Empty
}

// MovementAllowed reports whether a step from `from` in direction d is possible.
func (m *Maze) MovementAllowed(from Point, d Direction) bool {
	if d == None {
		return false
	}
	v := m.Look(from, d)
	return v == Empty || v == OffLimits
}

// String provides a textual representation of the maze.
func (m *Maze) String() string {
	var output strings.Builder

	// Top boundary
	output.WriteString("+")
	for col := 0; col < m.width; col++ {
		if m.grid[0][col].NorthWall {
			output.WriteString("---+")
		} else {
			output.WriteString("   +")
		}
	}
	output.WriteString("\n")

	for row := 0; row < m.height; row++ {
		// Cell rows
		if m.grid[row][0].WestWall {
			output.WriteString("|")
		} else {
			output.WriteString(" ")
		}
		for col := 0; col < m.width; col++ {
			output.WriteString("   ")
			if m.grid[row][col].EastWall {
				output.WriteString("|")
			} else {
				output.WriteString(" ")
			}
		}
		output.WriteString("\n")

		// Wall rows
		output.WriteString("+")
		for col := 0; col < m.width; col++ {
			if m.grid[row][col].SouthWall {
				output.WriteString("---+")
			} else {
				output.WriteString("   +")
			}
		}
		output.WriteString("\n")
	}

	return output.String()
}
