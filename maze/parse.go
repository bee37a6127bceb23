package maze

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrMalformedLayout = errors.New("malformed maze layout")
	ErrNoExit          = errors.New("maze layout has no boundary opening")
	ErrMultipleExits   = errors.New("maze layout has more than one boundary opening")
)

// Parse reads a maze in the format produced by String: "+---+" lines carry
// north/south walls, "|" characters carry west/east walls. Exactly one gap in
// the boundary marks the exit.
func Parse(reader io.Reader) (*Maze, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)

	lines := make([]string, 0)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" && len(lines) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) < 3 || len(lines)%2 == 0 {
		return nil, fmt.Errorf("%w: expected an odd number of lines, got %d", ErrMalformedLayout, len(lines))
	}
	top := strings.TrimRight(lines[0], " ")
	if len(top) < 5 || (len(top)-1)%4 != 0 || top[0] != '+' {
		return nil, fmt.Errorf("%w: bad top line %q", ErrMalformedLayout, lines[0])
	}

	width := (len(top) - 1) / 4
	height := (len(lines) - 1) / 2
	m, err := newMaze(width, height, Point{}, false)
	if err != nil {
		return nil, err
	}

	for row := 0; row <= height; row++ {
		wallLine := lines[2*row]
		for col := 0; col < width; col++ {
			if charAt(wallLine, 4*col+1) != '-' {
				continue
			}
			if row > 0 {
				m.grid[row-1][col].SouthWall = true
			}
			if row < height {
				m.grid[row][col].NorthWall = true
			}
		}
	}

	for row := 0; row < height; row++ {
		cellLine := lines[2*row+1]
		if charAt(cellLine, 0) == '|' {
			m.grid[row][0].WestWall = true
		}
		for col := 0; col < width; col++ {
			if charAt(cellLine, 4*col+4) != '|' {
				continue
			}
			m.grid[row][col].EastWall = true
			if col+1 < width {
				m.grid[row][col+1].WestWall = true
			}
		}
	}

	exits := m.boundaryOpenings()
	switch {
	case len(exits) == 0:
		return nil, ErrNoExit
	case len(exits) > 1:
		return nil, fmt.Errorf("%w: %v", ErrMultipleExits, exits)
	}
	m.exit = exits[0]
	return m, nil
}

// boundaryOpenings lists the points just outside every unwalled boundary edge.
func (m *Maze) boundaryOpenings() []Point {
	var openings []Point
	for row := 0; row < m.height; row++ {
		for col := 0; col < m.width; col++ {
			p := Point{X: col, Y: row}
			for _, d := range Directions {
				if to := p.Add(d); !m.Contains(to) && !m.HasWall(p, d) {
					openings = append(openings, to)
				}
			}
		}
	}
	return openings
}

// charAt returns the byte at i, treating missing trailing characters as blanks.
func charAt(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return ' '
	}
	return s[i]
}
