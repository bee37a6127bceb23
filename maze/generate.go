package maze

import (
	"math/rand"
)

// move is one carving step of the generator.
type move struct {
	from Point
	to   Point
	dir  Direction
}

// Generate creates a perfect maze using Wilson's loop-erased random walks.
// The exit opens to the east of the bottom-right cell.
func Generate(width, height int, rnd *rand.Rand) (*Maze, error) {
	m, err := newWalled(width, height, Point{X: width, Y: height - 1})
	if err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(rand.Int63()))
	}
	m.generateMaze(rnd)
	return m, nil
}

// randomCellPosition generates a random position within the maze.
func (m *Maze) randomCellPosition(rnd *rand.Rand) Point {
	return Point{X: rnd.Intn(m.width), Y: rnd.Intn(m.height)}
}

// randomUnvisitedCellPosition selects a random position that has not been visited.
func (m *Maze) randomUnvisitedCellPosition(rnd *rand.Rand, visited map[Point]struct{}) Point {
	for {
		pos := m.randomCellPosition(rnd)
		if _, included := visited[pos]; !included {
			return pos
		}
	}
}

// neighbors finds all in-grid moves from a given cell position.
func (m *Maze) neighbors(pos Point) []move {
	var result []move
	for _, d := range Directions {
		if to := pos.Add(d); m.Contains(to) {
			result = append(result, move{from: pos, to: to, dir: d})
		}
	}
	return result
}

// randomWalk walks from an unvisited cell until it hits the visited tree.
// Revisiting a cell overwrites its outgoing move, which erases the loop.
func (m *Maze) randomWalk(rnd *rand.Rand, visited map[Point]struct{}) (Point, map[Point]move) {
	start := m.randomUnvisitedCellPosition(rnd, visited)
	visits := make(map[Point]move)
	cell := start

	for {
		neighbors := m.neighbors(cell)
		randomNeighbor := neighbors[rnd.Intn(len(neighbors))]
		visits[cell] = randomNeighbor
		if _, included := visited[randomNeighbor.to]; included {
			break
		}
		cell = randomNeighbor.to
	}

	return start, visits
}

// generateMaze carves passages until every cell belongs to the tree.
func (m *Maze) generateMaze(rnd *rand.Rand) {
	visited := make(map[Point]struct{})
	visited[m.randomCellPosition(rnd)] = struct{}{}

	for len(visited) < m.width*m.height {
		start, visits := m.randomWalk(rnd, visited)
		// Follow the loop-erased path from the start.
		for cell := start; ; {
			mv := visits[cell]
			m.openWall(mv.from, mv.dir)
			visited[cell] = struct{}{}
			if _, done := visited[mv.to]; done {
				break
			}
			cell = mv.to
		}
	}
}
