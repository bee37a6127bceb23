package game

import (
	"fmt"

	"github.com/beka-birhanu/vinom-nav/maze"
	"github.com/dhconnelly/rtreego"
	"github.com/google/uuid"
)

const (
	occupantMargin = 0.25 // occupant boxes never touch their neighbours
	queryMargin    = 0.4
)

// occupant is an agent's footprint in the R-tree.
type occupant struct {
	id    uuid.UUID
	point maze.Point
	bbox  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (o *occupant) Bounds() rtreego.Rect {
	return o.bbox
}

// occupancy indexes agent positions in an R-tree.
type occupancy struct {
	tree *rtreego.Rtree
	byID map[uuid.UUID]*occupant
}

func newOccupancy() *occupancy {
	return &occupancy{
		tree: rtreego.NewTree(2, 2, 8), // 2D, min 2, max 8 entries per node
		byID: make(map[uuid.UUID]*occupant),
	}
}

func (o *occupancy) insert(id uuid.UUID, p maze.Point) {
	entry := &occupant{id: id, point: p, bbox: cellRect(p, occupantMargin)}
	o.tree.Insert(entry)
	o.byID[id] = entry
}

func (o *occupancy) remove(id uuid.UUID) bool {
	entry, ok := o.byID[id]
	if !ok {
		return false
	}
	o.tree.Delete(entry)
	delete(o.byID, id)
	return true
}

func (o *occupancy) position(id uuid.UUID) (maze.Point, bool) {
	entry, ok := o.byID[id]
	if !ok {
		return maze.Point{}, false
	}
	return entry.point, true
}

// at returns the occupant of cell p.
func (o *occupancy) at(p maze.Point) (uuid.UUID, bool) {
	results := o.tree.SearchIntersect(cellRect(p, queryMargin))
	if len(results) == 0 {
		return uuid.Nil, false
	}
	return results[0].(*occupant).id, true
}

func (o *occupancy) len() int {
	return len(o.byID)
}

// cellRect returns the box of cell p shrunk by margin on every side.
func cellRect(p maze.Point, margin float64) rtreego.Rect {
	side := 1 - 2*margin
	rect, err := rtreego.NewRect(
		rtreego.Point{float64(p.X) + margin, float64(p.Y) + margin},
		[]float64{side, side},
	)
	if err != nil {
		panic(fmt.Sprintf("game: box of %s: %v", p, err))
	}
	return rect
}
