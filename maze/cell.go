package maze

// Cell represents a single cell in a maze grid.
// Each of its four edges is tracked independently; keeping the shared edge of
// two neighbours consistent is the caller's job.
type Cell struct {
	NorthWall bool // NorthWall indicates whether there is a wall on the north side of the cell.
	SouthWall bool // SouthWall indicates whether there is a wall on the south side of the cell.
	EastWall  bool // EastWall indicates whether there is a wall on the east side of the cell.
	WestWall  bool // WestWall indicates whether there is a wall on the west side of the cell.
}

// HasWall reports whether the edge faced by moving in d is walled.
func (c *Cell) HasWall(d Direction) bool {
	switch d {
	case Up:
		return c.NorthWall
	case Down:
		return c.SouthWall
	case Right:
		return c.EastWall
	case Left:
		return c.WestWall
	default:
		return false
	}
}

// SetWall sets the presence of a wall on the edge faced by moving in d.
func (c *Cell) SetWall(d Direction, hasWall bool) {
	switch d {
	case Up:
		c.NorthWall = hasWall
	case Down:
		c.SouthWall = hasWall
	case Right:
		c.EastWall = hasWall
	case Left:
		c.WestWall = hasWall
	}
}

// ToggleWall flips the edge faced by moving in d.
func (c *Cell) ToggleWall(d Direction) {
	c.SetWall(d, !c.HasWall(d))
}
