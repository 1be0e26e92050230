// Package gridworld is a 4-connected integer grid model for the astar engine.
package gridworld

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	astar "github.com/pdrpinto/motionastar"
)

// Cell is a grid position. It is its own discretization key.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GridKey returns the cell itself.
func (cell Cell) GridKey() Cell { return cell }

func (cell Cell) String() string { return fmt.Sprintf("(%d,%d)", cell.X, cell.Y) }

// Move is a unit step. The zero Move is the no-op attached to the start.
type Move struct {
	DX, DY int
}

var (
	Right = Move{DX: 1}
	Left  = Move{DX: -1}
	Up    = Move{DY: 1}
	Down  = Move{DY: -1}
)

// Moves lists the four moves in the order the Sampler yields them.
var Moves = []Move{Right, Left, Up, Down}

// Grid is a bounded or unbounded grid with blocked cells.
// A non-positive Width or Height leaves that axis unbounded.
type Grid struct {
	Width  int
	Height int
	Walls  map[Cell]bool
}

// New creates a grid with the given walls.
func New(width, height int, walls ...Cell) *Grid {
	grid := &Grid{Width: width, Height: height, Walls: make(map[Cell]bool, len(walls))}
	for _, wall := range walls {
		grid.Walls[wall] = true
	}
	return grid
}

// Contains reports whether cell lies inside the grid bounds.
func (grid *Grid) Contains(cell Cell) bool {
	if grid.Width > 0 && (cell.X < 0 || cell.X >= grid.Width) {
		return false
	}
	if grid.Height > 0 && (cell.Y < 0 || cell.Y >= grid.Height) {
		return false
	}
	return true
}

// Blocked reports whether cell is a wall or out of bounds.
func (grid *Grid) Blocked(cell Cell) bool {
	return !grid.Contains(cell) || grid.Walls[cell]
}

// Transition moves from one cell to its neighbour; blocked targets are rejected.
func (grid *Grid) Transition(from Cell, move Move) (Cell, bool) {
	to := Cell{X: from.X + move.DX, Y: from.Y + move.DY}
	if grid.Blocked(to) {
		return Cell{}, false
	}
	return to, true
}

// Cost is the Manhattan distance between the cells, 1 for a single move.
func (grid *Grid) Cost(from Cell, to Cell) int { return Manhattan(from, to) }

// Heuristic is the Manhattan distance to the goal.
func (grid *Grid) Heuristic(state Cell, goal Cell) int { return Manhattan(state, goal) }

// Converge reports whether state is the goal cell.
func (grid *Grid) Converge(state Cell, goal Cell) bool { return state == goal }

// Manhattan returns |dx| + |dy|.
func Manhattan(a, b Cell) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Sampler yields the four unit moves for every state.
type Sampler struct{}

// Sample returns a copy of Moves.
func (Sampler) Sample(astar.Model[Cell, Move, int], Cell) []Move {
	return slices.Clone(Moves)
}

// Engine is the astar engine instantiated for grids.
type Engine = astar.Engine[Cell, Move, Cell, int]

// NewEngine creates an engine for grid planning.
func NewEngine(options ...astar.Option) *Engine {
	return astar.New[Cell, Move, Cell, int](options...)
}

// ParseCell parses "x,y".
func ParseCell(text string) (Cell, error) {
	xText, yText, ok := strings.Cut(strings.TrimSpace(text), ",")
	if !ok {
		return Cell{}, fmt.Errorf("invalid cell %q: want x,y", text)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xText))
	if err != nil {
		return Cell{}, fmt.Errorf("invalid cell %q: %w", text, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(yText))
	if err != nil {
		return Cell{}, fmt.Errorf("invalid cell %q: %w", text, err)
	}
	return Cell{X: x, Y: y}, nil
}
