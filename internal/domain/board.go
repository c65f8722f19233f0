package domain

import (
	"fmt"
	"strings"
)

// Board is everything the search needs from a position. The storage layout stays
// behind it so Grid can be swapped for a bitboard without touching the bot.
type Board interface {
	Width() int
	Height() int
	CellColor(row, col int) Color
	IsLegalMove(col int) bool
	// DropPiece mutates the receiver and returns the row the piece landed on.
	DropPiece(col int, color Color) (int, error)
	// CompletesFourInRow reports whether the top piece of col is part of a line of four.
	CompletesFourInRow(col int, color Color) bool
	HasLegalMove() bool
	Clone() Board
}

// Grid is a dense square board. Row 0 is the bottom row.
type Grid struct {
	size    int
	cells   []Color
	heights []int // next free row per column
}

func NewBoard(size int) (*Grid, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Grid{
		size:    size,
		cells:   make([]Color, size*size),
		heights: make([]int, size),
	}, nil
}

// NewDefaultBoard returns an empty board of DefaultSize.
func NewDefaultBoard() *Grid {
	g, _ := NewBoard(DefaultSize)
	return g
}

// ParseRows builds a grid from rows listed top row first, the layout the frontend sends.
// Values are 0, 1 (ColorA) or -1/2 (ColorB). Floating pieces are rejected.
func ParseRows(rows [][]int) (*Grid, error) {
	size := len(rows)
	g, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidBoard, i, len(row), size)
		}
	}

	for col := 0; col < size; col++ {
		for r := 0; r < size; r++ {
			var color Color
			switch rows[size-1-r][col] {
			case 0:
				color = Empty
			case 1:
				color = ColorA
			case -1, 2:
				color = ColorB
			default:
				return nil, fmt.Errorf("%w: unknown cell value %d", ErrInvalidBoard, rows[size-1-r][col])
			}
			if color == Empty {
				continue
			}
			if r != g.heights[col] {
				return nil, fmt.Errorf("%w: floating piece in column %d", ErrInvalidBoard, col)
			}
			g.cells[g.index(r, col)] = color
			g.heights[col]++
		}
	}
	return g, nil
}

// Rows returns the board top row first with ColorA = 1 and ColorB = -1.
func (g *Grid) Rows() [][]int {
	rows := make([][]int, g.size)
	for i := range rows {
		rows[i] = make([]int, g.size)
		r := g.size - 1 - i
		for c := 0; c < g.size; c++ {
			rows[i][c] = int(g.cells[g.index(r, c)])
		}
	}
	return rows
}

func (g *Grid) index(row, col int) int {
	return row*g.size + col
}

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.size && col >= 0 && col < g.size
}

func (g *Grid) Width() int  { return g.size }
func (g *Grid) Height() int { return g.size }

func (g *Grid) CellColor(row, col int) Color {
	if !g.inBounds(row, col) {
		return Empty
	}
	return g.cells[g.index(row, col)]
}

func (g *Grid) IsLegalMove(col int) bool {
	if col < 0 || col >= g.size {
		return false
	}
	return g.heights[col] < g.size
}

func (g *Grid) DropPiece(col int, color Color) (int, error) {
	if !color.Valid() {
		return -1, ErrInvalidColor
	}
	if col < 0 || col >= g.size {
		return -1, ErrInvalidMove
	}
	row := g.heights[col]
	if row >= g.size {
		return -1, ErrColumnFull
	}
	g.cells[g.index(row, col)] = color
	g.heights[col]++
	return row, nil
}

func (g *Grid) CompletesFourInRow(col int, color Color) bool {
	if col < 0 || col >= g.size || g.heights[col] == 0 {
		return false
	}
	row := g.heights[col] - 1
	if g.cells[g.index(row, col)] != color {
		return false
	}
	return CheckWin(g, row, col, color)
}

func (g *Grid) HasLegalMove() bool {
	for _, h := range g.heights {
		if h < g.size {
			return true
		}
	}
	return false
}

func (g *Grid) Clone() Board {
	return g.Copy()
}

// this creates a deep copy of the board
func (g *Grid) Copy() *Grid {
	n := &Grid{
		size:    g.size,
		cells:   make([]Color, len(g.cells)),
		heights: make([]int, len(g.heights)),
	}
	copy(n.cells, g.cells)
	copy(n.heights, g.heights)
	return n
}

// Pieces returns how many pieces are on the board.
func (g *Grid) Pieces() int {
	total := 0
	for _, h := range g.heights {
		total += h
	}
	return total
}

func (g *Grid) String() string {
	var sb strings.Builder
	for r := g.size - 1; r >= 0; r-- {
		for c := 0; c < g.size; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(g.cells[g.index(r, c)].String())
		}
		sb.WriteByte('\n')
	}
	for c := 0; c < g.size; c++ {
		if c > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d", c%10)
	}
	sb.WriteByte('\n')
	return sb.String()
}

// GetValidMoves lists legal columns left to right.
func GetValidMoves(b Board) []int {
	validMoves := []int{}
	for col := 0; col < b.Width(); col++ {
		if b.IsLegalMove(col) {
			validMoves = append(validMoves, col)
		}
	}
	return validMoves
}

// SimulateMove drops a piece on a copy and reports whether it wins.
func SimulateMove(b Board, column int, color Color) (Board, bool, error) {
	next := b.Clone()
	if _, err := next.DropPiece(column, color); err != nil {
		return nil, false, err
	}
	return next, next.CompletesFourInRow(column, color), nil
}
