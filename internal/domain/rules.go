package domain

var directions = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal /
	{1, -1}, // diagonal \
}

// CheckWin only looks at lines passing through (row, column).
func CheckWin(b Board, row, column int, color Color) bool {
	for _, dir := range directions {
		total := 1 +
			CountDiskInDirection(b, row, column, dir[0], dir[1], color) +
			CountDiskInDirection(b, row, column, -dir[0], -dir[1], color)
		if total >= ToWin {
			return true
		}
	}
	return false
}

// this counts the number of disks in a specific direction
func CountDiskInDirection(b Board, row, column, deltaRow, deltaCol int, color Color) int {
	count := 0
	r, c := row+deltaRow, column+deltaCol
	for r >= 0 && r < b.Height() && c >= 0 && c < b.Width() && b.CellColor(r, c) == color {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}

// HasFourAnywhere scans the whole board for any completed line.
func HasFourAnywhere(b Board) (Color, bool) {
	for row := 0; row < b.Height(); row++ {
		for col := 0; col < b.Width(); col++ {
			color := b.CellColor(row, col)
			if color == Empty {
				continue
			}
			if CheckWin(b, row, col, color) {
				return color, true
			}
		}
	}
	return Empty, false
}
