// internal/board/board.go
//
// Static board layout for the word game.
// Responsibilities:
//   - Define the bonus kinds a cell can carry (none, letter×2/×3, word×2/×3).
//   - Build the fixed 15×15 bonus grid from coordinate tables.
//   - Expose the board size and the center cell the first word must cover.
//
// The grid is immutable and process-wide; callers receive the shared layout
// and must not mutate it. A fresh defensive copy is available via CopyLayout
// for callers that serialize it into outbound events.
package board

// Bonus identifies the score modifier of a single board cell.
// The string values are the wire encoding sent to clients.
type Bonus string

const (
	BonusNone         Bonus = "EM"
	BonusDoubleLetter Bonus = "DL"
	BonusTripleLetter Bonus = "TL"
	BonusDoubleWord   Bonus = "DW"
	BonusTripleWord   Bonus = "TW"
)

// Size is the board edge length. The board has Size×Size cells.
const Size = 15

// Center is the row and column of the cell the first word must cover.
const Center = 7

// Empty is the rune marking an unoccupied cell in the flat board string.
const Empty = '.'

// Coordinate tables for the classic bonus square arrangement.
// Each entry is {row, col}.
var (
	tripleWord = [][2]int{
		{0, 0}, {0, 7}, {0, 14}, {7, 0}, {7, 14}, {14, 0}, {14, 7}, {14, 14},
	}
	doubleWord = [][2]int{
		{1, 1}, {2, 2}, {3, 3}, {4, 4}, {10, 10}, {11, 11}, {12, 12}, {13, 13},
		{1, 13}, {2, 12}, {3, 11}, {4, 10}, {10, 4}, {11, 3}, {12, 2}, {13, 1},
		{7, 7},
	}
	tripleLetter = [][2]int{
		{1, 5}, {1, 9}, {5, 1}, {5, 5}, {5, 9}, {5, 13},
		{9, 1}, {9, 5}, {9, 9}, {9, 13}, {13, 5}, {13, 9},
	}
	doubleLetter = [][2]int{
		{0, 3}, {0, 11}, {2, 6}, {2, 8}, {3, 0}, {3, 7}, {3, 14},
		{6, 2}, {6, 6}, {6, 8}, {6, 12}, {7, 3}, {7, 11},
		{8, 2}, {8, 6}, {8, 8}, {8, 12}, {11, 0}, {11, 7}, {11, 14},
		{12, 6}, {12, 8}, {14, 3}, {14, 11},
	}
)

var layout = buildLayout()

func buildLayout() [][]Bonus {
	grid := make([][]Bonus, Size)
	for r := range grid {
		row := make([]Bonus, Size)
		for c := range row {
			row[c] = BonusNone
		}
		grid[r] = row
	}
	for _, p := range doubleLetter {
		grid[p[0]][p[1]] = BonusDoubleLetter
	}
	for _, p := range tripleLetter {
		grid[p[0]][p[1]] = BonusTripleLetter
	}
	for _, p := range doubleWord {
		grid[p[0]][p[1]] = BonusDoubleWord
	}
	for _, p := range tripleWord {
		grid[p[0]][p[1]] = BonusTripleWord
	}
	return grid
}

// Layout returns the shared bonus grid. Callers must treat it as read-only.
func Layout() [][]Bonus { return layout }

// BonusAt returns the bonus kind at the given cell.
func BonusAt(row, col int) Bonus { return layout[row][col] }

// CopyLayout returns a deep copy of the bonus grid, safe to hand to encoders.
func CopyLayout() [][]Bonus {
	out := make([][]Bonus, Size)
	for r := range layout {
		row := make([]Bonus, Size)
		copy(row, layout[r])
		out[r] = row
	}
	return out
}

// EmptyBoard returns the flat string representing a board with no letters.
func EmptyBoard() string {
	b := make([]byte, Size*Size)
	for i := range b {
		b[i] = Empty
	}
	return string(b)
}
