// internal/game/engine.go
//
// Word engine: turns a set of tile placements into a validated, scored move.
// Responsibilities:
//   - BuildWord: order placements along the play direction and read the
//     letters off the acting player's rack.
//   - PlaceLetters: write letters onto the flat board, rejecting cells held
//     by a different letter, and count reused cells for the crossing rule.
//   - FindAllWords: collect incidental perpendicular words touching the
//     newly placed letters.
//   - CalculateScore: apply letter and word bonus squares.
//   - The first-move center gate and the crossing gate.
//
// Dictionary validity is the caller's concern (see the words package);
// everything here is pure board geometry and arithmetic.
package game

import (
	"sort"
	"strings"

	"tilerooms/internal/board"
)

// Direction of the main word of a placement.
type Direction string

const (
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
)

// LetterPlacement instructs one tile placement: a board position and the
// index of the tile in the acting player's rack.
type LetterPlacement struct {
	Position  [2]int `json:"position"` // {row, col}
	TileIndex int    `json:"tileIndex"`
}

// TileIndexes lists the rack slots consumed by a placement set.
func TileIndexes(placements []LetterPlacement) []int {
	out := make([]int, len(placements))
	for i, p := range placements {
		out[i] = p.TileIndex
	}
	return out
}

// BuildWord orders the placements by column (horizontal) or row (vertical)
// and concatenates the rack letters into the played word.
func BuildWord(placements []LetterPlacement, rack []string, dir Direction) string {
	ordered := make([]LetterPlacement, len(placements))
	copy(ordered, placements)
	sort.SliceStable(ordered, func(i, j int) bool {
		if dir == Horizontal {
			return ordered[i].Position[1] < ordered[j].Position[1]
		}
		return ordered[i].Position[0] < ordered[j].Position[0]
	})
	var b strings.Builder
	for _, p := range ordered {
		b.WriteString(rack[p.TileIndex])
	}
	return b.String()
}

// ValidatePlacements rejects out-of-board positions and rack indexes before
// any cell is touched.
func ValidatePlacements(placements []LetterPlacement, rackLen int) error {
	if len(placements) == 0 {
		return ErrValidation
	}
	for _, p := range placements {
		row, col := p.Position[0], p.Position[1]
		if row < 0 || row >= board.Size || col < 0 || col >= board.Size {
			return ErrValidation
		}
		if p.TileIndex < 0 || p.TileIndex >= rackLen {
			return ErrValidation
		}
	}
	return nil
}

// ValidateFirstPlacement enforces the first-move rule: on an empty board the
// placement must cover the center cell.
func ValidateFirstPlacement(placements []LetterPlacement) error {
	for _, p := range placements {
		if p.Position[0] == board.Center && p.Position[1] == board.Center {
			return nil
		}
	}
	return ErrCenterCellRequired
}

// PlaceLetters writes the placed letters onto a copy of the flat board.
// A target cell must be empty or already hold the exact letter being placed;
// anything else fails with ErrCellOccupied. The returned count is how many
// cells already held their letter, which the crossing rule feeds on.
func PlaceLetters(placements []LetterPlacement, rack []string, boardStr string) (string, int, error) {
	cells := []byte(boardStr)
	reused := 0
	for _, p := range placements {
		idx := p.Position[0]*board.Size + p.Position[1]
		letter := rack[p.TileIndex][0]
		switch cells[idx] {
		case board.Empty:
			cells[idx] = letter
		case letter:
			reused++
		default:
			return "", 0, ErrCellOccupied
		}
	}
	return string(cells), reused, nil
}

// FindAllWords walks perpendicular to the play direction from each newly
// placed letter and collects every incidental word longer than one letter.
func FindAllWords(placements []LetterPlacement, dir Direction, boardStr string) []string {
	var words []string
	cross := Vertical
	if dir == Vertical {
		cross = Horizontal
	}
	for _, p := range placements {
		if w := readWord(p.Position[0], p.Position[1], cross, boardStr); len(w) > 1 {
			words = append(words, w)
		}
	}
	return words
}

// readWord scans from (row, col) to the start of the contiguous letter run
// in the given direction, then reads forward until the run ends.
func readWord(row, col int, dir Direction, boardStr string) string {
	at := func(r, c int) byte { return boardStr[r*board.Size+c] }

	for row >= 0 && col >= 0 && at(row, col) != board.Empty {
		if dir == Horizontal {
			col--
		} else {
			row--
		}
	}
	if dir == Horizontal {
		col++
	} else {
		row++
	}

	var b strings.Builder
	for row < board.Size && col < board.Size && at(row, col) != board.Empty {
		b.WriteByte(at(row, col))
		if dir == Horizontal {
			col++
		} else {
			row++
		}
	}
	return b.String()
}

// CalculateScore totals the move. Letter bonuses multiply the letter weight
// into the running total; word bonuses add the plain weight and multiply the
// final total. The board passed in already carries the placed letters.
func CalculateScore(placements []LetterPlacement, boardStr string, weights map[string]int) int {
	totalScore := 0
	wordMultiplier := 1

	for _, p := range placements {
		row, col := p.Position[0], p.Position[1]
		letter := string(boardStr[row*board.Size+col])
		weight, ok := weights[letter]
		if !ok {
			continue
		}
		switch board.BonusAt(row, col) {
		case board.BonusDoubleLetter:
			totalScore += weight * 2
		case board.BonusTripleLetter:
			totalScore += weight * 3
		case board.BonusDoubleWord:
			totalScore += weight
			wordMultiplier *= 2
		case board.BonusTripleWord:
			totalScore += weight
			wordMultiplier *= 3
		default:
			totalScore += weight
		}
	}
	return totalScore * wordMultiplier
}
