// internal/tiles/letters.go
//
// Letter inventory for the word game.
// Responsibilities:
//   - Per-letter initial tile quantity and point weight.
//   - Copies of the quantity/weight tables for seeding bags and scoring.
//
// The table is the classic English distribution (98 letter tiles, no blanks).
package tiles

// RackSize is the number of tiles a player's rack is refilled to.
const RackSize = 7

// LetterInfo holds the static inventory data for a single letter.
type LetterInfo struct {
	Quantity int // tiles of this letter in a fresh bag
	Weight   int // points the letter is worth before bonuses
}

var letters = map[string]LetterInfo{
	"A": {9, 1}, "B": {2, 3}, "C": {2, 3}, "D": {4, 2}, "E": {12, 1},
	"F": {2, 4}, "G": {3, 2}, "H": {2, 4}, "I": {9, 1}, "J": {1, 8},
	"K": {1, 5}, "L": {4, 1}, "M": {2, 3}, "N": {6, 1}, "O": {8, 1},
	"P": {2, 3}, "Q": {1, 10}, "R": {6, 1}, "S": {4, 1}, "T": {6, 1},
	"U": {4, 1}, "V": {2, 4}, "W": {2, 4}, "X": {1, 8}, "Y": {2, 4},
	"Z": {1, 10},
}

// InitialQuantities returns a fresh letter→count table for seeding a bag.
func InitialQuantities() map[string]int {
	out := make(map[string]int, len(letters))
	for l, info := range letters {
		out[l] = info.Quantity
	}
	return out
}

// Weights returns a fresh letter→points table.
func Weights() map[string]int {
	out := make(map[string]int, len(letters))
	for l, info := range letters {
		out[l] = info.Weight
	}
	return out
}

// Weight returns the point value of a single letter, 0 if unknown.
func Weight(letter string) int { return letters[letter].Weight }

// TotalInitialQuantity returns the number of tiles in a fresh bag.
func TotalInitialQuantity() int {
	total := 0
	for _, info := range letters {
		total += info.Quantity
	}
	return total
}
