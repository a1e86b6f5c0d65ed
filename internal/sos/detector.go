package sos

import (
	"sort"

	"github.com/rocketscienceinc/sos-backend/internal/entity"
)

// lines are the four undirected lines through a cell: horizontal, vertical, ↘ and ↗.
var lines = [4]entity.Coord{
	{Row: 0, Col: 1},
	{Row: 1, Col: 0},
	{Row: 1, Col: 1},
	{Row: -1, Col: 1},
}

// Triple identifies one S-O-S line by its cells in row-major order, so the same line has
// the same identity whichever of its cells completed it.
type Triple [3]entity.Coord

func newTriple(a, b, c entity.Coord) Triple {
	t := Triple{a, b, c}
	if t[1].Less(t[0]) {
		t[0], t[1] = t[1], t[0]
	}
	if t[2].Less(t[1]) {
		t[1], t[2] = t[2], t[1]
	}
	if t[1].Less(t[0]) {
		t[0], t[1] = t[1], t[0]
	}
	return t
}

// Detector finds S-O-S lines completed through a cell and remembers which ones it has
// already credited. One Detector lives for exactly one game.
type Detector struct {
	credited map[Triple]struct{}
}

func NewDetector() *Detector {
	return &Detector{
		credited: make(map[Triple]struct{}),
	}
}

// Scan returns how many S-O-S lines through (row, col) are new, and records them.
// Scanning the same cell again without new placements returns 0.
func (that *Detector) Scan(board *entity.Board, row, col int) int {
	fresh := 0
	for _, triple := range candidates(board, row, col) {
		if _, seen := that.credited[triple]; seen {
			continue
		}
		that.credited[triple] = struct{}{}
		fresh++
	}
	return fresh
}

func (that *Detector) Len() int {
	return len(that.credited)
}

// Credited returns every recorded line in row-major order of their first cells.
func (that *Detector) Credited() []Triple {
	triples := make([]Triple, 0, len(that.credited))
	for triple := range that.credited {
		triples = append(triples, triple)
	}

	sort.Slice(triples, func(i, j int) bool {
		for k := range triples[i] {
			if triples[i][k] != triples[j][k] {
				return triples[i][k].Less(triples[j][k])
			}
		}
		return false
	})

	return triples
}

// candidates lists every S-O-S line the mark at (row, col) takes part in. An S can lead
// or trail a line in each of the 8 directions; an O can only sit in the middle of one of
// the 4 lines. Off-board cells read as Empty, so edges need no special handling.
func candidates(board *entity.Board, row, col int) []Triple {
	here := entity.Coord{Row: row, Col: col}

	var found []Triple
	switch board.Get(row, col) {
	case entity.MarkS:
		for _, d := range lines {
			for _, sign := range [2]int{1, -1} {
				dr, dc := d.Row*sign, d.Col*sign
				middle := entity.Coord{Row: row + dr, Col: col + dc}
				far := entity.Coord{Row: row + 2*dr, Col: col + 2*dc}

				if board.Get(middle.Row, middle.Col) == entity.MarkO && board.Get(far.Row, far.Col) == entity.MarkS {
					found = append(found, newTriple(here, middle, far))
				}
			}
		}
	case entity.MarkO:
		for _, d := range lines {
			before := entity.Coord{Row: row - d.Row, Col: col - d.Col}
			after := entity.Coord{Row: row + d.Row, Col: col + d.Col}

			if board.Get(before.Row, before.Col) == entity.MarkS && board.Get(after.Row, after.Col) == entity.MarkS {
				found = append(found, newTriple(before, here, after))
			}
		}
	}

	return found
}
