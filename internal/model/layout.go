package model

import "strconv"

// SeatLayout describes the seat grid of a theater screen.  Rows are
// lettered from A, columns numbered from 1; Aisle is the column after
// which the walkway is drawn.
type SeatLayout struct {
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Aisle int    `json:"aisle"`
	Label string `json:"label"`
}

var theaterLayouts = map[string]SeatLayout{
	"IMAX Phoenix":          {Rows: 8, Cols: 14, Aisle: 7, Label: "IMAX 70mm"},
	"PVR Velachery":         {Rows: 6, Cols: 10, Aisle: 5, Label: "AUDI 01"},
	"Rohini Silver Screens": {Rows: 10, Cols: 16, Aisle: 8, Label: "MAIN SCREEN"},
	"Luxe Cinemas":          {Rows: 5, Cols: 8, Aisle: 4, Label: "LUXE"},
}

// DefaultLayout is used for theaters without a dedicated layout.
var DefaultLayout = SeatLayout{Rows: 6, Cols: 8, Aisle: 4, Label: "SCREEN"}

// LayoutFor returns the seat layout of the named theater.
func LayoutFor(theater string) SeatLayout {
	if l, ok := theaterLayouts[theater]; ok {
		return l
	}
	return DefaultLayout
}

// Contains reports whether label (e.g. "C7") names a seat in the layout.
func (l SeatLayout) Contains(label string) bool {
	row, col, ok := splitSeat(label)
	if !ok {
		return false
	}
	return row < l.Rows && col >= 1 && col <= l.Cols
}

// splitSeat parses "B12" into row index 1 and column 12.
func splitSeat(label string) (row, col int, ok bool) {
	if len(label) < 2 {
		return 0, 0, false
	}
	r := label[0]
	if r < 'A' || r > 'Z' {
		return 0, 0, false
	}
	if label[1] == '0' {
		return 0, 0, false
	}
	n, err := strconv.Atoi(label[1:])
	if err != nil || n < 1 {
		return 0, 0, false
	}
	return int(r - 'A'), n, true
}
