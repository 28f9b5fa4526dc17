package engine

import "pagedb/internal/schema"

// Rows is a flat, fixed-arity row buffer: every row occupies exactly Width
// consecutive entries of Flat. This mirrors the original EntryVector
// design (a single growable buffer plus a fixed entry width) instead of a
// [][]Literal, avoiding one allocation per row.
type Rows struct {
	Width int
	Flat  []schema.Literal
}

// NewRows preallocates capacity for n rows of the given width.
func NewRows(width, n int) *Rows {
	return &Rows{Width: width, Flat: make([]schema.Literal, 0, width*n)}
}

// Append adds one row; len(row) must equal Width.
func (r *Rows) Append(row []schema.Literal) {
	r.Flat = append(r.Flat, row...)
}

// Len reports the number of rows held.
func (r *Rows) Len() int {
	if r.Width == 0 {
		return 0
	}
	return len(r.Flat) / r.Width
}

// Row returns the i-th row as a slice view into Flat.
func (r *Rows) Row(i int) []schema.Literal {
	return r.Flat[i*r.Width : (i+1)*r.Width]
}
