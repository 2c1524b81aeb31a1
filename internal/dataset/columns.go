// Package dataset stores derivative samples for physics-informed training.
//
// A sample is one observation point of the temperature field: its
// coordinates, its grid cell, the measured value and the precomputed
// spatial and temporal derivatives at that point. Samples are stored
// row-major as flat float32 slices with a fixed column layout.
package dataset

// Column layout of a derivative sample row.
//
// Coordinates come first, then the integer grid cell the point falls in
// (stored as float32 like everything else), then the field value and its
// derivatives.
const (
	ColX    = 0 // x coordinate
	ColY    = 1 // y coordinate
	ColT    = 2 // time
	ColXIdx = 3 // grid column index of the sample point
	ColYIdx = 4 // grid row index of the sample point
	ColU    = 5 // field value u(x, y, t)
	ColUXX  = 6 // second spatial derivative in x
	ColUYY  = 7 // second spatial derivative in y
	ColUT   = 8 // first temporal derivative

	NumColumns = 9
)

// ColumnNames lists the columns in storage order, matching the expected
// CSV header.
var ColumnNames = [NumColumns]string{
	"x", "y", "t", "x_idx", "y_idx", "u", "u_xx", "u_yy", "u_t",
}
