package shapes

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gocarina/gocsv"
)

// PointRecord is one exported shape point.
type PointRecord struct {
	Shape string  `csv:"shape"`
	Index int     `csv:"index"`
	X     float32 `csv:"x"`
	Y     float32 `csv:"y"`
	Z     float32 `csv:"z"`
}

// WriteCSV writes the points of a shape as CSV with a header row.
func WriteCSV(w io.Writer, shape string, points []mgl32.Vec3) error {
	records := make([]PointRecord, len(points))
	for i, p := range points {
		records[i] = PointRecord{Shape: shape, Index: i, X: p[0], Y: p[1], Z: p[2]}
	}
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("writing %s points: %w", shape, err)
	}
	return nil
}

// ReadCSV parses points previously written by WriteCSV.
func ReadCSV(r io.Reader) ([]PointRecord, error) {
	var records []PointRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("reading points: %w", err)
	}
	return records, nil
}
