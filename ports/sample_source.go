package ports

import (
	"context"
)

// SampleSource provides read-only access to tabular sample data
type SampleSource interface {
	// Columns lists the header names in file order
	Columns(ctx context.Context) ([]string, error)

	// ReadColumn returns the numeric values of a column. Blank and
	// non-numeric cells are skipped.
	ReadColumn(ctx context.Context, name string) ([]float64, error)
}
