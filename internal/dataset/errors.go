package dataset

import "errors"

// Sentinel errors returned by the loaders. Callers match them with errors.Is.
var (
	// ErrEmptyDataset is returned when a source decodes to zero records.
	ErrEmptyDataset = errors.New("dataset has no records")
	// ErrUnsupportedShape is returned when a document is not an array of
	// records, an object with a rows array, or an object of records.
	ErrUnsupportedShape = errors.New("unsupported dataset shape")
	// ErrUnsupportedFormat is returned for an unknown format name.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	// ErrInvalidTable is returned when a SQL source names an unsafe table.
	ErrInvalidTable = errors.New("invalid table name")
)
