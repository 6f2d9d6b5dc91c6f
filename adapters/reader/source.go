// Package reader implements delimited-text and spreadsheet record
// sources for the streaming engine.
package reader

// RecordSource is the shared interface both CSV and Excel inputs
// implement: a header row and a sequence of string records, plus an
// indexed seek/chunk contract for the parallel dispatcher.
type RecordSource interface {
	// Header returns the column names in input order.
	Header() ([]string, error)
	// Next returns the next record, or io.EOF when exhausted.
	Next() ([]string, error)
	// Close releases any underlying file handle.
	Close() error
}

// IndexedSource is implemented by sources that support opening an
// independent handle seeked to a specific record offset, the
// precondition for chunked parallel dispatch.
type IndexedSource interface {
	RecordSource
	// RowCount returns the total number of data records (excluding
	// header), used to decide whether a pass parallelizes (§4.1: row
	// count >= 10,000).
	RowCount() (int64, error)
	// OpenAt returns a fresh handle seeked to skip the first `offset`
	// data records, for a chunk worker to read `count` records from.
	OpenAt(offset, count int64) (RecordSource, error)
}
