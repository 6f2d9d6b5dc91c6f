package writer

import (
	"strconv"

	"colstats/domain/column"
	"colstats/domain/core"
)

// FingerprintColumnLimit bounds the fingerprint to the first 26
// primary statistic columns (field through sparsity) so the hash
// stays stable across runs that enable different optional column
// groups (median, quartiles, mode, percentiles).
const FingerprintColumnLimit = 26

// Fingerprint hashes the primary statistic columns of every record
// plus the three dataset-level rows (rowcount/columncount/filesize —
// the fingerprint row itself is excluded, since it cannot hash its own
// value), in column-ascending order, using 10-digit fixed-precision
// formatting for float cells so floating point rendering differences
// never perturb the hash (§6).
func Fingerprint(records []*column.Record, trailer DatasetTrailer) core.FingerprintHash {
	b := core.NewFingerprintBuilder()
	for _, r := range records {
		row := BuildRow(r, HeaderOptions{})
		for i, cell := range row {
			if i >= FingerprintColumnLimit {
				break
			}
			b.WriteField(canonicalize(cell))
		}
	}
	for _, row := range trailer.datasetRows() {
		for _, cell := range row {
			b.WriteField(canonicalize(cell))
		}
	}
	return b.Finish()
}

// canonicalize reformats a rendered cell to a fixed 10-digit float
// form when it parses as a float, leaving non-numeric cells (type
// names, sort orders, booleans, empty cells) untouched.
func canonicalize(cell string) string {
	if cell == "" {
		return cell
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return cell
	}
	return strconv.FormatFloat(f, 'f', 10, 64)
}

// DatasetTrailer is the set of trailer rows appended to the primary
// output describing the dataset as a whole rather than any one
// column. FingerprintHex is set only after Fingerprint has been
// computed over datasetRows, since the hash cannot include its own
// value.
type DatasetTrailer struct {
	RowCount       int64
	ColumnCount    int
	FileSizeBytes  int64
	FingerprintHex string
}

// datasetRows returns the three (field, value) pairs that feed the
// fingerprint projection — rowcount, columncount, and filesize — in
// the fixed order §6 specifies. qsv__fingerprint_hash is deliberately
// excluded: it is derived from these three rows plus the per-field
// rows, so including it would make the hash depend on itself.
func (t DatasetTrailer) datasetRows() [][2]string {
	return [][2]string{
		{"qsv__rowcount", strconv.FormatInt(t.RowCount, 10)},
		{"qsv__columncount", strconv.Itoa(t.ColumnCount)},
		{"qsv__filesize_bytes", strconv.FormatInt(t.FileSizeBytes, 10)},
	}
}

// TrailerRows renders all four qsv__* dataset summary rows at the
// output's full column width, with each row's value placed in the
// qsv__value column (per §6: "the qsv__value column holds the
// numeric or hex value, others are empty") rather than spilling into
// whatever column happens to sit second in the header.
func (t DatasetTrailer) TrailerRows(header []string) [][]string {
	qsvValueIdx := -1
	for i, h := range header {
		if h == "qsv__value" {
			qsvValueIdx = i
			break
		}
	}
	pairs := append(t.datasetRows(), [2]string{"qsv__fingerprint_hash", t.FingerprintHex})

	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		row := make([]string, len(header))
		row[0] = p[0]
		if qsvValueIdx >= 0 {
			row[qsvValueIdx] = p[1]
		}
		rows[i] = row
	}
	return rows
}
