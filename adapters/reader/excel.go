package reader

import (
	"io"

	"colstats/domain/core"

	"github.com/xuri/excelize/v2"
)

// ExcelSource reads an .xlsx workbook's first sheet as a RecordSource,
// generalizing the teacher's single-purpose Excel reader into the
// same interface the CSV source implements so the engine never
// branches on input format past the source boundary.
type ExcelSource struct {
	rows   [][]string
	pos    int
	header []string
	hasHdr bool

	f *excelize.File
}

// NewExcelSource opens path and reads its first sheet into memory.
// Unlike CSVSource, excelize has no streaming-seek primitive, so
// OpenAt slices the already-materialized row set instead of reopening
// the file.
func NewExcelSource(path string, hasHeader bool) (*ExcelSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, core.ErrFileNotFound
	}
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		f.Close()
		return nil, core.NewMalformedRecordError(0, err)
	}
	s := &ExcelSource{f: f, rows: rows, hasHdr: hasHeader}
	if hasHeader && len(rows) > 0 {
		s.header = rows[0]
		s.pos = 1
	}
	return s, nil
}

func (s *ExcelSource) Header() ([]string, error) { return s.header, nil }

func (s *ExcelSource) Next() ([]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	rec := s.rows[s.pos]
	s.pos++
	return rec, nil
}

func (s *ExcelSource) Close() error { return s.f.Close() }

func (s *ExcelSource) RowCount() (int64, error) {
	start := 0
	if s.hasHdr {
		start = 1
	}
	return int64(len(s.rows) - start), nil
}

func (s *ExcelSource) OpenAt(offset, count int64) (RecordSource, error) {
	start := 0
	if s.hasHdr {
		start = 1
	}
	from := start + int(offset)
	to := from + int(count)
	if to > len(s.rows) {
		to = len(s.rows)
	}
	if from > len(s.rows) {
		from = len(s.rows)
	}
	return &sliceSource{rows: s.rows[from:to]}, nil
}

type sliceSource struct {
	rows [][]string
	pos  int
}

func (s *sliceSource) Header() ([]string, error) { return nil, nil }

func (s *sliceSource) Next() ([]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	rec := s.rows[s.pos]
	s.pos++
	return rec, nil
}

func (s *sliceSource) Close() error { return nil }
