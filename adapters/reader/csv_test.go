package reader

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"colstats/domain/core"
)

func writeTempCSV(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return path
}

func TestNewCSVSourceReadsHeader(t *testing.T) {
	path := writeTempCSV(t, "a,b,c\n1,2,3\n4,5,6\n")
	s, err := NewCSVSource(path, ',', true)
	if err != nil {
		t.Fatalf("NewCSVSource error: %v", err)
	}
	defer s.Close()

	header, err := s.Header()
	if err != nil {
		t.Fatalf("Header error: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, c := range want {
		if header[i] != c {
			t.Errorf("header[%d] = %q, want %q", i, header[i], c)
		}
	}
}

func TestCSVSourceNextIteratesAndEOFs(t *testing.T) {
	path := writeTempCSV(t, "a,b\n1,2\n3,4\n")
	s, err := NewCSVSource(path, ',', true)
	if err != nil {
		t.Fatalf("NewCSVSource error: %v", err)
	}
	defer s.Close()

	rec1, err := s.Next()
	if err != nil || rec1[0] != "1" || rec1[1] != "2" {
		t.Fatalf("first record = %v, err = %v", rec1, err)
	}
	rec2, err := s.Next()
	if err != nil || rec2[0] != "3" || rec2[1] != "4" {
		t.Fatalf("second record = %v, err = %v", rec2, err)
	}
	if _, err := s.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last record, got %v", err)
	}
}

func TestNewCSVSourceNoHeader(t *testing.T) {
	path := writeTempCSV(t, "1,2\n3,4\n")
	s, err := NewCSVSource(path, ',', false)
	if err != nil {
		t.Fatalf("NewCSVSource error: %v", err)
	}
	defer s.Close()

	header, _ := s.Header()
	if header != nil {
		t.Errorf("Header() = %v, want nil when hasHeader is false", header)
	}
	rec, err := s.Next()
	if err != nil || rec[0] != "1" {
		t.Fatalf("first record with no header = %v, err = %v", rec, err)
	}
}

func TestNewCSVSourceMissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "missing.csv"), ',', true)
	if err != core.ErrFileNotFound {
		t.Errorf("error = %v, want core.ErrFileNotFound", err)
	}
}

func TestCSVSourceCustomDelimiter(t *testing.T) {
	path := writeTempCSV(t, "a;b\n1;2\n")
	s, err := NewCSVSource(path, ';', true)
	if err != nil {
		t.Fatalf("NewCSVSource error: %v", err)
	}
	defer s.Close()
	rec, err := s.Next()
	if err != nil || rec[0] != "1" || rec[1] != "2" {
		t.Fatalf("record = %v, err = %v", rec, err)
	}
}

func TestCSVSourceRowCount(t *testing.T) {
	path := writeTempCSV(t, "a,b\n1,2\n3,4\n5,6\n")
	s, err := NewCSVSource(path, ',', true)
	if err != nil {
		t.Fatalf("NewCSVSource error: %v", err)
	}
	defer s.Close()

	n, err := s.RowCount()
	if err != nil {
		t.Fatalf("RowCount error: %v", err)
	}
	if n != 3 {
		t.Errorf("RowCount = %d, want 3", n)
	}
}

func TestCSVSourceRowCountNoHeader(t *testing.T) {
	path := writeTempCSV(t, "1,2\n3,4\n")
	s, err := NewCSVSource(path, ',', false)
	if err != nil {
		t.Fatalf("NewCSVSource error: %v", err)
	}
	defer s.Close()

	n, err := s.RowCount()
	if err != nil {
		t.Fatalf("RowCount error: %v", err)
	}
	if n != 2 {
		t.Errorf("RowCount = %d, want 2", n)
	}
}

func TestCSVSourceOpenAtSkipsHeaderAndOffset(t *testing.T) {
	path := writeTempCSV(t, "a,b\n1,1\n2,2\n3,3\n4,4\n5,5\n")
	s, err := NewCSVSource(path, ',', true)
	if err != nil {
		t.Fatalf("NewCSVSource error: %v", err)
	}
	defer s.Close()

	chunk, err := s.OpenAt(2, 2)
	if err != nil {
		t.Fatalf("OpenAt error: %v", err)
	}
	defer chunk.Close()

	rec1, err := chunk.Next()
	if err != nil || rec1[0] != "3" {
		t.Fatalf("first chunk record = %v, err = %v, want row starting with 3", rec1, err)
	}
	rec2, err := chunk.Next()
	if err != nil || rec2[0] != "4" {
		t.Fatalf("second chunk record = %v, err = %v, want row starting with 4", rec2, err)
	}
	if _, err := chunk.Next(); err != io.EOF {
		t.Errorf("expected io.EOF once chunk count is exhausted, got %v", err)
	}
}

func TestCSVSourceOpenAtInvalidOffset(t *testing.T) {
	path := writeTempCSV(t, "a,b\n1,1\n")
	s, err := NewCSVSource(path, ',', true)
	if err != nil {
		t.Fatalf("NewCSVSource error: %v", err)
	}
	defer s.Close()

	if _, err := s.OpenAt(50, 1); err != core.ErrIndexUnavailable {
		t.Errorf("error = %v, want core.ErrIndexUnavailable", err)
	}
}
