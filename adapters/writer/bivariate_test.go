package writer

import (
	"testing"

	bivpass "colstats/adapters/bivariate"
)

func TestBuildBivariateHeaderAndRowWidthMatch(t *testing.T) {
	opts := BivariateOptions{Pearson: true, Spearman: true, Kendall: true, Covariance: true, MI: true, NMI: true}
	h := BuildBivariateHeader(opts)
	row := BuildBivariateRow(bivpass.Row{Field1: "a", Field2: "b", NPairs: 10}, opts)
	if len(h) != len(row) {
		t.Errorf("len(header) = %d, len(row) = %d, must match", len(h), len(row))
	}
}

func TestBuildBivariateHeaderMinimal(t *testing.T) {
	h := BuildBivariateHeader(BivariateOptions{})
	want := []string{"field1", "field2", "n_pairs"}
	if len(h) != len(want) {
		t.Fatalf("header = %v, want %v", h, want)
	}
	for i := range want {
		if h[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, h[i], want[i])
		}
	}
}

func TestSortRowsOrdersLexicographically(t *testing.T) {
	rows := []bivpass.Row{
		{Field1: "b", Field2: "a"},
		{Field1: "a", Field2: "z"},
		{Field1: "a", Field2: "a"},
	}
	SortRows(rows)
	want := [][2]string{{"a", "a"}, {"a", "z"}, {"b", "a"}}
	for i, w := range want {
		if rows[i].Field1 != w[0] || rows[i].Field2 != w[1] {
			t.Errorf("rows[%d] = (%s, %s), want (%s, %s)", i, rows[i].Field1, rows[i].Field2, w[0], w[1])
		}
	}
}

func TestJoinedOutputPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"data.csv", "data_pairwise.csv"},
		{"/tmp/in/data.csv", "/tmp/in/data_pairwise.csv"},
		{"/tmp/in/noext", "/tmp/in/noext_pairwise.csv"},
	}
	for _, tt := range tests {
		if got := JoinedOutputPath(tt.in); got != tt.want {
			t.Errorf("JoinedOutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
