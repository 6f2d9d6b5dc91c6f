package writer

import (
	"sort"
	"strconv"
	"strings"

	bivpass "colstats/adapters/bivariate"
)

// BivariateOptions selects which statistic columns appear in the
// pairwise output.
type BivariateOptions struct {
	Pearson, Spearman, Kendall, Covariance, MI, NMI bool
}

// BuildBivariateHeader assembles the pairwise header; field1/field2/
// n_pairs are always present, the rest follow BivariateOptions.
func BuildBivariateHeader(opts BivariateOptions) []string {
	h := []string{"field1", "field2", "n_pairs"}
	if opts.Pearson {
		h = append(h, "pearson")
	}
	if opts.Spearman {
		h = append(h, "spearman")
	}
	if opts.Kendall {
		h = append(h, "kendall_tau_b")
	}
	if opts.Covariance {
		h = append(h, "covariance_sample", "covariance_population")
	}
	if opts.MI {
		h = append(h, "mutual_information")
	}
	if opts.NMI {
		h = append(h, "normalized_mutual_information")
	}
	return h
}

// BuildBivariateRow renders one row in BuildBivariateHeader's order.
func BuildBivariateRow(r bivpass.Row, opts BivariateOptions) []string {
	row := []string{r.Field1, r.Field2, strconv.FormatInt(r.NPairs, 10)}
	if opts.Pearson {
		row = append(row, floatCell(r.Pearson))
	}
	if opts.Spearman {
		row = append(row, floatCell(r.Spearman))
	}
	if opts.Kendall {
		row = append(row, floatCell(r.Kendall))
	}
	if opts.Covariance {
		row = append(row, floatCell(r.CovarianceSample), floatCell(r.CovariancePopulation))
	}
	if opts.MI {
		row = append(row, floatCell(r.MutualInformation))
	}
	if opts.NMI {
		row = append(row, floatCell(r.NormalizedMutualInfo))
	}
	return row
}

// SortRows orders pairwise output rows lexicographically by
// (field1, field2), the stable order the pairwise pass's column-index
// pairing already produces but which this re-asserts explicitly so
// callers building rows out of a map don't depend on map order.
func SortRows(rows []bivpass.Row) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Field1 != rows[j].Field1 {
			return rows[i].Field1 < rows[j].Field1
		}
		return rows[i].Field2 < rows[j].Field2
	})
}

// JoinedOutputPath derives the pairwise output filename from the
// primary input path, appending a "_pairwise" suffix before the
// extension so running both passes on the same input never collides.
func JoinedOutputPath(inputPath string) string {
	if idx := strings.LastIndexByte(inputPath, '.'); idx > strings.LastIndexByte(inputPath, '/') {
		return inputPath[:idx] + "_pairwise" + inputPath[idx:]
	}
	return inputPath + "_pairwise.csv"
}
