package bivariate

import (
	"math"

	dombiv "colstats/domain/bivariate"
)

// Row is one finalized bivariate output row. A nil *float64 renders
// as an empty cell, carrying the statistic's undefinedness the way
// §7 requires.
type Row struct {
	Field1, Field2 string

	Pearson               *float64
	Spearman              *float64
	Kendall               *float64
	CovarianceSample      *float64
	CovariancePopulation  *float64
	MutualInformation     *float64
	NormalizedMutualInfo  *float64

	NPairs int64
}

// FinalizeWhich selects which statistics to compute, mirroring the
// CLI's bivariate-stats selector.
type FinalizeWhich struct {
	Pearson, Spearman, Kendall, Covariance, MI, NMI bool
}

// Finalize computes the requested statistics for one pair. field1Card
// and field2Card gate MI/NMI against the configured cardinality
// ceiling.
func Finalize(p *dombiv.Pair, name1, name2 string, which FinalizeWhich, field1Card, field2Card, ceiling int64) Row {
	r := Row{Field1: name1, Field2: name2, NPairs: p.Corr.Count}

	if which.Pearson {
		r.Pearson = nanToNil(p.Corr.Pearson())
	}
	if which.Covariance {
		r.CovarianceSample = nanToNil(p.Corr.CovarianceSample())
		r.CovariancePopulation = nanToNil(p.Corr.CovariancePopulation())
	}
	if which.Spearman {
		r.Spearman = nanToNil(Spearman(p.X, p.Y))
	}
	if which.Kendall {
		r.Kendall = nanToNil(Kendall(p.X, p.Y))
	}

	skipInfo := ceiling > 0 && (field1Card > ceiling || field2Card > ceiling)
	if which.MI && !skipInfo {
		r.MutualInformation = nanToNil(MutualInformation(p.Joint, p.TotalPairs))
	}
	if which.NMI && !skipInfo {
		r.NormalizedMutualInfo = nanToNil(NormalizedMutualInformation(p.Joint, p.TotalPairs))
	}

	return r
}

func nanToNil(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
